package registry

import (
	"github.com/ngrobisa/artifactory-plugin/internal/artifactory"
	"github.com/ngrobisa/artifactory-plugin/internal/config"
	"github.com/ngrobisa/artifactory-plugin/internal/entity"
	"github.com/samber/lo"
)

// Registry holds the configured Artifactory server descriptors.
type Registry struct {
	servers map[string]*Server
}

// Server is one configured Artifactory instance.
type Server struct {
	cfg config.Server
}

func New(servers []config.Server) *Registry {
	r := &Registry{servers: map[string]*Server{}}
	for _, s := range servers {
		r.servers[s.ID] = &Server{cfg: s}
	}
	return r
}

func (r *Registry) Server(id string) (*Server, error) {
	s, ok := r.servers[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return s, nil
}

func (s *Server) ID() string  { return s.cfg.ID }
func (s *Server) URL() string { return s.cfg.URL }

// TargetRepositories lists the repository keys a build may be promoted to,
// release repositories ordered before generic ones.
func (s *Server) TargetRepositories() []string {
	return lo.Uniq(append(
		append([]string{}, s.cfg.ReleaseRepositories...),
		s.cfg.Repositories...,
	))
}

// SourceRepositories lists the keys builds resolve from.
func (s *Server) SourceRepositories() []string {
	return append([]string{}, s.cfg.Repositories...)
}

// CredentialsFor resolves the effective deployer credentials for a job,
// honoring the per-job override when one is configured.
func (s *Server) CredentialsFor(project string) config.Credentials {
	if creds, ok := s.cfg.JobOverrides[project]; ok {
		return creds
	}
	return s.cfg.Deployer
}

// NewClient opens an authenticated session against this server.
func (s *Server) NewClient(creds config.Credentials) (*artifactory.Client, error) {
	return artifactory.NewClient(artifactory.ClientConfig{
		BaseURL:  s.cfg.URL,
		Username: creds.Username,
		Password: creds.Password,
		Timeout:  s.cfg.Timeout.Std(),
	})
}
