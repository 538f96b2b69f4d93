package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultMinVisibleDuration = 2 * time.Second

// Duration decodes "2s" style YAML values.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("config: invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

type Credentials struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Server describes one Artifactory instance the service may promote to.
// Repository keys are kept in the order the operator configured them.
type Server struct {
	ID                  string                 `yaml:"id"`
	URL                 string                 `yaml:"url"`
	ReleaseRepositories []string               `yaml:"release_repositories"`
	Repositories        []string               `yaml:"repositories"`
	Timeout             Duration               `yaml:"timeout"`
	Deployer            Credentials            `yaml:"deployer"`
	JobOverrides        map[string]Credentials `yaml:"job_overrides"`
}

type Permissions struct {
	// Promote lists users allowed to promote builds. "*" allows everyone.
	Promote []string `yaml:"promote"`
}

type Worker struct {
	// MinVisibleDuration is the floor on how long a promotion task stays
	// observable in the progress view, so a page refresh right after
	// submission does not race a task that finished instantly.
	MinVisibleDuration Duration `yaml:"min_visible_duration"`
}

type Config struct {
	Listen      string      `yaml:"listen"`
	DataDir     string      `yaml:"data_dir"`
	Permissions Permissions `yaml:"permissions"`
	Worker      Worker      `yaml:"worker"`
	Servers     []Server    `yaml:"servers"`
}

func Default() *Config {
	return &Config{
		Listen:  ":8080",
		DataDir: "./data",
		Worker:  Worker{MinVisibleDuration: Duration(DefaultMinVisibleDuration)},
	}
}

// Load reads and validates a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if len(c.Servers) == 0 {
		return fmt.Errorf("config: at least one server is required")
	}
	seen := map[string]bool{}
	for i, s := range c.Servers {
		if s.ID == "" {
			return fmt.Errorf("config: servers[%d]: id is required", i)
		}
		if s.URL == "" {
			return fmt.Errorf("config: server %s: url is required", s.ID)
		}
		if seen[s.ID] {
			return fmt.Errorf("config: duplicate server id %s", s.ID)
		}
		seen[s.ID] = true
	}
	if c.Worker.MinVisibleDuration < 0 {
		return fmt.Errorf("config: worker.min_visible_duration must not be negative")
	}
	return nil
}
