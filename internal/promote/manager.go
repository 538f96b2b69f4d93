package promote

import (
	"fmt"
	"sync"
	"time"

	"github.com/ngrobisa/artifactory-plugin/internal/entity"
	"github.com/ngrobisa/artifactory-plugin/internal/registry"
	"github.com/rs/zerolog"
)

// Manager owns one Action per build, created lazily and kept for the
// build's lifetime so the single-task invariant holds across requests.
type Manager struct {
	recorder   Recorder
	minVisible time.Duration
	logger     zerolog.Logger

	mu      sync.Mutex
	actions map[string]*Action
}

func NewManager(recorder Recorder, minVisible time.Duration, logger zerolog.Logger) *Manager {
	return &Manager{
		recorder:   recorder,
		minVisible: minVisible,
		logger:     logger,
		actions:    map[string]*Action{},
	}
}

func (m *Manager) ActionFor(build entity.Build, server *registry.Server) *Action {
	key := fmt.Sprintf("%s#%d", build.Project, build.Number)
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.actions[key]; ok {
		return a
	}
	a := &Action{
		build:      build,
		server:     server,
		recorder:   m.recorder,
		minVisible: m.minVisible,
		logger:     m.logger,
	}
	m.actions[key] = a
	return a
}
