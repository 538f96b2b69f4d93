package promote

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ngrobisa/artifactory-plugin/internal/entity"
	"github.com/ngrobisa/artifactory-plugin/internal/registry"
	"github.com/rs/zerolog"
)

type View string

const (
	ViewForm     View = "form"
	ViewProgress View = "progress"
)

// taskHandle is the explicit handle of one in-flight promotion task.
type taskHandle struct {
	taskID    string
	startedAt time.Time
	log       *ProgressLog
}

// Action is the per-build promotion facade. It owns the single-task
// invariant: at most one worker may run per build, enforced by a guarded
// check-and-set on the task handle. When the worker ends, for any reason,
// the handle is cleared and the action is idle again.
type Action struct {
	build      entity.Build
	server     *registry.Server
	recorder   Recorder
	minVisible time.Duration
	logger     zerolog.Logger

	mu      sync.Mutex
	handle  *taskHandle
	lastLog *ProgressLog
}

// ChooseView selects the progress view while a task is in flight, the
// submission form otherwise.
func (a *Action) ChooseView() View {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.handle != nil {
		return ViewProgress
	}
	return ViewForm
}

func (a *Action) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.handle != nil
}

// TargetRepositories lists the promotion targets the build's server exposes,
// release repositories first.
func (a *Action) TargetRepositories() []string {
	return a.server.TargetRepositories()
}

func (a *Action) TargetStatuses() []entity.TargetStatus {
	return entity.TargetStatuses()
}

// Submit validates the request and starts the promotion worker. A second
// submission while a task is running is rejected with ErrAlreadyInProgress;
// nothing is queued. The invoking user's identity is captured now, into the
// task payload, and never re-resolved mid-flight.
func (a *Action) Submit(req entity.PromotionRequest, ciUser string) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	if ciUser == "" {
		ciUser = "anonymous"
	}

	a.mu.Lock()
	if a.handle != nil {
		a.mu.Unlock()
		return "", entity.ErrAlreadyInProgress
	}
	taskID := uuid.NewString()
	log := NewProgressLog(a.logger.With().
		Str("project", a.build.Project).
		Int("build", a.build.Number).
		Str("task_id", taskID).
		Logger())
	a.handle = &taskHandle{taskID: taskID, startedAt: time.Now(), log: log}
	a.lastLog = log
	a.mu.Unlock()

	w := &Worker{
		build:      a.build,
		req:        req,
		server:     a.server,
		creds:      a.server.CredentialsFor(a.build.Project),
		ciUser:     ciUser,
		taskID:     taskID,
		log:        log,
		recorder:   a.recorder,
		minVisible: a.minVisible,
		done:       a.clear,
	}
	go w.Run(context.Background())
	return taskID, nil
}

// Progress reports the running task's start time and log so far.
func (a *Action) Progress() (time.Time, []string, bool) {
	a.mu.Lock()
	h := a.handle
	a.mu.Unlock()
	if h == nil {
		return time.Time{}, nil, false
	}
	return h.startedAt, h.log.Lines(), true
}

// Log returns the most recent task's log, which stays observable after the
// action has returned to idle.
func (a *Action) Log() []string {
	a.mu.Lock()
	log := a.lastLog
	a.mu.Unlock()
	if log == nil {
		return nil
	}
	return log.Lines()
}

func (a *Action) clear() {
	a.mu.Lock()
	a.handle = nil
	a.mu.Unlock()
}
