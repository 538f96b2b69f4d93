package promote

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// ProgressLog collects the human-readable progress lines of one promotion
// task, in order, and tees them to the service logger. It is the only
// channel through which a detached worker reports.
type ProgressLog struct {
	mu     sync.Mutex
	lines  []string
	logger zerolog.Logger
}

func NewProgressLog(logger zerolog.Logger) *ProgressLog {
	return &ProgressLog{logger: logger}
}

func (l *ProgressLog) Println(msg string) {
	l.mu.Lock()
	l.lines = append(l.lines, msg)
	l.mu.Unlock()
	l.logger.Info().Msg(msg)
}

func (l *ProgressLog) Error(msg string) {
	l.mu.Lock()
	l.lines = append(l.lines, "ERROR: "+msg)
	l.mu.Unlock()
	l.logger.Error().Msg(msg)
}

func (l *ProgressLog) Errorf(format string, args ...any) {
	l.Error(fmt.Sprintf(format, args...))
}

// Lines returns a copy of the lines recorded so far.
func (l *ProgressLog) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string{}, l.lines...)
}
