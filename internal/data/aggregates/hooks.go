package aggregates

import (
	"strings"
	"time"

	"github.com/yungbote/reviewloop-backend/internal/platform/logger"
)

// Hooks captures aggregate-level observability events.
type Hooks interface {
	ObserveOperation(name, status string, dur time.Duration)
	IncConflict(name string)
	IncRetry(name string)
}

type noopHooks struct{}

func (noopHooks) ObserveOperation(string, string, time.Duration) {}
func (noopHooks) IncConflict(string)                             {}
func (noopHooks) IncRetry(string)                                {}

type logHooks struct {
	log  *logger.Logger
	slow time.Duration
}

// NewLogHooks reports aggregate operations through the structured logger. Operations
// slower than slow are logged at warn; slow <= 0 disables that.
func NewLogHooks(log *logger.Logger, slow time.Duration) Hooks {
	if log == nil {
		return noopHooks{}
	}
	return &logHooks{log: log.With("component", "AggregateHooks"), slow: slow}
}

func (h *logHooks) ObserveOperation(name, status string, dur time.Duration) {
	name = strings.TrimSpace(name)
	if h.slow > 0 && dur >= h.slow {
		h.log.Warn("Slow aggregate write", "op", name, "status", status, "duration_ms", dur.Milliseconds())
		return
	}
	h.log.Debug("Aggregate write", "op", name, "status", status, "duration_ms", dur.Milliseconds())
}

func (h *logHooks) IncConflict(name string) {
	h.log.Info("Aggregate write conflict", "op", strings.TrimSpace(name))
}

func (h *logHooks) IncRetry(name string) {
	h.log.Warn("Aggregate write retryable failure", "op", strings.TrimSpace(name))
}

type multiHooks []Hooks

// MultiHooks fans every event out to each non-nil hook in order.
func MultiHooks(hooks ...Hooks) Hooks {
	out := make(multiHooks, 0, len(hooks))
	for _, h := range hooks {
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}

func (m multiHooks) ObserveOperation(name, status string, dur time.Duration) {
	for _, h := range m {
		h.ObserveOperation(name, status, dur)
	}
}

func (m multiHooks) IncConflict(name string) {
	for _, h := range m {
		h.IncConflict(name)
	}
}

func (m multiHooks) IncRetry(name string) {
	for _, h := range m {
		h.IncRetry(name)
	}
}
