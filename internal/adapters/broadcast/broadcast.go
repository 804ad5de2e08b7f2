// Package broadcast fans freshly computed scores out to interested
// subscribers. Delivery is best effort: a failing subscriber never
// blocks or fails the computation that produced the update.
package broadcast

import (
	"context"
	"sync"
	"time"

	"github.com/tempohq/tempo/pkg/logger"
	"github.com/tempohq/tempo/pkg/metrics"
)

// ScoreUpdate is the payload delivered to subscribers after a
// successful score computation.
type ScoreUpdate struct {
	UserID    string    `json:"user_id"`
	Family    string    `json:"family"`
	TimeRange string    `json:"time_range"`
	Score     int       `json:"score"`
	Category  string    `json:"category"`
	Timestamp time.Time `json:"timestamp"`
}

// Hook receives score updates. Implementations must be safe for
// concurrent use and should return quickly.
type Hook interface {
	Publish(ctx context.Context, update ScoreUpdate) error
}

// Fanout delivers updates to a set of registered hooks.
type Fanout struct {
	mu    sync.RWMutex
	hooks []Hook
	log   logger.Logger
}

// NewFanout creates an empty fanout.
func NewFanout(opts ...Option) *Fanout {
	f := &Fanout{
		log: logger.Get().Named("broadcast"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Subscribe registers a hook for future updates.
func (f *Fanout) Subscribe(h Hook) {
	if h == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hooks = append(f.hooks, h)
}

// Publish delivers the update to every hook. Failures are logged and
// counted but never returned to the caller.
func (f *Fanout) Publish(ctx context.Context, update ScoreUpdate) error {
	f.mu.RLock()
	hooks := make([]Hook, len(f.hooks))
	copy(hooks, f.hooks)
	f.mu.RUnlock()

	for _, h := range hooks {
		if err := h.Publish(ctx, update); err != nil {
			metrics.RecordBroadcastFailure()
			f.log.Warn(ctx, "broadcast hook failed",
				logger.String("user_id", update.UserID),
				logger.String("family", update.Family),
				logger.Error(err))
		}
	}
	return nil
}

// Option configures a Fanout.
type Option func(*Fanout)

// WithLogger overrides the default named logger.
func WithLogger(log logger.Logger) Option {
	return func(f *Fanout) {
		if log != nil {
			f.log = log
		}
	}
}
