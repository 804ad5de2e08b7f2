// Package pending stores chat-confirmation pending actions behind a
// keyed repository with explicit TTL, replacing the process-local
// dictionaries such flows tend to accumulate. Entries expire; nothing
// here survives on process memory alone when the redis backend is used.
package pending

import (
	"context"
	"time"
)

// DefaultTTL is applied when a caller does not set an expiry.
const DefaultTTL = 15 * time.Minute

// Action is one awaiting-confirmation action owned by a user.
type Action struct {
	ID        string    `json:"id"`
	Owner     string    `json:"owner"`
	Payload   string    `json:"payload"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the action has passed its expiry at now.
func (a Action) Expired(now time.Time) bool {
	return !a.ExpiresAt.IsZero() && now.After(a.ExpiresAt)
}

// Repository is the keyed pending-action store.
type Repository interface {
	// Put stores the action until its ExpiresAt.
	Put(ctx context.Context, a Action) error

	// Get returns the action or ErrNotFound when absent or expired.
	Get(ctx context.Context, id string) (Action, error)

	// Delete removes the action; deleting an absent id is not an error.
	Delete(ctx context.Context, id string) error
}
