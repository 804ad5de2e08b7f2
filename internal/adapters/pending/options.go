package pending

import "time"

// Option applies a configuration option to the MemoryRepository.
type Option func(*MemoryRepository)

// WithClock overrides the repository clock, used by tests.
func WithClock(now func() time.Time) Option {
	return func(m *MemoryRepository) {
		if now != nil {
			m.now = now
		}
	}
}

// WithTTL overrides the expiry applied to actions stored without one.
func WithTTL(d time.Duration) Option {
	return func(m *MemoryRepository) {
		if d > 0 {
			m.ttl = d
		}
	}
}
