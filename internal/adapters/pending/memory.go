package pending

import (
	"context"
	"sync"
	"time"
)

// MemoryRepository is a mutex-guarded map implementation used in tests
// and when no redis address is configured. Expired entries are removed
// lazily on access.
type MemoryRepository struct {
	mu      sync.Mutex
	actions map[string]Action
	now     func() time.Time
	ttl     time.Duration
}

// NewMemoryRepository creates an empty in-memory repository with
// configuration options.
func NewMemoryRepository(opts ...Option) *MemoryRepository {
	m := &MemoryRepository{
		actions: make(map[string]Action),
		now:     time.Now,
		ttl:     DefaultTTL,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Put implements Repository.
func (m *MemoryRepository) Put(_ context.Context, a Action) error {
	if a.ID == "" || a.Owner == "" {
		return ErrInvalid
	}
	if a.ExpiresAt.IsZero() {
		a.ExpiresAt = m.now().Add(m.ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actions[a.ID] = a
	return nil
}

// Get implements Repository.
func (m *MemoryRepository) Get(_ context.Context, id string) (Action, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.actions[id]
	if !ok {
		return Action{}, ErrNotFound
	}
	if a.Expired(m.now()) {
		delete(m.actions, id)
		return Action{}, ErrExpired
	}
	return a, nil
}

// Delete implements Repository.
func (m *MemoryRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.actions, id)
	return nil
}
