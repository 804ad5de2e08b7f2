package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tempohq/tempo/internal/domain/model"
)

// MemoryStore implements Store with in-process maps. It is used by
// tests and by deployments that do not need durable history.
type MemoryStore struct {
	mu        sync.RWMutex
	events    map[string][]model.Event    // userID -> events
	eventIDs  map[string]struct{}         // global event-id set
	snapshots map[string][]model.Snapshot // userID -> snapshots
	closed    bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		events:    map[string][]model.Event{},
		eventIDs:  map[string]struct{}{},
		snapshots: map[string][]model.Snapshot{},
	}
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// AppendEvent implements EventSource.
func (m *MemoryStore) AppendEvent(_ context.Context, e model.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if _, dup := m.eventIDs[e.ID]; dup {
		return ErrDuplicateEvent
	}
	m.eventIDs[e.ID] = struct{}{}
	m.events[e.UserID] = append(m.events[e.UserID], e)
	return nil
}

// QueryEvents implements EventSource.
func (m *MemoryStore) QueryEvents(ctx context.Context, userID string, kinds []model.EventKind, start, end time.Time) ([]model.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	want := map[model.EventKind]struct{}{}
	for _, k := range kinds {
		want[k] = struct{}{}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	var out []model.Event
	for _, e := range m.events[userID] {
		if !e.Timestamp.After(start) || e.Timestamp.After(end) {
			continue
		}
		if len(want) > 0 {
			if _, ok := want[e.Kind]; !ok {
				continue
			}
		}
		out = append(out, e)
	}
	return out, nil
}

// LastEventAt implements EventSource.
func (m *MemoryStore) LastEventAt(_ context.Context, userID string) (time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return time.Time{}, ErrClosed
	}
	events := m.events[userID]
	if len(events) == 0 {
		return time.Time{}, ErrNotFound
	}
	last := events[0].Timestamp
	for _, e := range events[1:] {
		if e.Timestamp.After(last) {
			last = e.Timestamp
		}
	}
	return last, nil
}

// AppendSnapshot implements SnapshotStore.
func (m *MemoryStore) AppendSnapshot(_ context.Context, s model.Snapshot) (string, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if err := s.Validate(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return "", ErrClosed
	}
	m.snapshots[s.UserID] = append(m.snapshots[s.UserID], s)
	return s.ID, nil
}

// QuerySnapshots implements SnapshotStore.
func (m *MemoryStore) QuerySnapshots(_ context.Context, userID string, family model.Family, tr model.TimeRange, since time.Time, limit int) ([]model.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	var out []model.Snapshot
	for _, s := range m.snapshots[userID] {
		if s.Family != family || s.TimeRange != tr || s.ComputedAt.Before(since) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ComputedAt.After(out[j].ComputedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
