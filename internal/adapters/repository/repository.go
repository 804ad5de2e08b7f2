// Package repository defines the event-source and snapshot-store
// contracts the scoring engine reads from and writes to, plus the
// SQLite and in-memory implementations.
package repository

import (
	"context"
	"time"

	"github.com/tempohq/tempo/internal/domain/model"
)

// EventSource provides read access to the append-only behavioral event
// stream, plus the single append used when a collaborator records an
// event through this service. Ordering of query results is not
// guaranteed; extractors must not rely on it.
type EventSource interface {
	// AppendEvent records one immutable event.
	AppendEvent(ctx context.Context, e model.Event) error

	// QueryEvents returns the user's events with timestamps in
	// (start, end], optionally filtered to the given kinds. A nil or
	// empty kinds slice means all kinds.
	QueryEvents(ctx context.Context, userID string, kinds []model.EventKind, start, end time.Time) ([]model.Event, error)

	// LastEventAt returns the timestamp of the user's most recent
	// event, or ErrNotFound when the user has none.
	LastEventAt(ctx context.Context, userID string) (time.Time, error)
}

// SnapshotStore persists score snapshots append-only. Snapshots are
// never updated in place; recomputation appends a new row.
type SnapshotStore interface {
	// AppendSnapshot stores s and returns its id. When s.ID is empty an
	// id is assigned.
	AppendSnapshot(ctx context.Context, s model.Snapshot) (string, error)

	// QuerySnapshots returns the user's snapshots for the family and
	// range computed since the given time, newest first, capped at
	// limit (0 means no cap).
	QuerySnapshots(ctx context.Context, userID string, family model.Family, tr model.TimeRange, since time.Time, limit int) ([]model.Snapshot, error)
}

// Store bundles both sides for implementations that back the whole
// engine with one storage engine.
type Store interface {
	EventSource
	SnapshotStore

	// Close releases underlying resources.
	Close() error
}
