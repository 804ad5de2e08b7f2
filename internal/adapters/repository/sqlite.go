package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/tempohq/tempo/internal/domain/model"
	"github.com/tempohq/tempo/pkg/metrics"
)

// dbDirPermission is the mode for a created database directory.
const dbDirPermission = 0o750

// SQLiteStore implements Store on a single SQLite database. Both tables
// are append-only; neither events nor snapshots are ever updated in
// place.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path, configures
// pragmas, and runs migrations.
func Open(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, dbDirPermission); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	s := &SQLiteStore{db: db}
	if err := s.configurePragmas(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// OpenMemory opens an in-memory SQLite database, used by tests.
func OpenMemory() (*SQLiteStore, error) {
	return Open(":memory:")
}

func (s *SQLiteStore) configurePragmas() error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := s.db.Exec(p); err != nil {
			return fmt.Errorf("pragma %q: %w", p, err)
		}
	}
	return nil
}

func (s *SQLiteStore) migrate() error {
	const schema = `
CREATE TABLE IF NOT EXISTS events (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	kind       TEXT NOT NULL,
	category   TEXT NOT NULL DEFAULT '',
	ts         INTEGER NOT NULL,
	meta       TEXT NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS idx_events_user_ts ON events(user_id, ts);
CREATE INDEX IF NOT EXISTS idx_events_user_kind_ts ON events(user_id, kind, ts);

CREATE TABLE IF NOT EXISTS snapshots (
	id           TEXT PRIMARY KEY,
	user_id      TEXT NOT NULL,
	family       TEXT NOT NULL,
	time_range   TEXT NOT NULL,
	computed_at  INTEGER NOT NULL,
	overall      REAL NOT NULL,
	category     TEXT NOT NULL DEFAULT '',
	components   TEXT NOT NULL DEFAULT '{}',
	confidence   REAL NOT NULL,
	coverage     REAL NOT NULL,
	drivers      TEXT NOT NULL DEFAULT '[]',
	next_actions TEXT NOT NULL DEFAULT '[]',
	baseline     REAL,
	trend        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_lookup
	ON snapshots(user_id, family, time_range, computed_at DESC);
`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// AppendEvent implements EventSource.
func (s *SQLiteStore) AppendEvent(ctx context.Context, e model.Event) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreLatency("append_event", float64(time.Since(start).Milliseconds()))
	}()

	if err := e.Validate(); err != nil {
		return err
	}
	meta, err := json.Marshal(e.Meta)
	if err != nil {
		return fmt.Errorf("marshal meta: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO events (id, user_id, kind, category, ts, meta) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, string(e.Kind), e.Category, e.Timestamp.UnixMilli(), string(meta),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrDuplicateEvent, e.ID)
		}
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// QueryEvents implements EventSource.
func (s *SQLiteStore) QueryEvents(ctx context.Context, userID string, kinds []model.EventKind, start, end time.Time) ([]model.Event, error) {
	qStart := time.Now()
	defer func() {
		metrics.RecordStoreLatency("query_events", float64(time.Since(qStart).Milliseconds()))
	}()

	query := `SELECT id, user_id, kind, category, ts, meta FROM events WHERE user_id = ? AND ts > ? AND ts <= ?`
	args := []any{userID, start.UnixMilli(), end.UnixMilli()}
	if len(kinds) > 0 {
		query += ` AND kind IN (?` + strings.Repeat(",?", len(kinds)-1) + `)`
		for _, k := range kinds {
			args = append(args, string(k))
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []model.Event
	for rows.Next() {
		var (
			e    model.Event
			kind string
			ts   int64
			meta string
		)
		if err := rows.Scan(&e.ID, &e.UserID, &kind, &e.Category, &ts, &meta); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Kind = model.EventKind(kind)
		e.Timestamp = time.UnixMilli(ts).UTC()
		if err := json.Unmarshal([]byte(meta), &e.Meta); err != nil {
			return nil, fmt.Errorf("unmarshal meta: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return out, nil
}

// LastEventAt implements EventSource.
func (s *SQLiteStore) LastEventAt(ctx context.Context, userID string) (time.Time, error) {
	var ts sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(ts) FROM events WHERE user_id = ?`, userID,
	).Scan(&ts)
	if err != nil {
		return time.Time{}, fmt.Errorf("query last event: %w", err)
	}
	if !ts.Valid {
		return time.Time{}, ErrNotFound
	}
	return time.UnixMilli(ts.Int64).UTC(), nil
}

// AppendSnapshot implements SnapshotStore.
func (s *SQLiteStore) AppendSnapshot(ctx context.Context, snap model.Snapshot) (string, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreLatency("append_snapshot", float64(time.Since(start).Milliseconds()))
	}()

	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	if err := snap.Validate(); err != nil {
		return "", err
	}
	components, err := json.Marshal(snap.Components)
	if err != nil {
		return "", fmt.Errorf("marshal components: %w", err)
	}
	drivers, err := json.Marshal(snap.Drivers)
	if err != nil {
		return "", fmt.Errorf("marshal drivers: %w", err)
	}
	actions, err := json.Marshal(snap.NextActions)
	if err != nil {
		return "", fmt.Errorf("marshal actions: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots
		 (id, user_id, family, time_range, computed_at, overall, category, components, confidence, coverage, drivers, next_actions, baseline, trend)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.UserID, string(snap.Family), string(snap.TimeRange),
		snap.ComputedAt.UnixMilli(), snap.Overall, snap.Category, string(components),
		snap.Confidence, snap.Coverage, string(drivers), string(actions),
		snap.Baseline, string(snap.Trend),
	)
	if err != nil {
		return "", fmt.Errorf("insert snapshot: %w", err)
	}
	metrics.RecordSnapshotAppended()
	return snap.ID, nil
}

// QuerySnapshots implements SnapshotStore.
func (s *SQLiteStore) QuerySnapshots(ctx context.Context, userID string, family model.Family, tr model.TimeRange, since time.Time, limit int) ([]model.Snapshot, error) {
	qStart := time.Now()
	defer func() {
		metrics.RecordStoreLatency("query_snapshots", float64(time.Since(qStart).Milliseconds()))
	}()

	query := `SELECT id, user_id, family, time_range, computed_at, overall, category, components, confidence, coverage, drivers, next_actions, baseline, trend
		FROM snapshots
		WHERE user_id = ? AND family = ? AND time_range = ? AND computed_at >= ?
		ORDER BY computed_at DESC`
	args := []any{userID, string(family), string(tr), since.UnixMilli()}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var out []model.Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return out, nil
}

func scanSnapshot(rows *sql.Rows) (model.Snapshot, error) {
	var (
		snap                        model.Snapshot
		family, tr, trend           string
		computedAt                  int64
		components, drivers, actions string
		baseline                    sql.NullFloat64
	)
	if err := rows.Scan(&snap.ID, &snap.UserID, &family, &tr, &computedAt,
		&snap.Overall, &snap.Category, &components, &snap.Confidence, &snap.Coverage,
		&drivers, &actions, &baseline, &trend); err != nil {
		return model.Snapshot{}, fmt.Errorf("scan snapshot: %w", err)
	}
	if baseline.Valid {
		snap.Baseline = &baseline.Float64
	}
	snap.Family = model.Family(family)
	snap.TimeRange = model.TimeRange(tr)
	snap.Trend = model.TrendDirection(trend)
	snap.ComputedAt = time.UnixMilli(computedAt).UTC()
	if err := json.Unmarshal([]byte(components), &snap.Components); err != nil {
		return model.Snapshot{}, fmt.Errorf("unmarshal components: %w", err)
	}
	if err := json.Unmarshal([]byte(drivers), &snap.Drivers); err != nil {
		return model.Snapshot{}, fmt.Errorf("unmarshal drivers: %w", err)
	}
	if err := json.Unmarshal([]byte(actions), &snap.NextActions); err != nil {
		return model.Snapshot{}, fmt.Errorf("unmarshal actions: %w", err)
	}
	return snap, nil
}

// isUniqueViolation reports whether err is a primary-key conflict.
// modernc.org/sqlite does not export a typed error for this, so the
// check is on the driver's message.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint")
}
