// Package app provides the scoring engine service that implements the
// dependencies required by the HTTP API: event recording, synchronous
// score reads, and asynchronous snapshot recomputation.
package app

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/tempohq/tempo/internal/adapters/broadcast"
	jobqueue "github.com/tempohq/tempo/internal/adapters/mq/queue"
	workerpool "github.com/tempohq/tempo/internal/adapters/mq/worker"
	"github.com/tempohq/tempo/internal/adapters/repository"
	"github.com/tempohq/tempo/internal/domain/dedupe"
	"github.com/tempohq/tempo/internal/domain/model"
	"github.com/tempohq/tempo/internal/domain/readiness"
	"github.com/tempohq/tempo/internal/domain/signal"
	"github.com/tempohq/tempo/internal/domain/temporal"
	"github.com/tempohq/tempo/pkg/logger"
	"github.com/tempohq/tempo/pkg/metrics"
)

// Default engine configuration.
const (
	defaultQueueSize         = 10000
	defaultDedupeSize        = 50000
	defaultEventQueryTimeout = 2 * time.Second
)

// significantKinds are the event kinds that trigger an asynchronous
// recompute of the families they feed. Kinds absent here (experiment,
// insight_read, break_logged, task_created, planning_session) still
// count as evidence on the next scheduled or read-triggered compute
// but are not worth a recompute of their own.
var significantKinds = map[model.EventKind][]model.Family{
	model.KindTaskCompleted: {
		model.FamilyIntelligence, model.FamilyProductivity, model.FamilyGoalProbability,
	},
	model.KindHabitLogged: {
		model.FamilyGoalProbability, model.FamilyIntelligence,
	},
	model.KindDeepWork: {
		model.FamilyFocus, model.FamilyProductivity, model.FamilyBurnout,
	},
	model.KindChatMessage: {
		model.FamilyMood, model.FamilyBurnout,
	},
	model.KindRetrospective: {
		model.FamilyIntelligence,
	},
}

// Scorecard is the read-side result for one (user, family, range). When
// Ready is false only Requirements is populated; no numeric score is
// surfaced on thin evidence. Score, Confidence and Coverage are
// pointers so a legitimate zero survives serialization; they are nil
// exactly when Ready is false.
type Scorecard struct {
	Ready        bool                             `json:"ready"`
	Family       model.Family                     `json:"family"`
	TimeRange    model.TimeRange                  `json:"time_range"`
	Score        *int                             `json:"score,omitempty"`
	Category     string                           `json:"category,omitempty"`
	Components   map[string]int                   `json:"components,omitempty"`
	Confidence   *float64                         `json:"confidence,omitempty"`
	Coverage     *float64                         `json:"coverage,omitempty"`
	Drivers      []model.Driver                   `json:"drivers,omitempty"`
	NextActions  []model.Action                   `json:"next_actions,omitempty"`
	Baseline     *float64                         `json:"baseline,omitempty"`
	Trend        model.TrendDirection             `json:"trend,omitempty"`
	Requirements map[string]readiness.Requirement `json:"requirements,omitempty"`
}

// Engine wires the domain pipeline to storage, the recompute queue and
// the broadcast fanout.
type Engine struct {
	mu sync.RWMutex

	store   repository.Store
	deduper dedupe.Deduper
	jobs    jobqueue.Queue
	pool    *workerpool.Pool
	fanout  *broadcast.Fanout

	workerCount       int
	queueSize         int
	dedupeSize        int
	eventQueryTimeout time.Duration

	now func() time.Time

	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithStore sets the backing store. Defaults to an in-memory store.
func WithStore(s repository.Store) Option {
	return func(e *Engine) {
		if s != nil {
			e.store = s
		}
	}
}

// WithWorkerCount sets the number of recompute workers.
func WithWorkerCount(count int) Option {
	return func(e *Engine) {
		if count > 0 {
			e.workerCount = count
		}
	}
}

// WithQueueSize sets the recompute queue capacity.
func WithQueueSize(size int) Option {
	return func(e *Engine) {
		if size > 0 {
			e.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the event deduplication cache.
func WithDedupeSize(size int) Option {
	return func(e *Engine) {
		if size > 0 {
			e.dedupeSize = size
		}
	}
}

// WithEventQueryTimeout bounds event-source queries during computation.
func WithEventQueryTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.eventQueryTimeout = d
		}
	}
}

// WithBroadcast sets the fanout that receives score updates.
func WithBroadcast(f *broadcast.Fanout) Option {
	return func(e *Engine) {
		if f != nil {
			e.fanout = f
		}
	}
}

// WithLogger sets a custom logger for the engine.
func WithLogger(log logger.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.logger = log
		}
	}
}

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New constructs an Engine with default configuration.
func New(opts ...Option) *Engine {
	e := &Engine{
		workerCount:       runtime.NumCPU() * 2,
		queueSize:         defaultQueueSize,
		dedupeSize:        defaultDedupeSize,
		eventQueryTimeout: defaultEventQueryTimeout,
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start initializes and starts the engine components.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return nil
	}

	if e.logger == nil {
		e.logger = logger.Get().Named("engine")
	}
	if e.store == nil {
		e.store = repository.NewMemoryStore()
		e.logger.Info(ctx, "no store configured, using in-memory store")
	}
	if e.fanout == nil {
		e.fanout = broadcast.NewFanout()
	}

	e.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(e.dedupeSize),
	)
	e.jobs = jobqueue.NewInMemoryQueue(
		jobqueue.WithCapacity(e.queueSize),
	)
	e.pool = workerpool.NewPool(e.workerCount, e.jobs, e)
	e.pool.Start(ctx)

	e.started = true
	e.logger.Info(ctx, "scoring engine started",
		logger.Int("workers", e.workerCount),
		logger.Int("queueSize", e.queueSize),
		logger.Int("dedupeSize", e.dedupeSize),
	)
	return nil
}

// Stop gracefully shuts the engine down.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return
	}

	ctx := context.Background()
	e.logger.Info(ctx, "stopping scoring engine...")

	if e.jobs != nil {
		_ = e.jobs.Close()
	}
	if e.pool != nil {
		e.pool.Stop()
	}
	if e.store != nil {
		_ = e.store.Close()
	}

	e.started = false
	e.logger.Info(ctx, "scoring engine stopped")
}

// RecordEvent validates and persists one behavioral event, idempotent
// by event id, and enqueues recompute jobs for the families the event
// feeds. The returned duplicate flag distinguishes an already-seen id
// from a fresh append.
func (e *Engine) RecordEvent(ctx context.Context, ev model.Event) (duplicate bool, err error) {
	if err := ev.Validate(); err != nil {
		return false, err
	}

	if e.deduper.SeenAndRecord(ctx, ev.ID) {
		metrics.RecordEventDuplicate()
		return true, nil
	}

	if err := e.store.AppendEvent(ctx, ev); err != nil {
		// Keep the id retryable unless the store itself says duplicate.
		if repository.IsDuplicate(err) {
			metrics.RecordEventDuplicate()
			return true, nil
		}
		e.deduper.Unrecord(ctx, ev.ID)
		return false, fmt.Errorf("append event: %w", err)
	}
	metrics.RecordEventRecorded()

	for _, family := range significantKinds[ev.Kind] {
		j := jobqueue.Job{
			UserID:         ev.UserID,
			Family:         family,
			TimeRange:      model.RangeWeekly,
			TriggerEventID: ev.ID,
		}
		if !e.jobs.Enqueue(ctx, j) {
			// The event is safely stored; a dropped job only delays
			// the next snapshot.
			e.logger.Warn(ctx, "recompute queue full, job dropped",
				logger.String("userID", ev.UserID),
				logger.String("family", string(family)),
			)
		}
	}
	return false, nil
}

// GetScore computes the scorecard for one (user, family, range)
// synchronously. Reads are deterministic: the same event stream yields
// the same scorecard.
func (e *Engine) GetScore(ctx context.Context, userID string, family model.Family, tr model.TimeRange) (Scorecard, error) {
	if !family.Valid() {
		return Scorecard{}, model.ErrUnknownFamily
	}
	if !tr.Valid() {
		return Scorecard{}, model.ErrInvalidTimeRange
	}

	snap, ready, reqs, err := e.compute(ctx, userID, family, tr)
	if err != nil {
		return Scorecard{}, err
	}

	card := Scorecard{
		Ready:     ready,
		Family:    family,
		TimeRange: tr,
	}
	if !ready {
		card.Requirements = reqs
		return card, nil
	}

	score := int(math.Round(snap.Overall))
	card.Score = &score
	card.Category = snap.Category
	card.Components = snap.Components
	card.Confidence = &snap.Confidence
	card.Coverage = &snap.Coverage
	card.Drivers = snap.Drivers
	card.NextActions = snap.NextActions
	card.Baseline = snap.Baseline
	card.Trend = snap.Trend

	// Persist the fresh result so baselines and trends keep learning
	// from reads too. Persistence failure never hides the score.
	if _, err := e.store.AppendSnapshot(ctx, snap); err != nil {
		metrics.RecordSnapshotAppendError()
		e.logger.Warn(ctx, "snapshot append failed",
			logger.String("userID", userID),
			logger.String("family", string(family)),
			logger.Error(err),
		)
	}
	return card, nil
}

// ComputeJob implements worker.Computer: recompute one family score and
// persist the snapshot, then fan the update out.
func (e *Engine) ComputeJob(ctx context.Context, j jobqueue.Job) error {
	metrics.RecordComputation(string(j.Family))

	snap, ready, _, err := e.compute(ctx, j.UserID, j.Family, j.TimeRange)
	if err != nil {
		return fmt.Errorf("compute %s/%s: %w", j.UserID, j.Family, err)
	}
	if !ready {
		metrics.RecordComputationPending()
		return nil
	}

	if _, err := e.store.AppendSnapshot(ctx, snap); err != nil {
		metrics.RecordSnapshotAppendError()
		return fmt.Errorf("append snapshot: %w", err)
	}

	_ = e.fanout.Publish(ctx, broadcast.ScoreUpdate{
		UserID:    j.UserID,
		Family:    string(j.Family),
		TimeRange: string(j.TimeRange),
		Score:     int(math.Round(snap.Overall)),
		Category:  snap.Category,
		Timestamp: snap.ComputedAt,
	})
	return nil
}

// queryEvents loads the events a computation needs under the query
// timeout. The reach covers the score window, the readiness gate window
// and the fixed stability window, whichever is longest.
func (e *Engine) queryEvents(ctx context.Context, userID string, end time.Time) ([]model.Event, error) {
	qctx, cancel := context.WithTimeout(ctx, e.eventQueryTimeout)
	defer cancel()

	start := end.AddDate(0, 0, -readiness.GateWindowDays)
	return e.store.QueryEvents(qctx, userID, nil, start, end)
}

// gateCounts tallies readiness evidence over the trailing gate window.
func gateCounts(events []model.Event, end time.Time) readiness.Counts {
	gate := signal.NewWindow(end, readiness.GateWindowDays)
	var c readiness.Counts
	for _, ev := range events {
		if !gate.Contains(ev.Timestamp) {
			continue
		}
		switch ev.Kind {
		case model.KindTaskCompleted:
			c.TasksCompleted++
		case model.KindHabitLogged:
			c.HabitSignals++
		case model.KindChatMessage, model.KindPlanningSession, model.KindRetrospective:
			c.Interactions++
		}
	}
	return c
}

// compute runs the full pipeline for one (user, family, range). When
// the readiness gate fails it returns ready=false and the requirement
// map; no snapshot is produced.
func (e *Engine) compute(ctx context.Context, userID string, family model.Family, tr model.TimeRange) (model.Snapshot, bool, map[string]readiness.Requirement, error) {
	start := time.Now()
	defer func() {
		metrics.RecordComputeLatency(float64(time.Since(start).Milliseconds()))
	}()

	now := e.now()

	// A failed or timed-out event query never aborts the computation:
	// the affected extractors see no events and contribute their neutral
	// default, which surfaces as a pending result through the gate.
	events, err := e.queryEvents(ctx, userID, now)
	if err != nil {
		metrics.RecordExtractorFailure("event_query")
		e.logger.Error(ctx, "event query failed, scoring without events",
			logger.String("userID", userID),
			logger.String("family", string(family)),
			logger.Error(err),
		)
		events = nil
	}

	ready, reqs := readiness.Check(gateCounts(events, now))
	if !ready {
		return model.Snapshot{}, false, reqs, nil
	}

	window := signal.NewWindow(now, tr.Days())
	components, confidences, evidence := e.runExtractors(ctx, family, events, window)

	overall, confidence, coverage := aggregateFamily(family, components, confidences)

	if temporalFamily(family) {
		recent := countRecent(events, now)
		days := e.daysSinceLast(ctx, userID, now)
		overall = temporal.Apply(overall, recent, days)
	}

	snap := model.Snapshot{
		UserID:     userID,
		Family:     family,
		TimeRange:  tr,
		ComputedAt: now,
		Overall:    overall,
		Category:   scoreCategory(family, overall),
		Components: roundComponents(components),
		Confidence: confidence,
		Coverage:   coverage,
	}

	snap.Drivers, snap.NextActions = explain(family, components, evidence)
	snap.Baseline, snap.Trend = e.history(ctx, userID, family, tr, now)

	return snap, true, nil, nil
}

// runExtractors runs the family's extractors concurrently, each writing
// its own result slot. A panicking extractor is isolated and reports
// the neutral default.
func (e *Engine) runExtractors(ctx context.Context, family model.Family, events []model.Event, w signal.Window) (map[string]float64, map[string]float64, map[string]map[string]float64) {
	extractors := familyExtractors(family)
	results := make([]signal.Result, len(extractors))

	var wg sync.WaitGroup
	for i, ex := range extractors {
		wg.Add(1)
		go func(i int, ex signal.Extractor) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					metrics.RecordExtractorFailure(ex.Name())
					e.logger.Error(ctx, "extractor panicked",
						logger.String("extractor", ex.Name()),
						logger.Any("panic", r),
					)
					results[i] = signal.Neutral()
				}
			}()
			results[i] = ex.Extract(events, w)
		}(i, ex)
	}
	wg.Wait()

	components := make(map[string]float64, len(extractors))
	confidences := make(map[string]float64, len(extractors))
	evidence := make(map[string]map[string]float64, len(extractors))
	for i, ex := range extractors {
		components[ex.Name()] = results[i].Blended()
		confidences[ex.Name()] = results[i].Confidence
		evidence[ex.Name()] = results[i].Evidence
	}
	return components, confidences, evidence
}

// countRecent counts events inside the momentum window ending at now.
func countRecent(events []model.Event, now time.Time) int {
	w := signal.NewWindow(now, temporal.MomentumWindowDays())
	var n int
	for _, ev := range events {
		if w.Contains(ev.Timestamp) {
			n++
		}
	}
	return n
}

// daysSinceLast asks the store for the user's most recent event. A
// missing or failing lookup is treated as dormant.
func (e *Engine) daysSinceLast(ctx context.Context, userID string, now time.Time) int {
	last, err := e.store.LastEventAt(ctx, userID)
	if err != nil {
		return temporal.DaysSince(time.Time{}, now)
	}
	return temporal.DaysSince(last, now)
}

// history derives baseline and trend from prior stored snapshots. The
// baseline is nil until enough samples have accumulated.
func (e *Engine) history(ctx context.Context, userID string, family model.Family, tr model.TimeRange, now time.Time) (*float64, model.TrendDirection) {
	since := now.AddDate(0, 0, -readiness.BaselineWindowDays)
	snaps, err := e.store.QuerySnapshots(ctx, userID, family, tr, since, 0)
	if err != nil {
		e.logger.Warn(ctx, "snapshot history unavailable",
			logger.String("userID", userID),
			logger.String("family", string(family)),
			logger.Error(err),
		)
		return nil, model.TrendStable
	}
	baseline, ok := readiness.Baseline(snaps, now)
	if !ok {
		return nil, readiness.Trend(snaps, now)
	}
	return &baseline, readiness.Trend(snaps, now)
}

// roundComponents converts blended component scores to the integer
// scale surfaced to users.
func roundComponents(components map[string]float64) map[string]int {
	out := make(map[string]int, len(components))
	for name, v := range components {
		out[name] = int(math.Round(v))
	}
	return out
}

// GetStats returns engine statistics for monitoring.
func (e *Engine) GetStats() map[string]interface{} {
	e.mu.RLock()
	defer e.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     e.started,
		"workerCount": e.workerCount,
		"queueSize":   e.queueSize,
		"dedupeSize":  e.dedupeSize,
	}
	if e.started {
		ctx := context.Background()
		queueLen := e.jobs.Len(ctx)
		stats["queueLength"] = queueLen
		stats["dedupeEntries"] = e.deduper.Size()
		metrics.UpdateQueueSize(queueLen)
	}
	return stats
}
