// Package signal implements the per-family signal extractors that turn a
// bounded window of behavioral events into raw scores with evidence-based
// confidence. Extractors are pure functions over an event slice: no
// stores, no clocks, no globals, so each is independently testable with
// a fixed event list.
package signal

import (
	"time"

	"github.com/tempohq/tempo/internal/domain/model"
)

// NeutralScore is the baseline every raw score is blended toward when
// evidence is thin. Zero evidence always yields exactly this value.
const NeutralScore = 50.0

// Result is the output of one extractor call. It is ephemeral and never
// persisted; only the blended value flows into composites.
type Result struct {
	// Raw is the unblended score in [0,100].
	Raw float64
	// Confidence is the evidence-derived weight in [0,1].
	Confidence float64
	// Evidence holds the counts that produced the score, keyed by what
	// was counted. Used by the readiness gate and the action rules.
	Evidence map[string]float64
}

// Neutral returns the no-evidence result: baseline score, zero confidence.
func Neutral() Result {
	return Result{Raw: NeutralScore, Confidence: 0, Evidence: map[string]float64{}}
}

// Blended returns the confidence-blended score for r.
func (r Result) Blended() float64 {
	return Blend(r.Raw, r.Confidence)
}

// Window bounds the events an extractor may consider.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow builds a window ending at end and spanning days back.
func NewWindow(end time.Time, days int) Window {
	return Window{Start: end.AddDate(0, 0, -days), End: end}
}

// Contains reports whether t falls inside the window (start exclusive,
// end inclusive).
func (w Window) Contains(t time.Time) bool {
	return t.After(w.Start) && !t.After(w.End)
}

// Days returns the window length in days, minimum 1.
func (w Window) Days() float64 {
	d := w.End.Sub(w.Start).Hours() / 24
	if d < 1 {
		return 1
	}
	return d
}

// Extractor computes one signal family from an event window. Extractors
// must never fail: on missing or partial data they return Neutral().
type Extractor interface {
	// Name is the component metric key this extractor produces.
	Name() string

	// Extract computes the signal over events restricted to w.
	Extract(events []model.Event, w Window) Result
}

// byKind filters events to the given kinds within the window.
func byKind(events []model.Event, w Window, kinds ...model.EventKind) []model.Event {
	want := make(map[model.EventKind]struct{}, len(kinds))
	for _, k := range kinds {
		want[k] = struct{}{}
	}
	var out []model.Event
	for _, e := range events {
		if !w.Contains(e.Timestamp) {
			continue
		}
		if _, ok := want[e.Kind]; ok {
			out = append(out, e)
		}
	}
	return out
}

// inWindow filters events to the window regardless of kind.
func inWindow(events []model.Event, w Window) []model.Event {
	var out []model.Event
	for _, e := range events {
		if w.Contains(e.Timestamp) {
			out = append(out, e)
		}
	}
	return out
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampScore bounds v to the score range [0,100].
func clampScore(v float64) float64 {
	return clamp(v, 0, 100)
}

// ratio returns num/den, or fallback when den is zero.
func ratio(num, den, fallback float64) float64 {
	if den == 0 {
		return fallback
	}
	return num / den
}

// dayIndex buckets t into a day offset from the window start.
func dayIndex(t time.Time, w Window) int {
	return int(t.Sub(w.Start).Hours() / 24)
}
