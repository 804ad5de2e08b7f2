package signal

import (
	"github.com/tempohq/tempo/internal/domain/composite"
	"github.com/tempohq/tempo/internal/domain/model"
)

// Focus thresholds. The sub-part weights live in
// composite.FocusWeights so the versioned tables stay the single
// source of truth.
const (
	// focusTargetEvidence is the session count at which focus
	// confidence reaches 1.0.
	focusTargetEvidence = 4.0

	// idealSessionMinutes is the deep-work session length that maps to
	// a full depth sub-score; longer sessions do not score higher.
	idealSessionMinutes = 50.0

	// switchingComfortCategories is the distinct-category count per
	// active day at or below which no switching penalty applies.
	switchingComfortCategories = 2.0
	// switchingPenaltyPerCategory is the sub-score lost per extra
	// distinct category per day.
	switchingPenaltyPerCategory = 20.0

	// breaksPerSessionIdeal is the break-to-session ratio treated as a
	// healthy cadence; both none and excessive breaks score lower.
	breaksPerSessionIdeal = 1.0
)

// FocusScore measures depth of work: session length, context
// switching across categories, and break cadence.
type FocusScore struct{}

// NewFocusScore creates the focus extractor.
func NewFocusScore() *FocusScore { return &FocusScore{} }

// Name implements Extractor.
func (*FocusScore) Name() string { return "focus" }

// Extract implements Extractor.
func (f *FocusScore) Extract(events []model.Event, w Window) Result {
	sessions := byKind(events, w, model.KindDeepWork)
	breaks := byKind(events, w, model.KindBreakLogged)
	activity := byKind(events, w, model.KindTaskCompleted, model.KindDeepWork, model.KindHabitLogged)
	if len(sessions) == 0 {
		return Neutral()
	}

	// Depth: average session length toward the ideal.
	var minutes float64
	for _, e := range sessions {
		minutes += e.Meta.DurationMinutes
	}
	avgLen := minutes / float64(len(sessions))
	depth := clampScore(avgLen / idealSessionMinutes * 100)

	// Switching: distinct categories per active day.
	perDayCategories := map[int]map[string]struct{}{}
	for _, e := range activity {
		idx := dayIndex(e.Timestamp, w)
		if perDayCategories[idx] == nil {
			perDayCategories[idx] = map[string]struct{}{}
		}
		cat := e.Category
		if cat == "" {
			cat = "uncategorized"
		}
		perDayCategories[idx][cat] = struct{}{}
	}
	var catSum float64
	for _, cats := range perDayCategories {
		catSum += float64(len(cats))
	}
	avgCategories := ratio(catSum, float64(len(perDayCategories)), 0)
	switching := clampScore(100 - (avgCategories-switchingComfortCategories)*switchingPenaltyPerCategory)

	// Break cadence: distance from the ideal breaks-per-session ratio.
	perSession := float64(len(breaks)) / float64(len(sessions))
	dist := perSession - breaksPerSessionIdeal
	if dist < 0 {
		dist = -dist
	}
	cadence := clampScore(100 - dist*50)

	raw := composite.Aggregate(map[string]float64{
		"deep_work_depth":   depth,
		"context_switching": switching,
		"break_cadence":     cadence,
	}, composite.FocusWeights)

	return Result{
		Raw:        clampScore(raw),
		Confidence: EvidenceConfidence(float64(len(sessions)), focusTargetEvidence),
		Evidence: map[string]float64{
			"deep_work_sessions":  float64(len(sessions)),
			"deep_work_minutes":   minutes,
			"breaks":              float64(len(breaks)),
			"avg_session_minutes": avgLen,
			"avg_categories":      avgCategories,
		},
	}
}
