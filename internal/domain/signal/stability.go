package signal

import (
	"math"

	"github.com/tempohq/tempo/internal/domain/model"
)

// Behavioral stability thresholds. Stability always looks at the fixed
// trailing 7-day window ending at the score window's end, not at a
// "today vs yesterday" comparison.
const (
	stabilityWindowDays = 7

	// stabilityTargetActiveDays is the active-day target the ratio is
	// measured against (5 of 7).
	stabilityTargetActiveDays = 5.0

	// stabilityTargetEvidence is the completion count at which
	// stability confidence reaches 1.0.
	stabilityTargetEvidence = 7.0

	// cvCeiling is the coefficient of variation mapped to a zero
	// variance sub-score. Lower variance scores higher.
	cvCeiling = 1.5

	// gapPenaltyPerDay is the sub-score lost per day in the longest
	// consecutive run of zero-activity days.
	gapPenaltyPerDay = 25.0

	// Sub-part weights: variance / active days / gap. Must sum to 1.0.
	stabilityVarianceWeight = 0.45
	stabilityActiveWeight   = 0.30
	stabilityGapWeight      = 0.25
)

// BehavioralStability scores the consistency of daily completions over
// the trailing week: variance, active-day coverage, and gap length.
type BehavioralStability struct{}

// NewBehavioralStability creates the stability extractor.
func NewBehavioralStability() *BehavioralStability { return &BehavioralStability{} }

// Name implements Extractor.
func (*BehavioralStability) Name() string { return "behavioral_stability" }

// Extract implements Extractor.
func (s *BehavioralStability) Extract(events []model.Event, w Window) Result {
	week := Window{Start: w.End.AddDate(0, 0, -stabilityWindowDays), End: w.End}
	completions := byKind(events, week, model.KindTaskCompleted, model.KindHabitLogged, model.KindDeepWork)
	if len(completions) == 0 {
		return Neutral()
	}

	var daily [stabilityWindowDays]float64
	for _, e := range completions {
		idx := dayIndex(e.Timestamp, week)
		if idx >= 0 && idx < stabilityWindowDays {
			daily[idx]++
		}
	}

	mean := float64(len(completions)) / stabilityWindowDays
	var variance float64
	activeDays := 0
	for _, c := range daily {
		variance += (c - mean) * (c - mean)
		if c > 0 {
			activeDays++
		}
	}
	variance /= stabilityWindowDays
	cv := math.Sqrt(variance) / mean

	varianceScore := clampScore((1 - cv/cvCeiling) * 100)
	activeScore := clampScore(float64(activeDays) / stabilityTargetActiveDays * 100)
	gapScore := clampScore(100 - float64(longestZeroRun(daily[:]))*gapPenaltyPerDay)

	raw := stabilityVarianceWeight*varianceScore +
		stabilityActiveWeight*activeScore +
		stabilityGapWeight*gapScore

	return Result{
		Raw:        clampScore(raw),
		Confidence: EvidenceConfidence(float64(len(completions)), stabilityTargetEvidence),
		Evidence: map[string]float64{
			"completions":    float64(len(completions)),
			"active_days":    float64(activeDays),
			"longest_gap":    float64(longestZeroRun(daily[:])),
			"daily_variance": variance,
		},
	}
}

// longestZeroRun returns the length of the longest consecutive run of
// zero-activity days.
func longestZeroRun(daily []float64) int {
	longest, run := 0, 0
	for _, c := range daily {
		if c == 0 {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	return longest
}
