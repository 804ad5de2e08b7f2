package readiness

import (
	"time"

	"github.com/tempohq/tempo/internal/domain/model"
)

// Baseline and trend thresholds.
const (
	// BaselineWindowDays is how far back stored snapshots contribute to
	// the baseline mean.
	BaselineWindowDays = 30
	// baselineMinSamples is the snapshot count below which no baseline
	// is reported.
	baselineMinSamples = 5

	// trendSubWindowDays splits the recent history into two sub-windows
	// for the trend comparison. No full recompute is involved.
	trendSubWindowDays = 7
	// trendMinDelta is the minimum score movement between sub-windows
	// before a trend is called; smaller deltas are noise.
	trendMinDelta = 3.0
)

// Baseline returns the mean overall score of snapshots computed within
// the baseline window. ok is false when fewer than the minimum samples
// exist.
func Baseline(snapshots []model.Snapshot, now time.Time) (mean float64, ok bool) {
	cutoff := now.AddDate(0, 0, -BaselineWindowDays)
	var sum float64
	n := 0
	for _, s := range snapshots {
		if s.ComputedAt.Before(cutoff) {
			continue
		}
		sum += s.Overall
		n++
	}
	if n < baselineMinSamples {
		return 0, false
	}
	return sum / float64(n), true
}

// Trend compares the mean scores of the two most recent sub-windows and
// classifies the movement. Stable is returned when either sub-window is
// empty or the delta stays under the noise threshold.
func Trend(snapshots []model.Snapshot, now time.Time) model.TrendDirection {
	recentCut := now.AddDate(0, 0, -trendSubWindowDays)
	priorCut := now.AddDate(0, 0, -2*trendSubWindowDays)

	var recentSum, priorSum float64
	recentN, priorN := 0, 0
	for _, s := range snapshots {
		switch {
		case !s.ComputedAt.Before(recentCut):
			recentSum += s.Overall
			recentN++
		case !s.ComputedAt.Before(priorCut):
			priorSum += s.Overall
			priorN++
		}
	}
	if recentN == 0 || priorN == 0 {
		return model.TrendStable
	}

	delta := recentSum/float64(recentN) - priorSum/float64(priorN)
	switch {
	case delta >= trendMinDelta:
		return model.TrendUp
	case delta <= -trendMinDelta:
		return model.TrendDown
	default:
		return model.TrendStable
	}
}
