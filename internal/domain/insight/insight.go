// Package insight turns component scores into ranked drivers and
// next-action recommendations. Drivers explain which components moved a
// composite; actions come from rule tables keyed by the weakest
// components and concrete evidence counts.
package insight

import (
	"sort"

	"github.com/tempohq/tempo/internal/domain/composite"
	"github.com/tempohq/tempo/internal/domain/model"
)

// Ranking limits.
const (
	maxDrivers = 3
	maxActions = 3
)

// neutralScore mirrors the blending baseline: components at 50 exert no
// pull on the composite in either direction.
const neutralScore = 50.0

// componentLabels maps metric keys to user-facing labels.
var componentLabels = map[string]string{
	"planning_quality":       "Planning quality",
	"execution_intelligence": "Execution",
	"adaptation_reflection":  "Reflection",
	"behavioral_stability":   "Consistency",
	"learning_growth":        "Learning",
	"goal_velocity":          "Goal velocity",
	"burnout_risk":           "Burnout risk",
	"focus":                  "Focus",
	"mood":                   "Mood",
	"deep_work_depth":        "Deep work depth",
	"context_switching":      "Context switching",
	"break_cadence":          "Break cadence",
	"sentiment":              "Sentiment",
	"momentum":               "Momentum",
	"recovery":               "Recovery",
	"time_risk":              "Working hours",
	"workload_risk":          "Workload",
	"sentiment_risk":         "Stress language",
	"habits":                 "Habit consistency",
	"tasks":                  "Task completion",
	"deep_work":              "Deep work",
	"completion":             "Completion rate",
	"priority":               "Priority discipline",
	"alignment":              "Goal alignment",
	"efficiency":             "Efficiency",
}

// label returns the user-facing label for a metric key, falling back to
// the key itself.
func label(metric string) string {
	if l, ok := componentLabels[metric]; ok {
		return l
	}
	return metric
}

// Drivers ranks the components by absolute impact on the composite,
// where impact = (score - 50) * weight, and returns at most maxDrivers.
// Ranking is deterministic: ties break by metric name.
func Drivers(components map[string]float64, weights composite.Weights) []model.Driver {
	type scored struct {
		metric string
		impact float64
	}
	items := make([]scored, 0, len(components))
	for metric, score := range components {
		w, ok := weights[metric]
		if !ok {
			continue
		}
		items = append(items, scored{metric: metric, impact: (score - neutralScore) * w})
	}
	sort.Slice(items, func(i, j int) bool {
		ai, aj := abs(items[i].impact), abs(items[j].impact)
		if ai != aj {
			return ai > aj
		}
		return items[i].metric < items[j].metric
	})

	if len(items) > maxDrivers {
		items = items[:maxDrivers]
	}
	drivers := make([]model.Driver, 0, len(items))
	for _, it := range items {
		d := model.Driver{
			Direction: model.DriverUp,
			Label:     label(it.metric),
			Detail:    "Pushing your score up",
			Impact:    it.impact,
		}
		if it.impact < 0 {
			d.Direction = model.DriverDown
			d.Detail = "Pulling your score down"
		}
		drivers = append(drivers, d)
	}
	return drivers
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
