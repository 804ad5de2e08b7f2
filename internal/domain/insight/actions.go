package insight

import (
	"sort"

	"github.com/tempohq/tempo/internal/domain/model"
	"github.com/tempohq/tempo/internal/domain/signal"
)

// actionRule recommends one improvement when its condition holds.
// Priority is (100 - component score), so the weakest component
// produces the most urgent recommendation.
type actionRule struct {
	metric string
	label  string
	detail string
	// when gates the rule on concrete evidence, never on score alone.
	// A nil when always fires for a present component.
	when func(score float64, evidence map[string]float64) bool
}

// actionRules is the rule table, keyed by component metric. Rules fire
// only when their component is present in the computed set.
var actionRules = []actionRule{
	{
		metric: "planning_quality",
		label:  "Trim your active list",
		detail: "You have more concurrently active items than you can realistically finish. Close or defer the low-priority ones.",
		when: func(_ float64, ev map[string]float64) bool {
			return ev["active_items"] > signal.OverloadItemThreshold
		},
	},
	{
		metric: "planning_quality",
		label:  "Add time estimates",
		detail: "Estimating tasks before starting sharpens planning; few of your completed tasks carried both estimate and actual.",
		when: func(_ float64, ev map[string]float64) bool {
			return ev["active_items"] >= 2 && ev["estimated_items"] == 0
		},
	},
	{
		metric: "execution_intelligence",
		label:  "Finish what you started",
		detail: "Several items were created in this window but few were completed. Pick one and close it today.",
		when: func(_ float64, ev map[string]float64) bool {
			return ev["tasks_created"] > 0 && ev["tasks_completed"] < ev["tasks_created"]
		},
	},
	{
		metric: "execution_intelligence",
		label:  "Schedule a deep-work block",
		detail: "No deep-work sessions were logged this window. One focused block moves the needle more than scattered work.",
		when: func(_ float64, ev map[string]float64) bool {
			return ev["deep_work_sessions"] == 0
		},
	},
	{
		metric: "adaptation_reflection",
		label:  "Run a short retrospective",
		detail: "A weekly look at what worked and what did not compounds quickly.",
		when: func(_ float64, ev map[string]float64) bool {
			return ev["retrospectives"] == 0
		},
	},
	{
		metric: "behavioral_stability",
		label:  "Protect your streak",
		detail: "Long zero-activity gaps reset momentum. Even one small completion on a busy day keeps the rhythm.",
		when: func(_ float64, ev map[string]float64) bool {
			return ev["longest_gap"] >= 2
		},
	},
	{
		metric: "learning_growth",
		label:  "Try one experiment",
		detail: "Tagging a deliberate experiment this week broadens the signal your scores are built on.",
		when: func(_ float64, ev map[string]float64) bool {
			return ev["experiments"] == 0
		},
	},
	{
		metric: "burnout_risk",
		label:  "Take a real break",
		detail: "Your logged hours and language point at sustained strain. A logged break counts toward recovery.",
		when: func(score float64, ev map[string]float64) bool {
			// burnout_risk scores high when risk is high.
			return score > neutralScore && ev["recovery_signals"] == 0
		},
	},
	{
		metric: "focus",
		label:  "Batch similar work",
		detail: "You switch categories often within a day. Grouping similar items cuts the switching cost.",
		when: func(_ float64, ev map[string]float64) bool {
			return ev["avg_categories"] > 3
		},
	},
	{
		metric: "goal_velocity",
		label:  "Link tasks to a goal",
		detail: "Untagged work cannot count toward goal progress. Tag your next tasks with the goal they serve.",
		when: func(_ float64, ev map[string]float64) bool {
			return ev["goal_events"] < 3
		},
	},
}

// Actions evaluates the rule table against the computed components and
// their evidence, ranks the hits by (100 - component score), and
// returns at most maxActions. Ranking ties break by label for
// deterministic output.
func Actions(components map[string]float64, evidence map[string]map[string]float64) []model.Action {
	var hits []model.Action
	for _, rule := range actionRules {
		score, ok := components[rule.metric]
		if !ok {
			continue
		}
		ev := evidence[rule.metric]
		if ev == nil {
			ev = map[string]float64{}
		}
		if rule.when != nil && !rule.when(score, ev) {
			continue
		}
		hits = append(hits, model.Action{
			Label:        rule.label,
			Detail:       rule.detail,
			TargetMetric: rule.metric,
			Priority:     100 - score,
		})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Priority != hits[j].Priority {
			return hits[i].Priority > hits[j].Priority
		}
		return hits[i].Label < hits[j].Label
	})
	if len(hits) > maxActions {
		hits = hits[:maxActions]
	}
	return hits
}
