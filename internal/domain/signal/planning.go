package signal

import "github.com/tempohq/tempo/internal/domain/model"

// Planning quality thresholds. Every threshold is deliberate; changing
// one changes scores for all users and needs a weights-version bump.
const (
	// planningTargetEvidence is the item count at which planning
	// confidence reaches 1.0.
	planningTargetEvidence = 8.0

	// OverloadItemThreshold is the concurrently-active item count above
	// which the overload penalty starts. No penalty at or below it.
	// Exported because the action rules key off the same threshold.
	OverloadItemThreshold = 8
	// overloadPenaltyPerItem is the multiplier lost per item past the
	// threshold; the factor floors at overloadFloor.
	overloadPenaltyPerItem = 0.05
	overloadFloor          = 0.6

	// planSessionBonus is added per explicit planning-session event,
	// capped at planSessionBonusCap.
	planSessionBonus    = 5.0
	planSessionBonusCap = 15.0

	// Sub-part weights; must sum to 1.0.
	planningProactiveWeight = 0.35
	planningGoalTagWeight   = 0.25
	planningEstimateWeight  = 0.25
	planningPlanUsageWeight = 0.15
)

// PlanningQuality scores how deliberately a user plans: proactive item
// creation, goal tagging, estimation accuracy, and explicit planning
// sessions, with a smooth overload penalty for unrealistic over-planning.
type PlanningQuality struct{}

// NewPlanningQuality creates the planning-quality extractor.
func NewPlanningQuality() *PlanningQuality { return &PlanningQuality{} }

// Name implements Extractor.
func (*PlanningQuality) Name() string { return "planning_quality" }

// Extract implements Extractor.
func (p *PlanningQuality) Extract(events []model.Event, w Window) Result {
	items := byKind(events, w, model.KindTaskCreated, model.KindTaskCompleted)
	sessions := byKind(events, w, model.KindPlanningSession)
	if len(items) == 0 && len(sessions) == 0 {
		return Neutral()
	}

	var proactive, tagged, estimated int
	var estimateAccuracySum float64
	for _, e := range items {
		if !e.Meta.ItemCreatedAt.IsZero() && e.Meta.ItemCreatedAt.Before(w.Start) {
			proactive++
		}
		if e.Meta.GoalID != "" {
			tagged++
		}
		if e.Kind == model.KindTaskCompleted && e.Meta.EstimateMinutes > 0 && e.Meta.ActualMinutes > 0 {
			estimated++
			miss := e.Meta.EstimateMinutes - e.Meta.ActualMinutes
			if miss < 0 {
				miss = -miss
			}
			pct := miss / e.Meta.EstimateMinutes * 100
			if pct > 100 {
				pct = 100
			}
			estimateAccuracySum += 100 - pct
		}
	}

	parts := map[string]float64{}
	weights := map[string]float64{}
	if len(items) > 0 {
		parts["proactive"] = ratio(float64(proactive), float64(len(items)), 0) * 100
		weights["proactive"] = planningProactiveWeight
		parts["goal_tagged"] = ratio(float64(tagged), float64(len(items)), 0) * 100
		weights["goal_tagged"] = planningGoalTagWeight
	}
	if estimated > 0 {
		parts["estimation"] = estimateAccuracySum / float64(estimated)
		weights["estimation"] = planningEstimateWeight
	}
	if len(sessions) > 0 {
		bonus := clamp(float64(len(sessions))*planSessionBonus, 0, planSessionBonusCap)
		parts["plan_usage"] = clampScore(NeutralScore + bonus*3)
		weights["plan_usage"] = planningPlanUsageWeight
	}

	raw := weightedMean(parts, weights)
	raw *= overloadFactor(len(items))

	evidence := map[string]float64{
		"active_items":      float64(len(items)),
		"proactive_items":   float64(proactive),
		"goal_tagged_items": float64(tagged),
		"estimated_items":   float64(estimated),
		"planning_sessions": float64(len(sessions)),
	}
	count := float64(len(items) + len(sessions))
	return Result{
		Raw:        clampScore(raw),
		Confidence: EvidenceConfidence(count, planningTargetEvidence),
		Evidence:   evidence,
	}
}

// overloadFactor returns the smooth penalty multiplier for n concurrently
// active items: 1.0 at or below the threshold, linear decay above it,
// floored so over-planning is penalized without a hard cliff.
func overloadFactor(n int) float64 {
	if n <= OverloadItemThreshold {
		return 1.0
	}
	f := 1.0 - float64(n-OverloadItemThreshold)*overloadPenaltyPerItem
	return clamp(f, overloadFloor, 1.0)
}

// weightedMean averages the present parts with their weights renormalized
// to the present set. Absent parts do not drag the mean toward zero.
func weightedMean(parts, weights map[string]float64) float64 {
	var sum, wsum float64
	for k, v := range parts {
		w := weights[k]
		sum += v * w
		wsum += w
	}
	if wsum == 0 {
		return NeutralScore
	}
	return sum / wsum
}
