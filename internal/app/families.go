package app

import (
	"github.com/tempohq/tempo/internal/domain/composite"
	"github.com/tempohq/tempo/internal/domain/insight"
	"github.com/tempohq/tempo/internal/domain/model"
	"github.com/tempohq/tempo/internal/domain/signal"
)

// familyExtractors returns the extractors that feed one metric family.
// Extractors are stateless; fresh instances per computation are cheap
// and keep computations independent.
func familyExtractors(family model.Family) []signal.Extractor {
	switch family {
	case model.FamilyIntelligence:
		return []signal.Extractor{
			signal.NewPlanningQuality(),
			signal.NewExecutionIntelligence(),
			signal.NewAdaptationReflection(),
			signal.NewBehavioralStability(),
			signal.NewLearningGrowth(),
		}
	case model.FamilyProductivity:
		return []signal.Extractor{
			signal.NewExecutionIntelligence(),
			signal.NewPlanningQuality(),
			signal.NewBehavioralStability(),
			signal.NewFocusScore(),
		}
	case model.FamilyGoalProbability:
		return []signal.Extractor{signal.NewGoalVelocity()}
	case model.FamilyBurnout:
		return []signal.Extractor{signal.NewBurnoutRisk()}
	case model.FamilyMood:
		return []signal.Extractor{signal.NewMoodScore()}
	case model.FamilyFocus:
		return []signal.Extractor{signal.NewFocusScore()}
	default:
		return nil
	}
}

// familyWeights returns the composite weight table for multi-component
// families, or nil for families carried by a single extractor.
func familyWeights(family model.Family) composite.Weights {
	switch family {
	case model.FamilyIntelligence:
		return composite.IntelligenceWeights
	case model.FamilyProductivity:
		return composite.ProductivityWeights
	default:
		return nil
	}
}

// temporalFamily reports whether momentum and decay multipliers apply
// to the family's overall score.
func temporalFamily(family model.Family) bool {
	switch family {
	case model.FamilyGoalProbability, model.FamilyMood:
		return true
	default:
		return false
	}
}

// aggregateFamily folds component scores into the family's overall
// score, confidence and coverage. Components with zero confidence are
// treated as absent and their weight redistributed.
func aggregateFamily(family model.Family, components, confidences map[string]float64) (overall, confidence, coverage float64) {
	weights := familyWeights(family)
	if weights == nil {
		// Single-extractor family.
		for name, score := range components {
			overall = score
			confidence = confidences[name]
		}
		if confidence > 0 {
			coverage = 1
		}
		return overall, confidence, coverage
	}

	var present []string
	for name := range weights {
		if confidences[name] > 0 {
			present = append(present, name)
		}
	}
	w := composite.Redistribute(weights, present)
	overall = composite.Aggregate(components, w)

	var confSum float64
	for name, weight := range w {
		confSum += confidences[name] * weight
	}
	confidence = confSum
	coverage = float64(len(present)) / float64(len(weights))
	return overall, confidence, coverage
}

// explain derives drivers and next actions for the computed components.
// Single-extractor families skip drivers; the overall score already is
// the single component.
func explain(family model.Family, components map[string]float64, evidence map[string]map[string]float64) ([]model.Driver, []model.Action) {
	var drivers []model.Driver
	if weights := familyWeights(family); weights != nil {
		drivers = insight.Drivers(components, weights)
	}
	return drivers, insight.Actions(components, evidence)
}

// Category label thresholds on the overall score.
const (
	categoryExcellent = 85.0
	categoryStrong    = 70.0
	categorySteady    = 55.0
	categoryLow       = 40.0

	riskHigh     = 70.0
	riskModerate = 40.0
)

// scoreCategory maps an overall score to its user-facing label. The
// burnout family scores risk, so its labels run the other way.
func scoreCategory(family model.Family, score float64) string {
	if family == model.FamilyBurnout {
		switch {
		case score >= riskHigh:
			return "high"
		case score >= riskModerate:
			return "moderate"
		default:
			return "low"
		}
	}
	switch {
	case score >= categoryExcellent:
		return "excellent"
	case score >= categoryStrong:
		return "strong"
	case score >= categorySteady:
		return "steady"
	case score >= categoryLow:
		return "developing"
	default:
		return "struggling"
	}
}
