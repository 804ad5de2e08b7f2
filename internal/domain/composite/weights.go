package composite

// Family weight tables, version WeightsVersion. Each table must sum to
// 1.0; ValidateTables is asserted in tests so silent tuning cannot slip
// through a review.

// IntelligenceWeights combines the five intelligence components.
var IntelligenceWeights = Weights{
	"planning_quality":       0.25,
	"execution_intelligence": 0.30,
	"adaptation_reflection":  0.20,
	"behavioral_stability":   0.15,
	"learning_growth":        0.10,
}

// ProductivityWeights combines the execution-facing components.
var ProductivityWeights = Weights{
	"execution_intelligence": 0.40,
	"planning_quality":       0.25,
	"behavioral_stability":   0.20,
	"focus":                  0.15,
}

// FocusWeights combines the focus indicators.
var FocusWeights = Weights{
	"deep_work_depth":   0.40,
	"context_switching": 0.35,
	"break_cadence":     0.25,
}

// BurnoutWeights combines the burnout risk components.
var BurnoutWeights = Weights{
	"time_risk":      0.40,
	"workload_risk":  0.30,
	"sentiment_risk": 0.30,
}

// Goal-category profiles for the velocity family. Weights of absent
// components are redistributed via Redistribute, never dropped.
var goalProfiles = map[string]Weights{
	"fitness": {
		"habits":    0.60,
		"tasks":     0.20,
		"deep_work": 0.20,
	},
	"project": {
		"tasks":     0.50,
		"habits":    0.20,
		"deep_work": 0.30,
	},
	"learning": {
		"habits":    0.35,
		"tasks":     0.35,
		"deep_work": 0.30,
	},
}

// defaultGoalProfile is used for unrecognized categories.
var defaultGoalProfile = Weights{
	"habits":    1.0 / 3,
	"tasks":     1.0 / 3,
	"deep_work": 1.0 / 3,
}

// GoalProfile returns the weight profile for a goal category, falling
// back to an even split.
func GoalProfile(category string) Weights {
	if p, ok := goalProfiles[category]; ok {
		return p.clone()
	}
	return defaultGoalProfile.clone()
}

// FamilyTables lists every named table for validation.
func FamilyTables() map[string]Weights {
	tables := map[string]Weights{
		"intelligence": IntelligenceWeights,
		"productivity": ProductivityWeights,
		"focus":        FocusWeights,
		"burnout":      BurnoutWeights,
		"goal:default": defaultGoalProfile,
	}
	for cat, p := range goalProfiles {
		tables["goal:"+cat] = p
	}
	return tables
}
