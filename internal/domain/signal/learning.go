package signal

import "github.com/tempohq/tempo/internal/domain/model"

// Learning & growth thresholds.
const (
	// learningTargetEvidence is the event count at which learning
	// confidence reaches 1.0.
	learningTargetEvidence = 6.0

	// engagementTargetPerDay is the events-per-day rate that maps to a
	// full engagement sub-score.
	engagementTargetPerDay = 3.0

	// experimentBonus is added per tagged experimentation event, capped
	// at experimentBonusCap.
	experimentBonus    = 10.0
	experimentBonusCap = 20.0

	// Sub-part weights; must sum to 1.0.
	learningDiversityWeight  = 0.50
	learningEngagementWeight = 0.30
	learningExperimentWeight = 0.20
)

// LearningGrowth scores breadth of engagement: diversity of event
// kinds, overall engagement rate, and explicit experimentation.
type LearningGrowth struct{}

// NewLearningGrowth creates the learning extractor.
func NewLearningGrowth() *LearningGrowth { return &LearningGrowth{} }

// Name implements Extractor.
func (*LearningGrowth) Name() string { return "learning_growth" }

// Extract implements Extractor.
func (l *LearningGrowth) Extract(events []model.Event, w Window) Result {
	windowed := inWindow(events, w)
	if len(windowed) == 0 {
		return Neutral()
	}

	kinds := map[model.EventKind]struct{}{}
	experiments := 0
	for _, e := range windowed {
		kinds[e.Kind] = struct{}{}
		if e.Kind == model.KindExperiment {
			experiments++
		}
	}

	diversity := float64(len(kinds)) / float64(len(model.Kinds())) * 100
	engagement := clampScore(float64(len(windowed)) / w.Days() / engagementTargetPerDay * 100)
	expBonus := clamp(float64(experiments)*experimentBonus, 0, experimentBonusCap)
	expScore := clampScore(NeutralScore + expBonus*2.5)

	raw := learningDiversityWeight*diversity +
		learningEngagementWeight*engagement +
		learningExperimentWeight*expScore

	return Result{
		Raw:        clampScore(raw),
		Confidence: EvidenceConfidence(float64(len(windowed)), learningTargetEvidence),
		Evidence: map[string]float64{
			"events":         float64(len(windowed)),
			"distinct_kinds": float64(len(kinds)),
			"experiments":    float64(experiments),
		},
	}
}
