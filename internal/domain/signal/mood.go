package signal

import "github.com/tempohq/tempo/internal/domain/model"

// Mood thresholds.
const (
	// moodTargetEvidence is the message count at which mood confidence
	// reaches 1.0.
	moodTargetEvidence = 5.0

	// moodPositivePoints / moodNegativePoints are the per-match shifts
	// around the neutral baseline. Negative matches weigh slightly more
	// because users under-report distress.
	moodPositivePoints = 8.0
	moodNegativePoints = 10.0

	// moodActivityPoints rewards completions as a mood proxy, capped at
	// moodActivityCap.
	moodActivityPoints = 2.0
	moodActivityCap    = 10.0

	// moodDefaultConfidence is the documented heuristic floor applied
	// when any message exists. Explicit default, not evidence-derived.
	moodDefaultConfidence = 0.25
)

// MoodScore estimates mood from message sentiment with a small
// completed-work proxy.
type MoodScore struct{}

// NewMoodScore creates the mood extractor.
func NewMoodScore() *MoodScore { return &MoodScore{} }

// Name implements Extractor.
func (*MoodScore) Name() string { return "mood" }

// Extract implements Extractor.
func (m *MoodScore) Extract(events []model.Event, w Window) Result {
	messages := byKind(events, w, model.KindChatMessage)
	completions := byKind(events, w, model.KindTaskCompleted, model.KindHabitLogged)
	if len(messages) == 0 && len(completions) == 0 {
		return Neutral()
	}

	texts := make([]string, 0, len(messages))
	for _, e := range messages {
		texts = append(texts, e.Meta.Text)
	}
	positive := countPhrases(texts, positiveMoodPhrases)
	negative := countPhrases(texts, negativeMoodPhrases)
	_, recovery := sentimentRisk(texts)

	activity := clamp(float64(len(completions))*moodActivityPoints, 0, moodActivityCap)
	raw := NeutralScore +
		float64(positive)*moodPositivePoints -
		float64(negative)*moodNegativePoints +
		float64(recovery)*moodPositivePoints/2 +
		activity

	conf := EvidenceConfidence(float64(len(messages)), moodTargetEvidence)
	if len(messages) > 0 && conf < moodDefaultConfidence {
		conf = moodDefaultConfidence
	}

	return Result{
		Raw:        clampScore(raw),
		Confidence: conf,
		Evidence: map[string]float64{
			"messages":         float64(len(messages)),
			"positive_matches": float64(positive),
			"negative_matches": float64(negative),
			"recovery_signals": float64(recovery),
			"completions":      float64(len(completions)),
		},
	}
}
