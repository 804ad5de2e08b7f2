package signal

import (
	"strings"

	"github.com/tempohq/tempo/internal/domain/model"
)

// Adaptation & reflection thresholds.
const (
	// adaptationTargetEvidence is the reflective-signal count at which
	// confidence reaches 1.0.
	adaptationTargetEvidence = 4.0

	// adaptationPointsPerSignal is the raw-score lift per reflective
	// signal above the neutral baseline.
	adaptationPointsPerSignal = 12.5

	// retroSignalWeight gives explicit retrospectives slightly more
	// weight than passive insight reads.
	retroSignalWeight = 1.5

	// weakCueMinimum is how many distinct weak cues a message needs to
	// count as reflective without a strong phrase. One casual "plan"
	// must not register.
	weakCueMinimum = 2
)

// strongReflectivePhrases are multi-word phrases that mark a message as
// reflective on their own.
var strongReflectivePhrases = []string{
	"looking back",
	"in hindsight",
	"i realized",
	"i learned",
	"next time i",
	"what went wrong",
	"what went well",
	"reflecting on",
	"lesson learned",
}

// weakReflectiveCues are single words that only count in combination.
var weakReflectiveCues = []string{
	"plan",
	"improve",
	"adjust",
	"review",
	"retro",
	"better",
	"habit",
	"progress",
}

// AdaptationReflection scores how much a user reflects and adapts:
// insights read, retrospectives held, and reflective chat language.
type AdaptationReflection struct{}

// NewAdaptationReflection creates the adaptation extractor.
func NewAdaptationReflection() *AdaptationReflection { return &AdaptationReflection{} }

// Name implements Extractor.
func (*AdaptationReflection) Name() string { return "adaptation_reflection" }

// Extract implements Extractor.
func (a *AdaptationReflection) Extract(events []model.Event, w Window) Result {
	insights := byKind(events, w, model.KindInsightRead)
	retros := byKind(events, w, model.KindRetrospective, model.KindPlanningSession)
	messages := byKind(events, w, model.KindChatMessage)

	var reflective int
	for _, e := range messages {
		if IsReflective(e.Meta.Text) {
			reflective++
		}
	}

	signals := float64(len(insights)) + float64(len(retros))*retroSignalWeight + float64(reflective)
	if signals == 0 {
		return Neutral()
	}

	return Result{
		Raw:        clampScore(NeutralScore + signals*adaptationPointsPerSignal),
		Confidence: EvidenceConfidence(signals, adaptationTargetEvidence),
		Evidence: map[string]float64{
			"insights_read":       float64(len(insights)),
			"retrospectives":      float64(len(retros)),
			"reflective_messages": float64(reflective),
			"messages_seen":       float64(len(messages)),
		},
	}
}

// IsReflective reports whether a chat message carries reflective
// language: a strong multi-word phrase on its own, or at least
// weakCueMinimum distinct weak cues together.
func IsReflective(text string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, p := range strongReflectivePhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	distinct := 0
	for _, cue := range weakReflectiveCues {
		if strings.Contains(lower, cue) {
			distinct++
			if distinct >= weakCueMinimum {
				return true
			}
		}
	}
	return false
}
