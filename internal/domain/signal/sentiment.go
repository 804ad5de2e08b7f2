package signal

import "strings"

// Keyword-tier sentiment matching shared by the burnout and mood
// extractors. Tiers are matched against lowercased message text; each
// tier carries a signed weight. These lists are deliberately small and
// reviewable: no stemming, no scoring model.

// sentimentTier pairs keyword phrases with a signed risk weight.
// Positive weights raise burnout risk; negative weights are recovery
// language that lowers it.
type sentimentTier struct {
	name    string
	weight  float64
	phrases []string
}

// Sentiment tier weights.
const (
	extremeTierWeight  = 30.0
	highTierWeight     = 20.0
	moderateTierWeight = 10.0
	recoveryTierWeight = -10.0
)

var sentimentTiers = []sentimentTier{
	{
		name:   "extreme",
		weight: extremeTierWeight,
		phrases: []string{
			"burned out", "burnt out", "can't go on", "completely exhausted",
			"breaking down", "falling apart",
		},
	},
	{
		name:   "high",
		weight: highTierWeight,
		phrases: []string{
			"overwhelmed", "exhausted", "drained", "no energy", "can't keep up",
		},
	},
	{
		name:   "moderate",
		weight: moderateTierWeight,
		phrases: []string{
			"tired", "stressed", "too much", "behind on everything",
		},
	},
	{
		name:   "recovery",
		weight: recoveryTierWeight,
		phrases: []string{
			"rested", "recharged", "took a break", "feeling better",
			"back on track", "good night's sleep",
		},
	},
}

// positiveMoodPhrases lift the mood score.
var positiveMoodPhrases = []string{
	"feeling great", "feeling good", "excited", "proud of", "motivated",
	"energized", "productive day", "great progress",
}

// negativeMoodPhrases lower the mood score.
var negativeMoodPhrases = []string{
	"feeling down", "frustrated", "anxious", "worried", "unmotivated",
	"hopeless", "bad day", "giving up",
}

// sentimentRisk sums tier weights over the message texts. The result is
// clamped to [0,100]; recovery matches are also reported separately so
// the recovery bonus can be capped independently.
func sentimentRisk(texts []string) (risk float64, recoveryMatches int) {
	var total float64
	for _, t := range texts {
		lower := strings.ToLower(t)
		for _, tier := range sentimentTiers {
			for _, p := range tier.phrases {
				if strings.Contains(lower, p) {
					total += tier.weight
					if tier.weight < 0 {
						recoveryMatches++
					}
					break // one match per tier per message
				}
			}
		}
	}
	return clamp(total, 0, 100), recoveryMatches
}

// countPhrases returns how many messages contain at least one of the
// given phrases.
func countPhrases(texts, phrases []string) int {
	n := 0
	for _, t := range texts {
		lower := strings.ToLower(t)
		for _, p := range phrases {
			if strings.Contains(lower, p) {
				n++
				break
			}
		}
	}
	return n
}
