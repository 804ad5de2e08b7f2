package signal

import (
	"github.com/tempohq/tempo/internal/domain/composite"
	"github.com/tempohq/tempo/internal/domain/model"
)

// Burnout risk thresholds. The composite here is a RISK: 0 is healthy,
// 100 is acute. Callers that surface a "health" number must invert it.
// The sub-part weights live in composite.BurnoutWeights.
const (
	// safeDailyHours is the estimated active-hours level below which
	// time-based risk is zero.
	safeDailyHours = 6.0
	// moderateDailyHours is where the risk slope steepens.
	moderateDailyHours = 9.0
	// riskPerHourBelowModerate / riskPerHourAboveModerate are the
	// linear slopes on either side of the moderate threshold.
	riskPerHourBelowModerate = 10.0
	riskPerHourAboveModerate = 25.0

	// safeDailyCompletions is the completed-item rate below which
	// workload risk is zero; risk grows linearly past it.
	safeDailyCompletions = 5.0
	workloadRiskPerItem  = 12.5

	// recoveryBonusPerSignal reduces total risk per break event or
	// recovery-language match, capped at recoveryBonusCap.
	recoveryBonusPerSignal = 5.0
	recoveryBonusCap       = 20.0

	// burnoutTargetEvidence is the event count at which burnout
	// confidence reaches 1.0.
	burnoutTargetEvidence = 10.0

	// burnoutDefaultConfidence is the documented heuristic floor used
	// when sentiment is present but activity evidence is thin. This is
	// an explicit default, not an evidence-derived value.
	burnoutDefaultConfidence = 0.3
)

// BurnoutRisk estimates burnout risk from active hours, workload, and
// message sentiment, reduced by explicit recovery signals.
type BurnoutRisk struct{}

// NewBurnoutRisk creates the burnout extractor.
func NewBurnoutRisk() *BurnoutRisk { return &BurnoutRisk{} }

// Name implements Extractor.
func (*BurnoutRisk) Name() string { return "burnout_risk" }

// Extract implements Extractor.
func (b *BurnoutRisk) Extract(events []model.Event, w Window) Result {
	windowed := inWindow(events, w)
	if len(windowed) == 0 {
		return Neutral()
	}

	var loggedMinutes float64
	completed := 0
	breaks := 0
	var texts []string
	for _, e := range windowed {
		switch e.Kind {
		case model.KindTaskCompleted:
			completed++
			loggedMinutes += e.Meta.ActualMinutes
		case model.KindDeepWork:
			loggedMinutes += e.Meta.DurationMinutes
		case model.KindBreakLogged:
			breaks++
		case model.KindChatMessage:
			texts = append(texts, e.Meta.Text)
		}
	}

	days := w.Days()
	dailyHours := loggedMinutes / 60 / days
	timeRisk := hoursRisk(dailyHours)

	dailyCompleted := float64(completed) / days
	workloadRisk := clampScore((dailyCompleted - safeDailyCompletions) * workloadRiskPerItem)

	sentiment, recoveryMatches := sentimentRisk(texts)

	risk := composite.Aggregate(map[string]float64{
		"time_risk":      timeRisk,
		"workload_risk":  workloadRisk,
		"sentiment_risk": sentiment,
	}, composite.BurnoutWeights)

	bonus := clamp(float64(breaks+recoveryMatches)*recoveryBonusPerSignal, 0, recoveryBonusCap)
	risk = clampScore(risk - bonus)

	conf := EvidenceConfidence(float64(len(windowed)), burnoutTargetEvidence)
	if len(texts) > 0 && conf < burnoutDefaultConfidence {
		conf = burnoutDefaultConfidence
	}

	return Result{
		Raw:        risk,
		Confidence: conf,
		Evidence: map[string]float64{
			"events":           float64(len(windowed)),
			"logged_minutes":   loggedMinutes,
			"tasks_completed":  float64(completed),
			"breaks":           float64(breaks),
			"messages":         float64(len(texts)),
			"recovery_signals": float64(breaks + recoveryMatches),
		},
	}
}

// hoursRisk maps estimated daily active hours to a 0-100 risk: zero
// below the safe threshold, a gentle slope up to the moderate
// threshold, then a steep one past it.
func hoursRisk(dailyHours float64) float64 {
	switch {
	case dailyHours <= safeDailyHours:
		return 0
	case dailyHours <= moderateDailyHours:
		return clampScore((dailyHours - safeDailyHours) * riskPerHourBelowModerate)
	default:
		base := (moderateDailyHours - safeDailyHours) * riskPerHourBelowModerate
		return clampScore(base + (dailyHours-moderateDailyHours)*riskPerHourAboveModerate)
	}
}
