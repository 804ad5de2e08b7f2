package signal

import "github.com/tempohq/tempo/internal/domain/model"

// Execution intelligence thresholds.
const (
	// executionTargetEvidence is the completed-item count at which
	// execution confidence reaches 1.0.
	executionTargetEvidence = 5.0

	// deepWorkSessionCap is where additional sessions stop adding score
	// (diminishing returns).
	deepWorkSessionCap = 5.0

	// efficiencyTargetPerHour is the completions-per-logged-hour rate
	// that maps to a full efficiency score.
	efficiencyTargetPerHour = 0.5

	// maxPriorityWeight normalizes the priority-weighted average
	// (urgent carries the maximum weight of 3).
	maxPriorityWeight = 3.0

	// Sub-part weights; must sum to 1.0.
	executionCompletionWeight = 0.35
	executionPriorityWeight   = 0.25
	executionDeepWorkWeight   = 0.15
	executionEfficiencyWeight = 0.15
	executionAlignmentWeight  = 0.10
)

// ExecutionIntelligence scores how well a user converts plans into
// finished work: completion ratio, priority discipline, deep-work
// sessions, efficiency, and goal alignment of completions.
type ExecutionIntelligence struct{}

// NewExecutionIntelligence creates the execution extractor.
func NewExecutionIntelligence() *ExecutionIntelligence { return &ExecutionIntelligence{} }

// Name implements Extractor.
func (*ExecutionIntelligence) Name() string { return "execution_intelligence" }

// Extract implements Extractor.
func (x *ExecutionIntelligence) Extract(events []model.Event, w Window) Result {
	completed := byKind(events, w, model.KindTaskCompleted)
	created := byKind(events, w, model.KindTaskCreated)
	deepWork := byKind(events, w, model.KindDeepWork)
	if len(completed) == 0 && len(created) == 0 && len(deepWork) == 0 {
		return Neutral()
	}

	parts := map[string]float64{}
	weights := map[string]float64{}

	// Completion ratio. When nothing was created inside the window but
	// items were still completed, the items predate the window and the
	// ratio is taken as 1.0.
	if len(completed) > 0 || len(created) > 0 {
		cr := ratio(float64(len(completed)), float64(len(created)), 1.0)
		parts["completion"] = clampScore(cr * 100)
		weights["completion"] = executionCompletionWeight
	}

	// Priority-weighted average over completions.
	if len(completed) > 0 {
		var wsum float64
		for _, e := range completed {
			wsum += e.Meta.Priority.Weight()
		}
		avg := wsum / float64(len(completed))
		parts["priority"] = clampScore(avg / maxPriorityWeight * 100)
		weights["priority"] = executionPriorityWeight

		var aligned int
		for _, e := range completed {
			if e.Meta.GoalID != "" {
				aligned++
			}
		}
		parts["alignment"] = ratio(float64(aligned), float64(len(completed)), 0) * 100
		weights["alignment"] = executionAlignmentWeight
	}

	// Deep-work session count with diminishing returns past the cap.
	if len(deepWork) > 0 {
		n := clamp(float64(len(deepWork)), 0, deepWorkSessionCap)
		parts["deep_work"] = n / deepWorkSessionCap * 100
		weights["deep_work"] = executionDeepWorkWeight
	}

	// Efficiency: completions per logged hour of work.
	loggedMinutes := 0.0
	for _, e := range completed {
		loggedMinutes += e.Meta.ActualMinutes
	}
	for _, e := range deepWork {
		loggedMinutes += e.Meta.DurationMinutes
	}
	if loggedMinutes > 0 && len(completed) > 0 {
		perHour := float64(len(completed)) / (loggedMinutes / 60)
		parts["efficiency"] = clampScore(perHour / efficiencyTargetPerHour * 100)
		weights["efficiency"] = executionEfficiencyWeight
	}

	evidence := map[string]float64{
		"tasks_completed":    float64(len(completed)),
		"tasks_created":      float64(len(created)),
		"deep_work_sessions": float64(len(deepWork)),
		"logged_minutes":     loggedMinutes,
	}
	return Result{
		Raw:        clampScore(weightedMean(parts, weights)),
		Confidence: EvidenceConfidence(float64(len(completed)+len(deepWork)), executionTargetEvidence),
		Evidence:   evidence,
	}
}
