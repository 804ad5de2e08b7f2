// Package readiness holds the minimum-evidence gate and the
// baseline/trend calculations over stored snapshots. The gate
// suppresses scores until they would be meaningful; it never surfaces a
// misleadingly precise number on thin data.
package readiness

// Readiness thresholds over the trailing gate window.
const (
	// GateWindowDays is the rolling window the requirements are
	// evaluated over.
	GateWindowDays = 30

	// Minimum evidence required before any numeric score is returned.
	minTasksCompleted = 3
	minHabitSignals   = 1
	minInteractions   = 1
)

// Requirement names used in pending responses.
const (
	ReqTasksCompleted = "tasks_completed"
	ReqHabitSignals   = "habit_signals"
	ReqInteractions   = "interactions"
)

// Counts holds the evidence tallies the gate evaluates.
type Counts struct {
	TasksCompleted int `json:"tasks_completed"`
	HabitSignals   int `json:"habit_signals"`
	Interactions   int `json:"interactions"`
}

// Requirement reports progress toward one gate threshold.
type Requirement struct {
	Have int `json:"have"`
	Need int `json:"need"`
}

// Check evaluates the gate. When not ready it returns the full
// requirement map so callers can show progress instead of a score.
func Check(c Counts) (ready bool, requirements map[string]Requirement) {
	requirements = map[string]Requirement{
		ReqTasksCompleted: {Have: c.TasksCompleted, Need: minTasksCompleted},
		ReqHabitSignals:   {Have: c.HabitSignals, Need: minHabitSignals},
		ReqInteractions:   {Have: c.Interactions, Need: minInteractions},
	}
	ready = c.TasksCompleted >= minTasksCompleted &&
		c.HabitSignals >= minHabitSignals &&
		c.Interactions >= minInteractions
	return ready, requirements
}
