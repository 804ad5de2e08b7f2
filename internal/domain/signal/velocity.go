package signal

import (
	"github.com/tempohq/tempo/internal/domain/composite"
	"github.com/tempohq/tempo/internal/domain/model"
)

// Goal velocity thresholds.
const (
	// habitFormationDays caps the streak sub-score: a streak at or past
	// habit formation counts as fully established.
	habitFormationDays = 21.0

	// expectedWeeklyDeepWorkMinutes is the deep-work baseline per
	// elapsed week a goal is expected to accumulate.
	expectedWeeklyDeepWorkMinutes = 120.0

	// velocityTargetEvidence is the goal-linked event count at which
	// velocity confidence reaches 1.0.
	velocityTargetEvidence = 6.0

	daysPerWeek = 7.0
)

// GoalVelocity scores progress toward goals from their linked habit,
// task, and deep-work components, combined with category-specific
// weight profiles. Weights of absent components are redistributed
// proportionally, never zeroed silently.
type GoalVelocity struct{}

// NewGoalVelocity creates the goal-velocity extractor.
func NewGoalVelocity() *GoalVelocity { return &GoalVelocity{} }

// Name implements Extractor.
func (*GoalVelocity) Name() string { return "goal_velocity" }

// Extract implements Extractor.
func (g *GoalVelocity) Extract(events []model.Event, w Window) Result {
	var linked []model.Event
	for _, e := range inWindow(events, w) {
		if e.Meta.GoalID != "" || e.Kind == model.KindHabitLogged {
			linked = append(linked, e)
		}
	}
	if len(linked) == 0 {
		return Neutral()
	}

	subs := map[string]float64{}
	evidence := map[string]float64{"goal_events": float64(len(linked))}

	// Habit component: longest current streak, capped at formation.
	maxStreak := 0
	habitCount := 0
	for _, e := range linked {
		if e.Kind == model.KindHabitLogged {
			habitCount++
			if e.Meta.StreakDays > maxStreak {
				maxStreak = e.Meta.StreakDays
			}
		}
	}
	if habitCount > 0 {
		subs["habits"] = clamp(float64(maxStreak), 0, habitFormationDays) / habitFormationDays * 100
		evidence["habit_signals"] = float64(habitCount)
		evidence["max_streak"] = float64(maxStreak)
	}

	// Task component: priority-weighted completion ratio.
	var completedW, createdW float64
	for _, e := range linked {
		switch e.Kind {
		case model.KindTaskCompleted:
			completedW += e.Meta.Priority.Weight()
		case model.KindTaskCreated:
			createdW += e.Meta.Priority.Weight()
		}
	}
	if completedW > 0 || createdW > 0 {
		subs["tasks"] = clampScore(ratio(completedW, createdW, 1.0) * 100)
		evidence["task_weight_completed"] = completedW
		evidence["task_weight_created"] = createdW
	}

	// Deep-work component: completed minutes against the elapsed-weeks
	// baseline.
	var minutes float64
	deepCount := 0
	for _, e := range linked {
		if e.Kind == model.KindDeepWork {
			minutes += e.Meta.DurationMinutes
			deepCount++
		}
	}
	if deepCount > 0 {
		weeks := w.Days() / daysPerWeek
		if weeks < 1 {
			weeks = 1
		}
		expected := weeks * expectedWeeklyDeepWorkMinutes
		subs["deep_work"] = clampScore(minutes / expected * 100)
		evidence["deep_work_minutes"] = minutes
	}

	if len(subs) == 0 {
		return Neutral()
	}

	profile := composite.GoalProfile(dominantCategory(linked))
	raw := composite.Aggregate(subs, profile)
	for k, v := range subs {
		evidence["sub_"+k] = v
	}

	return Result{
		Raw:        clampScore(raw),
		Confidence: EvidenceConfidence(float64(len(linked)), velocityTargetEvidence),
		Evidence:   evidence,
	}
}

// dominantCategory returns the most frequent non-empty category among
// the linked events, or "" when none is tagged.
func dominantCategory(events []model.Event) string {
	counts := map[string]int{}
	for _, e := range events {
		if e.Category != "" {
			counts[e.Category]++
		}
	}
	best, bestN := "", 0
	for c, n := range counts {
		if n > bestN || (n == bestN && c < best) {
			best, bestN = c, n
		}
	}
	return best
}
