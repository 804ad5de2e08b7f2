// Package model contains domain models passed between layers.
package model

import "time"

// EventKind identifies the kind of behavioral event recorded for a user.
type EventKind string

// Behavioral event kinds recorded by the collaborating CRUD/chat layers.
const (
	KindTaskCreated     EventKind = "task_created"
	KindTaskCompleted   EventKind = "task_completed"
	KindHabitLogged     EventKind = "habit_logged"
	KindChatMessage     EventKind = "chat_message"
	KindDeepWork        EventKind = "deep_work"
	KindPlanningSession EventKind = "planning_session"
	KindInsightRead     EventKind = "insight_read"
	KindRetrospective   EventKind = "retrospective"
	KindExperiment      EventKind = "experiment"
	KindBreakLogged     EventKind = "break_logged"
)

// knownKinds is the dispatch table for event kinds. New kinds must be
// registered here; string comparison chains are not used anywhere else.
var knownKinds = map[EventKind]struct{}{
	KindTaskCreated:     {},
	KindTaskCompleted:   {},
	KindHabitLogged:     {},
	KindChatMessage:     {},
	KindDeepWork:        {},
	KindPlanningSession: {},
	KindInsightRead:     {},
	KindRetrospective:   {},
	KindExperiment:      {},
	KindBreakLogged:     {},
}

// Valid reports whether k is a registered event kind.
func (k EventKind) Valid() bool {
	_, ok := knownKinds[k]
	return ok
}

// Kinds returns all registered event kinds.
func Kinds() []EventKind {
	out := make([]EventKind, 0, len(knownKinds))
	for k := range knownKinds {
		out = append(out, k)
	}
	return out
}

// Priority classifies a task's urgency.
type Priority string

// Task priorities in descending order of weight.
const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// priorityWeights maps each priority to its scoring weight.
var priorityWeights = map[Priority]float64{
	PriorityUrgent: 3.0,
	PriorityHigh:   2.0,
	PriorityMedium: 1.0,
	PriorityLow:    0.5,
}

// Weight returns the scoring weight for p. Unknown priorities weigh as medium.
func (p Priority) Weight() float64 {
	if w, ok := priorityWeights[p]; ok {
		return w
	}
	return priorityWeights[PriorityMedium]
}

// Meta carries the typed per-kind payload of an event. Fields are zero
// when they do not apply to the event kind; extractors must tolerate
// partially populated metadata.
type Meta struct {
	// Priority of the underlying task (task events).
	Priority Priority `json:"priority,omitempty"`
	// GoalID links the event to a goal, empty when untagged.
	GoalID string `json:"goal_id,omitempty"`
	// EstimateMinutes and ActualMinutes hold the user's time estimate
	// and the logged actual for completed tasks.
	EstimateMinutes float64 `json:"estimate_minutes,omitempty"`
	ActualMinutes   float64 `json:"actual_minutes,omitempty"`
	// DurationMinutes is the length of a deep-work session or break.
	DurationMinutes float64 `json:"duration_minutes,omitempty"`
	// StreakDays is the current streak for habit events.
	StreakDays int `json:"streak_days,omitempty"`
	// Text is the message body for chat events.
	Text string `json:"text,omitempty"`
	// ItemCreatedAt is when the underlying item was created, used to
	// distinguish proactive planning from same-day item churn.
	ItemCreatedAt time.Time `json:"item_created_at,omitempty"`
}

// Event is one immutable behavioral event. Events are append-only and
// owned by the collaborating event source; the scoring engine only
// reads them.
type Event struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Kind      EventKind `json:"kind"`
	Category  string    `json:"category,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Meta      Meta      `json:"meta"`
}

// Validate checks the invariants required before an event is recorded.
func (e Event) Validate() error {
	switch {
	case e.ID == "":
		return ErrMissingEventID
	case e.UserID == "":
		return ErrMissingUserID
	case !e.Kind.Valid():
		return ErrUnknownKind
	case e.Timestamp.IsZero():
		return ErrMissingTimestamp
	}
	return nil
}
