package model

import (
	"fmt"
	"time"
)

// ScheduleKind tags a schedule variant.
type ScheduleKind string

// Schedule variants.
const (
	ScheduleHabit    ScheduleKind = "habit"
	ScheduleDeepWork ScheduleKind = "deep_work"
	ScheduleGoal     ScheduleKind = "goal"
)

// Schedule is the common contract of the tagged schedule variants.
// Each variant carries explicit, validated fields instead of an
// untyped key/value blob.
type Schedule interface {
	Kind() ScheduleKind
	Validate() error
}

// Schedule bounds.
const (
	maxHabitTimesPerWeek = 21 // three times a day
	maxDeepWorkWeekMins  = 7 * 24 * 60
	minGoalHorizonDays   = 1
)

// HabitSchedule describes how often a habit should be logged.
type HabitSchedule struct {
	TimesPerWeek int    `json:"times_per_week"`
	Anchor       string `json:"anchor,omitempty"` // e.g. "morning", free-form
}

// Kind implements Schedule.
func (HabitSchedule) Kind() ScheduleKind { return ScheduleHabit }

// Validate implements Schedule.
func (s HabitSchedule) Validate() error {
	if s.TimesPerWeek < 1 || s.TimesPerWeek > maxHabitTimesPerWeek {
		return fmt.Errorf("%w: times_per_week %d outside [1,%d]", ErrInvalidSchedule, s.TimesPerWeek, maxHabitTimesPerWeek)
	}
	return nil
}

// NewHabitSchedule constructs a validated habit schedule.
func NewHabitSchedule(timesPerWeek int, anchor string) (HabitSchedule, error) {
	s := HabitSchedule{TimesPerWeek: timesPerWeek, Anchor: anchor}
	if err := s.Validate(); err != nil {
		return HabitSchedule{}, err
	}
	return s, nil
}

// DeepWorkSchedule describes a weekly deep-work commitment.
type DeepWorkSchedule struct {
	MinutesPerWeek  float64 `json:"minutes_per_week"`
	PreferredLength float64 `json:"preferred_length,omitempty"` // minutes per session
}

// Kind implements Schedule.
func (DeepWorkSchedule) Kind() ScheduleKind { return ScheduleDeepWork }

// Validate implements Schedule.
func (s DeepWorkSchedule) Validate() error {
	if s.MinutesPerWeek <= 0 || s.MinutesPerWeek > maxDeepWorkWeekMins {
		return fmt.Errorf("%w: minutes_per_week %.0f outside (0,%d]", ErrInvalidSchedule, s.MinutesPerWeek, maxDeepWorkWeekMins)
	}
	if s.PreferredLength < 0 {
		return fmt.Errorf("%w: negative preferred_length", ErrInvalidSchedule)
	}
	return nil
}

// NewDeepWorkSchedule constructs a validated deep-work schedule.
func NewDeepWorkSchedule(minutesPerWeek, preferredLength float64) (DeepWorkSchedule, error) {
	s := DeepWorkSchedule{MinutesPerWeek: minutesPerWeek, PreferredLength: preferredLength}
	if err := s.Validate(); err != nil {
		return DeepWorkSchedule{}, err
	}
	return s, nil
}

// GoalSchedule describes a goal's target horizon.
type GoalSchedule struct {
	StartedAt  time.Time `json:"started_at"`
	TargetDate time.Time `json:"target_date"`
	Category   string    `json:"category,omitempty"`
}

// Kind implements Schedule.
func (GoalSchedule) Kind() ScheduleKind { return ScheduleGoal }

// Validate implements Schedule.
func (s GoalSchedule) Validate() error {
	if s.StartedAt.IsZero() || s.TargetDate.IsZero() {
		return fmt.Errorf("%w: missing goal dates", ErrInvalidSchedule)
	}
	if s.TargetDate.Before(s.StartedAt.AddDate(0, 0, minGoalHorizonDays)) {
		return fmt.Errorf("%w: target date before minimum horizon", ErrInvalidSchedule)
	}
	return nil
}

// NewGoalSchedule constructs a validated goal schedule.
func NewGoalSchedule(startedAt, targetDate time.Time, category string) (GoalSchedule, error) {
	s := GoalSchedule{StartedAt: startedAt, TargetDate: targetDate, Category: category}
	if err := s.Validate(); err != nil {
		return GoalSchedule{}, err
	}
	return s, nil
}

// ElapsedWeeks returns the whole weeks since the goal started, minimum 1.
func (s GoalSchedule) ElapsedWeeks(now time.Time) float64 {
	weeks := now.Sub(s.StartedAt).Hours() / (24 * 7)
	if weeks < 1 {
		return 1
	}
	return weeks
}
