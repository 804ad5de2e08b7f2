// Package seedevents generates plausible behavioral event streams and
// submits them to a running service, so scores can be exercised without
// a real frontend.
package seedevents

import "time"

// Config holds configuration for one seeding run.
type Config struct {
	BaseURL      string        // Base URL of the service
	Users        int           // Number of synthetic users
	Days         int           // Days of history per user
	EventsPerDay int           // Average events per user per day
	Workers      int           // Number of concurrent submitters
	Timeout      time.Duration // HTTP request timeout
	Seed         uint64        // Generator seed, 0 means random
	Verbose      bool          // Enable verbose logging
}

// Event mirrors the POST /events wire schema.
type Event struct {
	EventID  string    `json:"event_id"`
	UserID   string    `json:"user_id"`
	Kind     string    `json:"kind"`
	Category string    `json:"category"`
	TS       string    `json:"ts"`
	Meta     EventMeta `json:"meta"`
}

// EventMeta mirrors the event meta wire schema.
type EventMeta struct {
	Priority        string  `json:"priority,omitempty"`
	GoalID          string  `json:"goal_id,omitempty"`
	EstimateMinutes float64 `json:"estimate_minutes,omitempty"`
	ActualMinutes   float64 `json:"actual_minutes,omitempty"`
	DurationMinutes float64 `json:"duration_minutes,omitempty"`
	StreakDays      int     `json:"streak_days,omitempty"`
	Text            string  `json:"text,omitempty"`
	ItemCreatedAt   string  `json:"item_created_at,omitempty"`
}

// AckResponse represents the response from event submission.
type AckResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// Stats holds run statistics.
type Stats struct {
	EventsGenerated  int
	EventsSubmitted  int
	EventsSuccessful int
	EventsDuplicate  int
	EventsFailed     int
	ScoresFetched    int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
