package seedevents

import (
	"context"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"

	"github.com/tempohq/tempo/pkg/logger"
)

// Generation shape constants.
const (
	completionChance   = 0.7  // fraction of created tasks that get completed
	habitChance        = 0.8  // chance a user logs their habit on a day
	deepWorkChance     = 0.5  // chance of a deep-work session on a day
	chatChance         = 0.6  // chance of a chat message on a day
	planningChance     = 0.2  // chance of a planning session on a day
	breakChance        = 0.4  // chance of a logged break on a day
	retroWeekday       = time.Sunday
	minSessionMinutes  = 25
	maxSessionMinutes  = 90
	minEstimateMinutes = 15
	maxEstimateMinutes = 120
)

var categories = []string{"work", "health", "learning", "personal"}

var priorities = []string{"urgent", "high", "medium", "medium", "low"}

// reflectiveMessages are sprinkled in so adaptation and mood signals
// have something to chew on.
var reflectiveMessages = []string{
	"looking back at this week I realize I overcommitted again",
	"what worked well was doing the hard task first thing",
	"next time I will batch my meetings into the afternoon",
	"I learned that my estimates for reviews are way off",
	"feeling great about the progress on the launch",
	"pretty exhausted and overwhelmed lately, can't keep up",
	"taking a break today to recharge before the next push",
}

// generator produces one user's event history.
type generator struct {
	faker *gofakeit.Faker
}

func newGenerator(seed uint64) *generator {
	return &generator{faker: gofakeit.New(seed)}
}

// userStream generates days of history for one user, newest last.
func (g *generator) userStream(userID string, days, perDay int, now time.Time) []Event {
	var out []Event
	goalID := uuid.NewString()
	streak := 0

	for d := days - 1; d >= 0; d-- {
		day := now.AddDate(0, 0, -d)
		out = append(out, g.dayEvents(userID, goalID, day, perDay, &streak)...)
	}
	return out
}

// dayEvents generates one plausible day: some tasks, usually the habit,
// maybe a deep-work block, chat, planning, a break, and a retrospective
// on Sundays.
func (g *generator) dayEvents(userID, goalID string, day time.Time, perDay int, streak *int) []Event {
	var out []Event
	ts := day.Add(time.Duration(g.faker.Number(8, 11)) * time.Hour)

	tasks := g.faker.Number(1, perDay)
	for i := 0; i < tasks; i++ {
		ts = ts.Add(time.Duration(g.faker.Number(20, 90)) * time.Minute)
		category := g.pick(categories)
		priority := g.pick(priorities)
		estimate := float64(g.faker.Number(minEstimateMinutes, maxEstimateMinutes))

		created := g.event(userID, "task_created", category, ts)
		created.Meta.Priority = priority
		if g.faker.Float64Range(0, 1) < 0.5 {
			created.Meta.GoalID = goalID
		}
		out = append(out, created)

		if g.faker.Float64Range(0, 1) < completionChance {
			done := g.event(userID, "task_completed", category, ts.Add(2*time.Hour))
			done.Meta.Priority = priority
			done.Meta.GoalID = created.Meta.GoalID
			done.Meta.EstimateMinutes = estimate
			done.Meta.ActualMinutes = estimate * g.faker.Float64Range(0.6, 1.8)
			done.Meta.ItemCreatedAt = created.TS
			out = append(out, done)
		}
	}

	if g.faker.Float64Range(0, 1) < habitChance {
		*streak++
		habit := g.event(userID, "habit_logged", "health", ts.Add(30*time.Minute))
		habit.Meta.StreakDays = *streak
		habit.Meta.GoalID = goalID
		out = append(out, habit)
	} else {
		*streak = 0
	}

	if g.faker.Float64Range(0, 1) < deepWorkChance {
		dw := g.event(userID, "deep_work", "work", ts.Add(90*time.Minute))
		dw.Meta.DurationMinutes = float64(g.faker.Number(minSessionMinutes, maxSessionMinutes))
		out = append(out, dw)
	}

	if g.faker.Float64Range(0, 1) < chatChance {
		chat := g.event(userID, "chat_message", "", ts.Add(3*time.Hour))
		if g.faker.Float64Range(0, 1) < 0.4 {
			chat.Meta.Text = g.pick(reflectiveMessages)
		} else {
			chat.Meta.Text = g.faker.Sentence(8)
		}
		out = append(out, chat)
	}

	if g.faker.Float64Range(0, 1) < planningChance {
		out = append(out, g.event(userID, "planning_session", "work", ts.Add(-time.Hour)))
	}
	if g.faker.Float64Range(0, 1) < breakChance {
		br := g.event(userID, "break_logged", "", ts.Add(4*time.Hour))
		br.Meta.DurationMinutes = float64(g.faker.Number(10, 30))
		out = append(out, br)
	}
	if day.Weekday() == retroWeekday {
		retro := g.event(userID, "retrospective", "", ts.Add(8*time.Hour))
		retro.Meta.Text = g.pick(reflectiveMessages)
		out = append(out, retro)
	}
	return out
}

func (g *generator) event(userID, kind, category string, ts time.Time) Event {
	return Event{
		EventID:  uuid.NewString(),
		UserID:   userID,
		Kind:     kind,
		Category: category,
		TS:       ts.UTC().Format(time.RFC3339),
	}
}

func (g *generator) pick(list []string) string {
	return list[g.faker.Number(0, len(list)-1)]
}

// generateEvents creates event streams for all configured users.
func generateEvents(ctx context.Context, config *Config, stats *Stats) ([]string, []Event, error) {
	logger.Get().Info(ctx, "generating event streams",
		logger.Int("users", config.Users),
		logger.Int("days", config.Days),
	)

	g := newGenerator(config.Seed)
	now := time.Now()

	users := make([]string, config.Users)
	var events []Event
	for i := range users {
		users[i] = uuid.NewString()
		events = append(events, g.userStream(users[i], config.Days, config.EventsPerDay, now)...)
	}
	stats.EventsGenerated = len(events)
	return users, events, nil
}
