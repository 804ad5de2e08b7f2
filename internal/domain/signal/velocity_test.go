package signal_test

import (
	"testing"

	"github.com/tempohq/tempo/internal/domain/model"
	"github.com/tempohq/tempo/internal/domain/signal"
	. "github.com/smartystreets/goconvey/convey"
)

// habitEvent builds a goal-linked habit log with a streak.
func habitEvent(hoursAgo, streak int, category string) model.Event {
	e := ev(model.KindHabitLogged, hoursAgo)
	e.Meta.StreakDays = streak
	e.Category = category
	return e
}

func TestGoalVelocity(t *testing.T) {
	Convey("Given the goal-velocity extractor", t, func() {
		g := signal.NewGoalVelocity()
		w := signal.NewWindow(anchor, 7)

		Convey("When nothing links to a goal", func() {
			r := g.Extract([]model.Event{
				completedTask(2, model.PriorityMedium),
				chat(3, "hello"),
			}, w)

			Convey("Then the result is the neutral default", func() {
				So(r.Blended(), ShouldEqual, 50)
				So(r.Confidence, ShouldEqual, 0)
			})
		})

		Convey("When a fitness habit streak reaches formation", func() {
			events := []model.Event{
				habitEvent(2, 21, "fitness"),
				habitEvent(26, 20, "fitness"),
				habitEvent(50, 19, "fitness"),
			}
			r := g.Extract(events, w)

			Convey("Then the habit sub-score is maxed", func() {
				So(r.Evidence["sub_habits"], ShouldEqual, 100)
				So(r.Evidence["max_streak"], ShouldEqual, 21)
			})

			Convey("Then the blended score clears the baseline", func() {
				So(r.Blended(), ShouldBeGreaterThan, 50)
			})
		})

		Convey("When a short streak is compared to a long one", func() {
			short := g.Extract([]model.Event{habitEvent(2, 3, "fitness")}, w)
			long := g.Extract([]model.Event{habitEvent(2, 18, "fitness")}, w)

			Convey("Then the longer streak scores higher", func() {
				So(long.Raw, ShouldBeGreaterThan, short.Raw)
			})
		})

		Convey("When goal-tagged tasks complete against created weight", func() {
			created := ev(model.KindTaskCreated, 40)
			created.Meta.GoalID = "g-1"
			created.Meta.Priority = model.PriorityMedium
			done := completedTask(4, model.PriorityMedium)
			done.Meta.GoalID = "g-1"

			r := g.Extract([]model.Event{created, done}, w)

			Convey("Then the task sub-score reflects the weighted ratio", func() {
				So(r.Evidence["sub_tasks"], ShouldEqual, 100)
			})
		})
	})
}
