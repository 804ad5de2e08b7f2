package signal_test

import (
	"testing"

	"github.com/tempohq/tempo/internal/domain/model"
	"github.com/tempohq/tempo/internal/domain/signal"
	. "github.com/smartystreets/goconvey/convey"
)

func TestExecutionIntelligence(t *testing.T) {
	Convey("Given the execution extractor", t, func() {
		x := signal.NewExecutionIntelligence()
		w := signal.NewWindow(anchor, 7)

		Convey("When a sparse week has three completions and nothing else", func() {
			events := []model.Event{
				completedTask(2, model.PriorityUrgent),
				completedTask(26, model.PriorityMedium),
				completedTask(50, model.PriorityMedium),
			}
			r := x.Extract(events, w)

			Convey("Then the blended score clears the baseline", func() {
				So(r.Blended(), ShouldBeGreaterThan, 50)
			})

			Convey("Then confidence reflects three of the five-item target", func() {
				So(r.Confidence, ShouldAlmostEqual, 0.6)
			})

			Convey("Then the completion ratio falls back to full when nothing was created in-window", func() {
				So(r.Evidence["tasks_created"], ShouldEqual, 0)
				So(r.Evidence["tasks_completed"], ShouldEqual, 3)
			})
		})

		Convey("When many created items stay unfinished", func() {
			finished := x.Extract([]model.Event{
				ev(model.KindTaskCreated, 30),
				completedTask(2, model.PriorityMedium),
			}, w)
			unfinished := x.Extract([]model.Event{
				ev(model.KindTaskCreated, 30),
				ev(model.KindTaskCreated, 31),
				ev(model.KindTaskCreated, 32),
				ev(model.KindTaskCreated, 33),
				completedTask(2, model.PriorityMedium),
			}, w)

			Convey("Then the raw score drops with the completion ratio", func() {
				So(unfinished.Raw, ShouldBeLessThan, finished.Raw)
			})
		})

		Convey("When completions carry goal tags", func() {
			tagged := completedTask(2, model.PriorityMedium)
			tagged.Meta.GoalID = "g-1"
			withGoal := x.Extract([]model.Event{tagged}, w)

			plain := x.Extract([]model.Event{completedTask(2, model.PriorityMedium)}, w)

			Convey("Then alignment lifts the raw score", func() {
				So(withGoal.Raw, ShouldBeGreaterThan, plain.Raw)
			})
		})

		Convey("When events fall outside the window", func() {
			r := x.Extract([]model.Event{completedTask(24*30, model.PriorityUrgent)}, w)

			Convey("Then they contribute nothing", func() {
				So(r.Blended(), ShouldEqual, 50)
				So(r.Confidence, ShouldEqual, 0)
			})
		})
	})
}
