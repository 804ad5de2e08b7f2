package signal_test

import (
	"testing"

	"github.com/tempohq/tempo/internal/domain/model"
	"github.com/tempohq/tempo/internal/domain/signal"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPlanningQuality(t *testing.T) {
	Convey("Given the planning extractor", t, func() {
		p := signal.NewPlanningQuality()
		w := signal.NewWindow(anchor, 7)

		Convey("When items are goal-tagged and planned ahead", func() {
			planned := completedTask(2, model.PriorityMedium)
			planned.Meta.GoalID = "g-1"
			planned.Meta.ItemCreatedAt = w.Start.AddDate(0, 0, -2)

			adHoc := completedTask(4, model.PriorityMedium)

			deliberate := p.Extract([]model.Event{planned}, w)
			scattered := p.Extract([]model.Event{adHoc}, w)

			Convey("Then deliberate planning scores higher", func() {
				So(deliberate.Raw, ShouldBeGreaterThan, scattered.Raw)
			})
		})

		Convey("When estimates are accurate", func() {
			accurate := completedTask(2, model.PriorityMedium)
			accurate.Meta.EstimateMinutes = 60
			accurate.Meta.ActualMinutes = 63

			wild := completedTask(2, model.PriorityMedium)
			wild.Meta.EstimateMinutes = 60
			wild.Meta.ActualMinutes = 240

			good := p.Extract([]model.Event{accurate}, w)
			bad := p.Extract([]model.Event{wild}, w)

			Convey("Then accuracy shows in the raw score", func() {
				So(good.Raw, ShouldBeGreaterThan, bad.Raw)
			})
		})

		Convey("When the active list is overloaded", func() {
			var modest, overloaded []model.Event
			for i := 0; i < 6; i++ {
				e := ev(model.KindTaskCreated, 10+i)
				e.Meta.GoalID = "g-1"
				modest = append(modest, e)
			}
			for i := 0; i < 16; i++ {
				e := ev(model.KindTaskCreated, 10+i)
				e.Meta.GoalID = "g-1"
				overloaded = append(overloaded, e)
			}

			mr := p.Extract(modest, w)
			or := p.Extract(overloaded, w)

			Convey("Then the overload penalty lowers the raw score", func() {
				So(or.Raw, ShouldBeLessThan, mr.Raw)
			})

			Convey("Then the active-item count is reported for the action rules", func() {
				So(or.Evidence["active_items"], ShouldEqual, 16)
			})
		})

		Convey("When planning sessions are held", func() {
			with := p.Extract([]model.Event{
				ev(model.KindPlanningSession, 4),
				completedTask(2, model.PriorityMedium),
			}, w)
			without := p.Extract([]model.Event{
				completedTask(2, model.PriorityMedium),
			}, w)

			Convey("Then plan usage lifts the raw score", func() {
				So(with.Raw, ShouldBeGreaterThan, without.Raw)
			})
		})
	})
}
