package signal_test

import (
	"testing"

	"github.com/tempohq/tempo/internal/domain/model"
	"github.com/tempohq/tempo/internal/domain/signal"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMoodScore(t *testing.T) {
	Convey("Given the mood extractor", t, func() {
		m := signal.NewMoodScore()
		w := signal.NewWindow(anchor, 7)

		Convey("When messages run positive", func() {
			r := m.Extract([]model.Event{
				chat(2, "feeling great about the launch"),
				chat(20, "really motivated today"),
			}, w)

			Convey("Then the score sits above the baseline", func() {
				So(r.Raw, ShouldBeGreaterThan, 50)
				So(r.Blended(), ShouldBeGreaterThan, 50)
			})
		})

		Convey("When messages run negative", func() {
			r := m.Extract([]model.Event{
				chat(2, "frustrated with how this is going"),
				chat(20, "honestly feeling down this week"),
			}, w)

			Convey("Then the score sits below the baseline", func() {
				So(r.Raw, ShouldBeLessThan, 50)
				So(r.Blended(), ShouldBeLessThan, 50)
			})
		})

		Convey("When only completions exist", func() {
			r := m.Extract([]model.Event{
				completedTask(2, model.PriorityMedium),
				completedTask(20, model.PriorityMedium),
			}, w)

			Convey("Then the activity proxy lifts the raw score slightly", func() {
				So(r.Raw, ShouldBeGreaterThan, 50)
			})

			Convey("Then confidence stays at zero without messages", func() {
				So(r.Confidence, ShouldEqual, 0)
				So(r.Blended(), ShouldEqual, 50)
			})
		})

		Convey("When any message exists", func() {
			r := m.Extract([]model.Event{chat(2, "nothing to report")}, w)

			Convey("Then the documented confidence floor applies", func() {
				So(r.Confidence, ShouldBeGreaterThanOrEqualTo, 0.25)
			})
		})
	})
}
