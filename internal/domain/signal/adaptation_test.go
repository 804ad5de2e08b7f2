package signal_test

import (
	"testing"

	"github.com/tempohq/tempo/internal/domain/model"
	"github.com/tempohq/tempo/internal/domain/signal"
	. "github.com/smartystreets/goconvey/convey"
)

func TestAdaptationReflection(t *testing.T) {
	Convey("Given the adaptation extractor", t, func() {
		a := signal.NewAdaptationReflection()
		w := signal.NewWindow(anchor, 7)

		Convey("When the week holds two reflective messages", func() {
			events := []model.Event{
				chat(4, "looking back at this week I overcommitted"),
				chat(30, "next time I will start with the hard task"),
			}
			r := a.Extract(events, w)

			Convey("Then two signals lift the raw score to 75", func() {
				So(r.Raw, ShouldAlmostEqual, 75)
			})

			Convey("Then confidence is half of the four-signal target", func() {
				So(r.Confidence, ShouldAlmostEqual, 0.5)
			})

			Convey("Then the blended score clears the baseline", func() {
				So(r.Blended(), ShouldBeGreaterThan, 50)
			})
		})

		Convey("When messages carry no reflective language", func() {
			r := a.Extract([]model.Event{
				chat(4, "lunch at noon works for me"),
				chat(5, "sounds good"),
			}, w)

			Convey("Then the result is the neutral default", func() {
				So(r.Blended(), ShouldEqual, 50)
				So(r.Confidence, ShouldEqual, 0)
			})
		})

		Convey("When a retrospective is held", func() {
			r := a.Extract([]model.Event{ev(model.KindRetrospective, 10)}, w)

			Convey("Then it counts heavier than a single insight read", func() {
				insight := a.Extract([]model.Event{ev(model.KindInsightRead, 10)}, w)
				So(r.Raw, ShouldBeGreaterThan, insight.Raw)
			})
		})
	})
}

func TestIsReflective(t *testing.T) {
	Convey("Given the reflective-language classifier", t, func() {
		Convey("Then strong phrases match on their own", func() {
			So(signal.IsReflective("Looking back, that sprint went sideways"), ShouldBeTrue)
			So(signal.IsReflective("in hindsight the estimate was off"), ShouldBeTrue)
		})

		Convey("Then a single weak cue is not enough", func() {
			So(signal.IsReflective("what is the plan for lunch"), ShouldBeFalse)
		})

		Convey("Then two distinct weak cues together match", func() {
			So(signal.IsReflective("I want to review the plan for next week"), ShouldBeTrue)
		})

		Convey("Then empty text never matches", func() {
			So(signal.IsReflective(""), ShouldBeFalse)
		})
	})
}
