package insight_test

import (
	"testing"

	"github.com/tempohq/tempo/internal/domain/composite"
	"github.com/tempohq/tempo/internal/domain/insight"
	"github.com/tempohq/tempo/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDrivers(t *testing.T) {
	Convey("Given component scores under the intelligence weights", t, func() {
		components := map[string]float64{
			"planning_quality":       80, // +30 * 0.25 = +7.5
			"execution_intelligence": 40, // -10 * 0.30 = -3.0
			"adaptation_reflection":  50, // 0
			"behavioral_stability":   20, // -30 * 0.15 = -4.5
			"learning_growth":        55, // +5 * 0.10 = +0.5
		}
		drivers := insight.Drivers(components, composite.IntelligenceWeights)

		Convey("Then at most three drivers come back, strongest first", func() {
			So(len(drivers), ShouldEqual, 3)
			So(drivers[0].Label, ShouldEqual, "Planning quality")
			So(drivers[1].Label, ShouldEqual, "Consistency")
			So(drivers[2].Label, ShouldEqual, "Execution")
		})

		Convey("Then directions follow the sign of the pull", func() {
			So(drivers[0].Direction, ShouldEqual, model.DriverUp)
			So(drivers[1].Direction, ShouldEqual, model.DriverDown)
			So(drivers[2].Direction, ShouldEqual, model.DriverDown)
		})

		Convey("Then the ranking is deterministic across calls", func() {
			again := insight.Drivers(components, composite.IntelligenceWeights)
			So(again[0].Label, ShouldEqual, drivers[0].Label)
			So(again[1].Label, ShouldEqual, drivers[1].Label)
			So(again[2].Label, ShouldEqual, drivers[2].Label)
		})
	})

	Convey("Given components missing from the weight table", t, func() {
		drivers := insight.Drivers(map[string]float64{"unknown": 90}, composite.IntelligenceWeights)

		Convey("Then they are skipped", func() {
			So(drivers, ShouldBeEmpty)
		})
	})
}

func TestActions(t *testing.T) {
	Convey("Given computed components with evidence", t, func() {
		Convey("When the active list is overloaded", func() {
			actions := insight.Actions(
				map[string]float64{"planning_quality": 35},
				map[string]map[string]float64{
					"planning_quality": {"active_items": 12, "estimated_items": 3},
				},
			)

			Convey("Then the trim recommendation fires", func() {
				So(len(actions), ShouldBeGreaterThan, 0)
				So(actions[0].Label, ShouldEqual, "Trim your active list")
				So(actions[0].TargetMetric, ShouldEqual, "planning_quality")
			})
		})

		Convey("When evidence does not support a rule", func() {
			actions := insight.Actions(
				map[string]float64{"planning_quality": 35},
				map[string]map[string]float64{
					"planning_quality": {"active_items": 3, "estimated_items": 2},
				},
			)

			Convey("Then no overload action fires on score alone", func() {
				for _, a := range actions {
					So(a.Label, ShouldNotEqual, "Trim your active list")
				}
			})
		})

		Convey("When several components are weak", func() {
			actions := insight.Actions(
				map[string]float64{
					"execution_intelligence": 30,
					"adaptation_reflection":  45,
					"behavioral_stability":   40,
					"learning_growth":        48,
				},
				map[string]map[string]float64{
					"execution_intelligence": {"tasks_created": 4, "tasks_completed": 1, "deep_work_sessions": 0},
					"adaptation_reflection":  {"retrospectives": 0},
					"behavioral_stability":   {"longest_gap": 3},
					"learning_growth":        {"experiments": 0},
				},
			)

			Convey("Then the list caps at three, weakest component first", func() {
				So(len(actions), ShouldEqual, 3)
				So(actions[0].TargetMetric, ShouldEqual, "execution_intelligence")
			})
		})

		Convey("When burnout risk is elevated without recovery", func() {
			actions := insight.Actions(
				map[string]float64{"burnout_risk": 75},
				map[string]map[string]float64{
					"burnout_risk": {"recovery_signals": 0},
				},
			)

			Convey("Then the break recommendation fires", func() {
				So(len(actions), ShouldEqual, 1)
				So(actions[0].Label, ShouldEqual, "Take a real break")
			})
		})
	})
}
