package composite_test

import (
	"testing"

	"github.com/tempohq/tempo/internal/domain/composite"
	. "github.com/smartystreets/goconvey/convey"
)

func TestWeightTables(t *testing.T) {
	Convey("Given every named weight table", t, func() {
		for name, table := range composite.FamilyTables() {
			Convey("Then "+name+" sums to exactly 1.0", func() {
				So(table.Valid(), ShouldBeTrue)
			})
		}
	})
}

func TestRedistribute(t *testing.T) {
	Convey("Given a weight profile", t, func() {
		profile := composite.Weights{"a": 0.5, "b": 0.3, "c": 0.2}

		Convey("When every component is present", func() {
			out := composite.Redistribute(profile, []string{"a", "b", "c"})

			Convey("Then the profile is unchanged", func() {
				So(out["a"], ShouldAlmostEqual, 0.5)
				So(out["b"], ShouldAlmostEqual, 0.3)
				So(out["c"], ShouldAlmostEqual, 0.2)
			})
		})

		Convey("When a component is absent", func() {
			out := composite.Redistribute(profile, []string{"a", "b"})

			Convey("Then its weight redistributes proportionally", func() {
				So(out["a"], ShouldAlmostEqual, 0.5/0.8)
				So(out["b"], ShouldAlmostEqual, 0.3/0.8)
				So(out.Valid(), ShouldBeTrue)
			})

			Convey("Then the absent component carries no weight", func() {
				_, ok := out["c"]
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When no weighted component is present", func() {
			out := composite.Redistribute(profile, []string{"x", "y"})

			Convey("Then the weight splits evenly over what is present", func() {
				So(out["x"], ShouldAlmostEqual, 0.5)
				So(out["y"], ShouldAlmostEqual, 0.5)
			})
		})

		Convey("When nothing is present", func() {
			out := composite.Redistribute(profile, nil)

			Convey("Then the result is empty", func() {
				So(out, ShouldBeEmpty)
			})
		})
	})
}

func TestAggregate(t *testing.T) {
	Convey("Given component scores", t, func() {
		w := composite.Weights{"a": 0.6, "b": 0.4}

		Convey("When all components are scored", func() {
			got := composite.Aggregate(map[string]float64{"a": 80, "b": 30}, w)

			Convey("Then the composite is the weighted mean", func() {
				So(got, ShouldAlmostEqual, 0.6*80+0.4*30)
			})
		})

		Convey("When a component is missing", func() {
			got := composite.Aggregate(map[string]float64{"a": 80}, w)

			Convey("Then its weight redistributes instead of dragging the score down", func() {
				So(got, ShouldAlmostEqual, 80)
			})
		})

		Convey("When scores are identical", func() {
			got := composite.Aggregate(map[string]float64{"a": 64, "b": 64}, w)

			Convey("Then any weighting returns that score", func() {
				So(got, ShouldAlmostEqual, 64)
			})
		})
	})
}

func TestGoalProfile(t *testing.T) {
	Convey("Given the goal category profiles", t, func() {
		Convey("Then fitness leans on habits", func() {
			p := composite.GoalProfile("fitness")
			So(p["habits"], ShouldBeGreaterThan, p["tasks"])
			So(p.Valid(), ShouldBeTrue)
		})

		Convey("Then project goals lean on tasks", func() {
			p := composite.GoalProfile("project")
			So(p["tasks"], ShouldBeGreaterThan, p["habits"])
		})

		Convey("Then unknown categories fall back to an even split", func() {
			p := composite.GoalProfile("surfing")
			So(p["habits"], ShouldAlmostEqual, 1.0/3)
			So(p["tasks"], ShouldAlmostEqual, 1.0/3)
			So(p["deep_work"], ShouldAlmostEqual, 1.0/3)
		})

		Convey("Then returned profiles are copies", func() {
			p := composite.GoalProfile("fitness")
			p["habits"] = 0
			So(composite.GoalProfile("fitness")["habits"], ShouldAlmostEqual, 0.6)
		})
	})
}
