package signal_test

import (
	"strconv"
	"testing"
	"time"

	"github.com/tempohq/tempo/internal/domain/model"
	"github.com/tempohq/tempo/internal/domain/signal"
	. "github.com/smartystreets/goconvey/convey"
)

// anchor is the fixed end-of-window instant every extractor test uses.
var anchor = time.Date(2026, time.March, 10, 18, 0, 0, 0, time.UTC)

// ev builds a minimal event n hours before the anchor.
func ev(kind model.EventKind, hoursAgo int) model.Event {
	return model.Event{
		ID:        "e-" + string(kind) + "-" + strconv.Itoa(hoursAgo),
		UserID:    "u-1",
		Kind:      kind,
		Timestamp: anchor.Add(-time.Duration(hoursAgo) * time.Hour),
	}
}

// completedTask builds a completed-task event with a priority.
func completedTask(hoursAgo int, priority model.Priority) model.Event {
	e := ev(model.KindTaskCompleted, hoursAgo)
	e.Meta.Priority = priority
	return e
}

// chat builds a chat-message event with the given text.
func chat(hoursAgo int, text string) model.Event {
	e := ev(model.KindChatMessage, hoursAgo)
	e.Meta.Text = text
	return e
}

func TestWindow(t *testing.T) {
	Convey("Given a 7-day window", t, func() {
		w := signal.NewWindow(anchor, 7)

		Convey("Then it spans exactly seven days", func() {
			So(w.Days(), ShouldEqual, 7)
		})

		Convey("Then the end is inclusive and the start exclusive", func() {
			So(w.Contains(anchor), ShouldBeTrue)
			So(w.Contains(w.Start), ShouldBeFalse)
			So(w.Contains(w.Start.Add(time.Second)), ShouldBeTrue)
			So(w.Contains(anchor.Add(time.Second)), ShouldBeFalse)
		})
	})
}

func TestNeutral(t *testing.T) {
	Convey("Given the no-evidence result", t, func() {
		r := signal.Neutral()

		Convey("Then it blends to exactly the baseline with zero confidence", func() {
			So(r.Blended(), ShouldEqual, signal.NeutralScore)
			So(r.Confidence, ShouldEqual, 0)
		})
	})
}

// Every extractor must satisfy the shared contract: bounded scores,
// neutral on empty input, confidence within [0,1].
func TestExtractorContract(t *testing.T) {
	extractors := []signal.Extractor{
		signal.NewPlanningQuality(),
		signal.NewExecutionIntelligence(),
		signal.NewAdaptationReflection(),
		signal.NewBehavioralStability(),
		signal.NewLearningGrowth(),
		signal.NewGoalVelocity(),
		signal.NewBurnoutRisk(),
		signal.NewMoodScore(),
		signal.NewFocusScore(),
	}

	Convey("Given every extractor", t, func() {
		w := signal.NewWindow(anchor, 7)

		Convey("When extracting from an empty stream", func() {
			for _, ex := range extractors {
				r := ex.Extract(nil, w)

				Convey("Then "+ex.Name()+" returns the neutral default", func() {
					So(r.Blended(), ShouldEqual, signal.NeutralScore)
					So(r.Confidence, ShouldEqual, 0)
				})
			}
		})

		Convey("When extracting from a busy stream", func() {
			events := []model.Event{
				completedTask(2, model.PriorityUrgent),
				completedTask(26, model.PriorityMedium),
				ev(model.KindTaskCreated, 30),
				ev(model.KindHabitLogged, 20),
				ev(model.KindDeepWork, 8),
				chat(5, "looking back this was a solid week"),
				ev(model.KindPlanningSession, 40),
				ev(model.KindBreakLogged, 7),
				ev(model.KindExperiment, 50),
				ev(model.KindInsightRead, 60),
			}

			for _, ex := range extractors {
				r := ex.Extract(events, w)

				Convey("Then "+ex.Name()+" stays within bounds", func() {
					So(r.Raw, ShouldBeBetweenOrEqual, 0, 100)
					So(r.Confidence, ShouldBeBetweenOrEqual, 0, 1)
					So(r.Blended(), ShouldBeBetweenOrEqual, 0, 100)
				})
			}
		})
	})
}
