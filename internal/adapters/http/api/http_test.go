package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/tempohq/tempo/internal/adapters/http/api"
	"github.com/tempohq/tempo/internal/adapters/pending"
	"github.com/tempohq/tempo/internal/app"
	"github.com/tempohq/tempo/internal/domain/composite"
	"github.com/tempohq/tempo/internal/domain/model"
)

// Mock implementations for testing
type mockEngine struct {
	recorded   []model.Event
	duplicate  bool
	recordErr  error
	card       app.Scorecard
	scoreErr   error
	lastFamily model.Family
	lastRange  model.TimeRange
}

func (m *mockEngine) RecordEvent(_ context.Context, e model.Event) (bool, error) {
	if m.recordErr != nil {
		return false, m.recordErr
	}
	m.recorded = append(m.recorded, e)
	return m.duplicate, nil
}

func (m *mockEngine) GetScore(_ context.Context, userID string, family model.Family, tr model.TimeRange) (app.Scorecard, error) {
	m.lastFamily = family
	m.lastRange = tr
	if m.scoreErr != nil {
		return app.Scorecard{}, m.scoreErr
	}
	card := m.card
	card.Family = family
	card.TimeRange = tr
	return card, nil
}

type mockStats struct{}

func (mockStats) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true}
}

func newTestServer(engine *mockEngine, repo pending.Repository) *http.ServeMux {
	return newTestServerTTL(engine, repo, 0)
}

func newTestServerTTL(engine *mockEngine, repo pending.Repository, ttl time.Duration) *http.ServeMux {
	if repo == nil {
		repo = pending.NewMemoryRepository()
	}
	mux := http.NewServeMux()
	api.NewServer(engine, mockStats{}, repo, ttl).Register(context.Background(), mux)
	return mux
}

func postJSON(mux *http.ServeMux, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func get(mux *http.ServeMux, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

const validEventBody = `{
	"event_id": "evt-1",
	"user_id": "user-1",
	"kind": "task_completed",
	"category": "project",
	"ts": "2026-03-10T09:00:00Z",
	"meta": {"priority": "high", "estimate_minutes": 30, "actual_minutes": 45}
}`

func TestPostEvent(t *testing.T) {
	Convey("Given the events endpoint", t, func() {
		engine := &mockEngine{}
		mux := newTestServer(engine, nil)

		Convey("When a valid event is posted", func() {
			rec := postJSON(mux, "/events", validEventBody)

			Convey("Then it is accepted and reaches the engine", func() {
				So(rec.Code, ShouldEqual, http.StatusAccepted)
				So(engine.recorded, ShouldHaveLength, 1)
				So(engine.recorded[0].ID, ShouldEqual, "evt-1")
				So(engine.recorded[0].Kind, ShouldEqual, model.KindTaskCompleted)
				So(engine.recorded[0].Meta.ActualMinutes, ShouldEqual, 45)

				var ack map[string]any
				So(json.Unmarshal(rec.Body.Bytes(), &ack), ShouldBeNil)
				So(ack["status"], ShouldEqual, "accepted")
				So(ack["duplicate"], ShouldEqual, false)
			})
		})

		Convey("When the engine reports a duplicate", func() {
			engine.duplicate = true
			rec := postJSON(mux, "/events", validEventBody)

			Convey("Then the response is OK with the duplicate flag", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var ack map[string]any
				So(json.Unmarshal(rec.Body.Bytes(), &ack), ShouldBeNil)
				So(ack["status"], ShouldEqual, "duplicate")
				So(ack["duplicate"], ShouldEqual, true)
			})
		})

		Convey("When the body is not JSON", func() {
			rec := postJSON(mux, "/events", "{nope")

			Convey("Then the request is rejected", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When required fields are missing", func() {
			rec := postJSON(mux, "/events", `{"user_id": "user-1"}`)

			Convey("Then the request is rejected before the engine is called", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				So(engine.recorded, ShouldBeEmpty)
			})
		})

		Convey("When the kind is unknown", func() {
			body := strings.Replace(validEventBody, "task_completed", "nap", 1)
			rec := postJSON(mux, "/events", body)

			Convey("Then the request is rejected", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the timestamp is not RFC3339", func() {
			body := strings.Replace(validEventBody, "2026-03-10T09:00:00Z", "yesterday", 1)
			rec := postJSON(mux, "/events", body)

			Convey("Then the request is rejected", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the method is GET", func() {
			rec := get(mux, "/events")

			Convey("Then the route does not exist", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestGetScore(t *testing.T) {
	Convey("Given the scores endpoint", t, func() {
		engine := &mockEngine{card: app.Scorecard{
			Ready:      true,
			Score:      intPtr(72),
			Category:   "strong",
			Components: map[string]int{"execution_intelligence": 70},
			Confidence: floatPtr(0.8),
		}}
		mux := newTestServer(engine, nil)

		Convey("When a score is requested with explicit family and range", func() {
			rec := get(mux, "/scores/user-1?family=mood&range=daily")

			Convey("Then the scorecard is returned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(engine.lastFamily, ShouldEqual, model.FamilyMood)
				So(engine.lastRange, ShouldEqual, model.RangeDaily)

				var card app.Scorecard
				So(json.Unmarshal(rec.Body.Bytes(), &card), ShouldBeNil)
				So(card.Ready, ShouldBeTrue)
				So(*card.Score, ShouldEqual, 72)
				So(card.Category, ShouldEqual, "strong")
			})
		})

		Convey("When the ready score is zero", func() {
			engine.card = app.Scorecard{
				Ready:      true,
				Score:      intPtr(0),
				Category:   "low",
				Confidence: floatPtr(1),
			}
			rec := get(mux, "/scores/user-1")

			Convey("Then the zero survives serialization", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, `"score":0`)
				So(rec.Body.String(), ShouldContainSubstring, `"confidence":1`)
			})
		})

		Convey("When family and range are omitted", func() {
			rec := get(mux, "/scores/user-1")

			Convey("Then weekly intelligence is the default", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(engine.lastFamily, ShouldEqual, model.FamilyIntelligence)
				So(engine.lastRange, ShouldEqual, model.RangeWeekly)
			})
		})

		Convey("When the family is unknown", func() {
			rec := get(mux, "/scores/user-1?family=charisma")

			Convey("Then the request fails before any computation", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				So(engine.lastFamily, ShouldBeEmpty)
			})
		})

		Convey("When the range is invalid", func() {
			rec := get(mux, "/scores/user-1?range=quarterly")

			Convey("Then the request fails before any computation", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				So(engine.lastRange, ShouldBeEmpty)
			})
		})

		Convey("When the user id is missing from the path", func() {
			rec := get(mux, "/scores/")

			Convey("Then the request is rejected", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestPendingFlow(t *testing.T) {
	Convey("Given the pending-actions endpoints", t, func() {
		engine := &mockEngine{}
		repo := pending.NewMemoryRepository()
		mux := newTestServer(engine, repo)

		Convey("When a pending action is created", func() {
			rec := postJSON(mux, "/pending", `{"owner": "user-1", "payload": {"confirm": "archive_project"}, "ttl_minutes": 5}`)

			Convey("Then it is stored with an id and expiry", func() {
				So(rec.Code, ShouldEqual, http.StatusCreated)

				var created struct {
					ID        string    `json:"id"`
					ExpiresAt time.Time `json:"expires_at"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &created), ShouldBeNil)
				So(created.ID, ShouldNotBeEmpty)
				So(created.ExpiresAt.After(time.Now()), ShouldBeTrue)

				Convey("And when it is fetched back", func() {
					fetch := get(mux, "/pending/"+created.ID)

					So(fetch.Code, ShouldEqual, http.StatusOK)
					var action pending.Action
					So(json.Unmarshal(fetch.Body.Bytes(), &action), ShouldBeNil)
					So(action.Owner, ShouldEqual, "user-1")
					So(action.Payload, ShouldContainSubstring, "archive_project")
				})

				Convey("And when it is discarded", func() {
					req := httptest.NewRequest(http.MethodDelete, "/pending/"+created.ID, nil)
					del := httptest.NewRecorder()
					mux.ServeHTTP(del, req)

					So(del.Code, ShouldEqual, http.StatusNoContent)
					So(get(mux, "/pending/"+created.ID).Code, ShouldEqual, http.StatusNotFound)
				})
			})
		})

		Convey("When the owner is missing", func() {
			rec := postJSON(mux, "/pending", `{"payload": {"x": 1}}`)

			Convey("Then the request is rejected", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When an unknown id is fetched", func() {
			rec := get(mux, "/pending/ghost")

			Convey("Then the action is not found", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When a server carries a configured default TTL", func() {
			short := newTestServerTTL(engine, nil, 2*time.Minute)
			rec := postJSON(short, "/pending", `{"owner": "user-1", "payload": {"confirm": "retry_sync"}}`)

			Convey("Then omitting ttl_minutes uses the configured expiry", func() {
				So(rec.Code, ShouldEqual, http.StatusCreated)

				var created struct {
					ExpiresAt time.Time `json:"expires_at"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &created), ShouldBeNil)
				So(created.ExpiresAt, ShouldHappenBefore, time.Now().Add(3*time.Minute))
				So(created.ExpiresAt, ShouldHappenAfter, time.Now().Add(time.Minute))
			})
		})

		Convey("When an expired action is fetched", func() {
			ctx := context.Background()
			expired := pending.Action{
				ID:        "act-expired",
				Owner:     "user-1",
				Payload:   "{}",
				ExpiresAt: time.Now().Add(-time.Minute),
			}
			So(repo.Put(ctx, expired), ShouldBeNil)

			rec := get(mux, "/pending/act-expired")

			Convey("Then the response is gone", func() {
				So(rec.Code, ShouldEqual, http.StatusGone)
			})
		})
	})
}

func TestStatsEndpoint(t *testing.T) {
	Convey("Given the stats endpoint", t, func() {
		mux := newTestServer(&mockEngine{}, nil)

		Convey("When stats are requested", func() {
			rec := get(mux, "/stats")

			Convey("Then the provider's view is returned as JSON", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var stats map[string]any
				So(json.Unmarshal(rec.Body.Bytes(), &stats), ShouldBeNil)
				So(stats["started"], ShouldEqual, true)
				So(stats["weightsVersion"], ShouldEqual, composite.WeightsVersion)
			})
		})
	})
}

func TestHealthEndpoint(t *testing.T) {
	Convey("Given the health endpoint", t, func() {
		mux := newTestServer(&mockEngine{}, nil)

		Convey("When health is probed", func() {
			rec := get(mux, "/healthz")

			Convey("Then the process reports as up", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
			})
		})
	})
}
