// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/tempohq/tempo/internal/adapters/pending"
	"github.com/tempohq/tempo/internal/app"
	"github.com/tempohq/tempo/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle
// keeps the handler layer loosely coupled to the engine implementation.
type Dependencies interface {
	// RecordEvent persists one behavioral event, idempotent by id.
	RecordEvent(ctx context.Context, e model.Event) (duplicate bool, err error)

	// GetScore computes the scorecard for one (user, family, range).
	GetScore(ctx context.Context, userID string, family model.Family, tr model.TimeRange) (app.Scorecard, error)
}

// Server wires HTTP routes for the scoring API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	eventsHandler  *EventsHandler
	scoresHandler  *ScoresHandler
	pendingHandler *PendingHandler
}

// NewServer creates a new API server with all handlers. pendingTTL is
// the expiry applied to pending actions created without a ttl_minutes;
// zero means pending.DefaultTTL.
func NewServer(deps Dependencies, statsProvider StatsProvider, pendingRepo pending.Repository, pendingTTL time.Duration) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		eventsHandler:  NewEventsHandler(deps),
		scoresHandler:  NewScoresHandler(deps),
		pendingHandler: NewPendingHandler(pendingRepo, pendingTTL),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/events", MetricsMiddleware(s.eventsHandler.HandlePostEvent, "events"))
	mux.HandleFunc("/scores/", MetricsMiddleware(s.scoresHandler.HandleGetScore, "scores"))
	mux.HandleFunc("/pending", MetricsMiddleware(s.pendingHandler.HandleCreate, "pending"))
	mux.HandleFunc("/pending/", MetricsMiddleware(s.pendingHandler.HandleByID, "pending"))
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
