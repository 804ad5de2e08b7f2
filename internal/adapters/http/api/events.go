package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/tempohq/tempo/internal/domain/model"
)

// eventRequest mirrors the wire schema for POST /events.
type eventRequest struct {
	EventID  string    `json:"event_id"`
	UserID   string    `json:"user_id"`
	Kind     string    `json:"kind"`
	Category string    `json:"category"`
	TS       string    `json:"ts"`
	Meta     eventMeta `json:"meta"`
}

type eventMeta struct {
	Priority        string  `json:"priority,omitempty"`
	GoalID          string  `json:"goal_id,omitempty"`
	EstimateMinutes float64 `json:"estimate_minutes,omitempty"`
	ActualMinutes   float64 `json:"actual_minutes,omitempty"`
	DurationMinutes float64 `json:"duration_minutes,omitempty"`
	StreakDays      int     `json:"streak_days,omitempty"`
	Text            string  `json:"text,omitempty"`
	ItemCreatedAt   string  `json:"item_created_at,omitempty"`
}

func (e eventRequest) validate() error {
	switch {
	case strings.TrimSpace(e.EventID) == "":
		return errors.New("missing event_id")
	case strings.TrimSpace(e.UserID) == "":
		return errors.New("missing user_id")
	case strings.TrimSpace(e.Kind) == "":
		return errors.New("missing kind")
	case strings.TrimSpace(e.TS) == "":
		return errors.New("missing ts")
	}
	if !model.EventKind(e.Kind).Valid() {
		return errors.New("unknown kind")
	}
	if _, err := time.Parse(time.RFC3339, e.TS); err != nil {
		return errors.New("invalid ts; must be RFC3339")
	}
	if e.Meta.ItemCreatedAt != "" {
		if _, err := time.Parse(time.RFC3339, e.Meta.ItemCreatedAt); err != nil {
			return errors.New("invalid meta.item_created_at; must be RFC3339")
		}
	}
	return nil
}

// toModel converts the validated request into a domain event.
func (e eventRequest) toModel() model.Event {
	ts, _ := time.Parse(time.RFC3339, e.TS)
	meta := model.Meta{
		Priority:        model.Priority(e.Meta.Priority),
		GoalID:          e.Meta.GoalID,
		EstimateMinutes: e.Meta.EstimateMinutes,
		ActualMinutes:   e.Meta.ActualMinutes,
		DurationMinutes: e.Meta.DurationMinutes,
		StreakDays:      e.Meta.StreakDays,
		Text:            e.Meta.Text,
	}
	if e.Meta.ItemCreatedAt != "" {
		created, _ := time.Parse(time.RFC3339, e.Meta.ItemCreatedAt)
		meta.ItemCreatedAt = created
	}
	return model.Event{
		ID:        e.EventID,
		UserID:    e.UserID,
		Kind:      model.EventKind(e.Kind),
		Category:  e.Category,
		Timestamp: ts,
		Meta:      meta,
	}
}

// EventsHandler handles event ingestion.
type EventsHandler struct {
	deps Dependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps Dependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

// HandlePostEvent handles POST /events requests.
func (h *EventsHandler) HandlePostEvent(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_event"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	duplicate, err := h.deps.RecordEvent(r.Context(), req.toModel())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", Wrap(op, err))
		return
	}
	if duplicate {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false})
}
