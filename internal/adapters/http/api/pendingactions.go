package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tempohq/tempo/internal/adapters/pending"
)

// pendingRequest mirrors the wire schema for POST /pending.
type pendingRequest struct {
	Owner      string          `json:"owner"`
	Payload    json.RawMessage `json:"payload"`
	TTLMinutes int             `json:"ttl_minutes,omitempty"`
}

func (p pendingRequest) validate() error {
	switch {
	case strings.TrimSpace(p.Owner) == "":
		return errors.New("missing owner")
	case len(p.Payload) == 0:
		return errors.New("missing payload")
	case p.TTLMinutes < 0:
		return errors.New("negative ttl_minutes")
	}
	return nil
}

type pendingCreatedResponse struct {
	ID        string    `json:"id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PendingHandler handles the pending-action confirmation flow used by
// the chat layer: propose an action, confirm or discard it before its
// TTL lapses.
type PendingHandler struct {
	repo       pending.Repository
	defaultTTL time.Duration
}

// NewPendingHandler creates a new pending-actions handler. defaultTTL
// applies when a request carries no ttl_minutes; zero means
// pending.DefaultTTL.
func NewPendingHandler(repo pending.Repository, defaultTTL time.Duration) *PendingHandler {
	if defaultTTL <= 0 {
		defaultTTL = pending.DefaultTTL
	}
	return &PendingHandler{repo: repo, defaultTTL: defaultTTL}
}

// HandleCreate handles POST /pending requests.
func (h *PendingHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_pending"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req pendingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	ttl := h.defaultTTL
	if req.TTLMinutes > 0 {
		ttl = time.Duration(req.TTLMinutes) * time.Minute
	}
	action := pending.Action{
		ID:        uuid.NewString(),
		Owner:     req.Owner,
		Payload:   string(req.Payload),
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := h.repo.Put(r.Context(), action); err != nil {
		writeError(w, http.StatusInternalServerError, "internal", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, pendingCreatedResponse{ID: action.ID, ExpiresAt: action.ExpiresAt})
}

// HandleByID handles GET and DELETE /pending/{id} requests.
func (h *PendingHandler) HandleByID(w http.ResponseWriter, r *http.Request) {
	const op = "api.pending_by_id"
	id := strings.TrimPrefix(r.URL.Path, "/pending/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing id")))
		return
	}

	switch r.Method {
	case http.MethodGet:
		action, err := h.repo.Get(r.Context(), id)
		switch {
		case errors.Is(err, pending.ErrNotFound):
			writeError(w, http.StatusNotFound, "not_found", NewKind(op, ErrNotFound))
		case errors.Is(err, pending.ErrExpired):
			writeError(w, http.StatusGone, "expired", NewKind(op, ErrGone))
		case err != nil:
			writeError(w, http.StatusInternalServerError, "internal", Wrap(op, err))
		default:
			writeJSON(w, http.StatusOK, action)
		}
	case http.MethodDelete:
		if err := h.repo.Delete(r.Context(), id); err != nil {
			writeError(w, http.StatusInternalServerError, "internal", Wrap(op, err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}
