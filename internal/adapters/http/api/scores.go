package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/tempohq/tempo/internal/domain/model"
)

// Default query parameters for GET /scores/{user_id}.
const (
	defaultFamily    = model.FamilyIntelligence
	defaultTimeRange = model.RangeWeekly
)

// ScoresHandler handles score reads.
type ScoresHandler struct {
	deps Dependencies
}

// NewScoresHandler creates a new scores handler.
func NewScoresHandler(deps Dependencies) *ScoresHandler {
	return &ScoresHandler{deps: deps}
}

// HandleGetScore handles GET /scores/{user_id}?family=&range= requests.
// Invalid family or range values fail with 400 before any computation
// runs.
func (h *ScoresHandler) HandleGetScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_score"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	userID := strings.TrimPrefix(r.URL.Path, "/scores/")
	if userID == "" || strings.Contains(userID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing user_id")))
		return
	}

	family := defaultFamily
	if v := r.URL.Query().Get("family"); v != "" {
		family = model.Family(v)
		if !family.Valid() {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("unknown family")))
			return
		}
	}

	tr := defaultTimeRange
	if v := r.URL.Query().Get("range"); v != "" {
		tr = model.TimeRange(v)
		if !tr.Valid() {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("invalid range")))
			return
		}
	}

	card, err := h.deps.GetScore(r.Context(), userID, family, tr)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, card)
}
