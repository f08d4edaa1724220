package api

import (
	"fmt"
	"net/http"

	"github.com/okian/drafter/pkg/logger"
)

type limits struct {
	def, maximum int
}

// resolve applies the default to an absent limit and rejects values
// outside [0, max].
func (l limits) resolve(limit *int) (int, error) {
	if limit == nil {
		return l.def, nil
	}
	if *limit < 0 || *limit > l.maximum {
		return 0, fmt.Errorf("%w: limit must be within [0, %d], got %d", ErrLimitRange, l.maximum, *limit)
	}
	return *limit, nil
}

// recommendRequest mirrors the OpenAPI schema for POST /recommend.
type recommendRequest struct {
	Enemies []string `json:"enemies"`
	Allies  []string `json:"allies"`
	Limit   *int     `json:"limit"`
}

// draftRequest mirrors the OpenAPI schema for POST /draft.
type draftRequest struct {
	Radiant []string `json:"radiant"`
	Dire    []string `json:"dire"`
	Limit   *int     `json:"limit"`
}

// RecommendHandler serves recommendation requests.
type RecommendHandler struct {
	deps   Dependencies
	limits limits
	log    logger.Logger
}

// HandleRecommend handles POST /recommend.
func (h *RecommendHandler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	var req recommendRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	limit, err := h.limits.resolve(req.Limit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	recs, err := h.deps.Recommend(r.Context(), req.Enemies, req.Allies, limit)
	if err != nil {
		writeServiceError(r.Context(), h.log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

// HandleDraft handles POST /draft.
func (h *RecommendHandler) HandleDraft(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	var req draftRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	limit, err := h.limits.resolve(req.Limit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	res, err := h.deps.Draft(r.Context(), req.Radiant, req.Dire, limit)
	if err != nil {
		writeServiceError(r.Context(), h.log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
