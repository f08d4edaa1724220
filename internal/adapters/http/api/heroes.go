package api

import (
	"net/http"

	"github.com/okian/drafter/pkg/logger"
)

// HeroesHandler lists the catalog.
type HeroesHandler struct {
	deps Dependencies
	log  logger.Logger
}

// HandleListHeroes handles GET /heroes.
func (h *HeroesHandler) HandleListHeroes(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	heroes, err := h.deps.Heroes(r.Context())
	if err != nil {
		writeServiceError(r.Context(), h.log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, heroes)
}
