package api

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/okian/drafter/pkg/logger"
)

// DataHandler serves dataset freshness, reload and refresh.
type DataHandler struct {
	deps    Dependencies
	limiter *rate.Limiter
	log     logger.Logger
}

type freshnessResponse struct {
	Fresh      bool       `json:"fresh"`
	Path       string     `json:"path"`
	Exists     bool       `json:"exists"`
	AgeSeconds int64      `json:"age_seconds"`
	ModifiedAt *time.Time `json:"modified_at,omitempty"`
}

// HandleFreshness handles GET /freshness.
func (h *DataHandler) HandleFreshness(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	f, err := h.deps.Freshness(r.Context())
	if err != nil {
		writeServiceError(r.Context(), h.log, w, err)
		return
	}
	resp := freshnessResponse{
		Fresh:      f.Fresh,
		Path:       f.Path,
		Exists:     f.Exists,
		AgeSeconds: int64(f.Age / time.Second),
	}
	if f.Exists {
		mod := f.ModTime.UTC()
		resp.ModifiedAt = &mod
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleReload handles POST /reload. A failed reload leaves the previous
// catalog in service.
func (h *DataHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	n, err := h.deps.Reload(r.Context())
	if err != nil {
		writeServiceError(r.Context(), h.log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok", Heroes: n})
}

// HandleRefresh handles POST /refresh. The command runs synchronously and
// its output is returned with the reloaded hero count.
func (h *DataHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	if !h.limiter.Allow() {
		writeError(w, http.StatusTooManyRequests, "rate_limited", ErrRateLimited)
		return
	}

	var (
		mu     sync.Mutex
		output []string
	)
	n, err := h.deps.Refresh(r.Context(), func(line string) {
		mu.Lock()
		output = append(output, line)
		mu.Unlock()
	})
	if err != nil {
		writeServiceError(r.Context(), h.log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok", Heroes: n, Output: output})
}
