package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/drafter/pkg/metrics"
)

// HeroCounter reports the size of the loaded catalog.
type HeroCounter interface {
	HeroCount() int
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	heroes HeroCounter
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(heroes HeroCounter) *HealthHandler {
	return &HealthHandler{heroes: heroes}
}

type healthResponse struct {
	Status string `json:"status"`
	Heroes int    `json:"heroes"`
}

// HandleHealth handles GET /healthz. An empty catalog reports 503.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	n := h.heroes.HeroCount()
	if n == 0 {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "loading", Heroes: 0})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Heroes: n})
}

// MetricsHandler serves the custom metrics registry.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})
}
