// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/okian/drafter/internal/adapters/dataset"
	service "github.com/okian/drafter/internal/app"
	"github.com/okian/drafter/internal/domain/loader"
	"github.com/okian/drafter/internal/domain/types"
	"github.com/okian/drafter/pkg/logger"
)

const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Recommend(ctx context.Context, enemies, allies []string, limit int) ([]types.Recommendation, error)
	Draft(ctx context.Context, radiant, dire []string, limit int) (types.DraftResult, error)
	Heroes(ctx context.Context) ([]types.HeroEntry, error)
	HeroCount() int

	Freshness(ctx context.Context) (dataset.Freshness, error)
	Reload(ctx context.Context) (int, error)
	Refresh(ctx context.Context, sink func(line string)) (int, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	recommendHandler *RecommendHandler
	heroesHandler    *HeroesHandler
	dataHandler      *DataHandler
}

// Option configures a Server.
type Option func(*settings)

type settings struct {
	defaultLimit  int
	maxLimit      int
	refreshPerMin int
	logger        logger.Logger
}

// WithLimits sets the limit used when a request omits one and the largest
// limit accepted.
func WithLimits(defaultLimit, maxLimit int) Option {
	return func(s *settings) {
		if maxLimit > 0 {
			s.maxLimit = maxLimit
		}
		if defaultLimit >= 0 {
			s.defaultLimit = defaultLimit
		}
	}
}

// WithRefreshRate allows n refresh requests per minute. Zero disables the
// limit.
func WithRefreshRate(n int) Option {
	return func(s *settings) {
		if n >= 0 {
			s.refreshPerMin = n
		}
	}
}

// WithLogger sets the logger handlers report server-side failures to.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := settings{defaultLimit: 10, maxLimit: 50, refreshPerMin: 1, logger: logger.NewNop()}
	for _, opt := range opts {
		opt(&s)
	}
	if s.defaultLimit > s.maxLimit {
		s.defaultLimit = s.maxLimit
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if s.refreshPerMin > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.refreshPerMin)), 1)
	}

	return &Server{
		healthHandler:    NewHealthHandler(deps),
		statsHandler:     NewStatsHandler(statsProvider),
		recommendHandler: &RecommendHandler{deps: deps, limits: limits{def: s.defaultLimit, maximum: s.maxLimit}, log: s.logger},
		heroesHandler:    &HeroesHandler{deps: deps, log: s.logger},
		dataHandler:      &DataHandler{deps: deps, limiter: limiter, log: s.logger},
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	route := func(path, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(path, RequestIDMiddleware(MetricsMiddleware(h, endpoint)))
	}
	route("/healthz", "healthz", s.healthHandler.HandleHealth)
	route("/stats", "stats", s.statsHandler.HandleStats)
	route("/heroes", "heroes", s.heroesHandler.HandleListHeroes)
	route("/recommend", "recommend", s.recommendHandler.HandleRecommend)
	route("/draft", "draft", s.recommendHandler.HandleDraft)
	route("/freshness", "freshness", s.dataHandler.HandleFreshness)
	route("/reload", "reload", s.dataHandler.HandleReload)
	route("/refresh", "refresh", s.dataHandler.HandleRefresh)
	mux.Handle("/metrics", MetricsHandler())
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type statusResponse struct {
	Status string   `json:"status"`
	Heroes int      `json:"heroes"`
	Output []string `json:"output,omitempty"`
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

// allow writes 405 and returns false when r is not one of methods.
func allow(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", fmt.Errorf("%w: %s", ErrMethodNotAllowed, r.Method))
	return false
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}

// writeServiceError maps service sentinels onto HTTP statuses.
func writeServiceError(ctx context.Context, log logger.Logger, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "not_ready", err)
	case errors.Is(err, service.ErrRefreshUnavailable):
		writeError(w, http.StatusServiceUnavailable, "refresh_unavailable", err)
	case errors.Is(err, service.ErrRefreshRunning):
		writeError(w, http.StatusConflict, "refresh_running", err)
	case errors.As(err, new(*loader.LoadError)):
		// Bad data on disk; the previous catalog is still serving.
		log.Warn(ctx, "catalog load rejected", logger.Error(err), logger.String("requestID", RequestID(ctx)))
		writeError(w, http.StatusUnprocessableEntity, "load_failed", err)
	default:
		log.Error(ctx, "request failed", logger.Error(err), logger.String("requestID", RequestID(ctx)))
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
