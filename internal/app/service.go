// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/okian/drafter/internal/adapters/dataset"
	"github.com/okian/drafter/internal/adapters/refresh"
	"github.com/okian/drafter/internal/domain/loader"
	"github.com/okian/drafter/internal/domain/recommend"
	"github.com/okian/drafter/internal/domain/types"
	"github.com/okian/drafter/pkg/logger"
	"github.com/okian/drafter/pkg/metrics"
)

// Service owns the loaded catalog and everything that replaces it: manual
// reloads, the directory watcher and the refresh command.
type Service struct {
	mu       sync.RWMutex
	reloadMu sync.Mutex
	// lifeMu serializes Start and Stop end to end.
	lifeMu sync.Mutex

	// Core components
	drafter   *recommend.Drafter
	refresher *refresh.Runner
	cron      *cron.Cron

	// Configuration
	paths         loader.Paths
	datasetPath   string
	maxAge        time.Duration
	watch         bool
	watchDebounce time.Duration
	schedule      string

	// State
	started    bool
	loadedAt   time.Time
	reloads    int
	lastErr    error
	lastFresh  *dataset.Freshness
	cancel     context.CancelFunc
	background sync.WaitGroup

	now    func() time.Time
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithPaths sets where heroes and rule tables are read from.
func WithPaths(p loader.Paths) Option {
	return func(s *Service) { s.paths = p }
}

// WithDataset sets the scraped dataset file and its freshness window.
func WithDataset(path string, maxAge time.Duration) Option {
	return func(s *Service) {
		s.datasetPath = path
		if maxAge > 0 {
			s.maxAge = maxAge
		}
	}
}

// WithWatch reloads the catalog after data files change.
func WithWatch(enabled bool, debounce time.Duration) Option {
	return func(s *Service) {
		s.watch = enabled
		s.watchDebounce = debounce
	}
}

// WithFreshnessSchedule checks dataset freshness on a cron schedule. An
// empty spec disables the check.
func WithFreshnessSchedule(spec string) Option {
	return func(s *Service) { s.schedule = spec }
}

// WithRefresher sets the runner used by Refresh.
func WithRefresher(r *refresh.Runner) Option {
	return func(s *Service) {
		if r != nil {
			s.refresher = r
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		paths: loader.Paths{
			HeroesDir:     filepath.Join("data", "heroes"),
			RolesFile:     filepath.Join("data", "roles.json"),
			SynergiesFile: filepath.Join("data", "synergies.json"),
		},
		datasetPath: filepath.Join("data", "dota_heroes_stratz.json"),
		maxAge:      dataset.DefaultMaxAge,
		refresher:   refresh.New(nil),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the catalog and starts the watcher and freshness schedule.
// A catalog that fails to load fails Start.
func (s *Service) Start(ctx context.Context) error {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()

	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.mu.Unlock()

	s.logger.Info(ctx, "starting drafter service...",
		logger.String("heroesDir", s.paths.HeroesDir),
		logger.String("rolesFile", s.paths.RolesFile),
		logger.String("synergiesFile", s.paths.SynergiesFile),
	)
	if _, err := s.Reload(ctx); err != nil {
		return err
	}

	bg, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.mu.Lock()
	s.cancel = cancel
	s.started = true
	s.mu.Unlock()

	if s.watch {
		s.startWatcher(bg)
	}
	if s.schedule != "" {
		if err := s.startSchedule(bg); err != nil {
			s.stop()
			return err
		}
	}
	// Seed the freshness gauges.
	if _, err := s.Freshness(ctx); err != nil {
		s.logger.Warn(ctx, "freshness check failed", logger.Error(err))
	}

	s.logger.Info(ctx, "drafter service started",
		logger.Int("heroes", s.HeroCount()),
		logger.Bool("watch", s.watch),
		logger.String("freshnessSchedule", s.schedule),
		logger.Bool("refresh", s.refresher.Enabled()),
	)
	return nil
}

func (s *Service) startWatcher(ctx context.Context) {
	dirs := []string{
		s.paths.HeroesDir,
		filepath.Dir(s.paths.RolesFile),
		filepath.Dir(s.paths.SynergiesFile),
	}
	w := dataset.NewWatcher(dirs, func(ctx context.Context) {
		metrics.RecordWatcherReload()
		if _, err := s.Reload(ctx); err != nil {
			s.logger.Warn(ctx, "reload after data change failed; keeping previous catalog", logger.Error(err))
		}
	}, dataset.WithDebounce(s.watchDebounce), dataset.WithLogger(s.logger.Named("watcher")))

	s.background.Add(1)
	go func() {
		defer s.background.Done()
		if err := w.Run(ctx); err != nil {
			s.logger.Error(ctx, "data watcher stopped", logger.Error(err))
		}
	}()
}

func (s *Service) startSchedule(ctx context.Context) error {
	c := cron.New()
	if _, err := c.AddFunc(s.schedule, func() {
		if _, err := s.Freshness(ctx); err != nil {
			s.logger.Warn(ctx, "scheduled freshness check failed", logger.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("freshness schedule %q: %w", s.schedule, err)
	}
	c.Start()
	s.mu.Lock()
	s.cron = c
	s.mu.Unlock()
	return nil
}

// Stop gracefully shuts down background work. The loaded catalog stays
// readable.
func (s *Service) Stop() {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()
	s.stop()
}

func (s *Service) stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	cancel, c := s.cancel, s.cron
	s.cron = nil
	s.mu.Unlock()

	s.logger.Info(context.Background(), "stopping drafter service...")
	if c != nil {
		<-c.Stop().Done()
	}
	if cancel != nil {
		cancel()
	}
	s.background.Wait()
	s.logger.Info(context.Background(), "drafter service stopped")
}

// Reload loads a fresh catalog and swaps it in. On failure the previous
// catalog stays in service and the error is returned.
func (s *Service) Reload(ctx context.Context) (int, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	log := s.log()
	start := time.Now()
	catalog, err := loader.Load(ctx, s.paths, loader.WithLogger(log.Named("loader")))
	elapsed := time.Since(start)
	if err != nil {
		metrics.RecordCatalogLoad("failure", elapsed)
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		log.Error(ctx, "catalog load failed", logger.Error(err), logger.Duration("elapsed", elapsed))
		return 0, err
	}

	d := recommend.New(catalog)
	s.mu.Lock()
	s.drafter = d
	s.loadedAt = s.now()
	s.reloads++
	s.lastErr = nil
	s.mu.Unlock()

	metrics.RecordCatalogLoad("success", elapsed)
	metrics.UpdateCatalogHeroes(d.Len())
	log.Info(ctx, "catalog loaded", logger.Int("heroes", d.Len()), logger.Duration("elapsed", elapsed))
	return d.Len(), nil
}

func (s *Service) current() (*recommend.Drafter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.drafter == nil {
		return nil, ErrNotStarted
	}
	return s.drafter, nil
}

func (s *Service) log() logger.Logger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.logger == nil {
		return logger.NewNop()
	}
	return s.logger
}

// HeroCount returns the number of heroes in the loaded catalog.
func (s *Service) HeroCount() int {
	d, err := s.current()
	if err != nil {
		return 0
	}
	return d.Len()
}

// Recommend ranks the available heroes for the side that owns allies.
func (s *Service) Recommend(ctx context.Context, enemies, allies []string, limit int) ([]types.Recommendation, error) {
	d, err := s.current()
	if err != nil {
		return nil, err
	}
	start := time.Now()
	recs := d.Recommend(enemies, allies, limit)
	metrics.RecordRecommendation(candidates(d, enemies, allies), time.Since(start))
	s.log().Debug(ctx, "recommendation served",
		logger.Strings("enemies", enemies),
		logger.Strings("allies", allies),
		logger.Int("limit", limit),
		logger.Int("returned", len(recs)),
	)
	return recs, nil
}

// Draft recommends for both sides at once. Radiant's enemies are dire and
// the other way round.
func (s *Service) Draft(ctx context.Context, radiant, dire []string, limit int) (types.DraftResult, error) {
	r, err := s.Recommend(ctx, dire, radiant, limit)
	if err != nil {
		return types.DraftResult{}, err
	}
	d, err := s.Recommend(ctx, radiant, dire, limit)
	if err != nil {
		return types.DraftResult{}, err
	}
	return types.DraftResult{Radiant: r, Dire: d}, nil
}

// Heroes lists every hero sorted by name.
func (s *Service) Heroes(_ context.Context) ([]types.HeroEntry, error) {
	d, err := s.current()
	if err != nil {
		return nil, err
	}
	heroes := d.Heroes()
	out := make([]types.HeroEntry, 0, len(heroes))
	for _, h := range heroes {
		out = append(out, types.HeroEntry{
			Name:             h.Name,
			PrimaryAttribute: h.PrimaryAttribute,
			Positions:        h.Positions,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Freshness reports whether the scraped dataset is within its window and
// updates the dataset gauges.
func (s *Service) Freshness(ctx context.Context) (dataset.Freshness, error) {
	f, err := dataset.CheckFreshness(s.datasetPath, s.maxAge, s.now())
	if err != nil {
		return f, err
	}
	metrics.UpdateDatasetFreshness(f.Age, f.Fresh)

	s.mu.Lock()
	s.lastFresh = &f
	s.mu.Unlock()

	if !f.Fresh {
		s.log().Warn(ctx, "dataset is stale",
			logger.String("path", f.Path),
			logger.Bool("exists", f.Exists),
			logger.Duration("age", f.Age),
		)
	}
	return f, nil
}

// Refresh runs the refresh command and reloads the catalog when it
// succeeds. Output lines go to sink as well as the log.
func (s *Service) Refresh(ctx context.Context, sink func(line string)) (int, error) {
	err := s.refresher.Run(ctx, sink)
	switch {
	case errors.Is(err, refresh.ErrDisabled):
		return 0, ErrRefreshUnavailable
	case errors.Is(err, refresh.ErrBusy):
		return 0, ErrRefreshRunning
	case err != nil:
		metrics.RecordRefreshRun("failure")
		return 0, err
	}
	metrics.RecordRefreshRun("success")

	n, err := s.Reload(ctx)
	if err != nil {
		return 0, err
	}
	if _, ferr := s.Freshness(ctx); ferr != nil {
		s.log().Warn(ctx, "freshness check after refresh failed", logger.Error(ferr))
	}
	return n, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":        s.started,
		"heroesDir":      s.paths.HeroesDir,
		"reloads":        s.reloads,
		"watch":          s.watch,
		"refreshEnabled": s.refresher.Enabled(),
		"refreshRunning": s.refresher.Running(),
	}
	if s.drafter != nil {
		stats["heroes"] = s.drafter.Len()
		stats["loadedAt"] = s.loadedAt.UTC().Format(time.RFC3339)
	}
	if s.lastErr != nil {
		stats["lastLoadError"] = s.lastErr.Error()
	}
	if s.lastFresh != nil {
		stats["datasetFresh"] = s.lastFresh.Fresh
	}
	return stats
}

// candidates counts the heroes Recommend had to score.
func candidates(d *recommend.Drafter, enemies, allies []string) int {
	picked := make(map[string]struct{}, len(enemies)+len(allies))
	for _, n := range append(append([]string(nil), enemies...), allies...) {
		if d.Hero(n) != nil {
			picked[n] = struct{}{}
		}
	}
	return d.Len() - len(picked)
}
