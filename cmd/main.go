package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/drafter/internal/adapters/http/api"
	"github.com/okian/drafter/internal/adapters/http/swagger"
	"github.com/okian/drafter/internal/adapters/refresh"
	app "github.com/okian/drafter/internal/app"
	"github.com/okian/drafter/internal/config"
	"github.com/okian/drafter/internal/domain/loader"
	"github.com/okian/drafter/pkg/logger"
	"github.com/okian/drafter/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithJSON(cfg.LogJSON)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := run(ctx, cfg, logger.Get()); err != nil {
		logger.Get().Error(ctx, "drafter exited", logger.Error(err))
		os.Exit(1)
	}
}

// newService builds the drafter service from configuration.
func newService(cfg *config.Config, log logger.Logger) *app.Service {
	runner := refresh.New(cfg.RefreshArgs(),
		refresh.WithDir(cfg.DataDir),
		refresh.WithTimeout(cfg.RefreshTimeout),
		refresh.WithLogger(log.Named("refresh")),
	)
	return app.New(
		app.WithLogger(log),
		app.WithPaths(loader.Paths{
			HeroesDir:     cfg.HeroesPath(),
			RolesFile:     cfg.RolesPath(),
			SynergiesFile: cfg.SynergiesPath(),
		}),
		app.WithDataset(cfg.DatasetPath(), cfg.DatasetMaxAge),
		app.WithWatch(cfg.Watch, cfg.WatchDebounce),
		app.WithFreshnessSchedule(cfg.FreshnessSchedule),
		app.WithRefresher(runner),
	)
}

// newHandler registers docs and API routes on a fresh mux.
func newHandler(ctx context.Context, cfg *config.Config, svc *app.Service, log logger.Logger) http.Handler {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc,
		api.WithLimits(cfg.DefaultLimit, cfg.MaxLimit),
		api.WithRefreshRate(cfg.RefreshRatePerMinute),
		api.WithLogger(log.Named("api")),
	).Register(ctx, mux)
	return mux
}

func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	svc := newService(cfg, log)
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, cfg, svc, log),
		ReadTimeout:       readTimeout,
		WriteTimeout:      cfg.RefreshTimeout + readTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
	return nil
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}
