package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/okian/gridpulse/internal/adapters/http/api"
	"github.com/okian/gridpulse/internal/adapters/http/site"
	"github.com/okian/gridpulse/internal/adapters/http/swagger"
	"github.com/okian/gridpulse/internal/adapters/render"
	"github.com/okian/gridpulse/internal/adapters/repository"
	service "github.com/okian/gridpulse/internal/app"
	"github.com/okian/gridpulse/internal/config"
	"github.com/okian/gridpulse/pkg/logger"
	"github.com/okian/gridpulse/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 30 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Load the dataset and serve the dashboard (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, flags)
		},
	}
}

func runServe(cmd *cobra.Command, flags *rootFlags) error {
	ctx := cmd.Context()

	// Disable default Go metrics collection to avoid duplicate metrics.
	// We collect our own custom system metrics instead.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	cfg, err := loadConfig(ctx, flags)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := setupLogging(os.Stdout, cfg); err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	app, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.svc.Stop()

	go startSystemMetricsUpdater(ctx)

	return app.serve(ctx, cfg)
}

// application is the wired dashboard: controller plus HTTP handler.
type application struct {
	svc     *service.Service
	handler http.Handler
	log     logger.Logger
}

// newApp loads the dataset, starts the controller and registers every route.
func newApp(ctx context.Context, cfg *config.Config) (*application, error) {
	log := logger.Get()

	ds, err := repository.Load(ctx, cfg.DataPath,
		repository.WithComma(cfg.Comma()),
		repository.WithLogger(logger.Named("repository")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	svc := service.New(ds, service.WithLogger(logger.Named("controller")))
	if err := svc.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start controller: %w", err)
	}

	format, err := render.ParseFormat(cfg.ChartFormat)
	if err != nil {
		svc.Stop()
		return nil, err
	}
	charts, err := render.NewGoChart(
		render.WithSize(cfg.ChartWidth, cfg.ChartHeight),
		render.WithFormat(format),
		render.WithLogger(logger.Named("render")),
	)
	if err != nil {
		svc.Stop()
		return nil, err
	}

	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc, api.NewCharts(charts)).Register(ctx, mux)
	site.Register(ctx, mux, cfg.Debug)

	return &application{svc: svc, handler: mux, log: log}, nil
}

// serve runs the HTTP server until ctx is done, then shuts it down gracefully.
func (a *application) serve(ctx context.Context, cfg *config.Config) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           a.handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr), logger.Bool("debug", cfg.Debug))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	a.log.Info(context.Background(), "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeoutSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error(shutdownCtx, "server shutdown failed", logger.Error(err))
		return err
	}

	a.log.Info(shutdownCtx, "server stopped")
	return nil
}

// startSystemMetricsUpdater updates system metrics until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	updateSystemMetrics()
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

	if m.NumGC > 0 {
		// Average GC pause
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
