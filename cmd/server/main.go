package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"route-optimizer-service/internal/api"
	"route-optimizer-service/internal/app"
	"route-optimizer-service/internal/config"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/obs"
	"route-optimizer-service/internal/services"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// main is the application composition root.
// It wires concrete adapters behind ports and starts the HTTP server.
func main() {
	os.Exit(serve())
}

// serve owns the deferred logger flush and signal cleanup, so it returns an
// exit code instead of exiting itself.
func serve() int {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		return 1
	}

	logger, err := obs.NewLogger(cfg.Log.Level, cfg.Log.Pretty)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		return 1
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", zap.Error(err))
		return 1
	}
	return 0
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	provider, err := app.NewTravelTimeProvider(cfg)
	if err != nil {
		return err
	}

	repo, closeRepo, err := app.OpenStopRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closeRepo() }()

	optimizer, err := services.NewOptimizer(provider,
		services.WithLogger(logger),
		services.WithMaxStops(cfg.Routing.MaxStops),
	)
	if err != nil {
		return err
	}

	router := api.NewRouter(api.RouterConfig{
		Optimizer:         optimizer,
		Repo:              repo,
		Hub:               cfg.Routing.Hub,
		Strategy:          domain.Strategy(cfg.Routing.Strategy),
		MaxStops:          cfg.Routing.MaxStops,
		MaxConcurrentRuns: cfg.Routing.MaxConcurrentRuns,
		Logger:            logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           router,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("provider", cfg.Provider.Name),
			zap.String("store", cfg.Stops.Store),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
