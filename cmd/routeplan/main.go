package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"route-optimizer-service/internal/app"
	"route-optimizer-service/internal/config"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/obs"
	"route-optimizer-service/internal/services"

	"go.uber.org/zap"
)

const (
	exitError       = 1
	exitUnreachable = 2
)

// routeplan computes one route from a request file and prints its addresses,
// start first, one per line.
func main() {
	requestPath := flag.String("request", "", "route request file (YAML or JSON)")
	flag.Parse()

	os.Exit(run(context.Background(), *requestPath, os.Stdout))
}

func run(ctx context.Context, requestPath string, out io.Writer) int {
	if requestPath == "" {
		fmt.Fprintln(os.Stderr, "usage: routeplan -request path.yaml")
		return exitError
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitError
	}

	logger, err := obs.NewLogger(cfg.Log.Level, cfg.Log.Pretty)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitError
	}
	defer func() { _ = logger.Sync() }()
	ctx = obs.WithLogger(ctx, logger)

	req, err := loadRequest(requestPath)
	if err != nil {
		logger.Error("invalid request", zap.Error(err))
		return exitError
	}
	if req.Strategy == "" {
		req.Strategy = domain.Strategy(cfg.Routing.Strategy)
	}

	provider, err := app.NewTravelTimeProvider(cfg)
	if err != nil {
		logger.Error("provider setup failed", zap.Error(err))
		return exitError
	}

	optimizer, err := services.NewOptimizer(provider,
		services.WithLogger(logger),
		services.WithMaxStops(cfg.Routing.MaxStops),
	)
	if err != nil {
		logger.Error("optimizer setup failed", zap.Error(err))
		return exitError
	}

	plan, err := optimizer.Optimize(ctx, req)
	if err != nil {
		logger.Error("route optimization failed", zap.Error(err))
		if errors.Is(err, services.ErrUnreachable) {
			return exitUnreachable
		}
		return exitError
	}

	for _, a := range plan.Addresses() {
		fmt.Fprintln(out, a)
	}

	return 0
}
