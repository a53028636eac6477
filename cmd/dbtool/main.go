package main

import (
	"context"
	"flag"
	"os"
	"route-optimizer-service/internal/adapters/repositories"
	"route-optimizer-service/internal/app"
	"route-optimizer-service/internal/config"
	"route-optimizer-service/internal/platform/obs"

	"go.uber.org/zap"
)

// dbtool initializes the configured stop store and seeds it from JSON.
func main() {
	seedPath := flag.String("seed", "", "stop seed JSON file (default: SEED_PATH or stops.seedPath)")
	flag.Parse()
	os.Exit(seed(*seedPath))
}

func seed(seedPath string) int {
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

	if cfg.Stops.Store == config.StoreNone {
		logger.Error("STOP_STORE must be postgres or redis")
		return 1
	}

	path := cfg.Stops.SeedPath
	if seedPath != "" {
		path = seedPath
	}

	ctx := context.Background()

	// Opening a postgres store also initializes its schema.
	logger.Info("initializing stop store", zap.String("store", cfg.Stops.Store))
	repo, closeRepo, err := app.OpenStopRepository(ctx, cfg)
	if err != nil {
		logger.Error("store initialization failed", zap.Error(err))
		return 1
	}
	defer func() { _ = closeRepo() }()
	logger.Info("store ready")

	logger.Info("seeding stops", zap.String("path", path))
	if err := repositories.SeedFromJSON(ctx, repo, path); err != nil {
		logger.Error("seeding failed", zap.Error(err))
		return 1
	}
	logger.Info("seeding complete")
	return 0
}
