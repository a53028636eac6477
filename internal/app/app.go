package app

import (
	"context"
	"fmt"
	"route-optimizer-service/internal/adapters/repositories"
	"route-optimizer-service/internal/adapters/traveltime"
	"route-optimizer-service/internal/config"
	"route-optimizer-service/internal/platform/db"
	"route-optimizer-service/internal/platform/kv"
	"route-optimizer-service/internal/ports"
	"strings"
)

// NewTravelTimeProvider builds the travel-time provider selected by cfg.
func NewTravelTimeProvider(cfg *config.Config) (ports.TravelTimeProvider, error) {
	if err := cfg.ValidateProvider(); err != nil {
		return nil, fmt.Errorf("travel time provider: %w", err)
	}

	var (
		provider ports.TravelTimeProvider
		err      error
	)

	switch cfg.Provider.Name {
	case config.ProviderGoogle:
		provider, err = traveltime.NewGoogleProvider(cfg.Provider.Google.APIKey, cfg.Provider.Timeout)
	case config.ProviderORS:
		provider, err = traveltime.NewORSProvider(
			cfg.Provider.ORS.APIKey,
			cfg.Provider.ORS.BaseURL,
			cfg.Provider.ORS.Country,
			cfg.Provider.Timeout,
		)
	default:
		provider, err = traveltime.LoadStaticProvider(cfg.Provider.Static.TablePath)
	}
	if err != nil {
		return nil, fmt.Errorf("travel time provider %q: %w", cfg.Provider.Name, err)
	}

	return provider, nil
}

// OpenStopRepository connects the stop store selected by cfg. It returns a
// nil repository when no store is configured. The returned func releases the
// underlying connection and is never nil.
func OpenStopRepository(ctx context.Context, cfg *config.Config) (ports.StopRepository, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Stops.Store {
	case config.StoreNone, "":
		return nil, noop, nil

	case config.StorePostgres:
		if strings.TrimSpace(cfg.Postgres.URL) == "" {
			return nil, noop, fmt.Errorf("stop store: DATABASE_URL is required for the postgres store")
		}
		conn, err := db.Open(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, noop, fmt.Errorf("stop store: %w", err)
		}
		if err := repositories.InitSchema(ctx, conn); err != nil {
			_ = conn.Close()
			return nil, noop, fmt.Errorf("stop store: %w", err)
		}
		return repositories.NewPostgresStopRepository(conn), conn.Close, nil

	case config.StoreRedis:
		if strings.TrimSpace(cfg.Redis.URL) == "" {
			return nil, noop, fmt.Errorf("stop store: REDIS_URL is required for the redis store")
		}
		client, err := kv.Open(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, noop, fmt.Errorf("stop store: %w", err)
		}
		return repositories.NewRedisStopRepository(client, cfg.Redis.Key), client.Close, nil

	default:
		return nil, noop, fmt.Errorf("stop store: unknown store %q", cfg.Stops.Store)
	}
}
