package app

import (
	"context"
	"os"
	"path/filepath"
	"route-optimizer-service/internal/adapters/repositories"
	"route-optimizer-service/internal/adapters/traveltime"
	"route-optimizer-service/internal/config"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTravelTimeProviderStatic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pairs:\n  - {from: A, to: B, minutes: 3}\n"), 0o600))

	cfg := &config.Config{}
	cfg.Provider.Name = config.ProviderStatic
	cfg.Provider.Static.TablePath = path

	p, err := NewTravelTimeProvider(cfg)
	require.NoError(t, err)
	assert.IsType(t, &traveltime.StaticProvider{}, p)

	m, err := p.TravelMinutes(context.Background(), "A", "B")
	require.NoError(t, err)
	assert.Equal(t, 3.0, m)
}

func TestNewTravelTimeProviderSelection(t *testing.T) {
	cfg := &config.Config{}
	cfg.Provider.Name = config.ProviderGoogle
	cfg.Provider.Google.APIKey = "key"

	p, err := NewTravelTimeProvider(cfg)
	require.NoError(t, err)
	assert.IsType(t, &traveltime.GoogleProvider{}, p)

	cfg.Provider.Name = config.ProviderORS
	cfg.Provider.ORS.APIKey = "key"
	cfg.Provider.ORS.BaseURL = "http://localhost"

	p, err = NewTravelTimeProvider(cfg)
	require.NoError(t, err)
	assert.IsType(t, &traveltime.ORSProvider{}, p)

	cfg.Provider.Name = "carrier-pigeon"
	_, err = NewTravelTimeProvider(cfg)
	assert.Error(t, err)
}

func TestOpenStopRepository(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{}

	cfg.Stops.Store = config.StoreNone
	repo, closeFn, err := OpenStopRepository(ctx, cfg)
	require.NoError(t, err)
	assert.Nil(t, repo)
	assert.NoError(t, closeFn())

	mr := miniredis.RunT(t)
	cfg.Stops.Store = config.StoreRedis
	cfg.Redis.URL = "redis://" + mr.Addr()

	repo, closeFn, err = OpenStopRepository(ctx, cfg)
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &repositories.RedisStopRepository{}, repo)

	cfg.Stops.Store = config.StorePostgres
	cfg.Postgres.URL = ""
	_, _, err = OpenStopRepository(ctx, cfg)
	assert.ErrorContains(t, err, "DATABASE_URL")

	cfg.Stops.Store = "etcd"
	_, _, err = OpenStopRepository(ctx, cfg)
	assert.Error(t, err)
}
