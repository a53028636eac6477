package traveltime

import (
	"context"
	"os"
	"path/filepath"
	"route-optimizer-service/internal/ports"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticProvider(t *testing.T) {
	p := NewStaticProvider([]Pair{
		{From: "A", To: "B", Minutes: 12.5},
		{From: "B", To: "A", Unreachable: true},
	})
	ctx := context.Background()

	m, err := p.TravelMinutes(ctx, "A", "B")
	require.NoError(t, err)
	assert.Equal(t, 12.5, m)

	m, err = p.TravelMinutes(ctx, "B", "A")
	require.NoError(t, err)
	assert.True(t, ports.IsUnreachable(m))

	_, err = p.TravelMinutes(ctx, "A", "C")
	assert.Error(t, err, "missing pairs are provider failures")

	assert.Equal(t, int64(3), p.Calls())
}

func TestLoadStaticProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.yaml")
	body := `
pairs:
  - from: Depot
    to: Market St
    minutes: 14
  - from: Market St
    to: Depot
    unreachable: true
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	p, err := LoadStaticProvider(path)
	require.NoError(t, err)

	m, err := p.TravelMinutes(context.Background(), "Depot", "Market St")
	require.NoError(t, err)
	assert.Equal(t, 14.0, m)

	m, err = p.TravelMinutes(context.Background(), "Market St", "Depot")
	require.NoError(t, err)
	assert.True(t, ports.IsUnreachable(m))
}

func TestLoadStaticProviderJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.json")
	body := `{"pairs": [{"from": "A", "to": "B", "minutes": 3}]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	p, err := LoadStaticProvider(path)
	require.NoError(t, err)

	m, err := p.TravelMinutes(context.Background(), "A", "B")
	require.NoError(t, err)
	assert.Equal(t, 3.0, m)
}

func TestLoadStaticProviderRejectsBadRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pairs:\n  - from: A\n    minutes: 3\n"), 0o600))

	_, err := LoadStaticProvider(path)
	assert.Error(t, err)

	_, err = LoadStaticProvider(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
