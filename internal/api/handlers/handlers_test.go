package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"route-optimizer-service/internal/adapters/traveltime"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/services"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type memoryStopRepo struct {
	mu    sync.Mutex
	stops []*domain.Stop
}

func (r *memoryStopRepo) ListStops(ctx context.Context) ([]*domain.Stop, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*domain.Stop(nil), r.stops...), nil
}

func (r *memoryStopRepo) ReplaceStops(ctx context.Context, stops []*domain.Stop) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stops = append([]*domain.Stop(nil), stops...)
	return nil
}

// uniformTable returns every ordered pair over locations at minutes each,
// except pairs listed in skip.
func uniformTable(locations []string, minutes float64, skip map[string]bool) []traveltime.Pair {
	var pairs []traveltime.Pair
	for _, from := range locations {
		for _, to := range locations {
			if from == to || skip[from+"|"+to] {
				continue
			}
			pairs = append(pairs, traveltime.Pair{From: from, To: to, Minutes: minutes})
		}
	}
	return pairs
}

func newTestOptimizer(t *testing.T, pairs []traveltime.Pair) *services.Optimizer {
	t.Helper()
	o, err := services.NewOptimizer(traveltime.NewStaticProvider(pairs))
	require.NoError(t, err)
	return o
}

func do(t *testing.T, h http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}
