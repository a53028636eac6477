package traveltime

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"route-optimizer-service/internal/ports"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orsFake struct {
	geocodes     map[string][]float64
	geocodeCalls int
	matrixCalls  int
	noRoute      [2]float64 // lon pair with no route
	matrixStatus int
}

func (f *orsFake) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/geocode/search", func(w http.ResponseWriter, r *http.Request) {
		f.geocodeCalls++
		assert.Equal(t, "test-key", r.Header.Get("Authorization"))

		features := []map[string]any{}
		if c, ok := f.geocodes[r.URL.Query().Get("text")]; ok {
			features = append(features, map[string]any{
				"geometry": map[string]any{"coordinates": c},
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"features": features})
	})

	mux.HandleFunc("/v2/matrix/driving-car", func(w http.ResponseWriter, r *http.Request) {
		f.matrixCalls++
		if f.matrixStatus != 0 {
			http.Error(w, `{"error":"quota"}`, f.matrixStatus)
			return
		}

		var req matrixRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		durations := make([][]*float64, len(req.Locations))
		for i, from := range req.Locations {
			durations[i] = make([]*float64, len(req.Locations))
			for j, to := range req.Locations {
				if from[0] == f.noRoute[0] && to[0] == f.noRoute[1] {
					continue
				}
				// 10 minutes per degree of longitude.
				s := math.Abs(from[0]-to[0]) * 600
				durations[i][j] = &s
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"durations": durations})
	})

	return mux
}

func newORSFake() *orsFake {
	return &orsFake{
		geocodes: map[string][]float64{
			"1 A St": {1, 0},
			"2 B St": {2, 0},
			"3 C St": {3, 0},
		},
		noRoute: [2]float64{2, 3},
	}
}

func TestORSProviderMatrix(t *testing.T) {
	fake := newORSFake()
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	p, err := NewORSProvider("test-key", srv.URL, "US", 5*time.Second)
	require.NoError(t, err)

	// Extra whitespace is normalized for geocoding only.
	locations := []string{"1 A St", "2  B St", "3 C St", "Nowhere"}
	m, err := p.TravelMinutesMatrix(context.Background(), locations)
	require.NoError(t, err)

	require.Len(t, m, 4)
	assert.Equal(t, 10.0, m[0][1])
	assert.Equal(t, 20.0, m[0][2])
	assert.Equal(t, 10.0, m[1][0])
	assert.True(t, ports.IsUnreachable(m[1][2]), "null duration means no route")
	assert.Equal(t, 10.0, m[2][1])

	for i := 0; i < 3; i++ {
		assert.True(t, ports.IsUnreachable(m[i][3]), "ungeocoded location is unreachable")
		assert.True(t, ports.IsUnreachable(m[3][i]))
	}
	assert.Equal(t, 0.0, m[3][3])

	assert.Equal(t, 4, fake.geocodeCalls, "one geocode per distinct location")
	assert.Equal(t, 1, fake.matrixCalls)
}

func TestORSProviderTravelMinutes(t *testing.T) {
	fake := newORSFake()
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	p, err := NewORSProvider("test-key", srv.URL, "", 5*time.Second)
	require.NoError(t, err)

	m, err := p.TravelMinutes(context.Background(), "3 C St", "1 A St")
	require.NoError(t, err)
	assert.Equal(t, 20.0, m)

	m, err = p.TravelMinutes(context.Background(), "1 A St", "1 A St")
	require.NoError(t, err)
	assert.Equal(t, 0.0, m)
}

func TestORSProviderStatusError(t *testing.T) {
	fake := newORSFake()
	fake.matrixStatus = http.StatusTooManyRequests
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	p, err := NewORSProvider("test-key", srv.URL, "US", 5*time.Second)
	require.NoError(t, err)

	_, err = p.TravelMinutes(context.Background(), "1 A St", "2 B St")
	require.Error(t, err)

	var he *httpStatusError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, http.StatusTooManyRequests, he.Code)
	assert.Equal(t, 1, fake.matrixCalls, "failures are not retried")
}

func TestNewORSProviderRequiresKey(t *testing.T) {
	_, err := NewORSProvider("", "", "", time.Second)
	assert.Error(t, err)
}
