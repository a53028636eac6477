package traveltime

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/obs"
	"route-optimizer-service/internal/ports"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ORSProvider implements TravelTimeMatrixProvider using OpenRouteService.
//
// It coordinates:
//   - Address normalization for geocode queries
//   - Geocoding every distinct location once per matrix
//   - A single all-to-all matrix request
//
// Locations that cannot be geocoded are reported as unreachable to and from
// every other location. ORS has no live traffic; durations are typical
// driving times. The provider is safe for concurrent use.
type ORSProvider struct {
	session *http.Client
	apiKey  string
	baseURL string
	profile string
	country string
}

func NewORSProvider(apiKey, baseURL, country string, timeout time.Duration) (*ORSProvider, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}
	if baseURL == "" {
		baseURL = "https://api.openrouteservice.org"
	}

	provider := &ORSProvider{
		session: &http.Client{Timeout: timeout},
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		profile: "driving-car",
		country: country,
	}

	return provider, nil
}

// normalize collapses whitespace in geocode queries.
func (o *ORSProvider) normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Delegate to the matrix path over the two locations.
func (o *ORSProvider) TravelMinutes(
	ctx context.Context,
	origin string,
	destination string,
) (float64, error) {
	if origin == "" || destination == "" {
		return 0, errors.New("get ORS travel minutes: origin and destination must be non-empty")
	}

	if origin == destination {
		return 0, nil
	}

	m, err := o.TravelMinutesMatrix(ctx, []string{origin, destination})
	if err != nil {
		return 0, fmt.Errorf("get ORS travel minutes %q -> %q: %w", origin, destination, err)
	}

	return m[0][1], nil
}

// Compute travel minutes between every ordered pair of locations.
func (o *ORSProvider) TravelMinutesMatrix(
	ctx context.Context,
	locations []string,
) (_ [][]float64, err error) {
	defer obs.Time(ctx, "ors.TravelMinutesMatrix")(&err)

	n := len(locations)
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, n)
		for j := range out[i] {
			if i != j {
				out[i][j] = ports.Unreachable
			}
		}
	}

	if n < 2 {
		return out, nil
	}

	coords, err := o.geocodeMany(ctx, locations)
	if err != nil {
		return nil, fmt.Errorf("retrieving coordinates: %w", err)
	}

	// Only geocoded locations take part in the matrix request.
	resolved := make([]int, 0, n)
	resolvedCoords := make([]domain.Coordinates, 0, n)
	for i, l := range locations {
		c, ok := coords[o.normalize(l)]
		if !ok {
			obs.Logger(ctx).Warn("location not geocoded; treating as unreachable", zap.String("address", l))
			continue
		}
		resolved = append(resolved, i)
		resolvedCoords = append(resolvedCoords, c)
	}

	if len(resolved) < 2 {
		return out, nil
	}

	seconds, err := o.fetchMatrix(ctx, resolvedCoords)
	if err != nil {
		return nil, fmt.Errorf("fetching matrix: %w", err)
	}

	for a, i := range resolved {
		for b, j := range resolved {
			if i == j {
				continue
			}
			s := seconds[a][b]
			if s == nil {
				continue
			}
			out[i][j] = *s / 60
		}
	}

	return out, nil
}
