package traveltime

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"route-optimizer-service/internal/platform/obs"
	"route-optimizer-service/internal/ports"
	"time"

	"googlemaps.github.io/maps"
)

// Google Distance Matrix accepts at most 25 destinations per request.
const googleMaxDestinations = 25

// GoogleProvider implements TravelTimeMatrixProvider with the Google Maps
// Distance Matrix API, using driving mode, departure "now" and the
// best-guess traffic model.
//
// Any element status other than OK (ZERO_RESULTS, NOT_FOUND, ...) is
// reported as unreachable. Request-level failures are returned as errors.
type GoogleProvider struct {
	client *maps.Client
}

func NewGoogleProvider(apiKey string, timeout time.Duration, opts ...maps.ClientOption) (*GoogleProvider, error) {
	if apiKey == "" {
		return nil, errors.New("google maps api key is empty")
	}

	clientOpts := []maps.ClientOption{
		maps.WithAPIKey(apiKey),
		maps.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	clientOpts = append(clientOpts, opts...)

	client, err := maps.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("new google maps client: %w", err)
	}

	return &GoogleProvider{client: client}, nil
}

func (g *GoogleProvider) TravelMinutes(ctx context.Context, origin, destination string) (float64, error) {
	if origin == "" || destination == "" {
		return 0, errors.New("google travel minutes: origin and destination must be non-empty")
	}

	row, err := g.fetchRow(ctx, origin, []string{destination})
	if err != nil {
		return 0, fmt.Errorf("google travel minutes %q -> %q: %w", origin, destination, err)
	}

	return row[0], nil
}

// TravelMinutesMatrix issues one request per origin row, chunking
// destinations to the API limit.
func (g *GoogleProvider) TravelMinutesMatrix(
	ctx context.Context,
	locations []string,
) (_ [][]float64, err error) {
	defer obs.Time(ctx, "google.TravelMinutesMatrix")(&err)

	out := make([][]float64, len(locations))
	for i, origin := range locations {
		others := make([]string, 0, len(locations)-1)
		for j, d := range locations {
			if i != j {
				others = append(others, d)
			}
		}

		minutes := make([]float64, 0, len(others))
		for start := 0; start < len(others); start += googleMaxDestinations {
			end := min(start+googleMaxDestinations, len(others))

			row, err := g.fetchRow(ctx, origin, others[start:end])
			if err != nil {
				return nil, fmt.Errorf("google matrix row %q: %w", origin, err)
			}
			minutes = append(minutes, row...)
		}

		full := make([]float64, len(locations))
		k := 0
		for j := range locations {
			if i == j {
				continue
			}
			full[j] = minutes[k]
			k++
		}
		out[i] = full
	}

	return out, nil
}

func (g *GoogleProvider) fetchRow(ctx context.Context, origin string, destinations []string) ([]float64, error) {
	resp, err := g.client.DistanceMatrix(ctx, &maps.DistanceMatrixRequest{
		Origins:       []string{origin},
		Destinations:  destinations,
		Mode:          maps.TravelModeDriving,
		DepartureTime: "now",
		TrafficModel:  maps.TrafficModelBestGuess,
	})
	if err != nil {
		return nil, fmt.Errorf("distance matrix request: %w", err)
	}

	if len(resp.Rows) != 1 {
		return nil, fmt.Errorf("expected 1 row, got %d", len(resp.Rows))
	}

	elements := resp.Rows[0].Elements
	if len(elements) != len(destinations) {
		return nil, fmt.Errorf(
			"row length does not match destinations: elements=%d destinations=%d",
			len(elements), len(destinations),
		)
	}

	out := make([]float64, len(destinations))
	for i, e := range elements {
		out[i] = elementMinutes(e)
	}

	return out, nil
}

func elementMinutes(e *maps.DistanceMatrixElement) float64 {
	if e == nil || e.Status != "OK" {
		return ports.Unreachable
	}

	// duration_in_traffic is only present when traffic data is available.
	if e.DurationInTraffic > 0 {
		return e.DurationInTraffic.Minutes()
	}
	return e.Duration.Minutes()
}
