package traveltime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/obs"

	"github.com/paulmach/orb"
)

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// geocodeMany resolves addresses individually using OpenRouteService
// (/geocode/search). Results are keyed by normalized address; addresses with
// no result are absent from the map.
func (o *ORSProvider) geocodeMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "ors.geocodeMany")(&err)

	endpoint := o.baseURL + "/geocode/search"

	seen := make(map[string]struct{}, len(addresses))
	out := make(map[string]domain.Coordinates)
	for _, a := range addresses {
		norm := o.normalize(a)
		if _, ok := seen[norm]; ok {
			continue
		}
		seen[norm] = struct{}{}

		c, ok, err := o.geocode(ctx, endpoint, norm)
		if err != nil {
			return nil, fmt.Errorf("geocode %q: %w", a, err)
		}
		if !ok {
			continue
		}
		out[norm] = c
	}

	return out, nil
}

func (o *ORSProvider) geocode(ctx context.Context, endpoint, text string) (domain.Coordinates, bool, error) {
	req, err := o.newRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.Coordinates{}, false, err
	}

	q := req.URL.Query()
	q.Set("text", text)
	if o.country != "" {
		q.Set("boundary.country", o.country)
	}
	q.Set("size", "1")
	req.URL.RawQuery = q.Encode()

	resp, err := o.do(req)
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("decode geocode response: %w", err)
	}

	if len(decoded.Features) == 0 {
		return domain.Coordinates{}, false, nil
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return domain.Coordinates{}, false, fmt.Errorf("invalid coordinate format for %q", text)
	}

	c := domain.Coordinates(orb.Point{coords[0], coords[1]})
	if !c.Valid() {
		return domain.Coordinates{}, false, fmt.Errorf("coordinates out of range for %q: %v", text, coords)
	}

	return c, true, nil
}
