package traveltime

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"route-optimizer-service/internal/domain"
)

type matrixRequest struct {
	Locations [][]float64 `json:"locations"`
	Metrics   []string    `json:"metrics"`
}

type matrixResponse struct {
	Durations [][]*float64 `json:"durations"`
}

// fetchMatrix retrieves all-to-all driving durations in seconds using the
// OpenRouteService matrix endpoint. Null cells mean no route was found.
func (o *ORSProvider) fetchMatrix(
	ctx context.Context,
	coords []domain.Coordinates,
) ([][]*float64, error) {
	endpoint := fmt.Sprintf("%s/v2/matrix/%s", o.baseURL, o.profile)

	locations := make([][]float64, 0, len(coords))
	for _, c := range coords {
		locations = append(locations, c.CoordsToList())
	}

	// Omitting sources and destinations requests every pair.
	payload, err := json.Marshal(matrixRequest{
		Locations: locations,
		Metrics:   []string{"duration"},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal matrix request: %w", err)
	}

	req, err := o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	resp, err := o.do(req)
	if err != nil {
		return nil, fmt.Errorf("matrix request failed: %w", err)
	}
	defer resp.Body.Close()

	var mr matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, fmt.Errorf("decode matrix response: %w", err)
	}

	if len(mr.Durations) != len(coords) {
		return nil, fmt.Errorf("expected %d rows; got %d", len(coords), len(mr.Durations))
	}
	for i, row := range mr.Durations {
		if len(row) != len(coords) {
			return nil, fmt.Errorf("row %d: expected %d columns; got %d", i, len(coords), len(row))
		}
	}

	return mr.Durations, nil
}
