package services

import (
	"context"
	"route-optimizer-service/internal/adapters/traveltime"
	"route-optimizer-service/internal/ports"
)

// completeTable returns every ordered pair over locations with the same
// travel time, overridden by overrides keyed "from|to".
func completeTable(locations []string, minutes float64, overrides map[string]float64) []traveltime.Pair {
	pairs := make([]traveltime.Pair, 0, len(locations)*len(locations))
	for _, from := range locations {
		for _, to := range locations {
			if from == to {
				continue
			}
			m := minutes
			if o, ok := overrides[from+"|"+to]; ok {
				m = o
			}
			pairs = append(pairs, traveltime.Pair{From: from, To: to, Minutes: m})
		}
	}
	return pairs
}

type matrixProvider struct {
	minutes [][]float64
	calls   int
	err     error
}

func (m *matrixProvider) TravelMinutes(ctx context.Context, origin, destination string) (float64, error) {
	panic("matrix provider must not be asked pair by pair")
}

func (m *matrixProvider) TravelMinutesMatrix(ctx context.Context, locations []string) ([][]float64, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.minutes, nil
}

var _ ports.TravelTimeMatrixProvider = (*matrixProvider)(nil)
