package ports

import "context"

// Optional extension of TravelTimeProvider that fetches a full matrix at once.
type TravelTimeMatrixProvider interface {
	TravelTimeProvider
	// Return minutes[i][j] for every ordered pair of locations. The diagonal
	// is zero; unreachable pairs hold Unreachable.
	TravelMinutesMatrix(ctx context.Context, locations []string) ([][]float64, error)
}
