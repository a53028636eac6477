package ports

import (
	"context"
	"math"
)

// Unreachable is the travel time reported when no driving route exists
// between two locations.
var Unreachable = math.Inf(1)

func IsUnreachable(minutes float64) bool { return math.IsInf(minutes, 1) }

// Contract for retrieving current driving time between two locations.
type TravelTimeProvider interface {
	// Return the estimated driving time in minutes, reflecting current
	// traffic where available, or Unreachable when no route exists.
	// Transport and service failures are returned as errors.
	TravelMinutes(ctx context.Context, origin string, destination string) (float64, error)
}
