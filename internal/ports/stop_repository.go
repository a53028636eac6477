package ports

import (
	"context"
	"route-optimizer-service/internal/domain"
)

// Port: a boundary for the stored delivery stops awaiting routing.
type StopRepository interface {
	// Retrieve all stops ordered by position.
	ListStops(ctx context.Context) ([]*domain.Stop, error)
	// Replace the stored stops with the given set.
	ReplaceStops(ctx context.Context, stops []*domain.Stop) error
}
