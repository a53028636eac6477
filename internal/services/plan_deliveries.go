package services

import (
	"context"
	"fmt"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/ports"
	"strings"
	"time"
)

type PlanStoredStopsRequest struct {
	Hub         string
	DepartAt    time.Time
	Strategy    domain.Strategy
	Preferences domain.Preferences
	MaxStops    int
}

// PlanStoredStops routes every stored stop from the hub. Stops are taken in
// position order, so the highest-positioned stop is the final destination.
func PlanStoredStops(
	ctx context.Context,
	req PlanStoredStopsRequest,
	repo ports.StopRepository,
	optimizer *Optimizer,
) (*domain.RoutePlan, error) {
	stops, err := repo.ListStops(ctx)
	if err != nil {
		return nil, fmt.Errorf("plan stored stops: list stops: %w", err)
	}

	for _, s := range stops {
		if strings.TrimSpace(s.Address) == "" {
			return nil, fmt.Errorf("plan stored stops: stop position=%d has empty address", s.Position)
		}
	}

	manifest := domain.NewManifest(req.Hub, req.DepartAt, req.MaxStops)
	manifest.Preferences = req.Preferences
	if err := manifest.AddAll(stops); err != nil {
		return nil, fmt.Errorf("plan stored stops: %w: %w", ErrInvalidRequest, err)
	}

	plan, err := optimizer.Optimize(ctx, RequestFromManifest(manifest, req.Strategy))
	if err != nil {
		return nil, fmt.Errorf("plan stored stops: %w", err)
	}

	return plan, nil
}
