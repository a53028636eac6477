package handlers

import (
	"errors"
	"net/http"
	"route-optimizer-service/internal/api/dto"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/obs"
	"route-optimizer-service/internal/ports"
	"route-optimizer-service/internal/services"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// RouteHandler computes optimized routes, either for the destinations in
// the request or for the stored stops.
type RouteHandler struct {
	Optimizer       *services.Optimizer
	Repo            ports.StopRepository
	DefaultHub      string
	DefaultStrategy domain.Strategy
	MaxStops        int

	// Limiter caps concurrent optimization runs. Nil means unlimited.
	Limiter *semaphore.Weighted
}

func (h *RouteHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if !allowOnly(w, r, http.MethodPost) {
		return
	}

	if h.Limiter != nil {
		if !h.Limiter.TryAcquire(1) {
			writeError(w, r, http.StatusServiceUnavailable, "too many concurrent route requests")
			return
		}
		defer h.Limiter.Release(1)
	}

	var req dto.RouteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	start := strings.TrimSpace(req.Start)
	if start == "" {
		start = strings.TrimSpace(h.DefaultHub)
	}
	if start == "" {
		writeError(w, r, http.StatusBadRequest, "start is required")
		return
	}

	strategy := domain.Strategy(req.Strategy)
	if strategy == "" {
		strategy = h.DefaultStrategy
	}

	var depart time.Time
	if req.DepartAt != nil {
		depart = *req.DepartAt
	}

	prefs := domain.Preferences{VisitFirst: strings.TrimSpace(req.VisitFirst)}

	var (
		plan *domain.RoutePlan
		err  error
	)

	if len(req.Destinations) == 0 {
		if h.Repo == nil {
			writeError(w, r, http.StatusBadRequest, "destinations are required")
			return
		}
		plan, err = services.PlanStoredStops(r.Context(), services.PlanStoredStopsRequest{
			Hub:         start,
			DepartAt:    depart,
			Strategy:    strategy,
			Preferences: prefs,
			MaxStops:    h.MaxStops,
		}, h.Repo, h.Optimizer)
	} else {
		constraints := make(map[string]domain.TimeWindow, len(req.Constraints))
		for addr, c := range req.Constraints {
			constraints[addr] = domain.TimeWindow{Earliest: c.Earliest, Latest: c.Latest}
		}

		plan, err = h.Optimizer.Optimize(r.Context(), services.Request{
			Start:        start,
			Destinations: req.Destinations,
			Preferences:  prefs,
			Constraints:  constraints,
			DepartAt:     depart,
			Strategy:     strategy,
		})
	}
	if err != nil {
		h.writePlanError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toRouteResponse(plan))
}

func (h *RouteHandler) writePlanError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		unreachable *services.UnreachableError
		provider    *services.ProviderError
	)

	switch {
	case errors.Is(err, services.ErrNoDestinations), errors.Is(err, services.ErrInvalidRequest):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.As(err, &unreachable):
		writeError(w, r, http.StatusUnprocessableEntity, unreachable.Error())
	case errors.As(err, &provider):
		obs.Logger(r.Context()).Error("travel time provider failed", zap.Error(err))
		writeError(w, r, http.StatusBadGateway, "travel time provider unavailable")
	default:
		obs.Logger(r.Context()).Error("plan route failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func toRouteResponse(p *domain.RoutePlan) dto.RouteResponse {
	res := dto.RouteResponse{
		Start:        p.Start,
		DepartAt:     p.DepartAt,
		Strategy:     string(p.Strategy),
		Route:        p.Addresses(),
		Stops:        make([]dto.RouteStopResponse, 0, len(p.Stops)),
		Dropped:      make([]dto.DroppedStopResponse, 0, len(p.Dropped)),
		TotalMinutes: p.TotalMinutes,
	}

	for _, s := range p.Stops {
		res.Stops = append(res.Stops, dto.RouteStopResponse{
			Address:          s.Address,
			ArriveAt:         s.ArriveAt,
			MinutesFromStart: s.MinutesFromStart,
		})
	}

	for _, d := range p.Dropped {
		dr := dto.DroppedStopResponse{Address: d.Address, Reason: string(d.Reason)}
		if !d.ArriveAt.IsZero() {
			at := d.ArriveAt
			dr.ArriveAt = &at
		}
		res.Dropped = append(res.Dropped, dr)
	}

	return res
}
