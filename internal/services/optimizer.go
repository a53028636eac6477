package services

import (
	"context"
	"errors"
	"fmt"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/obs"
	"route-optimizer-service/internal/ports"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Request is the input of one optimization run. The last destination is the
// final destination. A zero DepartAt means "now".
type Request struct {
	Start        string
	Destinations []string
	Preferences  domain.Preferences
	Constraints  map[string]domain.TimeWindow
	DepartAt     time.Time
	Strategy     domain.Strategy
}

// RequestFromManifest converts a manifest into an optimization request.
func RequestFromManifest(m *domain.Manifest, strategy domain.Strategy) Request {
	return Request{
		Start:        m.Start,
		Destinations: m.Destinations(),
		Preferences:  m.Preferences,
		Constraints:  m.Constraints(),
		DepartAt:     m.DepartAt,
		Strategy:     strategy,
	}
}

// Optimizer computes delivery routes from live travel times.
// It holds no per-run state and is safe for concurrent use when its
// provider is.
type Optimizer struct {
	provider ports.TravelTimeProvider
	logger   *zap.Logger
	now      func() time.Time
	maxStops int
}

type Option func(*Optimizer)

func WithLogger(logger *zap.Logger) Option {
	return func(o *Optimizer) { o.logger = logger }
}

// WithClock overrides the source of "now" used for departures.
func WithClock(now func() time.Time) Option {
	return func(o *Optimizer) { o.now = now }
}

// WithMaxStops caps the number of distinct destinations per run.
func WithMaxStops(n int) Option {
	return func(o *Optimizer) { o.maxStops = n }
}

func NewOptimizer(provider ports.TravelTimeProvider, opts ...Option) (*Optimizer, error) {
	if provider == nil {
		return nil, errors.New("new optimizer: provider must be non-nil")
	}

	o := &Optimizer{
		provider: provider,
		logger:   zap.NewNop(),
		now:      time.Now,
		maxStops: domain.DefaultMaxStops,
	}
	for _, opt := range opts {
		opt(o)
	}

	return o, nil
}

// Optimize builds the travel-time graph for the request once, computes
// shortest paths from the start, orders the destinations with the requested
// strategy and drops those whose arrival estimate misses their time window.
func (o *Optimizer) Optimize(ctx context.Context, req Request) (_ *domain.RoutePlan, err error) {
	defer obs.Time(ctx, "optimizer.Optimize")(&err)

	if err := o.validate(&req); err != nil {
		return nil, err
	}

	departAt := req.DepartAt
	if departAt.IsZero() {
		departAt = o.now()
	}

	final := req.Destinations[len(req.Destinations)-1]

	g, err := BuildGraph(ctx, o.provider, req.Start, req.Destinations)
	if err != nil {
		return nil, fmt.Errorf("optimize: %w", err)
	}

	fromStart, err := ShortestPaths(g, req.Start)
	if err != nil {
		return nil, fmt.Errorf("optimize: %w", err)
	}

	// Every strategy must end at the final destination.
	if _, err := PathTo(fromStart, req.Start, final); err != nil {
		return nil, fmt.Errorf("optimize: %w", err)
	}

	var (
		addresses []string
		total     float64
		dropped   []domain.DroppedStop
	)

	switch req.Strategy {
	case domain.StrategyVisitAll:
		addresses, total, dropped, err = NearestNeighborRoute(
			g, req.Start, final, req.Destinations, req.Preferences.VisitFirst,
		)
	default:
		addresses, total, err = SelectShortestPathRoute(
			g, fromStart, req.Start, final, req.Preferences.VisitFirst,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("optimize: %s route: %w", req.Strategy, err)
	}

	stops, windowDropped, err := FilterByTimeWindows(g, fromStart, req.Start, addresses, req.Constraints, departAt)
	if err != nil {
		return nil, fmt.Errorf("optimize: filter time windows: %w", err)
	}
	dropped = append(dropped, windowDropped...)

	logger := obs.LoggerOr(ctx, o.logger)
	for _, d := range dropped {
		logger.Info("stop dropped from route",
			zap.String("address", d.Address),
			zap.String("reason", string(d.Reason)),
		)
	}

	return &domain.RoutePlan{
		Start:        req.Start,
		DepartAt:     departAt,
		Strategy:     req.Strategy,
		Stops:        stops,
		Dropped:      dropped,
		TotalMinutes: total,
	}, nil
}

func (o *Optimizer) validate(req *Request) error {
	if strings.TrimSpace(req.Start) == "" {
		return fmt.Errorf("%w: start must be non-empty", ErrInvalidRequest)
	}

	if len(req.Destinations) == 0 {
		return ErrNoDestinations
	}

	distinct := make(map[string]struct{}, len(req.Destinations))
	for i, d := range req.Destinations {
		if strings.TrimSpace(d) == "" {
			return fmt.Errorf("%w: destination #%d is empty", ErrInvalidRequest, i+1)
		}
		if d != req.Start {
			distinct[d] = struct{}{}
		}
	}
	if o.maxStops > 0 && len(distinct) > o.maxStops {
		return fmt.Errorf("%w: %d destinations exceed the limit of %d", ErrInvalidRequest, len(distinct), o.maxStops)
	}

	if req.Strategy == "" {
		req.Strategy = domain.StrategyShortestPath
	}
	if !req.Strategy.Valid() {
		return fmt.Errorf("%w: unknown strategy %q", ErrInvalidRequest, req.Strategy)
	}

	if vf := req.Preferences.VisitFirst; vf != "" {
		if _, ok := distinct[vf]; !ok {
			return fmt.Errorf("%w: visit_first %q is not a destination", ErrInvalidRequest, vf)
		}
		final := req.Destinations[len(req.Destinations)-1]
		if req.Strategy == domain.StrategyVisitAll && vf == final && len(distinct) > 1 {
			return fmt.Errorf("%w: visit_first cannot be the final destination when visiting all stops", ErrInvalidRequest)
		}
	}

	for addr, w := range req.Constraints {
		if err := w.Validate(); err != nil {
			return fmt.Errorf("%w: constraint for %q: %v", ErrInvalidRequest, addr, err)
		}
	}

	return nil
}
