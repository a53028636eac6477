package services

import (
	"fmt"
	"math"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/ports"
	"time"
)

// SelectShortestPathRoute returns the addresses on the shortest path from
// start to final, excluding start, with the path's total minutes.
//
// With a visitFirst address, the route follows the shortest path from start
// to visitFirst and then the shortest path from visitFirst to final.
func SelectShortestPathRoute(
	g *Graph,
	fromStart map[string]Path,
	start string,
	final string,
	visitFirst string,
) ([]string, float64, error) {
	for _, l := range []string{start, final, visitFirst} {
		if l != "" && !g.Has(l) {
			return nil, 0, fmt.Errorf("select route: %w: %q", ErrUnknownLocation, l)
		}
	}

	if visitFirst == "" || visitFirst == start {
		p, err := PathTo(fromStart, start, final)
		if err != nil {
			return nil, 0, err
		}
		return p.Nodes[1:], p.Minutes, nil
	}

	first, err := PathTo(fromStart, start, visitFirst)
	if err != nil {
		return nil, 0, err
	}

	fromFirst, err := ShortestPaths(g, visitFirst)
	if err != nil {
		return nil, 0, err
	}
	rest, err := PathTo(fromFirst, visitFirst, final)
	if err != nil {
		return nil, 0, err
	}

	// rest starts at visitFirst, which already ends the first leg. The second
	// leg may pass back through start; start is never a stop.
	addresses := make([]string, 0, len(first.Nodes)+len(rest.Nodes))
	addresses = append(addresses, first.Nodes[1:]...)
	for _, a := range rest.Nodes[1:] {
		if a == start {
			continue
		}
		addresses = append(addresses, a)
	}

	return addresses, first.Minutes + rest.Minutes, nil
}

// FilterByTimeWindows drops addresses whose estimated arrival falls outside
// their time window, preserving order.
//
// The arrival estimate is departAt plus the direct travel time from start,
// read from the graph snapshot. When the direct edge is unreachable the
// shortest-path time from start is used instead.
func FilterByTimeWindows(
	g *Graph,
	fromStart map[string]Path,
	start string,
	addresses []string,
	constraints map[string]domain.TimeWindow,
	departAt time.Time,
) ([]domain.RouteStop, []domain.DroppedStop, error) {
	stops := make([]domain.RouteStop, 0, len(addresses))
	dropped := make([]domain.DroppedStop, 0)

	for _, a := range addresses {
		minutes, err := g.Minutes(start, a)
		if err != nil {
			return nil, nil, err
		}
		if ports.IsUnreachable(minutes) {
			p, ok := fromStart[a]
			if !ok {
				dropped = append(dropped, domain.DroppedStop{Address: a, Reason: domain.DropUnreachable})
				continue
			}
			minutes = p.Minutes
		}

		arrival := departAt.Add(minutesToDuration(minutes))

		window, ok := constraints[a]
		if ok && !window.Admits(arrival) {
			reason := domain.DropTooLate
			if window.Earliest != nil && arrival.Before(*window.Earliest) {
				reason = domain.DropTooEarly
			}
			dropped = append(dropped, domain.DroppedStop{Address: a, ArriveAt: arrival, Reason: reason})
			continue
		}

		stops = append(stops, domain.RouteStop{
			Address:          a,
			ArriveAt:         arrival,
			MinutesFromStart: minutes,
		})
	}

	return stops, dropped, nil
}

// minutesToDuration converts minutes to a duration, saturating at the
// largest representable duration.
func minutesToDuration(minutes float64) time.Duration {
	if minutes >= maxMinutes {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(minutes * float64(time.Minute))
}
