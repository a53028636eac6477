package services

import (
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/ports"
	"slices"
)

// Order every destination using a greedy nearest-neighbor walk, finishing
// at final.
//
// The algorithm minimizes immediate travel time at each step over the run's
// graph snapshot. It does not attempt global route optimization.
// A destination is only taken when final can still be reached from it, so
// the walk never strands itself. Destinations that cannot be entered from
// the walk's current location, or from which final is unreachable, are
// dropped as unreachable. The closing leg to final follows the shortest
// path, which may pass through locations already visited. When final is the
// start location the walk returns there, and the return leg counts toward
// the total without adding a stop.
func NearestNeighborRoute(
	g *Graph,
	start string,
	final string,
	destinations []string,
	visitFirst string,
) ([]string, float64, []domain.DroppedStop, error) {
	// Shortest paths into final, found by searching the reversed graph.
	toFinal, err := ShortestPaths(g.reversed(), final)
	if err != nil {
		return nil, 0, nil, err
	}

	remaining := make(map[string]struct{}, len(destinations))
	for _, d := range destinations {
		if d == start || d == final || d == visitFirst {
			continue
		}
		remaining[d] = struct{}{}
	}

	currentLocation := start
	order := make([]string, 0, len(destinations))
	dropped := make([]domain.DroppedStop, 0)
	totalMinutes := 0.0

	if visitFirst != "" && visitFirst != start && visitFirst != final {
		leg, err := g.Minutes(start, visitFirst)
		if err != nil {
			return nil, 0, nil, err
		}
		if ports.IsUnreachable(leg) {
			fromStart, err := ShortestPaths(g, start)
			if err != nil {
				return nil, 0, nil, err
			}
			p, err := PathTo(fromStart, start, visitFirst)
			if err != nil {
				return nil, 0, nil, err
			}
			leg = p.Minutes
		}
		if _, ok := toFinal[visitFirst]; !ok {
			return nil, 0, nil, &UnreachableError{Address: final, From: visitFirst}
		}
		totalMinutes += leg
		order = append(order, visitFirst)
		currentLocation = visitFirst
	}

	for len(remaining) > 0 {
		var bestDestination string
		minMinutes := ports.Unreachable

		// Select next stop by minimum travel time (greedy step).
		for d := range remaining {
			if _, ok := toFinal[d]; !ok {
				continue
			}
			m, err := g.Minutes(currentLocation, d)
			if err != nil {
				return nil, 0, nil, err
			}
			if ports.IsUnreachable(m) {
				continue
			}
			// Tie-breaker ensures deterministic ordering when times are equal.
			if m < minMinutes || (m == minMinutes && (bestDestination == "" || d < bestDestination)) {
				minMinutes = m
				bestDestination = d
			}
		}

		if bestDestination == "" {
			// Nothing left can be taken from here.
			rest := make([]string, 0, len(remaining))
			for d := range remaining {
				rest = append(rest, d)
			}
			slices.Sort(rest)
			for _, d := range rest {
				dropped = append(dropped, domain.DroppedStop{Address: d, Reason: domain.DropUnreachable})
			}
			break
		}

		totalMinutes += minMinutes
		order = append(order, bestDestination)
		delete(remaining, bestDestination)
		currentLocation = bestDestination
	}

	if final != currentLocation {
		closing, ok := toFinal[currentLocation]
		if !ok {
			return nil, 0, nil, &UnreachableError{Address: final, From: currentLocation}
		}
		totalMinutes += closing.Minutes
		if final != start {
			order = append(order, final)
		}
	}

	return order, totalMinutes, dropped, nil
}
