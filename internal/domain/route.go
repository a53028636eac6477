package domain

import "time"

// Strategy selects how the optimizer orders destinations.
type Strategy string

const (
	// StrategyShortestPath follows the minimum-travel-time path to the final
	// destination and reports the destinations it passes through.
	StrategyShortestPath Strategy = "shortest-path"
	// StrategyVisitAll visits every reachable destination greedily by
	// nearest travel time and finishes at the final destination.
	StrategyVisitAll Strategy = "visit-all"
)

func (s Strategy) Valid() bool {
	return s == StrategyShortestPath || s == StrategyVisitAll
}

// DropReason explains why a destination is missing from a route.
type DropReason string

const (
	DropTooEarly    DropReason = "too_early"
	DropTooLate     DropReason = "too_late"
	DropUnreachable DropReason = "unreachable"
)

// Represents a single stop in a computed route.
// ArriveAt is the departure time plus the direct travel time from the start
// location, which is the estimate the time-window check is made against.
type RouteStop struct {
	Address          string
	ArriveAt         time.Time
	MinutesFromStart float64
}

// A destination removed from a route, with the reason it was removed.
type DroppedStop struct {
	Address  string
	ArriveAt time.Time
	Reason   DropReason
}

// Represents the ordered route produced by one optimization run.
// Stops excludes the start location; Addresses prepends it.
// It is immutable planning data and contains no side effects.
type RoutePlan struct {
	Start        string
	DepartAt     time.Time
	Strategy     Strategy
	Stops        []RouteStop
	Dropped      []DroppedStop
	TotalMinutes float64
}

// Return the ordered address list of the route, start location first.
func (p *RoutePlan) Addresses() []string {
	out := make([]string, 0, 1+len(p.Stops))
	out = append(out, p.Start)
	for _, s := range p.Stops {
		out = append(out, s.Address)
	}
	return out
}
