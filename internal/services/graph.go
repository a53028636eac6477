package services

import (
	"context"
	"fmt"
	"math"
	"route-optimizer-service/internal/platform/obs"
	"route-optimizer-service/internal/ports"
	"time"
)

// Graph is a complete directed graph over a run's locations, weighted by
// driving minutes. It is a snapshot: every decision in a run reads travel
// times from here instead of asking the provider again.
type Graph struct {
	nodes   []string
	index   map[string]int
	minutes [][]float64
}

// NewGraph creates a graph over locations with every edge unreachable.
// Duplicate locations are collapsed; the first occurrence keeps its index.
func NewGraph(locations []string) *Graph {
	g := &Graph{index: make(map[string]int, len(locations))}
	for _, l := range locations {
		if _, ok := g.index[l]; ok {
			continue
		}
		g.index[l] = len(g.nodes)
		g.nodes = append(g.nodes, l)
	}

	g.minutes = make([][]float64, len(g.nodes))
	for i := range g.minutes {
		row := make([]float64, len(g.nodes))
		for j := range row {
			if i != j {
				row[j] = ports.Unreachable
			}
		}
		g.minutes[i] = row
	}

	return g
}

func (g *Graph) Len() int { return len(g.nodes) }

// Nodes returns the locations in index order.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.nodes))
	copy(out, g.nodes)
	return out
}

func (g *Graph) Has(location string) bool {
	_, ok := g.index[location]
	return ok
}

// reversed returns the graph with every edge flipped, so shortest paths from
// a node in the result are shortest paths into that node here.
func (g *Graph) reversed() *Graph {
	r := NewGraph(g.nodes)
	for i, row := range g.minutes {
		for j, minutes := range row {
			r.minutes[j][i] = minutes
		}
	}
	return r
}

// Minutes returns the edge weight from -> to.
func (g *Graph) Minutes(from, to string) (float64, error) {
	i, ok := g.index[from]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLocation, from)
	}
	j, ok := g.index[to]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLocation, to)
	}
	return g.minutes[i][j], nil
}

// SetMinutes sets the edge weight from -> to. Weights must be non-negative
// or Unreachable.
func (g *Graph) SetMinutes(from, to string, minutes float64) error {
	i, ok := g.index[from]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLocation, from)
	}
	j, ok := g.index[to]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLocation, to)
	}
	if i == j {
		return nil
	}
	if err := checkMinutes(from, to, minutes); err != nil {
		return err
	}
	g.minutes[i][j] = minutes
	return nil
}

// maxMinutes is the longest finite travel time a time.Duration can hold.
const maxMinutes = float64(math.MaxInt64) / float64(time.Minute)

func checkMinutes(from, to string, minutes float64) error {
	if math.IsNaN(minutes) || math.IsInf(minutes, -1) {
		return fmt.Errorf("%w: %q -> %q: %v", ErrInvalidTravelTime, from, to, minutes)
	}
	if !math.IsInf(minutes, 1) && minutes > maxMinutes {
		return fmt.Errorf("%w: %q -> %q: %v exceeds %v minutes", ErrInvalidTravelTime, from, to, minutes, maxMinutes)
	}
	if minutes < 0 {
		return fmt.Errorf("%w: %q -> %q: %v", ErrNegativeWeight, from, to, minutes)
	}
	return nil
}

// BuildGraph fetches the travel time of every ordered pair of locations in
// {start} ∪ destinations. A matrix provider is asked once; any other
// provider is asked once per ordered pair, sequentially. Any provider
// failure aborts the build.
func BuildGraph(
	ctx context.Context,
	provider ports.TravelTimeProvider,
	start string,
	destinations []string,
) (_ *Graph, err error) {
	defer obs.Time(ctx, "graph.Build")(&err)

	locations := make([]string, 0, 1+len(destinations))
	locations = append(locations, start)
	locations = append(locations, destinations...)

	g := NewGraph(locations)
	n := g.Len()

	if mp, ok := provider.(ports.TravelTimeMatrixProvider); ok {
		m, err := mp.TravelMinutesMatrix(ctx, g.Nodes())
		if err != nil {
			return nil, &ProviderError{Op: fmt.Sprintf("matrix over %d locations", n), Err: err}
		}

		if len(m) != n {
			return nil, &ProviderError{
				Op:  "matrix",
				Err: fmt.Errorf("expected %d rows, got %d", n, len(m)),
			}
		}

		for i, row := range m {
			if len(row) != n {
				return nil, &ProviderError{
					Op:  "matrix",
					Err: fmt.Errorf("row %d: expected %d columns, got %d", i, n, len(row)),
				}
			}
			for j, minutes := range row {
				if i == j {
					continue
				}
				if err := g.SetMinutes(g.nodes[i], g.nodes[j], minutes); err != nil {
					return nil, fmt.Errorf("build graph: %w", err)
				}
			}
		}

		return g, nil
	}

	// Travel times can be asymmetric, so A->B and B->A are fetched separately.
	for i, from := range g.nodes {
		for j, to := range g.nodes {
			if i == j {
				continue
			}

			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("build graph: %w", err)
			}

			minutes, err := provider.TravelMinutes(ctx, from, to)
			if err != nil {
				return nil, &ProviderError{Op: fmt.Sprintf("%q -> %q", from, to), Err: err}
			}

			if err := g.SetMinutes(from, to, minutes); err != nil {
				return nil, fmt.Errorf("build graph: %w", err)
			}
		}
	}

	return g, nil
}
