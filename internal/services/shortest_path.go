package services

import (
	"fmt"
	"math"
	"route-optimizer-service/internal/ports"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

// Path is a minimum-travel-time route from a source to a location.
type Path struct {
	Nodes   []string
	Minutes float64
}

// ShortestPaths runs Dijkstra from source and returns the shortest path to
// every reachable location, keyed by location. Unreachable locations are
// absent from the result. The source maps to a single-node path.
func ShortestPaths(g *Graph, source string) (map[string]Path, error) {
	src, ok := g.index[source]
	if !ok {
		return nil, fmt.Errorf("shortest paths: %w: %q", ErrUnknownLocation, source)
	}

	wg := simple.NewWeightedDirectedGraph(0, math.Inf(1))
	for i := range g.nodes {
		wg.AddNode(simple.Node(i))
	}

	// Dijkstra is only valid for non-negative weights; fail before running it.
	// Unreachable edges are left out, which is equivalent to an infinite weight.
	for i, row := range g.minutes {
		for j, minutes := range row {
			if i == j {
				continue
			}
			if minutes < 0 || math.IsNaN(minutes) {
				return nil, fmt.Errorf(
					"shortest paths: %w: %q -> %q: %v",
					ErrNegativeWeight, g.nodes[i], g.nodes[j], minutes,
				)
			}
			if ports.IsUnreachable(minutes) {
				continue
			}
			wg.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(i), T: simple.Node(j), W: minutes})
		}
	}

	shortest := path.DijkstraFrom(simple.Node(src), wg)

	out := make(map[string]Path, len(g.nodes))
	for i, name := range g.nodes {
		nodes, weight := shortest.To(int64(i))
		if len(nodes) == 0 || math.IsInf(weight, 1) {
			continue
		}

		p := Path{Nodes: make([]string, 0, len(nodes)), Minutes: weight}
		for _, n := range nodes {
			p.Nodes = append(p.Nodes, g.nodes[n.ID()])
		}
		out[name] = p
	}

	return out, nil
}

// PathTo returns the path to destination, or an *UnreachableError when the
// destination has no finite-time route from the paths' source.
func PathTo(paths map[string]Path, source, destination string) (Path, error) {
	p, ok := paths[destination]
	if !ok {
		return Path{}, &UnreachableError{Address: destination, From: source}
	}
	return p, nil
}
