package services

import (
	"errors"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/ports"
	"slices"
	"testing"
)

func symmetricGraph(t *testing.T, nodes []string, edges map[[2]string]float64) *Graph {
	t.Helper()

	g := NewGraph(nodes)
	for e, m := range edges {
		if err := g.SetMinutes(e[0], e[1], m); err != nil {
			t.Fatalf("set %s->%s: %v", e[0], e[1], err)
		}
		if err := g.SetMinutes(e[1], e[0], m); err != nil {
			t.Fatalf("set %s->%s: %v", e[1], e[0], err)
		}
	}
	return g
}

// uniformGraph returns a complete graph with every edge at minutes, then
// applies the directed overrides.
func uniformGraph(t *testing.T, nodes []string, minutes float64, overrides map[[2]string]float64) *Graph {
	t.Helper()

	g := NewGraph(nodes)
	for _, from := range nodes {
		for _, to := range nodes {
			m := minutes
			if o, ok := overrides[[2]string{from, to}]; ok {
				m = o
			}
			if err := g.SetMinutes(from, to, m); err != nil {
				t.Fatalf("set %s->%s: %v", from, to, err)
			}
		}
	}
	return g
}

func TestNearestNeighborRoute(t *testing.T) {
	g := symmetricGraph(t, []string{"HUB", "A", "B", "C"}, map[[2]string]float64{
		{"HUB", "A"}: 5,
		{"HUB", "B"}: 10,
		{"HUB", "C"}: 7.5,
		{"A", "B"}:   4,
		{"A", "C"}:   3.5,
		{"B", "C"}:   4.5,
	})

	order, total, dropped, err := NearestNeighborRoute(g, "HUB", "B", []string{"A", "C", "B"}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := []string{"A", "C", "B"}; !slices.Equal(order, want) {
		t.Fatalf("expected order %v, got %v", want, order)
	}
	if total != 13 {
		t.Fatalf("expected 13 minutes, got %v", total)
	}
	if len(dropped) != 0 {
		t.Fatalf("expected no dropped stops, got %v", dropped)
	}
}

func TestNearestNeighborRouteTieBreak(t *testing.T) {
	g := symmetricGraph(t, []string{"HUB", "B", "A", "Z"}, map[[2]string]float64{
		{"HUB", "A"}: 5,
		{"HUB", "B"}: 5,
		{"HUB", "Z"}: 9,
		{"A", "B"}:   1,
		{"A", "Z"}:   9,
		{"B", "Z"}:   9,
	})

	order, _, _, err := NearestNeighborRoute(g, "HUB", "Z", []string{"B", "A", "Z"}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := []string{"A", "B", "Z"}; !slices.Equal(order, want) {
		t.Fatalf("expected lexicographic tie-break %v, got %v", want, order)
	}
}

func TestNearestNeighborRouteVisitFirst(t *testing.T) {
	g := symmetricGraph(t, []string{"HUB", "A", "B", "C"}, map[[2]string]float64{
		{"HUB", "A"}: 1,
		{"HUB", "B"}: 20,
		{"HUB", "C"}: 10,
		{"A", "B"}:   2,
		{"A", "C"}:   2,
		{"B", "C"}:   2,
	})

	order, total, _, err := NearestNeighborRoute(g, "HUB", "C", []string{"A", "B", "C"}, "B")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := []string{"B", "A", "C"}; !slices.Equal(order, want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	if total != 24 {
		t.Fatalf("expected 24 minutes, got %v", total)
	}
}

func TestNearestNeighborRouteDropsUnreachable(t *testing.T) {
	g := symmetricGraph(t, []string{"HUB", "A", "X", "C"}, map[[2]string]float64{
		{"HUB", "A"}: 1,
		{"HUB", "C"}: 5,
		{"A", "C"}:   1,
	})
	// X can be left but never entered.
	if err := g.SetMinutes("X", "C", 1); err != nil {
		t.Fatal(err)
	}

	order, _, dropped, err := NearestNeighborRoute(g, "HUB", "C", []string{"A", "X", "C"}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := []string{"A", "C"}; !slices.Equal(order, want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	if len(dropped) != 1 || dropped[0].Address != "X" || dropped[0].Reason != domain.DropUnreachable {
		t.Fatalf("expected X dropped as unreachable, got %v", dropped)
	}
}

func TestNearestNeighborRouteFinalUnreachable(t *testing.T) {
	g := symmetricGraph(t, []string{"HUB", "A", "C"}, map[[2]string]float64{
		{"HUB", "A"}: 1,
	})
	if err := g.SetMinutes("HUB", "C", ports.Unreachable); err != nil {
		t.Fatal(err)
	}

	_, _, _, err := NearestNeighborRoute(g, "HUB", "C", []string{"A", "C"}, "")

	var ue *UnreachableError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UnreachableError, got %v", err)
	}
	if ue.Address != "C" || ue.From != "HUB" {
		t.Fatalf("unexpected error details: %+v", ue)
	}
}

func TestNearestNeighborRouteReturnsToStart(t *testing.T) {
	g := symmetricGraph(t, []string{"HUB", "A"}, map[[2]string]float64{
		{"HUB", "A"}: 3,
	})

	order, total, _, err := NearestNeighborRoute(g, "HUB", "HUB", []string{"A", "HUB"}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := []string{"A"}; !slices.Equal(order, want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	if total != 6 {
		t.Fatalf("expected the return leg to count, got %v minutes", total)
	}
}

func TestNearestNeighborRouteClosesOverShortestPath(t *testing.T) {
	g := uniformGraph(t, []string{"HUB", "B", "C"}, 10, map[[2]string]float64{
		{"HUB", "B"}: 1,
		{"B", "C"}:   ports.Unreachable,
	})

	order, total, dropped, err := NearestNeighborRoute(g, "HUB", "C", []string{"B", "C"}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := []string{"B", "C"}; !slices.Equal(order, want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	// HUB->B, then B->HUB->C.
	if total != 21 {
		t.Fatalf("expected 21 minutes, got %v", total)
	}
	if len(dropped) != 0 {
		t.Fatalf("expected no dropped stops, got %v", dropped)
	}
}

func TestNearestNeighborRouteClosesFromLastStopViaDetour(t *testing.T) {
	g := uniformGraph(t, []string{"HUB", "B", "D", "C"}, 10, map[[2]string]float64{
		{"HUB", "B"}: 1,
		{"B", "D"}:   2,
		{"D", "C"}:   ports.Unreachable,
	})

	order, total, _, err := NearestNeighborRoute(g, "HUB", "C", []string{"B", "D", "C"}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := []string{"B", "D", "C"}; !slices.Equal(order, want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	if total != 23 {
		t.Fatalf("expected 23 minutes, got %v", total)
	}
}

func TestNearestNeighborRouteSkipsDeadEnds(t *testing.T) {
	g := NewGraph([]string{"HUB", "X", "C"})
	// X can be entered but has no way out.
	for _, e := range []struct {
		from, to string
		minutes  float64
	}{
		{"HUB", "X", 1},
		{"HUB", "C", 5},
		{"C", "HUB", 5},
	} {
		if err := g.SetMinutes(e.from, e.to, e.minutes); err != nil {
			t.Fatal(err)
		}
	}

	order, total, dropped, err := NearestNeighborRoute(g, "HUB", "C", []string{"X", "C"}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := []string{"C"}; !slices.Equal(order, want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	if total != 5 {
		t.Fatalf("expected 5 minutes, got %v", total)
	}
	if len(dropped) != 1 || dropped[0].Address != "X" || dropped[0].Reason != domain.DropUnreachable {
		t.Fatalf("expected X dropped as unreachable, got %v", dropped)
	}
}

func TestNearestNeighborRouteVisitFirstViaDetour(t *testing.T) {
	g := uniformGraph(t, []string{"HUB", "A", "B", "C"}, 10, map[[2]string]float64{
		{"HUB", "A"}: ports.Unreachable,
		{"HUB", "B"}: 1,
		{"B", "A"}:   1,
	})

	order, total, _, err := NearestNeighborRoute(g, "HUB", "C", []string{"A", "B", "C"}, "A")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := []string{"A", "B", "C"}; !slices.Equal(order, want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	if total != 22 {
		t.Fatalf("expected 22 minutes, got %v", total)
	}
}
