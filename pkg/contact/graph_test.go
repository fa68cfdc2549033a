package contact

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"
)

func setupTestGraph(t *testing.T, n int) *Graph {
	t.Helper()
	g, err := New(n)
	if err != nil {
		t.Fatalf("Failed to create graph: %v", err)
	}
	return g
}

func mustAddEdge(t *testing.T, g *Graph, a, b NodeID) {
	t.Helper()
	if err := g.AddEdge(a, b); err != nil {
		t.Fatalf("AddEdge(%d, %d) failed: %v", a, b, err)
	}
}

func TestNew_InvalidPopulation(t *testing.T) {
	for _, n := range []int{0, -1, -100} {
		_, err := New(n)
		if !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("New(%d): expected ErrInvalidParameter, got %v", n, err)
		}
	}
}

func TestAddEdge_Undirected(t *testing.T) {
	g := setupTestGraph(t, 3)
	mustAddEdge(t, g, 1, 2)

	if !slices.Contains(g.Neighbors(1), 2) {
		t.Error("Node 1 should have node 2 as neighbor")
	}
	if !slices.Contains(g.Neighbors(2), 1) {
		t.Error("Node 2 should have node 1 as neighbor")
	}
	if g.EdgeCount() != 1 {
		t.Errorf("Expected 1 edge, got %d", g.EdgeCount())
	}
}

func TestAddEdge_SelfLoopIgnored(t *testing.T) {
	g := setupTestGraph(t, 2)
	mustAddEdge(t, g, 0, 0)

	if g.Degree(0) != 0 {
		t.Errorf("Self-loop should be ignored, degree = %d", g.Degree(0))
	}
	if g.EdgeCount() != 0 {
		t.Errorf("Expected 0 edges, got %d", g.EdgeCount())
	}
}

func TestAddEdge_Idempotent(t *testing.T) {
	g := setupTestGraph(t, 2)
	mustAddEdge(t, g, 0, 1)
	mustAddEdge(t, g, 1, 0)
	mustAddEdge(t, g, 0, 1)

	if g.Degree(0) != 1 || g.Degree(1) != 1 {
		t.Errorf("Duplicate edges stored: degrees %d, %d", g.Degree(0), g.Degree(1))
	}
	if g.EdgeCount() != 1 {
		t.Errorf("Expected 1 edge, got %d", g.EdgeCount())
	}
}

func TestAddEdge_UnknownNode(t *testing.T) {
	g := setupTestGraph(t, 2)

	err := g.AddEdge(0, 5)
	if !errors.Is(err, ErrNodeNotFound) {
		t.Fatalf("Expected ErrNodeNotFound, got %v", err)
	}

	var gerr *GraphError
	if !errors.As(err, &gerr) {
		t.Fatalf("Expected *GraphError, got %T", err)
	}
	if gerr.Node != 5 {
		t.Errorf("GraphError.Node = %d, want 5", gerr.Node)
	}
}

func TestAddEdge_Sealed(t *testing.T) {
	g := setupTestGraph(t, 3)
	mustAddEdge(t, g, 0, 1)
	g.Seal()

	if err := g.AddEdge(1, 2); !errors.Is(err, ErrSealed) {
		t.Errorf("Expected ErrSealed, got %v", err)
	}
	if g.EdgeCount() != 1 {
		t.Errorf("Sealed graph changed: %d edges", g.EdgeCount())
	}
}

func TestDegreeStatistics(t *testing.T) {
	// Star: hub 0 with leaves 1..4, plus isolated node 5
	g := setupTestGraph(t, 6)
	for i := NodeID(1); i <= 4; i++ {
		mustAddEdge(t, g, 0, i)
	}

	if g.MaxDegree() != 4 {
		t.Errorf("MaxDegree = %d, want 4", g.MaxDegree())
	}

	wantAvg := 8.0 / 6.0
	if g.AverageDegree() != wantAvg {
		t.Errorf("AverageDegree = %f, want %f", g.AverageDegree(), wantAvg)
	}

	stats := g.Stats()
	if stats.Nodes != 6 || stats.Edges != 4 {
		t.Errorf("Stats nodes/edges = %d/%d, want 6/4", stats.Nodes, stats.Edges)
	}
	if stats.Isolated != 1 {
		t.Errorf("Isolated = %d, want 1", stats.Isolated)
	}
	if stats.DegreeCounts[1] != 4 {
		t.Errorf("DegreeCounts[1] = %d, want 4", stats.DegreeCounts[1])
	}
	if stats.HubRatio() != 4/wantAvg {
		t.Errorf("HubRatio = %f, want %f", stats.HubRatio(), 4/wantAvg)
	}
}

func TestDegree_UnknownNode(t *testing.T) {
	g := setupTestGraph(t, 1)
	if g.Degree(-1) != 0 || g.Degree(3) != 0 {
		t.Error("Unknown nodes should report degree 0")
	}
	if g.Neighbors(7) != nil {
		t.Error("Unknown nodes should have no neighbors")
	}
}

func TestGraphError_Message(t *testing.T) {
	err := InvalidParameterError("RandomGraph", "p must be in [0,1], got %.2f", 1.5)
	want := "RandomGraph (p must be in [0,1], got 1.50): invalid parameter"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !IsInvalidParameter(err) {
		t.Error("IsInvalidParameter should match")
	}
}

func TestSampleIDs_Distinct(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	ids := SampleIDs(rng, 50, 20)
	if len(ids) != 20 {
		t.Fatalf("Expected 20 ids, got %d", len(ids))
	}

	seen := make(map[NodeID]bool)
	for _, id := range ids {
		if id < 0 || id >= 50 {
			t.Errorf("Sampled id %d out of range", id)
		}
		if seen[id] {
			t.Errorf("Sampled id %d twice", id)
		}
		seen[id] = true
	}
}

func TestClampCount(t *testing.T) {
	tests := []struct {
		count, population, want int
	}{
		{-5, 10, 0},
		{0, 10, 0},
		{7, 10, 7},
		{10, 10, 10},
		{9999, 20, 20},
	}
	for _, tt := range tests {
		if got := ClampCount(tt.count, tt.population); got != tt.want {
			t.Errorf("ClampCount(%d, %d) = %d, want %d", tt.count, tt.population, got, tt.want)
		}
	}
}
