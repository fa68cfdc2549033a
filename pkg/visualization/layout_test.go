package visualization

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/dd0wney/cluso-vaxsim/pkg/contact"
	"github.com/dd0wney/cluso-vaxsim/pkg/spread"
)

// path builds 0-1-2-...-(n-1)
func path(t *testing.T, n int) *contact.Graph {
	t.Helper()
	g, err := contact.New(n)
	if err != nil {
		t.Fatalf("contact.New failed: %v", err)
	}
	for i := 1; i < n; i++ {
		if err := g.AddEdge(contact.NodeID(i-1), contact.NodeID(i)); err != nil {
			t.Fatalf("AddEdge failed: %v", err)
		}
	}
	g.Seal()
	return g
}

func assertInBounds(t *testing.T, positions []Position, width, height float64) {
	t.Helper()
	for id, pos := range positions {
		if pos.X < 0 || pos.X > width || math.IsNaN(pos.X) {
			t.Errorf("Node %d X position %f out of bounds", id, pos.X)
		}
		if pos.Y < 0 || pos.Y > height || math.IsNaN(pos.Y) {
			t.Errorf("Node %d Y position %f out of bounds", id, pos.Y)
		}
	}
}

func TestForceDirectedLayout(t *testing.T) {
	g := path(t, 6)
	layout := NewForceDirectedLayout(&LayoutConfig{Width: 800, Height: 600, Iterations: 50, Seed: 7})

	positions, err := layout.ComputeLayout(g)
	if err != nil {
		t.Fatalf("Layout computation failed: %v", err)
	}
	if len(positions) != 6 {
		t.Fatalf("Expected 6 positions, got %d", len(positions))
	}
	assertInBounds(t, positions, 800, 600)
}

func TestForceDirectedLayout_Deterministic(t *testing.T) {
	g := path(t, 10)

	a, _ := NewForceDirectedLayout(&LayoutConfig{Width: 400, Height: 400, Seed: 3}).ComputeLayout(g)
	b, _ := NewForceDirectedLayout(&LayoutConfig{Width: 400, Height: 400, Seed: 3}).ComputeLayout(g)
	c, _ := NewForceDirectedLayout(&LayoutConfig{Width: 400, Height: 400, Seed: 4}).ComputeLayout(g)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Same seed produced different position for node %d: %v vs %v", i, a[i], b[i])
		}
	}
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("Different seeds should produce different layouts")
	}
}

func TestForceDirectedLayout_SingleNode(t *testing.T) {
	g := path(t, 1)
	positions, err := NewForceDirectedLayout(&LayoutConfig{Width: 800, Height: 600}).ComputeLayout(g)
	if err != nil {
		t.Fatalf("Layout failed: %v", err)
	}
	if positions[0] != (Position{X: 400, Y: 300}) {
		t.Errorf("Single node should be centered, got %v", positions[0])
	}
}

func TestCircularLayout(t *testing.T) {
	g := path(t, 4)
	layout := NewCircularLayout(&LayoutConfig{Width: 800, Height: 600})

	positions, err := layout.ComputeLayout(g)
	if err != nil {
		t.Fatalf("Layout computation failed: %v", err)
	}

	// All nodes sit on the same radius from the center
	radius := 300.0 - 50.0
	for id, pos := range positions {
		dist := math.Hypot(pos.X-400, pos.Y-300)
		if math.Abs(dist-radius) > 1e-9 {
			t.Errorf("Node %d at distance %f, expected %f", id, dist, radius)
		}
	}
	assertInBounds(t, positions, 800, 600)
}

func TestWaveLayout(t *testing.T) {
	g := path(t, 5)
	waves := spread.Waves{{2}, {1, 3}}
	layout := NewWaveLayout(&LayoutConfig{Width: 600, Height: 400}, waves)

	positions, err := layout.ComputeLayout(g)
	if err != nil {
		t.Fatalf("Layout computation failed: %v", err)
	}

	// Seeds on top, then wave 1, then the untouched nodes
	if !(positions[2].Y < positions[1].Y) {
		t.Errorf("Seed row should be above wave 1: %v vs %v", positions[2], positions[1])
	}
	if positions[1].Y != positions[3].Y {
		t.Errorf("Wave 1 nodes should share a row: %v vs %v", positions[1], positions[3])
	}
	if positions[0].Y != positions[4].Y || !(positions[0].Y > positions[1].Y) {
		t.Errorf("Uninfected nodes should share the bottom row: %v %v", positions[0], positions[4])
	}
	assertInBounds(t, positions, 600, 400)
}

func TestWaveLayout_NoWaves(t *testing.T) {
	g := path(t, 3)
	positions, err := NewWaveLayout(&LayoutConfig{Width: 300, Height: 300}, nil).ComputeLayout(g)
	if err != nil {
		t.Fatalf("Layout failed: %v", err)
	}
	for _, p := range positions {
		if p.Y != positions[0].Y {
			t.Errorf("All nodes should share one row, got %v", positions)
		}
	}
}

func TestLayoutNormalization(t *testing.T) {
	positions := []Position{{X: -100, Y: -100}, {X: 1000, Y: 1000}, {X: 450, Y: 450}}

	normalized := normalizePositions(positions, 800, 600, 50)

	if normalized[0] != (Position{X: 50, Y: 50}) {
		t.Errorf("Min corner should map to padding, got %v", normalized[0])
	}
	if normalized[1] != (Position{X: 750, Y: 550}) {
		t.Errorf("Max corner should map to size minus padding, got %v", normalized[1])
	}
	assertInBounds(t, normalized, 800, 600)
	if len(normalizePositions(nil, 10, 10, 1)) != 0 {
		t.Error("Empty input should stay empty")
	}
}

func TestScene_StatusAt(t *testing.T) {
	g := path(t, 5)
	waves := spread.Waves{{0}, {1}, {2}}
	scene, err := NewScene(g, NewCircularLayout(&LayoutConfig{Width: 100, Height: 100}), []contact.NodeID{4}, waves)
	if err != nil {
		t.Fatalf("NewScene failed: %v", err)
	}

	if scene.Frames() != 3 {
		t.Fatalf("Frames() = %d, want 3", scene.Frames())
	}

	first := scene.StatusAt(0)
	want := []Status{Seeded, Susceptible, Susceptible, Susceptible, Vaccinated}
	for i := range want {
		if first[i] != want[i] {
			t.Errorf("Frame 0 node %d = %v, want %v", i, first[i], want[i])
		}
	}

	if got := scene.InfectedAt(2); got != 3 {
		t.Errorf("InfectedAt(2) = %d, want 3", got)
	}
	if got := scene.InfectedAt(99); got != 3 {
		t.Errorf("Frames past the end should clamp, got %d infected", got)
	}
	if got := scene.InfectedAt(-1); got != 1 {
		t.Errorf("Negative frames should clamp to 0, got %d infected", got)
	}
}

func TestScene_NilGraph(t *testing.T) {
	if _, err := NewScene(nil, NewCircularLayout(&LayoutConfig{}), nil, nil); !contact.IsInvalidParameter(err) {
		t.Errorf("Expected invalid parameter error, got %v", err)
	}
}

func TestScene_ExportJSON(t *testing.T) {
	g := path(t, 3)
	scene, err := NewScene(g, NewCircularLayout(&LayoutConfig{Width: 100, Height: 100}), nil, spread.Waves{{1}, {0, 2}})
	if err != nil {
		t.Fatalf("NewScene failed: %v", err)
	}

	data, err := scene.ExportJSON(1)
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	var result struct {
		Frame  int `json:"frame"`
		Frames int `json:"frames"`
		Nodes  []struct {
			ID     int    `json:"id"`
			Status string `json:"status"`
			Degree int    `json:"degree"`
		} `json:"nodes"`
		Edges []struct {
			From int `json:"from"`
			To   int `json:"to"`
		} `json:"edges"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}

	if result.Frame != 1 || result.Frames != 2 {
		t.Errorf("Frame info = %d/%d", result.Frame, result.Frames)
	}
	if len(result.Nodes) != 3 || len(result.Edges) != 2 {
		t.Fatalf("Expected 3 nodes and 2 edges, got %d and %d", len(result.Nodes), len(result.Edges))
	}
	if result.Nodes[1].Status != "seed" || result.Nodes[0].Status != "infected" || result.Nodes[1].Degree != 2 {
		t.Errorf("Unexpected nodes: %+v", result.Nodes)
	}
}

func TestRasterize(t *testing.T) {
	g := path(t, 3)
	scene, err := NewScene(g, NewWaveLayout(&LayoutConfig{Width: 400, Height: 400}, spread.Waves{{0}}), []contact.NodeID{2}, spread.Waves{{0}})
	if err != nil {
		t.Fatalf("NewScene failed: %v", err)
	}

	canvas := Rasterize(scene, 0, 12, 5, true)
	out := canvas.String()

	if lines := strings.Split(out, "\n"); len(lines) != 5 {
		t.Fatalf("Expected 5 rows, got %d", len(lines))
	}
	for _, glyph := range []rune{GlyphSeed, GlyphVaccinated, GlyphSusceptible, GlyphEdge} {
		if !strings.ContainsRune(out, glyph) {
			t.Errorf("Canvas missing glyph %q:\n%s", glyph, out)
		}
	}

	nodes := 0
	for _, c := range canvas.Cells {
		if c.Node {
			nodes++
		}
	}
	if nodes != 3 {
		t.Errorf("Expected 3 node cells, got %d", nodes)
	}
}

func TestStatus_String(t *testing.T) {
	names := map[Status]string{
		Susceptible: "susceptible",
		Vaccinated:  "vaccinated",
		Infected:    "infected",
		Seeded:      "seed",
	}
	for s, want := range names {
		if s.String() != want {
			t.Errorf("%d.String() = %q, want %q", s, s.String(), want)
		}
	}
}
