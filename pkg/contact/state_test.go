package contact

import (
	"math/rand/v2"
	"slices"
	"testing"
)

func chainGraph(t *testing.T, n int) *Graph {
	t.Helper()
	g := setupTestGraph(t, n)
	for i := 0; i+1 < n; i++ {
		mustAddEdge(t, g, NodeID(i), NodeID(i+1))
	}
	return g
}

func TestState_ResetClearsFlags(t *testing.T) {
	g := chainGraph(t, 30)
	st := NewState(g)
	rng := rand.New(rand.NewPCG(7, 7))

	st.InfectSeed(rng, 5)
	for _, id := range SampleIDs(rng, st.Len(), 5) {
		st.Vaccinate(id)
	}

	before := make([][]NodeID, g.Len())
	for i := range before {
		before[i] = slices.Clone(g.Neighbors(NodeID(i)))
	}

	st.Reset()
	st.Reset() // idempotent

	for view := range st.Nodes() {
		if view.Infected {
			t.Errorf("After reset, node %d should not be infected", view.ID)
		}
		if view.Vaccinated {
			t.Errorf("After reset, node %d should not be vaccinated", view.ID)
		}
		if !slices.Equal(before[view.ID], view.Neighbors) {
			t.Errorf("Reset changed adjacency of node %d", view.ID)
		}
	}
}

func TestState_InfectSeed(t *testing.T) {
	g := setupTestGraph(t, 10)
	rng := rand.New(rand.NewPCG(3, 4))

	tests := []struct {
		name  string
		count int
		want  int
	}{
		{"negative", -3, 0},
		{"zero", 0, 0},
		{"some", 4, 4},
		{"all", 10, 10},
		{"more than population", 500, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := NewState(g)
			seeds := st.InfectSeed(rng, tt.count)
			if len(seeds) != tt.want {
				t.Errorf("InfectSeed(%d) returned %d seeds, want %d", tt.count, len(seeds), tt.want)
			}
			if st.InfectedCount() != tt.want {
				t.Errorf("InfectedCount = %d, want %d", st.InfectedCount(), tt.want)
			}
		})
	}
}

func TestState_VaccinateInfectedNode(t *testing.T) {
	g := setupTestGraph(t, 2)
	st := NewState(g)

	if !st.Infect(0) {
		t.Fatal("Infect(0) should report a new infection")
	}
	if !st.Vaccinate(0) {
		t.Fatal("Vaccinate(0) should mark an infected node")
	}
	if !st.IsInfected(0) {
		t.Error("Vaccination must not cure an infected node")
	}
	if st.Vaccinate(0) {
		t.Error("Repeated vaccination should report no change")
	}
	if st.Susceptible(0) || !st.Susceptible(1) {
		t.Error("Susceptible flags wrong")
	}
	if st.Vaccinate(9) || st.Infect(-1) {
		t.Error("Unknown ids must be ignored")
	}
}

func TestState_CloneIsIndependent(t *testing.T) {
	g := chainGraph(t, 4)
	st := NewState(g)
	st.Infect(1)

	clone := st.Clone()
	clone.Infect(2)
	clone.Vaccinate(3)

	if st.IsInfected(2) || st.IsVaccinated(3) {
		t.Error("Clone mutated the original state")
	}
	if !clone.IsInfected(1) {
		t.Error("Clone lost original infection")
	}
	if clone.Graph() != g {
		t.Error("Clone should share topology")
	}
	if !slices.Equal(clone.Infected(), []NodeID{1, 2}) {
		t.Errorf("Clone infected = %v, want [1 2]", clone.Infected())
	}
	if !slices.Equal(clone.Vaccinated(), []NodeID{3}) {
		t.Errorf("Clone vaccinated = %v, want [3]", clone.Vaccinated())
	}
}

func TestState_NodesStopsEarly(t *testing.T) {
	g := setupTestGraph(t, 10)
	st := NewState(g)

	visited := 0
	for view := range st.Nodes() {
		visited++
		if view.ID == 2 {
			break
		}
	}
	if visited != 3 {
		t.Errorf("Expected iteration to stop after 3 nodes, visited %d", visited)
	}
}
