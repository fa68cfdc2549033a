package policy

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/dd0wney/cluso-vaxsim/pkg/contact"
	"github.com/dd0wney/cluso-vaxsim/pkg/generator"
)

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 99))
}

// starGraph builds hub 0 connected to leaves 1..leaves.
func starGraph(t *testing.T, leaves int) *contact.Graph {
	t.Helper()
	g, err := contact.New(leaves + 1)
	if err != nil {
		t.Fatalf("Failed to create graph: %v", err)
	}
	for i := 1; i <= leaves; i++ {
		if err := g.AddEdge(0, contact.NodeID(i)); err != nil {
			t.Fatalf("AddEdge failed: %v", err)
		}
	}
	return g
}

func assertDistinct(t *testing.T, ids []contact.NodeID) {
	t.Helper()
	seen := make(map[contact.NodeID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			t.Errorf("Node %d selected twice", id)
		}
		seen[id] = true
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  Kind
	}{
		{"Random", Random},
		{"random", Random},
		{"HighDegree", HighDegree},
		{"high-degree", HighDegree},
		{"high_degree", HighDegree},
		{"HighRiskArea", HighRiskArea},
		{"high-risk-area", HighRiskArea},
	}
	for _, tt := range tests {
		got, err := Parse(tt.input)
		if err != nil {
			t.Errorf("Parse(%q) failed: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}

	if _, err := Parse("Quarantine"); !errors.Is(err, ErrUnknownPolicy) {
		t.Errorf("Expected ErrUnknownPolicy, got %v", err)
	}
}

func TestKind_StringRoundTrip(t *testing.T) {
	for _, k := range All() {
		text, err := k.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v) failed: %v", k, err)
		}
		var back Kind
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%s) failed: %v", text, err)
		}
		if back != k {
			t.Errorf("Round trip %v -> %s -> %v", k, text, back)
		}
	}

	if Kind(7).Valid() {
		t.Error("Kind(7) should be invalid")
	}
	if Kind(7).String() != "Kind(7)" {
		t.Errorf("Unexpected name for invalid kind: %s", Kind(7))
	}
}

func TestRandom_VaccinatesExactCount(t *testing.T) {
	g, err := generator.RandomGraph(50, 0.1, newRNG(1))
	if err != nil {
		t.Fatalf("RandomGraph failed: %v", err)
	}
	st := contact.NewState(g)

	selected := Random.Apply(st, 15, newRNG(2))
	assertDistinct(t, selected)
	if st.VaccinatedCount() != 15 {
		t.Errorf("Should vaccinate exactly 15 dogs, got %d", st.VaccinatedCount())
	}
}

func TestApply_DoesNotExceedPopulation(t *testing.T) {
	g, err := generator.RandomGraph(20, 0.2, newRNG(3))
	if err != nil {
		t.Fatalf("RandomGraph failed: %v", err)
	}

	for _, k := range All() {
		st := contact.NewState(g)
		st.InfectSeed(newRNG(4), 2)
		k.Apply(st, 9999, newRNG(5))
		if st.VaccinatedCount() != 20 {
			t.Errorf("%v: expected whole population (20) vaccinated, got %d", k, st.VaccinatedCount())
		}
	}
}

func TestApply_NonPositiveCount(t *testing.T) {
	g := starGraph(t, 5)
	for _, k := range All() {
		st := contact.NewState(g)
		st.Infect(0)
		if got := k.Apply(st, -2, newRNG(6)); len(got) != 0 {
			t.Errorf("%v: negative count selected %d nodes", k, len(got))
		}
		if got := k.Apply(st, 0, newRNG(6)); len(got) != 0 {
			t.Errorf("%v: zero count selected %d nodes", k, len(got))
		}
		if st.VaccinatedCount() != 0 {
			t.Errorf("%v: vaccinated %d nodes", k, st.VaccinatedCount())
		}
	}
}

func TestHighDegree_VaccinatesMostConnected(t *testing.T) {
	// Dog 0 connected to everyone, dog 1 has degree 2
	g := starGraph(t, 10)
	if err := g.AddEdge(1, 2); err != nil {
		t.Fatalf("AddEdge failed: %v", err)
	}
	st := contact.NewState(g)

	selected := HighDegree.Apply(st, 1, newRNG(7))
	if len(selected) != 1 || selected[0] != 0 {
		t.Fatalf("Expected [0], got %v", selected)
	}
	if !st.IsVaccinated(0) {
		t.Error("Dog with highest degree should be vaccinated first")
	}
}

func TestHighDegree_StableTieBreak(t *testing.T) {
	// Every node in a 6-cycle has degree 2: ties resolve by ascending id
	g, _ := contact.New(6)
	for i := 0; i < 6; i++ {
		g.AddEdge(contact.NodeID(i), contact.NodeID((i+1)%6))
	}

	for trial := uint64(0); trial < 5; trial++ {
		st := contact.NewState(g)
		selected := HighDegree.Apply(st, 3, newRNG(trial))
		want := []contact.NodeID{0, 1, 2}
		for i := range want {
			if selected[i] != want[i] {
				t.Fatalf("Trial %d: expected %v, got %v", trial, want, selected)
			}
		}
	}
}

func TestHighDegree_ExactCount(t *testing.T) {
	g, _ := generator.ScaleFreeGraph(60, 2, newRNG(8))
	st := contact.NewState(g)

	selected := HighDegree.Apply(st, 12, nil)
	assertDistinct(t, selected)
	if st.VaccinatedCount() != 12 {
		t.Errorf("Expected 12 vaccinated, got %d", st.VaccinatedCount())
	}
	for i := 1; i < len(selected); i++ {
		if g.Degree(selected[i]) > g.Degree(selected[i-1]) {
			t.Errorf("Selection not in descending degree order at %d", i)
		}
	}
}

func TestHighRiskArea_TargetsNeighbors(t *testing.T) {
	// Dog 0 infected, dogs 1,2,3 are its neighbors, 4-5 unrelated
	g, _ := contact.New(6)
	g.AddEdge(0, 1)
	g.AddEdge(0, 2)
	g.AddEdge(0, 3)
	g.AddEdge(4, 5)
	st := contact.NewState(g)
	st.Infect(0)

	HighRiskArea.Apply(st, 3, newRNG(9))

	for _, id := range []contact.NodeID{1, 2, 3} {
		if !st.IsVaccinated(id) {
			t.Errorf("Dog%d (neighbor of infected) should be vaccinated", id)
		}
	}
	if st.VaccinatedCount() != 3 {
		t.Errorf("Expected 3 vaccinated, got %d", st.VaccinatedCount())
	}
}

func TestHighRiskArea_StarSelectsLeavesOnly(t *testing.T) {
	g := starGraph(t, 10)

	for seed := uint64(0); seed < 20; seed++ {
		st := contact.NewState(g)
		st.Infect(0)

		selected := HighRiskArea.Apply(st, 3, newRNG(seed))
		if len(selected) != 3 {
			t.Fatalf("Expected 3 selections, got %d", len(selected))
		}
		if st.IsVaccinated(0) {
			t.Errorf("Seed %d: hub must not be vaccinated while leaves remain", seed)
		}
		assertDistinct(t, selected)
	}
}

func TestHighRiskArea_FallbackFillsQuota(t *testing.T) {
	// Infected 0 has two contacts; quota 5 must be topped up from the rest
	g, _ := contact.New(10)
	g.AddEdge(0, 1)
	g.AddEdge(0, 2)
	st := contact.NewState(g)
	st.Infect(0)

	selected := HighRiskArea.Apply(st, 5, newRNG(10))
	assertDistinct(t, selected)
	if len(selected) != 5 || st.VaccinatedCount() != 5 {
		t.Fatalf("Expected 5 vaccinated, got %d (%v)", st.VaccinatedCount(), selected)
	}

	// Contacts come first in selection order
	first := map[contact.NodeID]bool{selected[0]: true, selected[1]: true}
	if !first[1] || !first[2] {
		t.Errorf("Expected contacts 1 and 2 first, got %v", selected[:2])
	}
}

func TestHighRiskArea_NoInfectionDegeneratesToRandom(t *testing.T) {
	g := starGraph(t, 10)
	st := contact.NewState(g)

	selected := HighRiskArea.Apply(st, 4, newRNG(11))
	assertDistinct(t, selected)
	if st.VaccinatedCount() != 4 {
		t.Errorf("Expected 4 vaccinated, got %d", st.VaccinatedCount())
	}
}

func TestApply_InfectedNodesStayInfected(t *testing.T) {
	g := starGraph(t, 4)
	st := contact.NewState(g)
	st.InfectSeed(newRNG(12), 5)

	Random.Apply(st, 5, newRNG(13))
	if st.InfectedCount() != 5 {
		t.Errorf("Vaccination changed infection count to %d", st.InfectedCount())
	}
	if st.VaccinatedCount() != 5 {
		t.Errorf("Quota should still be consumed, got %d vaccinated", st.VaccinatedCount())
	}
}
