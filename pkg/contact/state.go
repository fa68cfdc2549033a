package contact

import (
	"iter"
	"math/rand/v2"
)

// State is the epidemic state of one trial: which nodes are infected and which
// are vaccinated. Topology lives in the shared Graph.
type State struct {
	graph      *Graph
	infected   []bool
	vaccinated []bool
}

// NodeView is a read-only snapshot of one node for collaborators such as the
// dashboard or exporters.
type NodeView struct {
	ID         NodeID
	Infected   bool
	Vaccinated bool
	Neighbors  []NodeID
}

// NewState returns a cleared state bound to g.
func NewState(g *Graph) *State {
	return &State{
		graph:      g,
		infected:   make([]bool, g.Len()),
		vaccinated: make([]bool, g.Len()),
	}
}

// Graph returns the topology this state is laid over.
func (s *State) Graph() *Graph {
	return s.graph
}

// Len returns the population size.
func (s *State) Len() int {
	return len(s.infected)
}

// Reset clears every infected and vaccinated flag. Topology is untouched.
func (s *State) Reset() {
	clear(s.infected)
	clear(s.vaccinated)
}

// Clone returns an independent copy sharing the same topology.
func (s *State) Clone() *State {
	return &State{
		graph:      s.graph,
		infected:   append([]bool(nil), s.infected...),
		vaccinated: append([]bool(nil), s.vaccinated...),
	}
}

// InfectSeed infects min(count, population) distinct nodes chosen uniformly at
// random and returns them in selection order. Negative counts infect nobody.
func (s *State) InfectSeed(rng *rand.Rand, count int) []NodeID {
	seeds := SampleIDs(rng, s.Len(), count)
	for _, id := range seeds {
		s.infected[id] = true
	}
	return seeds
}

// Infect marks id infected and reports whether it was newly infected.
func (s *State) Infect(id NodeID) bool {
	if !s.graph.Contains(id) || s.infected[id] {
		return false
	}
	s.infected[id] = true
	return true
}

// Vaccinate marks id vaccinated and reports whether the flag changed.
// Vaccinating an infected node is allowed and has no effect on its infection.
func (s *State) Vaccinate(id NodeID) bool {
	if !s.graph.Contains(id) || s.vaccinated[id] {
		return false
	}
	s.vaccinated[id] = true
	return true
}

// IsInfected reports whether id is infected.
func (s *State) IsInfected(id NodeID) bool {
	return s.graph.Contains(id) && s.infected[id]
}

// IsVaccinated reports whether id is vaccinated.
func (s *State) IsVaccinated(id NodeID) bool {
	return s.graph.Contains(id) && s.vaccinated[id]
}

// Susceptible reports whether id can still catch the infection.
func (s *State) Susceptible(id NodeID) bool {
	return s.graph.Contains(id) && !s.infected[id] && !s.vaccinated[id]
}

// Infected returns the infected node ids in ascending order.
func (s *State) Infected() []NodeID {
	return collect(s.infected)
}

// Vaccinated returns the vaccinated node ids in ascending order.
func (s *State) Vaccinated() []NodeID {
	return collect(s.vaccinated)
}

// InfectedCount scans the population for infected nodes.
func (s *State) InfectedCount() int {
	return count(s.infected)
}

// VaccinatedCount scans the population for vaccinated nodes.
func (s *State) VaccinatedCount() int {
	return count(s.vaccinated)
}

// Nodes iterates over every node in id order.
func (s *State) Nodes() iter.Seq[NodeView] {
	return func(yield func(NodeView) bool) {
		for i := range s.infected {
			id := NodeID(i)
			view := NodeView{
				ID:         id,
				Infected:   s.infected[i],
				Vaccinated: s.vaccinated[i],
				Neighbors:  s.graph.Neighbors(id),
			}
			if !yield(view) {
				return
			}
		}
	}
}

func collect(flags []bool) []NodeID {
	ids := make([]NodeID, 0)
	for i, set := range flags {
		if set {
			ids = append(ids, NodeID(i))
		}
	}
	return ids
}

func count(flags []bool) int {
	n := 0
	for _, set := range flags {
		if set {
			n++
		}
	}
	return n
}
