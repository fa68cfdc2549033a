// Package spread simulates single-wave SI contagion over a contact network.
//
// Infection propagates breadth-first from the currently infected nodes. Every
// edge from an infectious node to a susceptible (neither infected nor
// vaccinated) neighbor gets exactly one Bernoulli trial. Nodes never recover,
// so the number of nodes ever infected always equals the final infected count.
package spread

import (
	"math/rand/v2"

	"github.com/dd0wney/cluso-vaxsim/pkg/contact"
)

// DefaultInfectionProb is the per-contact transmission probability.
const DefaultInfectionProb = 0.40

// Outcome tallies one simulated outbreak.
type Outcome struct {
	EverInfected  int `json:"ever_infected"`
	FinalInfected int `json:"final_infected"`
	Vaccinated    int `json:"vaccinated"`
}

// Waves records an outbreak as ordered batches of newly infected nodes.
// Waves[0] holds the seeds; Waves[k] the nodes infected by Waves[k-1].
type Waves [][]contact.NodeID

// Total returns the number of nodes across all waves.
func (w Waves) Total() int {
	total := 0
	for _, wave := range w {
		total += len(wave)
	}
	return total
}

// Simulator runs contagion with a fixed transmission probability.
type Simulator struct {
	infectionProb float64
}

// New creates a simulator. p must lie in [0, 1].
func New(p float64) (*Simulator, error) {
	if p < 0 || p > 1 {
		return nil, contact.InvalidParameterError("spread.New", "infection probability must be in [0,1], got %g", p)
	}
	return &Simulator{infectionProb: p}, nil
}

// Default returns a simulator using DefaultInfectionProb.
func Default() *Simulator {
	return &Simulator{infectionProb: DefaultInfectionProb}
}

// InfectionProb returns the per-contact transmission probability.
func (s *Simulator) InfectionProb() float64 {
	return s.infectionProb
}

// Run spreads the infection in st until no infectious node has untried
// susceptible contacts, then tallies the result.
func (s *Simulator) Run(st *contact.State, rng *rand.Rand) Outcome {
	return s.propagate(st, rng, nil)
}

// RunWaves behaves exactly like Run, consuming randomness in the same order,
// and additionally records each wave of new infections.
func (s *Simulator) RunWaves(st *contact.State, rng *rand.Rand) (Outcome, Waves) {
	waves := make(Waves, 0)
	outcome := s.propagate(st, rng, &waves)
	return outcome, waves
}

// propagate processes the frontier one wave at a time. Draining a wave in FIFO
// order before starting the next is the same visit order as a single FIFO
// queue, so recording waves does not change the outcome.
func (s *Simulator) propagate(st *contact.State, rng *rand.Rand, record *Waves) Outcome {
	g := st.Graph()

	frontier := st.Infected()
	everInfected := len(frontier)

	for len(frontier) > 0 {
		if record != nil {
			*record = append(*record, frontier)
		}

		next := make([]contact.NodeID, 0)
		for _, current := range frontier {
			for _, nb := range g.Neighbors(current) {
				if !st.Susceptible(nb) {
					continue
				}
				if rng.Float64() < s.infectionProb {
					st.Infect(nb)
					everInfected++
					next = append(next, nb)
				}
			}
		}
		frontier = next
	}

	return Outcome{
		EverInfected:  everInfected,
		FinalInfected: st.InfectedCount(),
		Vaccinated:    st.VaccinatedCount(),
	}
}
