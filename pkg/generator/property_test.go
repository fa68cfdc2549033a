package generator

import (
	"slices"
	"testing"

	"github.com/dd0wney/cluso-vaxsim/pkg/contact"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func wellFormed(g *contact.Graph, n int) bool {
	if g.Len() != n {
		return false
	}
	for i := 0; i < n; i++ {
		id := contact.NodeID(i)
		for _, nb := range g.Neighbors(id) {
			if nb == id || !slices.Contains(g.Neighbors(nb), id) {
				return false
			}
		}
	}
	return true
}

// TestGeneratorProperties checks that every generator yields exactly n nodes
// with symmetric adjacency and no self-loops for arbitrary parameters.
func TestGeneratorProperties(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 40

	properties := gopter.NewProperties(parameters)

	properties.Property("random graph is well formed", prop.ForAll(
		func(n int, p float64, seed uint64) bool {
			g, err := RandomGraph(n, p, newRNG(seed))
			return err == nil && wellFormed(g, n)
		},
		gen.IntRange(1, 60),
		gen.Float64Range(0, 1),
		gen.UInt64(),
	))

	properties.Property("scale-free graph is well formed", prop.ForAll(
		func(n, k int, seed uint64) bool {
			g, err := ScaleFreeGraph(n, k, newRNG(seed))
			return err == nil && wellFormed(g, n)
		},
		gen.IntRange(1, 120),
		gen.IntRange(0, 6),
		gen.UInt64(),
	))

	properties.Property("scale-free graph grows hubs", prop.ForAll(
		func(n int, seed uint64) bool {
			g, err := ScaleFreeGraph(n, 3, newRNG(seed))
			return err == nil && float64(g.MaxDegree()) > 2*g.AverageDegree()
		},
		gen.IntRange(50, 200),
		gen.UInt64(),
	))

	properties.TestingRun(t)
}
