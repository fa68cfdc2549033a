// Package generator builds synthetic contact networks.
//
// Three models are supported:
//
//   - random: every unordered pair is connected independently with probability p
//   - scale-free: preferential attachment seeded by a small clique, producing a
//     few highly connected hubs
//   - pairs: a fixed number of uniformly drawn node pairs, the quick sketch
//     network used by early field experiments
//
// Every generator returns a sealed graph with exactly n nodes.
package generator

import (
	"fmt"
	"math/rand/v2"

	"github.com/dd0wney/cluso-vaxsim/pkg/contact"
	"github.com/dd0wney/cluso-vaxsim/pkg/validation"
)

// Model names a network generator.
type Model string

const (
	ModelRandom    Model = "random"
	ModelScaleFree Model = "scale-free"
	ModelPairs     Model = "pairs"
)

// Models lists every supported generator.
func Models() []Model {
	return []Model{ModelRandom, ModelScaleFree, ModelPairs}
}

func modelNames() []string {
	names := make([]string, 0, len(Models()))
	for _, m := range Models() {
		names = append(names, string(m))
	}
	return names
}

// checkParams turns collected validation failures into an
// ErrInvalidParameter graph error for op.
func checkParams(op string, cv *validation.ConfigValidator) error {
	if err := cv.Validate(); err != nil {
		return &contact.GraphError{
			Op:    op,
			Node:  -1,
			Cause: fmt.Errorf("%w: %w", contact.ErrInvalidParameter, err),
		}
	}
	return nil
}

// Params configures Build. Only the fields relevant to the model are read.
type Params struct {
	Nodes           int
	EdgeProbability float64 // random
	EdgesPerNode    int     // scale-free
	PairDraws       int     // pairs; 0 means 2*Nodes
}

// Build dispatches to the generator for model.
func Build(model Model, params Params, rng *rand.Rand) (*contact.Graph, error) {
	if err := checkParams("Build", validation.NewConfigValidator("graph").
		OneOf("model", string(model), modelNames())); err != nil {
		return nil, err
	}

	switch model {
	case ModelRandom:
		return RandomGraph(params.Nodes, params.EdgeProbability, rng)
	case ModelScaleFree:
		return ScaleFreeGraph(params.Nodes, params.EdgesPerNode, rng)
	case ModelPairs:
		draws := params.PairDraws
		if draws == 0 {
			draws = 2 * params.Nodes
		}
		return PairSampleGraph(params.Nodes, draws, rng)
	default:
		return nil, contact.InvalidParameterError("Build", "unknown model %q", model)
	}
}

// RandomGraph connects every unordered pair of distinct nodes independently
// with probability p.
func RandomGraph(n int, p float64, rng *rand.Rand) (*contact.Graph, error) {
	if err := checkParams("RandomGraph", validation.NewConfigValidator("random").
		Positive("nodes", n).
		Probability("edge_probability", p)); err != nil {
		return nil, err
	}
	g, err := contact.New(n)
	if err != nil {
		return nil, err
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if rng.Float64() < p {
				if err := g.AddEdge(contact.NodeID(i), contact.NodeID(j)); err != nil {
					return nil, fmt.Errorf("random graph edge %d-%d: %w", i, j, err)
				}
			}
		}
	}

	g.Seal()
	return g, nil
}

// ScaleFreeGraph grows a preferential-attachment network. Nodes
// 0..edgesPerNode form a clique; every later node links to up to edgesPerNode
// distinct earlier nodes, each chosen with weight max(1, degree). An
// edgesPerNode of n-1 or more yields a clique on all n nodes.
func ScaleFreeGraph(n, edgesPerNode int, rng *rand.Rand) (*contact.Graph, error) {
	if err := checkParams("ScaleFreeGraph", validation.NewConfigValidator("scale_free").
		Positive("nodes", n).
		NonNegative("edges_per_node", edgesPerNode)); err != nil {
		return nil, err
	}
	g, err := contact.New(n)
	if err != nil {
		return nil, err
	}

	k := min(edgesPerNode, n-1)
	core := k + 1
	for i := 0; i < core; i++ {
		for j := i + 1; j < core; j++ {
			if err := g.AddEdge(contact.NodeID(i), contact.NodeID(j)); err != nil {
				return nil, fmt.Errorf("scale-free core edge %d-%d: %w", i, j, err)
			}
		}
	}

	var pool []contact.NodeID
	chosen := make(map[contact.NodeID]bool, k)

	for i := core; i < n; i++ {
		pool = pool[:0]
		for j := 0; j < i; j++ {
			weight := max(1, g.Degree(contact.NodeID(j)))
			for w := 0; w < weight; w++ {
				pool = append(pool, contact.NodeID(j))
			}
		}
		contact.Shuffle(rng, pool)

		clear(chosen)
		for _, target := range pool {
			if len(chosen) >= k {
				break
			}
			if chosen[target] {
				continue
			}
			chosen[target] = true
			if err := g.AddEdge(contact.NodeID(i), target); err != nil {
				return nil, fmt.Errorf("scale-free edge %d-%d: %w", i, target, err)
			}
		}
	}

	g.Seal()
	return g, nil
}

// PairSampleGraph draws `draws` node pairs uniformly with replacement and
// connects each distinct pair. Self-pairs and repeats are dropped, so the edge
// count is at most draws.
func PairSampleGraph(n, draws int, rng *rand.Rand) (*contact.Graph, error) {
	if err := checkParams("PairSampleGraph", validation.NewConfigValidator("pairs").
		Positive("nodes", n).
		NonNegative("draws", draws)); err != nil {
		return nil, err
	}
	g, err := contact.New(n)
	if err != nil {
		return nil, err
	}

	for d := 0; d < draws; d++ {
		a := contact.NodeID(rng.IntN(n))
		b := contact.NodeID(rng.IntN(n))
		if err := g.AddEdge(a, b); err != nil {
			return nil, fmt.Errorf("pair sample edge %d-%d: %w", a, b, err)
		}
	}

	g.Seal()
	return g, nil
}
