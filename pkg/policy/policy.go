// Package policy implements the vaccination-selection strategies.
//
// Policies form a closed set dispatched through a single function table; none
// of them carries state between calls. Every policy marks at most
// min(count, population) nodes vaccinated and returns the chosen ids in the
// order they were selected.
package policy

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/dd0wney/cluso-vaxsim/pkg/contact"
)

// ErrUnknownPolicy is returned by Parse for unrecognised names.
var ErrUnknownPolicy = errors.New("unknown vaccination policy")

// Kind identifies a vaccination policy.
type Kind int

const (
	// Random vaccinates a uniform sample of the whole population.
	Random Kind = iota
	// HighDegree vaccinates the best-connected nodes first.
	HighDegree
	// HighRiskArea vaccinates contacts of infected nodes (ring vaccination).
	HighRiskArea
)

// applyFunc selects and vaccinates nodes. count is already clamped.
type applyFunc func(st *contact.State, count int, rng *rand.Rand) []contact.NodeID

var table = [...]struct {
	name  string
	apply applyFunc
}{
	Random:       {"Random", applyRandom},
	HighDegree:   {"HighDegree", applyHighDegree},
	HighRiskArea: {"HighRiskArea", applyHighRiskArea},
}

// All returns every policy in canonical order.
func All() []Kind {
	return []Kind{Random, HighDegree, HighRiskArea}
}

// Valid reports whether k names a known policy.
func (k Kind) Valid() bool {
	return k >= 0 && int(k) < len(table)
}

// String returns the canonical policy name used in reports.
func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return table[k].name
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPolicy, int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Parse resolves a policy name. Matching ignores case, dashes and underscores,
// so "HighDegree", "high-degree" and "high_degree" are equivalent.
func Parse(name string) (Kind, error) {
	normalized := strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(name))
	for i, entry := range table {
		if strings.ToLower(entry.name) == normalized {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
}

// Apply vaccinates up to min(count, population) nodes of st according to the
// policy and returns them in selection order.
func (k Kind) Apply(st *contact.State, count int, rng *rand.Rand) []contact.NodeID {
	if !k.Valid() {
		return nil
	}
	count = contact.ClampCount(count, st.Len())
	if count == 0 {
		return []contact.NodeID{}
	}
	selected := table[k].apply(st, count, rng)
	for _, id := range selected {
		st.Vaccinate(id)
	}
	return selected
}

func applyRandom(st *contact.State, count int, rng *rand.Rand) []contact.NodeID {
	return contact.SampleIDs(rng, st.Len(), count)
}

func applyHighDegree(st *contact.State, count int, _ *rand.Rand) []contact.NodeID {
	g := st.Graph()
	ids := make([]contact.NodeID, g.Len())
	for i := range ids {
		ids[i] = contact.NodeID(i)
	}

	// Stable sort keeps ascending ids among equal degrees
	slices.SortStableFunc(ids, func(a, b contact.NodeID) int {
		return g.Degree(b) - g.Degree(a)
	})
	return ids[:count:count]
}

func applyHighRiskArea(st *contact.State, count int, rng *rand.Rand) []contact.NodeID {
	g := st.Graph()

	seen := make(map[contact.NodeID]bool)
	candidates := make([]contact.NodeID, 0)
	for _, infected := range st.Infected() {
		for _, nb := range g.Neighbors(infected) {
			if !seen[nb] {
				seen[nb] = true
				candidates = append(candidates, nb)
			}
		}
	}

	contact.Shuffle(rng, candidates)
	if len(candidates) >= count {
		return candidates[:count:count]
	}

	// Not enough contacts: fill the remaining quota from everyone else
	rest := make([]contact.NodeID, 0, g.Len()-len(candidates))
	for i := 0; i < g.Len(); i++ {
		if !seen[contact.NodeID(i)] {
			rest = append(rest, contact.NodeID(i))
		}
	}
	fill := contact.SampleFrom(rng, rest, count-len(candidates))
	return append(candidates, fill...)
}
