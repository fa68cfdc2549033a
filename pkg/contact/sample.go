package contact

import (
	"math/rand/v2"

	"github.com/dd0wney/cluso-vaxsim/pkg/validation"
)

// ClampCount limits a requested count to [0, population].
func ClampCount(count, population int) int {
	return validation.ClampInt(count, 0, population)
}

// SampleIDs draws min(k, n) distinct ids from [0, n) uniformly without
// replacement, in selection order.
func SampleIDs(rng *rand.Rand, n, k int) []NodeID {
	ids := make([]NodeID, n)
	for i := range ids {
		ids[i] = NodeID(i)
	}
	return SampleFrom(rng, ids, k)
}

// SampleFrom draws min(k, len(ids)) distinct elements of ids uniformly without
// replacement using a partial Fisher-Yates shuffle. ids is permuted in place.
func SampleFrom(rng *rand.Rand, ids []NodeID, k int) []NodeID {
	k = ClampCount(k, len(ids))
	for i := 0; i < k; i++ {
		j := i + rng.IntN(len(ids)-i)
		ids[i], ids[j] = ids[j], ids[i]
	}
	return ids[:k:k]
}

// Shuffle permutes ids in place.
func Shuffle(rng *rand.Rand, ids []NodeID) {
	rng.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
}
