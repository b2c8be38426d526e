package session

import (
	"fmt"
	"math/rand/v2"
)

// PresentationOrder returns a uniformly random permutation of 1..poolSize.
// A nil rng uses the global source.
func PresentationOrder(poolSize int, rng *rand.Rand) []int {
	if poolSize <= 0 {
		return nil
	}
	order := make([]int, poolSize)
	for i := range order {
		order[i] = i + 1
	}
	shuffle := rand.Shuffle
	if rng != nil {
		shuffle = rng.Shuffle
	}
	shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	return order
}

// SeededRand returns a deterministic source for reproducible rehearsal orders.
func SeededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// validateOrder checks that order is a permutation of 1..poolSize.
func validateOrder(order []int, poolSize int) error {
	if len(order) != poolSize {
		return fmt.Errorf("order has %d entries, pool size is %d", len(order), poolSize)
	}
	seen := make([]bool, poolSize+1)
	for _, idx := range order {
		if idx < 1 || idx > poolSize {
			return fmt.Errorf("order entry %d outside 1..%d", idx, poolSize)
		}
		if seen[idx] {
			return fmt.Errorf("order repeats stimulus %d", idx)
		}
		seen[idx] = true
	}
	return nil
}
