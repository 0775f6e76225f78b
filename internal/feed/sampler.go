package feed

import (
	"math/rand"
)

// minSampleWeight floors sampling weights so zero-scored items keep a small
// chance of surfacing. Deterministic top-N would starve new content.
const minSampleWeight = 0.1

// Sample draws up to limit items from the scored pool by weighted sampling
// without replacement. Higher-scored items are proportionally more likely
// to appear, and to appear earlier, but ordering is not strictly by score.
// The caller owns the rand source; pass a seeded one for reproducibility.
func Sample(items []ScoredItem, limit int, rng *rand.Rand) []ScoredItem {
	if limit <= 0 || len(items) == 0 {
		return nil
	}
	if limit > len(items) {
		limit = len(items)
	}

	pool := make([]ScoredItem, len(items))
	copy(pool, items)

	picked := make([]ScoredItem, 0, limit)
	for len(picked) < limit {
		total := 0.0
		for _, item := range pool {
			total += sampleWeight(item)
		}

		target := rng.Float64() * total
		idx := len(pool) - 1 // Float64 rounding can leave target past the last cumulative sum
		cumulative := 0.0
		for i, item := range pool {
			cumulative += sampleWeight(item)
			if target < cumulative {
				idx = i
				break
			}
		}

		picked = append(picked, pool[idx])
		pool = append(pool[:idx], pool[idx+1:]...)
	}
	return picked
}

func sampleWeight(item ScoredItem) float64 {
	if item.FinalScore < minSampleWeight {
		return minSampleWeight
	}
	return item.FinalScore
}
