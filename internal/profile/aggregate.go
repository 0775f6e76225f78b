package profile

import (
	"github.com/driftline/driftline/internal/vector"
)

// AggregationStrategy names a formula for reducing the viewer's signal
// embeddings to one aggregate interest vector. Two formulations exist in
// the product and are exposed explicitly rather than silently reconciled.
type AggregationStrategy string

const (
	// AggregateActivity weights each liked-content embedding at 0.4, each
	// own-content embedding at 0.2, and the static preference embedding at
	// 0.1. Social-graph content does not contribute.
	AggregateActivity AggregationStrategy = "activity"

	// AggregateBlended adds a social-graph source: liked content 0.4,
	// own content 0.2, network content 0.3, explicit preference 0.1.
	AggregateBlended AggregationStrategy = "blended"
)

// Per-occurrence source weights.
const (
	likedWeight      = 0.4
	ownWeight        = 0.2
	networkWeight    = 0.3
	preferenceWeight = 0.1
)

// Valid reports whether the strategy is one of the named strategies.
func (s AggregationStrategy) Valid() bool {
	return s == AggregateActivity || s == AggregateBlended
}

// aggregate computes the weighted mean over the profile's embeddings per
// the strategy. Mismatched-dimensionality vectors are skipped inside
// vector.WeightedAverage; a nil result means no aggregate is available.
func (s AggregationStrategy) aggregate(liked, own, network [][]float64, preference []float64) []float64 {
	n := len(liked) + len(own) + 1
	if s == AggregateBlended {
		n += len(network)
	}

	vecs := make([][]float64, 0, n)
	weights := make([]float64, 0, n)

	for _, v := range liked {
		vecs = append(vecs, v)
		weights = append(weights, likedWeight)
	}
	for _, v := range own {
		vecs = append(vecs, v)
		weights = append(weights, ownWeight)
	}
	if s == AggregateBlended {
		for _, v := range network {
			vecs = append(vecs, v)
			weights = append(weights, networkWeight)
		}
	}
	if len(preference) > 0 {
		vecs = append(vecs, preference)
		weights = append(weights, preferenceWeight)
	}

	return vector.WeightedAverage(vecs, weights)
}
