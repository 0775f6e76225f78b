// Package ranking provides the relevance component calculations and
// calibrated composite scoring used to rank feed candidates.
package ranking

import (
	"math"
	"time"

	"github.com/driftline/driftline/internal/vector"
)

// recencyHalfScale is the decay constant for the recency component. One
// day of age divides the exponent by this constant; it is not a true
// half-life (the score at 24h is 1/e, not 1/2).
const recencyHalfScale = 24.0

// NeutralSimilarity is the similarity score used when either vector is
// absent or dimensionality mismatches. Incomplete embedding data must not
// read as "maximally dissimilar".
const NeutralSimilarity = 0.5

// DefaultTrendingNormalizer assumes engagement scores fit a 0-100
// envelope. Configurations whose weights push scores beyond 100 saturate
// the trending component at 1.0; callers can derive the normalizer from
// the active engagement config's max score instead.
const DefaultTrendingNormalizer = 100.0

// RecencyWeight computes the exponential-decay recency score in (0, 1].
// Formula: exp(-hoursSinceCreation / 24). Items from the future clamp to 1.
func RecencyWeight(createdAt, now time.Time) float64 {
	hours := now.Sub(createdAt).Hours()
	if hours <= 0 {
		return 1.0
	}
	return math.Exp(-hours / recencyHalfScale)
}

// SimilarityWeight maps cosine similarity between the viewer's aggregate
// vector and the item embedding onto [0, 1]. Absent vectors or mismatched
// dimensionality short-circuit to the neutral default rather than error.
func SimilarityWeight(aggregate, embedding []float64) float64 {
	if len(aggregate) == 0 || len(embedding) == 0 || len(aggregate) != len(embedding) {
		return NeutralSimilarity
	}
	return (vector.CosineSimilarity(aggregate, embedding) + 1) / 2
}

// TrendingWeight normalizes an engagement score onto [0, 1]. Scores beyond
// the normalizer saturate at 1.0. A non-positive normalizer falls back to
// DefaultTrendingNormalizer.
func TrendingWeight(engagementScore, normalizer float64) float64 {
	if normalizer <= 0 {
		normalizer = DefaultTrendingNormalizer
	}
	w := engagementScore / normalizer
	if w < 0 {
		return 0
	}
	if w > 1 {
		return 1
	}
	return w
}

// ReputationWeight normalizes a 0-100 author reputation onto [0, 1].
func ReputationWeight(reputation float64) float64 {
	w := reputation / 100.0
	if w < 0 {
		return 0
	}
	if w > 1 {
		return 1
	}
	return w
}

// Visibility multiplier tiers by raw author reputation.
const (
	visibilityTrusted    = 1.1 // reputation >= 95
	visibilityNeutral    = 1.0 // reputation >= 50
	visibilityReduced    = 0.9 // reputation >= 30
	visibilitySuppressed = 0.8
)

// VisibilityMultiplier returns the reputation-tiered factor applied on top
// of the composite score.
func VisibilityMultiplier(reputation float64) float64 {
	switch {
	case reputation >= 95:
		return visibilityTrusted
	case reputation >= 50:
		return visibilityNeutral
	case reputation >= 30:
		return visibilityReduced
	default:
		return visibilitySuppressed
	}
}

// ScoreParams holds the five component scores for one candidate item.
// Recency, Similarity, Trending, and Reputation live in [0, 1]; Social is
// the relationship weight in [0.1, 2.0].
type ScoreParams struct {
	Recency    float64
	Similarity float64
	Social     float64
	Trending   float64
	Reputation float64
}

// CompositeScore combines the five component scores by the calibrated
// weights. The visibility multiplier and geo boost are applied separately
// by the caller.
func CompositeScore(params ScoreParams, weights *FeedWeights) float64 {
	if weights == nil {
		weights = DefaultFeedWeights()
	}

	return (params.Recency * weights.Recency) +
		(params.Similarity * weights.Similarity) +
		(params.Social * weights.Social) +
		(params.Trending * weights.Trending) +
		(params.Reputation * weights.Reputation)
}
