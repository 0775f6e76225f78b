// Package ranking provides the relevance component calculations and
// calibrated composite scoring used to rank feed candidates.
//
// Basic Usage:
//
//	// Load calibration (typically at startup)
//	weights, err := ranking.LoadCalibration("configs/feed.calibration.json")
//	if err != nil {
//		log.Warn("using default weights", "error", err)
//	}
//
//	// Score one candidate
//	params := ranking.ScoreParams{
//		Recency:    ranking.RecencyWeight(item.CreatedAt, time.Now()),
//		Similarity: ranking.SimilarityWeight(profile.Aggregate, item.Embedding),
//		Social:     profile.RelationshipWeight(item.AuthorID),
//		Trending:   ranking.TrendingWeight(engagementScore, ranking.DefaultTrendingNormalizer),
//		Reputation: ranking.ReputationWeight(item.AuthorReputation),
//	}
//	score := ranking.CompositeScore(params, weights) * ranking.VisibilityMultiplier(item.AuthorReputation)
//
// Component Functions:
//
// Recency, Similarity, Trending, and Reputation return values in [0, 1].
// Social is the relationship weight in [0.1, 2.0]; the 0.1 baseline keeps
// unconnected authors reachable. The visibility multiplier (0.8-1.1) and
// the geographic proximity boost (1.0-1.5, see the geo package) are applied
// on top of the composite by the caller; the geo boost is a separately
// invoked hook, not part of the five-factor composite.
//
// Calibration:
//
// The calibration system allows deploy-time tuning of feed weights via a
// JSON configuration file loaded at startup. This enables A/B testing and
// optimization without code changes (but requires a redeploy or restart to
// pick up new configuration).
package ranking
