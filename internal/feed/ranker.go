package feed

import (
	"sort"
	"time"

	"github.com/driftline/driftline/internal/content"
	"github.com/driftline/driftline/internal/engagement"
	"github.com/driftline/driftline/internal/profile"
	"github.com/driftline/driftline/internal/ranking"
)

// GeoBoostFunc computes the proximity multiplier between the viewer's cell
// and an item's cell. Implementations must return 1.0 when either cell is
// unknown.
type GeoBoostFunc func(viewerCell, itemCell string) float64

// Ranker scores feed candidates against a viewer profile. Muted and blocked
// authors are dropped before any scoring work.
type Ranker struct {
	weights  *ranking.FeedWeights
	configs  *engagement.Store
	geoBoost GeoBoostFunc
	metrics  *engagement.PromMetrics
}

// RankerOption configures optional Ranker behavior.
type RankerOption func(*Ranker)

// WithGeoBoost enables the geographic proximity multiplier. The boost is a
// hook applied on top of the composite score, not a sixth weighted
// component.
func WithGeoBoost(fn GeoBoostFunc) RankerOption {
	return func(r *Ranker) {
		r.geoBoost = fn
	}
}

// WithEngagementMetrics attaches engagement scoring collectors. Every
// engagement score computed during ranking is observed.
func WithEngagementMetrics(m *engagement.PromMetrics) RankerOption {
	return func(r *Ranker) {
		r.metrics = m
	}
}

// NewRanker creates a Ranker. Nil weights use the calibrated defaults; a
// nil config store uses the balanced engagement preset.
func NewRanker(weights *ranking.FeedWeights, configs *engagement.Store, opts ...RankerOption) *Ranker {
	if weights == nil {
		weights = ranking.DefaultFeedWeights()
	}
	if configs == nil {
		configs = engagement.NewStore(engagement.DefaultConfig())
	}
	r := &Ranker{weights: weights, configs: configs}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rank scores candidates for the viewer and returns them ordered by final
// score, highest first. Excluded authors never reach scoring.
func (r *Ranker) Rank(p *profile.InterestProfile, candidates []content.CandidateItem, now time.Time) []ScoredItem {
	cfg := r.configs.Current()

	// Engagement scores are normalized against the configured score
	// ceiling so trending stays in [0, 1] under any preset.
	normalizer := cfg.Adjustments.MaxScore

	scored := make([]ScoredItem, 0, len(candidates))
	for _, item := range candidates {
		if p.Excluded(item.AuthorID) {
			continue
		}

		engScore, _ := engagement.Score(item.Metrics, item.CreatedAt, item.AuthorReputation, cfg)
		r.metrics.ObserveScore(engScore)

		params := ranking.ScoreParams{
			Recency:    ranking.RecencyWeight(item.CreatedAt, now),
			Similarity: ranking.SimilarityWeight(p.Aggregate, item.Embedding),
			Social:     p.RelationshipWeight(item.AuthorID),
			Trending:   ranking.TrendingWeight(engScore, normalizer),
			Reputation: ranking.ReputationWeight(item.AuthorReputation),
		}

		si := ScoredItem{
			Item:       item,
			Recency:    params.Recency,
			Similarity: params.Similarity,
			Social:     params.Social,
			Trending:   params.Trending,
			Reputation: params.Reputation,
			Visibility: ranking.VisibilityMultiplier(item.AuthorReputation),
			GeoBoost:   1.0,
			Engagement: engScore,
		}
		if r.geoBoost != nil {
			si.GeoBoost = r.geoBoost(p.GeoCell, item.GeoCell)
		}
		si.FinalScore = ranking.CompositeScore(params, r.weights) * si.Visibility * si.GeoBoost
		scored = append(scored, si)
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].FinalScore == scored[j].FinalScore {
			return scored[i].Item.ID < scored[j].Item.ID // Stable order for equal scores
		}
		return scored[i].FinalScore > scored[j].FinalScore
	})
	return scored
}
