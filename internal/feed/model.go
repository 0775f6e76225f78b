// Package feed assembles personalized feeds: candidate scoring against the
// viewer's interest profile, weighted sampling for variety, and the request
// orchestration around both.
package feed

import (
	"github.com/driftline/driftline/internal/content"
)

// ScoredItem is one feed candidate with its full score breakdown. The
// component fields are retained for ranked-feed debugging endpoints and
// calibration analysis.
type ScoredItem struct {
	Item content.CandidateItem `json:"item"`

	// Component scores feeding the composite.
	Recency    float64 `json:"recency"`
	Similarity float64 `json:"similarity"`
	Social     float64 `json:"social"`
	Trending   float64 `json:"trending"`
	Reputation float64 `json:"reputation"`

	// Multipliers applied on top of the weighted composite.
	Visibility float64 `json:"visibility"`
	GeoBoost   float64 `json:"geo_boost"`

	// Engagement is the raw engagement score behind the trending component.
	Engagement float64 `json:"engagement"`

	// FinalScore is composite * visibility * geo boost.
	FinalScore float64 `json:"final_score"`
}
