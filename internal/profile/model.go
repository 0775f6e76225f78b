// Package profile builds per-viewer interest profiles by fusing
// social-graph, behavioral, explicit, and geographic signals into a single
// snapshot consumed by feed ranking.
package profile

// Relationship weights by tier. The unknown-author baseline is deliberately
// non-zero so unconnected authors remain reachable in ranking.
const (
	WeightSubscribed = 2.0
	WeightFriend     = 1.5
	WeightFollowed   = 1.0
	WeightBaseline   = 0.1
)

// Signal fetch limits.
const (
	recentLikesLimit   = 50
	recentOwnLimit     = 20
	networkItemsLimit  = 30
)

// InterestProfile is a per-viewer snapshot built fresh for each ranking
// request. It is owned exclusively by that request and never mutated after
// construction.
type InterestProfile struct {
	ViewerID string

	// Relationship sets, disjoint by precedence: an author appears in at
	// most one of these, strongest tier first.
	Subscribed map[string]struct{}
	Friends    map[string]struct{}
	Followed   map[string]struct{}

	// Negative signals. Items from these authors are excluded from
	// candidate scoring entirely.
	Muted   map[string]struct{}
	Blocked map[string]struct{}

	// Behavioral and explicit signals.
	LikedEmbeddings     [][]float64
	OwnEmbeddings       [][]float64
	PreferenceEmbedding []float64
	Interests           []string
	GeoCell             string

	// Aggregate is the weighted mean of the viewer's signal embeddings.
	// Nil when no embedding contributed any weight; a nil aggregate makes
	// similarity scoring neutral-default rather than produce a spurious
	// zero similarity.
	Aggregate []float64
}

// RelationshipWeight returns the viewer's relationship weight for an
// author: 2.0 subscribed, 1.5 friend, 1.0 followed, 0.1 unknown baseline.
func (p *InterestProfile) RelationshipWeight(authorID string) float64 {
	if _, ok := p.Subscribed[authorID]; ok {
		return WeightSubscribed
	}
	if _, ok := p.Friends[authorID]; ok {
		return WeightFriend
	}
	if _, ok := p.Followed[authorID]; ok {
		return WeightFollowed
	}
	return WeightBaseline
}

// Excluded reports whether the author is muted or blocked by the viewer.
func (p *InterestProfile) Excluded(authorID string) bool {
	if _, ok := p.Muted[authorID]; ok {
		return true
	}
	_, ok := p.Blocked[authorID]
	return ok
}

// toSet converts an ID list into a lookup set.
func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
