package profile

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Builder assembles InterestProfiles from its signal sources. All sources
// are fetched in parallel; any fetch failure fails the build loudly, since
// a partial profile is functionally different from an empty one (which is
// valid for new users).
type Builder struct {
	graph     GraphSource
	activity  ActivitySource
	prefs     PreferenceSource
	negatives NegativeSignalSource
	strategy  AggregationStrategy
}

// Option configures a Builder.
type Option func(*Builder)

// WithNegativeSignals substitutes a real mute/block source for the no-op
// default.
func WithNegativeSignals(src NegativeSignalSource) Option {
	return func(b *Builder) {
		if src != nil {
			b.negatives = src
		}
	}
}

// WithAggregation selects the aggregation strategy. Invalid strategies are
// ignored, keeping the activity default.
func WithAggregation(s AggregationStrategy) Option {
	return func(b *Builder) {
		if s.Valid() {
			b.strategy = s
		}
	}
}

// NewBuilder creates a Builder over the given signal sources.
func NewBuilder(graph GraphSource, activity ActivitySource, prefs PreferenceSource, opts ...Option) *Builder {
	b := &Builder{
		graph:     graph,
		activity:  activity,
		prefs:     prefs,
		negatives: NoopNegativeSignals{},
		strategy:  AggregateActivity,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build fetches all signals for the viewer and reduces them to an
// InterestProfile. The relationship sets are made disjoint by precedence:
// subscriptions first, then friendships, then follows.
func (b *Builder) Build(ctx context.Context, viewerID string) (*InterestProfile, error) {
	var (
		subs, friends, follows []string
		muted, blocked         []string
		liked, own, network    [][]float64
		prefs                  *Preferences
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		if subs, err = b.graph.Subscriptions(gctx, viewerID); err != nil {
			return fmt.Errorf("fetch subscriptions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if friends, err = b.graph.Friendships(gctx, viewerID); err != nil {
			return fmt.Errorf("fetch friendships: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if follows, err = b.graph.Follows(gctx, viewerID); err != nil {
			return fmt.Errorf("fetch follows: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if liked, err = b.activity.RecentLikes(gctx, viewerID, recentLikesLimit); err != nil {
			return fmt.Errorf("fetch recent likes: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if own, err = b.activity.RecentOwnItems(gctx, viewerID, recentOwnLimit); err != nil {
			return fmt.Errorf("fetch recent own items: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if prefs, err = b.prefs.Preferences(gctx, viewerID); err != nil {
			return fmt.Errorf("fetch preferences: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if muted, err = b.negatives.Muted(gctx, viewerID); err != nil {
			return fmt.Errorf("fetch mutes: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if blocked, err = b.negatives.Blocked(gctx, viewerID); err != nil {
			return fmt.Errorf("fetch blocks: %w", err)
		}
		return nil
	})
	if b.strategy == AggregateBlended {
		g.Go(func() error {
			var err error
			if network, err = b.activity.NetworkItems(gctx, viewerID, networkItemsLimit); err != nil {
				return fmt.Errorf("fetch network items: %w", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build profile for %s: %w", viewerID, err)
	}

	p := &InterestProfile{
		ViewerID:        viewerID,
		Subscribed:      toSet(subs),
		Muted:           toSet(muted),
		Blocked:         toSet(blocked),
		LikedEmbeddings: liked,
		OwnEmbeddings:   own,
	}

	// Precedence: a friend who is also subscribed stays in the subscribed
	// tier; a follow already covered by either stronger tier is dropped.
	p.Friends = make(map[string]struct{}, len(friends))
	for _, id := range friends {
		if _, ok := p.Subscribed[id]; ok {
			continue
		}
		p.Friends[id] = struct{}{}
	}
	p.Followed = make(map[string]struct{}, len(follows))
	for _, id := range follows {
		if _, ok := p.Subscribed[id]; ok {
			continue
		}
		if _, ok := p.Friends[id]; ok {
			continue
		}
		p.Followed[id] = struct{}{}
	}

	if prefs != nil {
		p.Interests = prefs.Interests
		p.PreferenceEmbedding = prefs.Embedding
		p.GeoCell = prefs.GeoCell
	}

	p.Aggregate = b.strategy.aggregate(liked, own, network, p.PreferenceEmbedding)

	return p, nil
}
