package profile

import "context"

// GraphSource supplies social-graph edges for a viewer.
type GraphSource interface {
	// Subscriptions returns author IDs the viewer subscribes to.
	Subscriptions(ctx context.Context, viewerID string) ([]string, error)

	// Friendships returns author IDs with an accepted bidirectional friendship.
	Friendships(ctx context.Context, viewerID string) ([]string, error)

	// Follows returns author IDs the viewer follows one-way.
	Follows(ctx context.Context, viewerID string) ([]string, error)
}

// ActivitySource supplies recent behavioral signals as content embeddings.
type ActivitySource interface {
	// RecentLikes returns embeddings of the viewer's most recently liked
	// content, newest first, up to limit.
	RecentLikes(ctx context.Context, viewerID string, limit int) ([][]float64, error)

	// RecentOwnItems returns embeddings of the viewer's own recent content,
	// newest first, up to limit.
	RecentOwnItems(ctx context.Context, viewerID string, limit int) ([][]float64, error)

	// NetworkItems returns embeddings of recent content from the viewer's
	// social graph. Only consulted by the blended aggregation strategy.
	NetworkItems(ctx context.Context, viewerID string, limit int) ([][]float64, error)
}

// Preferences holds the viewer's explicit preference data.
type Preferences struct {
	Interests []string
	Embedding []float64
	GeoCell   string
}

// PreferenceSource supplies explicit viewer preferences.
type PreferenceSource interface {
	Preferences(ctx context.Context, viewerID string) (*Preferences, error)
}

// NegativeSignalSource supplies mute and block lists. It is a capability
// interface: a real mute/block store can be substituted without touching
// the ranking core.
type NegativeSignalSource interface {
	Muted(ctx context.Context, viewerID string) ([]string, error)
	Blocked(ctx context.Context, viewerID string) ([]string, error)
}

// NoopNegativeSignals is the default NegativeSignalSource: no mutes, no
// blocks, never errors.
type NoopNegativeSignals struct{}

// Muted returns no muted authors.
func (NoopNegativeSignals) Muted(ctx context.Context, viewerID string) ([]string, error) {
	return nil, nil
}

// Blocked returns no blocked authors.
func (NoopNegativeSignals) Blocked(ctx context.Context, viewerID string) ([]string, error) {
	return nil, nil
}
