package content

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/driftline/driftline/internal/profile"
)

// Repository defines the content-store operations the ranking core
// consumes. Implementations must be safe for concurrent use.
type Repository interface {
	// CandidatePool returns up to limit items created at or after since,
	// excluding the viewer's own content, newest first.
	CandidatePool(ctx context.Context, excludeAuthorID string, since time.Time, limit int) ([]CandidateItem, error)

	// HydrateItems returns full items for the given IDs, preserving input
	// order. Unknown IDs are silently dropped.
	HydrateItems(ctx context.Context, ids []string) ([]CandidateItem, error)
}

// InMemoryRepository is an in-memory Repository and profile signal source,
// used in tests and local development. Thread-safe via RWMutex.
type InMemoryRepository struct {
	mu    sync.RWMutex
	items map[string]CandidateItem
	users map[string]UserSignals
}

// Compile-time checks: the repository feeds both the ranking pipeline and
// the profile builder.
var (
	_ Repository                   = (*InMemoryRepository)(nil)
	_ profile.GraphSource          = (*InMemoryRepository)(nil)
	_ profile.ActivitySource       = (*InMemoryRepository)(nil)
	_ profile.PreferenceSource     = (*InMemoryRepository)(nil)
	_ profile.NegativeSignalSource = (*InMemoryRepository)(nil)
)

// NewInMemoryRepository creates a new in-memory content repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		items: make(map[string]CandidateItem),
		users: make(map[string]UserSignals),
	}
}

// AddItem stores a content item, generating an ID when absent, and returns
// the stored item.
func (r *InMemoryRepository) AddItem(item CandidateItem) CandidateItem {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	r.items[item.ID] = item
	return item
}

// SetUserSignals stores the signal record for a user.
func (r *InMemoryRepository) SetUserSignals(userID string, signals UserSignals) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[userID] = signals
}

// CandidatePool returns matching items newest first.
func (r *InMemoryRepository) CandidatePool(ctx context.Context, excludeAuthorID string, since time.Time, limit int) ([]CandidateItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pool := make([]CandidateItem, 0, len(r.items))
	for _, item := range r.items {
		if item.AuthorID == excludeAuthorID {
			continue
		}
		if item.CreatedAt.Before(since) {
			continue
		}
		pool = append(pool, item)
	}

	sort.Slice(pool, func(i, j int) bool {
		if pool[i].CreatedAt.Equal(pool[j].CreatedAt) {
			return pool[i].ID < pool[j].ID // Tie-breaker for stable ordering
		}
		return pool[i].CreatedAt.After(pool[j].CreatedAt)
	})

	if limit > 0 && len(pool) > limit {
		pool = pool[:limit]
	}
	return pool, nil
}

// HydrateItems returns items for the given IDs in input order.
func (r *InMemoryRepository) HydrateItems(ctx context.Context, ids []string) ([]CandidateItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	hydrated := make([]CandidateItem, 0, len(ids))
	for _, id := range ids {
		if item, ok := r.items[id]; ok {
			hydrated = append(hydrated, item)
		}
	}
	return hydrated, nil
}

// Subscriptions implements profile.GraphSource.
func (r *InMemoryRepository) Subscriptions(ctx context.Context, viewerID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.users[viewerID].Subscriptions, nil
}

// Friendships implements profile.GraphSource.
func (r *InMemoryRepository) Friendships(ctx context.Context, viewerID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.users[viewerID].Friendships, nil
}

// Follows implements profile.GraphSource.
func (r *InMemoryRepository) Follows(ctx context.Context, viewerID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.users[viewerID].Follows, nil
}

// Muted implements profile.NegativeSignalSource.
func (r *InMemoryRepository) Muted(ctx context.Context, viewerID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.users[viewerID].Muted, nil
}

// Blocked implements profile.NegativeSignalSource.
func (r *InMemoryRepository) Blocked(ctx context.Context, viewerID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.users[viewerID].Blocked, nil
}

// RecentLikes implements profile.ActivitySource.
func (r *InMemoryRepository) RecentLikes(ctx context.Context, viewerID string, limit int) ([][]float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return truncateVecs(r.users[viewerID].LikedEmbeddings, limit), nil
}

// RecentOwnItems implements profile.ActivitySource.
func (r *InMemoryRepository) RecentOwnItems(ctx context.Context, viewerID string, limit int) ([][]float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return truncateVecs(r.users[viewerID].OwnEmbeddings, limit), nil
}

// NetworkItems implements profile.ActivitySource: embeddings of recent
// content authored by the viewer's graph.
func (r *InMemoryRepository) NetworkItems(ctx context.Context, viewerID string, limit int) ([][]float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	signals := r.users[viewerID]
	graph := make(map[string]struct{})
	for _, id := range signals.Subscriptions {
		graph[id] = struct{}{}
	}
	for _, id := range signals.Friendships {
		graph[id] = struct{}{}
	}
	for _, id := range signals.Follows {
		graph[id] = struct{}{}
	}

	var vecs [][]float64
	for _, item := range r.items {
		if _, ok := graph[item.AuthorID]; !ok {
			continue
		}
		if len(item.Embedding) == 0 {
			continue
		}
		vecs = append(vecs, item.Embedding)
		if limit > 0 && len(vecs) >= limit {
			break
		}
	}
	return vecs, nil
}

// Preferences implements profile.PreferenceSource.
func (r *InMemoryRepository) Preferences(ctx context.Context, viewerID string) (*profile.Preferences, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	signals := r.users[viewerID]
	return &profile.Preferences{
		Interests: signals.Interests,
		Embedding: signals.PreferenceEmbedding,
		GeoCell:   signals.GeoCell,
	}, nil
}

func truncateVecs(vecs [][]float64, limit int) [][]float64 {
	if limit > 0 && len(vecs) > limit {
		return vecs[:limit]
	}
	return vecs
}
