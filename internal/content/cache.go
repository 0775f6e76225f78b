package content

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/redis/go-redis/v9"
)

// defaultPoolTTL bounds candidate pool staleness. Pools are rebuilt often
// enough that a short TTL keeps engagement snapshots fresh.
const defaultPoolTTL = 60 * time.Second

// CachedRepository wraps a Repository with a Redis-backed candidate pool
// cache. Pool snapshots are CBOR-encoded; cache failures degrade to the
// underlying repository and are logged, never returned to the caller.
type CachedRepository struct {
	inner  Repository
	client *redis.Client
	logger *slog.Logger
	ttl    time.Duration
}

var _ Repository = (*CachedRepository)(nil)

// NewCachedRepository wraps inner with a Redis pool cache. A zero ttl uses
// the default.
func NewCachedRepository(inner Repository, client *redis.Client, logger *slog.Logger, ttl time.Duration) *CachedRepository {
	if ttl <= 0 {
		ttl = defaultPoolTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedRepository{inner: inner, client: client, logger: logger, ttl: ttl}
}

// poolKey buckets since to the minute so concurrent requests share entries.
func poolKey(excludeAuthorID string, since time.Time, limit int) string {
	return fmt.Sprintf("driftline:pool:%s:%d:%d", excludeAuthorID, since.Truncate(time.Minute).Unix(), limit)
}

// CandidatePool serves the pool from cache when present, falling through to
// the inner repository on miss or cache error.
func (r *CachedRepository) CandidatePool(ctx context.Context, excludeAuthorID string, since time.Time, limit int) ([]CandidateItem, error) {
	key := poolKey(excludeAuthorID, since, limit)

	data, err := r.client.Get(ctx, key).Bytes()
	if err == nil {
		var pool []CandidateItem
		if err := cbor.Unmarshal(data, &pool); err == nil {
			return pool, nil
		}
		// Corrupt entry, drop it and rebuild.
		r.logger.Warn("discarding corrupt pool cache entry", "key", key, "error", err)
		if delErr := r.client.Del(ctx, key).Err(); delErr != nil {
			r.logger.Warn("failed to delete corrupt pool cache entry", "key", key, "error", delErr)
		}
	} else if err != redis.Nil {
		r.logger.Warn("pool cache read failed", "key", key, "error", err)
	}

	pool, err := r.inner.CandidatePool(ctx, excludeAuthorID, since, limit)
	if err != nil {
		return nil, err
	}

	if data, err := cbor.Marshal(pool); err != nil {
		r.logger.Warn("pool cache encode failed", "key", key, "error", err)
	} else if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		r.logger.Warn("pool cache write failed", "key", key, "error", err)
	}

	return pool, nil
}

// HydrateItems always hits the inner repository. Hydration runs after
// sampling on a handful of IDs and must reflect current state.
func (r *CachedRepository) HydrateItems(ctx context.Context, ids []string) ([]CandidateItem, error) {
	return r.inner.HydrateItems(ctx, ids)
}
