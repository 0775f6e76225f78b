package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/driftline/driftline/internal/profile"
	"github.com/driftline/driftline/internal/tracing"
)

// Edge kinds stored in user_edges.
const (
	edgeSubscription = "subscription"
	edgeFriendship   = "friendship"
	edgeFollow       = "follow"
	edgeMute         = "mute"
	edgeBlock        = "block"
)

var (
	_ profile.GraphSource          = (*PostgresRepository)(nil)
	_ profile.ActivitySource       = (*PostgresRepository)(nil)
	_ profile.PreferenceSource     = (*PostgresRepository)(nil)
	_ profile.NegativeSignalSource = (*PostgresRepository)(nil)
)

func (r *PostgresRepository) edges(ctx context.Context, viewerID, kind string) (ids []string, err error) {
	ctx, endSpan := tracing.StartDBSpan(ctx, "user_edges", tracing.DBOperationQuery)
	defer func() { endSpan(err) }()

	rows, err := r.db.QueryContext(ctx,
		`SELECT author_id FROM user_edges WHERE viewer_id = $1 AND kind = $2`,
		viewerID, kind)
	if err != nil {
		return nil, fmt.Errorf("query %s edges: %w", kind, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan %s edge: %w", kind, err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Subscriptions returns author IDs the viewer subscribes to.
func (r *PostgresRepository) Subscriptions(ctx context.Context, viewerID string) ([]string, error) {
	return r.edges(ctx, viewerID, edgeSubscription)
}

// Friendships returns author IDs with an accepted bidirectional friendship.
func (r *PostgresRepository) Friendships(ctx context.Context, viewerID string) ([]string, error) {
	return r.edges(ctx, viewerID, edgeFriendship)
}

// Follows returns author IDs the viewer follows one-way.
func (r *PostgresRepository) Follows(ctx context.Context, viewerID string) ([]string, error) {
	return r.edges(ctx, viewerID, edgeFollow)
}

// Muted returns author IDs the viewer has muted.
func (r *PostgresRepository) Muted(ctx context.Context, viewerID string) ([]string, error) {
	return r.edges(ctx, viewerID, edgeMute)
}

// Blocked returns author IDs the viewer has blocked.
func (r *PostgresRepository) Blocked(ctx context.Context, viewerID string) ([]string, error) {
	return r.edges(ctx, viewerID, edgeBlock)
}

func scanEmbeddings(rows *sql.Rows) ([][]float64, error) {
	var vecs [][]float64
	for rows.Next() {
		var embedding pq.Float64Array
		if err := rows.Scan(&embedding); err != nil {
			return nil, fmt.Errorf("scan embedding: %w", err)
		}
		if len(embedding) > 0 {
			vecs = append(vecs, []float64(embedding))
		}
	}
	return vecs, rows.Err()
}

// RecentLikes returns embeddings of the viewer's most recently liked content.
func (r *PostgresRepository) RecentLikes(ctx context.Context, viewerID string, limit int) (vecs [][]float64, err error) {
	ctx, endSpan := tracing.StartDBSpan(ctx, "user_likes", tracing.DBOperationQuery)
	defer func() { endSpan(err) }()

	rows, err := r.db.QueryContext(ctx, `
		SELECT c.embedding
		FROM user_likes l
		JOIN content_items c ON c.id = l.item_id
		WHERE l.viewer_id = $1
		ORDER BY l.created_at DESC
		LIMIT $2`,
		viewerID, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent likes: %w", err)
	}
	defer rows.Close()
	return scanEmbeddings(rows)
}

// RecentOwnItems returns embeddings of the viewer's own recent content.
func (r *PostgresRepository) RecentOwnItems(ctx context.Context, viewerID string, limit int) (vecs [][]float64, err error) {
	ctx, endSpan := tracing.StartDBSpan(ctx, "content_items", tracing.DBOperationQuery)
	defer func() { endSpan(err) }()

	rows, err := r.db.QueryContext(ctx, `
		SELECT embedding
		FROM content_items
		WHERE author_id = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		viewerID, limit)
	if err != nil {
		return nil, fmt.Errorf("query own items: %w", err)
	}
	defer rows.Close()
	return scanEmbeddings(rows)
}

// NetworkItems returns embeddings of recent content authored by the viewer's
// social graph (subscriptions, friendships, follows).
func (r *PostgresRepository) NetworkItems(ctx context.Context, viewerID string, limit int) (vecs [][]float64, err error) {
	ctx, endSpan := tracing.StartDBSpan(ctx, "content_items", tracing.DBOperationQuery)
	defer func() { endSpan(err) }()

	rows, err := r.db.QueryContext(ctx, `
		SELECT c.embedding
		FROM content_items c
		WHERE c.author_id IN (
			SELECT author_id FROM user_edges
			WHERE viewer_id = $1 AND kind IN ($2, $3, $4)
		)
		ORDER BY c.created_at DESC
		LIMIT $5`,
		viewerID, edgeSubscription, edgeFriendship, edgeFollow, limit)
	if err != nil {
		return nil, fmt.Errorf("query network items: %w", err)
	}
	defer rows.Close()
	return scanEmbeddings(rows)
}

// Preferences returns the viewer's explicit preferences, or nil when none
// are stored.
func (r *PostgresRepository) Preferences(ctx context.Context, viewerID string) (prefs *profile.Preferences, err error) {
	ctx, endSpan := tracing.StartDBSpan(ctx, "user_preferences", tracing.DBOperationQuery)
	defer func() { endSpan(err) }()

	var interests pq.StringArray
	var embedding pq.Float64Array
	var geoCell sql.NullString

	err = r.db.QueryRowContext(ctx, `
		SELECT interests, embedding, geo_cell
		FROM user_preferences
		WHERE viewer_id = $1`,
		viewerID).Scan(&interests, &embedding, &geoCell)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query preferences: %w", err)
	}

	prefs = &profile.Preferences{
		Interests: []string(interests),
		Embedding: []float64(embedding),
	}
	if geoCell.Valid {
		prefs.GeoCell = geoCell.String
	}
	return prefs, nil
}

// SignalsSchema is the DDL for the viewer signal tables.
const SignalsSchema = `
CREATE TABLE IF NOT EXISTS user_edges (
	viewer_id TEXT NOT NULL,
	author_id TEXT NOT NULL,
	kind TEXT NOT NULL,
	PRIMARY KEY (viewer_id, author_id, kind)
);
CREATE INDEX IF NOT EXISTS idx_user_edges_viewer_kind ON user_edges (viewer_id, kind);

CREATE TABLE IF NOT EXISTS user_likes (
	viewer_id TEXT NOT NULL,
	item_id TEXT NOT NULL REFERENCES content_items (id),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (viewer_id, item_id)
);
CREATE INDEX IF NOT EXISTS idx_user_likes_viewer ON user_likes (viewer_id, created_at DESC);

CREATE TABLE IF NOT EXISTS user_preferences (
	viewer_id TEXT PRIMARY KEY,
	interests TEXT[],
	embedding DOUBLE PRECISION[],
	geo_cell TEXT
);
`
