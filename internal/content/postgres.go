package content

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/driftline/driftline/internal/tracing"
)

// PostgresRepository is a Repository backed by PostgreSQL. Embeddings and
// tags are stored as native arrays, engagement counters as columns on the
// item row so the candidate query is a single scan.
type PostgresRepository struct {
	db *sql.DB
}

var _ Repository = (*PostgresRepository)(nil)

// NewPostgresRepository creates a Postgres-backed content repository.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const candidateColumns = `
	id, author_id, created_at, embedding, tags, author_reputation, geo_cell,
	likes, dislikes, agrees, disagrees, comments, shares, views,
	community_notes, reports`

// CandidatePool returns up to limit items created at or after since,
// excluding the viewer's own content, newest first.
func (r *PostgresRepository) CandidatePool(ctx context.Context, excludeAuthorID string, since time.Time, limit int) (items []CandidateItem, err error) {
	ctx, endSpan := tracing.StartDBSpan(ctx, "content_items", tracing.DBOperationQuery)
	defer func() { endSpan(err) }()

	query := `
		SELECT ` + candidateColumns + `
		FROM content_items
		WHERE author_id != $1 AND created_at >= $2
		ORDER BY created_at DESC
		LIMIT $3`

	rows, err := r.db.QueryContext(ctx, query, excludeAuthorID, since, limit)
	if err != nil {
		return nil, fmt.Errorf("query candidate pool: %w", err)
	}
	defer rows.Close()

	return scanCandidates(rows)
}

// HydrateItems returns full items for the given IDs in input order.
func (r *PostgresRepository) HydrateItems(ctx context.Context, ids []string) (ordered []CandidateItem, err error) {
	if len(ids) == 0 {
		return nil, nil
	}

	ctx, endSpan := tracing.StartDBSpan(ctx, "content_items", tracing.DBOperationQuery)
	defer func() { endSpan(err) }()

	query := `
		SELECT ` + candidateColumns + `
		FROM content_items
		WHERE id = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("hydrate items: %w", err)
	}
	defer rows.Close()

	items, err := scanCandidates(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]CandidateItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	ordered = make([]CandidateItem, 0, len(ids))
	for _, id := range ids {
		if item, ok := byID[id]; ok {
			ordered = append(ordered, item)
		}
	}
	return ordered, nil
}

// InsertItem stores a content item. Used by ingestion and tests.
func (r *PostgresRepository) InsertItem(ctx context.Context, item CandidateItem) (err error) {
	ctx, endSpan := tracing.StartDBSpan(ctx, "content_items", tracing.DBOperationInsert)
	defer func() { endSpan(err) }()

	query := `
		INSERT INTO content_items (` + candidateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err = r.db.ExecContext(ctx, query,
		item.ID, item.AuthorID, item.CreatedAt,
		pq.Array(item.Embedding), pq.Array(item.Tags),
		item.AuthorReputation, item.GeoCell,
		item.Metrics.Likes, item.Metrics.Dislikes,
		item.Metrics.Agrees, item.Metrics.Disagrees,
		item.Metrics.Comments, item.Metrics.Shares,
		item.Metrics.Views, item.Metrics.CommunityNotes,
		item.Metrics.Reports,
	)
	if err != nil {
		return fmt.Errorf("insert content item: %w", err)
	}
	return nil
}

func scanCandidates(rows *sql.Rows) ([]CandidateItem, error) {
	var items []CandidateItem
	for rows.Next() {
		var item CandidateItem
		var embedding pq.Float64Array
		var tags pq.StringArray
		var geoCell sql.NullString

		err := rows.Scan(
			&item.ID, &item.AuthorID, &item.CreatedAt,
			&embedding, &tags, &item.AuthorReputation, &geoCell,
			&item.Metrics.Likes, &item.Metrics.Dislikes,
			&item.Metrics.Agrees, &item.Metrics.Disagrees,
			&item.Metrics.Comments, &item.Metrics.Shares,
			&item.Metrics.Views, &item.Metrics.CommunityNotes,
			&item.Metrics.Reports,
		)
		if err != nil {
			return nil, fmt.Errorf("scan content item: %w", err)
		}

		item.Embedding = []float64(embedding)
		item.Tags = []string(tags)
		if geoCell.Valid {
			item.GeoCell = geoCell.String
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate content items: %w", err)
	}
	return items, nil
}

// Schema is the DDL for the content_items table, applied by migrations and
// by the integration test harness.
const Schema = `
CREATE TABLE IF NOT EXISTS content_items (
	id TEXT PRIMARY KEY,
	author_id TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	embedding DOUBLE PRECISION[],
	tags TEXT[],
	author_reputation DOUBLE PRECISION NOT NULL DEFAULT 50,
	geo_cell TEXT,
	likes INTEGER NOT NULL DEFAULT 0,
	dislikes INTEGER NOT NULL DEFAULT 0,
	agrees INTEGER NOT NULL DEFAULT 0,
	disagrees INTEGER NOT NULL DEFAULT 0,
	comments INTEGER NOT NULL DEFAULT 0,
	shares INTEGER NOT NULL DEFAULT 0,
	views INTEGER NOT NULL DEFAULT 0,
	community_notes INTEGER NOT NULL DEFAULT 0,
	reports INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_content_items_created_at ON content_items (created_at DESC);
CREATE INDEX IF NOT EXISTS idx_content_items_author ON content_items (author_id);
`
