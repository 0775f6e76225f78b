// Package content provides the candidate item model and repositories for
// fetching ranking candidates and viewer signals from the content store.
package content

import (
	"errors"
	"time"

	"github.com/driftline/driftline/internal/engagement"
)

// Common errors for content operations.
var (
	ErrItemNotFound = errors.New("content item not found")
	ErrUserNotFound = errors.New("user not found")
)

// CandidateItem is one content item under ranking consideration: identity,
// authorship, embedding, and a fresh engagement snapshot.
type CandidateItem struct {
	ID               string             `json:"id" cbor:"id"`
	AuthorID         string             `json:"author_id" cbor:"author_id"`
	CreatedAt        time.Time          `json:"created_at" cbor:"created_at"`
	Embedding        []float64          `json:"embedding,omitempty" cbor:"embedding,omitempty"`
	Tags             []string           `json:"tags,omitempty" cbor:"tags,omitempty"`
	AuthorReputation float64            `json:"author_reputation" cbor:"author_reputation"` // 0-100
	GeoCell          string             `json:"geo_cell,omitempty" cbor:"geo_cell,omitempty"`
	Metrics          engagement.Metrics `json:"metrics" cbor:"metrics"`
}

// UserSignals is the stored per-user signal record backing the profile
// builder's source interfaces.
type UserSignals struct {
	Subscriptions []string
	Friendships   []string
	Follows       []string
	Muted         []string
	Blocked       []string

	LikedEmbeddings [][]float64
	OwnEmbeddings   [][]float64

	Interests           []string
	PreferenceEmbedding []float64
	GeoCell             string
}
