// Package engagement computes quality/engagement scores for content items
// and comments from raw interaction counts, with preset-based configuration.
package engagement

// Metrics is an immutable snapshot of interaction counts for one content
// item, produced fresh from the content store per scoring call.
//
// The nested sub-metric records are optional; a nil pointer contributes
// zero to the base score and is never an error.
type Metrics struct {
	Likes          int `json:"likes"`
	Dislikes       int `json:"dislikes"`
	Agrees         int `json:"agrees"`
	Disagrees      int `json:"disagrees"`
	Comments       int `json:"comments"`
	Shares         int `json:"shares"`
	Views          int `json:"views"`
	CommunityNotes int `json:"community_notes"`
	Reports        int `json:"reports"`

	CommentEngagement *CommentEngagement `json:"comment_engagement,omitempty"`
	ShareMetrics      *ShareMetrics      `json:"share_metrics,omitempty"`
}

// CommentEngagement holds derived metrics about the comments on an item.
type CommentEngagement struct {
	TotalReactions      int     `json:"total_reactions"`       // Reactions across all comments
	AvgReactionsPerItem float64 `json:"avg_reactions_per_item"` // Average reactions per comment
	QualityScore        float64 `json:"quality_score"`          // 0-1 comment quality ratio
}

// ShareMetrics holds derived metrics about how an item has been shared.
type ShareMetrics struct {
	SimpleShares      int     `json:"simple_shares"`       // Reshares without commentary
	QuoteShares       int     `json:"quote_shares"`        // Reshares with added commentary
	AvgQuoteLength    float64 `json:"avg_quote_length"`    // Average added-commentary length
	RecentSharesBoost int     `json:"recent_shares_boost"` // Shares within the boost window
	QualityScore      float64 `json:"quality_score"`       // 0-1 share quality score
}

// CommentMetrics is the input snapshot for scoring an individual comment,
// as opposed to a post. Comment scoring favors conversation (replies,
// moderate length) over raw reaction counts.
type CommentMetrics struct {
	Replies           int `json:"replies"`
	Length            int `json:"length"` // Comment text length in characters
	PositiveReactions int `json:"positive_reactions"`
	NegativeReactions int `json:"negative_reactions"`
}
