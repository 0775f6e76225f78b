package engagement

import (
	"math"
	"time"
)

// Comment scoring is independently parameterized from post scoring: the
// weights favor reply count and moderate length over raw reactions, since
// comments earn relevance by sustaining conversation.
const (
	commentReplyWeight    = 3.0
	commentLengthWeight   = 2.0
	commentReactionWeight = 0.5

	// Length scoring peaks at moderate length and falls off for walls of text.
	commentIdealLength   = 200
	commentLengthFalloff = 800

	commentQualityFloor = 0.7
	commentQualityRange = 0.6

	commentReputationInfluence = 0.2 // +/-10% max

	commentControversyBoost        = 1.2
	commentControversyMinReactions = 5
	commentControversyLowRatio     = 0.4
	commentControversyHighRatio    = 0.6
)

// CommentBreakdown records the intermediate multipliers of one comment
// scoring call.
type CommentBreakdown struct {
	Base                  float64 `json:"base"`
	RecencyMultiplier     float64 `json:"recency_multiplier"`
	QualityMultiplier     float64 `json:"quality_multiplier"`
	ReputationMultiplier  float64 `json:"reputation_multiplier"`
	ControversyMultiplier float64 `json:"controversy_multiplier"`
	Final                 float64 `json:"final"`
}

// ScoreComment computes the engagement score for an individual comment.
// authorReputation is on the platform's 0-100 scale.
func ScoreComment(m CommentMetrics, createdAt time.Time, authorReputation float64) (float64, CommentBreakdown) {
	return scoreCommentAt(m, createdAt, authorReputation, time.Now())
}

// scoreCommentAt is ScoreComment with an explicit clock for deterministic tests.
func scoreCommentAt(m CommentMetrics, createdAt time.Time, authorReputation float64, now time.Time) (float64, CommentBreakdown) {
	bd := CommentBreakdown{
		ControversyMultiplier: 1.0,
	}

	totalReactions := m.PositiveReactions + m.NegativeReactions

	bd.Base = float64(m.Replies)*commentReplyWeight +
		lengthScore(m.Length)*commentLengthWeight +
		float64(totalReactions)*commentReactionWeight

	age := now.Sub(createdAt)
	bd.RecencyMultiplier = commentRecencyMultiplier(age)

	ratio := 0.5
	if totalReactions > 0 {
		ratio = float64(m.PositiveReactions) / float64(totalReactions)
	}
	bd.QualityMultiplier = commentQualityFloor + ratio*commentQualityRange

	norm := clamp(authorReputation/100.0, 0, 1)
	bd.ReputationMultiplier = 1 + (norm-0.5)*commentReputationInfluence

	// Near-even splits with enough volume indicate an active argument worth surfacing.
	if totalReactions >= commentControversyMinReactions &&
		ratio >= commentControversyLowRatio && ratio <= commentControversyHighRatio {
		bd.ControversyMultiplier = commentControversyBoost
	}

	score := bd.Base * bd.RecencyMultiplier * bd.QualityMultiplier *
		bd.ReputationMultiplier * bd.ControversyMultiplier

	bd.Final = round2(math.Max(0, score))
	return bd.Final, bd
}

// commentRecencyMultiplier tiers recency at <1h, <6h, <24h, and older.
func commentRecencyMultiplier(age time.Duration) float64 {
	switch {
	case age < time.Hour:
		return 1.5
	case age < 6*time.Hour:
		return 1.2
	case age < 24*time.Hour:
		return 1.0
	default:
		return 0.8
	}
}

// lengthScore maps comment length onto [0, 1], rising to 1.0 at the ideal
// length and decaying linearly toward 0 for very long comments.
func lengthScore(length int) float64 {
	if length <= 0 {
		return 0
	}
	if length <= commentIdealLength {
		return float64(length) / commentIdealLength
	}
	over := float64(length - commentIdealLength)
	return math.Max(0, 1-over/commentLengthFalloff)
}
