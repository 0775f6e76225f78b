package engagement

import (
	"math"
	"time"
)

// Fixed sub-formula coefficients for the derived comment-engagement and
// share sub-scores. These are internal to the scoring formula; per-metric
// tuning happens through Weights.
const (
	commentReactionsCoeff    = 0.5
	commentAvgReactionsCoeff = 2.0
	commentQualityCoeff      = 3.0

	simpleShareCoeff    = 1.0
	quoteShareCoeff     = 2.5
	quoteLengthCoeff    = 0.1
	recentSharesCoeff   = 2.0
	shareQualityCoeff   = 3.0

	controversyBoost    = 1.3
	newContentBoost     = 1.2
	newContentWindow    = 24 * time.Hour
	qualityBiasFloor    = 0.8
	qualityBiasRange    = 0.4
	rescaleTargetRange  = 100.0
)

// Breakdown records every intermediate value of one scoring call for
// observability and regression testing.
type Breakdown struct {
	Base                 float64 `json:"base"`
	CommentSubScore      float64 `json:"comment_sub_score"`
	ShareSubScore        float64 `json:"share_sub_score"`
	DecayMultiplier      float64 `json:"decay_multiplier"`
	ControversyMultiplier float64 `json:"controversy_multiplier"`
	QualityMultiplier    float64 `json:"quality_multiplier"`
	NewContentMultiplier float64 `json:"new_content_multiplier"`
	ReputationMultiplier float64 `json:"reputation_multiplier"`
	Final                float64 `json:"final"`
}

// Score computes the engagement score for a content item.
//
// The base score is the weighted sum over all primitive metrics plus the
// two derived sub-scores; modifiers from cfg.Adjustments are then applied
// in order: time decay, controversy boost, quality bias, new-content boost,
// author reputation. The result is clamped to [MinScore, MaxScore],
// optionally rescaled onto [0, 100], and rounded to two decimal places.
//
// authorReputation is on the platform's 0-100 scale. Scoring never fails:
// missing optional sub-metrics contribute zero.
func Score(m Metrics, createdAt time.Time, authorReputation float64, cfg *Config) (float64, Breakdown) {
	return scoreAt(m, createdAt, authorReputation, cfg, time.Now())
}

// scoreAt is Score with an explicit clock for deterministic tests.
func scoreAt(m Metrics, createdAt time.Time, authorReputation float64, cfg *Config, now time.Time) (float64, Breakdown) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	w := cfg.Weights
	adj := cfg.Adjustments

	bd := Breakdown{
		DecayMultiplier:       1.0,
		ControversyMultiplier: 1.0,
		QualityMultiplier:     1.0,
		NewContentMultiplier:  1.0,
		ReputationMultiplier:  1.0,
	}

	// Step 1: weighted base score over primitive metrics.
	base := float64(m.Likes)*w.Likes +
		float64(m.Dislikes)*w.Dislikes +
		float64(m.Agrees)*w.Agrees +
		float64(m.Disagrees)*w.Disagrees +
		float64(m.Comments)*w.Comments +
		float64(m.Shares)*w.Shares +
		float64(m.Views)*w.Views +
		float64(m.CommunityNotes)*w.CommunityNotes +
		float64(m.Reports)*w.Reports

	if ce := m.CommentEngagement; ce != nil {
		bd.CommentSubScore = (float64(ce.TotalReactions)*commentReactionsCoeff +
			ce.AvgReactionsPerItem*commentAvgReactionsCoeff +
			ce.QualityScore*commentQualityCoeff) * w.CommentEngagement
		base += bd.CommentSubScore
	}
	if sm := m.ShareMetrics; sm != nil {
		bd.ShareSubScore = (float64(sm.SimpleShares)*simpleShareCoeff +
			float64(sm.QuoteShares)*quoteShareCoeff +
			sm.AvgQuoteLength*quoteLengthCoeff +
			float64(sm.RecentSharesBoost)*recentSharesCoeff +
			sm.QualityScore*shareQualityCoeff) * w.EnhancedShares
		base += bd.ShareSubScore
	}
	bd.Base = base

	score := base
	age := now.Sub(createdAt)
	hours := age.Hours()
	if hours < 0 {
		hours = 0
	}

	// Step 2: time decay.
	if adj.TimeDecayEnabled && adj.DecayFactor > 0 {
		bd.DecayMultiplier = math.Pow(adj.DecayFactor, hours)
		score *= bd.DecayMultiplier
	}

	// Step 3: controversy boost.
	if adj.ControversyBoostEnabled && isControversial(m, adj.ControversyThreshold) {
		bd.ControversyMultiplier = controversyBoost
		score *= controversyBoost
	}

	// Step 4: quality bias.
	if adj.QualityBiasEnabled {
		bd.QualityMultiplier = qualityBiasFloor + qualityRatio(m)*qualityBiasRange
		score *= bd.QualityMultiplier
	}

	// Step 5: new-content boost.
	if adj.NewContentBoostEnabled && age < newContentWindow {
		bd.NewContentMultiplier = newContentBoost
		score *= newContentBoost
	}

	// Step 6: author reputation.
	if adj.ReputationWeight > 0 {
		norm := clamp(authorReputation/100.0, 0, 1)
		bd.ReputationMultiplier = 1 + (norm-0.5)*adj.ReputationWeight
		score *= bd.ReputationMultiplier
	}

	// Step 7: bound the output.
	score = clamp(score, adj.MinScore, adj.MaxScore)
	if adj.RescaleToRange && adj.MaxScore > adj.MinScore {
		score = (score - adj.MinScore) / (adj.MaxScore - adj.MinScore) * rescaleTargetRange
	}

	bd.Final = round2(score)
	return bd.Final, bd
}

// isControversial reports whether the disagreement-to-agreement ratio, or
// its inverse, exceeds the threshold. The max(1, denominator) guard avoids
// division by zero for one-sided items.
func isControversial(m Metrics, threshold float64) bool {
	if threshold <= 0 {
		return false
	}

	agreement := float64(m.Likes + m.Agrees)
	disagreement := float64(m.Dislikes + m.Disagrees)
	if agreement == 0 && disagreement == 0 {
		return false
	}

	ratio := disagreement / math.Max(1, agreement)
	inverse := agreement / math.Max(1, disagreement)
	return ratio > threshold || inverse > threshold
}

// qualityRatio computes positive / (positive + negative) engagement,
// defaulting to a neutral 0.5 when the item has no engagement at all.
func qualityRatio(m Metrics) float64 {
	positive := float64(m.Likes) + float64(m.Agrees) +
		0.5*float64(m.Comments) + 2*float64(m.Shares)
	negative := float64(m.Dislikes) + float64(m.Disagrees) +
		3*float64(m.Reports)

	if positive == 0 && negative == 0 {
		return 0.5
	}
	return positive / (positive + negative)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
