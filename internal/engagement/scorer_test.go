package engagement

import (
	"math"
	"testing"
	"time"
)

// plainConfig returns a config with all modifiers disabled so tests can
// exercise the base weighted sum in isolation.
func plainConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := Preset(PresetBalanced)
	if err != nil {
		t.Fatalf("Preset() returned error: %v", err)
	}
	cfg.Adjustments.TimeDecayEnabled = false
	cfg.Adjustments.ControversyBoostEnabled = false
	cfg.Adjustments.QualityBiasEnabled = false
	cfg.Adjustments.NewContentBoostEnabled = false
	cfg.Adjustments.ReputationWeight = 0
	return cfg
}

// TestScoreAllZero verifies that zero metrics with no modifiers score 0.
func TestScoreAllZero(t *testing.T) {
	cfg := plainConfig(t)
	now := time.Now()

	score, bd := scoreAt(Metrics{}, now, 50, cfg, now)
	if score != 0 {
		t.Errorf("expected 0, got %f", score)
	}
	if bd.Base != 0 {
		t.Errorf("expected zero base, got %f", bd.Base)
	}
}

// TestScoreBaseSum verifies the weighted sum over primitive metrics.
func TestScoreBaseSum(t *testing.T) {
	cfg := plainConfig(t)
	now := time.Now()

	m := Metrics{Likes: 10, Agrees: 5, Comments: 2, Shares: 1, Views: 100}

	// Balanced weights: 10*1.0 + 5*1.2 + 2*2.0 + 1*3.0 + 100*0.1 = 33.0
	score, _ := scoreAt(m, now, 50, cfg, now)
	if math.Abs(score-33.0) > 0.001 {
		t.Errorf("expected 33.00, got %f", score)
	}
}

// TestScoreMonotonicity verifies the score is non-decreasing in likes,
// agrees, comments, and shares under default weights.
func TestScoreMonotonicity(t *testing.T) {
	cfg := plainConfig(t)
	now := time.Now()
	base := Metrics{Likes: 3, Agrees: 2, Comments: 1, Shares: 1, Views: 50}

	bump := []struct {
		name string
		next Metrics
	}{
		{name: "more likes", next: Metrics{Likes: 4, Agrees: 2, Comments: 1, Shares: 1, Views: 50}},
		{name: "more agrees", next: Metrics{Likes: 3, Agrees: 3, Comments: 1, Shares: 1, Views: 50}},
		{name: "more comments", next: Metrics{Likes: 3, Agrees: 2, Comments: 2, Shares: 1, Views: 50}},
		{name: "more shares", next: Metrics{Likes: 3, Agrees: 2, Comments: 1, Shares: 2, Views: 50}},
	}

	baseline, _ := scoreAt(base, now, 50, cfg, now)
	for _, tt := range bump {
		t.Run(tt.name, func(t *testing.T) {
			bumped, _ := scoreAt(tt.next, now, 50, cfg, now)
			if bumped < baseline {
				t.Errorf("score decreased from %f to %f", baseline, bumped)
			}
		})
	}
}

// TestScoreTimeDecay verifies that an older item never outscores an
// otherwise identical newer one when decay is enabled.
func TestScoreTimeDecay(t *testing.T) {
	cfg := plainConfig(t)
	cfg.Adjustments.TimeDecayEnabled = true
	cfg.Adjustments.DecayFactor = 0.95

	now := time.Now()
	m := Metrics{Likes: 20, Comments: 5}

	fresh, freshBD := scoreAt(m, now.Add(-1*time.Hour), 50, cfg, now)
	stale, staleBD := scoreAt(m, now.Add(-48*time.Hour), 50, cfg, now)

	if stale > fresh {
		t.Errorf("older item scored %f above newer item %f", stale, fresh)
	}
	if freshBD.DecayMultiplier <= staleBD.DecayMultiplier {
		t.Errorf("decay multipliers not ordered: fresh %f, stale %f",
			freshBD.DecayMultiplier, staleBD.DecayMultiplier)
	}
}

// TestScoreControversyBoost verifies the 1.3x boost fires on lopsided
// disagreement ratios and stays off for balanced items under the threshold.
func TestScoreControversyBoost(t *testing.T) {
	cfg := plainConfig(t)
	cfg.Adjustments.ControversyBoostEnabled = true
	cfg.Adjustments.ControversyThreshold = 2.0
	now := time.Now()

	tests := []struct {
		name     string
		metrics  Metrics
		boosted  bool
	}{
		{
			name:    "heavy disagreement triggers",
			metrics: Metrics{Likes: 2, Disagrees: 10},
			boosted: true,
		},
		{
			name:    "all disagreement with zero agreement triggers via max guard",
			metrics: Metrics{Disagrees: 5},
			boosted: true,
		},
		{
			name:    "mild split stays off",
			metrics: Metrics{Likes: 5, Dislikes: 4},
			boosted: false,
		},
		{
			name:    "no engagement stays off",
			metrics: Metrics{Views: 100},
			boosted: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, bd := scoreAt(tt.metrics, now, 50, cfg, now)
			want := 1.0
			if tt.boosted {
				want = 1.3
			}
			if math.Abs(bd.ControversyMultiplier-want) > 0.001 {
				t.Errorf("expected controversy multiplier %f, got %f", want, bd.ControversyMultiplier)
			}
		})
	}
}

// TestScoreQualityBias verifies the 0.8-1.2 quality multiplier range.
func TestScoreQualityBias(t *testing.T) {
	cfg := plainConfig(t)
	cfg.Adjustments.QualityBiasEnabled = true
	now := time.Now()

	tests := []struct {
		name     string
		metrics  Metrics
		expected float64
	}{
		{
			name:     "all positive maxes at 1.2",
			metrics:  Metrics{Likes: 10},
			expected: 1.2,
		},
		{
			name:     "all negative floors at 0.8",
			metrics:  Metrics{Dislikes: 10},
			expected: 0.8,
		},
		{
			name:     "no engagement neutral defaults to 1.0",
			metrics:  Metrics{},
			expected: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, bd := scoreAt(tt.metrics, now, 50, cfg, now)
			if math.Abs(bd.QualityMultiplier-tt.expected) > 0.001 {
				t.Errorf("expected quality multiplier %f, got %f", tt.expected, bd.QualityMultiplier)
			}
		})
	}
}

// TestScoreNewContentBoost verifies the 1.2x boost applies only inside the
// 24-hour window.
func TestScoreNewContentBoost(t *testing.T) {
	cfg := plainConfig(t)
	cfg.Adjustments.NewContentBoostEnabled = true
	now := time.Now()
	m := Metrics{Likes: 10}

	_, freshBD := scoreAt(m, now.Add(-2*time.Hour), 50, cfg, now)
	if math.Abs(freshBD.NewContentMultiplier-1.2) > 0.001 {
		t.Errorf("expected new-content multiplier 1.2, got %f", freshBD.NewContentMultiplier)
	}

	_, staleBD := scoreAt(m, now.Add(-30*time.Hour), 50, cfg, now)
	if math.Abs(staleBD.NewContentMultiplier-1.0) > 0.001 {
		t.Errorf("expected no new-content multiplier, got %f", staleBD.NewContentMultiplier)
	}
}

// TestScoreReputationMultiplier verifies the reputation adjustment direction
// and its neutrality at the 50 midpoint.
func TestScoreReputationMultiplier(t *testing.T) {
	cfg := plainConfig(t)
	cfg.Adjustments.ReputationWeight = 0.4
	now := time.Now()
	m := Metrics{Likes: 10}

	tests := []struct {
		name       string
		reputation float64
		expected   float64
	}{
		{name: "max reputation boosts", reputation: 100, expected: 1.2},
		{name: "midpoint is neutral", reputation: 50, expected: 1.0},
		{name: "zero reputation suppresses", reputation: 0, expected: 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, bd := scoreAt(m, now, tt.reputation, cfg, now)
			if math.Abs(bd.ReputationMultiplier-tt.expected) > 0.001 {
				t.Errorf("expected reputation multiplier %f, got %f", tt.expected, bd.ReputationMultiplier)
			}
		})
	}
}

// TestScoreClampAndRescale verifies output bounding.
func TestScoreClampAndRescale(t *testing.T) {
	cfg := plainConfig(t)
	cfg.Adjustments.MinScore = 0
	cfg.Adjustments.MaxScore = 50
	now := time.Now()

	score, _ := scoreAt(Metrics{Likes: 1000}, now, 50, cfg, now)
	if score != 50 {
		t.Errorf("expected clamp at 50, got %f", score)
	}

	score, _ = scoreAt(Metrics{Dislikes: 1000}, now, 50, cfg, now)
	if score != 0 {
		t.Errorf("expected clamp at 0, got %f", score)
	}

	cfg.Adjustments.RescaleToRange = true
	score, _ = scoreAt(Metrics{Likes: 25}, now, 50, cfg, now)
	// 25 likes * 1.0 = 25, rescaled from [0,50] onto [0,100] = 50.
	if math.Abs(score-50) > 0.001 {
		t.Errorf("expected rescaled 50, got %f", score)
	}
}

// TestScoreMissingSubMetrics verifies nil nested metrics contribute zero
// without error.
func TestScoreMissingSubMetrics(t *testing.T) {
	cfg := plainConfig(t)
	now := time.Now()

	withNil, _ := scoreAt(Metrics{Likes: 5}, now, 50, cfg, now)
	withEmpty, _ := scoreAt(Metrics{
		Likes:             5,
		CommentEngagement: &CommentEngagement{},
		ShareMetrics:      &ShareMetrics{},
	}, now, 50, cfg, now)

	if withNil != withEmpty {
		t.Errorf("nil sub-metrics scored %f, zero-valued sub-metrics scored %f", withNil, withEmpty)
	}
}

// TestScoreSubMetricFormulas verifies the derived comment and share
// sub-score formulas.
func TestScoreSubMetricFormulas(t *testing.T) {
	cfg := plainConfig(t)
	now := time.Now()

	m := Metrics{
		CommentEngagement: &CommentEngagement{
			TotalReactions:      10,
			AvgReactionsPerItem: 2.5,
			QualityScore:        0.8,
		},
		ShareMetrics: &ShareMetrics{
			SimpleShares:      4,
			QuoteShares:       2,
			AvgQuoteLength:    50,
			RecentSharesBoost: 1,
			QualityScore:      0.6,
		},
	}

	_, bd := scoreAt(m, now, 50, cfg, now)

	// (10*0.5 + 2.5*2.0 + 0.8*3.0) * 1.5 = 12.4 * 1.5 = 18.6
	if math.Abs(bd.CommentSubScore-18.6) > 0.001 {
		t.Errorf("expected comment sub-score 18.6, got %f", bd.CommentSubScore)
	}
	// (4*1.0 + 2*2.5 + 50*0.1 + 1*2.0 + 0.6*3.0) * 2.0 = 17.8 * 2.0 = 35.6
	if math.Abs(bd.ShareSubScore-35.6) > 0.001 {
		t.Errorf("expected share sub-score 35.6, got %f", bd.ShareSubScore)
	}
}

// TestScoreRegressionFixture pins the full pipeline for a known input:
// balanced preset with controversy, new-content boost, and reputation
// disabled; 1-hour-old item with healthy positive engagement.
//
// Base: 10*1.0 + 5*1.2 + 2*2.0 + 1*3.0 + 100*0.1 = 33.0
// Decay: 0.95^1 = 0.95 -> 31.35
// Quality: positive 10+5+1+2=18, negative 0 -> ratio 1.0 -> x1.2 -> 37.62
func TestScoreRegressionFixture(t *testing.T) {
	cfg, err := Preset(PresetBalanced)
	if err != nil {
		t.Fatalf("Preset() returned error: %v", err)
	}
	cfg.Adjustments.ControversyBoostEnabled = false
	cfg.Adjustments.NewContentBoostEnabled = false
	cfg.Adjustments.ReputationWeight = 0

	now := time.Now()
	m := Metrics{
		Likes:    10,
		Agrees:   5,
		Comments: 2,
		Shares:   1,
		Views:    100,
	}

	score, bd := scoreAt(m, now.Add(-1*time.Hour), 70, cfg, now)

	if math.Abs(score-37.62) > 0.001 {
		t.Errorf("expected regression fixture score 37.62, got %f", score)
	}
	if math.Abs(bd.Base-33.0) > 0.001 {
		t.Errorf("expected base 33.0, got %f", bd.Base)
	}
	if math.Abs(bd.DecayMultiplier-0.95) > 0.0001 {
		t.Errorf("expected decay 0.95, got %f", bd.DecayMultiplier)
	}
	if math.Abs(bd.QualityMultiplier-1.2) > 0.0001 {
		t.Errorf("expected quality multiplier 1.2, got %f", bd.QualityMultiplier)
	}
}

// TestScoreNilConfigFallsBack verifies the scorer tolerates a nil config.
func TestScoreNilConfigFallsBack(t *testing.T) {
	now := time.Now()
	score, _ := scoreAt(Metrics{Likes: 1}, now, 50, nil, now)
	if score <= 0 {
		t.Errorf("expected positive score with default config, got %f", score)
	}
}
