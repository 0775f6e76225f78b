package engagement

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// Weights defines per-metric coefficients for the base engagement score.
// Negative weights are valid and penalize the metric.
type Weights struct {
	Likes             float64 `json:"likes"`
	Dislikes          float64 `json:"dislikes"`
	Agrees            float64 `json:"agrees"`
	Disagrees         float64 `json:"disagrees"`
	Comments          float64 `json:"comments"`
	Shares            float64 `json:"shares"`
	Views             float64 `json:"views"`
	CommunityNotes    float64 `json:"community_notes"`
	Reports           float64 `json:"reports"`
	CommentEngagement float64 `json:"comment_engagement"`
	EnhancedShares    float64 `json:"enhanced_shares"`
}

// Adjustments defines the behavior modifiers applied on top of the base
// weighted sum, plus output bounding rules.
type Adjustments struct {
	TimeDecayEnabled        bool    `json:"time_decay_enabled"`
	DecayFactor             float64 `json:"decay_factor"` // Per-hour multiplier, < 1 shrinks with age
	ControversyBoostEnabled bool    `json:"controversy_boost_enabled"`
	ControversyThreshold    float64 `json:"controversy_threshold"`
	QualityBiasEnabled      bool    `json:"quality_bias_enabled"`
	NewContentBoostEnabled  bool    `json:"new_content_boost_enabled"`
	ReputationWeight        float64 `json:"reputation_weight"` // [0, 1]; 0 disables
	MinScore                float64 `json:"min_score"`
	MaxScore                float64 `json:"max_score"`
	RescaleToRange          bool    `json:"rescale_to_range"`
}

// Config is one complete scorer configuration. Configs are treated as
// immutable values once published through a Store; never mutate a Config
// that has been handed to Store.Replace.
type Config struct {
	Preset      string      `json:"preset"`
	Weights     Weights     `json:"weights"`
	Adjustments Adjustments `json:"adjustments"`
}

// Named presets selectable at startup or through the config update API.
const (
	PresetStandard    = "standard"
	PresetControversy = "controversy"
	PresetQuality     = "quality"
	PresetBalanced    = "balanced"
	PresetCustom      = "custom"
)

// ErrUnknownPreset is returned when a preset name is not recognized.
var ErrUnknownPreset = errors.New("unknown engagement preset")

// defaultAdjustments is the shared starting point for preset adjustments.
var defaultAdjustments = Adjustments{
	TimeDecayEnabled:        true,
	DecayFactor:             0.95,
	ControversyBoostEnabled: false,
	ControversyThreshold:    2.0,
	QualityBiasEnabled:      false,
	NewContentBoostEnabled:  false,
	ReputationWeight:        0.3,
	MinScore:                0,
	MaxScore:                100,
	RescaleToRange:          false,
}

// Preset returns a fresh Config for the named preset. The returned value is
// owned by the caller; presets never share state.
func Preset(name string) (*Config, error) {
	switch name {
	case PresetStandard:
		return &Config{
			Preset: PresetStandard,
			Weights: Weights{
				Likes:             1.0,
				Dislikes:          -1.0,
				Agrees:            1.0,
				Disagrees:         -1.0,
				Comments:          1.5,
				Shares:            2.0,
				Views:             0.05,
				CommunityNotes:    0.5,
				Reports:           -3.0,
				CommentEngagement: 1.0,
				EnhancedShares:    1.0,
			},
			Adjustments: defaultAdjustments,
		}, nil

	case PresetControversy:
		adj := defaultAdjustments
		adj.ControversyBoostEnabled = true
		adj.ControversyThreshold = 1.5
		adj.ReputationWeight = 0.1
		return &Config{
			Preset: PresetControversy,
			Weights: Weights{
				Likes:             0.8,
				Dislikes:          0.4, // Disagreement still signals attention
				Agrees:            1.0,
				Disagrees:         0.8,
				Comments:          3.0,
				Shares:            2.5,
				Views:             0.05,
				CommunityNotes:    1.0,
				Reports:           -2.0,
				CommentEngagement: 2.0,
				EnhancedShares:    1.5,
			},
			Adjustments: adj,
		}, nil

	case PresetQuality:
		adj := defaultAdjustments
		adj.QualityBiasEnabled = true
		adj.ReputationWeight = 0.5
		return &Config{
			Preset: PresetQuality,
			Weights: Weights{
				Likes:             1.0,
				Dislikes:          -1.5,
				Agrees:            1.2,
				Disagrees:         -1.2,
				Comments:          2.0,
				Shares:            2.5,
				Views:             0.02,
				CommunityNotes:    1.5,
				Reports:           -5.0,
				CommentEngagement: 2.0,
				EnhancedShares:    2.5,
			},
			Adjustments: adj,
		}, nil

	case PresetBalanced:
		adj := defaultAdjustments
		adj.ControversyBoostEnabled = true
		adj.QualityBiasEnabled = true
		adj.NewContentBoostEnabled = true
		return &Config{
			Preset: PresetBalanced,
			Weights: Weights{
				Likes:             1.0,
				Dislikes:          -0.5,
				Agrees:            1.2,
				Disagrees:         -0.8,
				Comments:          2.0,
				Shares:            3.0,
				Views:             0.1,
				CommunityNotes:    0.5,
				Reports:           -2.0,
				CommentEngagement: 1.5,
				EnhancedShares:    2.0,
			},
			Adjustments: adj,
		}, nil

	case PresetCustom:
		// Custom starts from balanced and expects field overrides.
		cfg, _ := Preset(PresetBalanced)
		cfg.Preset = PresetCustom
		return cfg, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
}

// DefaultConfig returns the configuration active at process startup.
func DefaultConfig() *Config {
	cfg, _ := Preset(PresetBalanced)
	return cfg
}

// Override holds optional field-by-field overrides for a Config. Pointer
// fields distinguish "not set" from legitimate zero or negative values.
type Override struct {
	Likes             *float64 `json:"likes,omitempty"`
	Dislikes          *float64 `json:"dislikes,omitempty"`
	Agrees            *float64 `json:"agrees,omitempty"`
	Disagrees         *float64 `json:"disagrees,omitempty"`
	Comments          *float64 `json:"comments,omitempty"`
	Shares            *float64 `json:"shares,omitempty"`
	Views             *float64 `json:"views,omitempty"`
	CommunityNotes    *float64 `json:"community_notes,omitempty"`
	Reports           *float64 `json:"reports,omitempty"`
	CommentEngagement *float64 `json:"comment_engagement,omitempty"`
	EnhancedShares    *float64 `json:"enhanced_shares,omitempty"`

	TimeDecayEnabled        *bool    `json:"time_decay_enabled,omitempty"`
	DecayFactor             *float64 `json:"decay_factor,omitempty"`
	ControversyBoostEnabled *bool    `json:"controversy_boost_enabled,omitempty"`
	ControversyThreshold    *float64 `json:"controversy_threshold,omitempty"`
	QualityBiasEnabled      *bool    `json:"quality_bias_enabled,omitempty"`
	NewContentBoostEnabled  *bool    `json:"new_content_boost_enabled,omitempty"`
	ReputationWeight        *float64 `json:"reputation_weight,omitempty"`
	MinScore                *float64 `json:"min_score,omitempty"`
	MaxScore                *float64 `json:"max_score,omitempty"`
	RescaleToRange          *bool    `json:"rescale_to_range,omitempty"`
}

// apply returns a copy of base with every set override field applied.
func (o *Override) apply(base *Config) *Config {
	result := *base
	result.Preset = PresetCustom

	if o.Likes != nil {
		result.Weights.Likes = *o.Likes
	}
	if o.Dislikes != nil {
		result.Weights.Dislikes = *o.Dislikes
	}
	if o.Agrees != nil {
		result.Weights.Agrees = *o.Agrees
	}
	if o.Disagrees != nil {
		result.Weights.Disagrees = *o.Disagrees
	}
	if o.Comments != nil {
		result.Weights.Comments = *o.Comments
	}
	if o.Shares != nil {
		result.Weights.Shares = *o.Shares
	}
	if o.Views != nil {
		result.Weights.Views = *o.Views
	}
	if o.CommunityNotes != nil {
		result.Weights.CommunityNotes = *o.CommunityNotes
	}
	if o.Reports != nil {
		result.Weights.Reports = *o.Reports
	}
	if o.CommentEngagement != nil {
		result.Weights.CommentEngagement = *o.CommentEngagement
	}
	if o.EnhancedShares != nil {
		result.Weights.EnhancedShares = *o.EnhancedShares
	}

	if o.TimeDecayEnabled != nil {
		result.Adjustments.TimeDecayEnabled = *o.TimeDecayEnabled
	}
	if o.DecayFactor != nil {
		result.Adjustments.DecayFactor = *o.DecayFactor
	}
	if o.ControversyBoostEnabled != nil {
		result.Adjustments.ControversyBoostEnabled = *o.ControversyBoostEnabled
	}
	if o.ControversyThreshold != nil {
		result.Adjustments.ControversyThreshold = *o.ControversyThreshold
	}
	if o.QualityBiasEnabled != nil {
		result.Adjustments.QualityBiasEnabled = *o.QualityBiasEnabled
	}
	if o.NewContentBoostEnabled != nil {
		result.Adjustments.NewContentBoostEnabled = *o.NewContentBoostEnabled
	}
	if o.ReputationWeight != nil {
		result.Adjustments.ReputationWeight = *o.ReputationWeight
	}
	if o.MinScore != nil {
		result.Adjustments.MinScore = *o.MinScore
	}
	if o.MaxScore != nil {
		result.Adjustments.MaxScore = *o.MaxScore
	}
	if o.RescaleToRange != nil {
		result.Adjustments.RescaleToRange = *o.RescaleToRange
	}

	return &result
}

// Store holds the process-wide active configuration. Updates replace the
// whole Config atomically so a concurrent scoring call never observes a
// partially applied update. Reads never block.
type Store struct {
	current atomic.Pointer[Config]
}

// NewStore creates a Store seeded with cfg, or the balanced default when
// cfg is nil.
func NewStore(cfg *Config) *Store {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	s := &Store{}
	s.current.Store(cfg)
	return s
}

// Current returns the active configuration. The returned Config must be
// treated as read-only.
func (s *Store) Current() *Config {
	return s.current.Load()
}

// Replace atomically swaps in a complete new configuration.
func (s *Store) Replace(cfg *Config) {
	if cfg == nil {
		return
	}
	s.current.Store(cfg)
}

// ApplyPreset atomically replaces the active configuration with the named
// preset. Returns ErrUnknownPreset for unrecognized names.
func (s *Store) ApplyPreset(name string) error {
	cfg, err := Preset(name)
	if err != nil {
		return err
	}
	s.current.Store(cfg)
	return nil
}

// ApplyOverride atomically replaces the active configuration with a copy of
// the current one plus the given field overrides. The resulting preset name
// is always "custom".
func (s *Store) ApplyOverride(o *Override) {
	if o == nil {
		return
	}
	s.current.Store(o.apply(s.current.Load()))
}
