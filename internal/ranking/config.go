package ranking

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// FeedWeights defines the composite weights for the five ranking
// components. Distinct from the engagement scorer's per-metric weights:
// these decide how the already-computed component scores are combined.
type FeedWeights struct {
	Recency    float64 `json:"recency"`    // Weight for time recency (default: 0.30)
	Similarity float64 `json:"similarity"` // Weight for content similarity (default: 0.25)
	Social     float64 `json:"social"`     // Weight for social-graph relationship (default: 0.25)
	Trending   float64 `json:"trending"`   // Weight for engagement trending (default: 0.10)
	Reputation float64 `json:"reputation"` // Weight for author reputation (default: 0.10)
}

// CalibrationConfig represents the JSON structure of the calibration file.
type CalibrationConfig struct {
	Version string      `json:"version"` // Config version for future compatibility
	Weights FeedWeights `json:"weights"` // Weight configuration
}

// DefaultFeedWeights returns the default feed weight configuration.
//
// Formula: final = (recency*0.30 + similarity*0.25 + social*0.25 +
// trending*0.10 + reputation*0.10) * visibility_multiplier
//   - Recency dominates so the feed stays fresh
//   - Similarity and social tie the feed to the viewer's interests and graph
//   - Trending and reputation are secondary signals
func DefaultFeedWeights() *FeedWeights {
	return &FeedWeights{
		Recency:    0.30,
		Similarity: 0.25,
		Social:     0.25,
		Trending:   0.10,
		Reputation: 0.10,
	}
}

// LoadCalibration loads feed weights from a JSON calibration file.
// If the file doesn't exist or can't be read, returns default weights with
// an error so callers degrade gracefully. Partial configurations are merged
// with defaults.
func LoadCalibration(filePath string) (*FeedWeights, error) {
	if filePath == "" {
		return DefaultFeedWeights(), nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		slog.Warn("failed to read calibration file, using defaults",
			"path", filePath,
			"error", err)
		return DefaultFeedWeights(), fmt.Errorf("failed to read calibration file: %w", err)
	}

	var config CalibrationConfig
	if err := json.Unmarshal(data, &config); err != nil {
		slog.Warn("failed to parse calibration file, using defaults",
			"path", filePath,
			"error", err)
		return DefaultFeedWeights(), fmt.Errorf("failed to parse calibration file: %w", err)
	}

	defaults := DefaultFeedWeights()
	merged := MergeCalibration(defaults, &config.Weights)
	logCalibrationOverrides(defaults, merged)

	return merged, nil
}

// MergeCalibration merges override weights with base weights. Only
// non-zero values from the override are applied, allowing partial
// overrides in the calibration file.
func MergeCalibration(base *FeedWeights, override *FeedWeights) *FeedWeights {
	if base == nil {
		return DefaultFeedWeights()
	}
	if override == nil {
		result := *base
		return &result
	}

	result := *base

	if override.Recency != 0 {
		result.Recency = override.Recency
	}
	if override.Similarity != 0 {
		result.Similarity = override.Similarity
	}
	if override.Social != 0 {
		result.Social = override.Social
	}
	if override.Trending != 0 {
		result.Trending = override.Trending
	}
	if override.Reputation != 0 {
		result.Reputation = override.Reputation
	}

	return &result
}

// logCalibrationOverrides logs which weights were overridden from defaults.
func logCalibrationOverrides(defaults *FeedWeights, loaded *FeedWeights) {
	var overrides []string

	if loaded.Recency != defaults.Recency {
		overrides = append(overrides, fmt.Sprintf("recency: %.2f -> %.2f",
			defaults.Recency, loaded.Recency))
	}
	if loaded.Similarity != defaults.Similarity {
		overrides = append(overrides, fmt.Sprintf("similarity: %.2f -> %.2f",
			defaults.Similarity, loaded.Similarity))
	}
	if loaded.Social != defaults.Social {
		overrides = append(overrides, fmt.Sprintf("social: %.2f -> %.2f",
			defaults.Social, loaded.Social))
	}
	if loaded.Trending != defaults.Trending {
		overrides = append(overrides, fmt.Sprintf("trending: %.2f -> %.2f",
			defaults.Trending, loaded.Trending))
	}
	if loaded.Reputation != defaults.Reputation {
		overrides = append(overrides, fmt.Sprintf("reputation: %.2f -> %.2f",
			defaults.Reputation, loaded.Reputation))
	}

	if len(overrides) > 0 {
		slog.Info("loaded feed calibration with overrides",
			"overrides", overrides)
	} else {
		slog.Info("loaded feed calibration (using all defaults)")
	}
}
