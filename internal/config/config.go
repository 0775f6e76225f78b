// Package config provides configuration loading and validation for the API server.
// It uses koanf to merge environment variables with optional file overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/driftline/driftline/internal/engagement"
)

// Config holds all configuration values for the API server.
type Config struct {
	// Server settings
	Port int    `koanf:"port"`
	Env  string `koanf:"env"`

	// Database. Empty selects the in-memory repository (development only).
	DatabaseURL string `koanf:"database_url"`

	// Redis candidate pool cache. Empty disables caching.
	RedisAddr string `koanf:"redis_addr"`

	// JWT Authentication. JWTPreviousSecret keeps tokens signed with the
	// prior key valid during a rotation window.
	JWTSecret         string `koanf:"jwt_secret"`
	JWTPreviousSecret string `koanf:"jwt_previous_secret"`

	// Ranking
	RankingCalibrationPath string `koanf:"ranking_calibration_path"`
	EngagementPreset       string `koanf:"engagement_preset"`

	// Feed assembly
	FeedLimit            int  `koanf:"feed_limit"`
	CandidateWindowHours int  `koanf:"candidate_window_hours"`
	CandidatePoolSize    int  `koanf:"candidate_pool_size"`
	GeoBoostEnabled      bool `koanf:"geo_boost_enabled"`

	// Tracing
	TracingEnabled bool   `koanf:"tracing_enabled"`
	OTLPEndpoint   string `koanf:"otlp_endpoint"`
}

// Configuration validation errors.
var (
	ErrMissingJWTSecret         = errors.New("JWT_SECRET is required")
	ErrInvalidPort              = errors.New("PORT must be a valid integer")
	ErrInvalidEngagementPreset  = errors.New("ENGAGEMENT_PRESET is not a known preset")
	ErrInvalidFeedLimit         = errors.New("FEED_LIMIT must be positive")
	ErrInvalidCandidateWindow   = errors.New("CANDIDATE_WINDOW_HOURS must be positive")
	ErrInvalidCandidatePoolSize = errors.New("CANDIDATE_POOL_SIZE must be positive")
)

// Default values for non-secret configuration.
const (
	DefaultPort                 = 8080
	DefaultEnv                  = "development"
	DefaultEngagementPreset     = engagement.PresetBalanced
	DefaultFeedLimit            = 20
	DefaultCandidateWindowHours = 48
	DefaultCandidatePoolSize    = 500
)

// Load reads configuration from environment variables and an optional config file.
// Environment variables take precedence over file values.
// Returns the loaded config and a slice of validation errors (empty if valid).
// If a config file path is provided and the file cannot be loaded, an error is returned.
func Load(configFilePath string) (*Config, []error) {
	k := koanf.New(".")
	var loadErrs []error

	// Load from YAML file first if provided (lower precedence)
	if configFilePath != "" {
		if err := k.Load(file.Provider(configFilePath), yaml.Parser()); err != nil {
			return nil, []error{fmt.Errorf("failed to load config file %s: %w", configFilePath, err)}
		}
	}

	// Try DRIFTLINE_PORT first, then PORT for container platforms
	port, portErr := getEnvIntOrDefaultMulti([]string{"DRIFTLINE_PORT", "PORT"}, k.Int("port"), DefaultPort)
	if portErr != nil {
		loadErrs = append(loadErrs, portErr)
	}

	feedLimit, feedLimitErr := getEnvIntOrDefault("FEED_LIMIT", k.Int("feed_limit"), DefaultFeedLimit)
	if feedLimitErr != nil {
		loadErrs = append(loadErrs, feedLimitErr)
	}

	windowHours, windowErr := getEnvIntOrDefault("CANDIDATE_WINDOW_HOURS", k.Int("candidate_window_hours"), DefaultCandidateWindowHours)
	if windowErr != nil {
		loadErrs = append(loadErrs, windowErr)
	}

	poolSize, poolSizeErr := getEnvIntOrDefault("CANDIDATE_POOL_SIZE", k.Int("candidate_pool_size"), DefaultCandidatePoolSize)
	if poolSizeErr != nil {
		loadErrs = append(loadErrs, poolSizeErr)
	}

	// Build config struct, with env vars taking precedence over file values
	cfg := &Config{
		Port:                   port,
		Env:                    getEnvOrDefaultMulti([]string{"DRIFTLINE_ENV", "ENV", "GO_ENV"}, k.String("env"), DefaultEnv),
		DatabaseURL:            getEnvOrKoanf("DATABASE_URL", k, "database_url"),
		RedisAddr:              getEnvOrKoanf("REDIS_ADDR", k, "redis_addr"),
		JWTSecret:              getEnvOrKoanf("JWT_SECRET", k, "jwt_secret"),
		JWTPreviousSecret:      getEnvOrKoanf("JWT_PREVIOUS_SECRET", k, "jwt_previous_secret"),
		RankingCalibrationPath: getEnvOrKoanf("RANKING_CALIBRATION_PATH", k, "ranking_calibration_path"),
		EngagementPreset:       getEnvOrDefault("ENGAGEMENT_PRESET", k.String("engagement_preset"), DefaultEngagementPreset),
		FeedLimit:              feedLimit,
		CandidateWindowHours:   windowHours,
		CandidatePoolSize:      poolSize,
		GeoBoostEnabled:        getEnvBoolOrKoanf("GEO_BOOST_ENABLED", k, "geo_boost_enabled", false),
		TracingEnabled:         getEnvBoolOrKoanf("TRACING_ENABLED", k, "tracing_enabled", false),
		OTLPEndpoint:           getEnvOrKoanf("OTLP_ENDPOINT", k, "otlp_endpoint"),
	}

	// Validate and collect errors
	errs := cfg.Validate()
	errs = append(loadErrs, errs...)

	return cfg, errs
}

// getEnvOrKoanf returns the environment variable value if set, otherwise the koanf value.
func getEnvOrKoanf(envKey string, k *koanf.Koanf, koanfKey string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	return k.String(koanfKey)
}

// getEnvOrDefault returns the environment variable value if set, otherwise the koanf value, or default.
func getEnvOrDefault(envKey string, koanfVal string, defaultVal string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	if koanfVal != "" {
		return koanfVal
	}
	return defaultVal
}

// getEnvOrDefaultMulti tries multiple environment variable keys in order.
// Returns the first non-empty value found, otherwise the koanf value, or default.
func getEnvOrDefaultMulti(envKeys []string, koanfVal string, defaultVal string) string {
	for _, key := range envKeys {
		if val := os.Getenv(key); val != "" {
			return val
		}
	}
	if koanfVal != "" {
		return koanfVal
	}
	return defaultVal
}

// getEnvIntOrDefault returns the environment variable as int if set, otherwise the koanf value, or default.
// Returns an error if the environment variable is set but cannot be parsed as an integer.
// Note: A zero value from a YAML file falls back to the default; explicit zero is not supported in YAML files.
func getEnvIntOrDefault(envKey string, koanfVal int, defaultVal int) (int, error) {
	if val := os.Getenv(envKey); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			return 0, fmt.Errorf("%s must be a valid integer: %w", envKey, ErrInvalidPort)
		}
		return i, nil
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}

// getEnvIntOrDefaultMulti tries multiple environment variable keys in order.
// Returns the first valid integer value found, otherwise the koanf value, or default.
// Returns an error if any environment variable is set but cannot be parsed as an integer.
func getEnvIntOrDefaultMulti(envKeys []string, koanfVal int, defaultVal int) (int, error) {
	for _, key := range envKeys {
		if val := os.Getenv(key); val != "" {
			i, err := strconv.Atoi(val)
			if err != nil {
				return 0, fmt.Errorf("%s must be a valid integer: %w", key, ErrInvalidPort)
			}
			return i, nil
		}
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}

// getEnvBoolOrKoanf returns the environment variable parsed as a bool if
// set, otherwise the koanf value, or default. Env vars take precedence.
func getEnvBoolOrKoanf(envKey string, k *koanf.Koanf, koanfKey string, defaultVal bool) bool {
	if val := os.Getenv(envKey); val != "" {
		switch strings.ToLower(val) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	if k.Exists(koanfKey) {
		return k.Bool(koanfKey)
	}
	return defaultVal
}

// Validate checks that all required configuration values are present.
// Returns a slice of validation errors (empty if valid).
func (c *Config) Validate() []error {
	var errs []error

	if c.JWTSecret == "" {
		errs = append(errs, ErrMissingJWTSecret)
	}
	if _, err := engagement.Preset(c.EngagementPreset); err != nil {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidEngagementPreset, c.EngagementPreset))
	}
	if c.FeedLimit <= 0 {
		errs = append(errs, ErrInvalidFeedLimit)
	}
	if c.CandidateWindowHours <= 0 {
		errs = append(errs, ErrInvalidCandidateWindow)
	}
	if c.CandidatePoolSize <= 0 {
		errs = append(errs, ErrInvalidCandidatePoolSize)
	}

	return errs
}

// LogSummary returns a summary of the configuration suitable for logging.
// All secrets are masked to prevent accidental exposure.
func (c *Config) LogSummary() map[string]string {
	return map[string]string{
		"port":                     fmt.Sprintf("%d", c.Port),
		"env":                      c.Env,
		"database_url":             maskDatabaseURL(c.DatabaseURL),
		"redis_addr":               c.RedisAddr,
		"jwt_secret":               maskSecret(c.JWTSecret),
		"jwt_previous_secret":      maskSecret(c.JWTPreviousSecret),
		"ranking_calibration_path": c.RankingCalibrationPath,
		"engagement_preset":        c.EngagementPreset,
		"feed_limit":               fmt.Sprintf("%d", c.FeedLimit),
		"candidate_window_hours":   fmt.Sprintf("%d", c.CandidateWindowHours),
		"candidate_pool_size":      fmt.Sprintf("%d", c.CandidatePoolSize),
		"geo_boost_enabled":        fmt.Sprintf("%t", c.GeoBoostEnabled),
		"tracing_enabled":          fmt.Sprintf("%t", c.TracingEnabled),
		"otlp_endpoint":            c.OTLPEndpoint,
	}
}

// maskSecret masks a secret value, showing only the first 4 characters followed by ****
// If the secret is shorter than 8 characters, it's fully masked.
func maskSecret(s string) string {
	if s == "" {
		return "<not set>"
	}
	if len(s) < 8 {
		return "****"
	}
	return s[:4] + "****"
}

// maskDatabaseURL masks the password in a database URL.
// Supports both postgres:// and postgresql:// schemes.
func maskDatabaseURL(s string) string {
	if s == "" {
		return "<not set>"
	}

	// Look for password pattern: user:password@host
	// Simple approach: find :// and then mask between : and @
	schemeEnd := strings.Index(s, "://")
	if schemeEnd == -1 {
		return maskSecret(s)
	}

	rest := s[schemeEnd+3:]
	atIndex := strings.Index(rest, "@")
	if atIndex == -1 {
		return s // No credentials in URL
	}

	colonIndex := strings.Index(rest[:atIndex], ":")
	if colonIndex == -1 {
		return s // No password (only username)
	}

	// Reconstruct URL with masked password
	scheme := s[:schemeEnd+3]
	user := rest[:colonIndex]
	hostAndPath := rest[atIndex:]

	return scheme + user + ":****" + hostAndPath
}
