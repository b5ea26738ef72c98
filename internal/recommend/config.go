// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package recommend

import (
	"fmt"
	"time"

	"github.com/tomtom215/tripsense/internal/explain"
	"github.com/tomtom215/tripsense/internal/geo"
	"github.com/tomtom215/tripsense/internal/keywords"
	"github.com/tomtom215/tripsense/internal/preference"
	"github.com/tomtom215/tripsense/internal/timeofday"
	"github.com/tomtom215/tripsense/internal/weather"
)

// TieBreak selects the component used to order near-equal scores.
type TieBreak string

const (
	TieBreakDistance    TieBreak = "distance"
	TieBreakRating      TieBreak = "rating"
	TieBreakSerendipity TieBreak = "serendipity"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Mode is the default weighting mode for requests that name none.
	Mode Mode `json:"mode" koanf:"mode"`

	// CustomWeights are used by ModeCustom. They are normalized at runtime.
	CustomWeights *Weights `json:"custom_weights,omitempty" koanf:"custom_weights"`

	// TieBreak orders results whose scores differ by at most TieEpsilon.
	TieBreak   TieBreak `json:"tie_break" koanf:"tie_break"`
	TieEpsilon float64  `json:"tie_epsilon" koanf:"tie_epsilon"`

	Proximity  geo.ProximityConfig `json:"proximity" koanf:"proximity"`
	Weather    weather.Config      `json:"weather" koanf:"weather"`
	Preference preference.Config   `json:"preference" koanf:"preference"`
	Explain    explain.Config      `json:"explain" koanf:"explain"`

	// TimeRules replaces the per-period category rules when non-empty.
	TimeRules map[timeofday.Period]timeofday.Rule `json:"time_rules,omitempty" koanf:"time_rules"`

	// Keywords overrides the built-in keyword tables when non-nil.
	Keywords *keywords.Tables `json:"-" koanf:"-"`

	// MissingDataPenalty scales the penalty for a missing location
	// (x distance weight) and missing weather (x half the weather weight).
	MissingDataPenalty float64 `json:"missing_data_penalty" koanf:"missing_data_penalty"`

	// SpontaneousGemBonus is added to the serendipity input of hidden gems
	// in spontaneous mode.
	SpontaneousGemBonus float64 `json:"spontaneous_gem_bonus" koanf:"spontaneous_gem_bonus"`

	// Surprise enables one randomized serendipity pick per request.
	Surprise      bool    `json:"surprise" koanf:"surprise"`
	SurpriseBonus float64 `json:"surprise_bonus" koanf:"surprise_bonus"`

	// SkipPenalty is subtracted from activities the user skipped today.
	SkipPenalty float64 `json:"skip_penalty" koanf:"skip_penalty"`

	// ExcludeAvoided drops activities the preference model flags as
	// should-avoid instead of only down-ranking them.
	ExcludeAvoided bool `json:"exclude_avoided" koanf:"exclude_avoided"`

	Cache  CacheConfig  `json:"cache" koanf:"cache"`
	Limits LimitsConfig `json:"limits" koanf:"limits"`

	// SessionIdleTTL is how long an untouched session survives.
	SessionIdleTTL time.Duration `json:"session_idle_ttl" koanf:"session_idle_ttl"`

	// Seed is the random seed for deterministic behavior.
	// If zero, a fixed default seed is used.
	Seed int64 `json:"seed" koanf:"seed"`
}

// CacheConfig configures the per-session enrichment cache.
type CacheConfig struct {
	// Enabled toggles caching of component scores.
	Enabled bool `json:"enabled" koanf:"enabled"`

	// TTL is how long enrichment results remain valid.
	TTL time.Duration `json:"ttl" koanf:"ttl"`

	// MaxEntries bounds the cache size per session.
	MaxEntries int `json:"max_entries" koanf:"max_entries"`

	// LocationPrecision is the number of decimal places coordinates are
	// rounded to when forming cache keys. 3 decimals is roughly 100 m.
	LocationPrecision int `json:"location_precision" koanf:"location_precision"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// MaxCandidates caps the candidate set of one request.
	MaxCandidates int `json:"max_candidates" koanf:"max_candidates"`

	// DefaultLimit is the result size when a request names none.
	DefaultLimit int `json:"default_limit" koanf:"default_limit"`

	// MaxLimit caps the result size.
	MaxLimit int `json:"max_limit" koanf:"max_limit"`
}

// DefaultConfig returns a configuration with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Mode:                ModeBalanced,
		TieBreak:            TieBreakDistance,
		TieEpsilon:          0.01,
		Proximity:           geo.DefaultProximityConfig(),
		Weather:             weather.DefaultConfig(),
		Preference:          preference.DefaultConfig(),
		Explain:             explain.DefaultConfig(),
		MissingDataPenalty:  0.5,
		SpontaneousGemBonus: 0.2,
		Surprise:            true,
		SurpriseBonus:       0.25,
		SkipPenalty:         0.15,
		ExcludeAvoided:      true,
		Cache: CacheConfig{
			Enabled:           true,
			TTL:               5 * time.Minute,
			MaxEntries:        2000,
			LocationPrecision: 3,
		},
		Limits: LimitsConfig{
			MaxCandidates: 500,
			DefaultLimit:  10,
			MaxLimit:      100,
		},
		SessionIdleTTL: 2 * time.Hour,
		Seed:           42,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Mode != "" && !c.Mode.IsValid() {
		return fmt.Errorf("recommend.mode %q is not a known mode", c.Mode)
	}
	if c.Mode == ModeCustom {
		if c.CustomWeights == nil {
			return fmt.Errorf("recommend.custom_weights required for custom mode")
		}
		if _, ok := c.CustomWeights.Normalize(); !ok {
			return fmt.Errorf("recommend.custom_weights must be non-negative with a positive sum")
		}
	}
	switch c.TieBreak {
	case TieBreakDistance, TieBreakRating, TieBreakSerendipity:
	default:
		return fmt.Errorf("recommend.tie_break must be distance, rating or serendipity, got %q", c.TieBreak)
	}
	if c.TieEpsilon < 0 || c.TieEpsilon > 1 {
		return fmt.Errorf("recommend.tie_epsilon must be in [0,1], got %f", c.TieEpsilon)
	}
	if err := c.Proximity.Validate(); err != nil {
		return err
	}
	if err := c.Weather.Validate(); err != nil {
		return err
	}
	if err := c.Preference.Validate(); err != nil {
		return err
	}
	if err := timeofday.ValidateRules(c.TimeRules); err != nil {
		return fmt.Errorf("recommend.time_rules: %w", err)
	}
	if c.MissingDataPenalty < 0 || c.MissingDataPenalty > 1 {
		return fmt.Errorf("recommend.missing_data_penalty must be in [0,1], got %f", c.MissingDataPenalty)
	}
	if c.SpontaneousGemBonus < 0 || c.SpontaneousGemBonus > 1 {
		return fmt.Errorf("recommend.spontaneous_gem_bonus must be in [0,1], got %f", c.SpontaneousGemBonus)
	}
	if c.SurpriseBonus < 0 || c.SurpriseBonus > 1 {
		return fmt.Errorf("recommend.surprise_bonus must be in [0,1], got %f", c.SurpriseBonus)
	}
	if c.SkipPenalty < 0 || c.SkipPenalty > 1 {
		return fmt.Errorf("recommend.skip_penalty must be in [0,1], got %f", c.SkipPenalty)
	}
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("recommend.cache.ttl must be positive when caching is enabled")
	}
	if c.Cache.LocationPrecision < 0 || c.Cache.LocationPrecision > 6 {
		return fmt.Errorf("recommend.cache.location_precision must be in [0,6], got %d", c.Cache.LocationPrecision)
	}
	if c.Limits.MaxCandidates <= 0 {
		return fmt.Errorf("recommend.limits.max_candidates must be positive, got %d", c.Limits.MaxCandidates)
	}
	if c.Limits.DefaultLimit <= 0 || c.Limits.DefaultLimit > c.Limits.MaxLimit {
		return fmt.Errorf("recommend.limits.default_limit must be in [1, max_limit], got %d", c.Limits.DefaultLimit)
	}
	if c.SessionIdleTTL < 0 {
		return fmt.Errorf("recommend.session_idle_ttl must not be negative")
	}
	return nil
}
