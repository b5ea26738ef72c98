// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package preference

import "fmt"

// Weights are the sub-score weights of the preference model.
type Weights struct {
	Category    float64 `json:"category" koanf:"category"`
	Specific    float64 `json:"specific" koanf:"specific"`
	Avoidance   float64 `json:"avoidance" koanf:"avoidance"`
	HiddenGem   float64 `json:"hidden_gem" koanf:"hidden_gem"`
	Budget      float64 `json:"budget" koanf:"budget"`
	DiningStyle float64 `json:"dining_style" koanf:"dining_style"`
}

// Normalize returns weights rescaled to sum to 1.0. If every weight is zero
// the defaults are returned.
//
//nolint:gocritic // Weights is small and returned by value
func (w Weights) Normalize() Weights {
	sum := w.Category + w.Specific + w.Avoidance + w.HiddenGem + w.Budget + w.DiningStyle
	if sum <= 0 {
		return DefaultWeights()
	}
	return Weights{
		Category:    w.Category / sum,
		Specific:    w.Specific / sum,
		Avoidance:   w.Avoidance / sum,
		HiddenGem:   w.HiddenGem / sum,
		Budget:      w.Budget / sum,
		DiningStyle: w.DiningStyle / sum,
	}
}

// DefaultWeights returns the built-in weights.
func DefaultWeights() Weights {
	return Weights{
		Category:    0.35,
		Specific:    0.25,
		Avoidance:   0.15,
		HiddenGem:   0.10,
		Budget:      0.10,
		DiningStyle: 0.05,
	}
}

// Config configures the preference model.
type Config struct {
	Weights Weights `json:"weights" koanf:"weights"`

	// AvoidancePenaltyMultiplier scales the strongest avoidance match.
	AvoidancePenaltyMultiplier float64 `json:"avoidance_penalty_multiplier" koanf:"avoidance_penalty_multiplier"`

	// ShouldAvoidThreshold is the avoidance match at which an activity is
	// flagged for exclusion.
	ShouldAvoidThreshold float64 `json:"should_avoid_threshold" koanf:"should_avoid_threshold"`

	// StrongMatchScore and MinConfidence define a strong match.
	StrongMatchScore float64 `json:"strong_match_score" koanf:"strong_match_score"`
	MinConfidence    float64 `json:"min_confidence" koanf:"min_confidence"`

	// CategoryAvoidance lets an avoidance tag that equals the category name
	// ("nightlife") match every activity in that category.
	CategoryAvoidance bool `json:"category_avoidance" koanf:"category_avoidance"`
}

// DefaultConfig returns the production configuration.
func DefaultConfig() Config {
	return Config{
		Weights:                    DefaultWeights(),
		AvoidancePenaltyMultiplier: 0.5,
		ShouldAvoidThreshold:       0.7,
		StrongMatchScore:           0.7,
		MinConfidence:              0.3,
		CategoryAvoidance:          true,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	w := c.Weights
	for name, v := range map[string]float64{
		"category": w.Category, "specific": w.Specific, "avoidance": w.Avoidance,
		"hidden_gem": w.HiddenGem, "budget": w.Budget, "dining_style": w.DiningStyle,
	} {
		if v < 0 {
			return fmt.Errorf("preference.weights.%s must be non-negative, got %f", name, v)
		}
	}
	if c.AvoidancePenaltyMultiplier < 0 || c.AvoidancePenaltyMultiplier > 1 {
		return fmt.Errorf("preference.avoidance_penalty_multiplier must be in [0,1], got %f", c.AvoidancePenaltyMultiplier)
	}
	if c.ShouldAvoidThreshold <= 0 || c.ShouldAvoidThreshold > 1 {
		return fmt.Errorf("preference.should_avoid_threshold must be in (0,1], got %f", c.ShouldAvoidThreshold)
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("preference.min_confidence must be in [0,1], got %f", c.MinConfidence)
	}
	return nil
}
