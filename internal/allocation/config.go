// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package allocation

import (
	"fmt"

	"github.com/tomtom215/tripsense/internal/models"
)

// Weights weighs the four importance factors.
type Weights struct {
	Size      float64 `json:"size" koanf:"size" validate:"gte=0"`
	Interest  float64 `json:"interest" koanf:"interest" validate:"gte=0"`
	Favorites float64 `json:"favorites" koanf:"favorites" validate:"gte=0"`
	Position  float64 `json:"position" koanf:"position" validate:"gte=0"`
}

// DefaultWeights returns the production factor weights.
func DefaultWeights() Weights {
	return Weights{Size: 0.3, Interest: 0.3, Favorites: 0.25, Position: 0.15}
}

// Sum returns the total weight.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (w Weights) Sum() float64 {
	return w.Size + w.Interest + w.Favorites + w.Position
}

// Normalize scales the weights to sum to 1. Zero weights normalize to the
// defaults.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (w Weights) Normalize() Weights {
	sum := w.Sum()
	if sum <= 0 {
		return DefaultWeights()
	}
	return Weights{
		Size:      w.Size / sum,
		Interest:  w.Interest / sum,
		Favorites: w.Favorites / sum,
		Position:  w.Position / sum,
	}
}

// Config holds the allocation constants.
type Config struct {
	Weights Weights `json:"weights" koanf:"weights"`

	// Pace multipliers scale the base allocation.
	RelaxedMultiplier  float64 `json:"relaxed_multiplier" koanf:"relaxed_multiplier"`
	BalancedMultiplier float64 `json:"balanced_multiplier" koanf:"balanced_multiplier"`
	PackedMultiplier   float64 `json:"packed_multiplier" koanf:"packed_multiplier"`

	// MinDays is the floor for a city; EndpointMinDays applies to the
	// origin and destination.
	MinDays         float64 `json:"min_days" koanf:"min_days"`
	EndpointMinDays float64 `json:"endpoint_min_days" koanf:"endpoint_min_days"`

	// EndpointPosition is the position factor of origin and destination
	// cities, accounting for arrival and departure overhead.
	EndpointPosition float64 `json:"endpoint_position" koanf:"endpoint_position"`

	// DefaultInterest is the interest factor when nothing is known.
	DefaultInterest float64 `json:"default_interest" koanf:"default_interest"`

	MaxCities    int     `json:"max_cities" koanf:"max_cities"`
	MaxTotalDays float64 `json:"max_total_days" koanf:"max_total_days"`
}

// DefaultConfig returns the production constants.
func DefaultConfig() Config {
	return Config{
		Weights:            DefaultWeights(),
		RelaxedMultiplier:  1.15,
		BalancedMultiplier: 1.0,
		PackedMultiplier:   0.85,
		MinDays:            1.0,
		EndpointMinDays:    0.5,
		EndpointPosition:   0.7,
		DefaultInterest:    0.5,
		MaxCities:          50,
		MaxTotalDays:       365,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	w := c.Weights
	if w.Size < 0 || w.Interest < 0 || w.Favorites < 0 || w.Position < 0 {
		return fmt.Errorf("allocation.weights must not be negative")
	}
	if w.Sum() <= 0 {
		return fmt.Errorf("allocation.weights must not all be zero")
	}
	for name, m := range map[string]float64{
		"relaxed_multiplier":  c.RelaxedMultiplier,
		"balanced_multiplier": c.BalancedMultiplier,
		"packed_multiplier":   c.PackedMultiplier,
	} {
		if m <= 0 {
			return fmt.Errorf("allocation.%s must be positive, got %f", name, m)
		}
	}
	if c.MinDays < 0 || c.EndpointMinDays < 0 {
		return fmt.Errorf("allocation minimum days must not be negative")
	}
	if c.DefaultInterest < 0 || c.DefaultInterest > 1 {
		return fmt.Errorf("allocation.default_interest must be in [0,1], got %f", c.DefaultInterest)
	}
	if c.MaxCities < 1 {
		return fmt.Errorf("allocation.max_cities must be at least 1, got %d", c.MaxCities)
	}
	if c.MaxTotalDays <= 0 {
		return fmt.Errorf("allocation.max_total_days must be positive, got %f", c.MaxTotalDays)
	}
	return nil
}

// multiplier returns the pace multiplier; the empty pace is balanced.
func (c *Config) multiplier(p models.Pace) float64 {
	switch p {
	case models.PaceRelaxed:
		return c.RelaxedMultiplier
	case models.PacePacked:
		return c.PackedMultiplier
	default:
		return c.BalancedMultiplier
	}
}
