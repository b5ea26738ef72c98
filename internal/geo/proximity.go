// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package geo

import (
	"fmt"
	"math"
	"sort"

	"github.com/tomtom215/tripsense/internal/models"
)

// Curve selects how proximity decays with distance.
type Curve string

const (
	CurveLinear      Curve = "linear"
	CurveExponential Curve = "exponential"
	CurveInverse     Curve = "inverse"
	CurveStepped     Curve = "stepped"
)

// Bracket is one step of the stepped curve.
type Bracket struct {
	Label      string  `json:"label" koanf:"label"`
	MaxMeters  float64 `json:"max_meters" koanf:"max_meters"`
	Multiplier float64 `json:"multiplier" koanf:"multiplier"`
}

// ProximityConfig configures proximity scoring.
type ProximityConfig struct {
	// Curve is the decay function.
	Curve Curve `json:"curve" koanf:"curve"`

	// MaxDistance is the distance in meters beyond which the score is 0.
	MaxDistance float64 `json:"max_distance" koanf:"max_distance"`

	// HalfLife is the distance in meters at which the exponential and
	// inverse curves reach 0.5.
	HalfLife float64 `json:"half_life" koanf:"half_life"`

	// ImmediateThreshold is the distance in meters at or under which the
	// score is always 1.0.
	ImmediateThreshold float64 `json:"immediate_threshold" koanf:"immediate_threshold"`

	// Brackets drive the stepped curve.
	Brackets []Bracket `json:"brackets" koanf:"brackets"`

	// MissingScore is returned when either location is unknown.
	MissingScore float64 `json:"missing_score" koanf:"missing_score"`
}

// DefaultProximityConfig returns the production defaults.
func DefaultProximityConfig() ProximityConfig {
	return ProximityConfig{
		Curve:              CurveExponential,
		MaxDistance:        10000,
		HalfLife:           1000,
		ImmediateThreshold: 100,
		MissingScore:       0.5,
		Brackets: []Bracket{
			{Label: "right here", MaxMeters: 250, Multiplier: 1.0},
			{Label: "very close", MaxMeters: 500, Multiplier: 0.9},
			{Label: "walkable", MaxMeters: 1000, Multiplier: 0.75},
			{Label: "short trip", MaxMeters: 2000, Multiplier: 0.55},
			{Label: "nearby", MaxMeters: 5000, Multiplier: 0.35},
			{Label: "across town", MaxMeters: 10000, Multiplier: 0.15},
		},
	}
}

// Validate checks the configuration for values that cannot be scored.
func (c *ProximityConfig) Validate() error {
	switch c.Curve {
	case CurveLinear, CurveExponential, CurveInverse, CurveStepped:
	default:
		return fmt.Errorf("proximity.curve must be linear, exponential, inverse or stepped, got %q", c.Curve)
	}
	if c.MaxDistance <= 0 {
		return fmt.Errorf("proximity.max_distance must be positive, got %f", c.MaxDistance)
	}
	if (c.Curve == CurveExponential || c.Curve == CurveInverse) && c.HalfLife <= 0 {
		return fmt.Errorf("proximity.half_life must be positive, got %f", c.HalfLife)
	}
	if c.ImmediateThreshold < 0 || c.ImmediateThreshold > c.MaxDistance {
		return fmt.Errorf("proximity.immediate_threshold must be in [0, max_distance], got %f", c.ImmediateThreshold)
	}
	if c.Curve == CurveStepped && len(c.Brackets) == 0 {
		return fmt.Errorf("proximity.brackets must not be empty for the stepped curve")
	}
	for i, b := range c.Brackets {
		if b.MaxMeters <= 0 || b.Multiplier < 0 || b.Multiplier > 1 {
			return fmt.Errorf("proximity.brackets[%d] must have positive max_meters and a multiplier in [0,1]", i)
		}
	}
	if c.MissingScore < 0 || c.MissingScore > 1 {
		return fmt.Errorf("proximity.missing_score must be in [0,1], got %f", c.MissingScore)
	}
	return nil
}

// Proximity scores distances. Construct with NewProximity so brackets are
// normalized once; the zero value is not usable.
type Proximity struct {
	cfg ProximityConfig
}

// NewProximity validates cfg and prepares the bracket table. Brackets are
// sorted by upper bound and their multipliers clamped to be non-increasing,
// which keeps the stepped curve monotone.
func NewProximity(cfg ProximityConfig) (*Proximity, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	brackets := append([]Bracket(nil), cfg.Brackets...)
	sort.SliceStable(brackets, func(i, j int) bool {
		return brackets[i].MaxMeters < brackets[j].MaxMeters
	})
	for i := 1; i < len(brackets); i++ {
		if brackets[i].Multiplier > brackets[i-1].Multiplier {
			brackets[i].Multiplier = brackets[i-1].Multiplier
		}
	}
	cfg.Brackets = brackets
	return &Proximity{cfg: cfg}, nil
}

// Config returns a copy of the normalized configuration.
func (p *Proximity) Config() ProximityConfig {
	c := p.cfg
	c.Brackets = append([]Bracket(nil), p.cfg.Brackets...)
	return c
}

// Score maps a distance in meters to a proximity score in [0,1].
func (p *Proximity) Score(meters float64) float64 {
	if math.IsNaN(meters) || meters < 0 {
		meters = 0
	}
	if meters <= p.cfg.ImmediateThreshold {
		return 1.0
	}
	if meters > p.cfg.MaxDistance {
		return 0
	}

	switch p.cfg.Curve {
	case CurveLinear:
		return clamp01(1 - meters/p.cfg.MaxDistance)
	case CurveExponential:
		return clamp01(math.Exp(-math.Ln2 * meters / p.cfg.HalfLife))
	case CurveInverse:
		return clamp01(1 / (1 + meters/p.cfg.HalfLife))
	case CurveStepped:
		for _, b := range p.cfg.Brackets {
			if meters <= b.MaxMeters {
				return b.Multiplier
			}
		}
		return 0
	default:
		return p.cfg.MissingScore
	}
}

// Result is the outcome of scoring two optional locations.
type Result struct {
	Score float64
	// Meters is -1 when either location is unknown.
	Meters float64
	Known  bool
	Reason string
}

// Between scores the distance from the user to an activity. Missing
// coordinates yield the configured neutral score.
func (p *Proximity) Between(user, place *models.Coordinates) Result {
	if user == nil || place == nil {
		return Result{Score: p.cfg.MissingScore, Meters: -1}
	}
	meters := Distance(*user, *place)
	return Result{
		Score:  p.Score(meters),
		Meters: meters,
		Known:  true,
		Reason: Describe(meters),
	}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
