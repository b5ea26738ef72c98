// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

// Package weather scores how well an activity suits the current weather.
//
// Rules are evaluated in a fixed order. A matching rule replaces the
// multiplier and reason of any earlier rule, but once a rule has declared the
// activity inappropriate no later rule can make it appropriate again.
package weather

import (
	"fmt"

	"github.com/tomtom215/tripsense/internal/models"
)

// Multiplier bounds.
const (
	MinMultiplier = 0.4
	MaxMultiplier = 1.5
)

// Config holds the weather thresholds.
type Config struct {
	// HighPrecipitationChance is the percentage at which rain is "likely".
	HighPrecipitationChance float64 `json:"high_precipitation_chance" koanf:"high_precipitation_chance"`

	ComfortableMinC float64 `json:"comfortable_min_c" koanf:"comfortable_min_c"`
	ComfortableMaxC float64 `json:"comfortable_max_c" koanf:"comfortable_max_c"`
	HotC            float64 `json:"hot_c" koanf:"hot_c"`
	ColdC           float64 `json:"cold_c" koanf:"cold_c"`
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		HighPrecipitationChance: 60,
		ComfortableMinC:         18,
		ComfortableMaxC:         26,
		HotC:                    30,
		ColdC:                   8,
	}
}

// Validate checks threshold ordering.
func (c *Config) Validate() error {
	if c.HighPrecipitationChance < 0 || c.HighPrecipitationChance > 100 {
		return fmt.Errorf("weather.high_precipitation_chance must be in [0,100], got %f", c.HighPrecipitationChance)
	}
	if c.ComfortableMinC >= c.ComfortableMaxC {
		return fmt.Errorf("weather.comfortable_min_c must be below comfortable_max_c")
	}
	if c.ColdC >= c.ComfortableMinC || c.HotC <= c.ComfortableMaxC {
		return fmt.Errorf("weather.cold_c and hot_c must lie outside the comfortable range")
	}
	return nil
}

// Result is the weather verdict for one activity.
type Result struct {
	// Score maps the multiplier onto [0,1]; neutral weather scores 0.5.
	Score         float64
	Multiplier    float64
	IsAppropriate bool
	Reason        string
	// Tip is a practical hint ("Bring an umbrella").
	Tip string
	// Urgency is set when the weather argues for going now.
	Urgency string
}

// Model applies the weather rules. It is stateless and safe for concurrent
// use.
type Model struct {
	cfg Config
}

// NewModel creates a model with the given thresholds.
func NewModel(cfg Config) *Model {
	return &Model{cfg: cfg}
}

// Neutral is the verdict used when no weather data is available.
func Neutral() Result {
	return Result{Score: 0.5, Multiplier: 1.0, IsAppropriate: true}
}

// evaluation accumulates rule outcomes.
type evaluation struct {
	res Result
}

func (e *evaluation) apply(multiplier float64, appropriate bool, reason, tip string) {
	e.res.Multiplier = multiplier
	e.res.IsAppropriate = e.res.IsAppropriate && appropriate
	if reason != "" {
		e.res.Reason = reason
	}
	if tip != "" {
		e.res.Tip = tip
	}
}

// Score evaluates an activity against the weather. A nil weather context
// yields the neutral verdict.
func (m *Model) Score(a *models.Activity, w *models.WeatherContext) Result {
	if w == nil {
		return Neutral()
	}

	caps := a.Capabilities
	outdoor := caps.Outdoor
	indoor := caps.Indoor
	e := evaluation{res: Result{Multiplier: 1.0, IsAppropriate: true}}

	// 1. Rain falling now.
	if w.Condition == models.WeatherRain || w.Condition == models.WeatherDrizzle {
		switch {
		case outdoor:
			e.apply(0.5, true, "Wet weather outside", "Bring an umbrella")
		case indoor:
			e.apply(1.3, true, "Perfect rainy-day spot", "Stay dry in here")
		}
	}

	// 2. Rain likely but not yet falling.
	if !w.Condition.IsWet() && w.PrecipitationChance >= m.cfg.HighPrecipitationChance && outdoor {
		e.apply(0.85, true, "Rain likely later", "")
		e.res.Urgency = "Rain expected later, go now"
	}

	// 3. Fair and comfortable.
	if w.Condition.IsFair() && w.TemperatureC >= m.cfg.ComfortableMinC && w.TemperatureC <= m.cfg.ComfortableMaxC && outdoor {
		e.apply(1.3, true, "Beautiful weather for being outside", "")
	}

	// 4. Hot.
	if w.TemperatureC >= m.cfg.HotC {
		switch {
		case caps.Cooling:
			e.apply(1.3, true, "Great way to cool off", "Stay hydrated")
		case outdoor:
			e.apply(0.85, true, "Hot out there", "Go early or find shade")
		}
	}

	// 5. Cold.
	if w.TemperatureC <= m.cfg.ColdC {
		switch {
		case caps.Warming:
			e.apply(1.3, true, "Cosy spot to warm up", "")
		case outdoor:
			e.apply(0.75, true, "Chilly outside", "Wrap up warm")
		}
	}

	// 6. Storm: a hard penalty for anything outdoors.
	if w.Condition == models.WeatherStorm {
		switch {
		case outdoor:
			e.apply(0.4, false, "Storm warning, avoid outdoor plans", "Stay sheltered")
		case indoor:
			e.apply(1.5, true, "Safe shelter from the storm", "")
		}
	}

	// 7. Fog spoils views.
	if w.Condition == models.WeatherFog && caps.Viewpoint {
		e.apply(0.6, true, "Fog limits the view", "Check visibility first")
	}

	// 8. Snow.
	if w.Condition == models.WeatherSnow {
		switch {
		case outdoor:
			e.apply(0.6, true, "Snowy conditions outside", "Wear good boots")
		case indoor:
			e.apply(1.15, true, "Warm refuge from the snow", "")
		}
	}

	e.res.Multiplier = clamp(e.res.Multiplier, MinMultiplier, MaxMultiplier)
	e.res.Score = clamp(e.res.Multiplier-0.5, 0, 1)
	return e.res
}

// IsRaining reports whether precipitation is falling now.
func IsRaining(w *models.WeatherContext) bool {
	return w != nil && w.Condition.IsWet()
}

// RainLikely reports whether rain is likely but not yet falling.
func (m *Model) RainLikely(w *models.WeatherContext) bool {
	return w != nil && !w.Condition.IsWet() && w.PrecipitationChance >= m.cfg.HighPrecipitationChance
}

// IsPerfect reports fair, comfortable weather.
func (m *Model) IsPerfect(w *models.WeatherContext) bool {
	return w != nil && w.Condition.IsFair() &&
		w.TemperatureC >= m.cfg.ComfortableMinC && w.TemperatureC <= m.cfg.ComfortableMaxC
}

// IsHot reports a temperature at or above the hot threshold.
func (m *Model) IsHot(w *models.WeatherContext) bool {
	return w != nil && w.TemperatureC >= m.cfg.HotC
}

// IsStorm reports an active storm.
func IsStorm(w *models.WeatherContext) bool {
	return w != nil && w.Condition == models.WeatherStorm
}

// Config returns the thresholds in use.
func (m *Model) Config() Config {
	return m.cfg
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
