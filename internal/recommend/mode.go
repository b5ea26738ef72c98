// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package recommend

import (
	"math"
	"strings"

	"github.com/tomtom215/tripsense/internal/models"
)

// Mode selects a weight preset.
type Mode string

const (
	ModeBalanced      Mode = "balanced"
	ModeNearby        Mode = "nearby"
	ModePersonalized  Mode = "personalized"
	ModeSpontaneous   Mode = "spontaneous"
	ModeQuality       Mode = "quality"
	ModeTimeSensitive Mode = "time_sensitive"
	ModeExplorer      Mode = "explorer"
	ModeCustom        Mode = "custom"
)

// Weights is the relative contribution of each component.
type Weights struct {
	Time        float64 `json:"time" koanf:"time" validate:"gte=0"`
	Distance    float64 `json:"distance" koanf:"distance" validate:"gte=0"`
	Preference  float64 `json:"preference" koanf:"preference" validate:"gte=0"`
	Serendipity float64 `json:"serendipity" koanf:"serendipity" validate:"gte=0"`
	Rating      float64 `json:"rating" koanf:"rating" validate:"gte=0"`
	Weather     float64 `json:"weather" koanf:"weather" validate:"gte=0"`
}

// Sum returns the total of all weights.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (w Weights) Sum() float64 {
	return w.Time + w.Distance + w.Preference + w.Serendipity + w.Rating + w.Weather
}

// Normalize returns a copy scaled to sum to 1.0. It reports false when the
// weights cannot be normalized (non-positive sum, negative or non-finite
// entries).
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (w Weights) Normalize() (Weights, bool) {
	for _, v := range []float64{w.Time, w.Distance, w.Preference, w.Serendipity, w.Rating, w.Weather} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return Weights{}, false
		}
	}
	sum := w.Sum()
	if sum <= 0 {
		return Weights{}, false
	}
	return Weights{
		Time:        w.Time / sum,
		Distance:    w.Distance / sum,
		Preference:  w.Preference / sum,
		Serendipity: w.Serendipity / sum,
		Rating:      w.Rating / sum,
		Weather:     w.Weather / sum,
	}, true
}

// Get returns the weight of a component.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (w Weights) Get(c models.Component) float64 {
	switch c {
	case models.ComponentTime:
		return w.Time
	case models.ComponentDistance:
		return w.Distance
	case models.ComponentPreference:
		return w.Preference
	case models.ComponentSerendipity:
		return w.Serendipity
	case models.ComponentRating:
		return w.Rating
	case models.ComponentWeather:
		return w.Weather
	default:
		return 0
	}
}

// ToMap converts the weights into a component-keyed map.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (w Weights) ToMap() map[models.Component]float64 {
	return map[models.Component]float64{
		models.ComponentTime:        w.Time,
		models.ComponentDistance:    w.Distance,
		models.ComponentPreference:  w.Preference,
		models.ComponentSerendipity: w.Serendipity,
		models.ComponentRating:      w.Rating,
		models.ComponentWeather:     w.Weather,
	}
}

var presets = map[Mode]Weights{
	ModeBalanced:      {Time: 0.20, Distance: 0.25, Preference: 0.25, Serendipity: 0.10, Rating: 0.10, Weather: 0.10},
	ModeNearby:        {Time: 0.15, Distance: 0.45, Preference: 0.15, Serendipity: 0.05, Rating: 0.10, Weather: 0.10},
	ModePersonalized:  {Time: 0.15, Distance: 0.15, Preference: 0.45, Serendipity: 0.10, Rating: 0.10, Weather: 0.05},
	ModeSpontaneous:   {Time: 0.20, Distance: 0.20, Preference: 0.10, Serendipity: 0.30, Rating: 0.10, Weather: 0.10},
	ModeQuality:       {Time: 0.15, Distance: 0.15, Preference: 0.20, Serendipity: 0.05, Rating: 0.35, Weather: 0.10},
	ModeTimeSensitive: {Time: 0.40, Distance: 0.20, Preference: 0.15, Serendipity: 0.05, Rating: 0.05, Weather: 0.15},
	ModeExplorer:      {Time: 0.15, Distance: 0.15, Preference: 0.20, Serendipity: 0.35, Rating: 0.05, Weather: 0.10},
}

// Modes lists the preset modes in display order. Custom is not included.
func Modes() []Mode {
	return []Mode{
		ModeBalanced, ModeNearby, ModePersonalized, ModeSpontaneous,
		ModeQuality, ModeTimeSensitive, ModeExplorer,
	}
}

// Preset returns the weights of a preset mode.
func Preset(m Mode) (Weights, bool) {
	w, ok := presets[m]
	return w, ok
}

// ParseMode resolves a mode name. Empty input selects balanced. Unknown names
// also resolve to balanced but report false so callers can log them.
func ParseMode(s string) (Mode, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "_")
	if s == "" {
		return ModeBalanced, true
	}
	m := Mode(s)
	if m == ModeCustom {
		return m, true
	}
	if _, ok := presets[m]; ok {
		return m, true
	}
	return ModeBalanced, false
}

// IsValid reports whether m names a preset or custom mode.
func (m Mode) IsValid() bool {
	if m == ModeCustom {
		return true
	}
	_, ok := presets[m]
	return ok
}

// ResolveWeights returns the effective, normalized weights for a mode.
// Custom mode uses custom when it can be normalized and falls back to
// balanced otherwise, as does any unknown mode.
func ResolveWeights(m Mode, custom *Weights) Weights {
	if m == ModeCustom {
		if custom != nil {
			if w, ok := custom.Normalize(); ok {
				return w
			}
		}
		return presets[ModeBalanced]
	}
	if w, ok := presets[m]; ok {
		return w
	}
	return presets[ModeBalanced]
}
