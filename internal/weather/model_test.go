// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package weather

import (
	"math"
	"testing"

	"github.com/tomtom215/tripsense/internal/models"
)

var (
	outdoorPark = models.Activity{ID: "park", Capabilities: models.Capabilities{Computed: true, Outdoor: true}}
	indoorMuse  = models.Activity{ID: "museum", Capabilities: models.Capabilities{Computed: true, Indoor: true}}
	gelato      = models.Activity{ID: "gelato", Capabilities: models.Capabilities{Computed: true, Outdoor: true, Cooling: true}}
	teaHouse    = models.Activity{ID: "tea", Capabilities: models.Capabilities{Computed: true, Indoor: true, Warming: true}}
	lookout     = models.Activity{ID: "lookout", Capabilities: models.Capabilities{Computed: true, Outdoor: true, Viewpoint: true}}
)

func TestModel_Score(t *testing.T) {
	t.Parallel()

	m := NewModel(DefaultConfig())

	tests := []struct {
		name           string
		activity       models.Activity
		weather        models.WeatherContext
		wantMultiplier float64
		wantOK         bool
		wantUrgency    bool
	}{
		{"rain_outdoor", outdoorPark, models.WeatherContext{Condition: models.WeatherRain, TemperatureC: 15}, 0.5, true, false},
		{"rain_indoor", indoorMuse, models.WeatherContext{Condition: models.WeatherRain, TemperatureC: 15}, 1.3, true, false},
		{"rain_likely_outdoor", outdoorPark, models.WeatherContext{Condition: models.WeatherCloudy, TemperatureC: 15, PrecipitationChance: 80}, 0.85, true, true},
		{"perfect_outdoor", outdoorPark, models.WeatherContext{Condition: models.WeatherClear, TemperatureC: 22}, 1.3, true, false},
		{"perfect_indoor_neutral", indoorMuse, models.WeatherContext{Condition: models.WeatherClear, TemperatureC: 22}, 1.0, true, false},
		{"hot_cooling", gelato, models.WeatherContext{Condition: models.WeatherClear, TemperatureC: 34}, 1.3, true, false},
		{"hot_outdoor", outdoorPark, models.WeatherContext{Condition: models.WeatherClear, TemperatureC: 34}, 0.85, true, false},
		{"cold_warming", teaHouse, models.WeatherContext{Condition: models.WeatherCloudy, TemperatureC: 3}, 1.3, true, false},
		{"cold_outdoor", outdoorPark, models.WeatherContext{Condition: models.WeatherCloudy, TemperatureC: 3}, 0.75, true, false},
		{"storm_outdoor", outdoorPark, models.WeatherContext{Condition: models.WeatherStorm, TemperatureC: 20}, 0.4, false, false},
		{"storm_indoor", indoorMuse, models.WeatherContext{Condition: models.WeatherStorm, TemperatureC: 20}, 1.5, true, false},
		{"fog_viewpoint", lookout, models.WeatherContext{Condition: models.WeatherFog, TemperatureC: 12}, 0.6, true, false},
		{"snow_outdoor", outdoorPark, models.WeatherContext{Condition: models.WeatherSnow, TemperatureC: 10}, 0.6, true, false},
		{"snow_indoor", indoorMuse, models.WeatherContext{Condition: models.WeatherSnow, TemperatureC: 10}, 1.15, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := m.Score(&tt.activity, &tt.weather)
			if math.Abs(got.Multiplier-tt.wantMultiplier) > 1e-9 {
				t.Errorf("Multiplier = %v, want %v", got.Multiplier, tt.wantMultiplier)
			}
			if got.IsAppropriate != tt.wantOK {
				t.Errorf("IsAppropriate = %v, want %v", got.IsAppropriate, tt.wantOK)
			}
			if (got.Urgency != "") != tt.wantUrgency {
				t.Errorf("Urgency = %q, want present=%v", got.Urgency, tt.wantUrgency)
			}
			if got.Score < 0 || got.Score > 1 {
				t.Errorf("Score = %v out of range", got.Score)
			}
		})
	}
}

func TestModel_StormStaysInappropriate(t *testing.T) {
	t.Parallel()

	m := NewModel(DefaultConfig())
	// A storm on a cold day: the cold rule matches first for a warming
	// viewpoint but storm must still mark it inappropriate.
	a := models.Activity{Capabilities: models.Capabilities{Computed: true, Outdoor: true, Warming: true, Viewpoint: true}}
	for _, temp := range []float64{-5, 5, 20, 35} {
		got := m.Score(&a, &models.WeatherContext{Condition: models.WeatherStorm, TemperatureC: temp, PrecipitationChance: 100})
		if got.IsAppropriate {
			t.Errorf("storm at %v°C considered appropriate", temp)
		}
		if got.Multiplier < MinMultiplier || got.Multiplier > MaxMultiplier {
			t.Errorf("multiplier %v out of bounds", got.Multiplier)
		}
	}
}

func TestModel_NoWeatherIsNeutral(t *testing.T) {
	t.Parallel()

	m := NewModel(DefaultConfig())
	got := m.Score(&outdoorPark, nil)
	if got != Neutral() {
		t.Errorf("Score(nil) = %+v, want neutral", got)
	}
	if got.Score != 0.5 {
		t.Errorf("neutral score = %v", got.Score)
	}
}

func TestModel_Predicates(t *testing.T) {
	t.Parallel()

	m := NewModel(DefaultConfig())
	if !m.RainLikely(&models.WeatherContext{Condition: models.WeatherCloudy, PrecipitationChance: 70}) {
		t.Error("expected rain likely")
	}
	if m.RainLikely(&models.WeatherContext{Condition: models.WeatherRain, PrecipitationChance: 90}) {
		t.Error("rain already falling is not 'likely'")
	}
	if !m.IsPerfect(&models.WeatherContext{Condition: models.WeatherPartlyCloudy, TemperatureC: 20}) {
		t.Error("expected perfect weather")
	}
	if IsRaining(nil) || !IsRaining(&models.WeatherContext{Condition: models.WeatherDrizzle}) {
		t.Error("IsRaining mismatch")
	}
	if !m.IsHot(&models.WeatherContext{TemperatureC: 30}) || m.IsHot(&models.WeatherContext{TemperatureC: 29.9}) || m.IsHot(nil) {
		t.Error("IsHot should switch at the hot threshold")
	}
	if IsStorm(nil) || IsStorm(&models.WeatherContext{Condition: models.WeatherRain}) || !IsStorm(&models.WeatherContext{Condition: models.WeatherStorm}) {
		t.Error("IsStorm mismatch")
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	bad := DefaultConfig()
	bad.HotC = 20
	if err := bad.Validate(); err == nil {
		t.Error("expected error when hot threshold is inside comfortable range")
	}

	bad = DefaultConfig()
	bad.HighPrecipitationChance = 150
	if err := bad.Validate(); err == nil {
		t.Error("expected error for precipitation chance > 100")
	}
}
