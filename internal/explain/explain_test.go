// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package explain

import (
	"testing"
	"time"

	"github.com/tomtom215/tripsense/internal/models"
)

var now = time.Date(2026, 7, 10, 17, 30, 0, 0, time.UTC)

func breakdown(components ...models.ScoreComponent) *models.ScoreBreakdown {
	return &models.ScoreBreakdown{Components: components}
}

func TestGenerator_PrimaryAndSecondary(t *testing.T) {
	t.Parallel()

	g := NewGenerator(DefaultConfig())
	b := breakdown(
		models.ScoreComponent{Name: models.ComponentTime, Contribution: 0.15, Reason: "Perfect time for dinner"},
		models.ScoreComponent{Name: models.ComponentDistance, Contribution: 0.25, Reason: "Just 50m away"},
		models.ScoreComponent{Name: models.ComponentRating, Contribution: 0.40},
		models.ScoreComponent{Name: models.ComponentWeather, Contribution: 0, Reason: "Storm warning"},
	)

	why := g.Explain(b, &models.Activity{ID: "a", Category: models.CategoryDining}, &models.Context{Now: now})
	if why.Primary != "Just 50m away" || why.PrimaryCategory != models.ComponentDistance {
		t.Errorf("primary = %q (%s)", why.Primary, why.PrimaryCategory)
	}
	if why.Secondary == nil || why.Secondary.Text != "Perfect time for dinner" || why.Secondary.Category != models.ComponentTime {
		t.Errorf("secondary = %+v, want the time reason", why.Secondary)
	}
}

func TestGenerator_Fallbacks(t *testing.T) {
	t.Parallel()

	g := NewGenerator(DefaultConfig())
	a := &models.Activity{ID: "plan-1", Category: models.CategoryOther}

	planned := g.Explain(breakdown(), a, &models.Context{Planned: models.IDSet([]string{"plan-1"})})
	if planned.Primary != ItineraryReason || planned.PrimaryCategory != models.ComponentItinerary {
		t.Errorf("planned primary = %q", planned.Primary)
	}

	plain := g.Explain(nil, a, nil)
	if plain.Primary != FallbackReason || plain.PrimaryCategory != models.ComponentDefault {
		t.Errorf("fallback primary = %q", plain.Primary)
	}
	if plain.Secondary != nil {
		t.Errorf("fallback secondary = %+v", plain.Secondary)
	}
}

func TestGenerator_Urgency(t *testing.T) {
	t.Parallel()

	g := NewGenerator(DefaultConfig())
	closing := now.Add(40 * time.Minute)
	later := now.Add(3 * time.Hour)
	closed := false

	tests := []struct {
		name       string
		activity   models.Activity
		weather    *models.WeatherContext
		want       string
		wantExpiry time.Time
	}{
		{
			name:       "closing_soon",
			activity:   models.Activity{ID: "a", ClosesAt: &closing},
			want:       "Closes in 40 min",
			wantExpiry: closing,
		},
		{
			name:     "closing_later",
			activity: models.Activity{ID: "a", ClosesAt: &later},
		},
		{
			name:     "already_closed",
			activity: models.Activity{ID: "a", ClosesAt: &closing, OpenNow: &closed},
		},
		{
			name:       "rain_outdoor",
			activity:   models.Activity{ID: "a", Capabilities: models.Capabilities{Computed: true, Outdoor: true}},
			weather:    &models.WeatherContext{Condition: models.WeatherCloudy, PrecipitationChance: 75},
			want:       RainUrgency,
			wantExpiry: now.Add(2 * time.Hour),
		},
		{
			name:     "rain_indoor",
			activity: models.Activity{ID: "a", Capabilities: models.Capabilities{Computed: true, Indoor: true}},
			weather:  &models.WeatherContext{Condition: models.WeatherCloudy, PrecipitationChance: 75},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			why := g.Explain(breakdown(), &tt.activity, &models.Context{Now: now, Weather: tt.weather})
			if why.Urgency != tt.want {
				t.Errorf("Urgency = %q, want %q", why.Urgency, tt.want)
			}
			if !why.UrgencyExpiresAt.Equal(tt.wantExpiry) {
				t.Errorf("UrgencyExpiresAt = %v, want %v", why.UrgencyExpiresAt, tt.wantExpiry)
			}
		})
	}
}

func TestGenerator_Tips(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	g := NewGenerator(cfg)
	rating := 4.7

	gem := g.Explain(nil, &models.Activity{ID: "gem-42", HiddenGem: true}, nil)
	found := false
	for _, tip := range cfg.HiddenGemTips {
		if gem.Tip == tip {
			found = true
		}
	}
	if !found || gem.TipSource != models.TipHiddenGem {
		t.Errorf("hidden gem tip %q (%s) not from pool", gem.Tip, gem.TipSource)
	}
	again := g.Explain(nil, &models.Activity{ID: "gem-42", HiddenGem: true}, nil)
	if again.Tip != gem.Tip {
		t.Error("hidden gem tip should be deterministic per activity")
	}

	popular := g.Explain(nil, &models.Activity{ID: "p", Rating: &rating, ReviewCount: 12840, Category: models.CategoryDining}, nil)
	if popular.Tip != "Rated 4.7 from 12,840 reviews" || popular.TipSource != models.TipPopular {
		t.Errorf("popular tip = %q (%s)", popular.Tip, popular.TipSource)
	}

	park := g.Explain(nil, &models.Activity{ID: "n", Category: models.CategoryNature}, nil)
	if park.Tip != cfg.CategoryTips[models.CategoryNature] || park.TipSource != models.TipCategory {
		t.Errorf("category tip = %q (%s)", park.Tip, park.TipSource)
	}

	other := g.Explain(nil, &models.Activity{ID: "o", Category: models.CategoryOther}, nil)
	if other.Tip != "" || other.TipSource != "" {
		t.Errorf("other tip = %q (%s), want empty", other.Tip, other.TipSource)
	}
}
