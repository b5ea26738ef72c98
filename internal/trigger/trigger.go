// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package trigger

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/tripsense/internal/models"
	"github.com/tomtom215/tripsense/internal/recommend"
)

// Trigger is one proactive rule.
type Trigger interface {
	// Type identifies the rule.
	Type() models.TriggerType

	// Priority orders emitted messages.
	Priority() models.Priority

	// Cooldown is the minimum time between two firings.
	Cooldown() time.Duration

	// Condition reports whether the rule applies to the input.
	Condition(in *Input) bool

	// Generate builds the message. It may return nil when no eligible
	// subject remains. The engine fills ID, session, type, priority and
	// creation time.
	Generate(in *Input) *models.ProactiveMessage
}

// Suggester is implemented by triggers that propose a specific venue and
// must not propose it again for SuggestionTTL.
type Suggester interface {
	SuggestionTTL() time.Duration
}

// Input is what triggers evaluate. Candidates carry computed capabilities
// and exclude activities the user completed, skipped or avoids.
type Input struct {
	SessionID  string
	Context    *models.Context
	Candidates []models.Activity

	// Now is the evaluation instant.
	Now time.Time

	scores   map[string]float64
	eligible func(t models.TriggerType, subject string, suggesting bool) bool
}

// Score returns the recommendation score of a candidate, or 0 when it was
// not scored.
func (in *Input) Score(id string) float64 {
	return in.scores[id]
}

// Eligible reports whether a trigger may still propose subject: it is not
// dismissed and, for suggesting triggers, not proposed recently.
func (in *Input) Eligible(t models.TriggerType, subject string, suggesting bool) bool {
	if in.eligible == nil {
		return true
	}
	return in.eligible(t, subject, suggesting)
}

// Weather returns the weather context, or nil.
func (in *Input) Weather() *models.WeatherContext {
	if in.Context == nil {
		return nil
	}
	return in.Context.Weather
}

// DaySubject is the dismissal subject for weather-style triggers: one
// dismissal silences the trigger for the rest of the local day.
func (in *Input) DaySubject() string {
	return in.Now.Format("2006-01-02")
}

// CityKey normalizes the city name used in suggestion keys.
func CityKey(city string) string {
	city = strings.ToLower(strings.TrimSpace(city))
	if city == "" {
		return "unknown"
	}
	return strings.ReplaceAll(city, ":", "_")
}

// DismissalKey is the store key of a dismissal.
func DismissalKey(sessionID string, t models.TriggerType, subject string) string {
	return fmt.Sprintf("dismissed:%s:%s:%s", sessionID, t, subject)
}

// SuggestionKey is the store key remembering a proposed venue.
func SuggestionKey(city, placeID string) string {
	return fmt.Sprintf("suggested:%s:%s", CityKey(city), placeID)
}

// Clock is a time of day in minutes after midnight.
type Clock int

// At builds a Clock.
func At(hour, minute int) Clock {
	return Clock(hour*60 + minute)
}

// Window is a half-open time-of-day interval [Start, End).
type Window struct {
	Start Clock `json:"start" koanf:"start"`
	End   Clock `json:"end" koanf:"end"`
}

// Contains reports whether c falls inside the window.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (w Window) Contains(c Clock) bool {
	return c >= w.Start && c < w.End
}

// Config configures the rule thresholds and the engine. Weather thresholds
// come from the shared weather model.
type Config struct {
	// Enabled turns proactive messages on or off.
	Enabled bool `json:"enabled" koanf:"enabled"`

	// Disabled lists trigger types that are never registered.
	Disabled []models.TriggerType `json:"disabled" koanf:"disabled"`

	// MessageTTL is the default message lifetime.
	MessageTTL time.Duration `json:"message_ttl" koanf:"message_ttl"`

	// RankingMode selects the weights used to pick a rule's venue.
	RankingMode recommend.Mode `json:"ranking_mode" koanf:"ranking_mode"`

	GoldenHourLead time.Duration `json:"golden_hour_lead" koanf:"golden_hour_lead"`
	LunchWindow    Window        `json:"lunch_window" koanf:"lunch_window"`
	DinnerWindow   Window        `json:"dinner_window" koanf:"dinner_window"`
	PopularRating  float64       `json:"popular_rating" koanf:"popular_rating"`
	PopularReviews int           `json:"popular_reviews" koanf:"popular_reviews"`
	PopularRadiusM float64       `json:"popular_radius_m" koanf:"popular_radius_m"`
	MealMemory     time.Duration `json:"meal_memory" koanf:"meal_memory"`
	PopularMemory  time.Duration `json:"popular_memory" koanf:"popular_memory"`

	// Cooldowns overrides the per-trigger cooldown.
	Cooldowns map[models.TriggerType]time.Duration `json:"cooldowns" koanf:"cooldowns"`
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		Enabled:        true,
		MessageTTL:     time.Hour,
		RankingMode:    recommend.ModeBalanced,
		GoldenHourLead: time.Hour,
		LunchWindow:    Window{Start: At(11, 30), End: At(12, 0)},
		DinnerWindow:   Window{Start: At(18, 30), End: At(19, 0)},
		PopularRating:  4.5,
		PopularReviews: 500,
		PopularRadiusM: 1000,
		MealMemory:     72 * time.Hour,
		PopularMemory:  7 * 24 * time.Hour,
		Cooldowns: map[models.TriggerType]time.Duration{
			models.TriggerRainIncoming:      2 * time.Hour,
			models.TriggerPerfectWeather:    4 * time.Hour,
			models.TriggerHeatWarning:       3 * time.Hour,
			models.TriggerGoldenHour:        24 * time.Hour,
			models.TriggerStormWarning:      time.Hour,
			models.TriggerMealTime:          3 * time.Hour,
			models.TriggerPopularRestaurant: 6 * time.Hour,
		},
	}
}

// Validate checks the thresholds.
func (c *Config) Validate() error {
	if !c.RankingMode.IsValid() {
		return fmt.Errorf("triggers.ranking_mode %q is not a known mode", c.RankingMode)
	}
	if c.GoldenHourLead <= 0 {
		return fmt.Errorf("triggers.golden_hour_lead must be positive")
	}
	for _, w := range []Window{c.LunchWindow, c.DinnerWindow} {
		if w.Start < 0 || w.End > At(24, 0) || w.Start >= w.End {
			return fmt.Errorf("triggers meal windows must be non-empty and within one day")
		}
	}
	if c.PopularRadiusM <= 0 {
		return fmt.Errorf("triggers.popular_radius_m must be positive, got %f", c.PopularRadiusM)
	}
	for t, d := range c.Cooldowns {
		if d < 0 {
			return fmt.Errorf("triggers.cooldowns.%s must not be negative", t)
		}
	}
	return nil
}

// cooldown returns the configured cooldown for t, or def.
func (c *Config) cooldown(t models.TriggerType, def time.Duration) time.Duration {
	if d, ok := c.Cooldowns[t]; ok {
		return d
	}
	return def
}

func (c *Config) disabled(t models.TriggerType) bool {
	for _, d := range c.Disabled {
		if d == t {
			return true
		}
	}
	return false
}
