// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package models

import "time"

// WeatherCondition is the coarse current weather.
type WeatherCondition string

const (
	WeatherClear        WeatherCondition = "clear"
	WeatherPartlyCloudy WeatherCondition = "partly_cloudy"
	WeatherCloudy       WeatherCondition = "cloudy"
	WeatherDrizzle      WeatherCondition = "drizzle"
	WeatherRain         WeatherCondition = "rain"
	WeatherStorm        WeatherCondition = "storm"
	WeatherSnow         WeatherCondition = "snow"
	WeatherFog          WeatherCondition = "fog"
)

// IsWet reports whether precipitation is currently falling.
func (c WeatherCondition) IsWet() bool {
	return c == WeatherDrizzle || c == WeatherRain || c == WeatherStorm
}

// IsFair reports whether the sky is clear or only partly cloudy.
func (c WeatherCondition) IsFair() bool {
	return c == WeatherClear || c == WeatherPartlyCloudy
}

// WeatherContext is a point-in-time weather observation.
type WeatherContext struct {
	Condition    WeatherCondition `json:"condition" validate:"required,condition"`
	TemperatureC float64          `json:"temperature_c" validate:"gte=-90,lte=60"`

	// PrecipitationChance is the chance of precipitation in percent (0-100).
	PrecipitationChance float64 `json:"precipitation_chance" validate:"gte=0,lte=100"`

	Sunrise time.Time `json:"sunrise,omitempty"`
	Sunset  time.Time `json:"sunset,omitempty"`
}

// Context is everything the engine knows about the user's present moment.
type Context struct {
	// Hour is the local hour of day (0-23).
	Hour int `json:"hour" validate:"gte=0,lte=23"`

	// Now is the current instant. Used for closing-time urgency, message
	// expiry and trigger cooldowns.
	Now time.Time `json:"now"`

	Location *Coordinates    `json:"location,omitempty"`
	Weather  *WeatherContext `json:"weather,omitempty"`
	City     string          `json:"city,omitempty"`

	// Completed, Skipped and Planned hold activity ids.
	Completed map[string]struct{} `json:"-"`
	Skipped   map[string]struct{} `json:"-"`
	Planned   map[string]struct{} `json:"-"`
}

// IDSet builds a set from a list of ids.
func IDSet(ids []string) map[string]struct{} {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// IsCompleted reports whether the activity was already done.
func (c *Context) IsCompleted(id string) bool {
	_, ok := c.Completed[id]
	return ok
}

// IsSkipped reports whether the user skipped the activity.
func (c *Context) IsSkipped(id string) bool {
	_, ok := c.Skipped[id]
	return ok
}

// IsPlanned reports whether the activity is on today's plan.
func (c *Context) IsPlanned(id string) bool {
	_, ok := c.Planned[id]
	return ok
}
