// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package models

// Pace is how densely a traveller wants to pack each city.
type Pace string

const (
	PaceRelaxed  Pace = "relaxed"
	PaceBalanced Pace = "balanced"
	PacePacked   Pace = "packed"
)

// Valid reports whether p is a known pace. The empty pace is valid and
// means balanced.
func (p Pace) Valid() bool {
	switch p {
	case "", PaceRelaxed, PaceBalanced, PacePacked:
		return true
	}
	return false
}

// Valid reports whether c is a known weather condition.
func (c WeatherCondition) Valid() bool {
	switch c {
	case WeatherClear, WeatherPartlyCloudy, WeatherCloudy, WeatherDrizzle,
		WeatherRain, WeatherStorm, WeatherSnow, WeatherFog:
		return true
	}
	return false
}

// Valid reports whether b is a known budget level. Empty means unknown.
func (b BudgetLevel) Valid() bool {
	switch b {
	case "", BudgetLow, BudgetModerate, BudgetUpscale, BudgetLuxury:
		return true
	}
	return false
}

// Valid reports whether d is a known dining style.
func (d DiningStyle) Valid() bool {
	switch d {
	case DiningAny, DiningCasual, DiningFine, DiningStreetFood, DiningLocal, DiningCafe:
		return true
	}
	return false
}

// Valid reports whether i is one of the interest dimensions.
func (i Interest) Valid() bool {
	for _, known := range Interests {
		if i == known {
			return true
		}
	}
	return false
}

// Valid reports whether t is a built-in trigger type.
func (t TriggerType) Valid() bool {
	switch t {
	case TriggerRainIncoming, TriggerPerfectWeather, TriggerHeatWarning, TriggerGoldenHour,
		TriggerStormWarning, TriggerMealTime, TriggerPopularRestaurant:
		return true
	}
	return false
}
