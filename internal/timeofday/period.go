// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

// Package timeofday scores how appropriate an activity is for the current
// hour, using keyword overrides followed by per-period category rules.
package timeofday

// Period is a named part of the day.
type Period string

const (
	EarlyMorning Period = "early_morning"
	Morning      Period = "morning"
	Lunch        Period = "lunch"
	Afternoon    Period = "afternoon"
	Evening      Period = "evening"
	Night        Period = "night"
)

// PeriodForHour maps a local hour (0-23) to its period. Hours outside the
// range wrap around the clock.
func PeriodForHour(hour int) Period {
	hour = normalizeHour(hour)
	switch {
	case hour >= 5 && hour < 8:
		return EarlyMorning
	case hour >= 8 && hour < 11:
		return Morning
	case hour >= 11 && hour < 14:
		return Lunch
	case hour >= 14 && hour < 17:
		return Afternoon
	case hour >= 17 && hour < 21:
		return Evening
	default:
		return Night
	}
}

// Meal is a meal window.
type Meal string

const (
	MealNone      Meal = ""
	MealBreakfast Meal = "breakfast"
	MealLunch     Meal = "lunch"
	MealDinner    Meal = "dinner"
)

// MealForHour returns the meal window an hour falls in, if any.
func MealForHour(hour int) Meal {
	hour = normalizeHour(hour)
	switch {
	case hour >= 7 && hour < 10:
		return MealBreakfast
	case hour >= 11 && hour < 14:
		return MealLunch
	case hour >= 18 && hour < 21:
		return MealDinner
	default:
		return MealNone
	}
}

// IsLateEvening reports whether nightlife keywords apply at this hour.
func IsLateEvening(hour int) bool {
	hour = normalizeHour(hour)
	return hour >= 20 || hour < 5
}

func normalizeHour(hour int) int {
	hour %= 24
	if hour < 0 {
		hour += 24
	}
	return hour
}
