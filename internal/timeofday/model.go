// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package timeofday

import (
	"fmt"

	"github.com/tomtom215/tripsense/internal/models"
)

// Score levels.
const (
	ScoreAppropriate   = 1.0
	ScoreMarginal      = 0.6
	ScoreInappropriate = 0.2
	ScoreUnlisted      = 0.5

	ScoreNightlife    = 1.0
	ScoreLateNight    = 0.9
	ScoreDaylightOnly = 0.1
	ScoreEarlyOpen    = 1.0

	// appropriateFloor is the lowest score still considered appropriate.
	appropriateFloor = 0.5
)

// Rule lists the categories that suit a period.
type Rule struct {
	Appropriate   []models.Category `json:"appropriate" koanf:"appropriate"`
	Marginal      []models.Category `json:"marginal" koanf:"marginal"`
	Inappropriate []models.Category `json:"inappropriate" koanf:"inappropriate"`
}

// Periods lists every period in clock order from early morning.
var Periods = []Period{EarlyMorning, Morning, Lunch, Afternoon, Evening, Night}

// Valid reports whether p is a known period.
func (p Period) Valid() bool {
	for _, known := range Periods {
		if p == known {
			return true
		}
	}
	return false
}

// ValidateRules checks a rule table: periods must be known, categories part
// of the vocabulary, and no category may be listed twice for one period.
// Periods missing from the table score every category as unlisted.
func ValidateRules(rules map[Period]Rule) error {
	for period, rule := range rules {
		if !period.Valid() {
			return fmt.Errorf("unknown period %q", period)
		}
		seen := make(map[models.Category]bool)
		for _, list := range [][]models.Category{rule.Appropriate, rule.Marginal, rule.Inappropriate} {
			for _, c := range list {
				if !c.Valid() {
					return fmt.Errorf("period %s: unknown category %q", period, c)
				}
				if seen[c] {
					return fmt.Errorf("period %s: category %q listed more than once", period, c)
				}
				seen[c] = true
			}
		}
	}
	return nil
}

// DefaultRules returns the built-in period rule table.
func DefaultRules() map[Period]Rule {
	return map[Period]Rule{
		EarlyMorning: {
			Appropriate:   []models.Category{models.CategoryNature, models.CategoryWellness},
			Marginal:      []models.Category{models.CategoryDining, models.CategoryActivity},
			Inappropriate: []models.Category{models.CategoryNightlife, models.CategoryShopping, models.CategoryCulture},
		},
		Morning: {
			Appropriate:   []models.Category{models.CategoryCulture, models.CategoryNature, models.CategoryActivity, models.CategoryShopping, models.CategoryWellness},
			Marginal:      []models.Category{models.CategoryDining},
			Inappropriate: []models.Category{models.CategoryNightlife},
		},
		Lunch: {
			Appropriate:   []models.Category{models.CategoryDining},
			Marginal:      []models.Category{models.CategoryCulture, models.CategoryShopping, models.CategoryNature, models.CategoryActivity},
			Inappropriate: []models.Category{models.CategoryNightlife},
		},
		Afternoon: {
			Appropriate:   []models.Category{models.CategoryCulture, models.CategoryNature, models.CategoryShopping, models.CategoryActivity, models.CategoryWellness},
			Marginal:      []models.Category{models.CategoryDining},
			Inappropriate: []models.Category{models.CategoryNightlife},
		},
		Evening: {
			Appropriate: []models.Category{models.CategoryDining, models.CategoryNightlife},
			Marginal:    []models.Category{models.CategoryCulture, models.CategoryShopping, models.CategoryActivity, models.CategoryNature},
		},
		Night: {
			Appropriate:   []models.Category{models.CategoryNightlife},
			Marginal:      []models.Category{models.CategoryDining},
			Inappropriate: []models.Category{models.CategoryCulture, models.CategoryNature, models.CategoryShopping, models.CategoryActivity, models.CategoryWellness},
		},
	}
}

// Result is the time-appropriateness verdict for one activity.
type Result struct {
	Score         float64
	IsAppropriate bool
	Reason        string
	Period        Period
}

// Model scores activities against the hour of day. It holds no mutable
// state and is safe for concurrent use.
type Model struct {
	rules map[Period]Rule
}

// NewModel builds a model from a rule table. A nil table uses DefaultRules.
func NewModel(rules map[Period]Rule) *Model {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Model{rules: rules}
}

// Score evaluates an activity at the given local hour. The activity must
// have its capabilities computed; keyword overrides come from them.
func (m *Model) Score(a *models.Activity, hour int) Result {
	hour = normalizeHour(hour)
	period := PeriodForHour(hour)
	caps := a.Capabilities

	switch {
	case caps.Nightlife && IsLateEvening(hour):
		return verdict(ScoreNightlife, "Prime time for a night out", period)
	case caps.LateNight && IsLateEvening(hour):
		return verdict(ScoreLateNight, "Open late", period)
	case caps.DaylightOnly && (period == Night || period == EarlyMorning):
		return verdict(ScoreDaylightOnly, "Best visited in daylight", period)
	case caps.EarlyOpen && period == EarlyMorning:
		return verdict(ScoreEarlyOpen, "Great early start", period)
	}

	rule := m.rules[period]
	switch {
	case contains(rule.Appropriate, a.Category):
		return verdict(ScoreAppropriate, appropriateReason(a.Category, hour, period), period)
	case contains(rule.Marginal, a.Category):
		return verdict(ScoreMarginal, "", period)
	case contains(rule.Inappropriate, a.Category):
		return verdict(ScoreInappropriate, "", period)
	default:
		return verdict(ScoreUnlisted, "", period)
	}
}

func verdict(score float64, reason string, period Period) Result {
	return Result{
		Score:         score,
		IsAppropriate: score >= appropriateFloor,
		Reason:        reason,
		Period:        period,
	}
}

func appropriateReason(c models.Category, hour int, period Period) string {
	if c == models.CategoryDining {
		if meal := MealForHour(hour); meal != MealNone {
			return fmt.Sprintf("Perfect time for %s", meal)
		}
	}
	switch period {
	case EarlyMorning:
		return "Ideal before the crowds"
	case Morning:
		return "Great way to start the day"
	case Lunch:
		return "Good fit for midday"
	case Afternoon:
		return "Perfect for the afternoon"
	case Evening:
		return "Made for the evening"
	default:
		return "Right for this time of night"
	}
}

func contains(list []models.Category, c models.Category) bool {
	for _, v := range list {
		if v == c {
			return true
		}
	}
	return false
}
