// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package models

import (
	"strings"
	"time"
)

// Category is the fixed activity vocabulary used by every scoring model.
type Category string

const (
	CategoryDining    Category = "dining"
	CategoryCulture   Category = "culture"
	CategoryNature    Category = "nature"
	CategoryNightlife Category = "nightlife"
	CategoryShopping  Category = "shopping"
	// CategoryActivity covers leisure activities (tours, sports, attractions).
	CategoryActivity Category = "activity"
	CategoryWellness Category = "wellness"
	CategoryOther    Category = "other"
)

// Categories lists every known category in a stable order.
var Categories = []Category{
	CategoryDining,
	CategoryCulture,
	CategoryNature,
	CategoryNightlife,
	CategoryShopping,
	CategoryActivity,
	CategoryWellness,
	CategoryOther,
}

// categoryAliases maps upstream catalog labels onto the fixed vocabulary.
var categoryAliases = map[string]Category{
	"food_drink":       CategoryDining,
	"food":             CategoryDining,
	"restaurant":       CategoryDining,
	"restaurants":      CategoryDining,
	"cafe":             CategoryDining,
	"museum":           CategoryCulture,
	"history":          CategoryCulture,
	"art":              CategoryCulture,
	"sightseeing":      CategoryCulture,
	"outdoors":         CategoryNature,
	"park":             CategoryNature,
	"bar":              CategoryNightlife,
	"bars":             CategoryNightlife,
	"entertainment":    CategoryNightlife,
	"market":           CategoryShopping,
	"leisure":          CategoryActivity,
	"leisure_activity": CategoryActivity,
	"attraction":       CategoryActivity,
	"tour":             CategoryActivity,
	"spa":              CategoryWellness,
	"relaxation":       CategoryWellness,
}

// ParseCategory normalizes a free-form category label. Unknown labels map to
// CategoryOther so callers never need to handle an error.
func ParseCategory(s string) Category {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, "-", "_")
	key = strings.ReplaceAll(key, " ", "_")
	for _, c := range Categories {
		if string(c) == key {
			return c
		}
	}
	if c, ok := categoryAliases[key]; ok {
		return c
	}
	return CategoryOther
}

// Valid reports whether c is part of the fixed vocabulary.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Coordinates is a WGS84 point in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"lat" validate:"latitude"`
	Longitude float64 `json:"lon" validate:"longitude"`
}

// Capabilities are classification flags derived from an activity's category,
// name and types. They are computed once at ingestion.
type Capabilities struct {
	// Computed is false until a classifier has populated the set.
	Computed bool `json:"computed"`

	Outdoor   bool `json:"outdoor"`
	Indoor    bool `json:"indoor"`
	Cooling   bool `json:"cooling"`
	Warming   bool `json:"warming"`
	Viewpoint bool `json:"viewpoint"`
	Scenic    bool `json:"scenic"`

	// Time-of-day keyword signals.
	Nightlife    bool `json:"nightlife"`
	LateNight    bool `json:"late_night"`
	DaylightOnly bool `json:"daylight_only"`
	EarlyOpen    bool `json:"early_open"`
}

// Activity is a candidate place or experience.
type Activity struct {
	// ID uniquely identifies the activity (usually the upstream place id).
	ID string `json:"id" validate:"required,max=256"`

	// Name is the display name.
	Name string `json:"name" validate:"required,max=512"`

	// Description is optional free text.
	Description string `json:"description,omitempty" validate:"max=4096"`

	// Category is the normalized activity category.
	Category Category `json:"category"`

	// Types are upstream place types or tags ("bar", "museum", "rooftop").
	Types []string `json:"types,omitempty" validate:"max=64,dive,max=128"`

	// Location is nil when the catalog has no coordinates.
	Location *Coordinates `json:"location,omitempty"`

	// Rating is the average review score on a 0-5 scale.
	Rating *float64 `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`

	// ReviewCount is the number of reviews behind Rating.
	ReviewCount int `json:"review_count,omitempty" validate:"gte=0"`

	// PriceLevel is the 0-4 price tier.
	PriceLevel *int `json:"price_level,omitempty" validate:"omitempty,gte=0,lte=4"`

	// HiddenGem marks curated low-profile, high-quality places.
	HiddenGem bool `json:"hidden_gem,omitempty"`

	// HiddenGemScore grades how much of a hidden gem the place is (0-1).
	HiddenGemScore float64 `json:"hidden_gem_score,omitempty" validate:"gte=0,lte=1"`

	// OpenNow is nil when opening hours are unknown.
	OpenNow *bool `json:"open_now,omitempty"`

	// ClosesAt is the next closing time, if known.
	ClosesAt *time.Time `json:"closes_at,omitempty"`

	// City is the city the activity belongs to.
	City string `json:"city,omitempty"`

	// Capabilities is populated at ingestion.
	Capabilities Capabilities `json:"capabilities"`
}

// IsHiddenGem reports whether the activity counts as a hidden gem.
func (a *Activity) IsHiddenGem() bool {
	return a.HiddenGem || a.HiddenGemScore >= HiddenGemThreshold
}

// HiddenGemThreshold is the score at which an unflagged activity still counts
// as a hidden gem.
const HiddenGemThreshold = 0.7

// SearchText returns the lower-cased name and types joined for keyword scans.
func (a *Activity) SearchText() string {
	var b strings.Builder
	b.WriteString(strings.ToLower(a.Name))
	for _, t := range a.Types {
		b.WriteByte(' ')
		b.WriteString(strings.ToLower(strings.ReplaceAll(t, "_", " ")))
	}
	return b.String()
}

// FullText extends SearchText with the description and category.
func (a *Activity) FullText() string {
	var b strings.Builder
	b.WriteString(a.SearchText())
	if a.Description != "" {
		b.WriteByte(' ')
		b.WriteString(strings.ToLower(a.Description))
	}
	b.WriteByte(' ')
	b.WriteString(string(a.Category))
	return b.String()
}
