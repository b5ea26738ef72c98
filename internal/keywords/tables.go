// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package keywords

import "github.com/tomtom215/tripsense/internal/models"

// Tables are the keyword lists the models classify activities with. They are
// plain data, injected at construction and never mutated afterwards. Start
// from DefaultTables and override individual lists to customize behaviour.
type Tables struct {
	// Time-of-day signals.
	Nightlife    []string `json:"nightlife" koanf:"nightlife"`
	LateNight    []string `json:"late_night" koanf:"late_night"`
	DaylightOnly []string `json:"daylight_only" koanf:"daylight_only"`
	EarlyOpen    []string `json:"early_open" koanf:"early_open"`

	// Weather capability signals.
	Outdoor   []string `json:"outdoor" koanf:"outdoor"`
	Indoor    []string `json:"indoor" koanf:"indoor"`
	Cooling   []string `json:"cooling" koanf:"cooling"`
	Warming   []string `json:"warming" koanf:"warming"`
	Viewpoint []string `json:"viewpoint" koanf:"viewpoint"`
	Scenic    []string `json:"scenic" koanf:"scenic"`

	// Synonyms maps an interest tag to related terms.
	Synonyms map[string][]string `json:"synonyms" koanf:"synonyms"`

	// DiningStyles maps a dining style to keywords that signal it.
	DiningStyles map[models.DiningStyle][]string `json:"dining_styles" koanf:"dining_styles"`
}

// DefaultTables returns a fresh copy of the built-in keyword tables.
func DefaultTables() Tables {
	return Tables{
		Nightlife: []string{
			"bar", "pub", "nightclub", "night club", "cocktail", "lounge",
			"speakeasy", "karaoke", "brewery", "taproom", "live music",
			"jazz", "disco", "wine bar", "beer hall",
		},
		LateNight: []string{
			"late night", "24 hour", "24 hours", "night market", "diner",
			"izakaya", "kebab", "cinema", "casino", "bowling", "comedy club",
		},
		DaylightOnly: []string{
			"park", "garden", "botanical garden", "beach", "hiking", "trail",
			"zoo", "museum", "gallery", "playground", "farm", "vineyard",
			"nature reserve",
		},
		EarlyOpen: []string{
			"bakery", "breakfast", "coffee", "cafe", "café", "brunch",
			"sunrise", "yoga", "farmers market",
		},
		Outdoor: []string{
			"park", "garden", "beach", "hike", "hiking", "trail", "viewpoint",
			"lookout", "zoo", "outdoor", "open air", "open-air", "terrace",
			"rooftop", "beer garden", "lake", "river", "waterfall", "mountain",
			"square", "plaza", "market", "boat", "kayak", "cycling",
			"bike tour", "walking tour", "pier", "promenade", "vineyard",
		},
		Indoor: []string{
			"museum", "gallery", "mall", "shopping centre", "shopping center",
			"cinema", "theatre", "theater", "aquarium", "spa", "sauna",
			"library", "indoor", "arcade", "bowling", "escape room",
			"restaurant", "cafe", "café", "bar", "pub", "cathedral",
			"planetarium", "concert hall",
		},
		Cooling: []string{
			"ice cream", "gelato", "pool", "swimming", "water park", "aquarium",
			"mall", "cinema", "beach", "lake", "air conditioned",
			"frozen yogurt", "shaved ice",
		},
		Warming: []string{
			"cafe", "café", "coffee", "tea", "tea house", "spa", "sauna",
			"hot spring", "onsen", "bath", "soup", "ramen", "fondue", "hammam",
		},
		Viewpoint: []string{
			"viewpoint", "lookout", "observation deck", "observatory", "tower",
			"panorama", "panoramic", "summit", "rooftop", "skyline",
			"scenic overlook",
		},
		Scenic: []string{
			"beach", "waterfront", "promenade", "bridge", "harbour", "harbor",
			"pier", "garden", "lake", "hill", "sunset", "river", "canal",
		},
		Synonyms: map[string][]string{
			"food":         {"restaurant", "dining", "eatery", "bistro", "cafe", "street food", "market"},
			"coffee":       {"cafe", "café", "espresso", "roastery"},
			"art":          {"gallery", "museum", "exhibition", "mural"},
			"history":      {"museum", "historic", "heritage", "castle", "monument", "ruins"},
			"nature":       {"park", "garden", "hike", "trail", "forest", "beach"},
			"nightlife":    {"bar", "pub", "nightclub", "cocktail", "lounge"},
			"music":        {"jazz", "concert", "live music", "gig"},
			"shopping":     {"market", "boutique", "mall", "store"},
			"wellness":     {"spa", "yoga", "sauna", "massage"},
			"photography":  {"viewpoint", "lookout", "scenic", "skyline"},
			"wine":         {"winery", "vineyard", "wine bar", "tasting"},
			"beer":         {"brewery", "taproom", "pub", "beer hall"},
			"street food":  {"hawker", "food truck", "stall", "night market"},
			"seafood":      {"fish", "oyster", "sushi"},
			"hiking":       {"trail", "hike", "trek", "mountain"},
			"architecture": {"cathedral", "church", "building", "bridge", "tower"},
		},
		DiningStyles: map[models.DiningStyle][]string{
			models.DiningFine:       {"fine dining", "michelin", "tasting menu", "gourmet", "degustation"},
			models.DiningStreetFood: {"street food", "food truck", "stall", "hawker", "night market"},
			models.DiningCasual:     {"bistro", "diner", "casual", "pizza", "burger", "pub"},
			models.DiningLocal:      {"traditional", "local", "family run", "family-run", "regional"},
			models.DiningCafe:       {"cafe", "café", "coffee", "bakery", "tea house"},
		},
	}
}
