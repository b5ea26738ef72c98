// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package models

// Interest is one of the broad interest dimensions a user can weight.
type Interest string

const (
	InterestFood        Interest = "food"
	InterestCulture     Interest = "culture"
	InterestHistory     Interest = "history"
	InterestArt         Interest = "art"
	InterestNature      Interest = "nature"
	InterestAdventure   Interest = "adventure"
	InterestNightlife   Interest = "nightlife"
	InterestShopping    Interest = "shopping"
	InterestRelaxation  Interest = "relaxation"
	InterestPhotography Interest = "photography"
)

// Interests lists every interest dimension.
var Interests = []Interest{
	InterestFood, InterestCulture, InterestHistory, InterestArt, InterestNature,
	InterestAdventure, InterestNightlife, InterestShopping, InterestRelaxation,
	InterestPhotography,
}

// Source records where a preference signal came from.
type Source string

const (
	SourceStated     Source = "stated"
	SourceObserved   Source = "observed"
	SourceHistorical Source = "historical"
)

// InterestTag is a specific interest such as "street food" or "jazz".
type InterestTag struct {
	Tag        string  `json:"tag" validate:"required,max=128"`
	Confidence float64 `json:"confidence" validate:"gte=0,lte=1"`
	Source     Source  `json:"source,omitempty"`
}

// AvoidanceTag is something the user does not want to be offered.
type AvoidanceTag struct {
	Tag      string  `json:"tag" validate:"required,max=128"`
	Strength float64 `json:"strength" validate:"gte=0,lte=1"`
	Source   Source  `json:"source,omitempty"`
}

// BudgetLevel is the user's four-tier budget.
type BudgetLevel string

const (
	BudgetLow      BudgetLevel = "budget"
	BudgetModerate BudgetLevel = "moderate"
	BudgetUpscale  BudgetLevel = "upscale"
	BudgetLuxury   BudgetLevel = "luxury"
)

// DiningStyle is the user's preferred way of eating out.
type DiningStyle string

const (
	DiningAny        DiningStyle = ""
	DiningCasual     DiningStyle = "casual"
	DiningFine       DiningStyle = "fine_dining"
	DiningStreetFood DiningStyle = "street_food"
	DiningLocal      DiningStyle = "local"
	DiningCafe       DiningStyle = "cafe"
)

// UserPreferences is the learned and stated preference profile of a user.
type UserPreferences struct {
	// InterestWeights maps interest dimensions to 0-1 weights. Missing
	// dimensions are treated as neutral.
	InterestWeights map[Interest]float64 `json:"interest_weights,omitempty"`

	SpecificInterests []InterestTag  `json:"specific_interests,omitempty" validate:"max=200,dive"`
	Avoidances        []AvoidanceTag `json:"avoidances,omitempty" validate:"max=200,dive"`

	Budget      BudgetLevel `json:"budget,omitempty"`
	DiningStyle DiningStyle `json:"dining_style,omitempty"`

	PrefersHiddenGems   bool    `json:"prefers_hidden_gems,omitempty"`
	HiddenGemConfidence float64 `json:"hidden_gem_confidence,omitempty" validate:"gte=0,lte=1"`

	// Confidence is the overall confidence in this profile (0-1).
	Confidence float64 `json:"confidence" validate:"gte=0,lte=1"`
}

// Weight returns the weight for an interest, or def when unset.
func (p *UserPreferences) Weight(i Interest, def float64) float64 {
	if p == nil || p.InterestWeights == nil {
		return def
	}
	if w, ok := p.InterestWeights[i]; ok {
		return w
	}
	return def
}

// Clone returns a deep copy so callers can hand preferences to a session
// without sharing slices or maps.
func (p *UserPreferences) Clone() *UserPreferences {
	if p == nil {
		return nil
	}
	c := *p
	if p.InterestWeights != nil {
		c.InterestWeights = make(map[Interest]float64, len(p.InterestWeights))
		for k, v := range p.InterestWeights {
			c.InterestWeights[k] = v
		}
	}
	c.SpecificInterests = append([]InterestTag(nil), p.SpecificInterests...)
	c.Avoidances = append([]AvoidanceTag(nil), p.Avoidances...)
	return &c
}
