// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

// Package preference scores how well an activity fits a user's preference
// profile: category interests, specific interests, avoidances, hidden-gem
// affinity, budget and dining style.
package preference

import (
	"fmt"
	"math"
	"strings"

	"github.com/tomtom215/tripsense/internal/keywords"
	"github.com/tomtom215/tripsense/internal/models"
)

// Fuzzy match strengths.
const (
	MatchDirect  = 1.0
	MatchSynonym = 0.8
	MatchPartial = 0.5

	neutral = 0.5
)

// interestShare is one interest's share in a category.
type interestShare struct {
	interest models.Interest
	share    float64
}

// categoryInterests maps each category onto the interest dimensions it
// represents.
var categoryInterests = map[models.Category][]interestShare{
	models.CategoryDining:    {{models.InterestFood, 1.0}},
	models.CategoryCulture:   {{models.InterestCulture, 0.5}, {models.InterestHistory, 0.3}, {models.InterestArt, 0.2}},
	models.CategoryNature:    {{models.InterestNature, 0.7}, {models.InterestAdventure, 0.15}, {models.InterestPhotography, 0.15}},
	models.CategoryNightlife: {{models.InterestNightlife, 1.0}},
	models.CategoryShopping:  {{models.InterestShopping, 1.0}},
	models.CategoryActivity:  {{models.InterestAdventure, 0.7}, {models.InterestRelaxation, 0.3}},
	models.CategoryWellness:  {{models.InterestRelaxation, 1.0}},
}

// CategoryAffinity returns how strongly the user's interest weights favour a
// category, in [0,1]. Categories with no interest mapping and users without
// interest weights score neutral.
func CategoryAffinity(c models.Category, prefs *models.UserPreferences) float64 {
	score, _ := categoryAffinity(c, prefs)
	return score
}

func categoryAffinity(c models.Category, prefs *models.UserPreferences) (float64, models.Interest) {
	shares := categoryInterests[c]
	if len(shares) == 0 || prefs == nil || len(prefs.InterestWeights) == 0 {
		return neutral, ""
	}
	var sum, total, best float64
	var top models.Interest
	for _, s := range shares {
		w := clamp01(prefs.Weight(s.interest, neutral))
		sum += s.share * w
		total += s.share
		if s.share*w > best {
			best = s.share * w
			top = s.interest
		}
	}
	return clamp01(sum / total), top
}

// provenance discounts observed and historical signals against stated ones.
func provenance(s models.Source) float64 {
	switch s {
	case models.SourceObserved:
		return 0.85
	case models.SourceHistorical:
		return 0.7
	default:
		return 1.0
	}
}

// budgetTier describes the acceptable price range of a budget level.
type budgetTier struct {
	min, max, ideal float64
}

var budgetTiers = map[models.BudgetLevel]budgetTier{
	models.BudgetLow:      {min: 0, max: 2, ideal: 1},
	models.BudgetModerate: {min: 1, max: 3, ideal: 2},
	models.BudgetUpscale:  {min: 2, max: 4, ideal: 3},
	models.BudgetLuxury:   {min: 3, max: 4, ideal: 4},
}

// SubScores exposes the individual components. Applicable reports which
// components carried a signal for this user and activity.
type SubScores struct {
	Category    float64 `json:"category"`
	Specific    float64 `json:"specific"`
	Avoidance   float64 `json:"avoidance"`
	HiddenGem   float64 `json:"hidden_gem"`
	Budget      float64 `json:"budget"`
	DiningStyle float64 `json:"dining_style"`

	SpecificApplicable    bool `json:"specific_applicable"`
	BudgetApplicable      bool `json:"budget_applicable"`
	DiningStyleApplicable bool `json:"dining_style_applicable"`
}

// Result is the preference verdict for one activity.
type Result struct {
	Score         float64   `json:"score"`
	Confidence    float64   `json:"confidence"`
	ShouldAvoid   bool      `json:"should_avoid"`
	IsStrongMatch bool      `json:"is_strong_match"`
	Reasons       []string  `json:"reasons,omitempty"`
	SubScores     SubScores `json:"sub_scores"`
}

// Model is the preference scorer. It holds only immutable configuration
// and keyword tables, so one Model can serve every session.
type Model struct {
	cfg          Config
	weights      Weights
	thesaurus    *keywords.Thesaurus
	diningStyles map[models.DiningStyle]*keywords.Matcher
}

// NewModel builds a model from configuration and keyword tables.
func NewModel(cfg Config, tables *keywords.Tables) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	styles := make(map[models.DiningStyle]*keywords.Matcher, len(tables.DiningStyles))
	for style, words := range tables.DiningStyles {
		styles[style] = keywords.NewMatcher(words)
	}
	return &Model{
		cfg:          cfg,
		weights:      cfg.Weights.Normalize(),
		thesaurus:    keywords.NewThesaurus(tables.Synonyms),
		diningStyles: styles,
	}, nil
}

// Neutral is the verdict for a user without preferences.
func Neutral() Result {
	return Result{Score: neutral, Confidence: 0}
}

// Score evaluates an activity against a preference profile. A nil profile
// yields the neutral verdict.
func (m *Model) Score(a *models.Activity, prefs *models.UserPreferences) Result {
	if prefs == nil {
		return Neutral()
	}

	text := a.FullText()
	var res Result
	sub := &res.SubScores

	cat, topInterest := categoryAffinity(a.Category, prefs)
	sub.Category = cat
	if cat >= 0.7 && topInterest != "" {
		res.Reasons = append(res.Reasons, fmt.Sprintf("Matches your love of %s", topInterest))
	}

	if len(prefs.SpecificInterests) > 0 {
		sub.SpecificApplicable = true
		score, tag := m.specificScore(prefs.SpecificInterests, text)
		sub.Specific = score
		if tag != "" {
			res.Reasons = append(res.Reasons, fmt.Sprintf("Matches your interest in %s", tag))
		}
	}

	strongest := m.strongestAvoidance(prefs.Avoidances, a, text)
	sub.Avoidance = clamp01(1 - strongest*m.cfg.AvoidancePenaltyMultiplier)
	res.ShouldAvoid = strongest >= m.cfg.ShouldAvoidThreshold

	sub.HiddenGem = hiddenGemScore(a, prefs)
	if prefs.PrefersHiddenGems && a.IsHiddenGem() {
		res.Reasons = append(res.Reasons, "A hidden gem, just your style")
	}

	if prefs.Budget != "" {
		if tier, ok := budgetTiers[prefs.Budget]; ok {
			sub.BudgetApplicable = true
			sub.Budget = budgetScore(a.PriceLevel, tier)
			if sub.Budget >= 0.85 {
				res.Reasons = append(res.Reasons, "Fits your budget")
			}
		}
	}

	if prefs.DiningStyle != models.DiningAny && a.Category == models.CategoryDining {
		sub.DiningStyleApplicable = true
		score, keywordHit := m.diningStyleScore(prefs.DiningStyle, a, text)
		sub.DiningStyle = score
		if keywordHit {
			res.Reasons = append(res.Reasons, fmt.Sprintf("Your kind of %s spot", strings.ReplaceAll(string(prefs.DiningStyle), "_", " ")))
		}
	}

	score, applicable := m.combine(sub)
	res.Score = score
	res.Confidence = clamp01(prefs.Confidence * (0.5 + 0.5*applicable))
	res.IsStrongMatch = res.Score > m.cfg.StrongMatchScore && res.Confidence >= m.cfg.MinConfidence
	return res
}

// combine weights the applicable sub-scores and renormalizes over them. It
// returns the score and the share of total weight that was applicable.
func (m *Model) combine(sub *SubScores) (float64, float64) {
	w := m.weights
	sum := w.Category*sub.Category + w.Avoidance*sub.Avoidance + w.HiddenGem*sub.HiddenGem
	weight := w.Category + w.Avoidance + w.HiddenGem

	if sub.SpecificApplicable {
		sum += w.Specific * sub.Specific
		weight += w.Specific
	}
	if sub.BudgetApplicable {
		sum += w.Budget * sub.Budget
		weight += w.Budget
	}
	if sub.DiningStyleApplicable {
		sum += w.DiningStyle * sub.DiningStyle
		weight += w.DiningStyle
	}
	if weight <= 0 {
		return neutral, 0
	}
	return clamp01(sum / weight), weight
}

// MatchTag grades how well a tag matches activity text: a direct substring,
// a thesaurus term, or a partial word match.
func (m *Model) MatchTag(tag, text string) float64 {
	t := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(tag, "_", " ")))
	if t == "" {
		return 0
	}
	if strings.Contains(text, t) {
		return MatchDirect
	}
	for _, related := range m.thesaurus.Related(t) {
		if keywords.ContainsPhrase(text, related) {
			return MatchSynonym
		}
	}
	for _, word := range strings.Fields(t) {
		if len(word) > 3 && strings.Contains(text, word) {
			return MatchPartial
		}
	}
	return 0
}

// specificScore averages matched tags by confidence and maps the result
// into [0.5, 1]. It also returns the best matching tag.
func (m *Model) specificScore(tags []models.InterestTag, text string) (float64, string) {
	var num, den, best float64
	var bestTag string
	for _, it := range tags {
		match := m.MatchTag(it.Tag, text)
		if match == 0 {
			continue
		}
		conf := clamp01(it.Confidence) * provenance(it.Source)
		num += conf * match
		den += conf
		if conf*match > best {
			best = conf * match
			bestTag = it.Tag
		}
	}
	if den == 0 {
		return neutral, ""
	}
	return clamp01(neutral + neutral*(num/den)), bestTag
}

// strongestAvoidance returns the strongest avoidance match in [0,1].
func (m *Model) strongestAvoidance(avoid []models.AvoidanceTag, a *models.Activity, text string) float64 {
	var strongest float64
	for _, av := range avoid {
		match := m.MatchTag(av.Tag, text)
		if m.cfg.CategoryAvoidance && strings.EqualFold(strings.TrimSpace(av.Tag), string(a.Category)) {
			match = MatchDirect
		}
		if s := match * clamp01(av.Strength) * provenance(av.Source); s > strongest {
			strongest = s
		}
	}
	return strongest
}

// hiddenGemScore is 1.0/0.4 for gem seekers and a light inversion
// (0.5/0.6) for everyone else. The profile's confidence enters through the
// preference component's confidence, not here.
func hiddenGemScore(a *models.Activity, prefs *models.UserPreferences) float64 {
	gem := a.IsHiddenGem()
	if prefs.PrefersHiddenGems {
		if gem {
			return 1.0
		}
		return 0.4
	}
	if gem {
		return 0.5
	}
	return 0.6
}

func budgetScore(price *int, tier budgetTier) float64 {
	if price == nil {
		return neutral
	}
	p := math.Max(0, math.Min(4, float64(*price)))
	if p >= tier.min && p <= tier.max {
		return clamp01(1 - 0.15*math.Abs(p-tier.ideal))
	}
	d := tier.min - p
	if p > tier.max {
		d = p - tier.max
	}
	return math.Max(0.1, 0.7-0.25*d)
}

func (m *Model) diningStyleScore(style models.DiningStyle, a *models.Activity, text string) (float64, bool) {
	if matcher, ok := m.diningStyles[style]; ok && matcher.Contains(text) {
		return 0.9, true
	}
	if a.PriceLevel == nil {
		return neutral, false
	}
	p := *a.PriceLevel
	switch {
	case style == models.DiningFine && p >= 3:
		return 0.8, false
	case style == models.DiningStreetFood && p <= 1:
		return 0.8, false
	case style == models.DiningCasual && p >= 1 && p <= 2:
		return 0.7, false
	case style == models.DiningLocal && p <= 2:
		return 0.7, false
	case style == models.DiningCafe && p <= 1:
		return 0.7, false
	default:
		return 0.4, false
	}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
