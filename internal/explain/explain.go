// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

// Package explain turns a score breakdown into a short "why now" message:
// a primary and secondary reason, an optional urgency line and a tip.
package explain

import (
	"fmt"
	"hash/fnv"
	"math"
	"sort"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/tomtom215/tripsense/internal/models"
)

// Fixed reason texts.
const (
	ItineraryReason = "On your itinerary for today"
	FallbackReason  = "Recommended for you"
	RainUrgency     = "Rain expected later, go now"
)

// Config configures the generator.
type Config struct {
	// ClosingSoon is how close to closing time an urgency line appears.
	ClosingSoon time.Duration `json:"closing_soon" koanf:"closing_soon"`

	// RainUrgencyChance is the precipitation chance (percent) at which
	// outdoor activities get a rain urgency line.
	RainUrgencyChance float64 `json:"rain_urgency_chance" koanf:"rain_urgency_chance"`

	// RainUrgencyWindow is how long a rain urgency stays relevant.
	RainUrgencyWindow time.Duration `json:"rain_urgency_window" koanf:"rain_urgency_window"`

	// PopularRating and PopularReviews qualify the "crowd favourite" tip.
	PopularRating  float64 `json:"popular_rating" koanf:"popular_rating"`
	PopularReviews int     `json:"popular_reviews" koanf:"popular_reviews"`

	HiddenGemTips []string                   `json:"hidden_gem_tips" koanf:"hidden_gem_tips"`
	CategoryTips  map[models.Category]string `json:"category_tips" koanf:"category_tips"`
}

// DefaultConfig returns the built-in texts and thresholds.
func DefaultConfig() Config {
	return Config{
		ClosingSoon:       time.Hour,
		RainUrgencyChance: 60,
		RainUrgencyWindow: 2 * time.Hour,
		PopularRating:     4.5,
		PopularReviews:    500,
		HiddenGemTips: []string{
			"Locals love this one, few tourists find it",
			"Off the usual guidebook trail",
			"Ask the staff for their personal favourite",
			"Quietest on weekday afternoons",
		},
		CategoryTips: map[models.Category]string{
			models.CategoryDining:    "Ask about the dish of the day",
			models.CategoryCulture:   "Check for free guided tours",
			models.CategoryNature:    "Bring water and comfortable shoes",
			models.CategoryNightlife: "Things get lively after 22:00",
			models.CategoryShopping:  "Many shops close early on Sundays",
			models.CategoryActivity:  "Booking ahead often saves time",
			models.CategoryWellness:  "Reserve a slot to avoid waiting",
		},
	}
}

// Generator builds WhyNowReason values. It is stateless and deterministic:
// the same breakdown, activity and context always produce the same output.
type Generator struct {
	cfg Config
}

// NewGenerator creates a generator.
func NewGenerator(cfg Config) *Generator {
	return &Generator{cfg: cfg}
}

// Explain builds the explanation for one scored activity.
func (g *Generator) Explain(b *models.ScoreBreakdown, a *models.Activity, ctx *models.Context) models.WhyNowReason {
	reasons := rankedReasons(b)

	var why models.WhyNowReason
	switch {
	case len(reasons) > 0:
		why.Primary = reasons[0].Reason
		why.PrimaryCategory = reasons[0].Name
		if len(reasons) > 1 {
			why.Secondary = &models.Reason{Category: reasons[1].Name, Text: reasons[1].Reason}
		}
	case ctx != nil && ctx.IsPlanned(a.ID):
		why.Primary = ItineraryReason
		why.PrimaryCategory = models.ComponentItinerary
	default:
		why.Primary = FallbackReason
		why.PrimaryCategory = models.ComponentDefault
	}

	why.Urgency = g.urgency(b, a, ctx)
	if why.Urgency != "" && ctx != nil && !ctx.Now.IsZero() {
		why.UrgencyExpiresAt = g.urgencyExpiry(why.Urgency, a, ctx.Now)
	}
	why.Tip, why.TipSource = g.tip(a)
	return why
}

// rankedReasons returns components with a reason and a positive
// contribution, strongest first.
func rankedReasons(b *models.ScoreBreakdown) []models.ScoreComponent {
	if b == nil {
		return nil
	}
	out := make([]models.ScoreComponent, 0, len(b.Components))
	for _, c := range b.Components {
		if c.Reason != "" && c.Contribution > 0 {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Contribution > out[j].Contribution
	})
	return out
}

func (g *Generator) urgency(b *models.ScoreBreakdown, a *models.Activity, ctx *models.Context) string {
	if ctx != nil && !ctx.Now.IsZero() && a.ClosesAt != nil && (a.OpenNow == nil || *a.OpenNow) {
		left := a.ClosesAt.Sub(ctx.Now)
		if left > 0 && left <= g.cfg.ClosingSoon {
			return fmt.Sprintf("Closes in %d min", int(math.Ceil(left.Minutes())))
		}
	}
	if ctx != nil && ctx.Weather != nil && !ctx.Weather.Condition.IsWet() &&
		ctx.Weather.PrecipitationChance >= g.cfg.RainUrgencyChance && a.Capabilities.Outdoor {
		return RainUrgency
	}
	if b != nil {
		return b.Urgency
	}
	return ""
}

// urgencyExpiry returns when an urgency line stops being relevant.
func (g *Generator) urgencyExpiry(urgency string, a *models.Activity, now time.Time) time.Time {
	switch {
	case urgency == RainUrgency:
		return now.Add(g.cfg.RainUrgencyWindow)
	case a.ClosesAt != nil && a.ClosesAt.After(now):
		return *a.ClosesAt
	default:
		return now.Add(g.cfg.RainUrgencyWindow)
	}
}

func (g *Generator) tip(a *models.Activity) (string, models.TipSource) {
	if a.IsHiddenGem() && len(g.cfg.HiddenGemTips) > 0 {
		h := fnv.New32a()
		_, _ = h.Write([]byte(a.ID))
		return g.cfg.HiddenGemTips[h.Sum32()%uint32(len(g.cfg.HiddenGemTips))], models.TipHiddenGem
	}
	if a.Rating != nil && *a.Rating >= g.cfg.PopularRating && a.ReviewCount >= g.cfg.PopularReviews {
		return fmt.Sprintf("Rated %.1f from %s reviews", *a.Rating, humanize.Comma(int64(a.ReviewCount))), models.TipPopular
	}
	if tip, ok := g.cfg.CategoryTips[a.Category]; ok && tip != "" {
		return tip, models.TipCategory
	}
	return "", ""
}
