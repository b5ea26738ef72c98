// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package recommend

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/tripsense/internal/models"
)

// fakeClock is a settable clock for cache and idle tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestSession(t *testing.T, mutate func(*Config), opts ...SessionOption) *Session {
	t.Helper()
	return NewSession("test", newTestScorer(t, mutate), zerolog.Nop(), opts...)
}

func TestSession_NearbyDinnerRanksFirst(t *testing.T) {
	t.Parallel()

	s := newTestSession(t, nil)
	s.SetPreferences(foodLover())

	resp, err := s.Recommend(context.Background(), Request{
		Activities: []models.Activity{trattoria("far", romeFar), trattoria("near", romeNear)},
		Context:    sunnyEvening(),
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(resp.Items))
	}
	top := resp.Items[0]
	if top.Activity.ID != "near" || top.Rank != 1 {
		t.Errorf("top = %s (rank %d), want near at rank 1", top.Activity.ID, top.Rank)
	}
	if top.Breakdown.FinalScore <= 0.75 {
		t.Errorf("top score = %f, want > 0.75", top.Breakdown.FinalScore)
	}
	if top.Why == nil || top.Why.Primary == "" {
		t.Error("top result missing explanation")
	}
	if resp.Metadata.Mode != ModeBalanced {
		t.Errorf("mode = %s, want balanced", resp.Metadata.Mode)
	}
}

func TestSession_UnknownModeFallsBackToBalanced(t *testing.T) {
	t.Parallel()

	s := newTestSession(t, nil)
	resp, err := s.Recommend(context.Background(), Request{
		Activities: []models.Activity{trattoria("a", romeNear)},
		Context:    sunnyEvening(),
		Mode:       "hyperdrive",
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	balanced, _ := Preset(ModeBalanced)
	if resp.Metadata.Mode != ModeBalanced || resp.Metadata.Weights != balanced {
		t.Errorf("metadata = %+v, want balanced", resp.Metadata)
	}
}

func TestSession_ExcludesCompletedAndAvoided(t *testing.T) {
	t.Parallel()

	s := newTestSession(t, nil)
	s.SetPreferences(&models.UserPreferences{
		Avoidances: []models.AvoidanceTag{{Tag: "nightclub", Strength: 1.0, Source: models.SourceStated}},
		Confidence: 0.9,
	})

	club := models.Activity{ID: "club", Name: "Club Neon", Category: models.CategoryNightlife, Types: []string{"nightclub"}}
	ctx := sunnyEvening()
	ctx.Completed = models.IDSet([]string{"done"})

	resp, err := s.Recommend(context.Background(), Request{
		Activities: []models.Activity{club, trattoria("done", romeNear), trattoria("open", romeNear)},
		Context:    ctx,
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].Activity.ID != "open" {
		t.Fatalf("items = %+v, want only open", resp.Items)
	}
	if resp.Metadata.Excluded != 2 {
		t.Errorf("excluded = %d, want 2", resp.Metadata.Excluded)
	}
}

func TestSession_RecomputesClientCapabilities(t *testing.T) {
	t.Parallel()

	s := newTestSession(t, nil)
	club := models.Activity{
		ID:           "club",
		Name:         "Club Neon",
		Category:     models.CategoryNightlife,
		Types:        []string{"nightclub"},
		Capabilities: models.Capabilities{Computed: true, DaylightOnly: true},
	}
	c := sunnyEvening()
	c.Hour = 23
	c.Now = time.Date(2026, 6, 12, 23, 0, 0, 0, time.UTC)

	resp, err := s.Recommend(context.Background(), Request{Activities: []models.Activity{club}, Context: c})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	got := resp.Items[0]
	if caps := got.Activity.Capabilities; caps.DaylightOnly || !caps.Nightlife {
		t.Errorf("capabilities = %+v, want recomputed nightlife", caps)
	}
	for _, comp := range got.Breakdown.Components {
		if comp.Name == models.ComponentTime && comp.Value < 0.9 {
			t.Errorf("time value = %f, want nightlife prime time", comp.Value)
		}
	}
}

func TestSession_SkipPenalty(t *testing.T) {
	t.Parallel()

	s := newTestSession(t, func(c *Config) { c.Surprise = false })
	ctx := sunnyEvening()

	before, err := s.Recommend(context.Background(), Request{
		Activities: []models.Activity{trattoria("a", romeNear)},
		Context:    ctx,
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	ctx.Skipped = models.IDSet([]string{"a"})
	after, err := s.Recommend(context.Background(), Request{
		Activities: []models.Activity{trattoria("a", romeNear)},
		Context:    ctx,
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	diff := before.Items[0].Breakdown.FinalScore - after.Items[0].Breakdown.FinalScore
	if math.Abs(diff-0.15) > 1e-9 {
		t.Errorf("skip penalty = %f, want 0.15", diff)
	}
}

func TestSession_EnrichmentCache(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: dinnerAt7}
	s := newTestSession(t, nil, WithClock(clock.Now))
	req := Request{
		Activities: []models.Activity{trattoria("a", romeNear), trattoria("b", romeFar)},
		Context:    sunnyEvening(),
	}

	run := func(label string, wantHits int) {
		t.Helper()
		resp, err := s.Recommend(context.Background(), req)
		if err != nil {
			t.Fatalf("%s: Recommend: %v", label, err)
		}
		if resp.Metadata.CacheHits != wantHits {
			t.Errorf("%s: cache hits = %d, want %d", label, resp.Metadata.CacheHits, wantHits)
		}
	}

	run("cold", 0)
	run("warm", 2)

	// Within rounding precision: still cached.
	req.Context.Location = &models.Coordinates{Latitude: rome.Latitude + 0.0001, Longitude: rome.Longitude}
	run("jitter", 2)

	// A real move invalidates.
	req.Context.Location = &models.Coordinates{Latitude: rome.Latitude + 0.01, Longitude: rome.Longitude}
	run("moved", 0)
	run("moved warm", 2)

	s.SetPreferences(foodLover())
	run("preferences changed", 0)

	req.Context.Weather = &models.WeatherContext{Condition: models.WeatherRain, TemperatureC: 15, PrecipitationChance: 90}
	run("weather changed", 0)
	run("weather warm", 2)

	req.Context.Weather = &models.WeatherContext{Condition: models.WeatherRain, TemperatureC: 15, PrecipitationChance: 60}
	run("precipitation changed", 0)

	req.Context.Weather = &models.WeatherContext{Condition: models.WeatherRain, TemperatureC: 31, PrecipitationChance: 60}
	run("temperature changed", 0)

	clock.Advance(6 * time.Minute)
	run("expired", 0)
}

func TestSession_WeatherScoreFollowsForecast(t *testing.T) {
	t.Parallel()

	s := newTestSession(t, nil)
	loc := romeNear
	park := models.Activity{ID: "park", Name: "Villa Ada", Category: models.CategoryNature, Types: []string{"park"}, Location: &loc}
	c := sunnyEvening()
	c.Weather = &models.WeatherContext{Condition: models.WeatherCloudy, TemperatureC: 20, PrecipitationChance: 5}

	weatherValue := func() float64 {
		t.Helper()
		resp, err := s.Recommend(context.Background(), Request{Activities: []models.Activity{park}, Context: c})
		if err != nil {
			t.Fatalf("Recommend: %v", err)
		}
		for _, comp := range resp.Items[0].Breakdown.Components {
			if comp.Name == models.ComponentWeather {
				return comp.Value
			}
		}
		t.Fatal("no weather component")
		return 0
	}

	dry := weatherValue()
	c.Weather = &models.WeatherContext{Condition: models.WeatherCloudy, TemperatureC: 20, PrecipitationChance: 95}
	wet := weatherValue()
	if wet >= dry {
		t.Errorf("weather value with rain likely = %f, want below dry %f", wet, dry)
	}
}

func TestSession_CacheDisabled(t *testing.T) {
	t.Parallel()

	s := newTestSession(t, func(c *Config) { c.Cache.Enabled = false })
	req := Request{Activities: []models.Activity{trattoria("a", romeNear)}, Context: sunnyEvening()}
	for i := 0; i < 2; i++ {
		resp, err := s.Recommend(context.Background(), req)
		if err != nil {
			t.Fatalf("Recommend: %v", err)
		}
		if resp.Metadata.CacheHits != 0 {
			t.Errorf("cache hits = %d, want 0", resp.Metadata.CacheHits)
		}
	}
}

func gems() []models.Activity {
	out := make([]models.Activity, 0, 6)
	for _, id := range []string{"g1", "g2", "g3", "g4", "g5", "g6"} {
		loc := romeNear
		out = append(out, models.Activity{
			ID:             id,
			Name:           "Secret courtyard " + id,
			Category:       models.CategoryCulture,
			Location:       &loc,
			HiddenGem:      true,
			HiddenGemScore: 0.8,
		})
	}
	return out
}

func TestSession_SurpriseIsDeterministic(t *testing.T) {
	t.Parallel()

	ctx := sunnyEvening()
	ctx.Hour = 15
	req := Request{Activities: gems(), Context: ctx, Limit: 6}

	var picks [2][]string
	for i := range picks {
		s := newTestSession(t, nil)
		for j := 0; j < 5; j++ {
			resp, err := s.Recommend(context.Background(), req)
			if err != nil {
				t.Fatalf("Recommend: %v", err)
			}
			if resp.Metadata.SurpriseID == "" {
				t.Fatal("expected a surprise pick among hidden gems")
			}
			picks[i] = append(picks[i], resp.Metadata.SurpriseID)
		}
	}
	for j := range picks[0] {
		if picks[0][j] != picks[1][j] {
			t.Fatalf("surprise sequences differ: %v vs %v", picks[0], picks[1])
		}
	}
}

func TestSession_SurpriseBoostsPick(t *testing.T) {
	t.Parallel()

	ctx := sunnyEvening()
	ctx.Hour = 15
	s := newTestSession(t, nil, WithRandSource(rand.NewSource(7)))
	resp, err := s.Recommend(context.Background(), Request{Activities: gems(), Context: ctx, Limit: 6})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	var found bool
	for _, it := range resp.Items {
		if !it.Breakdown.Surprise {
			continue
		}
		found = true
		if it.Activity.ID != resp.Metadata.SurpriseID {
			t.Errorf("surprise flag on %s, metadata says %s", it.Activity.ID, resp.Metadata.SurpriseID)
		}
		if v := it.Breakdown.Value(models.ComponentSerendipity); v != 1.0 {
			t.Errorf("boosted serendipity = %f, want 1.0", v)
		}
	}
	if !found {
		t.Fatal("no item flagged as surprise")
	}
}

func TestSession_SurpriseDisabled(t *testing.T) {
	t.Parallel()

	s := newTestSession(t, func(c *Config) { c.Surprise = false })
	resp, err := s.Recommend(context.Background(), Request{Activities: gems(), Context: sunnyEvening()})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if resp.Metadata.SurpriseID != "" {
		t.Errorf("surprise = %q, want none", resp.Metadata.SurpriseID)
	}
}

func TestSession_Limits(t *testing.T) {
	t.Parallel()

	t.Run("too many candidates", func(t *testing.T) {
		s := newTestSession(t, func(c *Config) { c.Limits.MaxCandidates = 1 })
		_, err := s.Recommend(context.Background(), Request{
			Activities: []models.Activity{trattoria("a", romeNear), trattoria("b", romeFar)},
			Context:    sunnyEvening(),
		})
		if !errors.Is(err, ErrTooManyCandidates) {
			t.Errorf("err = %v, want ErrTooManyCandidates", err)
		}
	})

	t.Run("result limit", func(t *testing.T) {
		s := newTestSession(t, nil)
		resp, err := s.Recommend(context.Background(), Request{
			Activities: gems(),
			Context:    sunnyEvening(),
			Limit:      2,
		})
		if err != nil {
			t.Fatalf("Recommend: %v", err)
		}
		if len(resp.Items) != 2 {
			t.Errorf("items = %d, want 2", len(resp.Items))
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		s := newTestSession(t, nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := s.Recommend(ctx, Request{Activities: gems(), Context: sunnyEvening()})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	})
}

func TestSession_ConcurrentRequests(t *testing.T) {
	t.Parallel()

	s := newTestSession(t, nil)
	s.SetPreferences(foodLover())
	req := Request{
		Activities: append(gems(), trattoria("a", romeNear), trattoria("b", romeFar)),
		Context:    sunnyEvening(),
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Recommend(context.Background(), req); err != nil {
				t.Errorf("Recommend: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := s.RequestCount(); got != 8 {
		t.Errorf("request count = %d, want 8", got)
	}
}

func TestSession_PreferencesAreCopied(t *testing.T) {
	t.Parallel()

	s := newTestSession(t, nil)
	prefs := foodLover()
	s.SetPreferences(prefs)
	prefs.InterestWeights[models.InterestFood] = 0

	if got := s.Preferences().Weight(models.InterestFood, 0); got != 0.9 {
		t.Errorf("stored food weight = %f, want 0.9", got)
	}
}
