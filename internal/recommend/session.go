// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package recommend

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/tripsense/internal/cache"
	"github.com/tomtom215/tripsense/internal/metrics"
	"github.com/tomtom215/tripsense/internal/models"
)

const surpriseReason = "A little surprise for you"

// cacheKey identifies one enrichment result. Coordinates are stored as
// rounded integers so nearby positions share entries.
type cacheKey struct {
	activityID string
	lat, lon   int64
	located    bool
	hour       int
	generation uint64
}

// weatherKey is every weather field the scorer reads. Any change to it
// invalidates the enrichment cache.
type weatherKey struct {
	present       bool
	condition     models.WeatherCondition
	temperatureC  float64
	precipitation float64
}

func weatherKeyOf(w *models.WeatherContext) weatherKey {
	if w == nil {
		return weatherKey{}
	}
	return weatherKey{
		present:       true,
		condition:     w.Condition,
		temperatureC:  w.TemperatureC,
		precipitation: w.PrecipitationChance,
	}
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithRandSource replaces the seeded random source used for surprise picks.
func WithRandSource(src rand.Source) SessionOption {
	return func(s *Session) {
		s.rng = rand.New(src) //nolint:gosec // math/rand is fine for recommendation shuffling
	}
}

// WithClock overrides the clock used for cache expiry and idle tracking.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		s.now = now
	}
}

// Session is the per-user recommendation state. It is safe for concurrent
// use; requests for the same session are serialized only around state
// snapshots, not around scoring.
type Session struct {
	id     string
	scorer *Scorer
	logger zerolog.Logger
	now    func() time.Time

	// mu guards prefs, location, weather and generation. The generation
	// is part of every cache key, so entries written by a request that
	// raced an invalidation are never read back.
	mu         sync.Mutex
	prefs      *models.UserPreferences
	location   *cacheKey
	weather    weatherKey
	generation uint64

	cache *cache.TTL[cacheKey, Inputs]

	// Random source for surprise picks (protected by rngMu for concurrent access)
	rng   *rand.Rand
	rngMu sync.Mutex

	lastSeen     atomic.Int64
	requestCount atomic.Int64
}

// NewSession creates a session bound to a shared scorer.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewSession(id string, scorer *Scorer, logger zerolog.Logger, opts ...SessionOption) *Session {
	cfg := scorer.Config()
	seed := cfg.Seed
	if seed == 0 {
		seed = 42
	}

	s := &Session{
		id:     id,
		scorer: scorer,
		logger: logger.With().Str("component", "recommend").Str("session_id", id).Logger(),
		now:    time.Now,
		rng:    rand.New(rand.NewSource(seed)), //nolint:gosec // math/rand is fine for recommendation shuffling
	}
	for _, opt := range opts {
		opt(s)
	}

	ttl := cfg.Cache.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	cacheOpts := []cache.Option{cache.WithClock(s.now)}
	if cfg.Cache.MaxEntries > 0 {
		cacheOpts = append(cacheOpts, cache.WithMaxEntries(cfg.Cache.MaxEntries))
	}
	s.cache = cache.NewTTL[cacheKey, Inputs](ttl, cacheOpts...)
	s.touch()
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// LastSeen returns when the session last served a call.
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// RequestCount returns the number of Recommend calls served.
func (s *Session) RequestCount() int64 {
	return s.requestCount.Load()
}

// Preferences returns a copy of the current preferences, or nil.
func (s *Session) Preferences() *models.UserPreferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs.Clone()
}

// SetPreferences replaces the user's preferences and drops every cached
// enrichment result. A nil profile clears preferences.
func (s *Session) SetPreferences(prefs *models.UserPreferences) {
	s.mu.Lock()
	s.prefs = prefs.Clone()
	s.generation++
	s.mu.Unlock()

	s.invalidate("preferences")
	s.touch()
}

// Invalidate drops every cached enrichment result.
func (s *Session) Invalidate() {
	s.mu.Lock()
	s.generation++
	s.mu.Unlock()
	s.invalidate("manual")
}

// CacheStats reports enrichment cache statistics.
func (s *Session) CacheStats() cache.Stats {
	return s.cache.Stats()
}

func (s *Session) invalidate(cause string) {
	s.cache.Clear()
	metrics.EnrichmentCacheInvalidations.WithLabelValues(cause).Inc()
	s.logger.Debug().Str("cause", cause).Msg("enrichment cache invalidated")
}

// Touch marks the session as active without serving a request.
func (s *Session) Touch() {
	s.touch()
}

func (s *Session) touch() {
	s.lastSeen.Store(s.now().UnixNano())
}

// observe records the request context, invalidates the cache when the
// location or any scored weather field changed, and returns the preference
// snapshot and cache generation to score with.
func (s *Session) observe(ctx *models.Context) (*models.UserPreferences, uint64) {
	loc := s.locationKey(ctx.Location)

	s.mu.Lock()
	moved := s.location != nil && *s.location != loc
	s.location = &loc

	wx := weatherKeyOf(ctx.Weather)
	changed := s.weather != wx
	s.weather = wx
	if moved || changed {
		s.generation++
	}
	prefs, gen := s.prefs, s.generation
	s.mu.Unlock()

	switch {
	case moved:
		s.invalidate("location")
	case changed:
		s.invalidate("weather")
	}
	return prefs, gen
}

func (s *Session) locationKey(c *models.Coordinates) cacheKey {
	if c == nil {
		return cacheKey{}
	}
	f := math.Pow10(s.scorer.Config().Cache.LocationPrecision)
	return cacheKey{
		lat:     int64(math.Round(c.Latitude * f)),
		lon:     int64(math.Round(c.Longitude * f)),
		located: true,
	}
}

// candidate is an activity that survived filtering, with its inputs.
type candidate struct {
	activity models.Activity
	inputs   Inputs
}

// Recommend scores, ranks and explains the candidate activities.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (s *Session) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	s.requestCount.Add(1)
	s.touch()

	cfg := s.scorer.Config()
	if len(req.Activities) > cfg.Limits.MaxCandidates {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyCandidates, len(req.Activities), cfg.Limits.MaxCandidates)
	}

	mode := s.resolveMode(req.Mode)
	custom := req.CustomWeights
	if custom == nil {
		custom = cfg.CustomWeights
	}
	weights := ResolveWeights(mode, custom)
	limit := s.resolveLimit(req.Limit)

	logger := s.logger.With().Str("request_id", req.RequestID).Str("mode", string(mode)).Logger()
	logger.Debug().Int("candidates", len(req.Activities)).Msg("processing recommendation request")

	rctx := &req.Context
	prefs, gen := s.observe(rctx)
	meta := Metadata{
		RequestID:  req.RequestID,
		Mode:       mode,
		Weights:    weights,
		Candidates: len(req.Activities),
	}

	// Capabilities sent by the client are recomputed.
	activities := s.scorer.Classifier().Ingest(req.Activities)
	candidates := make([]candidate, 0, len(activities))
	for i := range activities {
		if i%64 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("recommend: %w", err)
			}
		}
		a := activities[i]
		if rctx.IsCompleted(a.ID) {
			meta.Excluded++
			continue
		}
		in, hit := s.inputs(&a, rctx, prefs, gen)
		if hit {
			meta.CacheHits++
		} else {
			meta.CacheMisses++
		}
		if cfg.ExcludeAvoided && in.ShouldAvoid {
			meta.Excluded++
			continue
		}
		candidates = append(candidates, candidate{activity: a, inputs: in})
	}

	surprise := s.pickSurprise(candidates)
	if surprise >= 0 {
		meta.SurpriseID = candidates[surprise].activity.ID
	}

	items := make([]models.ScoredActivity, 0, len(candidates))
	for i := range candidates {
		c := &candidates[i]
		b := s.scorer.Combine(&c.inputs, mode, weights)
		if i == surprise {
			b.Surprise = true
		}
		if rctx.IsSkipped(c.activity.ID) && cfg.SkipPenalty > 0 {
			b.Penalty += cfg.SkipPenalty
			b.FinalScore = clamp01(b.FinalScore - cfg.SkipPenalty)
		}
		items = append(items, models.ScoredActivity{Activity: c.activity, Breakdown: b})
	}

	Rank(items, cfg.TieBreak, cfg.TieEpsilon)
	if len(items) > limit {
		items = items[:limit]
	}
	for i := range items {
		why := s.scorer.Explain(&items[i].Breakdown, &items[i].Activity, rctx)
		items[i].Why = &why
	}

	meta.GeneratedAt = s.now()
	meta.LatencyMS = time.Since(start).Milliseconds()
	metrics.RecordRecommend(string(mode), len(req.Activities), time.Since(start))

	logger.Debug().
		Int("returned", len(items)).
		Int("excluded", meta.Excluded).
		Int("cache_hits", meta.CacheHits).
		Int64("latency_ms", meta.LatencyMS).
		Msg("recommendation complete")

	return &Response{Items: items, Metadata: meta}, nil
}

func (s *Session) resolveMode(requested Mode) Mode {
	if requested == "" {
		requested = s.scorer.Config().Mode
	}
	mode, ok := ParseMode(string(requested))
	if !ok {
		s.logger.Warn().Str("mode", string(requested)).Msg("unknown mode, using balanced")
	}
	return mode
}

func (s *Session) resolveLimit(limit int) int {
	limits := s.scorer.Config().Limits
	switch {
	case limit <= 0:
		return limits.DefaultLimit
	case limit > limits.MaxLimit:
		return limits.MaxLimit
	default:
		return limit
	}
}

// inputs returns the enrichment result for one activity, from cache when
// possible.
func (s *Session) inputs(a *models.Activity, ctx *models.Context, prefs *models.UserPreferences, gen uint64) (Inputs, bool) {
	if !s.scorer.Config().Cache.Enabled {
		return s.scorer.ScoreActivity(a, ctx, prefs), false
	}

	key := s.locationKey(ctx.Location)
	key.activityID = a.ID
	key.hour = ctx.Hour
	key.generation = gen

	if in, ok := s.cache.Get(key); ok {
		metrics.EnrichmentCacheHits.Inc()
		return in, true
	}
	metrics.EnrichmentCacheMisses.Inc()
	in := s.scorer.ScoreActivity(a, ctx, prefs)
	s.cache.Set(key, in)
	return in, false
}

// pickSurprise chooses one eligible candidate at random and boosts its
// serendipity. It returns the index of the pick, or -1.
func (s *Session) pickSurprise(candidates []candidate) int {
	if !s.scorer.Config().Surprise {
		return -1
	}
	eligible := make([]int, 0, len(candidates))
	for i := range candidates {
		in := &candidates[i].inputs
		if in.HiddenGem || in.Serendipity >= neutralValue {
			eligible = append(eligible, i)
		}
	}
	if len(eligible) == 0 {
		return -1
	}

	s.rngMu.Lock()
	pick := eligible[s.rng.Intn(len(eligible))]
	s.rngMu.Unlock()

	in := &candidates[pick].inputs
	in.Serendipity = clamp01(in.Serendipity + s.scorer.Config().SurpriseBonus)

	// Reasons may be shared with the cache; copy before writing.
	reasons := make(map[models.Component]string, len(in.Reasons)+1)
	for k, v := range in.Reasons {
		reasons[k] = v
	}
	if reasons[models.ComponentSerendipity] == "" {
		reasons[models.ComponentSerendipity] = surpriseReason
	}
	in.Reasons = reasons
	return pick
}
