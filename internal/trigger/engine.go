// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package trigger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/tripsense/internal/metrics"
	"github.com/tomtom215/tripsense/internal/models"
	"github.com/tomtom215/tripsense/internal/recommend"
	"github.com/tomtom215/tripsense/internal/store"
)

// maxRecent bounds the per-session history of emitted messages.
const maxRecent = 50

// Publisher delivers emitted messages downstream.
type Publisher interface {
	Publish(ctx context.Context, msgs []*models.ProactiveMessage) error
}

// dismissal is the record stored under a dismissal key.
type dismissal struct {
	DismissedAt time.Time `json:"dismissed_at"`
}

// suggestion is the record stored under a suggestion key.
type suggestion struct {
	SessionID   string             `json:"session_id"`
	Trigger     models.TriggerType `json:"trigger"`
	SuggestedAt time.Time          `json:"suggested_at"`
}

// Option configures an Engine.
type Option func(*Engine)

// WithPublisher publishes every emitted batch.
func WithPublisher(p Publisher) Option {
	return func(e *Engine) { e.publisher = p }
}

// WithClock overrides the clock used when a context carries no time.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator overrides message id generation.
func WithIDGenerator(gen func() string) Option {
	return func(e *Engine) { e.newID = gen }
}

// WithTriggers replaces the built-in rule set.
func WithTriggers(triggers ...Trigger) Option {
	return func(e *Engine) { e.triggers = triggers }
}

// Engine evaluates triggers for one session. It is safe for concurrent use;
// evaluations of the same session are serialized.
type Engine struct {
	sessionID string
	cfg       Config
	kv        store.Store
	scorer    *recommend.Scorer
	weights   recommend.Weights
	publisher Publisher
	logger    zerolog.Logger
	now       func() time.Time
	newID     func() string

	mu        sync.Mutex
	triggers  []Trigger
	lastFired map[models.TriggerType]time.Time
	recent    []*models.ProactiveMessage
}

// NewEngine creates an engine with the built-in triggers. The scorer
// classifies and ranks candidates and supplies the weather thresholds; it
// must not be nil.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(sessionID string, cfg Config, kv store.Store, scorer *recommend.Scorer, logger zerolog.Logger, opts ...Option) *Engine {
	e := &Engine{
		sessionID: sessionID,
		cfg:       cfg,
		kv:        kv,
		scorer:    scorer,
		weights:   recommend.ResolveWeights(cfg.RankingMode, scorer.Config().CustomWeights),
		logger:    logger.With().Str("component", "trigger").Str("session_id", sessionID).Logger(),
		now:       time.Now,
		newID:     uuid.NewString,
		triggers:  DefaultTriggers(cfg, scorer.Weather()),
		lastFired: make(map[models.TriggerType]time.Time),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Register adds a trigger, replacing any registered trigger of the same type.
func (e *Engine) Register(t Trigger) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, existing := range e.triggers {
		if existing.Type() == t.Type() {
			e.triggers[i] = t
			return
		}
	}
	e.triggers = append(e.triggers, t)
	e.logger.Debug().Str("trigger", string(t.Type())).Msg("registered trigger")
}

// Triggers lists the registered trigger types in evaluation order.
func (e *Engine) Triggers() []models.TriggerType {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]models.TriggerType, len(e.triggers))
	for i, t := range e.triggers {
		out[i] = t.Type()
	}
	return out
}

// Evaluate checks every trigger against the context and returns the
// messages that fired, highest priority first. prefs may be nil. Only
// context cancellation is returned as an error.
func (e *Engine) Evaluate(ctx context.Context, c *models.Context, prefs *models.UserPreferences, candidates []models.Activity) ([]*models.ProactiveMessage, error) {
	if !e.cfg.Enabled {
		return nil, nil
	}
	if c == nil {
		c = &models.Context{}
	}

	now := c.Now
	if now.IsZero() {
		now = e.now()
	}

	in := e.input(c, prefs, candidates, now)
	in.eligible = func(t models.TriggerType, subject string, suggesting bool) bool {
		return e.eligible(ctx, c, t, subject, suggesting)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var fired []*models.ProactiveMessage
	for _, t := range e.triggers {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("evaluate triggers: %w", err)
		}
		if msg := e.evaluateOne(ctx, t, in); msg != nil {
			fired = append(fired, msg)
		}
	}

	sort.SliceStable(fired, func(i, j int) bool {
		return fired[i].Priority.Rank() > fired[j].Priority.Rank()
	})

	e.remember(fired)

	if len(fired) > 0 && e.publisher != nil {
		if err := e.publisher.Publish(ctx, fired); err != nil {
			e.logger.Warn().Err(err).Int("messages", len(fired)).Msg("failed to publish proactive messages")
		}
	}
	return fired, nil
}

// input classifies the candidates, drops those the user completed, skipped
// or avoids, and scores the rest.
func (e *Engine) input(c *models.Context, prefs *models.UserPreferences, candidates []models.Activity, now time.Time) *Input {
	candidates = e.scorer.Classifier().Ingest(candidates)

	kept := candidates[:0]
	scores := make(map[string]float64, len(candidates))
	for i := range candidates {
		a := &candidates[i]
		if c.IsCompleted(a.ID) || c.IsSkipped(a.ID) {
			continue
		}
		in := e.scorer.ScoreActivity(a, c, prefs)
		if in.ShouldAvoid {
			continue
		}
		b := e.scorer.Combine(&in, e.cfg.RankingMode, e.weights)
		scores[a.ID] = b.FinalScore
		kept = append(kept, *a)
	}

	return &Input{
		SessionID:  e.sessionID,
		Context:    c,
		Candidates: kept,
		Now:        now,
		scores:     scores,
	}
}

// remember appends copies of fired messages to the history, keeping the
// newest maxRecent. Callers hold e.mu.
func (e *Engine) remember(fired []*models.ProactiveMessage) {
	for _, m := range fired {
		cp := *m
		e.recent = append(e.recent, &cp)
	}
	if n := len(e.recent) - maxRecent; n > 0 {
		e.recent = append([]*models.ProactiveMessage(nil), e.recent[n:]...)
	}
}

// Messages returns copies of the messages emitted for this session that
// have not expired at now, oldest first.
func (e *Engine) Messages(now time.Time) []models.ProactiveMessage {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]models.ProactiveMessage, 0, len(e.recent))
	for _, m := range e.recent {
		if !m.Expired(now) {
			out = append(out, *m)
		}
	}
	return out
}

// evaluateOne runs a single trigger. Callers hold e.mu.
func (e *Engine) evaluateOne(ctx context.Context, t Trigger, in *Input) *models.ProactiveMessage {
	typ := t.Type()
	label := string(typ)

	if last, ok := e.lastFired[typ]; ok && in.Now.Sub(last) < t.Cooldown() {
		metrics.TriggersSuppressed.WithLabelValues(label, "cooldown").Inc()
		return nil
	}
	if !t.Condition(in) {
		return nil
	}
	msg := t.Generate(in)
	if msg == nil {
		return nil
	}

	dismissed, err := e.IsDismissed(ctx, typ, msg.Subject)
	if err != nil {
		e.logger.Warn().Err(err).Str("trigger", label).Msg("dismissal lookup failed, skipping trigger")
		metrics.TriggersSuppressed.WithLabelValues(label, "store_error").Inc()
		return nil
	}
	if dismissed {
		metrics.TriggersSuppressed.WithLabelValues(label, "dismissed").Inc()
		return nil
	}

	if s, ok := t.(Suggester); ok {
		rec := suggestion{SessionID: e.sessionID, Trigger: typ, SuggestedAt: in.Now}
		key := SuggestionKey(in.Context.City, msg.Subject)
		if err := store.SetJSON(ctx, e.kv, key, rec, s.SuggestionTTL()); err != nil {
			e.logger.Warn().Err(err).Str("trigger", label).Msg("failed to record suggestion, skipping trigger")
			metrics.TriggersSuppressed.WithLabelValues(label, "store_error").Inc()
			return nil
		}
	}

	msg.ID = e.newID()
	msg.Type = typ
	msg.Priority = t.Priority()
	msg.SessionID = e.sessionID
	msg.CreatedAt = in.Now
	if msg.ExpiresAt.IsZero() {
		msg.ExpiresAt = in.Now.Add(e.cfg.MessageTTL)
	}
	if msg.Action == nil {
		msg.Action = defaultAction(msg)
	}

	e.lastFired[typ] = in.Now
	metrics.TriggersFired.WithLabelValues(label).Inc()
	e.logger.Info().
		Str("trigger", label).
		Str("subject", msg.Subject).
		Str("priority", string(msg.Priority)).
		Msg("proactive message fired")
	return msg
}

func defaultAction(msg *models.ProactiveMessage) *models.MessageAction {
	if msg.RelatedActivityID != "" {
		return &models.MessageAction{Type: models.ActionViewActivity, Label: "Show me", ActivityID: msg.RelatedActivityID}
	}
	return &models.MessageAction{Type: models.ActionAcknowledge, Label: "Got it"}
}

// eligible reports whether subject may be proposed. Store errors make a
// subject ineligible.
func (e *Engine) eligible(ctx context.Context, c *models.Context, t models.TriggerType, subject string, suggesting bool) bool {
	dismissed, err := e.IsDismissed(ctx, t, subject)
	if err != nil {
		e.logger.Warn().Err(err).Str("trigger", string(t)).Msg("dismissal lookup failed")
		return false
	}
	if dismissed {
		return false
	}
	if !suggesting {
		return true
	}

	_, err = e.kv.Get(ctx, SuggestionKey(c.City, subject))
	switch {
	case errors.Is(err, store.ErrNotFound):
		return true
	case err != nil:
		e.logger.Warn().Err(err).Str("trigger", string(t)).Msg("suggestion lookup failed")
		return false
	default:
		metrics.TriggersSuppressed.WithLabelValues(string(t), "recently_suggested").Inc()
		return false
	}
}

// Dismiss silences a trigger for subject until ClearDismissal and marks the
// matching messages in the history as dismissed.
func (e *Engine) Dismiss(ctx context.Context, t models.TriggerType, subject string) error {
	rec := dismissal{DismissedAt: e.now()}
	if err := store.SetJSON(ctx, e.kv, DismissalKey(e.sessionID, t, subject), rec, 0); err != nil {
		return fmt.Errorf("dismiss %s/%s: %w", t, subject, err)
	}

	e.markDismissed(t, subject, true)

	e.logger.Debug().Str("trigger", string(t)).Str("subject", subject).Msg("dismissed")
	return nil
}

// ClearDismissal re-enables a dismissed subject.
func (e *Engine) ClearDismissal(ctx context.Context, t models.TriggerType, subject string) error {
	if err := e.kv.Delete(ctx, DismissalKey(e.sessionID, t, subject)); err != nil {
		return fmt.Errorf("clear dismissal %s/%s: %w", t, subject, err)
	}
	e.markDismissed(t, subject, false)
	return nil
}

func (e *Engine) markDismissed(t models.TriggerType, subject string, dismissed bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, m := range e.recent {
		if m.Type == t && m.Subject == subject {
			m.Dismissed = dismissed
		}
	}
}

// IsDismissed reports whether subject is dismissed for trigger t.
func (e *Engine) IsDismissed(ctx context.Context, t models.TriggerType, subject string) (bool, error) {
	_, err := e.kv.Get(ctx, DismissalKey(e.sessionID, t, subject))
	switch {
	case errors.Is(err, store.ErrNotFound):
		return false, nil
	case err != nil:
		return false, err
	default:
		return true, nil
	}
}

// LastFired returns when trigger t last fired.
func (e *Engine) LastFired(t models.TriggerType) (time.Time, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ts, ok := e.lastFired[t]
	return ts, ok
}

// ResetCooldowns forgets every last-fired timestamp.
func (e *Engine) ResetCooldowns() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastFired = make(map[models.TriggerType]time.Time)
}
