// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package trigger

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/tomtom215/tripsense/internal/recommend"
	"github.com/tomtom215/tripsense/internal/store"
)

// Registry holds one Engine per session. Engines share the store and
// scorer but keep their own cooldown state.
type Registry struct {
	cfg    Config
	kv     store.Store
	scorer *recommend.Scorer
	logger zerolog.Logger
	opts   []Option

	mu      sync.Mutex
	engines map[string]*Engine
}

// NewRegistry creates an empty registry.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRegistry(cfg Config, kv store.Store, scorer *recommend.Scorer, logger zerolog.Logger, opts ...Option) *Registry {
	return &Registry{
		cfg:     cfg,
		kv:      kv,
		scorer:  scorer,
		logger:  logger,
		opts:    opts,
		engines: make(map[string]*Engine),
	}
}

// Get returns the engine for a session, creating it on first use.
func (r *Registry) Get(sessionID string) *Engine {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.engines[sessionID]; ok {
		return e
	}
	e := NewEngine(sessionID, r.cfg, r.kv, r.scorer, r.logger, r.opts...)
	r.engines[sessionID] = e
	return e
}

// Remove drops a session's engine. Persisted dismissals are kept.
func (r *Registry) Remove(sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.engines[sessionID]; !ok {
		return false
	}
	delete(r.engines, sessionID)
	return true
}

// Len returns the number of live engines.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.engines)
}

// Prune drops the engines of sessions for which keep reports false and
// returns how many were dropped.
func (r *Registry) Prune(keep func(sessionID string) bool) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id := range r.engines {
		if !keep(id) {
			delete(r.engines, id)
			removed++
		}
	}
	return removed
}
