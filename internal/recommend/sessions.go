// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package recommend

import (
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/tripsense/internal/metrics"
)

// Sessions is a registry of per-user sessions sharing one Scorer.
type Sessions struct {
	scorer *Scorer
	logger zerolog.Logger
	opts   []SessionOption

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessions creates an empty registry. Options apply to every session it
// creates.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewSessions(scorer *Scorer, logger zerolog.Logger, opts ...SessionOption) *Sessions {
	return &Sessions{
		scorer:   scorer,
		logger:   logger,
		opts:     opts,
		sessions: make(map[string]*Session),
	}
}

// Scorer returns the shared scorer.
func (r *Sessions) Scorer() *Scorer {
	return r.scorer
}

// Get returns the session for id, creating it on first use.
func (r *Sessions) Get(id string) *Session {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if ok {
		return s
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		return s
	}
	s = NewSession(id, r.scorer, r.logger, r.opts...)
	r.sessions[id] = s
	metrics.ActiveSessions.Set(float64(len(r.sessions)))
	r.logger.Debug().Str("session_id", id).Msg("session created")
	return s
}

// Lookup returns an existing session without creating one.
func (r *Sessions) Lookup(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Remove drops a session. It reports whether the session existed.
func (r *Sessions) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	metrics.ActiveSessions.Set(float64(len(r.sessions)))
	return true
}

// PurgeIdle removes sessions not seen since SessionIdleTTL before now and
// returns how many were removed. A zero TTL disables purging.
func (r *Sessions) PurgeIdle(now time.Time) int {
	ttl := r.scorer.Config().SessionIdleTTL
	if ttl <= 0 {
		return 0
	}
	cutoff := now.Add(-ttl)

	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, s := range r.sessions {
		if s.LastSeen().Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		metrics.ActiveSessions.Set(float64(len(r.sessions)))
		r.logger.Info().Int("removed", removed).Msg("purged idle sessions")
	}
	return removed
}

// Len returns the number of live sessions.
func (r *Sessions) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// IDs returns the live session ids in sorted order.
func (r *Sessions) IDs() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// PurgeCaches drops expired enrichment entries from every session and
// returns the number removed.
func (r *Sessions) PurgeCaches() int {
	r.mu.RLock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.RUnlock()

	removed := 0
	for _, s := range sessions {
		removed += s.cache.Purge()
	}
	return removed
}
