// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/tripsense/internal/metrics"
)

// BreakerConfig configures the circuit breaker in front of a remote backend.
type BreakerConfig struct {
	Enabled bool `json:"enabled" koanf:"enabled"`

	// FailureThreshold is the number of consecutive failures that opens
	// the circuit.
	FailureThreshold uint32 `json:"failure_threshold" koanf:"failure_threshold"`

	// MaxRequests is how many trial calls pass while half-open.
	MaxRequests uint32 `json:"max_requests" koanf:"max_requests"`

	// Interval resets the failure counts while closed. Zero never resets.
	Interval time.Duration `json:"interval" koanf:"interval"`

	// Timeout is how long the circuit stays open before a trial call.
	Timeout time.Duration `json:"timeout" koanf:"timeout"`
}

// DefaultBreakerConfig returns production defaults.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Enabled:          true,
		FailureThreshold: 5,
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          10 * time.Second,
	}
}

// breaker rejects calls while the backend is failing so a Redis outage costs
// one fast error per call instead of a dial timeout.
type breaker struct {
	name string
	next Store
	cb   *gobreaker.CircuitBreaker[any]
}

// WithBreaker wraps s in a circuit breaker. A missing key and a canceled
// caller count as successes. While the circuit is open every call fails
// with an error wrapping gobreaker.ErrOpenState.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func WithBreaker(name string, cfg BreakerConfig, s Store, logger zerolog.Logger) Store {
	log := logger.With().Str("component", "store").Str("breaker", name).Logger()
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = DefaultBreakerConfig().FailureThreshold
	}

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ErrNotFound) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})
	return &breaker{name: name, next: s, cb: cb}
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// execute runs fn through the breaker and records the outcome.
func (b *breaker) execute(fn func() (any, error)) (any, error) {
	v, err := b.cb.Execute(fn)
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
		return nil, fmt.Errorf("store %s: %w", b.name, err)
	case err != nil && !errors.Is(err, ErrNotFound):
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	}
	return v, err
}

func (b *breaker) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := b.execute(func() (any, error) {
		return b.next.Get(ctx, key)
	})
	if err != nil {
		return nil, err
	}
	data, _ := v.([]byte)
	return data, nil
}

func (b *breaker) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := b.execute(func() (any, error) {
		return nil, b.next.Set(ctx, key, value, ttl)
	})
	return err
}

func (b *breaker) Delete(ctx context.Context, key string) error {
	_, err := b.execute(func() (any, error) {
		return nil, b.next.Delete(ctx, key)
	})
	return err
}

func (b *breaker) Purge(ctx context.Context) (int, error) {
	v, err := b.execute(func() (any, error) {
		return b.next.Purge(ctx)
	})
	if err != nil {
		return 0, err
	}
	n, _ := v.(int)
	return n, nil
}

// Close bypasses the breaker so shutdown always reaches the backend.
func (b *breaker) Close() error {
	return b.next.Close()
}

// BreakerDisabled is the BreakerState of a store without a breaker.
const BreakerDisabled = "disabled"

// BreakerState reports the state of a store built by WithBreaker
// ("closed", "half-open" or "open"), or BreakerDisabled.
func BreakerState(s Store) string {
	if b, ok := s.(*breaker); ok {
		return b.cb.State().String()
	}
	if i, ok := s.(*instrumented); ok {
		return BreakerState(i.next)
	}
	return BreakerDisabled
}
