// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

// Package store provides the small key-value store the trigger engine uses to
// persist dismissals and recently-suggested places across restarts.
//
// Three backends share one interface:
//
//   - memory: process-local map, lost on restart (default)
//   - badger: embedded BadgerDB on local disk
//   - redis: shared Redis instance for multi-replica deployments
//
// Values are opaque bytes; GetJSON and SetJSON encode structured records.
// A zero TTL stores a key without expiry.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

var (
	// ErrNotFound is returned by Get for missing or expired keys.
	ErrNotFound = errors.New("store: key not found")

	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("store: closed")
)

// Backend names a store implementation.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendBadger Backend = "badger"
	BackendRedis  Backend = "redis"
)

// Store is a key-value store with per-key expiry.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Purge reclaims space held by expired entries and returns how many
	// were removed, where the backend can tell.
	Purge(ctx context.Context) (int, error)

	Close() error
}

// Config selects and configures a backend.
type Config struct {
	Backend Backend      `json:"backend" koanf:"backend" validate:"oneof=memory badger redis"`
	Badger  BadgerConfig `json:"badger" koanf:"badger"`
	Redis   RedisConfig  `json:"redis" koanf:"redis"`
}

// BadgerConfig configures the BadgerDB backend.
type BadgerConfig struct {
	// Path is the data directory. Ignored when InMemory is set.
	Path string `json:"path" koanf:"path"`

	// InMemory runs BadgerDB without touching disk.
	InMemory bool `json:"in_memory" koanf:"in_memory"`
}

// RedisConfig configures the Redis backend.
type RedisConfig struct {
	Addr     string `json:"addr" koanf:"addr"`
	Password string `json:"-" koanf:"password"`
	DB       int    `json:"db" koanf:"db" validate:"gte=0"`

	// KeyPrefix namespaces every key, e.g. "tripsense:".
	KeyPrefix string `json:"key_prefix" koanf:"key_prefix"`

	Breaker BreakerConfig `json:"breaker" koanf:"breaker"`
}

// DefaultConfig returns the in-memory configuration.
func DefaultConfig() Config {
	return Config{
		Backend: BackendMemory,
		Badger:  BadgerConfig{Path: "/data/tripsense/kv"},
		Redis: RedisConfig{
			Addr:      "localhost:6379",
			KeyPrefix: "tripsense:",
			Breaker:   DefaultBreakerConfig(),
		},
	}
}

// Validate checks backend-specific settings.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendMemory:
	case BackendBadger:
		if c.Badger.Path == "" && !c.Badger.InMemory {
			return fmt.Errorf("store.badger.path is required for the badger backend")
		}
	case BackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("store.redis.addr is required for the redis backend")
		}
		if c.Redis.Breaker.Enabled && c.Redis.Breaker.Timeout <= 0 {
			return fmt.Errorf("store.redis.breaker.timeout must be positive")
		}
	default:
		return fmt.Errorf("store.backend must be memory, badger or redis, got %q", c.Backend)
	}
	return nil
}

// Open creates the configured backend wrapped with metrics. Redis is also
// guarded by a circuit breaker when enabled.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Open(ctx context.Context, cfg Config, logger zerolog.Logger) (Store, error) {
	if cfg.Backend == "" {
		cfg.Backend = BackendMemory
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid store config: %w", err)
	}

	var (
		s   Store
		err error
	)
	switch cfg.Backend {
	case BackendBadger:
		s, err = OpenBadger(cfg.Badger)
	case BackendRedis:
		s, err = NewRedisStore(ctx, cfg.Redis)
		if err == nil && cfg.Redis.Breaker.Enabled {
			s = WithBreaker("redis", cfg.Redis.Breaker, s, logger)
		}
	default:
		s = NewMemoryStore()
	}
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("component", "store").
		Str("backend", string(cfg.Backend)).
		Msg("key-value store opened")
	return Instrument(cfg.Backend, s), nil
}

// GetJSON decodes the JSON value stored under key into v.
func GetJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return nil
}

// SetJSON stores v as JSON under key.
func SetJSON(ctx context.Context, s Store, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return s.Set(ctx, key, data, ttl)
}
