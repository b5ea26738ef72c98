// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/tripsense/internal/allocation"
	"github.com/tomtom215/tripsense/internal/events"
	"github.com/tomtom215/tripsense/internal/logging"
	"github.com/tomtom215/tripsense/internal/recommend"
	"github.com/tomtom215/tripsense/internal/store"
	"github.com/tomtom215/tripsense/internal/trigger"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig      `json:"server" koanf:"server"`
	Logging    logging.Config    `json:"logging" koanf:"logging"`
	Store      store.Config      `json:"store" koanf:"store"`
	Recommend  recommend.Config  `json:"recommend" koanf:"recommend"`
	Triggers   trigger.Config    `json:"triggers" koanf:"triggers"`
	Allocation allocation.Config `json:"allocation" koanf:"allocation"`
	Events     events.Config     `json:"events" koanf:"events"`
	Janitor    JanitorConfig     `json:"janitor" koanf:"janitor"`
	Supervisor SupervisorConfig  `json:"supervisor" koanf:"supervisor"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `json:"host" koanf:"host"`
	Port int    `json:"port" koanf:"port" validate:"min=1,max=65535"`

	ReadTimeout     time.Duration `json:"read_timeout" koanf:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout" koanf:"write_timeout"`
	IdleTimeout     time.Duration `json:"idle_timeout" koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" koanf:"shutdown_timeout"`

	// MaxBodyBytes caps request bodies. Candidate sets can be large.
	MaxBodyBytes int64 `json:"max_body_bytes" koanf:"max_body_bytes" validate:"gt=0"`

	CORSOrigins []string `json:"cors_origins" koanf:"cors_origins"`

	RateLimitReqs     int           `json:"rate_limit_reqs" koanf:"rate_limit_reqs" validate:"gte=0"`
	RateLimitWindow   time.Duration `json:"rate_limit_window" koanf:"rate_limit_window"`
	RateLimitDisabled bool          `json:"rate_limit_disabled" koanf:"rate_limit_disabled"`

	// Environment is development, staging or production.
	Environment string `json:"environment" koanf:"environment" validate:"oneof=development staging production"`
}

// Addr returns the listen address.
func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// IsProduction reports whether the server runs in production mode.
func (s *ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

// JanitorConfig controls the background cleanup service.
type JanitorConfig struct {
	Enabled  bool          `json:"enabled" koanf:"enabled"`
	Interval time.Duration `json:"interval" koanf:"interval"`
}

// SupervisorConfig mirrors supervisor.TreeConfig for file and env loading.
type SupervisorConfig struct {
	FailureThreshold float64       `json:"failure_threshold" koanf:"failure_threshold"`
	FailureDecay     float64       `json:"failure_decay" koanf:"failure_decay"`
	FailureBackoff   time.Duration `json:"failure_backoff" koanf:"failure_backoff"`
	ShutdownTimeout  time.Duration `json:"shutdown_timeout" koanf:"shutdown_timeout"`
}

// defaultConfig returns a Config with every section at its defaults.
// These defaults are applied first, then overridden by the config file
// and environment variables.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    4 << 20,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   120,
			RateLimitWindow: time.Minute,
			Environment:     "development",
		},
		Logging:    logging.DefaultConfig(),
		Store:      store.DefaultConfig(),
		Recommend:  *recommend.DefaultConfig(),
		Triggers:   trigger.DefaultConfig(),
		Allocation: allocation.DefaultConfig(),
		Events:     events.DefaultConfig(),
		Janitor: JanitorConfig{
			Enabled:  true,
			Interval: 5 * time.Minute,
		},
		Supervisor: SupervisorConfig{
			FailureThreshold: 5,
			FailureDecay:     30,
			FailureBackoff:   15 * time.Second,
			ShutdownTimeout:  10 * time.Second,
		},
	}
}

// Default returns the built-in configuration without consulting files or
// the environment.
func Default() *Config {
	return defaultConfig()
}
