// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/tripsense/config.yaml",
	"/etc/tripsense/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Load builds the configuration from defaults, an optional YAML file and
// the environment, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns CONFIG_PATH when it names an existing file, else
// the first existing entry of DefaultConfigPaths, else "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated strings.
var sliceConfigPaths = []string{
	"server.cors_origins",
	"triggers.disabled",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings while the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_idle_timeout":     "server.idle_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"http_max_body_bytes":   "server.max_body_bytes",
	"cors_origins":          "server.cors_origins",
	"rate_limit_reqs":       "server.rate_limit_reqs",
	"rate_limit_window":     "server.rate_limit_window",
	"disable_rate_limit":    "server.rate_limit_disabled",
	"environment":           "server.environment",

	// Logging
	"log_level":     "logging.level",
	"log_format":    "logging.format",
	"log_caller":    "logging.caller",
	"log_timestamp": "logging.timestamp",

	// Store
	"store_backend":    "store.backend",
	"badger_path":      "store.badger.path",
	"badger_in_memory": "store.badger.in_memory",
	"redis_addr":       "store.redis.addr",
	"redis_password":   "store.redis.password",
	"redis_db":         "store.redis.db",
	"redis_key_prefix": "store.redis.key_prefix",

	"redis_breaker_enabled":           "store.redis.breaker.enabled",
	"redis_breaker_failure_threshold": "store.redis.breaker.failure_threshold",
	"redis_breaker_timeout":           "store.redis.breaker.timeout",

	// Recommendation engine
	"recommend_mode":                 "recommend.mode",
	"recommend_tie_break":            "recommend.tie_break",
	"recommend_tie_epsilon":          "recommend.tie_epsilon",
	"recommend_surprise":             "recommend.surprise",
	"recommend_surprise_bonus":       "recommend.surprise_bonus",
	"recommend_skip_penalty":         "recommend.skip_penalty",
	"recommend_exclude_avoided":      "recommend.exclude_avoided",
	"recommend_session_idle_ttl":     "recommend.session_idle_ttl",
	"recommend_seed":                 "recommend.seed",
	"recommend_cache_enabled":        "recommend.cache.enabled",
	"recommend_cache_ttl":            "recommend.cache.ttl",
	"recommend_cache_max_entries":    "recommend.cache.max_entries",
	"recommend_max_candidates":       "recommend.limits.max_candidates",
	"recommend_default_limit":        "recommend.limits.default_limit",
	"recommend_max_limit":            "recommend.limits.max_limit",
	"recommend_category_avoidance":   "recommend.preference.category_avoidance",
	"recommend_missing_data_penalty": "recommend.missing_data_penalty",

	// Proactive triggers
	"triggers_enabled":          "triggers.enabled",
	"triggers_disabled":         "triggers.disabled",
	"triggers_message_ttl":      "triggers.message_ttl",
	"triggers_ranking_mode":     "triggers.ranking_mode",
	"triggers_popular_rating":   "triggers.popular_rating",
	"triggers_popular_reviews":  "triggers.popular_reviews",
	"triggers_popular_radius_m": "triggers.popular_radius_m",

	// Allocation
	"allocation_max_cities":     "allocation.max_cities",
	"allocation_max_total_days": "allocation.max_total_days",
	"allocation_min_days":       "allocation.min_days",

	// Events
	"events_enabled":     "events.enabled",
	"events_topic":       "events.topic",
	"events_buffer_size": "events.buffer_size",
	"events_persistent":  "events.persistent",

	// Janitor
	"janitor_enabled":  "janitor.enabled",
	"janitor_interval": "janitor.interval",

	// Supervisor
	"supervisor_failure_threshold": "supervisor.failure_threshold",
	"supervisor_failure_decay":     "supervisor.failure_decay",
	"supervisor_failure_backoff":   "supervisor.failure_backoff",
	"supervisor_shutdown_timeout":  "supervisor.shutdown_timeout",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - STORE_BACKEND -> store.backend
//   - RECOMMEND_CACHE_TTL -> recommend.cache.ttl
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	// Unmapped keys are skipped so unrelated variables never reach the config.
	return ""
}
