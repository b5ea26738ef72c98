// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/tripsense/internal/models"
	"github.com/tomtom215/tripsense/internal/recommend"
	"github.com/tomtom215/tripsense/internal/store"
)

// isolate runs the test in an empty directory with no config file and
// every mapped variable cleared.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(ConfigPathEnvVar, "")
	for key := range envMappings {
		t.Setenv(strings.ToUpper(key), "")
		os.Unsetenv(strings.ToUpper(key))
	}
	return dir
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "tripsense.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("Server.Addr() = %q, want 0.0.0.0:8080", cfg.Server.Addr())
	}
	if cfg.Store.Backend != store.BackendMemory {
		t.Errorf("Store.Backend = %q, want memory", cfg.Store.Backend)
	}
	if cfg.Recommend.Mode != recommend.ModeBalanced {
		t.Errorf("Recommend.Mode = %q, want balanced", cfg.Recommend.Mode)
	}
	if !cfg.Triggers.Enabled {
		t.Error("Triggers.Enabled should be true by default")
	}
	if cfg.Events.Topic != "proactive.messages" {
		t.Errorf("Events.Topic = %q, want proactive.messages", cfg.Events.Topic)
	}
	if cfg.Janitor.Interval != 5*time.Minute {
		t.Errorf("Janitor.Interval = %v, want 5m", cfg.Janitor.Interval)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"HTTP_PORT", "server.port"},
		{"CORS_ORIGINS", "server.cors_origins"},
		{"DISABLE_RATE_LIMIT", "server.rate_limit_disabled"},
		{"LOG_LEVEL", "logging.level"},
		{"STORE_BACKEND", "store.backend"},
		{"REDIS_ADDR", "store.redis.addr"},
		{"RECOMMEND_CACHE_TTL", "recommend.cache.ttl"},
		{"RECOMMEND_MAX_CANDIDATES", "recommend.limits.max_candidates"},
		{"TRIGGERS_DISABLED", "triggers.disabled"},
		{"EVENTS_TOPIC", "events.topic"},
		{"janitor_interval", "janitor.interval"},

		// Unknown (should return empty)
		{"RANDOM_VAR", ""},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := envTransformFunc(tt.input); got != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	dir := isolate(t)

	t.Run("no config file exists", func(t *testing.T) {
		if got := findConfigFile(); got != "" {
			t.Errorf("findConfigFile() = %q, want empty string", got)
		}
	})

	t.Run("config.yaml exists", func(t *testing.T) {
		path := filepath.Join(dir, "config.yaml")
		if err := os.WriteFile(path, []byte("server:\n  port: 9000\n"), 0o600); err != nil {
			t.Fatalf("Failed to create config file: %v", err)
		}
		defer os.Remove(path)

		if got := findConfigFile(); got != "config.yaml" {
			t.Errorf("findConfigFile() = %q, want config.yaml", got)
		}
	})

	t.Run("CONFIG_PATH takes precedence", func(t *testing.T) {
		custom := writeConfig(t, dir, "server:\n  port: 9000\n")
		t.Setenv(ConfigPathEnvVar, custom)

		if got := findConfigFile(); got != custom {
			t.Errorf("findConfigFile() = %q, want %q", got, custom)
		}
	})

	t.Run("CONFIG_PATH with non-existent file", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, filepath.Join(dir, "missing.yaml"))

		if got := findConfigFile(); got != "" {
			t.Errorf("findConfigFile() = %q, want empty string", got)
		}
	})
}

func TestLoadEnvVars(t *testing.T) {
	isolate(t)

	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("RECOMMEND_MODE", "spontaneous")
	t.Setenv("RECOMMEND_CACHE_TTL", "90s")
	t.Setenv("TRIGGERS_DISABLED", "golden_hour,heat_warning")
	t.Setenv("STORE_BACKEND", "badger")
	t.Setenv("BADGER_IN_MEMORY", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[1] != "https://b.example" {
		t.Errorf("Server.CORSOrigins = %v, want two trimmed origins", cfg.Server.CORSOrigins)
	}
	if cfg.Recommend.Mode != recommend.ModeSpontaneous {
		t.Errorf("Recommend.Mode = %q, want spontaneous", cfg.Recommend.Mode)
	}
	if cfg.Recommend.Cache.TTL != 90*time.Second {
		t.Errorf("Recommend.Cache.TTL = %v, want 90s", cfg.Recommend.Cache.TTL)
	}
	want := []models.TriggerType{models.TriggerGoldenHour, models.TriggerHeatWarning}
	if len(cfg.Triggers.Disabled) != len(want) {
		t.Fatalf("Triggers.Disabled = %v, want %v", cfg.Triggers.Disabled, want)
	}
	for i := range want {
		if cfg.Triggers.Disabled[i] != want[i] {
			t.Errorf("Triggers.Disabled[%d] = %q, want %q", i, cfg.Triggers.Disabled[i], want[i])
		}
	}
	if cfg.Store.Backend != store.BackendBadger || !cfg.Store.Badger.InMemory {
		t.Errorf("Store = %+v, want in-memory badger", cfg.Store)
	}

	// Defaults survive for unset values.
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want 0.0.0.0 (default)", cfg.Server.Host)
	}
	if cfg.Triggers.Cooldowns[models.TriggerRainIncoming] != 2*time.Hour {
		t.Errorf("rain cooldown = %v, want 2h (default)", cfg.Triggers.Cooldowns[models.TriggerRainIncoming])
	}
	if cfg.Allocation.MaxCities != 50 {
		t.Errorf("Allocation.MaxCities = %d, want 50 (default)", cfg.Allocation.MaxCities)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := isolate(t)

	path := writeConfig(t, dir, `
server:
  port: 9100
  read_timeout: 5s
logging:
  format: console
recommend:
  tie_break: rating
  limits:
    max_limit: 25
triggers:
  ranking_mode: quality
allocation:
  packed_multiplier: 0.8
janitor:
  interval: 1m
`)
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9100 {
		t.Errorf("Server.Port = %d, want 9100", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 5s", cfg.Server.ReadTimeout)
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("Logging.Format = %q, want console", cfg.Logging.Format)
	}
	if cfg.Recommend.TieBreak != recommend.TieBreakRating {
		t.Errorf("Recommend.TieBreak = %q, want rating", cfg.Recommend.TieBreak)
	}
	if cfg.Recommend.Limits.MaxLimit != 25 {
		t.Errorf("Recommend.Limits.MaxLimit = %d, want 25", cfg.Recommend.Limits.MaxLimit)
	}
	if cfg.Recommend.Limits.DefaultLimit != recommend.DefaultConfig().Limits.DefaultLimit {
		t.Errorf("Recommend.Limits.DefaultLimit = %d, want default", cfg.Recommend.Limits.DefaultLimit)
	}
	if cfg.Triggers.RankingMode != recommend.ModeQuality {
		t.Errorf("Triggers.RankingMode = %q, want quality", cfg.Triggers.RankingMode)
	}
	if cfg.Allocation.PackedMultiplier != 0.8 {
		t.Errorf("Allocation.PackedMultiplier = %f, want 0.8", cfg.Allocation.PackedMultiplier)
	}
	if cfg.Janitor.Interval != time.Minute {
		t.Errorf("Janitor.Interval = %v, want 1m", cfg.Janitor.Interval)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := isolate(t)

	path := writeConfig(t, dir, "server:\n  port: 9100\nevents:\n  topic: from.file\n")
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "9200")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9200 {
		t.Errorf("Server.Port = %d, want 9200 (env wins)", cfg.Server.Port)
	}
	if cfg.Events.Topic != "from.file" {
		t.Errorf("Events.Topic = %q, want from.file", cfg.Events.Topic)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"port out of range", map[string]string{"HTTP_PORT": "70000"}},
		{"unknown store backend", map[string]string{"STORE_BACKEND": "postgres"}},
		{"redis without address", map[string]string{"STORE_BACKEND": "redis", "REDIS_ADDR": ""}},
		{"unknown mode", map[string]string{"RECOMMEND_MODE": "fastest"}},
		{"unknown trigger ranking mode", map[string]string{"TRIGGERS_RANKING_MODE": "fastest"}},
		{"empty events topic", map[string]string{"EVENTS_TOPIC": ""}},
		{"janitor interval too short", map[string]string{"JANITOR_INTERVAL": "10ms"}},
		{"wildcard cors in production", map[string]string{"ENVIRONMENT": "production"}},
		{"unknown environment", map[string]string{"ENVIRONMENT": "qa"}},
		{"bad log format", map[string]string{"LOG_FORMAT": "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Errorf("Load() with %v should fail", tt.env)
			}
		})
	}
}

func TestLoadProductionWithExplicitOrigins(t *testing.T) {
	isolate(t)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("CORS_ORIGINS", "https://app.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.Server.IsProduction() {
		t.Error("IsProduction() = false, want true")
	}
}
