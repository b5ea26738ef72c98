// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/tripsense/internal/validation"
)

// Validate checks struct tags first, then each section's own rules.
func (c *Config) Validate() error {
	c.Logging.Level = strings.ToLower(c.Logging.Level)

	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	if err := c.Recommend.Validate(); err != nil {
		return err
	}
	if err := c.Triggers.Validate(); err != nil {
		return err
	}
	if err := c.Allocation.Validate(); err != nil {
		return err
	}
	if err := c.Events.Validate(); err != nil {
		return err
	}
	if err := c.validateJanitor(); err != nil {
		return err
	}
	return c.validateSupervisor()
}

func (c *Config) validateServer() error {
	s := &c.Server
	for name, d := range map[string]time.Duration{
		"read_timeout":     s.ReadTimeout,
		"write_timeout":    s.WriteTimeout,
		"shutdown_timeout": s.ShutdownTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("server.%s must be positive, got %v", name, d)
		}
	}
	if !s.RateLimitDisabled && s.RateLimitReqs > 0 && s.RateLimitWindow <= 0 {
		return fmt.Errorf("server.rate_limit_window must be positive when rate limiting is enabled")
	}
	if s.IsProduction() {
		for _, origin := range s.CORSOrigins {
			if origin == "*" {
				return fmt.Errorf("server.cors_origins must not contain * in production")
			}
		}
	}
	return nil
}

func (c *Config) validateJanitor() error {
	if c.Janitor.Enabled && c.Janitor.Interval < time.Second {
		return fmt.Errorf("janitor.interval must be at least 1s, got %v", c.Janitor.Interval)
	}
	return nil
}

func (c *Config) validateSupervisor() error {
	if c.Supervisor.FailureThreshold < 0 || c.Supervisor.FailureDecay < 0 {
		return fmt.Errorf("supervisor failure threshold and decay must not be negative")
	}
	if c.Supervisor.FailureBackoff < 0 || c.Supervisor.ShutdownTimeout < 0 {
		return fmt.Errorf("supervisor backoff and shutdown timeout must not be negative")
	}
	return nil
}
