// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/tripsense/internal/allocation"
	"github.com/tomtom215/tripsense/internal/api"
	"github.com/tomtom215/tripsense/internal/config"
	"github.com/tomtom215/tripsense/internal/events"
	"github.com/tomtom215/tripsense/internal/recommend"
	"github.com/tomtom215/tripsense/internal/store"
	"github.com/tomtom215/tripsense/internal/supervisor"
	"github.com/tomtom215/tripsense/internal/supervisor/services"
	"github.com/tomtom215/tripsense/internal/trigger"
)

// components holds everything the server wires together.
type components struct {
	store     store.Store
	sessions  *recommend.Sessions
	triggers  *trigger.Registry
	allocator *allocation.Allocator
	publisher *events.Publisher // nil when events are disabled
	handler   *api.Handler
}

// newComponents opens the store and builds the engine. Callers must Close
// the result.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func newComponents(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*components, error) {
	kv, err := store.Open(ctx, cfg.Store, logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	c := &components{store: kv}

	scorer, err := recommend.NewScorer(&cfg.Recommend)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("create scorer: %w", err)
	}
	c.sessions = recommend.NewSessions(scorer, logger.With().Str("component", "recommend").Logger())

	var opts []trigger.Option
	if cfg.Events.Enabled {
		c.publisher, err = events.NewPublisher(cfg.Events, logger)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("create event publisher: %w", err)
		}
		opts = append(opts, trigger.WithPublisher(c.publisher))
	}
	c.triggers = trigger.NewRegistry(cfg.Triggers, kv, scorer,
		logger.With().Str("component", "triggers").Logger(), opts...)

	c.allocator, err = allocation.NewAllocator(cfg.Allocation)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("create allocator: %w", err)
	}

	c.handler, err = api.NewHandler(api.Dependencies{
		Sessions:     c.sessions,
		Triggers:     c.triggers,
		Allocator:    c.allocator,
		StoreBackend: cfg.Store.Backend,
		Store:        kv,
		Version:      version,
	})
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

// cleanupTasks are the janitor's periodic jobs. Sessions are purged before
// trigger engines so engines of expired sessions go in the same run.
func (c *components) cleanupTasks() []services.CleanupTask {
	return []services.CleanupTask{
		{Name: "store", Run: func(ctx context.Context, _ time.Time) (int, error) {
			return c.store.Purge(ctx)
		}},
		{Name: "sessions", Run: func(_ context.Context, now time.Time) (int, error) {
			return c.sessions.PurgeIdle(now), nil
		}},
		{Name: "trigger-engines", Run: func(context.Context, time.Time) (int, error) {
			return c.triggers.Prune(func(id string) bool {
				_, ok := c.sessions.Lookup(id)
				return ok
			}), nil
		}},
		{Name: "caches", Run: func(context.Context, time.Time) (int, error) {
			return c.sessions.PurgeCaches(), nil
		}},
	}
}

// newHTTPServer builds the server for the API layer.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (c *components) newHTTPServer(cfg *config.Config, logger zerolog.Logger) *http.Server {
	mw := api.NewChiMiddleware(api.ChiMiddlewareConfigFromServer(cfg.Server))
	return &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           api.NewRouter(c.handler, mw, logger).SetupChi(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}
}

// buildTree adds every service to a new supervisor tree.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (c *components) buildTree(cfg *config.Config, server services.HTTPServer, logger zerolog.Logger) (*supervisor.SupervisorTree, error) {
	tree, err := supervisor.NewSupervisorTree(logger, supervisor.TreeConfig{
		FailureThreshold: cfg.Supervisor.FailureThreshold,
		FailureDecay:     cfg.Supervisor.FailureDecay,
		FailureBackoff:   cfg.Supervisor.FailureBackoff,
		ShutdownTimeout:  cfg.Supervisor.ShutdownTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create supervisor tree: %w", err)
	}

	if cfg.Janitor.Enabled {
		tree.AddDataService(services.NewJanitorService(cfg.Janitor.Interval, logger, c.cleanupTasks()))
	}
	if c.publisher != nil {
		tree.AddMessagingService(services.NewEventLogService(c.publisher, logger))
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logger))
	return tree, nil
}

// Close releases the publisher and the store.
func (c *components) Close() error {
	var errs []error
	if c.publisher != nil {
		if err := c.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close publisher: %w", err))
		}
	}
	if c.store != nil {
		if err := c.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close store: %w", err))
		}
	}
	return errors.Join(errs...)
}
