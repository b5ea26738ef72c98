// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/tripsense/internal/metrics"
)

// CleanupFunc removes expired state and reports how many items it removed.
type CleanupFunc func(ctx context.Context, now time.Time) (int, error)

// CleanupTask is one named step of a janitor run.
type CleanupTask struct {
	Name string
	Run  CleanupFunc
}

// JanitorOption configures a JanitorService.
type JanitorOption func(*JanitorService)

// WithJanitorClock replaces time.Now.
func WithJanitorClock(now func() time.Time) JanitorOption {
	return func(j *JanitorService) { j.now = now }
}

// JanitorService runs cleanup tasks every interval. A failing task is
// logged and counted; it never stops the service or the other tasks.
type JanitorService struct {
	interval time.Duration
	tasks    []CleanupTask
	now      func() time.Time
	logger   zerolog.Logger
}

// NewJanitorService creates a janitor. A non-positive interval means 5m.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewJanitorService(interval time.Duration, logger zerolog.Logger, tasks []CleanupTask, opts ...JanitorOption) *JanitorService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	j := &JanitorService{
		interval: interval,
		tasks:    tasks,
		now:      time.Now,
		logger:   logger.With().Str("component", "janitor").Logger(),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Serve implements suture.Service.
func (j *JanitorService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.logger.Debug().Dur("interval", j.interval).Int("tasks", len(j.tasks)).Msg("janitor started")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			j.RunOnce(ctx)
		}
	}
}

// RunOnce runs every task once and returns the total number of removed
// items.
func (j *JanitorService) RunOnce(ctx context.Context) int {
	now := j.now()
	total := 0
	for _, task := range j.tasks {
		if ctx.Err() != nil {
			break
		}
		n, err := task.Run(ctx, now)
		if err != nil {
			metrics.JanitorErrors.WithLabelValues(task.Name).Inc()
			j.logger.Warn().Err(err).Str("task", task.Name).Msg("cleanup task failed")
			continue
		}
		if n > 0 {
			metrics.JanitorRemoved.WithLabelValues(task.Name).Add(float64(n))
			j.logger.Debug().Str("task", task.Name).Int("removed", n).Msg("cleanup task finished")
		}
		total += n
	}
	return total
}

// String implements fmt.Stringer for suture's event log.
func (j *JanitorService) String() string {
	return "janitor"
}
