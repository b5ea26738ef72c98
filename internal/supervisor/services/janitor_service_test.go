// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tomtom215/tripsense/internal/metrics"
)

func TestJanitorService_RunOnce(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2026, 6, 12, 3, 0, 0, 0, time.UTC)
	var seen time.Time
	tasks := []CleanupTask{
		{Name: "test-sessions", Run: func(_ context.Context, now time.Time) (int, error) {
			seen = now
			return 3, nil
		}},
		{Name: "test-broken", Run: func(context.Context, time.Time) (int, error) {
			return 0, errors.New("backend down")
		}},
		{Name: "test-store", Run: func(context.Context, time.Time) (int, error) {
			return 2, nil
		}},
	}

	beforeErr := testutil.ToFloat64(metrics.JanitorErrors.WithLabelValues("test-broken"))
	beforeRemoved := testutil.ToFloat64(metrics.JanitorRemoved.WithLabelValues("test-sessions"))

	j := NewJanitorService(time.Minute, zerolog.Nop(), tasks, WithJanitorClock(func() time.Time { return fixed }))
	if got := j.RunOnce(context.Background()); got != 5 {
		t.Errorf("RunOnce removed %d, want 5 (a failing task must not stop the others)", got)
	}
	if !seen.Equal(fixed) {
		t.Errorf("task saw now = %v, want %v", seen, fixed)
	}
	if got := testutil.ToFloat64(metrics.JanitorErrors.WithLabelValues("test-broken")) - beforeErr; got != 1 {
		t.Errorf("error counter delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.JanitorRemoved.WithLabelValues("test-sessions")) - beforeRemoved; got != 3 {
		t.Errorf("removed counter delta = %v, want 3", got)
	}
}

func TestJanitorService_RunOnceStopsOnCanceledContext(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	task := CleanupTask{Name: "count", Run: func(context.Context, time.Time) (int, error) {
		calls.Add(1)
		return 1, nil
	}}
	j := NewJanitorService(time.Minute, zerolog.Nop(), []CleanupTask{task, task})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if got := j.RunOnce(ctx); got != 0 || calls.Load() != 0 {
		t.Errorf("RunOnce on canceled context: removed %d, calls %d, want 0 and 0", got, calls.Load())
	}
}

func TestJanitorService_ServeTicks(t *testing.T) {
	t.Parallel()

	ran := make(chan struct{}, 8)
	task := CleanupTask{Name: "tick", Run: func(context.Context, time.Time) (int, error) {
		select {
		case ran <- struct{}{}:
		default:
		}
		return 0, nil
	}}
	j := NewJanitorService(10*time.Millisecond, zerolog.Nop(), []CleanupTask{task})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- j.Serve(ctx) }()

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("janitor never ran its task")
	}
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
}

func TestNewJanitorService_DefaultInterval(t *testing.T) {
	t.Parallel()

	j := NewJanitorService(0, zerolog.Nop(), nil)
	if j.interval != 5*time.Minute {
		t.Errorf("interval = %v, want 5m", j.interval)
	}
	if j.String() != "janitor" {
		t.Errorf("String() = %q, want janitor", j.String())
	}
}
