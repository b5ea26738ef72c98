// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package supervisor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

// stubService runs until canceled, optionally failing its first starts.
type stubService struct {
	name     string
	failures int32
	starts   atomic.Int32
}

func (s *stubService) Serve(ctx context.Context) error {
	if n := s.starts.Add(1); n <= s.failures {
		return errors.New("simulated failure")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (s *stubService) String() string { return s.name }

var _ suture.Service = (*stubService)(nil)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestNewSupervisorTree_Defaults(t *testing.T) {
	t.Parallel()

	tree, err := NewSupervisorTree(zerolog.Nop(), TreeConfig{})
	if err != nil {
		t.Fatalf("NewSupervisorTree: %v", err)
	}
	if tree.Root() == nil {
		t.Fatal("root supervisor should not be nil")
	}
	if got := tree.Config(); got != DefaultTreeConfig() {
		t.Errorf("Config() = %+v, want defaults %+v", got, DefaultTreeConfig())
	}

	custom, _ := NewSupervisorTree(zerolog.Nop(), TreeConfig{FailureThreshold: 3, FailureBackoff: time.Second})
	cfg := custom.Config()
	if cfg.FailureThreshold != 3 || cfg.FailureBackoff != time.Second {
		t.Errorf("explicit values were overwritten: %+v", cfg)
	}
	if cfg.FailureDecay != 30 || cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("zero values were not defaulted: %+v", cfg)
	}
}

func TestSupervisorTree_Lifecycle(t *testing.T) {
	t.Parallel()

	tree, err := NewSupervisorTree(zerolog.Nop(), TreeConfig{
		FailureBackoff:  50 * time.Millisecond,
		ShutdownTimeout: time.Second,
	})
	if err != nil {
		t.Fatalf("NewSupervisorTree: %v", err)
	}

	data := &stubService{name: "data"}
	messaging := &stubService{name: "messaging"}
	api := &stubService{name: "api"}
	tree.AddDataService(data)
	tree.AddMessagingService(messaging)
	tree.AddAPIService(api)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	waitFor(t, func() bool {
		return data.starts.Load() == 1 && messaging.starts.Load() == 1 && api.starts.Load() == 1
	})
	cancel()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("tree stopped with %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("tree did not stop")
	}

	report, err := tree.UnstoppedServiceReport()
	if err != nil {
		t.Fatalf("UnstoppedServiceReport: %v", err)
	}
	if len(report) != 0 {
		t.Errorf("unstopped services: %v", report)
	}
}

func TestSupervisorTree_RestartsFailingService(t *testing.T) {
	t.Parallel()

	tree, _ := NewSupervisorTree(zerolog.Nop(), TreeConfig{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	})

	failing := &stubService{name: "failing", failures: 2}
	stable := &stubService{name: "stable"}
	tree.AddDataService(failing)
	tree.AddAPIService(stable)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := tree.ServeBackground(ctx)

	waitFor(t, func() bool { return failing.starts.Load() >= 3 && stable.starts.Load() >= 1 })
	if stable.starts.Load() != 1 {
		t.Errorf("stable service started %d times, want 1 (failures are isolated per layer)", stable.starts.Load())
	}

	cancel()
	<-errCh
}
