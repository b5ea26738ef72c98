// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tomtom215/tripsense/internal/metrics"
)

// runConformance exercises the behaviour every backend must share.
func runConformance(t *testing.T, newStore func(t *testing.T) Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		s := newStore(t)
		if _, err := s.Get(ctx, "nope"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get(nope) err = %v, want ErrNotFound", err)
		}
	})

	t.Run("set get delete", func(t *testing.T) {
		s := newStore(t)
		if err := s.Set(ctx, "dismissed:s1:rain_incoming:weather", []byte("1"), 0); err != nil {
			t.Fatalf("Set: %v", err)
		}
		got, err := s.Get(ctx, "dismissed:s1:rain_incoming:weather")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if string(got) != "1" {
			t.Errorf("Get = %q, want 1", got)
		}
		if err := s.Delete(ctx, "dismissed:s1:rain_incoming:weather"); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, err := s.Get(ctx, "dismissed:s1:rain_incoming:weather"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get after delete err = %v, want ErrNotFound", err)
		}
	})

	t.Run("delete missing key", func(t *testing.T) {
		s := newStore(t)
		if err := s.Delete(ctx, "never-set"); err != nil {
			t.Errorf("Delete(never-set) = %v, want nil", err)
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		s := newStore(t)
		_ = s.Set(ctx, "k", []byte("a"), 0)
		_ = s.Set(ctx, "k", []byte("b"), time.Hour)
		got, err := s.Get(ctx, "k")
		if err != nil || string(got) != "b" {
			t.Errorf("Get = %q, %v; want b", got, err)
		}
	})

	t.Run("json round trip", func(t *testing.T) {
		s := newStore(t)
		type record struct {
			Trigger string    `json:"trigger"`
			At      time.Time `json:"at"`
		}
		in := record{Trigger: "meal_time", At: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
		if err := SetJSON(ctx, s, "suggested:rome:p1", in, time.Hour); err != nil {
			t.Fatalf("SetJSON: %v", err)
		}
		var out record
		if err := GetJSON(ctx, s, "suggested:rome:p1", &out); err != nil {
			t.Fatalf("GetJSON: %v", err)
		}
		if out.Trigger != in.Trigger || !out.At.Equal(in.At) {
			t.Errorf("GetJSON = %+v, want %+v", out, in)
		}
	})

	t.Run("closed", func(t *testing.T) {
		s := newStore(t)
		if err := s.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
		if _, err := s.Get(ctx, "k"); !errors.Is(err, ErrClosed) {
			t.Errorf("Get after close err = %v, want ErrClosed", err)
		}
		if err := s.Set(ctx, "k", nil, 0); !errors.Is(err, ErrClosed) {
			t.Errorf("Set after close err = %v, want ErrClosed", err)
		}
	})
}

func TestMemoryStore_Conformance(t *testing.T) {
	t.Parallel()
	runConformance(t, func(t *testing.T) Store { return NewMemoryStore() })
}

func TestBadgerStore_Conformance(t *testing.T) {
	t.Parallel()
	runConformance(t, func(t *testing.T) Store {
		s, err := OpenBadger(BadgerConfig{InMemory: true})
		if err != nil {
			t.Fatalf("OpenBadger: %v", err)
		}
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestRedisStore_Conformance(t *testing.T) {
	addr := os.Getenv("TRIPSENSE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TRIPSENSE_TEST_REDIS_ADDR not set")
	}
	runConformance(t, func(t *testing.T) Store {
		s, err := NewRedisStore(context.Background(), RedisConfig{Addr: addr, KeyPrefix: "tripsense-test:" + t.Name() + ":"})
		if err != nil {
			t.Fatalf("NewRedisStore: %v", err)
		}
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestMemoryStore_Expiry(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(WithMemoryClock(func() time.Time { return now }))
	ctx := context.Background()

	_ = s.Set(ctx, "short", []byte("x"), time.Minute)
	_ = s.Set(ctx, "forever", []byte("y"), 0)

	now = now.Add(2 * time.Minute)
	if _, err := s.Get(ctx, "short"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expired Get err = %v, want ErrNotFound", err)
	}
	if _, err := s.Get(ctx, "forever"); err != nil {
		t.Errorf("Get(forever) err = %v", err)
	}

	n, err := s.Purge(ctx)
	if err != nil || n != 1 {
		t.Errorf("Purge = %d, %v; want 1", n, err)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestMemoryStore_ValuesAreCopied(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	ctx := context.Background()
	buf := []byte("abc")
	_ = s.Set(ctx, "k", buf, 0)
	buf[0] = 'z'

	got, _ := s.Get(ctx, "k")
	got[1] = 'z'
	again, _ := s.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("stored value mutated to %q", again)
	}
}

func TestBadgerStore_Count(t *testing.T) {
	t.Parallel()

	s, err := OpenBadger(BadgerConfig{InMemory: true})
	if err != nil {
		t.Fatalf("OpenBadger: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	_ = s.Set(ctx, "dismissed:a:1", []byte("1"), 0)
	_ = s.Set(ctx, "dismissed:a:2", []byte("1"), 0)
	_ = s.Set(ctx, "suggested:rome:p1", []byte("1"), time.Hour)

	n, err := s.Count("dismissed:")
	if err != nil || n != 2 {
		t.Errorf("Count = %d, %v; want 2", n, err)
	}
	if _, err := s.Purge(ctx); err != nil {
		t.Errorf("Purge in-memory: %v", err)
	}
}

func TestBadgerStore_OnDisk(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx := context.Background()

	s, err := OpenBadger(BadgerConfig{Path: dir})
	if err != nil {
		t.Fatalf("OpenBadger: %v", err)
	}
	_ = s.Set(ctx, "dismissed:s:heat_warning:weather", []byte("1"), 0)
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := OpenBadger(BadgerConfig{Path: dir})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if _, err := reopened.Get(ctx, "dismissed:s:heat_warning:weather"); err != nil {
		t.Errorf("dismissal lost across restart: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"default", DefaultConfig(), false},
		{"badger in memory", Config{Backend: BackendBadger, Badger: BadgerConfig{InMemory: true}}, false},
		{"badger without path", Config{Backend: BackendBadger}, true},
		{"redis without addr", Config{Backend: BackendRedis}, true},
		{"unknown", Config{Backend: "etcd"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOpen_InstrumentsOperations(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, err := Open(ctx, Config{Backend: BackendBadger, Badger: BadgerConfig{InMemory: true}}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	counter := metrics.StoreOperations.WithLabelValues("badger", "get", "success")
	before := testutil.ToFloat64(counter)
	_, _ = s.Get(ctx, "missing")
	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("get success delta = %v, want 1", got)
	}
}
