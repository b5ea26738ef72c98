// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package store

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/tripsense/internal/metrics"
)

// instrumented records an operation counter for every call.
type instrumented struct {
	backend string
	next    Store
}

// Instrument wraps s so every operation is counted by backend, operation
// and outcome. A missing key counts as a success.
func Instrument(backend Backend, s Store) Store {
	return &instrumented{backend: string(backend), next: s}
}

func (i *instrumented) record(op string, err error) {
	if errors.Is(err, ErrNotFound) {
		err = nil
	}
	metrics.RecordStoreOperation(i.backend, op, err)
}

func (i *instrumented) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := i.next.Get(ctx, key)
	i.record("get", err)
	return v, err
}

func (i *instrumented) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := i.next.Set(ctx, key, value, ttl)
	i.record("set", err)
	return err
}

func (i *instrumented) Delete(ctx context.Context, key string) error {
	err := i.next.Delete(ctx, key)
	i.record("delete", err)
	return err
}

func (i *instrumented) Purge(ctx context.Context) (int, error) {
	n, err := i.next.Purge(ctx)
	i.record("purge", err)
	return n, err
}

func (i *instrumented) Close() error {
	return i.next.Close()
}
