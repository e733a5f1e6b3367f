// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store persists whole-collection snapshots behind a small
// key-value boundary. Each collection is one JSON document under a fixed
// key; backends only need to get, set and delete opaque values.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrNotFound is returned by KV.Get for a missing or expired key.
var ErrNotFound = errors.New("store: key not found")

// KV is the persistence boundary shared by every backend.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key. A positive ttl expires the key.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Pruner is implemented by backends that must delete expired keys
// themselves rather than letting the server expire them.
type Pruner interface {
	Prune(ctx context.Context) (int64, error)
}

// Collection reads and writes one typed snapshot under a fixed key.
type Collection[T any] struct {
	kv   KV
	key  string
	seed func() T
}

// NewCollection binds a snapshot key to a backend. seed builds the value
// used when the key is missing or its data cannot be decoded.
func NewCollection[T any](kv KV, key string, seed func() T) *Collection[T] {
	return &Collection[T]{kv: kv, key: key, seed: seed}
}

// Key returns the storage key.
func (c *Collection[T]) Key() string { return c.key }

// Load returns the stored snapshot. A missing or corrupt entry yields the
// seed; only a backend failure is returned as an error.
func (c *Collection[T]) Load(ctx context.Context) (T, error) {
	raw, err := c.kv.Get(ctx, c.key)
	if errors.Is(err, ErrNotFound) {
		slog.Info("snapshot missing, using seed", "key", c.key)
		return c.seed(), nil
	}
	if err != nil {
		var zero T
		return zero, fmt.Errorf("load %s: %w", c.key, err)
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		slog.Warn("snapshot corrupt, using seed", "key", c.key, "error", err)
		return c.seed(), nil
	}
	return v, nil
}

// Save replaces the stored snapshot.
func (c *Collection[T]) Save(ctx context.Context, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}
	if err := c.kv.Set(ctx, c.key, raw, 0); err != nil {
		return fmt.Errorf("save %s: %w", c.key, err)
	}
	return nil
}
