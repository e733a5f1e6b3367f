// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultValkeyPrefix namespaces snapshot keys in a shared Valkey database.
const DefaultValkeyPrefix = "earsip:"

// ValkeyStore keeps snapshots as plain Valkey strings. Expiry is left to
// the server.
type ValkeyStore struct {
	client *redis.Client
	prefix string
}

// NewValkey returns a ValkeyStore. An empty prefix uses DefaultValkeyPrefix.
func NewValkey(client *redis.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = DefaultValkeyPrefix
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

func (s *ValkeyStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("valkey get %s: %w", key, err)
	}
	return val, nil
}

func (s *ValkeyStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, s.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("valkey set %s: %w", key, err)
	}
	return nil
}

func (s *ValkeyStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("valkey del %s: %w", key, err)
	}
	return nil
}
