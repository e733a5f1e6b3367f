// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// response.go caches generated AI text in Valkey. Summaries and category
// suggestions for an unchanged document are asked for repeatedly while
// browsing; a hit skips the provider round trip.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// responseKeyPrefix is the Valkey key prefix for cached AI answers.
	responseKeyPrefix = "ai:"

	// DefaultResponseTTL is how long a generated answer stays cached.
	DefaultResponseTTL = 24 * time.Hour
)

// ResponseCache stores AI answers keyed by operation and input.
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResponseCache creates a response cache backed by the given Valkey client.
func NewResponseCache(client *redis.Client, ttl time.Duration) *ResponseCache {
	if ttl == 0 {
		ttl = DefaultResponseTTL
	}
	return &ResponseCache{client: client, ttl: ttl}
}

// Key derives a cache key from an operation name and its inputs.
func Key(op string, parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return op + ":" + hex.EncodeToString(h.Sum(nil))[:32]
}

// Get returns a cached answer. Errors count as a miss.
func (rc *ResponseCache) Get(ctx context.Context, key string) (string, bool) {
	val, err := rc.client.Get(ctx, responseKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		slog.Warn("response cache get error", "key", key, "error", err)
		return "", false
	}
	slog.Debug("response cache hit", "key", key)
	return val, true
}

// Set stores an answer with the configured TTL.
func (rc *ResponseCache) Set(ctx context.Context, key, answer string) {
	if err := rc.client.Set(ctx, responseKeyPrefix+key, answer, rc.ttl).Err(); err != nil {
		slog.Warn("response cache set error", "key", key, "error", err)
	}
}

// Invalidate removes a single answer.
func (rc *ResponseCache) Invalidate(ctx context.Context, key string) {
	if err := rc.client.Del(ctx, responseKeyPrefix+key).Err(); err != nil {
		slog.Warn("response cache invalidate error", "key", key, "error", err)
	}
}

// InvalidateAll removes all cached answers by scanning for the prefix.
// Used when the active provider changes.
func (rc *ResponseCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := rc.client.Scan(ctx, cursor, responseKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("response cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := rc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("response cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("response cache cleared", "deleted", deleted)
	}
}
