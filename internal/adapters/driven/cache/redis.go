package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sievelabs/sieve-core/internal/core/domain"
	"github.com/sievelabs/sieve-core/internal/core/ports/driven"
)

const (
	// queryPrefix namespaces cache keys in a shared Redis.
	queryPrefix = "sieve:query:"

	// DefaultTTL expires shared cache entries; remote catalog results go
	// stale, so entries must not outlive a working session by much.
	DefaultTTL = time.Hour
)

// Verify interface compliance
var _ driven.QueryCache = (*RedisCache)(nil)

// RedisCache is a Redis-backed query cache shared across instances.
// Redis TTL bounds entry lifetime instead of an entry-count cap.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a Redis-backed query cache. A TTL of zero or
// less falls back to DefaultTTL.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

// Get returns the cached records for a key.
func (c *RedisCache) Get(ctx context.Context, key string) ([]*domain.DatasetRecord, error) {
	data, err := c.client.Get(ctx, queryPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached query: %w", err)
	}

	var records []*domain.DatasetRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached query: %w", err)
	}
	return records, nil
}

// Set stores the records for a key with the configured TTL.
func (c *RedisCache) Set(ctx context.Context, key string, records []*domain.DatasetRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal cached query: %w", err)
	}
	if err := c.client.Set(ctx, queryPrefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cached query: %w", err)
	}
	return nil
}
