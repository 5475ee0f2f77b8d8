package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/sievelabs/sieve-core/internal/core/domain"
)

// setupTestRedisCache creates a miniredis-backed query cache
func setupTestRedisCache(t *testing.T, ttl time.Duration) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisCache(client, ttl), mr
}

func TestRedisCache_RoundTrip(t *testing.T) {
	c, _ := setupTestRedisCache(t, time.Minute)
	ctx := context.Background()

	stored := cachedRecords("acme/alpha", 12.5)
	if err := c.Set(ctx, "finance data", stored); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := c.Get(ctx, "finance data")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	got := records[0]
	if got.Reference != "acme/alpha" || got.SearchScore != 12.5 || got.SearchMethod != "keyword:finance" {
		t.Errorf("unexpected record after round trip: %+v", got)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "finance" {
		t.Errorf("expected tags to survive serialization, got %v", got.Tags)
	}
}

func TestRedisCache_Miss(t *testing.T) {
	c, _ := setupTestRedisCache(t, time.Minute)

	if _, err := c.Get(context.Background(), "never stored"); !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss, got %v", err)
	}
}

func TestRedisCache_EntriesExpire(t *testing.T) {
	c, mr := setupTestRedisCache(t, time.Minute)
	ctx := context.Background()

	if err := c.Set(ctx, "finance data", cachedRecords("acme/alpha", 1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := c.Get(ctx, "finance data"); !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("expected entry to expire, got %v", err)
	}
}

func TestRedisCache_KeysAreNamespaced(t *testing.T) {
	c, mr := setupTestRedisCache(t, time.Minute)

	if err := c.Set(context.Background(), "finance data", cachedRecords("acme/alpha", 1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mr.Exists("sieve:query:finance data") {
		t.Errorf("expected namespaced key, have %v", mr.Keys())
	}
}
