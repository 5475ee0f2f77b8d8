// Package cache provides query cache implementations: an in-process LRU
// for single-node runs and a Redis-backed cache for shared deployments.
package cache

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/sievelabs/sieve-core/internal/core/domain"
	"github.com/sievelabs/sieve-core/internal/core/ports/driven"
)

// DefaultCapacity bounds the in-process cache to the most recent
// exact-query keys.
const DefaultCapacity = 100

// Verify interface compliance
var _ driven.QueryCache = (*LRUCache)(nil)

// LRUCache is an in-process, size-bounded query cache. Both Get and Set
// refresh recency; the oldest key is evicted when the cache is full.
type LRUCache struct {
	entries *lru.Cache[string, []*domain.DatasetRecord]
}

// NewLRUCache creates an in-process query cache. A capacity of zero or
// less falls back to DefaultCapacity.
func NewLRUCache(capacity int) (*LRUCache, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	entries, err := lru.New[string, []*domain.DatasetRecord](capacity)
	if err != nil {
		return nil, fmt.Errorf("create query cache: %w", err)
	}
	return &LRUCache{entries: entries}, nil
}

// Get returns the cached records for a key.
func (c *LRUCache) Get(ctx context.Context, key string) ([]*domain.DatasetRecord, error) {
	records, ok := c.entries.Get(key)
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return records, nil
}

// Set stores the records for a key.
func (c *LRUCache) Set(ctx context.Context, key string, records []*domain.DatasetRecord) error {
	c.entries.Add(key, records)
	return nil
}

// Len returns the number of cached queries.
func (c *LRUCache) Len() int {
	return c.entries.Len()
}
