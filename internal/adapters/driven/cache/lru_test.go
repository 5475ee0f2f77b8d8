package cache

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sievelabs/sieve-core/internal/core/domain"
)

func cachedRecords(ref string, score float64) []*domain.DatasetRecord {
	return []*domain.DatasetRecord{{
		Reference:    ref,
		Title:        "Cached " + ref,
		Votes:        42,
		Tags:         []string{"finance"},
		FileTypes:    []string{"csv"},
		SearchScore:  score,
		SearchMethod: "keyword:finance",
	}}
}

func TestLRUCache_RoundTrip(t *testing.T) {
	c, err := NewLRUCache(10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	if err := c.Set(ctx, "finance data", cachedRecords("acme/alpha", 10)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := c.Get(ctx, "finance data")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 || records[0].Reference != "acme/alpha" {
		t.Errorf("unexpected cached records: %+v", records)
	}
	if records[0].SearchScore != 10 {
		t.Errorf("expected stored score 10, got %v", records[0].SearchScore)
	}
}

func TestLRUCache_Miss(t *testing.T) {
	c, err := NewLRUCache(10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := c.Get(context.Background(), "never stored"); !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss, got %v", err)
	}
}

func TestLRUCache_EvictsOldestAtCapacity(t *testing.T) {
	c, err := NewLRUCache(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		key := fmt.Sprintf("query-%d", i)
		if err := c.Set(ctx, key, cachedRecords(fmt.Sprintf("acme/ds-%d", i), float64(i))); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if _, err := c.Get(ctx, "query-0"); !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("expected oldest entry to be evicted, got %v", err)
	}
	for i := 1; i < 4; i++ {
		if _, err := c.Get(ctx, fmt.Sprintf("query-%d", i)); err != nil {
			t.Errorf("query-%d: unexpected error: %v", i, err)
		}
	}
	if c.Len() != 3 {
		t.Errorf("expected 3 entries, got %d", c.Len())
	}
}

func TestLRUCache_GetRefreshesRecency(t *testing.T) {
	c, err := NewLRUCache(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	_ = c.Set(ctx, "first", cachedRecords("acme/first", 1))
	_ = c.Set(ctx, "second", cachedRecords("acme/second", 2))

	// Touch "first" so "second" becomes the eviction candidate.
	if _, err := c.Get(ctx, "first"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = c.Set(ctx, "third", cachedRecords("acme/third", 3))

	if _, err := c.Get(ctx, "first"); err != nil {
		t.Errorf("expected recently used entry to survive, got %v", err)
	}
	if _, err := c.Get(ctx, "second"); !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("expected least recently used entry to be evicted, got %v", err)
	}
}

func TestNewLRUCache_DefaultCapacity(t *testing.T) {
	c, err := NewLRUCache(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	for i := 0; i < DefaultCapacity+5; i++ {
		_ = c.Set(ctx, fmt.Sprintf("query-%d", i), cachedRecords("acme/ds", 0))
	}
	if c.Len() != DefaultCapacity {
		t.Errorf("expected cache bounded at %d, got %d", DefaultCapacity, c.Len())
	}
}
