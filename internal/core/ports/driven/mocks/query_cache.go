package mocks

import (
	"context"
	"sync"

	"github.com/sievelabs/sieve-core/internal/core/domain"
	"github.com/sievelabs/sieve-core/internal/core/ports/driven"
)

var _ driven.QueryCache = (*MockQueryCache)(nil)

// MockQueryCache is an in-memory QueryCache for testing.
// Behavior can be overridden per-method via the Fn hooks.
type MockQueryCache struct {
	GetFn func(ctx context.Context, key string) ([]*domain.DatasetRecord, error)
	SetFn func(ctx context.Context, key string, records []*domain.DatasetRecord) error

	mu      sync.Mutex
	entries map[string][]*domain.DatasetRecord

	getCalls []string
	setCalls []string
}

func NewMockQueryCache() *MockQueryCache {
	return &MockQueryCache{
		entries: make(map[string][]*domain.DatasetRecord),
	}
}

func (m *MockQueryCache) Get(ctx context.Context, key string) ([]*domain.DatasetRecord, error) {
	m.mu.Lock()
	m.getCalls = append(m.getCalls, key)
	m.mu.Unlock()

	if m.GetFn != nil {
		return m.GetFn(ctx, key)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	records, ok := m.entries[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return records, nil
}

func (m *MockQueryCache) Set(ctx context.Context, key string, records []*domain.DatasetRecord) error {
	m.mu.Lock()
	m.setCalls = append(m.setCalls, key)
	m.mu.Unlock()

	if m.SetFn != nil {
		return m.SetFn(ctx, key, records)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = records
	return nil
}

// GetCalls returns a copy of the keys passed to Get, in order.
func (m *MockQueryCache) GetCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.getCalls))
	copy(out, m.getCalls)
	return out
}

// SetCalls returns a copy of the keys passed to Set, in order.
func (m *MockQueryCache) SetCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.setCalls))
	copy(out, m.setCalls)
	return out
}
