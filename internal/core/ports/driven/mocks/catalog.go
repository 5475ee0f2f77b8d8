package mocks

import (
	"context"
	"sync"

	"github.com/sievelabs/sieve-core/internal/core/domain"
	"github.com/sievelabs/sieve-core/internal/core/ports/driven"
)

var _ driven.DatasetCatalog = (*MockCatalog)(nil)

// MockCatalog is a mock implementation of DatasetCatalog for testing.
// Call recording is mutex-guarded because services fetch concurrently.
type MockCatalog struct {
	SearchFn    func(ctx context.Context, query domain.CatalogQuery) (domain.CatalogPage, error)
	ListFilesFn func(ctx context.Context, reference string) ([]domain.DatasetFile, error)
	PingFn      func(ctx context.Context) error

	mu sync.Mutex

	searchCalls    []domain.CatalogQuery
	listFilesCalls []string
}

func NewMockCatalog() *MockCatalog {
	return &MockCatalog{}
}

func (m *MockCatalog) Search(ctx context.Context, query domain.CatalogQuery) (domain.CatalogPage, error) {
	m.mu.Lock()
	m.searchCalls = append(m.searchCalls, query)
	m.mu.Unlock()

	if m.SearchFn != nil {
		return m.SearchFn(ctx, query)
	}
	return domain.CatalogPage{}, nil
}

func (m *MockCatalog) ListFiles(ctx context.Context, reference string) ([]domain.DatasetFile, error) {
	m.mu.Lock()
	m.listFilesCalls = append(m.listFilesCalls, reference)
	m.mu.Unlock()

	if m.ListFilesFn != nil {
		return m.ListFilesFn(ctx, reference)
	}
	return nil, nil
}

func (m *MockCatalog) Ping(ctx context.Context) error {
	if m.PingFn != nil {
		return m.PingFn(ctx)
	}
	return nil
}

// SearchCalls returns a copy of the queries passed to Search, in order.
func (m *MockCatalog) SearchCalls() []domain.CatalogQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.CatalogQuery, len(m.searchCalls))
	copy(out, m.searchCalls)
	return out
}

// SearchCallCount returns how many Search calls were made.
func (m *MockCatalog) SearchCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.searchCalls)
}

// ListFilesCalls returns a copy of the references passed to ListFiles.
func (m *MockCatalog) ListFilesCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.listFilesCalls))
	copy(out, m.listFilesCalls)
	return out
}
