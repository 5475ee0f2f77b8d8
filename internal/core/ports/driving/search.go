package driving

import (
	"context"

	"github.com/sievelabs/sieve-core/internal/core/domain"
)

// SearchService handles dataset discovery operations
type SearchService interface {
	// Search runs a combined multi-dimension search: keywords, tags,
	// file types and column keywords expanded, fetched, scored,
	// deduplicated and ranked into one result set.
	// Fails with domain.ErrInvalidInput when every dimension is empty.
	Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResult, error)

	// SearchByColumns derives column intents from the schemas'
	// non-identifier columns and returns ranked results, deduplicated
	// across files by (title, reference).
	SearchByColumns(ctx context.Context, schemas []domain.TableSchema, maxResults int) (*domain.SearchResult, error)

	// SearchByColumnFiles reads the header rows of the given tabular
	// files and runs SearchByColumns on them. An unreadable file is
	// skipped and logged; the others continue.
	SearchByColumnFiles(ctx context.Context, paths []string, maxResults int) (*domain.SearchResult, error)

	// ComprehensiveCollection runs every dimension for a domain (keyword
	// variations, tag expansion, common file types, domain column
	// keywords) and returns the combined ranked set, capped at maxTotal.
	ComprehensiveCollection(ctx context.Context, domainName string, maxTotal int) (*domain.SearchResult, error)
}
