package driven

import (
	"context"

	"github.com/sievelabs/sieve-core/internal/core/domain"
)

// DatasetCatalog is the remote, paginated dataset search service. Both
// calls are idempotent and side-effect-free; implementations translate
// transport failures into the domain error taxonomy (ErrRateLimited for
// over-quota responses, ErrTransient for server or network failures,
// anything else propagates as fatal).
type DatasetCatalog interface {
	// Search returns one page of raw dataset records for the query.
	// Pages start at 1. An empty page means end-of-results.
	Search(ctx context.Context, query domain.CatalogQuery) (domain.CatalogPage, error)

	// ListFiles returns the file listing for a dataset reference.
	// Used for per-record enrichment; failures degrade gracefully.
	ListFiles(ctx context.Context, reference string) ([]domain.DatasetFile, error)

	// Ping checks connectivity to the catalog.
	Ping(ctx context.Context) error
}
