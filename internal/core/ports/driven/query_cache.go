package driven

import (
	"context"

	"github.com/sievelabs/sieve-core/internal/core/domain"
)

// QueryCache short-circuits repeated identical catalog queries within a
// process lifetime. Keys are exact query strings (domain.CatalogQuery.Key);
// values are the fully accumulated, scored record sets for that query.
// Implementations must be safe for concurrent use and bounded in size.
type QueryCache interface {
	// Get returns the cached records for a key.
	// Returns domain.ErrCacheMiss when the key is absent.
	Get(ctx context.Context, key string) ([]*domain.DatasetRecord, error)

	// Set stores the records for a key, evicting older entries when full.
	Set(ctx context.Context, key string, records []*domain.DatasetRecord) error
}
