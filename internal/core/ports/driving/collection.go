package driving

import (
	"context"

	"github.com/sievelabs/sieve-core/internal/core/domain"
)

// CollectionService manages queued bulk-collection runs.
type CollectionService interface {
	// Enqueue queues a comprehensive collection for a domain.
	Enqueue(ctx context.Context, domainName string, maxTotal int, outputPath string) (*domain.CollectionTask, error)

	// Status retrieves a queued or finished task by ID.
	Status(ctx context.Context, taskID string) (*domain.CollectionTask, error)
}
