package driven

import (
	"context"
	"time"

	"github.com/sievelabs/sieve-core/internal/core/domain"
)

// CollectionQueue hands bulk-collection tasks from the API to workers.
type CollectionQueue interface {
	// Enqueue adds a task to the queue for processing.
	Enqueue(ctx context.Context, task *domain.CollectionTask) error

	// Dequeue retrieves the next task, waiting up to timeout.
	// Returns domain.ErrQueueEmpty when the timeout elapses with no task.
	Dequeue(ctx context.Context, timeout time.Duration) (*domain.CollectionTask, error)

	// Ack acknowledges successful completion of a task.
	Ack(ctx context.Context, taskID string) error

	// Nack returns a failed task to the queue for retry, or marks it
	// failed once its attempts are spent.
	Nack(ctx context.Context, taskID string, reason string) error

	// GetTask retrieves a task by ID for status checks.
	// Returns domain.ErrNotFound when the task is unknown.
	GetTask(ctx context.Context, taskID string) (*domain.CollectionTask, error)

	// Stats returns queue counters.
	Stats(ctx context.Context) (*QueueStats, error)

	// Ping checks if the queue backend is healthy.
	Ping(ctx context.Context) error

	// Close cleans up resources.
	Close() error
}

// QueueStats contains queue counters
type QueueStats struct {
	// PendingCount is the number of tasks waiting to be processed
	PendingCount int64 `json:"pending_count"`

	// ProcessingCount is the number of tasks currently being processed
	ProcessingCount int64 `json:"processing_count"`

	// CompletedCount is the number of successfully completed tasks
	CompletedCount int64 `json:"completed_count"`

	// FailedCount is the number of tasks that failed after all retries
	FailedCount int64 `json:"failed_count"`
}
