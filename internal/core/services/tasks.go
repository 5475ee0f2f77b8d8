package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sievelabs/sieve-core/internal/core/domain"
	"github.com/sievelabs/sieve-core/internal/core/ports/driven"
	"github.com/sievelabs/sieve-core/internal/core/ports/driving"
	"github.com/sievelabs/sieve-core/internal/metrics"
)

// Ensure collectionService implements CollectionService
var _ driving.CollectionService = (*collectionService)(nil)

// collectionService is the queue-facing front end for bulk collection:
// it validates and enqueues tasks and answers status lookups. Workers
// consume the queue and run the sweeps.
type collectionService struct {
	queue  driven.CollectionQueue
	logger *slog.Logger
}

// NewCollectionService creates the collection task front end.
func NewCollectionService(queue driven.CollectionQueue, logger *slog.Logger) driving.CollectionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &collectionService{queue: queue, logger: logger}
}

// Enqueue queues a comprehensive collection for a domain.
func (s *collectionService) Enqueue(ctx context.Context, domainName string, maxTotal int, outputPath string) (*domain.CollectionTask, error) {
	domainName = strings.ToLower(strings.TrimSpace(domainName))
	if domainName == "" {
		return nil, fmt.Errorf("collection domain is required: %w", domain.ErrInvalidInput)
	}

	task := domain.NewCollectionTask(domainName, maxTotal, outputPath)
	if err := s.queue.Enqueue(ctx, task); err != nil {
		return nil, fmt.Errorf("enqueue collection task: %w", err)
	}

	metrics.CollectionTasksTotal.WithLabelValues("enqueued").Inc()
	s.logger.Info("collection task enqueued",
		"task_id", task.ID,
		"domain", task.Domain,
		"max_total", task.MaxTotal,
	)
	return task, nil
}

// Status retrieves a queued or finished task by ID.
func (s *collectionService) Status(ctx context.Context, taskID string) (*domain.CollectionTask, error) {
	if strings.TrimSpace(taskID) == "" {
		return nil, fmt.Errorf("task id is required: %w", domain.ErrInvalidInput)
	}
	return s.queue.GetTask(ctx, taskID)
}
