// Package redis implements the collection queue on a Redis list with
// per-task state keys.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sievelabs/sieve-core/internal/core/domain"
	"github.com/sievelabs/sieve-core/internal/core/ports/driven"
)

const (
	// Key layout
	pendingList   = "sieve:collections:pending"
	taskKeyPrefix = "sieve:collections:task:"

	// taskTTL bounds how long finished task state lingers for status
	// polling before Redis reclaims it.
	taskTTL = 24 * time.Hour
)

// Verify interface compliance
var _ driven.CollectionQueue = (*Queue)(nil)

// Queue implements CollectionQueue on Redis. Task IDs travel through a
// list; full task state lives in per-task keys so status polling never
// touches the list. Collection tasks are low-volume and workers hold a
// per-task lock, so a plain list with bounded attempts is enough; there
// is no consumer-group redelivery here.
type Queue struct {
	client *redis.Client
}

// NewQueue creates a Redis-backed collection queue.
func NewQueue(client *redis.Client) (*Queue, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	return &Queue{client: client}, nil
}

// Enqueue adds a task to the queue for processing.
func (q *Queue) Enqueue(ctx context.Context, task *domain.CollectionTask) error {
	if task == nil {
		return errors.New("task is required")
	}

	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	pipe := q.client.Pipeline()
	pipe.Set(ctx, taskKeyPrefix+task.ID, data, taskTTL)
	pipe.LPush(ctx, pendingList, task.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}
	return nil
}

// Dequeue retrieves the next task, waiting up to timeout. The task is
// marked processing before it is handed to the worker.
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (*domain.CollectionTask, error) {
	deadline := time.Now().Add(timeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, domain.ErrQueueEmpty
		}

		vals, err := q.client.BRPop(ctx, remaining, pendingList).Result()
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrQueueEmpty
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("failed to dequeue task: %w", err)
		}

		task, err := q.GetTask(ctx, vals[1])
		if errors.Is(err, domain.ErrNotFound) {
			// Task state expired while the ID sat in the list.
			continue
		}
		if err != nil {
			return nil, err
		}

		task.MarkProcessing()
		if err := q.storeTask(ctx, task); err != nil {
			return nil, err
		}
		return task, nil
	}
}

// Ack acknowledges successful completion of a task.
func (q *Queue) Ack(ctx context.Context, taskID string) error {
	task, err := q.GetTask(ctx, taskID)
	if err != nil {
		return err
	}
	task.MarkCompleted()
	return q.storeTask(ctx, task)
}

// Nack returns a failed task to the queue when attempts remain, or marks
// it failed once they are spent.
func (q *Queue) Nack(ctx context.Context, taskID string, reason string) error {
	task, err := q.GetTask(ctx, taskID)
	if err != nil {
		return err
	}

	if !task.CanRetry() {
		task.MarkFailed(reason)
		return q.storeTask(ctx, task)
	}

	task.Status = domain.TaskStatusPending
	task.Error = reason
	task.UpdatedAt = time.Now()

	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}
	pipe := q.client.Pipeline()
	pipe.Set(ctx, taskKeyPrefix+task.ID, data, taskTTL)
	pipe.LPush(ctx, pendingList, task.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to requeue task: %w", err)
	}
	return nil
}

// GetTask retrieves a task by ID.
func (q *Queue) GetTask(ctx context.Context, taskID string) (*domain.CollectionTask, error) {
	data, err := q.client.Get(ctx, taskKeyPrefix+taskID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	var task domain.CollectionTask
	if err := json.Unmarshal(data, &task); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task: %w", err)
	}
	return &task, nil
}

// Stats returns queue counters. Pending comes from the list; the other
// states are counted off per-task keys, which taskTTL keeps bounded.
func (q *Queue) Stats(ctx context.Context) (*driven.QueueStats, error) {
	stats := &driven.QueueStats{}

	pending, err := q.client.LLen(ctx, pendingList).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get pending count: %w", err)
	}
	stats.PendingCount = pending

	var cursor uint64
	for {
		keys, next, err := q.client.Scan(ctx, cursor, taskKeyPrefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan tasks: %w", err)
		}

		for _, key := range keys {
			data, err := q.client.Get(ctx, key).Bytes()
			if err != nil {
				continue
			}
			var task domain.CollectionTask
			if json.Unmarshal(data, &task) != nil {
				continue
			}
			switch task.Status {
			case domain.TaskStatusProcessing:
				stats.ProcessingCount++
			case domain.TaskStatusCompleted:
				stats.CompletedCount++
			case domain.TaskStatusFailed:
				stats.FailedCount++
			}
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	return stats, nil
}

// Ping checks if the queue backend is healthy.
func (q *Queue) Ping(ctx context.Context) error {
	return q.client.Ping(ctx).Err()
}

// Close cleans up resources.
func (q *Queue) Close() error {
	// Redis client is shared, don't close it here
	return nil
}

func (q *Queue) storeTask(ctx context.Context, task *domain.CollectionTask) error {
	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}
	if err := q.client.Set(ctx, taskKeyPrefix+task.ID, data, taskTTL).Err(); err != nil {
		return fmt.Errorf("failed to store task: %w", err)
	}
	return nil
}
