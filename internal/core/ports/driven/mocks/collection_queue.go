package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/sievelabs/sieve-core/internal/core/domain"
	"github.com/sievelabs/sieve-core/internal/core/ports/driven"
)

var _ driven.CollectionQueue = (*MockCollectionQueue)(nil)

// MockCollectionQueue is an in-memory CollectionQueue for testing.
// Tasks are served FIFO; behavior can be overridden via the Fn hooks.
type MockCollectionQueue struct {
	EnqueueFn func(ctx context.Context, task *domain.CollectionTask) error
	DequeueFn func(ctx context.Context, timeout time.Duration) (*domain.CollectionTask, error)
	AckFn     func(ctx context.Context, taskID string) error
	NackFn    func(ctx context.Context, taskID string, reason string) error

	mu      sync.Mutex
	pending []*domain.CollectionTask
	tasks   map[string]*domain.CollectionTask

	acked  []string
	nacked []string
}

func NewMockCollectionQueue() *MockCollectionQueue {
	return &MockCollectionQueue{
		tasks: make(map[string]*domain.CollectionTask),
	}
}

func (m *MockCollectionQueue) Enqueue(ctx context.Context, task *domain.CollectionTask) error {
	if m.EnqueueFn != nil {
		return m.EnqueueFn(ctx, task)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, task)
	m.tasks[task.ID] = task
	return nil
}

func (m *MockCollectionQueue) Dequeue(ctx context.Context, timeout time.Duration) (*domain.CollectionTask, error) {
	if m.DequeueFn != nil {
		return m.DequeueFn(ctx, timeout)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.pending) == 0 {
		return nil, domain.ErrQueueEmpty
	}
	task := m.pending[0]
	m.pending = m.pending[1:]
	return task, nil
}

func (m *MockCollectionQueue) Ack(ctx context.Context, taskID string) error {
	if m.AckFn != nil {
		return m.AckFn(ctx, taskID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.acked = append(m.acked, taskID)
	if task, ok := m.tasks[taskID]; ok {
		task.MarkCompleted()
	}
	return nil
}

func (m *MockCollectionQueue) Nack(ctx context.Context, taskID string, reason string) error {
	if m.NackFn != nil {
		return m.NackFn(ctx, taskID, reason)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.nacked = append(m.nacked, taskID)
	task, ok := m.tasks[taskID]
	if !ok {
		return domain.ErrNotFound
	}
	task.MarkFailed(reason)
	if task.CanRetry() {
		m.pending = append(m.pending, task)
	}
	return nil
}

func (m *MockCollectionQueue) GetTask(ctx context.Context, taskID string) (*domain.CollectionTask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[taskID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return task, nil
}

func (m *MockCollectionQueue) Stats(ctx context.Context) (*driven.QueueStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := &driven.QueueStats{}
	stats.PendingCount = int64(len(m.pending))
	for _, task := range m.tasks {
		switch task.Status {
		case domain.TaskStatusProcessing:
			stats.ProcessingCount++
		case domain.TaskStatusCompleted:
			stats.CompletedCount++
		case domain.TaskStatusFailed:
			stats.FailedCount++
		}
	}
	return stats, nil
}

func (m *MockCollectionQueue) Ping(ctx context.Context) error {
	return nil
}

func (m *MockCollectionQueue) Close() error {
	return nil
}

// Acked returns a copy of the task IDs acknowledged so far.
func (m *MockCollectionQueue) Acked() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.acked))
	copy(out, m.acked)
	return out
}

// Nacked returns a copy of the task IDs negatively acknowledged so far.
func (m *MockCollectionQueue) Nacked() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.nacked))
	copy(out, m.nacked)
	return out
}

// PendingLen reports how many tasks are waiting, for test assertions.
func (m *MockCollectionQueue) PendingLen() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}
