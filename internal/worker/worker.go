// Package worker drains the collection queue: each task runs the full
// multi-dimension collection for its domain and writes a CSV snapshot.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/sievelabs/sieve-core/internal/core/domain"
	"github.com/sievelabs/sieve-core/internal/core/ports/driven"
	"github.com/sievelabs/sieve-core/internal/core/ports/driving"
	"github.com/sievelabs/sieve-core/internal/metrics"
)

const (
	defaultDequeueTimeout = 5 * time.Second
	defaultLockTTL        = 10 * time.Minute
)

// Worker consumes collection tasks. A per-task distributed lock keeps
// two instances from running the same task when a requeue races with a
// slow holder.
type Worker struct {
	queue    driven.CollectionQueue
	lock     driven.DistributedLock
	searcher driving.SearchService
	exporter driving.MetadataExporter
	logger   *slog.Logger

	concurrency    int
	dequeueTimeout time.Duration
	lockTTL        time.Duration
	outputDir      string

	mu      sync.RWMutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// Config holds configuration for the worker.
type Config struct {
	Queue    driven.CollectionQueue
	Lock     driven.DistributedLock
	Searcher driving.SearchService
	Exporter driving.MetadataExporter
	Logger   *slog.Logger

	// Concurrency is the number of concurrent task processors.
	Concurrency int

	// DequeueTimeout is how long a processor waits for a task before
	// checking for shutdown.
	DequeueTimeout time.Duration

	// LockTTL is the per-task lock lifetime; the worker extends it at
	// half-TTL intervals while the task runs.
	LockTTL time.Duration

	// OutputDir receives snapshots for tasks that carry no output path
	// of their own. Empty defers to the exporter's default.
	OutputDir string
}

// New creates a collection worker.
func New(cfg Config) *Worker {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	dequeueTimeout := cfg.DequeueTimeout
	if dequeueTimeout <= 0 {
		dequeueTimeout = defaultDequeueTimeout
	}
	lockTTL := cfg.LockTTL
	if lockTTL <= 0 {
		lockTTL = defaultLockTTL
	}

	return &Worker{
		queue:          cfg.Queue,
		lock:           cfg.Lock,
		searcher:       cfg.Searcher,
		exporter:       cfg.Exporter,
		logger:         logger,
		concurrency:    concurrency,
		dequeueTimeout: dequeueTimeout,
		lockTTL:        lockTTL,
		outputDir:      cfg.OutputDir,
	}
}

// Start begins the worker loop. It returns immediately; processing runs
// until Stop is called or the context is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.mu.Unlock()

	w.logger.Info("collection worker starting",
		"concurrency", w.concurrency,
		"dequeue_timeout", w.dequeueTimeout,
	)

	var wg sync.WaitGroup
	for i := 0; i < w.concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			w.processLoop(ctx, workerID)
		}(i)
	}

	go func() {
		wg.Wait()
		close(w.doneCh)
	}()

	return nil
}

// Stop gracefully stops the worker and waits for in-flight tasks.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	close(w.stopCh)
	w.mu.Unlock()

	<-w.doneCh

	w.mu.Lock()
	w.running = false
	w.mu.Unlock()

	w.logger.Info("collection worker stopped")
}

// Wait blocks until the worker stops.
func (w *Worker) Wait() {
	<-w.doneCh
}

func (w *Worker) processLoop(ctx context.Context, workerID int) {
	logger := w.logger.With("worker_id", workerID)
	logger.Info("worker goroutine started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("worker context cancelled")
			return
		case <-w.stopCh:
			logger.Info("worker stop signal received")
			return
		default:
		}

		task, err := w.queue.Dequeue(ctx, w.dequeueTimeout)
		if err != nil {
			if errors.Is(err, domain.ErrQueueEmpty) {
				continue
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			logger.Error("failed to dequeue task", "error", err)
			time.Sleep(time.Second) // Back off on error
			continue
		}

		w.processTask(ctx, task, logger)
	}
}

func (w *Worker) processTask(ctx context.Context, task *domain.CollectionTask, logger *slog.Logger) {
	logger = logger.With("task_id", task.ID, "domain", task.Domain)

	lockName := "collect:" + task.ID
	acquired, err := w.lock.Acquire(ctx, lockName, w.lockTTL)
	if err != nil {
		logger.Error("failed to acquire task lock", "error", err)
		if nackErr := w.queue.Nack(ctx, task.ID, "lock unavailable: "+err.Error()); nackErr != nil {
			logger.Error("failed to nack task", "nack_error", nackErr)
		}
		return
	}
	if !acquired {
		// Another instance is on it; that holder will ack or nack.
		logger.Warn("task locked by another instance, skipping")
		return
	}
	defer func() {
		if err := w.lock.Release(context.WithoutCancel(ctx), lockName); err != nil {
			logger.Warn("failed to release task lock", "error", err)
		}
	}()

	stopKeepalive := w.keepLockAlive(ctx, lockName, logger)
	defer stopKeepalive()

	logger.Info("processing collection task", "attempt", task.Attempts, "max_total", task.MaxTotal)
	start := time.Now()

	result, err := w.runCollection(ctx, task)
	duration := time.Since(start)

	if err != nil {
		logger.Error("collection task failed", "duration", duration, "error", err)
		metrics.CollectionTasksTotal.WithLabelValues("failed").Inc()
		if nackErr := w.queue.Nack(ctx, task.ID, err.Error()); nackErr != nil {
			logger.Error("failed to nack task", "nack_error", nackErr)
		}
		return
	}

	logger.Info("collection task completed",
		"duration", duration,
		"datasets", result.DatasetCount,
		"output", result.OutputPath,
	)
	metrics.CollectionTasksTotal.WithLabelValues("completed").Inc()
	if ackErr := w.queue.Ack(ctx, task.ID); ackErr != nil {
		logger.Error("failed to ack task", "ack_error", ackErr)
	}
}

func (w *Worker) runCollection(ctx context.Context, task *domain.CollectionTask) (*domain.CollectionResult, error) {
	start := time.Now()

	found, err := w.searcher.ComprehensiveCollection(ctx, task.Domain, task.MaxTotal)
	if err != nil {
		return nil, fmt.Errorf("collect %s: %w", task.Domain, err)
	}

	path := task.OutputPath
	if path == "" && w.outputDir != "" {
		path = filepath.Join(w.outputDir, task.ID+".csv")
	}
	written, err := w.exporter.ExportFile(path, found.Records)
	if err != nil {
		return nil, fmt.Errorf("export snapshot: %w", err)
	}

	return &domain.CollectionResult{
		TaskID:       task.ID,
		Domain:       task.Domain,
		DatasetCount: len(found.Records),
		OutputPath:   written,
		Duration:     time.Since(start),
	}, nil
}

// keepLockAlive extends the task lock at half-TTL intervals until the
// returned stop function is called. Extension failure just stops the
// keepalive; the TTL then decides.
func (w *Worker) keepLockAlive(ctx context.Context, name string, logger *slog.Logger) func() {
	stop := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(w.lockTTL / 2)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := w.lock.Extend(ctx, name, w.lockTTL); err != nil {
					logger.Warn("failed to extend task lock", "error", err)
					return
				}
			}
		}
	}()

	return func() {
		close(stop)
		<-done
	}
}

// Health reports the worker's view of its own state and backends.
type Health struct {
	Running     bool   `json:"running"`
	QueueHealth bool   `json:"queue_health"`
	LockHealth  bool   `json:"lock_health"`
	Error       string `json:"error,omitempty"`
}

// Health returns the health status of the worker.
func (w *Worker) Health(ctx context.Context) Health {
	w.mu.RLock()
	running := w.running
	w.mu.RUnlock()

	health := Health{Running: running, QueueHealth: true, LockHealth: true}
	if err := w.queue.Ping(ctx); err != nil {
		health.QueueHealth = false
		health.Error = err.Error()
	}
	if err := w.lock.Ping(ctx); err != nil {
		health.LockHealth = false
		health.Error = err.Error()
	}
	return health
}
