package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sievelabs/sieve-core/internal/core/domain"
	"github.com/sievelabs/sieve-core/internal/core/ports/driven/mocks"
)

type mockSearcher struct {
	collectFn func(ctx context.Context, domainName string, maxTotal int) (*domain.SearchResult, error)

	mu       sync.Mutex
	collects []string
}

func (m *mockSearcher) Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResult, error) {
	return nil, errors.New("not implemented")
}

func (m *mockSearcher) SearchByColumns(ctx context.Context, schemas []domain.TableSchema, maxResults int) (*domain.SearchResult, error) {
	return nil, errors.New("not implemented")
}

func (m *mockSearcher) SearchByColumnFiles(ctx context.Context, paths []string, maxResults int) (*domain.SearchResult, error) {
	return nil, errors.New("not implemented")
}

func (m *mockSearcher) ComprehensiveCollection(ctx context.Context, domainName string, maxTotal int) (*domain.SearchResult, error) {
	m.mu.Lock()
	m.collects = append(m.collects, domainName)
	m.mu.Unlock()

	if m.collectFn != nil {
		return m.collectFn(ctx, domainName, maxTotal)
	}
	return &domain.SearchResult{
		Records: []*domain.DatasetRecord{
			{Reference: "acme/alpha", Title: "Alpha", SearchScore: 10},
			{Reference: "acme/beta", Title: "Beta", SearchScore: 5},
		},
		TotalFound: 2,
		QueriesRun: 81,
	}, nil
}

type mockExporter struct {
	exportFn func(path string, records []*domain.DatasetRecord) (string, error)

	mu      sync.Mutex
	exports []int // record counts per call
}

func (m *mockExporter) WriteCSV(w io.Writer, records []*domain.DatasetRecord) error {
	return nil
}

func (m *mockExporter) ExportFile(path string, records []*domain.DatasetRecord) (string, error) {
	m.mu.Lock()
	m.exports = append(m.exports, len(records))
	m.mu.Unlock()

	if m.exportFn != nil {
		return m.exportFn(path, records)
	}
	if path == "" {
		path = "dataset_metadata_index.csv"
	}
	return path, nil
}

func (m *mockExporter) exportCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.exports)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func createTestWorker(searcher *mockSearcher, exporter *mockExporter) (*Worker, *mocks.MockCollectionQueue, *mocks.MockDistributedLock) {
	queue := mocks.NewMockCollectionQueue()
	lock := mocks.NewMockDistributedLock()

	w := New(Config{
		Queue:          queue,
		Lock:           lock,
		Searcher:       searcher,
		Exporter:       exporter,
		Logger:         quietLogger(),
		Concurrency:    1,
		DequeueTimeout: 10 * time.Millisecond,
		LockTTL:        time.Minute,
	})
	return w, queue, lock
}

// waitFor polls until cond holds or the timeout elapses.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", msg)
}

func TestWorker_ProcessesTaskToCompletion(t *testing.T) {
	searcher := &mockSearcher{}
	exporter := &mockExporter{}
	w, queue, lock := createTestWorker(searcher, exporter)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	task := domain.NewCollectionTask("finance", 200, "out/finance.csv")
	if err := queue.Enqueue(ctx, task); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := w.Start(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer w.Stop()

	waitFor(t, 2*time.Second, func() bool {
		return len(queue.Acked()) == 1
	}, "task ack")
	// Stop first: the lock release runs in a defer after the ack.
	w.Stop()

	if acked := queue.Acked(); acked[0] != task.ID {
		t.Errorf("expected ack for %s, got %s", task.ID, acked[0])
	}
	if got := exporter.exportCount(); got != 1 {
		t.Errorf("expected 1 export, got %d", got)
	}
	if exporter.exports[0] != 2 {
		t.Errorf("expected 2 records exported, got %d", exporter.exports[0])
	}
	if lock.IsHeld("collect:" + task.ID) {
		t.Error("expected task lock released after completion")
	}

	got, err := queue.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != domain.TaskStatusCompleted {
		t.Errorf("expected completed status, got %s", got.Status)
	}
}

func TestWorker_DefaultOutputPath(t *testing.T) {
	var gotPath string
	var mu sync.Mutex
	searcher := &mockSearcher{}
	exporter := &mockExporter{
		exportFn: func(path string, records []*domain.DatasetRecord) (string, error) {
			mu.Lock()
			gotPath = path
			mu.Unlock()
			return path, nil
		},
	}

	queue := mocks.NewMockCollectionQueue()
	lock := mocks.NewMockDistributedLock()
	w := New(Config{
		Queue:          queue,
		Lock:           lock,
		Searcher:       searcher,
		Exporter:       exporter,
		Logger:         quietLogger(),
		Concurrency:    1,
		DequeueTimeout: 10 * time.Millisecond,
		LockTTL:        time.Minute,
		OutputDir:      "exports",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	task := domain.NewCollectionTask("finance", 100, "")
	_ = queue.Enqueue(ctx, task)

	if err := w.Start(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer w.Stop()

	waitFor(t, 2*time.Second, func() bool {
		return len(queue.Acked()) == 1
	}, "task ack")
	w.Stop()

	mu.Lock()
	defer mu.Unlock()
	want := filepath.Join("exports", task.ID+".csv")
	if gotPath != want {
		t.Errorf("expected default output path %q, got %q", want, gotPath)
	}
}

func TestWorker_NacksOnCollectionFailure(t *testing.T) {
	searcher := &mockSearcher{
		collectFn: func(ctx context.Context, domainName string, maxTotal int) (*domain.SearchResult, error) {
			return nil, errors.New("catalog unreachable")
		},
	}
	exporter := &mockExporter{}
	w, queue, lock := createTestWorker(searcher, exporter)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	task := domain.NewCollectionTask("finance", 100, "")
	_ = queue.Enqueue(ctx, task)

	if err := w.Start(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer w.Stop()

	waitFor(t, 2*time.Second, func() bool {
		return len(queue.Nacked()) >= 1
	}, "task nack")
	w.Stop()

	if queue.Nacked()[0] != task.ID {
		t.Errorf("expected nack for %s, got %s", task.ID, queue.Nacked()[0])
	}
	if got := exporter.exportCount(); got != 0 {
		t.Errorf("expected no export on failure, got %d", got)
	}
	if lock.IsHeld("collect:" + task.ID) {
		t.Error("expected task lock released after failure")
	}
}

func TestWorker_NacksOnExportFailure(t *testing.T) {
	searcher := &mockSearcher{}
	exporter := &mockExporter{
		exportFn: func(path string, records []*domain.DatasetRecord) (string, error) {
			return "", errors.New("disk full")
		},
	}
	w, queue, _ := createTestWorker(searcher, exporter)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	task := domain.NewCollectionTask("finance", 100, "")
	_ = queue.Enqueue(ctx, task)

	if err := w.Start(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer w.Stop()

	waitFor(t, 2*time.Second, func() bool {
		return len(queue.Nacked()) >= 1
	}, "task nack")

	if len(queue.Acked()) != 0 {
		t.Errorf("expected no ack when export fails, got %v", queue.Acked())
	}
}

func TestWorker_SkipsTaskLockedElsewhere(t *testing.T) {
	searcher := &mockSearcher{}
	exporter := &mockExporter{}
	w, queue, lock := createTestWorker(searcher, exporter)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	task := domain.NewCollectionTask("finance", 100, "")
	lock.SetLockHeld("collect:"+task.ID, time.Minute)
	_ = queue.Enqueue(ctx, task)

	if err := w.Start(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The task is dequeued and dropped; give the loop time to reach it.
	waitFor(t, 2*time.Second, func() bool {
		return queue.PendingLen() == 0
	}, "task pickup")
	time.Sleep(50 * time.Millisecond)
	w.Stop()

	searcher.mu.Lock()
	collects := len(searcher.collects)
	searcher.mu.Unlock()
	if collects != 0 {
		t.Errorf("expected no collection run for a foreign-locked task, got %d", collects)
	}
	if len(queue.Acked()) != 0 || len(queue.Nacked()) != 0 {
		t.Errorf("expected neither ack nor nack, got acked=%v nacked=%v", queue.Acked(), queue.Nacked())
	}
}

func TestWorker_StopWaitsForShutdown(t *testing.T) {
	searcher := &mockSearcher{}
	exporter := &mockExporter{}
	w, _, _ := createTestWorker(searcher, exporter)

	ctx := context.Background()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Second start on a running worker is a no-op.
	if err := w.Start(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}

	health := w.Health(ctx)
	if health.Running {
		t.Error("expected worker not running after Stop")
	}
}

func TestWorker_Health(t *testing.T) {
	searcher := &mockSearcher{}
	exporter := &mockExporter{}
	w, _, lock := createTestWorker(searcher, exporter)

	ctx := context.Background()
	health := w.Health(ctx)
	if health.Running {
		t.Error("expected not running before Start")
	}
	if !health.QueueHealth || !health.LockHealth {
		t.Errorf("expected healthy backends, got %+v", health)
	}

	lock.PingFn = func(ctx context.Context) error { return errors.New("lock backend down") }
	health = w.Health(ctx)
	if health.LockHealth {
		t.Error("expected lock reported unhealthy")
	}
	if health.Error == "" {
		t.Error("expected error detail")
	}
}
