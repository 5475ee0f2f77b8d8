package runtime

import (
	"context"
	"sync"

	"github.com/sievelabs/sieve-core/internal/core/domain"
	"github.com/sievelabs/sieve-core/internal/core/ports/driven"
)

// Backends holds references to the optional Redis-backed infrastructure.
// The collection queue and worker lock exist only when Redis is
// configured; the API consults this registry to decide whether bulk
// collections can be accepted. Thread-safe for concurrent access.
type Backends struct {
	mu sync.RWMutex

	// Config tracks capability flags
	config *domain.RuntimeConfig

	// Optional backends (can be nil when Redis is not configured)
	queue driven.CollectionQueue
	lock  driven.DistributedLock
}

// NewBackends creates a new Backends registry
func NewBackends(config *domain.RuntimeConfig) *Backends {
	return &Backends{
		config: config,
	}
}

// Config returns the runtime configuration
func (b *Backends) Config() *domain.RuntimeConfig {
	return b.config
}

// Queue returns the current collection queue (may be nil)
func (b *Backends) Queue() driven.CollectionQueue {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.queue
}

// Lock returns the current distributed lock (may be nil)
func (b *Backends) Lock() driven.DistributedLock {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lock
}

// SetQueue updates the collection queue.
// Closes the old queue if present. Updates config flags.
func (b *Backends) SetQueue(queue driven.CollectionQueue) {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Close old queue
	if b.queue != nil {
		_ = b.queue.Close()
	}

	b.queue = queue
	b.config.SetQueueAvailable(queue != nil)
}

// SetLock updates the distributed lock
func (b *Backends) SetLock(lock driven.DistributedLock) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lock = lock
}

// Close shuts down all backends
func (b *Backends) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.queue != nil {
		_ = b.queue.Close()
		b.queue = nil
	}
	b.lock = nil

	b.config.SetQueueAvailable(false)

	return nil
}

// ValidateAndSetQueue validates connectivity before setting the queue
func (b *Backends) ValidateAndSetQueue(ctx context.Context, queue driven.CollectionQueue) error {
	if queue == nil {
		b.SetQueue(nil)
		return nil
	}

	// Validate connectivity
	if err := queue.Ping(ctx); err != nil {
		_ = queue.Close()
		return err
	}

	b.SetQueue(queue)
	return nil
}

// Healthy reports whether every configured backend answers a ping.
// A registry with no backends is healthy: the API then runs
// synchronous-only.
func (b *Backends) Healthy(ctx context.Context) error {
	b.mu.RLock()
	queue, lock := b.queue, b.lock
	b.mu.RUnlock()

	if queue != nil {
		if err := queue.Ping(ctx); err != nil {
			return err
		}
	}
	if lock != nil {
		if err := lock.Ping(ctx); err != nil {
			return err
		}
	}
	return nil
}
