package domain

import "sync"

// RuntimeConfig tracks which backends are available at runtime.
// The cache backend is fixed at startup; queue availability can change
// when the Redis connection is established late or torn down.
// Thread-safe for concurrent access.
type RuntimeConfig struct {
	mu sync.RWMutex

	// Static (set at startup, read-only)
	CacheBackend string // "redis" or "memory"

	// Dynamic capability flags
	queueAvailable bool
}

// NewRuntimeConfig creates a new RuntimeConfig with initial values
func NewRuntimeConfig(cacheBackend string) *RuntimeConfig {
	return &RuntimeConfig{
		CacheBackend: cacheBackend,
	}
}

// QueueAvailable returns whether a collection queue backend is available
func (c *RuntimeConfig) QueueAvailable() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.queueAvailable
}

// SetQueueAvailable updates the queue availability flag
func (c *RuntimeConfig) SetQueueAvailable(available bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queueAvailable = available
}

// CanEnqueueCollections returns true if bulk collections can be queued.
// Without a queue backend the API still serves synchronous searches.
func (c *RuntimeConfig) CanEnqueueCollections() bool {
	return c.QueueAvailable()
}
