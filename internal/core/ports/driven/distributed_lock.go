package driven

import (
	"context"
	"time"
)

// DistributedLock coordinates workers across instances. A worker holds a
// per-task lock while running a collection so two workers never process
// the same task, even when the queue redelivers it.
type DistributedLock interface {
	// Acquire attempts to acquire a named lock with the given TTL.
	// Returns true if acquired, false if already held by another instance.
	// The lock expires automatically after TTL.
	Acquire(ctx context.Context, name string, ttl time.Duration) (acquired bool, err error)

	// Release releases a named lock. Best-effort: TTL expiry covers
	// crashed holders. Safe to call when the lock is not held.
	Release(ctx context.Context, name string) error

	// Extend extends the TTL of a currently held lock. Long collections
	// call this between dimensions. Returns an error if the lock is not
	// held by this instance.
	Extend(ctx context.Context, name string, ttl time.Duration) error

	// Ping checks if the lock backend is healthy.
	Ping(ctx context.Context) error
}
