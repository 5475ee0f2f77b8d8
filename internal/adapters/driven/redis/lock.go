// Package redis provides the Redis-backed worker coordination pieces.
package redis

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sievelabs/sieve-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.DistributedLock = (*Lock)(nil)

const lockPrefix = "sieve:lock:"

// Lock implements DistributedLock with SET NX and a per-instance owner
// token. Release and Extend verify the token so one instance can never
// drop or stretch a lock another instance holds.
type Lock struct {
	client  *redis.Client
	ownerID string
}

// NewLock creates a Redis-backed distributed lock. An empty ownerID gets
// a generated hostname:pid:random token.
func NewLock(client *redis.Client, ownerID string) *Lock {
	if ownerID == "" {
		ownerID = defaultOwnerID()
	}
	return &Lock{client: client, ownerID: ownerID}
}

func defaultOwnerID() string {
	hostname, _ := os.Hostname()
	raw := make([]byte, 8)
	_, _ = rand.Read(raw)
	return fmt.Sprintf("%s:%d:%s", hostname, os.Getpid(), hex.EncodeToString(raw))
}

// Acquire attempts to take a named lock with the given TTL. Returns
// false when another instance already holds it.
func (l *Lock) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	acquired, err := l.client.SetNX(ctx, lockPrefix+name, l.ownerID, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire lock %s: %w", name, err)
	}
	return acquired, nil
}

// Check-and-delete must be atomic or an expiry between the two steps
// would release a lock some other instance has since taken.
var releaseScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

// Release drops a named lock if this instance holds it. Safe to call
// when the lock already expired or belongs to someone else.
func (l *Lock) Release(ctx context.Context, name string) error {
	_, err := releaseScript.Run(ctx, l.client, []string{lockPrefix + name}, l.ownerID).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release lock %s: %w", name, err)
	}
	return nil
}

var extendScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("pexpire", KEYS[1], ARGV[2])
	else
		return 0
	end
`)

// Extend pushes out the TTL of a lock this instance holds. Fails when
// the lock expired or was taken over.
func (l *Lock) Extend(ctx context.Context, name string, ttl time.Duration) error {
	result, err := extendScript.Run(ctx, l.client, []string{lockPrefix + name}, l.ownerID, ttl.Milliseconds()).Result()
	if err != nil {
		return fmt.Errorf("extend lock %s: %w", name, err)
	}
	if extended, ok := result.(int64); !ok || extended == 0 {
		return fmt.Errorf("lock %s not held by this instance", name)
	}
	return nil
}

// Ping checks if the lock backend is healthy.
func (l *Lock) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

// OwnerID returns this instance's lock token, for logs.
func (l *Lock) OwnerID() string {
	return l.ownerID
}
