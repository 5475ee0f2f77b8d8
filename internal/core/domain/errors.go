package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates the input is invalid. A search call with
	// no dimensions at all fails with this; it is never retried.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRateLimited indicates the remote catalog signalled over-quota.
	// Retryable with exponential backoff, bounded.
	ErrRateLimited = errors.New("rate limited")

	// ErrTransient indicates a temporary network or server failure.
	// Retryable with linear backoff, bounded.
	ErrTransient = errors.New("transient network error")

	// ErrExhausted indicates retries ran out for a single query. The
	// query is abandoned and logged; the aggregation continues.
	ErrExhausted = errors.New("retries exhausted")

	// ErrMalformedRecord indicates a remote record missing required
	// fields. The record is skipped and logged, never fatal.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrFileRead indicates a caller-supplied schema file could not be
	// read. That file is skipped; other files continue.
	ErrFileRead = errors.New("file read failed")

	// ErrCacheMiss indicates the query cache has no entry for the key
	ErrCacheMiss = errors.New("cache miss")

	// ErrQueueEmpty indicates no collection task is available
	ErrQueueEmpty = errors.New("queue empty")
)

// IsRetryable reports whether an error may be retried by the fetcher.
// Anything else propagates immediately.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrTransient)
}
