package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		msg  string
	}{
		{"ErrNotFound", ErrNotFound, "not found"},
		{"ErrInvalidInput", ErrInvalidInput, "invalid input"},
		{"ErrRateLimited", ErrRateLimited, "rate limited"},
		{"ErrTransient", ErrTransient, "transient network error"},
		{"ErrExhausted", ErrExhausted, "retries exhausted"},
		{"ErrMalformedRecord", ErrMalformedRecord, "malformed record"},
		{"ErrFileRead", ErrFileRead, "file read failed"},
		{"ErrCacheMiss", ErrCacheMiss, "cache miss"},
		{"ErrQueueEmpty", ErrQueueEmpty, "queue empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.msg {
				t.Errorf("expected %q, got %q", tt.msg, tt.err.Error())
			}
		})
	}
}

func TestErrorsAreDistinct(t *testing.T) {
	allErrors := []error{
		ErrNotFound,
		ErrInvalidInput,
		ErrRateLimited,
		ErrTransient,
		ErrExhausted,
		ErrMalformedRecord,
		ErrFileRead,
		ErrCacheMiss,
		ErrQueueEmpty,
	}

	for i, err1 := range allErrors {
		for j, err2 := range allErrors {
			if i != j && errors.Is(err1, err2) {
				t.Errorf("errors should be distinct: %v and %v", err1, err2)
			}
		}
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"rate limited", ErrRateLimited, true},
		{"transient", ErrTransient, true},
		{"wrapped rate limited", fmt.Errorf("page 3: %w", ErrRateLimited), true},
		{"wrapped transient", fmt.Errorf("dial: %w", ErrTransient), true},
		{"invalid input", ErrInvalidInput, false},
		{"exhausted", ErrExhausted, false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
