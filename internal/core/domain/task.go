package domain

import (
	"crypto/rand"
	"encoding/base64"
	"time"
)

// GenerateID creates a unique random ID.
func GenerateID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

// DefaultCollectionCap bounds a comprehensive collection when the caller
// does not set one.
const DefaultCollectionCap = 500

// TaskStatus represents the current state of a collection task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// CollectionTask is a queued bulk-collection job: run every search
// dimension for a domain, rank the combined results and write a CSV
// snapshot. Processed by workers.
type CollectionTask struct {
	// ID is the unique identifier for this task
	ID string `json:"id"`

	// Domain is the subject area to collect datasets for (e.g. "finance")
	Domain string `json:"domain"`

	// MaxTotal caps the combined ranked result set
	MaxTotal int `json:"max_total"`

	// OutputPath is where the CSV snapshot is written
	OutputPath string `json:"output_path"`

	// Status is the current state of the task
	Status TaskStatus `json:"status"`

	// Attempts is how many times this task has been attempted
	Attempts int `json:"attempts"`

	// MaxAttempts is the maximum retry count before giving up
	MaxAttempts int `json:"max_attempts"`

	// Error contains the last error message if failed
	Error string `json:"error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCollectionTask creates a pending task with default values.
func NewCollectionTask(domain string, maxTotal int, outputPath string) *CollectionTask {
	now := time.Now()
	if maxTotal <= 0 {
		maxTotal = DefaultCollectionCap
	}
	return &CollectionTask{
		ID:          GenerateID(),
		Domain:      domain,
		MaxTotal:    maxTotal,
		OutputPath:  outputPath,
		Status:      TaskStatusPending,
		MaxAttempts: 3,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// CanRetry returns true if the task can be retried
func (t *CollectionTask) CanRetry() bool {
	return t.Attempts < t.MaxAttempts
}

// MarkProcessing updates the task to processing state
func (t *CollectionTask) MarkProcessing() {
	t.Status = TaskStatusProcessing
	t.UpdatedAt = time.Now()
	t.Attempts++
}

// MarkCompleted updates the task to completed state
func (t *CollectionTask) MarkCompleted() {
	t.Status = TaskStatusCompleted
	t.UpdatedAt = time.Now()
	t.Error = ""
}

// MarkFailed updates the task to failed state
func (t *CollectionTask) MarkFailed(err string) {
	t.Status = TaskStatusFailed
	t.UpdatedAt = time.Now()
	t.Error = err
}

// CollectionResult is the outcome of processing one collection task.
type CollectionResult struct {
	TaskID       string        `json:"task_id"`
	Domain       string        `json:"domain"`
	DatasetCount int           `json:"dataset_count"`
	OutputPath   string        `json:"output_path,omitempty"`
	Duration     time.Duration `json:"duration"`
	Error        string        `json:"error,omitempty"`
}
