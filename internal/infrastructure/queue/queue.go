// Package queue provides fire-and-forget job enqueueing. A job is a named
// payload pushed onto a list for an out-of-process worker to pick up; the
// caller never waits on the outcome.
package queue

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Job is a unit of background work handed to a worker.
type Job struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	Payload    map[string]interface{} `json:"payload"`
	EnqueuedAt time.Time              `json:"enqueued_at"`
}

// NewJob creates a job with a fresh ID and timestamp.
func NewJob(jobType string, payload map[string]interface{}) Job {
	return Job{
		ID:         uuid.New().String(),
		Type:       jobType,
		Payload:    payload,
		EnqueuedAt: time.Now().UTC(),
	}
}

// Enqueuer pushes jobs onto a queue.
type Enqueuer interface {
	Enqueue(ctx context.Context, job Job) error
}
