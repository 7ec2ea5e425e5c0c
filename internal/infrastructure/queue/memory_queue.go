package queue

import (
	"context"
	"sync"
)

// MemoryEnqueuer collects jobs in memory. It backs local development when no
// Redis is configured and doubles as a test capture.
type MemoryEnqueuer struct {
	mu   sync.Mutex
	jobs []Job
}

// NewMemoryEnqueuer creates an empty in-memory enqueuer.
func NewMemoryEnqueuer() *MemoryEnqueuer {
	return &MemoryEnqueuer{}
}

// Enqueue appends the job to the in-memory slice.
func (e *MemoryEnqueuer) Enqueue(_ context.Context, job Job) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.jobs = append(e.jobs, job)
	return nil
}

// Jobs returns a copy of everything enqueued so far.
func (e *MemoryEnqueuer) Jobs() []Job {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Job, len(e.jobs))
	copy(out, e.jobs)
	return out
}

// Reset drops all captured jobs.
func (e *MemoryEnqueuer) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.jobs = nil
}

var _ Enqueuer = (*MemoryEnqueuer)(nil)
