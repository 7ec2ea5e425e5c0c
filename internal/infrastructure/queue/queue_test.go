package queue

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJob(t *testing.T) {
	job := NewJob("advisor.summarize", map[string]interface{}{"lead_id": "abc"})

	assert.NotEmpty(t, job.ID)
	assert.Equal(t, "advisor.summarize", job.Type)
	assert.Equal(t, "abc", job.Payload["lead_id"])
	assert.False(t, job.EnqueuedAt.IsZero())
}

func TestMemoryEnqueuer(t *testing.T) {
	t.Run("captures jobs in order", func(t *testing.T) {
		e := NewMemoryEnqueuer()

		require.NoError(t, e.Enqueue(context.Background(), NewJob("first", nil)))
		require.NoError(t, e.Enqueue(context.Background(), NewJob("second", nil)))

		jobs := e.Jobs()
		require.Len(t, jobs, 2)
		assert.Equal(t, "first", jobs[0].Type)
		assert.Equal(t, "second", jobs[1].Type)
	})

	t.Run("reset drops captured jobs", func(t *testing.T) {
		e := NewMemoryEnqueuer()
		require.NoError(t, e.Enqueue(context.Background(), NewJob("job", nil)))

		e.Reset()

		assert.Empty(t, e.Jobs())
	})

	t.Run("returned slice is a copy", func(t *testing.T) {
		e := NewMemoryEnqueuer()
		require.NoError(t, e.Enqueue(context.Background(), NewJob("job", nil)))

		jobs := e.Jobs()
		jobs[0].Type = "mutated"

		assert.Equal(t, "job", e.Jobs()[0].Type)
	})
}

func TestRedisEnqueuerDefaults(t *testing.T) {
	e := NewRedisEnqueuer(nil, "")
	assert.Equal(t, "crm:jobs", e.QueueName())

	e = NewRedisEnqueuer(nil, "crm:advisor")
	assert.Equal(t, "crm:advisor", e.QueueName())
}
