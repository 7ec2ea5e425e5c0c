package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisEnqueuer pushes jobs onto a Redis list. Workers consume with BRPOP so
// the list behaves as a FIFO queue.
type RedisEnqueuer struct {
	client    *redis.Client
	queueName string
}

// NewRedisEnqueuer creates an enqueuer backed by an existing Redis client.
func NewRedisEnqueuer(client *redis.Client, queueName string) *RedisEnqueuer {
	if queueName == "" {
		queueName = "crm:jobs"
	}
	return &RedisEnqueuer{
		client:    client,
		queueName: queueName,
	}
}

// Enqueue serializes the job as JSON and pushes it onto the list.
func (e *RedisEnqueuer) Enqueue(ctx context.Context, job Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to serialize job: %w", err)
	}

	if err := e.client.LPush(ctx, e.queueName, data).Err(); err != nil {
		return fmt.Errorf("failed to enqueue job: %w", err)
	}

	return nil
}

// QueueName returns the list the enqueuer pushes onto.
func (e *RedisEnqueuer) QueueName() string {
	return e.queueName
}

var _ Enqueuer = (*RedisEnqueuer)(nil)
