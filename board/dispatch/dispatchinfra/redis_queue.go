package dispatchinfra

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/thaihadefi/Innovation-Project-sub000/board/dispatch"
)

// RedisQueue implements dispatch.Queue using Redis: a list for ready tasks
// and a sorted set, scored by due time, for delayed retries.
type RedisQueue struct {
	client    *redis.Client
	queueName string
}

// NewRedisQueue creates a new Redis-based task queue
func NewRedisQueue(client *redis.Client, queueName string) *RedisQueue {
	return &RedisQueue{
		client:    client,
		queueName: queueName,
	}
}

var _ dispatch.Queue = (*RedisQueue)(nil)

// Enqueue adds a task to the ready list
func (q *RedisQueue) Enqueue(ctx context.Context, task *dispatch.Task) error {
	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshal task %s: %w", task.ID, err)
	}

	if err := q.client.LPush(ctx, q.queueName, data).Err(); err != nil {
		return fmt.Errorf("enqueue task %s: %w", task.ID, err)
	}

	return nil
}

// EnqueueDelayed schedules a task to become ready after delay
func (q *RedisQueue) EnqueueDelayed(ctx context.Context, task *dispatch.Task, delay time.Duration) error {
	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshal delayed task %s: %w", task.ID, err)
	}

	score := float64(time.Now().Add(delay).Unix())
	if err := q.client.ZAdd(ctx, q.delayedQueue(), redis.Z{
		Score:  score,
		Member: data,
	}).Err(); err != nil {
		return fmt.Errorf("enqueue delayed task %s: %w", task.ID, err)
	}

	return nil
}

// Dequeue pops the next ready task, blocking up to timeout
func (q *RedisQueue) Dequeue(ctx context.Context, timeout time.Duration) (*dispatch.Task, error) {
	result, err := q.client.BRPop(ctx, timeout, q.queueName).Result()
	if err != nil {
		// redis.Nil is returned when the wait times out
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("dequeue task: %w", err)
	}

	if len(result) < 2 {
		return nil, fmt.Errorf("invalid result from queue: expected 2 elements, got %d", len(result))
	}

	var task dispatch.Task
	if err := json.Unmarshal([]byte(result[1]), &task); err != nil {
		return nil, fmt.Errorf("unmarshal task: %w", err)
	}

	return &task, nil
}

// MoveDelayedToReady promotes due delayed tasks to the ready list
func (q *RedisQueue) MoveDelayedToReady(ctx context.Context) (int, error) {
	now := float64(time.Now().Unix())

	due, err := q.client.ZRangeByScore(ctx, q.delayedQueue(), &redis.ZRangeBy{
		Min: "-inf",
		Max: fmt.Sprintf("%f", now),
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("get due tasks: %w", err)
	}

	if len(due) == 0 {
		return 0, nil
	}

	pipe := q.client.Pipeline()
	for _, member := range due {
		pipe.LPush(ctx, q.queueName, member)
		pipe.ZRem(ctx, q.delayedQueue(), member)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("move due tasks to ready: %w", err)
	}

	return len(due), nil
}

// ReadySize returns the number of tasks awaiting a worker
func (q *RedisQueue) ReadySize(ctx context.Context) (int64, error) {
	size, err := q.client.LLen(ctx, q.queueName).Result()
	if err != nil {
		return 0, fmt.Errorf("get ready size: %w", err)
	}
	return size, nil
}

// DelayedSize returns the number of scheduled retries
func (q *RedisQueue) DelayedSize(ctx context.Context) (int64, error) {
	size, err := q.client.ZCard(ctx, q.delayedQueue()).Result()
	if err != nil {
		return 0, fmt.Errorf("get delayed size: %w", err)
	}
	return size, nil
}

// Ping checks if the Redis connection is alive
func (q *RedisQueue) Ping(ctx context.Context) error {
	return q.client.Ping(ctx).Err()
}

func (q *RedisQueue) delayedQueue() string {
	return q.queueName + ":delayed"
}
