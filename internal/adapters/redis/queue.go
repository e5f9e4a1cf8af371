package redisad

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"staybook/internal/adapters/observability"
	"staybook/internal/domain"
)

const (
	taskList     = "resize:tasks"
	resultPrefix = "resize:result:"
	resultExpiry = 5 * time.Minute
)

// Queue is a Redis-list task queue. Producers LPUSH tasks and block on
// a per-task result list; workers BRPOP tasks and RPUSH the result.
type Queue struct{ c *redis.Client }

func NewQueue(addr, pass string, db int) *Queue {
	return &Queue{c: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
}

func NewQueueWithClient(c *redis.Client) *Queue { return &Queue{c: c} }

func (q *Queue) Enqueue(ctx context.Context, t domain.ResizeTask) error {
	b, err := json.Marshal(t)
	if err != nil {
		return err
	}
	observability.ObserveTask("enqueue")
	return q.c.LPush(ctx, taskList, b).Err()
}

// Wait blocks until the worker publishes a result for taskID or the
// timeout elapses; a timeout is reported as an error and the caller
// treats the task as failed.
func (q *Queue) Wait(ctx context.Context, taskID string, timeout time.Duration) (domain.TaskResult, error) {
	vals, err := q.c.BRPop(ctx, timeout, resultPrefix+taskID).Result()
	if err == redis.Nil {
		observability.ObserveTask("timeout")
		return domain.TaskResult{}, fmt.Errorf("task %s: timed out after %s", taskID, timeout)
	}
	if err != nil {
		return domain.TaskResult{}, err
	}
	var res domain.TaskResult
	if err := json.Unmarshal([]byte(vals[1]), &res); err != nil {
		return domain.TaskResult{}, err
	}
	return res, nil
}

// Dequeue pops the next task, blocking up to block. Returns (nil, nil)
// when nothing arrived in time so the worker loop can spin politely.
func (q *Queue) Dequeue(ctx context.Context, block time.Duration) (*domain.ResizeTask, error) {
	vals, err := q.c.BRPop(ctx, block, taskList).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var t domain.ResizeTask
	if err := json.Unmarshal([]byte(vals[1]), &t); err != nil {
		return nil, err
	}
	observability.ObserveTask("dequeue")
	return &t, nil
}

func (q *Queue) Complete(ctx context.Context, taskID string, res domain.TaskResult) error {
	b, err := json.Marshal(res)
	if err != nil {
		return err
	}
	key := resultPrefix + taskID
	if err := q.c.RPush(ctx, key, b).Err(); err != nil {
		return err
	}
	if res.OK {
		observability.ObserveTask("done")
	} else {
		observability.ObserveTask("failed")
	}
	return q.c.Expire(ctx, key, resultExpiry).Err()
}
