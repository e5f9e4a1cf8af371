package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	redisad "staybook/internal/adapters/redis"
	"staybook/internal/domain"
)

func newTestQueue(t *testing.T) *redisad.Queue {
	t.Helper()
	mr := miniredis.RunT(t)
	return redisad.NewQueueWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
}

func TestQueue_EnqueueDequeue(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	task := domain.ResizeTask{ID: "abc", Path: "/media/abc.jpg", Widths: []int{200, 500}}
	if err := q.Enqueue(ctx, task); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	got, err := q.Dequeue(ctx, time.Second)
	if err != nil {
		t.Fatalf("dequeue: %v", err)
	}
	if got == nil || got.ID != "abc" || got.Path != "/media/abc.jpg" || len(got.Widths) != 2 {
		t.Fatalf("unexpected task: %+v", got)
	}
}

func TestQueue_CompleteThenWait(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	res := domain.TaskResult{OK: true, Paths: []string{"/media/abc_w200.jpg"}}
	if err := q.Complete(ctx, "abc", res); err != nil {
		t.Fatalf("complete: %v", err)
	}

	got, err := q.Wait(ctx, "abc", time.Second)
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	if !got.OK || len(got.Paths) != 1 || got.Paths[0] != "/media/abc_w200.jpg" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestQueue_WaitTimesOut(t *testing.T) {
	q := newTestQueue(t)

	if _, err := q.Wait(context.Background(), "never", 50*time.Millisecond); err == nil {
		t.Fatal("expected timeout error")
	}
}
