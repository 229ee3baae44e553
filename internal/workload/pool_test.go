package workload

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/longbridgeapp/assert"

	"github.com/hyp3rd/hypertable/internal/sentinel"
)

func TestWorkerPool_EnqueueAndWait(t *testing.T) {
	pool := NewWorkerPool(context.Background(), 3)
	assert.Equal(t, 3, pool.Workers())

	var mu sync.Mutex

	results := []int{}

	for i := range 5 {
		err := pool.Enqueue(func(context.Context) error {
			mu.Lock()

			results = append(results, i)

			mu.Unlock()

			return nil
		})
		assert.Nil(t, err)
	}

	assert.Nil(t, pool.Wait())
	assert.Equal(t, 5, len(results))
}

func TestWorkerPool_JobErrorHandling(t *testing.T) {
	pool := NewWorkerPool(context.Background(), 2)
	expectedErr := errors.New("job error")

	assert.Nil(t, pool.Enqueue(func(context.Context) error { return expectedErr }))
	assert.Nil(t, pool.Enqueue(func(context.Context) error { return nil }))

	assert.NotNil(t, pool.Wait())
}

func TestWorkerPool_DefaultsToOneWorker(t *testing.T) {
	pool := NewWorkerPool(context.Background(), 0)
	assert.Equal(t, 1, pool.Workers())
	assert.Nil(t, pool.Wait())
}

func TestWorkerPool_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewWorkerPool(ctx, 1)

	var ran atomic.Int32

	started := make(chan struct{})

	assert.Nil(t, pool.Enqueue(func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		ran.Add(1)

		return nil
	}))

	<-started
	cancel()

	// the queue may still accept jobs, but none of them runs after cancellation
	for range 3 {
		err := pool.Enqueue(func(context.Context) error {
			ran.Add(1)

			return nil
		})
		if err != nil {
			assert.True(t, errors.Is(err, sentinel.ErrTimeoutOrCanceled))
		}
	}

	done := make(chan error, 1)

	go func() { done <- pool.Wait() }()

	select {
	case err := <-done:
		assert.NotNil(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("pool did not stop after cancellation")
	}

	assert.Equal(t, int32(1), ran.Load())
}
