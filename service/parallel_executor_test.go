package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/bcflow/domain"
)

func TestNewParallelExecutor(t *testing.T) {
	executor := NewParallelExecutor()

	require.NotNil(t, executor)
	assert.Equal(t, 0, executor.maxConcurrency)
	assert.Equal(t, 10*time.Minute, executor.timeout)
}

func TestParallelExecutor_Execute_EmptyTasks(t *testing.T) {
	executor := NewParallelExecutor()
	assert.NoError(t, executor.Execute(context.Background(), nil))
}

func TestParallelExecutor_Execute_MultipleTasks(t *testing.T) {
	executor := NewParallelExecutor()

	var counter int32
	tasks := make([]domain.ExecutableTask, 8)
	for i := range tasks {
		tasks[i] = NewSimpleTask("method", func(ctx context.Context) error {
			atomic.AddInt32(&counter, 1)
			return nil
		})
	}

	require.NoError(t, executor.Execute(context.Background(), tasks))
	assert.Equal(t, int32(8), counter)
}

func TestParallelExecutor_Execute_ConcurrencyLimit(t *testing.T) {
	executor := NewParallelExecutor()
	executor.SetMaxConcurrency(2)

	var running, peak int32
	tasks := make([]domain.ExecutableTask, 10)
	for i := range tasks {
		tasks[i] = NewSimpleTask("limited", func(ctx context.Context) error {
			n := atomic.AddInt32(&running, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&running, -1)
			return nil
		})
	}

	require.NoError(t, executor.Execute(context.Background(), tasks))
	assert.LessOrEqual(t, peak, int32(2))
}

func TestParallelExecutor_Execute_Error(t *testing.T) {
	executor := NewParallelExecutor()
	executor.SetMaxConcurrency(1)
	boom := errors.New("boom")

	var after int32
	tasks := []domain.ExecutableTask{
		NewSimpleTask("failing", func(ctx context.Context) error { return boom }),
		NewSimpleTask("later", func(ctx context.Context) error {
			atomic.AddInt32(&after, 1)
			return nil
		}),
	}

	err := executor.Execute(context.Background(), tasks)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "task failing failed")
	assert.Equal(t, int32(0), atomic.LoadInt32(&after), "tasks after a failure see a cancelled context")
}

func TestParallelExecutor_Execute_Timeout(t *testing.T) {
	executor := NewParallelExecutor()
	executor.SetTimeout(10 * time.Millisecond)

	task := NewSimpleTask("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	err := executor.Execute(context.Background(), []domain.ExecutableTask{task})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSimpleTask_NoFunction(t *testing.T) {
	task := NewSimpleTask("empty", nil)
	assert.Equal(t, "empty", task.Name())
	assert.Error(t, task.Execute(context.Background()))
}
