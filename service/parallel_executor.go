package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ludo-technologies/bcflow/domain"
)

// ParallelExecutorImpl implements the ParallelExecutor interface on an errgroup
type ParallelExecutorImpl struct {
	maxConcurrency int
	timeout        time.Duration
}

// NewParallelExecutor creates a new parallel executor
func NewParallelExecutor() *ParallelExecutorImpl {
	return &ParallelExecutorImpl{
		maxConcurrency: 0, // No limit by default
		timeout:        10 * time.Minute,
	}
}

// Execute runs tasks in parallel. The first failing task cancels the
// context passed to the others and its error is returned.
func (pe *ParallelExecutorImpl) Execute(ctx context.Context, tasks []domain.ExecutableTask) error {
	if len(tasks) == 0 {
		return nil
	}

	if pe.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, pe.timeout)
		defer cancel()
	}

	g, gctx := errgroup.WithContext(ctx)
	if pe.maxConcurrency > 0 {
		g.SetLimit(pe.maxConcurrency)
	}

	for _, task := range tasks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("task %s cancelled: %w", task.Name(), err)
			}
			if err := task.Execute(gctx); err != nil {
				return fmt.Errorf("task %s failed: %w", task.Name(), err)
			}
			return nil
		})
	}

	return g.Wait()
}

// SetMaxConcurrency sets the maximum number of concurrent tasks
func (pe *ParallelExecutorImpl) SetMaxConcurrency(max int) {
	pe.maxConcurrency = max
}

// SetTimeout sets the timeout for all tasks; 0 disables it
func (pe *ParallelExecutorImpl) SetTimeout(timeout time.Duration) {
	pe.timeout = timeout
}

// SimpleTask is a basic implementation of ExecutableTask
type SimpleTask struct {
	name    string
	execute func(context.Context) error
}

// NewSimpleTask creates a new simple task
func NewSimpleTask(name string, execute func(context.Context) error) *SimpleTask {
	return &SimpleTask{
		name:    name,
		execute: execute,
	}
}

// Name returns the name of the task
func (t *SimpleTask) Name() string {
	return t.name
}

// Execute runs the task
func (t *SimpleTask) Execute(ctx context.Context) error {
	if t.execute == nil {
		return fmt.Errorf("task %s has no execute function", t.name)
	}
	return t.execute(ctx)
}
