// Package live holds the pieces a long-lived client view needs: loads that
// can be abandoned and a presentation clock.
package live

import (
	"context"
	"sync"
)

// Task runs fetches on behalf of one view. Only the most recent fetch may
// apply its result, and nothing applies after Close.
type Task[T any] struct {
	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	// cancels the in-flight fetch when a newer Run supersedes it
	inflight context.CancelFunc
	gen      uint64
	closed   bool
	wg       sync.WaitGroup
}

func NewTask[T any](parent context.Context) *Task[T] {
	ctx, cancel := context.WithCancel(parent)
	return &Task[T]{ctx: ctx, cancel: cancel}
}

// Run starts fetch in a goroutine. apply is invoked with the result unless the
// task was closed or another Run started in the meantime. apply runs with the
// task lock held, so it must not call back into the task.
func (t *Task[T]) Run(fetch func(ctx context.Context) (T, error), apply func(T, error)) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	if t.inflight != nil {
		t.inflight()
	}
	ctx, cancel := context.WithCancel(t.ctx)
	t.inflight = cancel
	t.gen++
	gen := t.gen
	t.wg.Add(1)
	t.mu.Unlock()

	go func() {
		defer t.wg.Done()
		defer cancel()

		v, err := fetch(ctx)

		t.mu.Lock()
		defer t.mu.Unlock()
		if t.closed || gen != t.gen {
			return
		}
		apply(v, err)
	}()
}

// Close abandons any outstanding fetch. After Close returns no apply callback
// will run.
func (t *Task[T]) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	t.cancel()
	t.mu.Unlock()
}

// Wait blocks until every started fetch goroutine has returned.
func (t *Task[T]) Wait() {
	t.wg.Wait()
}

func (t *Task[T]) Closed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}
