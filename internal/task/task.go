// Package task models deferred completions: an operation that settles later
// on its own goroutine and is awaited through a channel. The session manager
// uses it to stand in for network calls, so a real backend request can
// replace the simulated body without changing any caller.
package task

import (
	"context"
	"time"
)

type result[T any] struct {
	value T
	err   error
}

// Task is a single-use deferred completion producing a value of type T.
type Task[T any] struct {
	done chan result[T]
}

// Run starts fn on its own goroutine and returns a Task settling with
// fn's result.
func Run[T any](fn func() (T, error)) *Task[T] {
	t := &Task[T]{done: make(chan result[T], 1)}
	go func() {
		value, err := fn()
		t.done <- result[T]{value: value, err: err}
	}()
	return t
}

// After is Run with a fixed delay before fn executes. The delay always
// elapses; there is no cancellation of the underlying work.
func After[T any](delay time.Duration, fn func() (T, error)) *Task[T] {
	return Run(func() (T, error) {
		time.Sleep(delay)
		return fn()
	})
}

// Await blocks until the task settles or ctx is done. An abandoned await
// does not stop the task: the work still completes in the background.
func (t *Task[T]) Await(ctx context.Context) (T, error) {
	select {
	case r := <-t.done:
		return r.value, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
