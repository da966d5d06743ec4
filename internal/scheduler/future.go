package scheduler

import (
	"context"
	"errors"
	"sync"
)

// ErrPending is returned by Result while a future is unsettled.
var ErrPending = errors.New("future not settled")

// Future is a one-shot asynchronous result. The first Resolve or Reject wins;
// later calls are ignored.
type Future[T any] struct {
	once  sync.Once
	done  chan struct{}
	value T
	err   error
}

// NewFuture creates an unsettled future.
func NewFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Resolve settles the future with v.
func (f *Future[T]) Resolve(v T) {
	f.once.Do(func() {
		f.value = v
		close(f.done)
	})
}

// Reject settles the future with err.
func (f *Future[T]) Reject(err error) {
	f.once.Do(func() {
		f.err = err
		close(f.done)
	})
}

// Done is closed once the future settles.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Settled reports whether Resolve or Reject has run.
func (f *Future[T]) Settled() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Result returns the settled value without blocking, or ErrPending.
func (f *Future[T]) Result() (T, error) {
	if !f.Settled() {
		var zero T
		return zero, ErrPending
	}
	return f.value, f.err
}

// Await blocks until the future settles or ctx is done. Giving up on ctx does
// not cancel the underlying work.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
