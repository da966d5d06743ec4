// Package scheduler provides a cooperative, single-threaded turn loop.
//
// Work handed to Defer never runs inside the caller's synchronous extent. It
// runs on a later turn, in submission order. A turn executes exactly the tasks
// that were queued when it started; anything deferred while a turn is running
// waits for the following turn.
package scheduler

import "sync"

// Scheduler defers work to the next turn.
type Scheduler interface {
	Defer(task func())
}

// Loop is a FIFO task queue drained one turn at a time.
// It is safe to Defer from any goroutine; RunTurn must be called from a
// single goroutine, normally the UI update loop.
type Loop struct {
	mu    sync.Mutex
	queue []func()
}

// NewLoop creates an empty loop.
func NewLoop() *Loop {
	return &Loop{}
}

// Defer enqueues task for the next turn.
func (l *Loop) Defer(task func()) {
	if task == nil {
		return
	}
	l.mu.Lock()
	l.queue = append(l.queue, task)
	l.mu.Unlock()
}

// Pending returns the number of queued tasks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// RunTurn runs the tasks queued before the call and returns how many ran.
func (l *Loop) RunTurn() int {
	l.mu.Lock()
	batch := l.queue
	l.queue = nil
	l.mu.Unlock()

	for _, task := range batch {
		task()
	}
	return len(batch)
}
