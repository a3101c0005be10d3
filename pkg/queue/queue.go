// Package queue implements the unbounded FIFO queues connecting the tasks of the engine.
package queue

import (
	"errors"

	"github.com/algorand/go-deadlock"
)

// ErrClosed is returned when pushing into a queue whose consumer is gone.
var ErrClosed = errors.New("queue closed")

// Queue is an unbounded, ordered, many-producer single-consumer queue.
// Push never blocks. The consumer waits on Ready and takes everything with Drain.
type Queue[T any] struct {
	mx     deadlock.Mutex
	items  []T
	ready  chan struct{}
	closed bool
}

// New constructs an empty queue.
func New[T any]() *Queue[T] {
	return &Queue[T]{ready: make(chan struct{}, 1)}
}

// Push appends an item. It fails with ErrClosed after Close.
func (q *Queue[T]) Push(item T) error {
	q.mx.Lock()
	defer q.mx.Unlock()
	if q.closed {
		return ErrClosed
	}
	q.items = append(q.items, item)
	select {
	case q.ready <- struct{}{}:
	default:
	}
	return nil
}

// Ready returns a channel that receives a value whenever new items may be available.
func (q *Queue[T]) Ready() <-chan struct{} {
	return q.ready
}

// Drain removes and returns all items in the order they were pushed.
func (q *Queue[T]) Drain() []T {
	q.mx.Lock()
	defer q.mx.Unlock()
	items := q.items
	q.items = nil
	return items
}

// Len returns the number of items waiting in the queue.
func (q *Queue[T]) Len() int {
	q.mx.Lock()
	defer q.mx.Unlock()
	return len(q.items)
}

// Close is called by the consumer when it stops reading. Pending items are discarded.
// A consumer waiting on Ready is woken up.
func (q *Queue[T]) Close() {
	q.mx.Lock()
	defer q.mx.Unlock()
	q.closed = true
	q.items = nil
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Closed reports whether Close was called.
func (q *Queue[T]) Closed() bool {
	q.mx.Lock()
	defer q.mx.Unlock()
	return q.closed
}
