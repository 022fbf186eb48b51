// Package queue provides a bounded in-memory job queue with non-blocking
// enqueue and channel-based dequeue.
package queue

import (
	"context"
	"sync"

	"github.com/okian/resumerank/pkg/metrics"
)

const defaultCapacity = 1024

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue[T any] interface {
	// Enqueue adds a job. It returns false when the queue is closed, full,
	// or ctx is done.
	Enqueue(ctx context.Context, job T) bool

	// Dequeue returns a channel that receives jobs until the queue is closed
	// and drained, or ctx is done.
	Dequeue(ctx context.Context) <-chan T

	Len() int
	Close() error
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue[T any] struct {
	name     string
	jobs     chan T
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a queue with the given options.
func NewInMemoryQueue[T any](opts ...Option) *InMemoryQueue[T] {
	o := options{name: "jobs", capacity: defaultCapacity}
	for _, opt := range opts {
		opt(&o)
	}
	q := &InMemoryQueue[T]{
		name:     o.name,
		capacity: o.capacity,
		jobs:     make(chan T, o.capacity),
	}
	metrics.UpdateQueueDepth(q.name, 0)
	return q
}

// Enqueue adds a job to the queue.
func (q *InMemoryQueue[T]) Enqueue(ctx context.Context, job T) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueRejected(q.name, "closed")
		return false
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordQueueRejected(q.name, "context_cancelled")
		return false
	}

	select {
	case q.jobs <- job:
		metrics.UpdateQueueDepth(q.name, len(q.jobs))
		return true
	default:
		metrics.RecordQueueRejected(q.name, "queue_full")
		return false
	}
}

// Dequeue returns a channel that will receive jobs as they become available.
func (q *InMemoryQueue[T]) Dequeue(ctx context.Context) <-chan T {
	out := make(chan T)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case job, ok := <-q.jobs:
				if !ok {
					return
				}
				metrics.UpdateQueueDepth(q.name, len(q.jobs))
				select {
				case out <- job:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// Len returns the number of queued jobs.
func (q *InMemoryQueue[T]) Len() int {
	return len(q.jobs)
}

// Close stops accepting jobs. Queued jobs are still delivered.
func (q *InMemoryQueue[T]) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.jobs)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue[T]) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
