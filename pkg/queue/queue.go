package queue

import (
	"context"
	"sync"

	"github.com/emirpasic/gods/lists/doublylinkedlist"
)

// Queue is a blocking hand-off queue safe for any number of concurrent
// producers and consumers.
type Queue[T any] struct {
	mu    sync.Mutex
	cond  *sync.Cond
	items *doublylinkedlist.List
	opts  Options
}

// New creates an empty queue
func New[T any](opts ...Option) *Queue[T] {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	q := &Queue[T]{
		items: doublylinkedlist.New(),
		opts:  options,
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Order returns the removal order of the queue
func (q *Queue[T]) Order() Order {
	return q.opts.Order
}

// Send stores value and wakes one blocked receiver.
func (q *Queue[T]) Send(value T) {
	// simulated producer cost, paid outside the lock
	if q.opts.SendLatency > 0 {
		q.opts.Sleep(q.opts.SendLatency)
	}

	q.mu.Lock()
	q.items.Add(value)
	q.mu.Unlock()

	q.cond.Signal()
}

// Receive blocks until a value is available and removes it.
func (q *Queue[T]) Receive() T {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.items.Empty() {
		q.cond.Wait()
	}
	return q.pop()
}

// ReceiveContext is like Receive but gives up once ctx is done. A value that
// is already available is always returned, even if ctx is done.
func (q *Queue[T]) ReceiveContext(ctx context.Context) (T, error) {
	stop := context.AfterFunc(ctx, func() {
		q.mu.Lock()
		q.cond.Broadcast()
		q.mu.Unlock()
	})
	defer stop()

	q.mu.Lock()
	defer q.mu.Unlock()

	for q.items.Empty() {
		if err := ctx.Err(); err != nil {
			var zero T
			return zero, err
		}
		q.cond.Wait()
	}
	return q.pop(), nil
}

// TryReceive removes a value if one is available without blocking.
func (q *Queue[T]) TryReceive() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.items.Empty() {
		var zero T
		return zero, false
	}
	return q.pop(), true
}

// Len returns the number of stored values
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Size()
}

// pop must be called with q.mu held on a non-empty queue.
func (q *Queue[T]) pop() T {
	index := 0
	if q.opts.Order == LIFO {
		index = q.items.Size() - 1
	}

	raw, _ := q.items.Get(index)
	q.items.Remove(index)

	value, _ := raw.(T)
	return value
}
