package event

import (
	"context"

	"github.com/plprobelab/go-threadloop/util"
)

// ChanQueue is a trivial queue implementation using a channel
type ChanQueue[E any] struct {
	queue chan E
}

var (
	_ QueueWithEmpty[any] = (*ChanQueue[any])(nil)
	_ QueueWithWait[any]  = (*ChanQueue[any])(nil)
)

// NewChanQueue creates a new queue
func NewChanQueue[E any](capacity int) *ChanQueue[E] {
	return &ChanQueue[E]{
		queue: make(chan E, capacity),
	}
}

// Enqueue adds an element to the queue
func (q *ChanQueue[E]) Enqueue(ctx context.Context, e E) {
	_, span := util.StartSpan(ctx, "ChanQueue.Enqueue")
	defer span.End()
	q.queue <- e
}

// Dequeue reads the next element from the queue without blocking
func (q *ChanQueue[E]) Dequeue(ctx context.Context) (E, bool) {
	_, span := util.StartSpan(ctx, "ChanQueue.Dequeue")
	defer span.End()

	if q.Empty() {
		span.AddEvent("empty queue")
		var zero E
		return zero, false
	}

	e, ok := <-q.queue
	return e, ok
}

// Wait blocks until an element is available, the queue is closed or ctx is
// done
func (q *ChanQueue[E]) Wait(ctx context.Context) (E, bool) {
	_, span := util.StartSpan(ctx, "ChanQueue.Wait")
	defer span.End()

	select {
	case e, ok := <-q.queue:
		return e, ok
	case <-ctx.Done():
		span.AddEvent("context done")
		var zero E
		return zero, false
	}
}

// Empty returns true if the queue is empty
func (q *ChanQueue[E]) Empty() bool {
	return len(q.queue) == 0
}

func (q *ChanQueue[E]) Size() uint {
	return uint(len(q.queue))
}

func (q *ChanQueue[E]) Close() {
	close(q.queue)
}
