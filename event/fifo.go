package event

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/eapache/queue"

	"github.com/plprobelab/go-threadloop/util"
)

// FIFO is an unbounded multi-producer queue. Enqueue never blocks, so it is
// safe to call from threads that must not stall on a slow consumer. The
// consumer side offers a non-blocking Dequeue and a clock-bounded Poll.
type FIFO[E any] struct {
	clk clock.Clock

	mu     sync.Mutex
	buf    *queue.Queue
	closed bool

	notify chan struct{}
}

var (
	_ QueueWithEmpty[any] = (*FIFO[any])(nil)
	_ QueueWithPoll[any]  = (*FIFO[any])(nil)
)

// NewFIFO creates a new unbounded queue using the given clock for bounded
// polls.
func NewFIFO[E any](clk clock.Clock) *FIFO[E] {
	return &FIFO[E]{
		clk:    clk,
		buf:    queue.New(),
		notify: make(chan struct{}, 1),
	}
}

// Enqueue adds an element to the queue without blocking. Elements enqueued
// after Close are discarded.
func (q *FIFO[E]) Enqueue(ctx context.Context, e E) {
	_, span := util.StartSpan(ctx, "FIFO.Enqueue")
	defer span.End()

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		span.AddEvent("closed queue")
		return
	}
	q.buf.Add(e)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// Dequeue reads the next element from the queue without blocking
func (q *FIFO[E]) Dequeue(ctx context.Context) (E, bool) {
	_, span := util.StartSpan(ctx, "FIFO.Dequeue")
	defer span.End()

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.buf.Length() == 0 {
		span.AddEvent("empty queue")
		var zero E
		return zero, false
	}
	return q.buf.Remove().(E), true
}

// Poll blocks for at most timeout until an element is available. A timeout
// of zero or less makes Poll equivalent to Dequeue.
func (q *FIFO[E]) Poll(ctx context.Context, timeout time.Duration) (E, bool) {
	ctx, span := util.StartSpan(ctx, "FIFO.Poll")
	defer span.End()

	if e, ok := q.Dequeue(ctx); ok {
		return e, true
	}
	if timeout <= 0 {
		var zero E
		return zero, false
	}

	timer := q.clk.Timer(timeout)
	defer timer.Stop()

	for {
		select {
		case <-q.notify:
			if e, ok := q.Dequeue(ctx); ok {
				return e, true
			}
		case <-timer.C:
			span.AddEvent("poll timeout")
			var zero E
			return zero, false
		case <-ctx.Done():
			span.AddEvent("context done")
			var zero E
			return zero, false
		}
	}
}

// Empty returns true if the queue is empty
func (q *FIFO[E]) Empty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.buf.Length() == 0
}

func (q *FIFO[E]) Size() uint {
	q.mu.Lock()
	defer q.mu.Unlock()
	return uint(q.buf.Length())
}

// Close marks the queue as closed. Elements already queued remain available
// to the consumer.
func (q *FIFO[E]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
}
