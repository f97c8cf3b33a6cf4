package event

import (
	"context"
	"time"
)

type Queue[E any] interface {
	Enqueue(context.Context, E)
	Dequeue(context.Context) (E, bool)

	Size() uint
	Close()
}

// A QueueWithWait supports blocking until an element is available.
type QueueWithWait[E any] interface {
	Queue[E]
	// Wait blocks until an element is available, the queue is closed or
	// ctx is done. The second return value is false when no element was
	// obtained.
	Wait(context.Context) (E, bool)
}

// A QueueWithPoll supports a bounded blocking dequeue.
type QueueWithPoll[E any] interface {
	Queue[E]
	// Poll blocks for at most timeout until an element is available. The
	// second return value is false when no element was obtained.
	Poll(context.Context, time.Duration) (E, bool)
}

type QueueEnqueueMany[E any] interface {
	Queue[E]
	EnqueueMany(context.Context, []E)
}

func EnqueueMany[E any](ctx context.Context, q Queue[E], evs []E) {
	switch queue := q.(type) {
	case QueueEnqueueMany[E]:
		queue.EnqueueMany(ctx, evs)
	default:
		for _, e := range evs {
			q.Enqueue(ctx, e)
		}
	}
}

type QueueDequeueAll[E any] interface {
	DequeueAll(context.Context) []E
}

func DequeueAll[E any](ctx context.Context, q Queue[E]) []E {
	switch queue := q.(type) {
	case QueueDequeueAll[E]:
		return queue.DequeueAll(ctx)
	default:
		evs := make([]E, 0, q.Size())
		for e, ok := q.Dequeue(ctx); ok; e, ok = q.Dequeue(ctx) {
			evs = append(evs, e)
		}
		return evs
	}
}

type QueueWithEmpty[E any] interface {
	Queue[E]
	Empty() bool
}

func Empty[E any](q Queue[E]) bool {
	switch queue := q.(type) {
	case QueueWithEmpty[E]:
		return queue.Empty()
	default:
		return q.Size() == 0
	}
}
