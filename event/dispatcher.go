package event

import (
	"context"

	"github.com/plprobelab/go-threadloop/mainloop"
	"github.com/plprobelab/go-threadloop/util"
)

// A Handler consumes events routed through a dispatcher.
type Handler interface {
	HandleEvent(context.Context, mainloop.Event) error
}

// A HandlerFunc adapts a function as a Handler
type HandlerFunc func(context.Context, mainloop.Event) error

func (f HandlerFunc) HandleEvent(ctx context.Context, ev mainloop.Event) error {
	return f(ctx, ev)
}

// SimpleDispatcher drains an event queue, fanning each event out to its
// handlers in registration order, until the quit sentinel is consumed. It
// owns the consuming side of the queue; producers enqueue through the
// queue's EventSink side.
type SimpleDispatcher struct {
	queue    QueueWithWait[mainloop.Event]
	handlers []Handler
}

var _ mainloop.EventDispatcher = (*SimpleDispatcher)(nil)

// NewSimpleDispatcher creates a dispatcher consuming from q.
func NewSimpleDispatcher(q QueueWithWait[mainloop.Event], handlers ...Handler) *SimpleDispatcher {
	return &SimpleDispatcher{
		queue:    q,
		handlers: handlers,
	}
}

// Loop blocks until the quit sentinel is consumed, the queue is closed or a
// handler returns an error.
func (d *SimpleDispatcher) Loop(ctx context.Context) error {
	ctx, span := util.StartSpan(ctx, "SimpleDispatcher.Loop")
	defer span.End()

	for {
		ev, ok := d.queue.Wait(ctx)
		if !ok {
			return ctx.Err()
		}
		if _, quit := ev.(mainloop.QuitEvent); quit {
			span.AddEvent("quit sentinel consumed")
			return nil
		}
		for _, h := range d.handlers {
			if err := h.HandleEvent(ctx, ev); err != nil {
				return err
			}
		}
	}
}
