package mainloop

import "context"

// An Event is an application-defined value routed through an event queue to
// the event dispatcher.
type Event any

// QuitEvent is the distinguished event that terminates a dispatcher's
// consume loop.
type QuitEvent struct{}

// Quit is the quit sentinel pushed onto the dispatcher's event source when a
// main loop stops.
var Quit Event = QuitEvent{}

// An EventDispatcher consumes events from its own event source until the
// quit sentinel is observed.
type EventDispatcher interface {
	// Loop blocks until the quit sentinel is consumed or an event handler
	// fails.
	Loop(ctx context.Context) error
}

// An EventSink accepts events for later dispatch. It is the producer side of
// the dispatcher's event source and must be safe for concurrent use.
type EventSink interface {
	Enqueue(context.Context, Event)
}
