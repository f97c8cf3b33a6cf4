// Package mainloop defines the contracts shared by main-loop implementations
// and their collaborators: the I/O handlers they drive, the event dispatcher
// they run, and the event sink used to signal the dispatcher to quit.
package mainloop

import (
	"context"
	"time"
)

// A MainLoop drives a set of registered I/O handlers and a single event
// dispatcher until it is stopped.
type MainLoop interface {
	// Start begins driving the registered handlers and the event dispatcher.
	Start(ctx context.Context) error

	// Stop closes every registered handler, signals the dispatcher to quit
	// and requests a cooperative stop of all in-flight work. If join is true
	// Stop waits for termination, bounded by timeout when timeout is
	// positive. A timeout of zero or less means wait without a time bound.
	Stop(ctx context.Context, join bool, timeout time.Duration) error

	// Loop blocks while the dispatcher is running, surfacing the first
	// failure reported by any part of the loop. The timeout bounds each
	// supervision iteration, not the call as a whole.
	Loop(ctx context.Context, timeout time.Duration) error

	// LoopIteration performs a single bounded supervision pass. It returns
	// nil if no failure was reported within timeout, otherwise the failure.
	LoopIteration(ctx context.Context, timeout time.Duration) error

	// Finished reports whether the dispatcher has terminated. It is true
	// before Start is called and again once Stop has joined the dispatcher.
	Finished() bool
}
