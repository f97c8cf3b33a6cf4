package mainloop

import "time"

// An IOHandler is a single I/O capability driven by a main loop. The handler
// owns the transport semantics (what readable or writable means); the loop
// only sequences preparation, readiness checks and handler invocations.
//
// A handler may be touched concurrently by the read side and the write side
// of the loop driving it. Safe concurrent access is the handler's own
// responsibility.
type IOHandler interface {
	// Fd returns the OS-level file descriptor backing the handler, if any.
	Fd() (int, bool)

	// SetBlocking switches the handler between blocking and non-blocking
	// I/O. Threaded loops drive handlers in blocking mode.
	SetBlocking(block bool) error

	// Prepare advances the handler's preparation protocol. It returns
	// HandlerReady once readiness polling is meaningful, or PrepareAgain
	// to be called again later.
	Prepare() (PrepareResult, error)

	// Readable reports whether the handler expects data to be read.
	Readable() bool

	// Writable reports whether the handler has data pending to be written.
	Writable() bool

	// HandleRead performs one read cycle. Called only after readability
	// has been confirmed.
	HandleRead() error

	// HandleWrite performs one write cycle. Called only after writability
	// has been confirmed.
	HandleWrite() error

	// WaitForReadability blocks until the handler may become readable.
	// A false result is the terminal signal for the read side.
	WaitForReadability() bool

	// WaitForWritability blocks until the handler may become writable.
	// A false result is the terminal signal for the write side.
	WaitForWritability() bool

	// Close releases the handler's resources.
	Close() error
}

// A PrepareResult is the outcome of one IOHandler.Prepare call. The only
// valid results are HandlerReady and PrepareAgain; anything else is a
// protocol violation.
type PrepareResult interface {
	prepareResult()
}

// HandlerReady signals that the handler preparation is complete and the
// handler may be polled for readiness.
type HandlerReady struct{}

// PrepareAgain signals that Prepare must be called again. A positive Delay
// replaces the loop's retry delay; a zero Delay keeps the previous one.
type PrepareAgain struct {
	Delay time.Duration
}

func (HandlerReady) prepareResult() {}
func (PrepareAgain) prepareResult() {}
