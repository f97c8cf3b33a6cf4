package threadpool

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/plprobelab/go-threadloop/event"
)

// A worker runs a single duty function on its own goroutine. An error or
// panic escaping the duty is captured and posted to the shared failure
// queue, tagged with the worker's name; it is never raised in the worker
// itself.
type worker struct {
	name     string
	clk      clock.Clock
	log      *slog.Logger
	failures *event.FIFO[*FailureRecord]
	duty     func(context.Context) error

	started atomic.Bool
	quit    atomic.Bool
	done    chan struct{}

	mu  sync.Mutex
	err error // captured failure, nil until the duty fails
}

func newWorker(name string, cfg *Config, failures *event.FIFO[*FailureRecord], duty func(context.Context) error) *worker {
	return &worker{
		name:     name,
		clk:      cfg.Clock,
		log:      cfg.Logger.With("thread", name),
		failures: failures,
		duty:     duty,
		done:     make(chan struct{}),
	}
}

// Start launches the duty on a new goroutine.
func (w *worker) Start(ctx context.Context) {
	w.started.Store(true)
	go w.main(ctx)
}

// RequestStop asks the duty to stop. It never blocks; the request is
// observed at the top of the duty's next iteration.
func (w *worker) RequestStop() {
	w.quit.Store(true)
}

// stopping reports whether a stop has been requested.
func (w *worker) stopping() bool {
	return w.quit.Load()
}

// Alive reports whether the worker goroutine is running.
func (w *worker) Alive() bool {
	if !w.started.Load() {
		return false
	}
	select {
	case <-w.done:
		return false
	default:
		return true
	}
}

// Join waits for the worker to terminate and reports whether it did so
// within timeout. A timeout of zero or less waits without a time bound.
func (w *worker) Join(timeout time.Duration) bool {
	if !w.started.Load() {
		return true
	}
	if timeout <= 0 {
		<-w.done
		return true
	}
	timer := w.clk.Timer(timeout)
	defer timer.Stop()
	select {
	case <-w.done:
		return true
	case <-timer.C:
		return false
	}
}

// Err returns the captured failure, if any.
func (w *worker) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

func (w *worker) main(ctx context.Context) {
	defer close(w.done)

	w.log.Debug("entering thread")
	err := w.runDuty(ctx)
	if err != nil {
		w.log.Debug("aborting thread", "error", err)
		w.mu.Lock()
		w.err = err
		w.mu.Unlock()
		if w.failures != nil {
			w.failures.Enqueue(ctx, &FailureRecord{Thread: w.name, Err: err})
		}
		return
	}
	w.log.Debug("exiting thread")
}

// runDuty invokes the duty, converting panics into captured errors.
func (w *worker) runDuty(ctx context.Context) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = panicToError(v)
		}
	}()
	return w.duty(ctx)
}

func panicToError(v any) error {
	if err, ok := v.(error); ok {
		return err
	}
	return fmt.Errorf("panic: %v", v)
}
