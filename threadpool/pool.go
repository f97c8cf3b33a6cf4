package threadpool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/plprobelab/go-threadloop/event"
	"github.com/plprobelab/go-threadloop/mainloop"
	"github.com/plprobelab/go-threadloop/util"
)

// A ThreadPool runs each registered I/O handler's read side and write side
// on dedicated threads and drains an event dispatcher on another, as a
// replacement for an asynchronous event loop. Failures escaping any duty
// thread are captured on a shared queue and surfaced through Loop and
// LoopIteration.
//
// The duty-thread set is mutated only by Start and Stop. Stop is commonly
// called from a different thread than the one blocked in Loop, so the set
// is guarded by a lock.
type ThreadPool struct {
	cfg Config
	log *slog.Logger

	// handlers are referenced, not owned; their lifetime is managed by the
	// registering application, but Stop requests their close.
	handlers []mainloop.IOHandler

	dispatcher mainloop.EventDispatcher
	events     mainloop.EventSink

	failures *event.FIFO[*FailureRecord]

	mu          sync.Mutex
	ioThreads   []*worker
	eventThread *worker
}

var _ mainloop.MainLoop = (*ThreadPool)(nil)

// New creates a ThreadPool driving the given handlers and dispatcher. The
// events sink must be the dispatcher's own event source; the pool pushes
// the quit sentinel into it on Stop.
func New(dispatcher mainloop.EventDispatcher, events mainloop.EventSink, cfg *Config, handlers ...mainloop.IOHandler) (*ThreadPool, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	} else if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &ThreadPool{
		cfg:        *cfg,
		log:        cfg.Logger,
		handlers:   handlers,
		dispatcher: dispatcher,
		events:     events,
		failures:   newFailureQueue(cfg.Clock),
	}, nil
}

// Start spawns one reader thread and one writer thread per registered
// handler plus a single dispatcher thread, 2N+1 threads in total, and
// starts them all.
func (p *ThreadPool) Start(ctx context.Context) error {
	ctx, span := util.StartSpan(ctx, "ThreadPool.Start")
	defer span.End()

	ioThreads := make([]*worker, 0, 2*len(p.handlers))
	for i, handler := range p.handlers {
		name := handlerName(handler, i)
		reader := newReaderThread(handler, name+" reader", &p.cfg, p.failures)
		writer := newWriterThread(handler, name+" writer", &p.cfg, p.failures)
		ioThreads = append(ioThreads, reader.worker, writer.worker)
	}
	eventThread := newDispatcherThread(p.dispatcher, "event dispatcher", &p.cfg, p.failures).worker

	p.mu.Lock()
	p.ioThreads = ioThreads
	p.eventThread = eventThread
	p.mu.Unlock()

	eventThread.Start(ctx)
	for _, t := range ioThreads {
		t.Start(ctx)
	}
	return nil
}

// Stop closes every registered handler, signals the dispatcher to quit and
// requests a cooperative stop of every duty thread. With join false Stop
// returns immediately and threads may still be draining. A timeout of zero
// or less joins without a time bound. With a positive timeout the join runs
// in two phases: a quick pass sharing 1% of the budget equally across all
// threads, then the remaining 99% shared equally across the threads still
// alive. Threads outliving the budget are abandoned; that is a best-effort
// outcome, not an error.
func (p *ThreadPool) Stop(ctx context.Context, join bool, timeout time.Duration) error {
	ctx, span := util.StartSpan(ctx, "ThreadPool.Stop")
	defer span.End()

	p.log.Debug("closing the io handlers")
	var closeErrs []error
	for _, handler := range p.handlers {
		if err := handler.Close(); err != nil {
			closeErrs = append(closeErrs, err)
		}
	}

	p.mu.Lock()
	eventThread := p.eventThread
	threads := make([]*worker, 0, len(p.ioThreads)+1)
	threads = append(threads, p.ioThreads...)
	if eventThread != nil {
		threads = append(threads, eventThread)
	}
	p.mu.Unlock()

	if eventThread != nil && eventThread.Alive() {
		p.log.Debug("sending the quit signal")
		p.events.Enqueue(ctx, mainloop.Quit)
	}
	for _, t := range threads {
		p.log.Debug("stopping thread", "thread", t.name)
		t.RequestStop()
	}

	if !join {
		return errors.Join(closeErrs...)
	}
	if timeout <= 0 {
		for _, t := range threads {
			t.Join(0)
		}
	} else {
		p.joinTimed(threads, timeout)
	}

	// clear the thread set even if some threads are still draining
	p.mu.Lock()
	p.ioThreads = nil
	p.eventThread = nil
	p.mu.Unlock()
	return errors.Join(closeErrs...)
}

// joinTimed performs the two-phase timed join: a quick pass gives every
// thread an equal slice of 1% of the budget, then the stragglers share the
// remaining 99%.
func (p *ThreadPool) joinTimed(threads []*worker, timeout time.Duration) {
	if len(threads) == 0 {
		return
	}
	quick := timeout / 100 / time.Duration(len(threads))
	if quick <= 0 {
		quick = time.Nanosecond // keep the quick pass bounded
	}
	var stragglers []*worker
	for _, t := range threads {
		p.log.Debug("quick-joining thread", "thread", t.name)
		if !t.Join(quick) {
			p.log.Debug("thread still alive", "thread", t.name)
			stragglers = append(stragglers, t)
		}
	}
	if len(stragglers) == 0 {
		return
	}
	remainder := timeout / 100 * 99 / time.Duration(len(stragglers))
	if remainder <= 0 {
		remainder = time.Nanosecond
	}
	for _, t := range stragglers {
		p.log.Debug("joining thread", "thread", t.name)
		t.Join(remainder)
	}
}

// Finished reports whether the dispatcher thread has terminated. It is true
// before Start and again once Stop has joined the dispatcher.
func (p *ThreadPool) Finished() bool {
	et := p.eventWorker()
	return et == nil || !et.Alive()
}

// Loop blocks while the dispatcher thread is alive, polling the failure
// queue. The first captured failure ends the loop and is returned to the
// caller; timeout bounds each poll, not the call as a whole.
func (p *ThreadPool) Loop(ctx context.Context, timeout time.Duration) error {
	ctx, span := util.StartSpan(ctx, "ThreadPool.Loop")
	defer span.End()

	for {
		et := p.eventWorker()
		if et == nil || !et.Alive() {
			return nil
		}
		if err := p.LoopIteration(ctx, timeout); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

func (p *ThreadPool) eventWorker() *worker {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.eventThread
}

// LoopIteration polls the failure queue for at most timeout. It returns nil
// when no failure was captured, otherwise the FailureRecord wrapping the
// original error; the wrapped kind stays matchable with errors.Is and
// errors.As. A timeout of zero or less uses DefaultLoopTimeout.
func (p *ThreadPool) LoopIteration(ctx context.Context, timeout time.Duration) error {
	ctx, span := util.StartSpan(ctx, "ThreadPool.LoopIteration")
	defer span.End()

	if timeout <= 0 {
		timeout = DefaultLoopTimeout
	}
	if rec, ok := p.failures.Poll(ctx, timeout); ok {
		return rec
	}
	return nil
}

// handlerName derives a stable thread-name prefix for a handler. Handlers
// may provide their own identity via fmt.Stringer; the registration index
// is used otherwise.
func handlerName(h mainloop.IOHandler, index int) string {
	if s, ok := h.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("handler-%d", index)
}
