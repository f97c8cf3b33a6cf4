package threadpool

import (
	"context"
	"time"

	"github.com/plprobelab/go-threadloop/event"
	"github.com/plprobelab/go-threadloop/internal/poll"
	"github.com/plprobelab/go-threadloop/mainloop"
)

// A writerThread drives the write side of a single IOHandler: a bounded
// OS-level writability wait before each HandleWrite, parking in
// WaitForWritability while the handler has nothing to send. A false result
// from that hook is the terminal signal. Only the write handler is invoked
// here; reads belong to the reader thread. The write side has no
// preparation phase, the reader owns that protocol.
type writerThread struct {
	*worker
	handler     mainloop.IOHandler
	pollTimeout time.Duration
}

func newWriterThread(handler mainloop.IOHandler, name string, cfg *Config, failures *event.FIFO[*FailureRecord]) *writerThread {
	w := &writerThread{
		handler:     handler,
		pollTimeout: cfg.PollTimeout,
	}
	w.worker = newWorker(name, cfg, failures, w.run)
	return w
}

func (w *writerThread) run(ctx context.Context) error {
	if err := w.handler.SetBlocking(true); err != nil {
		return err
	}
	for !w.stopping() {
		if w.handler.Writable() {
			w.log.Debug("writable")
			fd, ok := w.handler.Fd()
			if !ok {
				continue
			}
			ready, err := poll.Writable(fd, w.pollTimeout)
			if err != nil {
				return err
			}
			if ready {
				if err := w.handler.HandleWrite(); err != nil {
					return err
				}
			}
		} else {
			w.log.Debug("waiting for writability")
			if !w.handler.WaitForWritability() {
				return nil
			}
		}
	}
	return nil
}
