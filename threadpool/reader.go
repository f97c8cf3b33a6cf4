package threadpool

import (
	"context"
	"fmt"
	"time"

	"github.com/plprobelab/go-threadloop/event"
	"github.com/plprobelab/go-threadloop/internal/poll"
	"github.com/plprobelab/go-threadloop/looperr"
	"github.com/plprobelab/go-threadloop/mainloop"
)

// A readerThread drives the read side of a single IOHandler. It owns the
// handler's preparation protocol: Prepare is retried, sleeping between
// attempts, until HandlerReady is returned. Once prepared it confirms
// OS-level readability with a bounded wait before each HandleRead, and
// parks in WaitForReadability while the handler has nothing to read. A
// false result from that hook is the terminal signal.
type readerThread struct {
	*worker
	handler     mainloop.IOHandler
	pollTimeout time.Duration
	retryDelay  time.Duration
}

func newReaderThread(handler mainloop.IOHandler, name string, cfg *Config, failures *event.FIFO[*FailureRecord]) *readerThread {
	r := &readerThread{
		handler:     handler,
		pollTimeout: cfg.PollTimeout,
		retryDelay:  cfg.PrepareRetryDelay,
	}
	r.worker = newWorker(name, cfg, failures, r.run)
	return r
}

func (r *readerThread) run(ctx context.Context) error {
	if err := r.handler.SetBlocking(true); err != nil {
		return err
	}
	prepared := false
	delay := r.retryDelay
	for !r.stopping() {
		if !prepared {
			r.log.Debug("preparing handler")
			res, err := r.handler.Prepare()
			if err != nil {
				return err
			}
			switch res := res.(type) {
			case mainloop.HandlerReady:
				prepared = true
			case mainloop.PrepareAgain:
				if res.Delay > 0 {
					delay = res.Delay
				}
			default:
				return fmt.Errorf("%w: %T", looperr.ErrUnexpectedPrepareResult, res)
			}
		}
		switch {
		case r.handler.Readable():
			r.log.Debug("readable")
			fd, ok := r.handler.Fd()
			if !ok {
				break
			}
			ready, err := poll.Readable(fd, r.pollTimeout)
			if err != nil {
				return err
			}
			if ready {
				if err := r.handler.HandleRead(); err != nil {
					return err
				}
			}
		case !prepared:
			// bridge the preparation retries without tight-looping
			if delay > 0 {
				r.clk.Sleep(delay)
			}
		default:
			r.log.Debug("waiting for readability")
			if !r.handler.WaitForReadability() {
				return nil
			}
		}
	}
	return nil
}
