package threadpool

import (
	"context"

	"github.com/plprobelab/go-threadloop/event"
	"github.com/plprobelab/go-threadloop/mainloop"
)

// A dispatcherThread runs the event dispatcher's blocking consume loop
// until the quit sentinel is observed. There is exactly one per pool.
type dispatcherThread struct {
	*worker
	dispatcher mainloop.EventDispatcher
}

func newDispatcherThread(dispatcher mainloop.EventDispatcher, name string, cfg *Config, failures *event.FIFO[*FailureRecord]) *dispatcherThread {
	d := &dispatcherThread{dispatcher: dispatcher}
	d.worker = newWorker(name, cfg, failures, d.run)
	return d
}

func (d *dispatcherThread) run(ctx context.Context) error {
	return d.dispatcher.Loop(ctx)
}
