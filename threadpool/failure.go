package threadpool

import (
	"fmt"

	"github.com/benbjohnson/clock"

	"github.com/plprobelab/go-threadloop/event"
)

// A FailureRecord reports the terminal failure of a duty thread. It wraps
// the original error, so callers can match the failure's kind with
// errors.Is and errors.As.
type FailureRecord struct {
	Thread string // name of the thread the failure originated from
	Err    error
}

var _ error = (*FailureRecord)(nil)

func (r *FailureRecord) Error() string {
	return fmt.Sprintf("thread %q: %s", r.Thread, r.Err.Error())
}

func (r *FailureRecord) Unwrap() error {
	return r.Err
}

// newFailureQueue creates the unbounded failure queue shared by reference
// with every duty thread of a pool. Enqueueing never blocks a failing
// thread.
func newFailureQueue(clk clock.Clock) *event.FIFO[*FailureRecord] {
	return event.NewFIFO[*FailureRecord](clk)
}
