package threadpool

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/plprobelab/go-threadloop/internal/looptest"
	"github.com/plprobelab/go-threadloop/looperr"
	"github.com/plprobelab/go-threadloop/mainloop"
)

// readableFd returns the read end of a pipe that already holds a byte, so
// OS-level readability checks succeed immediately.
func readableFd(t *testing.T) int {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	_, err = w.Write([]byte{0x1})
	require.NoError(t, err)
	t.Cleanup(func() {
		r.Close()
		w.Close()
	})
	return int(r.Fd())
}

func TestReaderPrepareRetryScenario(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	failures := newFailureQueue(cfg.Clock)

	h := looptest.NewScriptedHandler("conn")
	h.SetFd(readableFd(t))
	h.ScriptPrepare(
		mainloop.PrepareAgain{Delay: 20 * time.Millisecond},
		mainloop.PrepareAgain{},
		mainloop.HandlerReady{},
	)
	h.QueueReads(1)
	h.ScriptReadWaits(true, false)

	r := newReaderThread(h, "conn reader", cfg, failures)
	start := time.Now()
	r.Start(ctx)
	require.True(t, r.Join(5*time.Second))

	// two retries slept the remembered delay before preparation succeeded
	require.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
	require.Equal(t, 3, h.PrepareCalls())
	// exactly one read cycle once prepared, then the wait hook's false
	// result terminated the thread cleanly
	require.Equal(t, 1, h.ReadCalls())
	require.NoError(t, r.Err())

	_, ok := failures.Poll(ctx, 0)
	require.False(t, ok)
}

func TestReaderPrepareProtocolViolation(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	failures := newFailureQueue(cfg.Clock)

	h := looptest.NewScriptedHandler("conn")
	h.ScriptPrepare(nil)

	r := newReaderThread(h, "conn reader", cfg, failures)
	r.Start(ctx)
	require.True(t, r.Join(5*time.Second))

	rec, ok := failures.Poll(ctx, time.Second)
	require.True(t, ok)
	require.ErrorIs(t, rec, looperr.ErrUnexpectedPrepareResult)

	var frec *FailureRecord
	require.ErrorAs(t, rec, &frec)
	require.Equal(t, "conn reader", frec.Thread)
}

func TestReaderHandlerFailure(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	failures := newFailureQueue(cfg.Clock)

	boom := errors.New("read failed")
	h := looptest.NewScriptedHandler("conn")
	h.SetFd(readableFd(t))
	h.QueueReads(1)
	h.FailReads(boom)

	r := newReaderThread(h, "conn reader", cfg, failures)
	r.Start(ctx)
	require.True(t, r.Join(5*time.Second))

	rec, ok := failures.Poll(ctx, time.Second)
	require.True(t, ok)
	require.ErrorIs(t, rec, boom)

	// the failure is reported once, not retried
	require.Equal(t, 1, h.ReadCalls())
	_, ok = failures.Poll(ctx, 0)
	require.False(t, ok)
}

func TestReaderObservesStopRequest(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	cfg.PrepareRetryDelay = 2 * time.Millisecond
	failures := newFailureQueue(cfg.Clock)

	h := looptest.NewScriptedHandler("conn")
	retries := make([]mainloop.PrepareResult, 1000)
	for i := range retries {
		retries[i] = mainloop.PrepareAgain{}
	}
	h.ScriptPrepare(retries...)

	r := newReaderThread(h, "conn reader", cfg, failures)
	r.Start(ctx)
	time.Sleep(10 * time.Millisecond)

	r.RequestStop()
	require.True(t, r.Join(5*time.Second))
	require.Zero(t, h.ReadCalls())
	require.NoError(t, r.Err())
}

func TestReaderTerminatesOnWaitHook(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	failures := newFailureQueue(cfg.Clock)

	// prepared immediately, nothing to read: the thread parks in the wait
	// hook until the handler is closed
	h := looptest.NewScriptedHandler("conn")

	r := newReaderThread(h, "conn reader", cfg, failures)
	r.Start(ctx)
	require.False(t, r.Join(20*time.Millisecond))
	require.True(t, r.Alive())

	require.NoError(t, h.Close())
	require.True(t, r.Join(5*time.Second))
	require.NoError(t, r.Err())
}
