package threadpool

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/plprobelab/go-threadloop/internal/looptest"
)

// writableFd returns the write end of a fresh pipe, which is immediately
// writable.
func writableFd(t *testing.T) int {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() {
		r.Close()
		w.Close()
	})
	return int(w.Fd())
}

func TestWriterWritesThenTerminates(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	failures := newFailureQueue(cfg.Clock)

	h := looptest.NewScriptedHandler("conn")
	h.SetFd(writableFd(t))
	h.QueueWrites(1)
	h.ScriptWriteWaits(false)

	w := newWriterThread(h, "conn writer", cfg, failures)
	w.Start(ctx)
	require.True(t, w.Join(5*time.Second))

	require.Equal(t, 1, h.WriteCalls())
	// write readiness must trigger the write handler only
	require.Zero(t, h.ReadCalls())
	require.NoError(t, w.Err())

	_, ok := failures.Poll(ctx, 0)
	require.False(t, ok)
}

func TestWriterHandlerFailure(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	failures := newFailureQueue(cfg.Clock)

	boom := errors.New("write failed")
	h := looptest.NewScriptedHandler("conn")
	h.SetFd(writableFd(t))
	h.QueueWrites(1)
	h.FailWrites(boom)

	w := newWriterThread(h, "conn writer", cfg, failures)
	w.Start(ctx)
	require.True(t, w.Join(5*time.Second))

	rec, ok := failures.Poll(ctx, time.Second)
	require.True(t, ok)
	require.ErrorIs(t, rec, boom)

	var frec *FailureRecord
	require.ErrorAs(t, rec, &frec)
	require.Equal(t, "conn writer", frec.Thread)
}

func TestWriterTerminatesOnWaitHook(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	failures := newFailureQueue(cfg.Clock)

	// nothing to write: the thread parks in the wait hook until the
	// handler is closed
	h := looptest.NewScriptedHandler("conn")

	w := newWriterThread(h, "conn writer", cfg, failures)
	w.Start(ctx)
	require.False(t, w.Join(20*time.Millisecond))

	require.NoError(t, h.Close())
	require.True(t, w.Join(5*time.Second))
	require.NoError(t, w.Err())
}
