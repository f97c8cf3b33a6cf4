package threadpool

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return cfg
}

func TestWorkerCapturesFailure(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	failures := newFailureQueue(cfg.Clock)

	boom := errors.New("boom")
	w := newWorker("duty", cfg, failures, func(ctx context.Context) error {
		return boom
	})

	w.Start(ctx)
	require.True(t, w.Join(5*time.Second))
	require.ErrorIs(t, w.Err(), boom)

	rec, ok := failures.Poll(ctx, time.Second)
	require.True(t, ok)
	require.Equal(t, "duty", rec.Thread)
	require.ErrorIs(t, rec, boom)

	// exactly one record
	_, ok = failures.Poll(ctx, 0)
	require.False(t, ok)
}

func TestWorkerCapturesPanic(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	failures := newFailureQueue(cfg.Clock)

	w := newWorker("duty", cfg, failures, func(ctx context.Context) error {
		panic("kaboom")
	})

	w.Start(ctx)
	require.True(t, w.Join(5*time.Second))

	rec, ok := failures.Poll(ctx, time.Second)
	require.True(t, ok)
	require.ErrorContains(t, rec, "kaboom")
}

func TestWorkerNormalExit(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	failures := newFailureQueue(cfg.Clock)

	w := newWorker("duty", cfg, failures, func(ctx context.Context) error {
		return nil
	})

	require.False(t, w.Alive())
	w.Start(ctx)
	require.True(t, w.Join(5*time.Second))
	require.False(t, w.Alive())
	require.NoError(t, w.Err())

	_, ok := failures.Poll(ctx, 0)
	require.False(t, ok)
}

func TestWorkerObservesStopRequest(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	failures := newFailureQueue(cfg.Clock)

	var w *worker
	w = newWorker("duty", cfg, failures, func(ctx context.Context) error {
		for !w.stopping() {
			cfg.Clock.Sleep(time.Millisecond)
		}
		return nil
	})

	w.Start(ctx)
	require.True(t, w.Alive())

	w.RequestStop()
	require.True(t, w.Join(5*time.Second))
	require.False(t, w.Alive())
}

func TestWorkerJoinTimeout(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	failures := newFailureQueue(cfg.Clock)

	release := make(chan struct{})
	w := newWorker("duty", cfg, failures, func(ctx context.Context) error {
		<-release
		return nil
	})

	w.Start(ctx)
	require.False(t, w.Join(20*time.Millisecond))
	require.True(t, w.Alive())

	close(release)
	require.True(t, w.Join(0))
}

func TestWorkerJoinBeforeStart(t *testing.T) {
	cfg := testConfig()
	failures := newFailureQueue(cfg.Clock)

	w := newWorker("duty", cfg, failures, func(ctx context.Context) error {
		return nil
	})
	require.True(t, w.Join(time.Millisecond))
	require.False(t, w.Alive())
}
