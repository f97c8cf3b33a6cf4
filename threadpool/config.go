package threadpool

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/plprobelab/go-threadloop/looperr"
)

const (
	// DefaultPollTimeout bounds a single OS-level readiness wait. It trades
	// stop-request latency against wakeup overhead.
	DefaultPollTimeout = time.Second

	// DefaultPrepareRetryDelay is slept between Prepare retries when the
	// handler never supplied a delay of its own.
	DefaultPrepareRetryDelay = 100 * time.Millisecond

	// DefaultLoopTimeout bounds a single supervision pass over the failure
	// queue.
	DefaultLoopTimeout = 100 * time.Millisecond
)

// defaultLogger is used when no Logger is configured. It writes JSON to
// os.Stdout.
var defaultLogger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

type Config struct {
	Clock clock.Clock // a clock that may be replaced by a mock when testing

	Logger *slog.Logger // pool logger; every duty thread logs through a child of it

	PollTimeout       time.Duration // upper bound on a single OS-level readiness wait
	PrepareRetryDelay time.Duration // delay between Prepare retries unless the handler overrides it
}

// Validate checks the configuration options and returns an error if any have invalid values.
func (cfg *Config) Validate() error {
	if cfg.Clock == nil {
		return &looperr.ConfigurationError{
			Component: "ThreadPoolConfig",
			Err:       fmt.Errorf("clock must not be nil"),
		}
	}
	if cfg.Logger == nil {
		return &looperr.ConfigurationError{
			Component: "ThreadPoolConfig",
			Err:       fmt.Errorf("logger must not be nil"),
		}
	}
	if cfg.PollTimeout < 1 {
		return &looperr.ConfigurationError{
			Component: "ThreadPoolConfig",
			Err:       fmt.Errorf("poll timeout must be greater than zero"),
		}
	}
	if cfg.PrepareRetryDelay < 1 {
		return &looperr.ConfigurationError{
			Component: "ThreadPoolConfig",
			Err:       fmt.Errorf("prepare retry delay must be greater than zero"),
		}
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		Clock:             clock.New(), // use standard time
		Logger:            defaultLogger,
		PollTimeout:       DefaultPollTimeout,
		PrepareRetryDelay: DefaultPrepareRetryDelay,
	}
}
