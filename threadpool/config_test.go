package threadpool

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/plprobelab/go-threadloop/looperr"
)

func TestConfigValidate(t *testing.T) {
	t.Run("default is valid", func(t *testing.T) {
		cfg := DefaultConfig()
		require.NoError(t, cfg.Validate())
	})

	t.Run("clock not nil", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Clock = nil
		requireConfigError(t, cfg.Validate())
	})

	t.Run("logger not nil", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Logger = nil
		requireConfigError(t, cfg.Validate())
	})

	t.Run("poll timeout positive", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.PollTimeout = 0
		requireConfigError(t, cfg.Validate())
	})

	t.Run("prepare retry delay positive", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.PrepareRetryDelay = -time.Second
		requireConfigError(t, cfg.Validate())
	})
}

func requireConfigError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var cerr *looperr.ConfigurationError
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, "ThreadPoolConfig", cerr.Component)
}
