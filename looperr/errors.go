// Package looperr defines error types shared across go-threadloop packages.
package looperr

import (
	"errors"
	"fmt"
)

// ErrUnexpectedPrepareResult is returned when an IOHandler's Prepare method
// returns something other than HandlerReady or PrepareAgain.
var ErrUnexpectedPrepareResult = errors.New("unexpected result type from Prepare")

// A ConfigurationError is returned when a component's configuration fails
// validation.
type ConfigurationError struct {
	Component string
	Err       error
}

var _ error = (*ConfigurationError)(nil)

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration for %s: %s", e.Component, e.Err.Error())
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
