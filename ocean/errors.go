package ocean

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is the sentinel wrapped by every *ConfigError.
var ErrInvalidConfig = errors.New("ocean: invalid configuration")

// ErrBackendUnavailable is returned when the requested compute backend was
// not compiled in or has no usable device.
var ErrBackendUnavailable = errors.New("ocean: compute backend unavailable")

// ConfigError reports a rejected simulation parameter.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("ocean: invalid %s (%v): %s", e.Field, e.Value, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidConfig.
func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

func configErr(field string, value any, reason string) error {
	return &ConfigError{Field: field, Value: value, Reason: reason}
}

// mustMatchSize panics when a buffer or table was built for a different grid
// than the one being processed. That only happens through a lifecycle
// ordering bug, so it is not reported as an error.
func mustMatchSize(what string, got, want int) {
	if got != want {
		panic(fmt.Sprintf("ocean: %s size mismatch: got %d, want %d", what, got, want))
	}
}
