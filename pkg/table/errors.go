package table

import (
	"errors"
	"fmt"
)

// ErrConfiguration marks misuse of the builder API: columns after rows,
// row arity mismatches, a second filler column, or a color override on a
// colorless column. These are caller bugs and are never retried.
var ErrConfiguration = errors.New("table configuration error")

// ConfigError describes a rejected builder call. It unwraps to ErrConfiguration.
type ConfigError struct {
	Op     string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrConfiguration, e.Op, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrConfiguration }

func configError(op, format string, args ...any) error {
	return &ConfigError{Op: op, Reason: fmt.Sprintf(format, args...)}
}
