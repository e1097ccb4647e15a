package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrRunNotFound signals a missing pipeline run.
	ErrRunNotFound = errors.New("run not found")
	// ErrNoRuns signals that no completed run exists yet.
	ErrNoRuns = errors.New("no completed runs")
	// ErrInvalidConfig signals a fatal configuration problem.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrUnknownReport signals a report kind the engine does not produce.
	ErrUnknownReport = errors.New("unknown report kind")
)

// ConfigError wraps ErrInvalidConfig with the offending parameter name and value.
type ConfigError struct {
	Param string
	Value any
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s = %v", ErrInvalidConfig.Error(), e.Param, e.Value)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }

// NewConfigError creates a configuration error for one parameter.
func NewConfigError(param string, value any) error {
	return &ConfigError{Param: param, Value: value}
}
