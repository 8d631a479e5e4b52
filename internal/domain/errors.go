package domain

import (
	"errors"
	"fmt"
)

var (
	ErrConfig   = errors.New("invalid configuration")
	ErrTransfer = errors.New("transfer failed")
	ErrNotFound = errors.New("remote entry not found")
)

// ConfigError reports configuration that cannot be used to reach a remote
// store. It is raised before any remote operation is attempted.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("config: %s", e.Reason)
	}
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// TransferError wraps any transport level failure.
type TransferError struct {
	Op   string
	Name string
	Err  error
}

func (e *TransferError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Name, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

func (e *TransferError) Is(target error) bool {
	return target == ErrTransfer
}

// NotFound builds the TransferError returned when a delete targets an entry
// that is already gone.
func NotFound(op, name string, cause error) error {
	if cause == nil {
		return &TransferError{Op: op, Name: name, Err: ErrNotFound}
	}
	return &TransferError{Op: op, Name: name, Err: fmt.Errorf("%w: %w", ErrNotFound, cause)}
}
