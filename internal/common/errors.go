package common

import (
	"errors"
	"fmt"
)

// Common error types
var (
	// ErrNotConnected indicates an operation was attempted without an open session
	ErrNotConnected = errors.New("session not connected")

	// ErrInvalidInput indicates invalid input parameters
	ErrInvalidInput = errors.New("invalid input parameter")

	// ErrTimeout indicates an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrUnavailable indicates an external service is unavailable
	ErrUnavailable = errors.New("service unavailable")
)

// IsNotConnected checks if err is or wraps ErrNotConnected
func IsNotConnected(err error) bool {
	return errors.Is(err, ErrNotConnected)
}

// IsInvalidInput checks if err is or wraps ErrInvalidInput
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsTimeout checks if err is or wraps ErrTimeout
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsUnavailable checks if err is or wraps ErrUnavailable
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// NotConnectedError returns a wrapped not connected error with context
func NotConnectedError(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotConnected)
}

// InvalidInputError returns a wrapped invalid input error with context
func InvalidInputError(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidInput)
}

// TimeoutError returns a wrapped timeout error with context
func TimeoutError(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrTimeout)
}

// UnavailableError returns a wrapped unavailable error with context
func UnavailableError(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrUnavailable)
}

// ErrTaskFailed represents a failed asynchronous management-plane task
type ErrTaskFailed struct {
	Entity string
	Task   string
	Reason string
}

func (e ErrTaskFailed) Error() string {
	return fmt.Sprintf("task %s failed for %s: %s", e.Task, e.Entity, e.Reason)
}

// NewTaskFailedError creates a new task failed error
func NewTaskFailedError(entity, task, reason string) error {
	return ErrTaskFailed{Entity: entity, Task: task, Reason: reason}
}

// ErrPowerOnFailed represents a failed out-of-band power-on attempt
type ErrPowerOnFailed struct {
	Address string
	Reason  string
}

func (e ErrPowerOnFailed) Error() string {
	return fmt.Sprintf("power-on failed for %s: %s", e.Address, e.Reason)
}

// NewPowerOnFailedError creates a new power-on failed error
func NewPowerOnFailedError(address, reason string) error {
	return ErrPowerOnFailed{Address: address, Reason: reason}
}
