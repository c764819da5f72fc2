package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Configuration and input errors
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrRunNotFound      = errors.New("run not found")

	// Numerical errors
	ErrConvergence      = errors.New("numerical solve did not converge")
	ErrDegenerateSample = errors.New("trimming leaves too few observations")

	// Determinism errors
	ErrSeedMismatch = errors.New("seed mismatch")
)

// Error constructors with context
func NewInvalidParameterError(name string, value interface{}, reason string) error {
	return fmt.Errorf("%w: %s=%v (%s)", ErrInvalidParameter, name, value, reason)
}

func NewConvergenceError(what string, iterations int) error {
	return fmt.Errorf("%w: %s after %d iterations", ErrConvergence, what, iterations)
}

func NewDegenerateSampleError(n, trimmed int) error {
	return fmt.Errorf("%w: n=%d leaves %d after trimming", ErrDegenerateSample, n, trimmed)
}

// Error checking helpers
func IsInvalidParameter(err error) bool {
	return errors.Is(err, ErrInvalidParameter)
}

func IsConvergenceError(err error) bool {
	return errors.Is(err, ErrConvergence)
}

func IsDegenerateSample(err error) bool {
	return errors.Is(err, ErrDegenerateSample)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrRunNotFound)
}
