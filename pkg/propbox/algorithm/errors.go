package algorithm

import (
	"errors"
	"fmt"
)

// ErrNilFunc indicates New or Set was called with a nil function.
var ErrNilFunc = errors.New("algorithm function is nil")

// PanicError captures a panic raised by a wrapped function.
// It includes the stack trace for debugging.
type PanicError struct {
	// AlgorithmID identifies the algorithm whose function panicked.
	AlgorithmID string
	// Value is the value passed to panic().
	Value any
	// Stack is the full stack trace at the point of panic.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("algorithm %s panicked: %v", e.AlgorithmID, e.Value)
}
