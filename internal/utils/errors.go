// Package utils provides shared primitives for the BSON core: error
// wrapping, capacity arithmetic, endian helpers, and a scratch buffer
// pool. None of it knows about the wire format itself.
package utils

import "fmt"

// BSONError represents a structured error with contextual information
// about where in the library it originated.
type BSONError struct {
	Context string
	Cause   error
}

// Error implements the error interface.
func (e *BSONError) Error() string {
	return fmt.Sprintf("%s: %v", e.Context, e.Cause)
}

// Unwrap provides compatibility with errors.Unwrap() / errors.Is() / errors.As().
func (e *BSONError) Unwrap() error {
	return e.Cause
}

// WrapError creates a contextual error, or returns nil if cause is nil.
func WrapError(context string, cause error) error {
	if cause == nil {
		return nil
	}
	return &BSONError{
		Context: context,
		Cause:   cause,
	}
}
