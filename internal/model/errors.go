package model

import (
	"errors"
	"fmt"
)

// NetworkError is a transport failure or a non-success response from the
// backend. It is never retried automatically.
type NetworkError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("network error during %s (status %d): %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// NewNetworkError wraps err as a NetworkError for operation op.
func NewNetworkError(op string, statusCode int, err error) *NetworkError {
	return &NetworkError{Op: op, StatusCode: statusCode, Err: err}
}

// ParsingError means a payload could not be decoded or failed validation.
// It aborts the operation that produced it, never the process.
type ParsingError struct {
	Op   string
	Desc string
	Err  error
}

func (e *ParsingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parsing error during %s: %s: %v", e.Op, e.Desc, e.Err)
	}
	return fmt.Sprintf("parsing error during %s: %s", e.Op, e.Desc)
}

func (e *ParsingError) Unwrap() error { return e.Err }

// NewParsingError returns a ParsingError for operation op.
func NewParsingError(op, desc string, err error) *ParsingError {
	return &ParsingError{Op: op, Desc: desc, Err: err}
}

// IsNetwork reports whether err wraps a NetworkError.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsParsing reports whether err wraps a ParsingError.
func IsParsing(err error) bool {
	var pe *ParsingError
	return errors.As(err, &pe)
}
