package mcp9600

import (
	"errors"
	"fmt"
)

var (
	// ErrOpen is returned when the bus session could not be acquired or
	// configured, or when an operation is attempted without one.
	ErrOpen = errors.New("open failure")
	// ErrShortTransfer is returned when a transaction moved a different
	// number of bytes than requested.
	ErrShortTransfer = errors.New("short transfer")
	// ErrTransport is returned when the bus itself reported an error.
	ErrTransport = errors.New("transport error")
)

var errNotOpen = errors.New("bus session not open")

// IOError describes a failed bus operation.
//
// errors.Is matches both the kind (ErrOpen, ErrShortTransfer, ErrTransport)
// and the underlying cause.
type IOError struct {
	Op   string
	Kind error
	Err  error
}

func (e *IOError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("mcp9600: %s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("mcp9600: %s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *IOError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func openError(op string, err error) error {
	return &IOError{Op: op, Kind: ErrOpen, Err: err}
}
