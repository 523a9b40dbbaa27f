package sync

import (
	"errors"
	"fmt"
)

// ErrMalformedPayload marks a feed event or loaded row missing required
// fields. Such rows are dropped with a logged warning, never fatal.
var ErrMalformedPayload = errors.New("malformed payload")

// TransportError wraps a network or service failure on load, push, or
// clear. Callers decide per operation whether to swallow, retry, or surface
// it (the periodic flush swallows, the finish push retries).
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func transportErr(op string, err error) error {
	return &TransportError{Op: op, Err: err}
}
