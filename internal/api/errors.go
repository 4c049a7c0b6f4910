package api

import (
	"errors"
	"fmt"
)

// ErrTransport marks failures where no structured answer was received: the
// request could not be sent, or the body was not valid JSON.
var ErrTransport = errors.New("network error")

// BackendError is returned when the backend answered with an "error" field or
// a non-2xx status.
type BackendError struct {
	Endpoint string
	Status   int
	Message  string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: %s", e.Endpoint, e.Message)
}

// AsBackendError unwraps a *BackendError.
func AsBackendError(err error) (*BackendError, bool) {
	var be *BackendError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// TransportError wraps the cause of a failed exchange with the endpoint.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrTransport, e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// IsTransport reports whether err is a network or decoding failure.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

func transportError(endpoint string, err error) error {
	return &TransportError{Endpoint: endpoint, Err: err}
}
