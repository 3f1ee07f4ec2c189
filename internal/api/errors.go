package api

import (
	"errors"
	"fmt"
	"net/http"
)

// RemoteStatusError is returned by Envelope.Error when upstream answered with a non-200 status.
type RemoteStatusError struct {
	StatusCode int
}

func (e *RemoteStatusError) Error() string {
	return fmt.Sprintf("HTTP Error: %d", e.StatusCode)
}

// TransportFault is returned by Envelope.Error when no usable response was obtained.
type TransportFault struct {
	Description string
}

func (e *TransportFault) Error() string {
	return "Exception: " + e.Description
}

// IsRemoteStatus checks if the error is a non-200 upstream answer.
func IsRemoteStatus(err error) bool {
	var e *RemoteStatusError
	return errors.As(err, &e)
}

// IsTransportFault checks if the error is a transport or decode fault.
func IsTransportFault(err error) bool {
	var e *TransportFault
	return errors.As(err, &e)
}

// IsNotFoundError checks if the error indicates a resource was not found.
func IsNotFoundError(err error) bool {
	var e *RemoteStatusError
	if errors.As(err, &e) {
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// ContextualError wraps a call failure with the request that produced it.
type ContextualError struct {
	Method string
	Path   string
	Err    error
}

func (e *ContextualError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Method, e.Path, e.Err)
}

func (e *ContextualError) Unwrap() error {
	return e.Err
}

// WrapError adds request context to a call failure.
func WrapError(method, path string, err error) error {
	if err == nil {
		return nil
	}
	return &ContextualError{
		Method: method,
		Path:   path,
		Err:    err,
	}
}
