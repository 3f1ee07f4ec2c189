package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents machine-readable error codes for scripted error handling.
type ErrorCode string

const (
	// ErrBadRequest indicates a malformed request (HTTP 400).
	ErrBadRequest ErrorCode = "bad_request"
	// ErrForbidden indicates upstream refused the request (HTTP 401/403).
	ErrForbidden ErrorCode = "forbidden"
	// ErrNotFound indicates the requested resource does not exist (HTTP 404).
	ErrNotFound ErrorCode = "not_found"
	// ErrRateLimited indicates too many requests (HTTP 429).
	ErrRateLimited ErrorCode = "rate_limited"
	// ErrServerError indicates an upstream server error (HTTP 5xx).
	ErrServerError ErrorCode = "server_error"
	// ErrRemoteStatus indicates any other non-200 status.
	ErrRemoteStatus ErrorCode = "remote_status"
	// ErrTimeout indicates the call timed out or was cancelled.
	ErrTimeout ErrorCode = "timeout"
	// ErrTransport indicates a network, TLS or decode fault.
	ErrTransport ErrorCode = "transport"
	// ErrValidation indicates local input validation failed.
	ErrValidation ErrorCode = "validation_failed"
	// ErrUnknown indicates an unknown or unclassified error.
	ErrUnknown ErrorCode = "unknown"
)

// IsRetryable returns true if errors with this code may succeed on retry.
func (c ErrorCode) IsRetryable() bool {
	switch c {
	case ErrRateLimited, ErrServerError, ErrTimeout, ErrTransport:
		return true
	default:
		return false
	}
}

// Suggestion returns a human-readable suggestion for resolving this error.
func (c ErrorCode) Suggestion() string {
	switch c {
	case ErrNotFound:
		return "Verify the ID or name exists (try the matching 'list' command)"
	case ErrRateLimited:
		return "Wait a moment and retry, or lower --rps"
	case ErrBadRequest:
		return "Check the path and parameters"
	case ErrForbidden:
		return "The upstream service rejected the request; check --base-url"
	case ErrServerError:
		return "The server encountered an error; try again later or set --max-retries"
	case ErrTimeout:
		return "The request timed out; check network connectivity or raise --timeout"
	case ErrTransport:
		return "Check network connectivity and the configured base URL"
	case ErrValidation:
		return "Check the input values"
	default:
		return ""
	}
}

// ErrorCodeFromStatus maps an HTTP status code to an ErrorCode.
func ErrorCodeFromStatus(statusCode int) ErrorCode {
	switch statusCode {
	case 400:
		return ErrBadRequest
	case 401, 403:
		return ErrForbidden
	case 404:
		return ErrNotFound
	case 429:
		return ErrRateLimited
	default:
		if statusCode >= 500 && statusCode < 600 {
			return ErrServerError
		}
		return ErrRemoteStatus
	}
}

// StructuredError provides machine-readable error information.
type StructuredError struct {
	Code          ErrorCode      `json:"code"`
	Message       string         `json:"message"`
	Retryable     bool           `json:"retryable"`
	Suggestion    string         `json:"suggestion,omitempty"`
	Context       map[string]any `json:"context,omitempty"`
	AllowedValues []string       `json:"allowed_values,omitempty"`
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// MarshalJSON implements custom JSON marshaling.
func (e *StructuredError) MarshalJSON() ([]byte, error) {
	type Alias StructuredError
	return json.Marshal((*Alias)(e))
}

// NewStructuredError creates a StructuredError from an ErrorCode and message.
func NewStructuredError(code ErrorCode, message string) *StructuredError {
	return &StructuredError{
		Code:       code,
		Message:    message,
		Retryable:  code.IsRetryable(),
		Suggestion: code.Suggestion(),
	}
}

// NewValidationError creates a StructuredError for input validation failures,
// including the list of allowed values.
func NewValidationError(field string, got string, allowed []string) *StructuredError {
	return &StructuredError{
		Code:          ErrValidation,
		Message:       fmt.Sprintf("invalid %s %q: must be one of %s", field, got, strings.Join(allowed, ", ")),
		Retryable:     false,
		Suggestion:    fmt.Sprintf("Use one of: %s", strings.Join(allowed, ", ")),
		AllowedValues: allowed,
		Context:       map[string]any{"field": field, "got": got},
	}
}

func codeFromFault(description string) ErrorCode {
	lower := strings.ToLower(description)
	if strings.Contains(lower, context.DeadlineExceeded.Error()) ||
		strings.Contains(lower, context.Canceled.Error()) ||
		strings.Contains(lower, "timeout") {
		return ErrTimeout
	}
	return ErrTransport
}

// StructuredErrorFromEnvelope converts an error envelope to a StructuredError.
// It returns nil for success envelopes.
func StructuredErrorFromEnvelope(env Envelope) *StructuredError {
	if env.Err == nil {
		return nil
	}
	var code ErrorCode
	ctx := map[string]any{"kind": env.Err.Kind.String()}
	if env.Err.Kind == KindRemoteStatus {
		code = ErrorCodeFromStatus(env.Err.StatusCode)
		ctx["status_code"] = env.Err.StatusCode
	} else {
		code = codeFromFault(env.Err.Description)
	}
	return &StructuredError{
		Code:       code,
		Message:    env.Err.Message(),
		Retryable:  code.IsRetryable(),
		Suggestion: code.Suggestion(),
		Context:    ctx,
	}
}

// StructuredErrorFromError attempts to convert any error to a StructuredError.
func StructuredErrorFromError(err error) *StructuredError {
	if err == nil {
		return nil
	}

	var se *StructuredError
	if errors.As(err, &se) {
		return se
	}

	var statusErr *RemoteStatusError
	if errors.As(err, &statusErr) {
		return StructuredErrorFromEnvelope(statusEnvelope(statusErr.StatusCode))
	}

	var fault *TransportFault
	if errors.As(err, &fault) {
		return StructuredErrorFromEnvelope(Envelope{Err: &CallError{Kind: KindTransportFault, Description: fault.Description}})
	}

	return &StructuredError{
		Code:    ErrUnknown,
		Message: err.Error(),
	}
}
