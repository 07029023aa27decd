package proxy

import (
	"errors"
	"fmt"
	"net/http"

	"triplewhale-order-proxy/internal/models"
)

// Proxy error types
var (
	ErrMethodNotAllowed    = errors.New("method not allowed")
	ErrMalformedPayload    = models.ErrMalformedPayload
	ErrMissingFields       = models.ErrMissingFields
	ErrConfiguration       = errors.New("api key configuration error")
	ErrUpstreamUnreachable = errors.New("upstream unreachable")
	ErrInternal            = errors.New("internal error")
)

// UpstreamError is a transport failure talking to the order API
type UpstreamError struct {
	RequestID string // Correlation ID of the failed call
	Err       error  // Low-level transport error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("request %s: %v: %v", e.RequestID, ErrUpstreamUnreachable, e.Err)
}

func (e *UpstreamError) Unwrap() []error {
	return []error{ErrUpstreamUnreachable, e.Err}
}

// Message returns the low-level error text shown to the caller
func (e *UpstreamError) Message() string {
	if e.Err == nil {
		return ErrUpstreamUnreachable.Error()
	}
	return e.Err.Error()
}

// NewUpstreamError creates a new UpstreamError
func NewUpstreamError(requestID string, err error) *UpstreamError {
	return &UpstreamError{RequestID: requestID, Err: err}
}

// MethodError reports a disallowed inbound method
type MethodError struct {
	Method string
}

func (e *MethodError) Error() string {
	return fmt.Sprintf("%v: %s", ErrMethodNotAllowed, e.Method)
}

func (e *MethodError) Unwrap() error {
	return ErrMethodNotAllowed
}

// StatusCode maps an error to the HTTP status returned to the caller
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed
	case errors.Is(err, ErrMalformedPayload), errors.Is(err, ErrMissingFields):
		return http.StatusBadRequest
	case errors.Is(err, ErrConfiguration):
		return http.StatusInternalServerError
	case errors.Is(err, ErrUpstreamUnreachable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
