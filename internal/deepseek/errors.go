package deepseek

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the DeepSeek API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("deepseek: API error (status %d): %s", e.StatusCode, msg)
}

// Is lets errors.Is match on status code alone, so callers can compare
// against sentinel values like ErrUnauthorized.
func (e *APIError) Is(target error) bool {
	var apiErr *APIError
	if !errors.As(target, &apiErr) {
		return false
	}
	return e.StatusCode == apiErr.StatusCode
}

// Sentinel APIError values for use with errors.Is().
var (
	ErrUnauthorized = &APIError{StatusCode: http.StatusUnauthorized}
	ErrForbidden    = &APIError{StatusCode: http.StatusForbidden}
	ErrRateLimited  = &APIError{StatusCode: http.StatusTooManyRequests}
)

// NetworkError is a connection, DNS, or timeout failure before any HTTP
// status was received.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("deepseek: %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// AsAPIError unwraps err into an *APIError if there is one in the chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}

// AsNetworkError unwraps err into a *NetworkError if there is one in the chain.
func AsNetworkError(err error) (*NetworkError, bool) {
	var netErr *NetworkError
	ok := errors.As(err, &netErr)
	return netErr, ok
}
