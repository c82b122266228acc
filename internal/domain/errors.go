package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrEmptyResult means the upstream answered but no record survived parsing.
// It is a property of the data, not a failure of the source.
var ErrEmptyResult = errors.New("no usable records in response")

// AuthError is returned when the upstream rejects the credentials (HTTP 401).
// FIRMS answers this way for MAP_KEYs that are not provisioned yet.
type AuthError struct {
	StatusCode int
	Body       string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("upstream rejected credentials: status %d: %s", e.StatusCode, e.Body)
}

// UpstreamError is any other non-2xx answer.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error: status %d: %s", e.StatusCode, e.Body)
}

// TransportError wraps network, DNS and timeout failures, and unreadable bodies.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ErrorForStatus maps a non-2xx HTTP status to AuthError or UpstreamError.
func ErrorForStatus(code int, body []byte) error {
	if code == http.StatusUnauthorized {
		return &AuthError{StatusCode: code, Body: string(body)}
	}
	return &UpstreamError{StatusCode: code, Body: string(body)}
}
