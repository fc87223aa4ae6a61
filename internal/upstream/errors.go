package upstream

import (
	"errors"
	"fmt"
)

// ErrSessionExpired covers every 401 from the backend and locally detected
// token expiry. Callers must clear session credentials and never retry the
// original request with the same token.
var ErrSessionExpired = errors.New("session expired, please sign in again")

// DomainError carries the backend's own rejection message, surfaced to the
// user verbatim.
type DomainError struct {
	Message    string
	StatusCode int
}

func (e *DomainError) Error() string {
	return e.Message
}

// TransportError marks network-level failures: unreachable host, timeout,
// torn connection. Always retryable.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("upstream %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func IsTransport(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}
