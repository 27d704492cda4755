package chapa

import (
	"errors"
	"fmt"
)

var (
	// ErrUnreachable covers transport-level failures: connection
	// errors, timeouts and an open circuit breaker.
	ErrUnreachable = errors.New("payment provider unreachable")

	// ErrMalformedResponse is returned when the provider answers with
	// a body that cannot be decoded.
	ErrMalformedResponse = errors.New("malformed payment provider response")
)

// RejectedError is a provider-level rejection: a non-2xx response, or a
// 2xx whose status field is not "success".
type RejectedError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("payment provider rejected request: http %d, status %q, message %q",
		e.StatusCode, e.Status, e.Message)
}
