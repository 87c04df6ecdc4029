package adapter

import (
	"errors"
	"fmt"
)

// Sentinel errors matched with [errors.Is] against the errors returned by
// [ServerAdapter] methods.
var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrBadGateway          = errors.New("bad gateway")
	ErrInternalServerError = errors.New("internal server error")

	// ErrServerRejected marks responses with an unexpected non-2xx status or
	// a 2xx body reporting failure.
	ErrServerRejected = errors.New("server rejected request")

	// ErrTransport marks failures that happened before any response was
	// received: connection refused, DNS failure, timeout, cancellation.
	ErrTransport = errors.New("transport failure")

	// ErrInvalidResponse marks 2xx responses whose body cannot be decoded.
	ErrInvalidResponse = errors.New("invalid response body")
)

// HTTPError is a non-successful server answer. It carries the status code
// and the message supplied by the server.
type HTTPError struct {
	StatusCode int
	Message    string
	kind       error
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http %d: %s: %s", e.StatusCode, e.kind, e.Message)
}

// Unwrap exposes the sentinel the status code maps to.
func (e *HTTPError) Unwrap() error {
	return e.kind
}

// NewHTTPError builds the error the adapter returns for a response with
// the given status code and server message.
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		kind:       statusKind(statusCode),
	}
}
