package service

import (
	"errors"
	"fmt"
)

var (
	ErrAuthenticationMissing   = errors.New("authentication missing")
	ErrConnectivityUnavailable = errors.New("connectivity unavailable")
	ErrSyncInProgress          = errors.New("sync already in progress")
	ErrNetworkFailure          = errors.New("network failure")
	ErrServerRejected          = errors.New("server rejected the request")

	ErrInvalidDataProvided     = errors.New("invalid data provided")
	ErrWrongPassword           = errors.New("wrong email or password")
	ErrUserAlreadyExists       = errors.New("user already exists")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
	ErrInvalidBackup           = errors.New("invalid backup document")
)

// ServerRejectedError is returned when the server answered a request with a
// non-success status. It matches [ErrServerRejected] with errors.Is and
// unwraps to the adapter error, so adapter sentinels still match too.
type ServerRejectedError struct {
	StatusCode int
	Message    string
	err        error
}

func (e *ServerRejectedError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: %s", ErrServerRejected, e.Message)
	}
	return fmt.Sprintf("%s (%d): %s", ErrServerRejected, e.StatusCode, e.Message)
}

func (e *ServerRejectedError) Is(target error) bool {
	return target == ErrServerRejected
}

func (e *ServerRejectedError) Unwrap() error {
	return e.err
}
