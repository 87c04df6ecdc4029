package reconcile

import "errors"

var (
	ErrEmptyPayload   = errors.New("change carries no record")
	ErrInvalidPayload = errors.New("change payload is not a valid record")
)
