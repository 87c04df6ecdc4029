// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-finance-keeper/internal/adapter"
	"github.com/MKhiriev/go-finance-keeper/internal/app"
	"github.com/MKhiriev/go-finance-keeper/internal/store"
)

// mapAdapterError translates an adapter error into a service business error.
// Transport failures become [ErrNetworkFailure]; well-known server messages
// become their sentinels; any other non-success answer becomes a
// [ServerRejectedError].
func mapAdapterError(err error) error {
	if err == nil {
		return nil
	}

	if adapter.IsTransportError(err) {
		return fmt.Errorf("%w: %w", ErrNetworkFailure, err)
	}

	var httpErr *adapter.HTTPError
	if !errors.As(err, &httpErr) {
		return err
	}

	switch {
	case errors.Is(err, adapter.ErrBadRequest):
		if httpErr.Message == app.MsgInvalidDataProvided {
			return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
		}

	case errors.Is(err, adapter.ErrUnauthorized):
		if httpErr.Message == app.MsgInvalidCredentials {
			return ErrWrongPassword
		}
		return fmt.Errorf("%w: %w", ErrTokenIsExpiredOrInvalid, err)

	case errors.Is(err, adapter.ErrNotFound):
		if httpErr.Message == app.MsgRecordNotFound {
			return fmt.Errorf("%w: %w", store.ErrRecordNotFound, err)
		}

	case errors.Is(err, adapter.ErrConflict):
		if httpErr.Message == app.MsgUserAlreadyExists {
			return ErrUserAlreadyExists
		}
	}

	return rejected(httpErr)
}

// mapSyncError translates a failed POST /sync/all. Only two outcomes exist
// for the caller: the server rejected the batch or the network failed.
func mapSyncError(err error) error {
	if err == nil {
		return nil
	}

	if adapter.IsTransportError(err) {
		return fmt.Errorf("%w: %w", ErrNetworkFailure, err)
	}

	var httpErr *adapter.HTTPError
	if errors.As(err, &httpErr) {
		return rejected(httpErr)
	}

	if errors.Is(err, adapter.ErrInvalidResponse) {
		return &ServerRejectedError{Message: err.Error(), err: err}
	}

	return fmt.Errorf("%w: %w", ErrNetworkFailure, err)
}

func rejected(httpErr *adapter.HTTPError) *ServerRejectedError {
	msg := httpErr.Message
	if msg == "" {
		msg = http.StatusText(httpErr.StatusCode)
	}
	return &ServerRejectedError{
		StatusCode: httpErr.StatusCode,
		Message:    msg,
		err:        httpErr,
	}
}
