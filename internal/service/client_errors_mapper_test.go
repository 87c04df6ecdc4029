// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-finance-keeper/internal/adapter"
	"github.com/MKhiriev/go-finance-keeper/internal/app"
	"github.com/MKhiriev/go-finance-keeper/internal/store"
)

func TestMapAdapterError(t *testing.T) {
	other := errors.New("something else")

	tests := []struct {
		name string
		in   error
		want error
	}{
		{name: "transport", in: transportError(), want: ErrNetworkFailure},
		{name: "invalid data", in: adapter.NewHTTPError(http.StatusBadRequest, app.MsgInvalidDataProvided), want: ErrInvalidDataProvided},
		{name: "other bad request", in: adapter.NewHTTPError(http.StatusBadRequest, "nope"), want: ErrServerRejected},
		{name: "wrong password", in: adapter.NewHTTPError(http.StatusUnauthorized, app.MsgInvalidCredentials), want: ErrWrongPassword},
		{name: "expired token", in: adapter.NewHTTPError(http.StatusUnauthorized, app.MsgTokenIsExpiredOrInvalid), want: ErrTokenIsExpiredOrInvalid},
		{name: "record not found", in: adapter.NewHTTPError(http.StatusNotFound, app.MsgRecordNotFound), want: store.ErrRecordNotFound},
		{name: "user exists", in: adapter.NewHTTPError(http.StatusConflict, app.MsgUserAlreadyExists), want: ErrUserAlreadyExists},
		{name: "server error", in: adapter.NewHTTPError(http.StatusInternalServerError, ""), want: ErrServerRejected},
		{name: "wrapped", in: fmt.Errorf("create: %w", adapter.NewHTTPError(http.StatusConflict, app.MsgUserAlreadyExists)), want: ErrUserAlreadyExists},
		{name: "unknown passes through", in: other, want: other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapAdapterError(tt.in), tt.want)
		})
	}

	assert.NoError(t, mapAdapterError(nil))
}

func TestMapAdapterError_RejectedUsesStatusText(t *testing.T) {
	err := mapAdapterError(adapter.NewHTTPError(http.StatusBadGateway, ""))

	var rejected *ServerRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, http.StatusText(http.StatusBadGateway), rejected.Message)
	assert.ErrorIs(t, err, adapter.ErrBadGateway)
}

func TestMapSyncError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{name: "transport", in: transportError(), want: ErrNetworkFailure},
		{name: "http", in: adapter.NewHTTPError(http.StatusUnauthorized, app.MsgTokenIsExpiredOrInvalid), want: ErrServerRejected},
		{name: "invalid body", in: fmt.Errorf("%w: unexpected EOF", adapter.ErrInvalidResponse), want: ErrServerRejected},
		{name: "unknown", in: errors.New("boom"), want: ErrNetworkFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapSyncError(tt.in), tt.want)
		})
	}

	assert.NoError(t, mapSyncError(nil))
}
