// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-finance-keeper/internal/app"
	"github.com/MKhiriev/go-finance-keeper/internal/devserver"
	"github.com/MKhiriev/go-finance-keeper/internal/logger"
	"github.com/MKhiriev/go-finance-keeper/internal/utils"
	"github.com/MKhiriev/go-finance-keeper/models"
)

type errorResponse struct {
	status  int
	message string
}

var errorResponses = []struct {
	target error
	errorResponse
}{
	{devserver.ErrInvalidData, errorResponse{http.StatusBadRequest, app.MsgInvalidDataProvided}},
	{devserver.ErrUnknownCollection, errorResponse{http.StatusBadRequest, app.MsgUnknownCollection}},
	{devserver.ErrInvalidCredentials, errorResponse{http.StatusUnauthorized, app.MsgInvalidCredentials}},
	{devserver.ErrInvalidToken, errorResponse{http.StatusUnauthorized, app.MsgTokenIsExpiredOrInvalid}},
	{devserver.ErrUserNotFound, errorResponse{http.StatusUnauthorized, app.MsgTokenIsExpiredOrInvalid}},
	{devserver.ErrRecordNotFound, errorResponse{http.StatusNotFound, app.MsgRecordNotFound}},
	{devserver.ErrUserAlreadyExists, errorResponse{http.StatusConflict, app.MsgUserAlreadyExists}},
}

func responseFromError(err error) errorResponse {
	for _, e := range errorResponses {
		if errors.Is(err, e.target) {
			return e.errorResponse
		}
	}
	return errorResponse{http.StatusInternalServerError, app.MsgInternalServerError}
}

// writeError logs err and answers with the status and message mapped from it.
func writeError(w http.ResponseWriter, r *http.Request, fn string, err error) {
	resp := responseFromError(err)

	log := logger.FromRequest(r)
	event := log.Warn()
	if resp.status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).Str("func", fn).Int("status", resp.status).Msg(resp.message)

	writeMessage(w, resp.status, resp.message)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	utils.WriteJSON(w, models.MessageResponse{Message: message}, status)
}
