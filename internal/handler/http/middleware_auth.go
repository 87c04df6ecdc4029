// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"net/http"

	"github.com/MKhiriev/go-finance-keeper/internal/app"
	"github.com/MKhiriev/go-finance-keeper/internal/logger"
	"github.com/MKhiriev/go-finance-keeper/internal/utils"
)

// auth is an HTTP middleware that enforces JWT-based authentication.
//
// It extracts the bearer token from the "Authorization" header, verifies it
// via [devserver.Backend.ParseToken] and stores the user id in the request
// context under [utils.UserIDCtxKey] before delegating to the next handler.
// Any failure is answered with 401 and [app.MsgTokenIsExpiredOrInvalid].
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			writeMessage(w, http.StatusUnauthorized, app.MsgTokenIsExpiredOrInvalid)
			return
		}

		tokenString, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			log.Err(err).Send()
			writeMessage(w, http.StatusUnauthorized, app.MsgTokenIsExpiredOrInvalid)
			return
		}

		ctx := r.Context()
		userID, err := h.backend.ParseToken(ctx, tokenString)
		if err != nil {
			log.Err(err).Msg("error occurred during parsing token")
			writeMessage(w, http.StatusUnauthorized, app.MsgTokenIsExpiredOrInvalid)
			return
		}

		ctx = context.WithValue(ctx, utils.UserIDCtxKey, userID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userID returns the id stored by auth. It answers 401 and returns false
// when the id is missing.
func userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		logger.FromRequest(r).Err(ErrNoUserID).Send()
		writeMessage(w, http.StatusUnauthorized, app.MsgTokenIsExpiredOrInvalid)
	}
	return id, ok
}
