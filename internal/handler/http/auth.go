// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"net/http"

	"github.com/MKhiriev/go-finance-keeper/internal/app"
	"github.com/MKhiriev/go-finance-keeper/internal/logger"
	"github.com/MKhiriev/go-finance-keeper/internal/utils"
	"github.com/MKhiriev/go-finance-keeper/models"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.register").Msg("invalid JSON was passed")
		writeMessage(w, http.StatusBadRequest, app.MsgInvalidDataProvided)
		return
	}

	resp, err := h.backend.Register(r.Context(), req)
	if err != nil {
		writeError(w, r, "*Handler.register", err)
		return
	}

	w.Header().Set("Authorization", "Bearer "+resp.Token)
	utils.WriteJSON(w, resp, http.StatusCreated)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var creds models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		log.Err(err).Str("func", "*Handler.login").Msg("invalid JSON was passed")
		writeMessage(w, http.StatusBadRequest, app.MsgInvalidDataProvided)
		return
	}

	resp, err := h.backend.Login(r.Context(), creds)
	if err != nil {
		writeError(w, r, "*Handler.login", err)
		return
	}

	log.Debug().Str("user_id", resp.User.ID).Msg("user successfully logged in")

	w.Header().Set("Authorization", "Bearer "+resp.Token)
	utils.WriteJSON(w, resp, http.StatusOK)
}

func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	user, err := h.backend.User(r.Context(), id)
	if err != nil {
		writeError(w, r, "*Handler.currentUser", err)
		return
	}

	utils.WriteJSON(w, user, http.StatusOK)
}
