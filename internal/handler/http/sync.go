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

func (h *Handler) syncStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	summary, err := h.backend.SyncStatus(r.Context(), id)
	if err != nil {
		writeError(w, r, "*Handler.syncStatus", err)
		return
	}

	utils.WriteJSON(w, summary, http.StatusOK)
}

// syncAll applies a batch of changes. A rejected batch is answered with the
// mapped status and a SyncResult carrying success=false.
func (h *Handler) syncAll(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	id, ok := userID(w, r)
	if !ok {
		return
	}

	var req models.SyncAllRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.syncAll").Msg("invalid JSON was passed")
		utils.WriteJSON(w, models.SyncResult{Message: app.MsgInvalidDataProvided}, http.StatusBadRequest)
		return
	}
	if req.Length != len(req.Changes) {
		log.Warn().
			Str("func", "*Handler.syncAll").
			Int("length", req.Length).
			Int("changes", len(req.Changes)).
			Msg("declared length does not match the change list")
	}

	result, err := h.backend.SyncAll(r.Context(), id, req)
	if err != nil {
		resp := responseFromError(err)
		log.Err(err).Str("func", "*Handler.syncAll").Int("status", resp.status).Msg(resp.message)
		utils.WriteJSON(w, models.SyncResult{Message: resp.message}, resp.status)
		return
	}

	utils.WriteJSON(w, result, http.StatusOK)
}
