// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-finance-keeper/internal/app"
	"github.com/MKhiriev/go-finance-keeper/internal/logger"
	"github.com/MKhiriev/go-finance-keeper/models"
)

// maxRecordBody bounds the size of a single record snapshot.
const maxRecordBody = 1 << 20

func (h *Handler) listRecords(c models.Collection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := userID(w, r)
		if !ok {
			return
		}

		raw, err := h.backend.List(r.Context(), id, c)
		if err != nil {
			writeError(w, r, "*Handler.listRecords", err)
			return
		}

		writeRaw(w, raw, http.StatusOK)
	}
}

func (h *Handler) createRecord(c models.Collection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := userID(w, r)
		if !ok {
			return
		}

		payload, ok := readRecord(w, r)
		if !ok {
			return
		}

		raw, err := h.backend.Create(r.Context(), id, c, payload)
		if err != nil {
			writeError(w, r, "*Handler.createRecord", err)
			return
		}

		writeRaw(w, raw, http.StatusCreated)
	}
}

func (h *Handler) updateRecord(c models.Collection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := userID(w, r)
		if !ok {
			return
		}

		payload, ok := readRecord(w, r)
		if !ok {
			return
		}

		raw, err := h.backend.Update(r.Context(), id, c, chi.URLParam(r, "id"), payload)
		if err != nil {
			writeError(w, r, "*Handler.updateRecord", err)
			return
		}

		writeRaw(w, raw, http.StatusOK)
	}
}

func (h *Handler) deleteRecord(c models.Collection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := userID(w, r)
		if !ok {
			return
		}

		if err := h.backend.Delete(r.Context(), id, c, chi.URLParam(r, "id")); err != nil {
			writeError(w, r, "*Handler.deleteRecord", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func readRecord(w http.ResponseWriter, r *http.Request) (json.RawMessage, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRecordBody))
	if err != nil || !json.Valid(body) {
		logger.FromRequest(r).Error().Err(err).Str("func", "readRecord").Msg("invalid JSON was passed")
		writeMessage(w, http.StatusBadRequest, app.MsgInvalidDataProvided)
		return nil, false
	}
	return body, true
}

func writeRaw(w http.ResponseWriter, raw json.RawMessage, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(raw)
}
