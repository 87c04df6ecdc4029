// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/go-finance-keeper/internal/app"
)

func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte(h.version))
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusOK, app.MsgHealthy)
}
