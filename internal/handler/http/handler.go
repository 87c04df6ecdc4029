// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"github.com/MKhiriev/go-finance-keeper/internal/devserver"
	"github.com/MKhiriev/go-finance-keeper/internal/logger"
)

type Handler struct {
	backend devserver.Backend
	version string

	logger *logger.Logger
}

// NewHandler creates a Handler serving backend. version is reported by
// GET /api/version.
func NewHandler(backend devserver.Backend, version string, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		backend: backend,
		version: version,
		logger:  logger,
	}
}
