// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package devserver

import (
	"context"
	"encoding/json"

	"github.com/MKhiriev/go-finance-keeper/models"
)

// Backend is the server side of the client contract. Every method except
// Register, Login and ParseToken acts on behalf of userID.
type Backend interface {
	Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error)
	Login(ctx context.Context, creds models.Credentials) (models.AuthResponse, error)

	// ParseToken verifies a bearer token and returns the user id it was
	// issued for.
	ParseToken(ctx context.Context, token string) (string, error)
	User(ctx context.Context, userID string) (models.User, error)

	List(ctx context.Context, userID string, c models.Collection) (json.RawMessage, error)
	Create(ctx context.Context, userID string, c models.Collection, payload json.RawMessage) (json.RawMessage, error)
	Update(ctx context.Context, userID string, c models.Collection, id string, payload json.RawMessage) (json.RawMessage, error)
	Delete(ctx context.Context, userID string, c models.Collection, id string) error

	SyncStatus(ctx context.Context, userID string) (models.SyncStatusSummary, error)
	SyncAll(ctx context.Context, userID string, req models.SyncAllRequest) (models.SyncResult, error)

	Report(ctx context.Context, userID string) (models.Report, error)
}
