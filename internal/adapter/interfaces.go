// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the transport layer for communicating with the
// finance backend.
//
// The primary abstraction is [ServerAdapter], which decouples the service
// layer from the REST protocol. The package ships an HTTP implementation
// ([NewHTTPServerAdapter]) built on resty.
//
// Non-2xx responses are mapped by mapHTTPError to an [*HTTPError] wrapping one
// of the sentinel values in errors.go, so callers can use [errors.Is]
// (e.g. [ErrUnauthorized] for 401) and still read the server message.
// Failures before a response is received wrap [ErrTransport].
package adapter

import (
	"context"
	"encoding/json"

	"github.com/MKhiriev/go-finance-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines communication with the finance backend.
// Implementations are responsible for serialisation, authentication header
// management and mapping transport-level errors to the sentinel values
// defined in this package.
type ServerAdapter interface {
	// SetToken stores the bearer token attached to all subsequent
	// authenticated requests.
	SetToken(token string)

	// Token returns the bearer token currently stored in the adapter, or an
	// empty string if none has been set.
	Token() string

	// Register creates an account via POST /auth/register. On success the
	// returned token is stored via SetToken.
	Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error)

	// Login authenticates via POST /auth/login. On success the returned token
	// is stored via SetToken.
	Login(ctx context.Context, creds models.Credentials) (models.AuthResponse, error)

	// CurrentUser returns the profile of the token owner (GET /auth/user).
	CurrentUser(ctx context.Context) (models.User, error)

	// List returns the raw JSON array of the collection (GET /<resource>).
	List(ctx context.Context, c models.Collection) (json.RawMessage, error)

	// Create posts a record snapshot and returns the stored server copy.
	Create(ctx context.Context, c models.Collection, payload json.RawMessage) (json.RawMessage, error)

	// Update replaces the record with the given id and returns the stored
	// server copy.
	Update(ctx context.Context, c models.Collection, id string, payload json.RawMessage) (json.RawMessage, error)

	// Delete removes the record with the given id.
	Delete(ctx context.Context, c models.Collection, id string) error

	// SyncStatus returns the server-side synchronization summary
	// (GET /sync/status).
	SyncStatus(ctx context.Context) (models.SyncStatusSummary, error)

	// SyncAll transmits the pending changes to POST /sync/all. A 2xx
	// response reporting success=false is returned as an [*HTTPError].
	SyncAll(ctx context.Context, req models.SyncAllRequest) (models.SyncResult, error)

	// ExpensesByCategory returns the expenses-by-category report series.
	ExpensesByCategory(ctx context.Context) ([]models.CategoryTotal, error)

	// BudgetAdherence returns the budget-vs-spent report series.
	BudgetAdherence(ctx context.Context) ([]models.BudgetAdherence, error)

	// SavingsTrends returns the monthly savings report series.
	SavingsTrends(ctx context.Context) ([]models.SavingsPoint, error)

	// SavingsGoalsProgress returns the goal completion report series.
	SavingsGoalsProgress(ctx context.Context) ([]models.GoalProgress, error)

	// Health probes GET /health. Any response proves the backend is
	// reachable; only transport failures are returned.
	Health(ctx context.Context) error
}
