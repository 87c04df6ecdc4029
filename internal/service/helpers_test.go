// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-finance-keeper/internal/adapter"
	"github.com/MKhiriev/go-finance-keeper/internal/store"
	"github.com/MKhiriev/go-finance-keeper/models"
)

var testNow = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

// stubTokens is a fixed TokenSource.
type stubTokens struct {
	token string
	err   error
}

func (s stubTokens) Token(context.Context) (string, error) {
	return s.token, s.err
}

// stubConnectivity is a settable ConnectivityStatus.
type stubConnectivity struct {
	mu     sync.Mutex
	online bool
}

func newStubConnectivity(online bool) *stubConnectivity {
	return &stubConnectivity{online: online}
}

func (s *stubConnectivity) IsOnline() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.online
}

func (s *stubConnectivity) SetOnline(online bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.online = online
}

func newTestStorages() *store.ClientStorages {
	return store.NewClientStoragesFrom(store.NewMemoryStorage())
}

func groceries(id string) *models.Expense {
	return &models.Expense{
		Entity:   models.Entity{ID: id, CreatedAt: testNow, UpdatedAt: testNow},
		Date:     "2025-01-01",
		Category: "Groceries",
		Amount:   decimal.RequireFromString("42.50"),
	}
}

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

func enqueueCreated(t *testing.T, ctx context.Context, storages *store.ClientStorages, rec models.Record) models.Change {
	t.Helper()
	change, err := models.NewCreatedChange(rec)
	require.NoError(t, err)
	require.NoError(t, storages.Queue.Enqueue(ctx, change))
	return change
}

func transportError() error {
	return fmt.Errorf("request: %w: %w", adapter.ErrTransport, errors.New("connection refused"))
}
