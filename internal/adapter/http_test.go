// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-finance-keeper/internal/config"
	"github.com/MKhiriev/go-finance-keeper/internal/logger"
	"github.com/MKhiriev/go-finance-keeper/models"
)

func newTestAdapter(t *testing.T, serverURL string) ServerAdapter {
	t.Helper()
	a, err := NewHTTPServerAdapter(config.Adapter{HTTPAddress: serverURL, RequestTimeout: 2 * time.Second}, logger.Nop())
	require.NoError(t, err)
	return a
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

// ── constructor ─────────────────────────────────────────────────────────────

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "http://localhost:5000/api/", want: "http://localhost:5000/api"},
		{in: "localhost:5000", want: "http://localhost:5000"},
		{in: "  https://finance.example/api ", want: "https://finance.example/api"},
		{in: "", wantErr: true},
		{in: "http://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := normalizeBaseURL(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// ── auth ────────────────────────────────────────────────────────────────────

func TestLogin_StoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)

		var creds models.Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "ann@example.com", creds.Email)

		writeJSON(t, w, http.StatusOK, models.AuthResponse{
			Token: "jwt-token",
			User:  models.User{ID: "u1", Email: creds.Email, FirstName: "Ann"},
		})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL+"/api")
	resp, err := a.Login(context.Background(), models.Credentials{Email: "ann@example.com", Password: "secret1"})

	require.NoError(t, err)
	assert.Equal(t, "u1", resp.User.ID)
	assert.Equal(t, "jwt-token", a.Token())
}

func TestRegister_Conflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/register", r.URL.Path)
		writeJSON(t, w, http.StatusConflict, models.MessageResponse{Message: "User already exists"})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	_, err := a.Register(context.Background(), models.RegisterRequest{Email: "ann@example.com"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, "User already exists", httpErr.Message)
	assert.Empty(t, a.Token())
}

func TestLogin_MissingTokenIsInvalid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{"user": map[string]string{"id": "1"}})
	}))
	defer srv.Close()

	_, err := newTestAdapter(t, srv.URL).Login(context.Background(), models.Credentials{})
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestCurrentUser_SendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer abc" {
			writeJSON(t, w, http.StatusUnauthorized, models.MessageResponse{Message: "Token is not valid"})
			return
		}
		writeJSON(t, w, http.StatusOK, models.User{ID: "u1", Username: "ann"})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)

	_, err := a.CurrentUser(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)

	a.SetToken("  abc ")
	user, err := a.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ann", user.Username)
}

// ── CRUD ────────────────────────────────────────────────────────────────────

func TestCRUD_Paths(t *testing.T) {
	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		switch r.Method {
		case http.MethodGet:
			writeJSON(t, w, http.StatusOK, []map[string]string{{"id": "1"}})
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			body, _ := io.ReadAll(r.Body)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(body)
		}
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	ctx := context.Background()

	items, err := a.List(ctx, models.CollectionSavingsGoals)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1"}]`, string(items))

	created, err := a.Create(ctx, models.CollectionExpenses, json.RawMessage(`{"id":"local-1"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"local-1"}`, string(created))

	_, err = a.Update(ctx, models.CollectionIncome, "7", json.RawMessage(`{"id":"7"}`))
	require.NoError(t, err)

	require.NoError(t, a.Delete(ctx, models.CollectionBudgets, "9"))

	assert.Equal(t, []string{
		"GET /savings-goals",
		"POST /expense",
		"PUT /income/7",
		"DELETE /budgets/9",
	}, calls)
}

func TestList_NullBodyIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("null"))
	}))
	defer srv.Close()

	items, err := newTestAdapter(t, srv.URL).List(context.Background(), models.CollectionExpenses)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(items))
}

func TestCreate_InvalidBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>oops</html>"))
	}))
	defer srv.Close()

	_, err := newTestAdapter(t, srv.URL).Create(context.Background(), models.CollectionExpenses, json.RawMessage(`{}`))
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

// ── sync ────────────────────────────────────────────────────────────────────

func TestSyncAll_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sync/all", r.URL.Path)

		var req models.SyncAllRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 1, req.Length)
		require.Len(t, req.Changes, 1)
		assert.Equal(t, models.ChangeCreated, req.Changes[0].Op)

		writeJSON(t, w, http.StatusOK, models.SyncResult{
			Success: true,
			Message: "Synchronization completed",
			Applied: 1,
			IDMappings: []models.IDMapping{
				{Collection: models.CollectionExpenses, LocalID: "local-1", ServerID: "42"},
			},
		})
	}))
	defer srv.Close()

	result, err := newTestAdapter(t, srv.URL).SyncAll(context.Background(), models.SyncAllRequest{
		Changes: []models.Change{{Op: models.ChangeCreated, Collection: models.CollectionExpenses, RecordID: "local-1"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Applied)
	assert.Equal(t, "42", result.IDMappings[0].ServerID)
}

func TestSyncAll_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    any
		wantErr error
		wantMsg string
	}{
		{
			name:    "server error with message",
			status:  http.StatusInternalServerError,
			body:    models.MessageResponse{Message: "Oracle connection failed"},
			wantErr: ErrInternalServerError,
			wantMsg: "Oracle connection failed",
		},
		{
			name:    "unexpected status",
			status:  http.StatusServiceUnavailable,
			body:    "maintenance",
			wantErr: ErrServerRejected,
			wantMsg: "maintenance",
		},
		{
			name:    "2xx reporting failure",
			status:  http.StatusOK,
			body:    models.SyncResult{Success: false, Message: "nothing to do"},
			wantErr: ErrServerRejected,
			wantMsg: "nothing to do",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if s, ok := tt.body.(string); ok {
					w.WriteHeader(tt.status)
					_, _ = w.Write([]byte(s))
					return
				}
				writeJSON(t, w, tt.status, tt.body)
			}))
			defer srv.Close()

			_, err := newTestAdapter(t, srv.URL).SyncAll(context.Background(), models.SyncAllRequest{})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.False(t, IsTransportError(err))

			var httpErr *HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, tt.wantMsg, httpErr.Message)
		})
	}
}

func TestSyncAll_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newTestAdapter(t, url).SyncAll(context.Background(), models.SyncAllRequest{})
	require.Error(t, err)
	assert.True(t, IsTransportError(err))
}

func TestSyncAll_HonoursCallerDeadline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newTestAdapter(t, srv.URL).SyncAll(ctx, models.SyncAllRequest{})
	require.Error(t, err)
	assert.True(t, IsTransportError(err))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestSyncStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sync/status", r.URL.Path)
		writeJSON(t, w, http.StatusOK, models.SyncStatusSummary{
			Collections: map[models.Collection]models.CollectionStatus{
				models.CollectionExpenses: {Total: 4, Synced: 3, Unsynced: 1},
			},
			TotalRecords:   4,
			SyncedRecords:  3,
			SyncPercentage: "75.0",
		})
	}))
	defer srv.Close()

	summary, err := newTestAdapter(t, srv.URL).SyncStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "75.0", summary.SyncPercentage)
	assert.Equal(t, 1, summary.TotalUnsynced())
}

// ── reports and health ──────────────────────────────────────────────────────

func TestReports(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/reports/expenses-by-category":
			writeJSON(t, w, http.StatusOK, []models.CategoryTotal{{Name: "Food", Value: decimal.NewFromInt(10)}})
		case "/reports/budget-adherence":
			writeJSON(t, w, http.StatusOK, []models.BudgetAdherence{{Name: "Food"}})
		case "/reports/savings-trends":
			writeJSON(t, w, http.StatusOK, []models.SavingsPoint{{Name: "Jan"}})
		case "/reports/savings-goals-progress":
			writeJSON(t, w, http.StatusOK, []models.GoalProgress{{Name: "Car", Progress: 50}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	ctx := context.Background()

	categories, err := a.ExpensesByCategory(ctx)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(categories[0].Value))

	budgets, err := a.BudgetAdherence(ctx)
	require.NoError(t, err)
	assert.Len(t, budgets, 1)

	trend, err := a.SavingsTrends(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Jan", trend[0].Name)

	goals, err := a.SavingsGoalsProgress(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(50), goals[0].Progress)
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	a := newTestAdapter(t, srv.URL)

	assert.NoError(t, a.Health(context.Background()))

	srv.Close()
	assert.True(t, IsTransportError(a.Health(context.Background())))
}
