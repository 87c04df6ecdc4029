// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-finance-keeper/internal/adapter"
	"github.com/MKhiriev/go-finance-keeper/internal/config"
	"github.com/MKhiriev/go-finance-keeper/internal/logger"
	"github.com/MKhiriev/go-finance-keeper/internal/mock"
	"github.com/MKhiriev/go-finance-keeper/internal/store"
	"github.com/MKhiriev/go-finance-keeper/models"
)

// newTestSyncSvc builds a clientSyncService over in-memory storages and a
// mocked adapter. The client starts online and signed in.
func newTestSyncSvc(t *testing.T, ctrl *gomock.Controller) (
	*clientSyncService,
	*store.ClientStorages,
	*mock.MockServerAdapter,
	*stubConnectivity,
) {
	t.Helper()
	storages := newTestStorages()
	mockAdapter := mock.NewMockServerAdapter(ctrl)
	online := newStubConnectivity(true)

	svc := NewClientSyncService(storages, mockAdapter, stubTokens{token: "tok"}, online,
		config.Workers{SyncTimeout: time.Second}, logger.Nop()).(*clientSyncService)
	svc.now = func() time.Time { return testNow }

	return svc, storages, mockAdapter, online
}

func expectEmptyLists(m *mock.MockServerAdapter, except ...models.Collection) {
	skip := make(map[models.Collection]bool)
	for _, c := range except {
		skip[c] = true
	}
	for _, c := range models.Collections {
		if !skip[c] {
			m.EXPECT().List(gomock.Any(), c).Return(json.RawMessage(`[]`), nil)
		}
	}
}

// ── guards ───────────────────────────────────────────────────────────────────

func TestClientSyncService_Sync_Offline(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, storages, _, online := newTestSyncSvc(t, ctrl)
	ctx := context.Background()
	online.SetOnline(false)
	enqueueCreated(t, ctx, storages, groceries("local-1"))

	_, err := svc.Sync(ctx)
	require.ErrorIs(t, err, ErrConnectivityUnavailable)

	n, err := storages.Queue.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, SyncIdle, svc.State())
}

func TestClientSyncService_Sync_NoToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _, _, _ := newTestSyncSvc(t, ctrl)
	svc.tokens = stubTokens{err: ErrAuthenticationMissing}

	_, err := svc.Sync(context.Background())
	require.ErrorIs(t, err, ErrAuthenticationMissing)
	assert.Equal(t, SyncIdle, svc.State())
}

func TestClientSyncService_Sync_InProgress(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _, mockAdapter, _ := newTestSyncSvc(t, ctrl)
	ctx := context.Background()

	entered := make(chan struct{})
	release := make(chan struct{})

	mockAdapter.EXPECT().SetToken("tok")
	mockAdapter.EXPECT().SyncAll(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, models.SyncAllRequest) (models.SyncResult, error) {
			close(entered)
			<-release
			return models.SyncResult{Success: true}, nil
		})
	expectEmptyLists(mockAdapter)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Sync(ctx)
		done <- err
	}()

	<-entered
	assert.Equal(t, SyncSyncing, svc.State())

	_, err := svc.Sync(ctx)
	require.ErrorIs(t, err, ErrSyncInProgress)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, SyncSuccess, svc.State())
}

// ── success ──────────────────────────────────────────────────────────────────

func TestClientSyncService_Sync_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, storages, mockAdapter, _ := newTestSyncSvc(t, ctrl)
	ctx := context.Background()

	local := groceries("local-1")
	require.NoError(t, storages.Expenses.Upsert(ctx, local))
	enqueueCreated(t, ctx, storages, local)

	server := groceries("srv-1")
	server.Synced = true

	mockAdapter.EXPECT().SetToken("tok")
	mockAdapter.EXPECT().SyncAll(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, req models.SyncAllRequest) (models.SyncResult, error) {
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			require.Len(t, req.Changes, 1)
			assert.Equal(t, models.ChangeCreated, req.Changes[0].Op)
			assert.Equal(t, "local-1", req.Changes[0].RecordID)

			return models.SyncResult{
				Success:    true,
				Applied:    1,
				IDMappings: []models.IDMapping{{Collection: models.CollectionExpenses, LocalID: "local-1", ServerID: "srv-1"}},
			}, nil
		})
	mockAdapter.EXPECT().List(gomock.Any(), models.CollectionExpenses).Return(mustJSON(t, []*models.Expense{server}), nil)
	expectEmptyLists(mockAdapter, models.CollectionExpenses)

	result, err := svc.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Applied)
	assert.Equal(t, SyncSuccess, svc.State())

	n, err := storages.Queue.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	expenses, err := storages.Expenses.Load(ctx)
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, "srv-1", expenses[0].ID)
	assert.True(t, expenses[0].Synced)
	assert.Equal(t, "42.5", expenses[0].Amount.String())

	last, err := svc.LastSyncAt(ctx)
	require.NoError(t, err)
	assert.True(t, last.Equal(testNow))

	lastResult, lastErr := svc.LastResult()
	assert.NoError(t, lastErr)
	assert.Equal(t, 1, lastResult.Applied)
}

func TestClientSyncService_Sync_KeepsChangesEnqueuedDuringSync(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, storages, mockAdapter, _ := newTestSyncSvc(t, ctrl)
	ctx := context.Background()

	local := groceries("local-1")
	require.NoError(t, storages.Expenses.Upsert(ctx, local))
	enqueueCreated(t, ctx, storages, local)

	edited := groceries("local-1")
	edited.Category = "Food"
	edited.UpdatedAt = testNow.Add(time.Minute)

	mockAdapter.EXPECT().SetToken("tok")
	mockAdapter.EXPECT().SyncAll(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, models.SyncAllRequest) (models.SyncResult, error) {
			change, err := models.NewUpdatedChange(edited)
			require.NoError(t, err)
			require.NoError(t, storages.Queue.Enqueue(ctx, change))

			return models.SyncResult{
				Success:    true,
				Applied:    1,
				IDMappings: []models.IDMapping{{Collection: models.CollectionExpenses, LocalID: "local-1", ServerID: "srv-1"}},
			}, nil
		})
	mockAdapter.EXPECT().List(gomock.Any(), models.CollectionExpenses).Return(mustJSON(t, []*models.Expense{groceries("srv-1")}), nil)
	expectEmptyLists(mockAdapter, models.CollectionExpenses)

	_, err := svc.Sync(ctx)
	require.NoError(t, err)

	pending, err := storages.Queue.Drain(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "srv-1", pending[0].RecordID)
	assert.Equal(t, models.ChangeUpdated, pending[0].Op)

	expenses, err := storages.Expenses.Load(ctx)
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, "srv-1", expenses[0].ID)
	assert.Equal(t, "Food", expenses[0].Category, "newer pending edit wins over the server copy")
	assert.False(t, expenses[0].Synced)
}

// ── failures ─────────────────────────────────────────────────────────────────

func TestClientSyncService_Sync_ServerRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, storages, mockAdapter, _ := newTestSyncSvc(t, ctrl)
	ctx := context.Background()

	local := groceries("local-1")
	require.NoError(t, storages.Expenses.Upsert(ctx, local))
	enqueueCreated(t, ctx, storages, local)

	mockAdapter.EXPECT().SetToken("tok")
	mockAdapter.EXPECT().SyncAll(gomock.Any(), gomock.Any()).
		Return(models.SyncResult{}, adapter.NewHTTPError(http.StatusInternalServerError, "database unavailable"))

	_, err := svc.Sync(ctx)
	require.ErrorIs(t, err, ErrServerRejected)

	var rejected *ServerRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "database unavailable", rejected.Message)
	assert.Equal(t, http.StatusInternalServerError, rejected.StatusCode)

	assert.Equal(t, SyncError, svc.State())
	n, err := storages.Queue.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	expenses, err := storages.Expenses.Load(ctx)
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, "local-1", expenses[0].ID)
}

func TestClientSyncService_Sync_NetworkFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, storages, mockAdapter, _ := newTestSyncSvc(t, ctrl)
	ctx := context.Background()
	enqueueCreated(t, ctx, storages, groceries("local-1"))

	mockAdapter.EXPECT().SetToken("tok")
	mockAdapter.EXPECT().SyncAll(gomock.Any(), gomock.Any()).Return(models.SyncResult{}, transportError())

	_, err := svc.Sync(ctx)
	require.ErrorIs(t, err, ErrNetworkFailure)
	assert.Equal(t, SyncError, svc.State())

	n, err := storages.Queue.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, lastErr := svc.LastResult()
	assert.ErrorIs(t, lastErr, ErrNetworkFailure)
}

func TestClientSyncService_Sync_Timeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, storages, mockAdapter, _ := newTestSyncSvc(t, ctrl)
	svc.timeout = 20 * time.Millisecond
	ctx := context.Background()
	enqueueCreated(t, ctx, storages, groceries("local-1"))

	mockAdapter.EXPECT().SetToken("tok")
	mockAdapter.EXPECT().SyncAll(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ models.SyncAllRequest) (models.SyncResult, error) {
			<-ctx.Done()
			return models.SyncResult{}, transportError()
		})

	_, err := svc.Sync(ctx)
	require.ErrorIs(t, err, ErrNetworkFailure)

	n, err := storages.Queue.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestClientSyncService_Sync_RetryAfterFailureSendsSameChanges(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, storages, mockAdapter, _ := newTestSyncSvc(t, ctrl)
	ctx := context.Background()
	enqueueCreated(t, ctx, storages, groceries("local-1"))

	var sent [][]models.Change
	capture := func(_ context.Context, req models.SyncAllRequest) {
		sent = append(sent, req.Changes)
	}

	mockAdapter.EXPECT().SetToken("tok").Times(2)
	gomock.InOrder(
		mockAdapter.EXPECT().SyncAll(gomock.Any(), gomock.Any()).Do(capture).Return(models.SyncResult{}, transportError()),
		mockAdapter.EXPECT().SyncAll(gomock.Any(), gomock.Any()).Do(capture).Return(models.SyncResult{Success: true, Applied: 1}, nil),
	)
	expectEmptyLists(mockAdapter)

	_, err := svc.Sync(ctx)
	require.Error(t, err)
	_, err = svc.Sync(ctx)
	require.NoError(t, err)

	require.Len(t, sent, 2)
	assert.Equal(t, sent[0], sent[1])
}

func TestClientSyncService_Sync_RefreshFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, storages, mockAdapter, _ := newTestSyncSvc(t, ctrl)
	ctx := context.Background()
	enqueueCreated(t, ctx, storages, groceries("local-1"))

	mockAdapter.EXPECT().SetToken("tok")
	mockAdapter.EXPECT().SyncAll(gomock.Any(), gomock.Any()).Return(models.SyncResult{Success: true, Applied: 1}, nil)
	mockAdapter.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, transportError()).AnyTimes()

	_, err := svc.Sync(ctx)
	require.ErrorIs(t, err, ErrNetworkFailure)
	assert.Equal(t, SyncError, svc.State())

	n, err := storages.Queue.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "the server applied the batch, it must not be sent again")
}

// ── events and status ────────────────────────────────────────────────────────

func TestClientSyncService_Subscribe(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _, mockAdapter, _ := newTestSyncSvc(t, ctrl)

	events, cancel := svc.Subscribe()
	defer cancel()

	mockAdapter.EXPECT().SetToken("tok")
	mockAdapter.EXPECT().SyncAll(gomock.Any(), gomock.Any()).Return(models.SyncResult{Success: true}, nil)
	expectEmptyLists(mockAdapter)

	_, err := svc.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, SyncSyncing, (<-events).State)
	assert.Equal(t, SyncSuccess, (<-events).State)
}

func TestClientSyncService_Status(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _, mockAdapter, _ := newTestSyncSvc(t, ctrl)
	ctx := context.Background()

	summary := models.SyncStatusSummary{TotalRecords: 4, SyncedRecords: 2, SyncPercentage: "50.0"}
	mockAdapter.EXPECT().SetToken("tok")
	mockAdapter.EXPECT().SyncStatus(ctx).Return(summary, nil)

	got, err := svc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, summary, got)
}

func TestClientSyncService_Pending(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, storages, _, _ := newTestSyncSvc(t, ctrl)
	ctx := context.Background()

	enqueueCreated(t, ctx, storages, groceries("local-1"))
	enqueueCreated(t, ctx, storages, groceries("local-2"))

	n, err := svc.Pending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestClientSyncService_LastSyncAt_NeverSynced(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _, _, _ := newTestSyncSvc(t, ctrl)

	at, err := svc.LastSyncAt(context.Background())
	require.NoError(t, err)
	assert.True(t, at.IsZero())
}
