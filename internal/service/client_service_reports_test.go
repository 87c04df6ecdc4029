// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-finance-keeper/internal/logger"
	"github.com/MKhiriev/go-finance-keeper/internal/mock"
	"github.com/MKhiriev/go-finance-keeper/internal/store"
	"github.com/MKhiriev/go-finance-keeper/models"
)

func newTestReportSvc(t *testing.T, ctrl *gomock.Controller, online bool) (ReportService, *store.ClientStorages, *mock.MockServerAdapter) {
	t.Helper()
	storages := newTestStorages()
	mockAdapter := mock.NewMockServerAdapter(ctrl)
	svc := NewClientReportService(storages, mockAdapter, stubTokens{token: "tok"}, newStubConnectivity(online), logger.Nop())
	return svc, storages, mockAdapter
}

func expectRemoteReport(m *mock.MockServerAdapter, categories []models.CategoryTotal) {
	m.EXPECT().SetToken("tok")
	m.EXPECT().ExpensesByCategory(gomock.Any()).Return(categories, nil)
	m.EXPECT().BudgetAdherence(gomock.Any()).Return(nil, nil)
	m.EXPECT().SavingsTrends(gomock.Any()).Return(nil, nil)
	m.EXPECT().SavingsGoalsProgress(gomock.Any()).Return(nil, nil)
}

func TestClientReportService_Remote(t *testing.T) {
	svc, _, mockAdapter := newTestReportSvc(t, gomock.NewController(t), true)

	expectRemoteReport(mockAdapter, []models.CategoryTotal{
		{Name: "Groceries", Value: decimal.NewFromInt(120)},
		{Name: "", Value: decimal.NewFromInt(5)},
		{Name: "Refunds", Value: decimal.NewFromInt(-3)},
	})

	report, err := svc.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.ReportSourceRemote, report.Source)
	require.Len(t, report.Categories, 1)
	assert.Equal(t, "Groceries", report.Categories[0].Name)
}

func TestClientReportService_RemoteEmptyFallsBackToLocal(t *testing.T) {
	svc, storages, mockAdapter := newTestReportSvc(t, gomock.NewController(t), true)
	ctx := context.Background()
	require.NoError(t, storages.Expenses.Upsert(ctx, groceries("srv-1")))

	expectRemoteReport(mockAdapter, nil)

	report, err := svc.Build(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.ReportSourceLocal, report.Source)
	require.Len(t, report.Categories, 1)
	assert.Equal(t, "42.5", report.Categories[0].Value.String())
}

func TestClientReportService_RemoteFailureFallsBackToLocal(t *testing.T) {
	svc, storages, mockAdapter := newTestReportSvc(t, gomock.NewController(t), true)
	ctx := context.Background()
	require.NoError(t, storages.Expenses.Upsert(ctx, groceries("srv-1")))

	mockAdapter.EXPECT().SetToken("tok")
	mockAdapter.EXPECT().ExpensesByCategory(gomock.Any()).Return(nil, transportError())
	mockAdapter.EXPECT().BudgetAdherence(gomock.Any()).Return(nil, nil).AnyTimes()
	mockAdapter.EXPECT().SavingsTrends(gomock.Any()).Return(nil, nil).AnyTimes()
	mockAdapter.EXPECT().SavingsGoalsProgress(gomock.Any()).Return(nil, nil).AnyTimes()

	report, err := svc.Build(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.ReportSourceLocal, report.Source)
	assert.Len(t, report.Categories, 1)
}

func TestClientReportService_Offline(t *testing.T) {
	svc, _, _ := newTestReportSvc(t, gomock.NewController(t), false)

	report, err := svc.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.ReportSourceLocal, report.Source)
	assert.True(t, report.Empty(), "sample data is never substituted")
}

func TestClientReportService_LocalFailure(t *testing.T) {
	svc, storages, _ := newTestReportSvc(t, gomock.NewController(t), false)
	ctx := context.Background()
	require.NoError(t, storages.Storage.Set(ctx, store.CollectionKey(models.CollectionExpenses), []byte("{broken")))

	report, err := svc.Build(ctx)
	require.ErrorIs(t, err, store.ErrCorruptedCollection)
	assert.Equal(t, models.ReportSourceNone, report.Source)
}

func TestClientDashboardService_Summary(t *testing.T) {
	storages := newTestStorages()
	ctx := context.Background()

	require.NoError(t, storages.Expenses.Upsert(ctx, groceries("srv-1")))
	require.NoError(t, storages.Income.Upsert(ctx, &models.Income{
		Entity: models.Entity{ID: "srv-2"},
		Date:   "2025-01-02",
		Source: "ACME",
		Amount: decimal.NewFromInt(100),
		Type:   models.IncomeSalary,
	}))
	require.NoError(t, storages.SavingsGoals.Upsert(ctx, &models.SavingsGoal{
		Entity:              models.Entity{ID: "srv-3"},
		Name:                "Vacation",
		TargetAmount:        decimal.NewFromInt(1000),
		CurrentContribution: decimal.NewFromInt(25),
		Priority:            models.PriorityHigh,
	}))

	summary, err := NewClientDashboardService(storages).Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, "100", summary.TotalIncome.String())
	assert.Equal(t, "42.5", summary.TotalExpenses.String())
	assert.Equal(t, "57.5", summary.NetIncome.String())
	assert.Equal(t, "25", summary.SavingsRate.String())
	assert.Equal(t, "42.5", summary.ExpenseRatio.String())
	assert.Equal(t, models.HealthExcellent, summary.Health)
}
