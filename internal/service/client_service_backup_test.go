// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-finance-keeper/internal/logger"
	"github.com/MKhiriev/go-finance-keeper/internal/store"
	"github.com/MKhiriev/go-finance-keeper/internal/validators"
	"github.com/MKhiriev/go-finance-keeper/models"
)

func newTestBackupSvc(t *testing.T) (*clientBackupService, *store.ClientStorages) {
	t.Helper()
	storages := newTestStorages()
	svc := NewClientBackupService(storages, validators.NewRecordValidator(), logger.Nop()).(*clientBackupService)
	svc.now = func() time.Time { return testNow }
	return svc, storages
}

func TestClientBackupService_FileName(t *testing.T) {
	svc, _ := newTestBackupSvc(t)
	assert.Equal(t, "finance_backup_2025-03-07.json", svc.FileName(time.Date(2025, 3, 7, 23, 0, 0, 0, time.UTC)))
}

func TestClientBackupService_Export(t *testing.T) {
	svc, storages := newTestBackupSvc(t)
	ctx := context.Background()
	_, err := SeedSampleData(ctx, storages)
	require.NoError(t, err)

	var buf bytes.Buffer
	backup, err := svc.Export(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, len(SampleExpenses())+len(SampleIncome())+len(SampleBudgets())+len(SampleSavingsGoals()), backup.Len())
	assert.True(t, backup.ExportedAt.Equal(testNow))

	var decoded models.Backup
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, backup.Len(), decoded.Len())
	assert.Contains(t, buf.String(), "\n  \"expenses\"")
}

func TestClientBackupService_RoundTrip(t *testing.T) {
	source, sourceStorages := newTestBackupSvc(t)
	ctx := context.Background()
	_, err := SeedSampleData(ctx, sourceStorages)
	require.NoError(t, err)

	var buf bytes.Buffer
	exported, err := source.Export(ctx, &buf)
	require.NoError(t, err)

	target, targetStorages := newTestBackupSvc(t)
	enqueueCreated(t, ctx, targetStorages, groceries("local-stale"))

	imported, err := target.Import(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, exported.Len(), imported.Len())

	expenses, err := targetStorages.Expenses.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, expenses, len(SampleExpenses()))
	for _, e := range expenses {
		assert.False(t, e.Synced)
	}

	pending, err := targetStorages.Queue.Drain(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, exported.Len())
	for _, c := range pending {
		assert.Equal(t, models.ChangeCreated, c.Op)
		assert.NotEqual(t, "local-stale", c.RecordID)
	}
}

func TestClientBackupService_Import_AssignsMissingIDs(t *testing.T) {
	svc, storages := newTestBackupSvc(t)
	ctx := context.Background()

	doc := `{"expenses":[{"date":"2025-01-01","category":"Groceries","amount":"12.30"}]}`
	_, err := svc.Import(ctx, strings.NewReader(doc))
	require.NoError(t, err)

	expenses, err := storages.Expenses.Load(ctx)
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.True(t, models.IsLocalID(expenses[0].ID))
	assert.True(t, expenses[0].UpdatedAt.Equal(testNow))
}

func TestClientBackupService_Import_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "malformed", doc: `{"expenses": [`},
		{name: "null record", doc: `{"expenses":[null]}`},
		{name: "invalid record", doc: `{"expenses":[{"date":"yesterday","category":"Groceries","amount":"1"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, storages := newTestBackupSvc(t)
			ctx := context.Background()
			require.NoError(t, storages.Expenses.Upsert(ctx, groceries("srv-1")))

			_, err := svc.Import(ctx, strings.NewReader(tt.doc))
			require.ErrorIs(t, err, ErrInvalidBackup)

			expenses, err := storages.Expenses.Load(ctx)
			require.NoError(t, err)
			assert.Len(t, expenses, 1, "nothing is written on failure")
		})
	}
}

func TestSeedSampleData(t *testing.T) {
	storages := newTestStorages()
	ctx := context.Background()

	n, err := SeedSampleData(ctx, storages)
	require.NoError(t, err)
	assert.Equal(t, len(SampleExpenses())+len(SampleIncome())+len(SampleBudgets())+len(SampleSavingsGoals()), n)

	pending, err := storages.Queue.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, pending, "sample data is never queued")

	n, err = SeedSampleData(ctx, storages)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSeedSampleData_KeepsExistingCollections(t *testing.T) {
	storages := newTestStorages()
	ctx := context.Background()
	require.NoError(t, storages.Expenses.Upsert(ctx, groceries("srv-1")))

	n, err := SeedSampleData(ctx, storages)
	require.NoError(t, err)
	assert.Equal(t, len(SampleIncome())+len(SampleBudgets())+len(SampleSavingsGoals()), n)

	expenses, err := storages.Expenses.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, expenses, 1)
}

func TestSampleData_IsValid(t *testing.T) {
	v := validators.NewRecordValidator()
	ctx := context.Background()

	for _, e := range SampleExpenses() {
		assert.NoError(t, v.Validate(ctx, e), e.ID)
	}
	for _, i := range SampleIncome() {
		assert.NoError(t, v.Validate(ctx, i), i.ID)
	}
	for _, b := range SampleBudgets() {
		assert.NoError(t, v.Validate(ctx, b), b.ID)
	}
	for _, g := range SampleSavingsGoals() {
		assert.NoError(t, v.Validate(ctx, g), g.ID)
	}
}
