// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"time"

	"github.com/MKhiriev/go-finance-keeper/internal/logger"
	"github.com/MKhiriev/go-finance-keeper/internal/store"
	"github.com/MKhiriev/go-finance-keeper/internal/utils"
	"github.com/MKhiriev/go-finance-keeper/internal/validators"
	"github.com/MKhiriev/go-finance-keeper/models"
)

// BackupFileLayout is the name of backup files, formatted with the export
// date.
const BackupFileLayout = "finance_backup_2006-01-02.json"

type clientBackupService struct {
	storages  *store.ClientStorages
	validator validators.Validator
	ids       *utils.UUIDGenerator
	now       func() time.Time
	logger    *logger.Logger
}

func NewClientBackupService(storages *store.ClientStorages, validator validators.Validator, logger *logger.Logger) BackupService {
	return &clientBackupService{
		storages:  storages,
		validator: validator,
		ids:       utils.NewUUIDGenerator(),
		now:       time.Now,
		logger:    logger,
	}
}

func (s *clientBackupService) FileName(at time.Time) string {
	return at.Format(BackupFileLayout)
}

// Export writes the local collections as one indented JSON document.
func (s *clientBackupService) Export(ctx context.Context, w io.Writer) (models.Backup, error) {
	var (
		backup = models.Backup{ExportedAt: s.now().UTC()}
		err    error
	)

	if backup.Expenses, err = s.storages.Expenses.Load(ctx); err != nil {
		return models.Backup{}, fmt.Errorf("export: %w", err)
	}
	if backup.Income, err = s.storages.Income.Load(ctx); err != nil {
		return models.Backup{}, fmt.Errorf("export: %w", err)
	}
	if backup.Budgets, err = s.storages.Budgets.Load(ctx); err != nil {
		return models.Backup{}, fmt.Errorf("export: %w", err)
	}
	if backup.SavingsGoals, err = s.storages.SavingsGoals.Load(ctx); err != nil {
		return models.Backup{}, fmt.Errorf("export: %w", err)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err = enc.Encode(backup); err != nil {
		return models.Backup{}, fmt.Errorf("export: write backup: %w", err)
	}

	s.logger.Info().Str("func", "clientBackupService.Export").Int("records", backup.Len()).Msg("backup exported")
	return backup, nil
}

// Import validates the document, replaces the local collections with it and
// queues every imported record as created. Nothing is written when any
// record is invalid.
func (s *clientBackupService) Import(ctx context.Context, r io.Reader) (models.Backup, error) {
	var backup models.Backup
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return models.Backup{}, fmt.Errorf("%w: %w", ErrInvalidBackup, err)
	}

	records := make([]models.Record, 0, backup.Len())
	records = appendRecords(records, backup.Expenses)
	records = appendRecords(records, backup.Income)
	records = appendRecords(records, backup.Budgets)
	records = appendRecords(records, backup.SavingsGoals)
	if len(records) != backup.Len() {
		return models.Backup{}, fmt.Errorf("%w: null record", ErrInvalidBackup)
	}

	now := s.now()
	for _, rec := range records {
		if err := s.validator.Validate(ctx, rec); err != nil {
			return models.Backup{}, fmt.Errorf("%w: %s %s: %w", ErrInvalidBackup, rec.Collection(), rec.RecordID(), err)
		}
		if rec.RecordID() == "" {
			rec.SetRecordID(s.ids.GenerateLocal())
		}
		if rec.LastUpdate().IsZero() {
			rec.Touch(now)
		}
		rec.MarkSynced(false)
	}

	changes := make([]models.Change, 0, len(records))
	for _, rec := range records {
		change, err := models.NewCreatedChange(rec)
		if err != nil {
			return models.Backup{}, fmt.Errorf("import: %w", err)
		}
		changes = append(changes, change)
	}

	if err := s.storages.Expenses.Save(ctx, backup.Expenses); err != nil {
		return models.Backup{}, fmt.Errorf("import: %w", err)
	}
	if err := s.storages.Income.Save(ctx, backup.Income); err != nil {
		return models.Backup{}, fmt.Errorf("import: %w", err)
	}
	if err := s.storages.Budgets.Save(ctx, backup.Budgets); err != nil {
		return models.Backup{}, fmt.Errorf("import: %w", err)
	}
	if err := s.storages.SavingsGoals.Save(ctx, backup.SavingsGoals); err != nil {
		return models.Backup{}, fmt.Errorf("import: %w", err)
	}

	// the queue is swapped in one write once every collection is on disk
	if err := s.storages.Queue.Replace(ctx, changes...); err != nil {
		return models.Backup{}, fmt.Errorf("import: %w", err)
	}

	s.logger.Info().Str("func", "clientBackupService.Import").Int("records", backup.Len()).Msg("backup imported")
	return backup, nil
}

// appendRecords skips null entries.
func appendRecords[T models.Record](dst []models.Record, src []T) []models.Record {
	for _, rec := range src {
		if reflect.ValueOf(rec).IsNil() {
			continue
		}
		dst = append(dst, rec)
	}
	return dst
}
