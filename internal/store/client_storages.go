package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-finance-keeper/internal/config"
	"github.com/MKhiriev/go-finance-keeper/internal/logger"
	"github.com/MKhiriev/go-finance-keeper/models"
)

const (
	memoryDSN     = ":memory:"
	fileDSNPrefix = "file://"
)

// ClientStorages groups the local persistence of the client: the raw
// key-value [Storage], one [RecordStore] per collection and the pending
// change queue.
type ClientStorages struct {
	Storage      Storage
	Expenses     *RecordStore[*models.Expense]
	Income       *RecordStore[*models.Income]
	Budgets      *RecordStore[*models.Budget]
	SavingsGoals *RecordStore[*models.SavingsGoal]
	Queue        *ChangeQueue
}

// NewClientStorages opens the backend selected by cfg.DB.DSN and wires the
// record stores and the queue on top of it:
//   - ":memory:" keeps everything in process memory;
//   - "file://<path>" keeps a single JSON document on disk;
//   - any other value is a SQLite database file, migrated on open.
func NewClientStorages(ctx context.Context, cfg config.Storage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Str("dsn", cfg.DB.DSN).Msg("creating new storages...")

	storage, err := OpenStorage(ctx, cfg.DB, logger)
	if err != nil {
		return nil, err
	}

	return NewClientStoragesFrom(storage), nil
}

// NewClientStoragesFrom wires record stores and the queue on top of an
// already opened storage.
func NewClientStoragesFrom(storage Storage) *ClientStorages {
	return &ClientStorages{
		Storage:      storage,
		Expenses:     NewRecordStore[*models.Expense](storage, models.CollectionExpenses),
		Income:       NewRecordStore[*models.Income](storage, models.CollectionIncome),
		Budgets:      NewRecordStore[*models.Budget](storage, models.CollectionBudgets),
		SavingsGoals: NewRecordStore[*models.SavingsGoal](storage, models.CollectionSavingsGoals),
		Queue:        NewChangeQueue(storage),
	}
}

// OpenStorage opens the key-value backend selected by cfg.DSN.
func OpenStorage(ctx context.Context, cfg config.DB, logger *logger.Logger) (Storage, error) {
	switch dsn := cfg.DSN; {
	case dsn == "":
		return nil, ErrUnsupportedDSN
	case dsn == memoryDSN:
		return NewMemoryStorage(), nil
	case strings.HasPrefix(dsn, fileDSNPrefix):
		path := strings.TrimPrefix(dsn, fileDSNPrefix)
		if path == "" {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedDSN, dsn)
		}
		return NewFileStorage(path)
	default:
		db, err := NewConnectSQLite(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("sqlite connection error: %w", err)
		}

		if err := db.Migrate(); err != nil {
			db.Close()
			return nil, fmt.Errorf("migration failed: %w", err)
		}

		return NewSQLiteStorage(db, logger), nil
	}
}

// Close releases the underlying storage.
func (s *ClientStorages) Close() error {
	return s.Storage.Close()
}
