// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-finance-keeper/internal/logger"
)

// sqliteStorage is the [Storage] implementation backed by the kv_store table.
type sqliteStorage struct {
	*DB
	logger *logger.Logger
}

// NewSQLiteStorage constructs a [Storage] backed by an already migrated
// SQLite connection.
func NewSQLiteStorage(db *DB, logger *logger.Logger) Storage {
	return &sqliteStorage{
		DB:     db,
		logger: logger,
	}
}

func (s *sqliteStorage) Get(ctx context.Context, key string) ([]byte, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGetQuery(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var payload []byte
	err = s.DB.QueryRowContext(ctx, query, args...).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "sqliteStorage.Get").
			Str("key", key).
			Msg("failed to read stored value")
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return payload, nil
}

func (s *sqliteStorage) Set(ctx context.Context, key string, value []byte) error {
	log := logger.FromContext(ctx)

	if value == nil {
		value = []byte{}
	}

	query, args, err := buildUpsertQuery(key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = s.DB.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "sqliteStorage.Set").
			Str("key", key).
			Int("size", len(value)).
			Msg("failed to write value")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (s *sqliteStorage) Delete(ctx context.Context, key string) error {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteQuery(key)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = s.DB.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "sqliteStorage.Delete").
			Str("key", key).
			Msg("failed to delete value")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (s *sqliteStorage) Close() error {
	return s.DB.Close()
}
