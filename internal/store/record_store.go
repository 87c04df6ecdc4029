// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-finance-keeper/models"
)

// RecordStore persists one collection of records as a single blob under the
// collection's storage key.
//
// Read-modify-write helpers ([RecordStore.Upsert], [RecordStore.Remove],
// [RecordStore.Update]) are serialized so the UI and background workers can
// share one store.
type RecordStore[T models.Record] struct {
	storage    Storage
	collection models.Collection
	mu         sync.Mutex
}

// NewRecordStore creates a store for collection c on top of storage.
func NewRecordStore[T models.Record](storage Storage, c models.Collection) *RecordStore[T] {
	return &RecordStore[T]{
		storage:    storage,
		collection: c,
	}
}

// Collection returns the collection served by the store.
func (s *RecordStore[T]) Collection() models.Collection {
	return s.collection
}

// Load returns the persisted sequence, or an empty one if nothing is stored.
// A blob that cannot be decoded yields [ErrCorruptedCollection].
func (s *RecordStore[T]) Load(ctx context.Context) ([]T, error) {
	raw, err := s.storage.Get(ctx, CollectionKey(s.collection))
	if errors.Is(err, ErrKeyNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.collection, err)
	}

	return decodeRecords[T](s.collection, raw)
}

// Save overwrites the persisted sequence with one blob write.
func (s *RecordStore[T]) Save(ctx context.Context, records []T) error {
	if records == nil {
		records = []T{}
	}

	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.collection, err)
	}

	if err := s.storage.Set(ctx, CollectionKey(s.collection), raw); err != nil {
		return fmt.Errorf("save %s: %w", s.collection, err)
	}
	return nil
}

// Get returns the record with the given id or [ErrRecordNotFound].
func (s *RecordStore[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T

	records, err := s.Load(ctx)
	if err != nil {
		return zero, err
	}

	for _, rec := range records {
		if rec.RecordID() == id {
			return rec, nil
		}
	}
	return zero, fmt.Errorf("%s/%s: %w", s.collection, id, ErrRecordNotFound)
}

// Upsert replaces the record with the same id or appends rec.
func (s *RecordStore[T]) Upsert(ctx context.Context, rec T) error {
	return s.Update(ctx, func(records []T) ([]T, error) {
		for i := range records {
			if records[i].RecordID() == rec.RecordID() {
				records[i] = rec
				return records, nil
			}
		}
		return append(records, rec), nil
	})
}

// Remove deletes the record with the given id. Missing ids yield
// [ErrRecordNotFound].
func (s *RecordStore[T]) Remove(ctx context.Context, id string) error {
	return s.Update(ctx, func(records []T) ([]T, error) {
		for i := range records {
			if records[i].RecordID() == id {
				return append(records[:i], records[i+1:]...), nil
			}
		}
		return nil, fmt.Errorf("%s/%s: %w", s.collection, id, ErrRecordNotFound)
	})
}

// Update loads the collection, applies fn and saves the result. Nothing is
// written when fn fails.
func (s *RecordStore[T]) Update(ctx context.Context, fn func(records []T) ([]T, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.Load(ctx)
	if err != nil {
		return err
	}

	updated, err := fn(records)
	if err != nil {
		return err
	}

	return s.Save(ctx, updated)
}

// SeedIfEmpty stores sample when the collection has never been persisted.
// It reports whether seeding happened. A persisted empty collection is left
// alone.
func (s *RecordStore[T]) SeedIfEmpty(ctx context.Context, sample []T) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.storage.Get(ctx, CollectionKey(s.collection))
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, ErrKeyNotFound) {
		return false, fmt.Errorf("seed %s: %w", s.collection, err)
	}

	if err := s.Save(ctx, sample); err != nil {
		return false, err
	}
	return true, nil
}

// decodeRecords decodes a JSON array of records of collection c.
func decodeRecords[T models.Record](c models.Collection, raw []byte) ([]T, error) {
	records := make([]T, 0)
	if len(raw) == 0 {
		return records, nil
	}

	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorruptedCollection, c, err)
	}
	return records, nil
}
