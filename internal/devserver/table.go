// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package devserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MKhiriev/go-finance-keeper/internal/reconcile"
	"github.com/MKhiriev/go-finance-keeper/internal/utils"
	"github.com/MKhiriev/go-finance-keeper/internal/validators"
	"github.com/MKhiriev/go-finance-keeper/models"
)

// collectionTable is the type-erased view of a table the backend dispatches
// requests to.
type collectionTable interface {
	list() (json.RawMessage, error)
	create(ctx context.Context, payload json.RawMessage, now time.Time) (json.RawMessage, error)
	update(ctx context.Context, id string, payload json.RawMessage, now time.Time) (json.RawMessage, error)
	remove(id string) error

	// check validates a sync change without applying it.
	check(ctx context.Context, change models.Change) error
	apply(change models.Change, now time.Time) (applyOutcome, error)

	status() models.CollectionStatus
	commit()
}

type applyOutcome struct {
	conflict bool
	mapping  *models.IDMapping
}

type row[T models.Record] struct {
	rec           T
	deletePending bool
}

// table keeps the records of one collection of one user in insertion order.
type table[T models.Record] struct {
	collection models.Collection
	order      []string
	rows       map[string]*row[T]
	validator  validators.Validator
	ids        *utils.UUIDGenerator
}

func newTable[T models.Record](validator validators.Validator, ids *utils.UUIDGenerator) *table[T] {
	var zero T
	return &table[T]{
		collection: zero.Collection(),
		rows:       make(map[string]*row[T]),
		validator:  validator,
		ids:        ids,
	}
}

// records returns the visible records, skipping pending deletions.
func (t *table[T]) records() []T {
	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		if r := t.rows[id]; !r.deletePending {
			out = append(out, r.rec)
		}
	}
	return out
}

func (t *table[T]) list() (json.RawMessage, error) {
	return json.Marshal(t.records())
}

func (t *table[T]) decode(ctx context.Context, payload json.RawMessage) (T, error) {
	rec, err := reconcile.Decode[T](payload)
	if err != nil {
		return rec, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}
	if err = t.validator.Validate(ctx, rec); err != nil {
		return rec, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}
	return rec, nil
}

func (t *table[T]) create(ctx context.Context, payload json.RawMessage, now time.Time) (json.RawMessage, error) {
	rec, err := t.decode(ctx, payload)
	if err != nil {
		return nil, err
	}

	rec.SetRecordID(t.ids.Generate())
	rec.Touch(now)
	rec.MarkSynced(false)
	t.put(rec)

	return json.Marshal(rec)
}

func (t *table[T]) update(ctx context.Context, id string, payload json.RawMessage, now time.Time) (json.RawMessage, error) {
	existing, ok := t.rows[id]
	if !ok || existing.deletePending {
		return nil, fmt.Errorf("%s/%s: %w", t.collection, id, ErrRecordNotFound)
	}

	rec, err := t.decode(ctx, payload)
	if err != nil {
		return nil, err
	}

	rec.SetRecordID(id)
	rec.Touch(now)
	rec.MarkSynced(false)
	t.put(rec)

	return json.Marshal(rec)
}

func (t *table[T]) remove(id string) error {
	existing, ok := t.rows[id]
	if !ok || existing.deletePending {
		return fmt.Errorf("%s/%s: %w", t.collection, id, ErrRecordNotFound)
	}
	existing.deletePending = true
	return nil
}

func (t *table[T]) check(ctx context.Context, change models.Change) error {
	if change.Op == models.ChangeDeleted {
		if change.RecordID == "" {
			return fmt.Errorf("%w: deletion without id", ErrInvalidData)
		}
		return nil
	}
	if change.Op != models.ChangeCreated && change.Op != models.ChangeUpdated {
		return fmt.Errorf("%w: unknown change op %q", ErrInvalidData, change.Op)
	}

	_, err := t.decode(ctx, change.Payload)
	return err
}

// apply merges one checked change using the last-write-wins policy. A
// created or updated change for an id the table does not know is a
// creation; temporary client ids are replaced by server ids.
func (t *table[T]) apply(change models.Change, now time.Time) (applyOutcome, error) {
	existing, known := t.rows[change.RecordID]

	if change.Op == models.ChangeDeleted {
		switch {
		case !known:
		case reconcile.DeleteWins(change.UpdatedAt, existing.rec.LastUpdate()):
			t.drop(change.RecordID)
		default:
			return applyOutcome{conflict: true}, nil
		}
		return applyOutcome{}, nil
	}

	rec, err := reconcile.Decode[T](change.Payload)
	if err != nil {
		return applyOutcome{}, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}
	if rec.LastUpdate().IsZero() {
		rec.Touch(now)
	}

	if known {
		if reconcile.Winner(rec.LastUpdate(), existing.rec.LastUpdate()) != reconcile.Local {
			return applyOutcome{conflict: true}, nil
		}
		rec.SetRecordID(change.RecordID)
		existing.rec = rec
		existing.deletePending = false
		return applyOutcome{}, nil
	}

	var outcome applyOutcome
	if change.RecordID == "" || models.IsLocalID(change.RecordID) {
		serverID := t.ids.Generate()
		if change.RecordID != "" {
			outcome.mapping = &models.IDMapping{Collection: t.collection, LocalID: change.RecordID, ServerID: serverID}
		}
		rec.SetRecordID(serverID)
	} else {
		rec.SetRecordID(change.RecordID)
	}
	t.put(rec)

	return outcome, nil
}

func (t *table[T]) status() models.CollectionStatus {
	var st models.CollectionStatus
	for _, id := range t.order {
		r := t.rows[id]
		st.Total++
		switch {
		case r.deletePending:
			st.DeletionPending++
		case r.rec.IsSynced():
			st.Synced++
		default:
			st.Unsynced++
		}
	}
	return st
}

// commit marks every record synced and purges pending deletions.
func (t *table[T]) commit() {
	kept := t.order[:0]
	for _, id := range t.order {
		r := t.rows[id]
		if r.deletePending {
			delete(t.rows, id)
			continue
		}
		r.rec.MarkSynced(true)
		kept = append(kept, id)
	}
	t.order = kept
}

func (t *table[T]) put(rec T) {
	id := rec.RecordID()
	if r, ok := t.rows[id]; ok {
		r.rec = rec
		r.deletePending = false
		return
	}
	t.rows[id] = &row[T]{rec: rec}
	t.order = append(t.order, id)
}

func (t *table[T]) drop(id string) {
	delete(t.rows, id)
	for i, v := range t.order {
		if v == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			return
		}
	}
}
