// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-finance-keeper/models"
)

// ChangeQueue is the durable queue of local mutations awaiting transmission.
// Every mutation is persisted before the call returns.
//
// Entries are collapsed per record: a later change to the same record
// replaces the earlier entry in place (see [ChangeQueue.Enqueue]). Entries
// handed out by [ChangeQueue.Checkout] are in flight and never absorb later
// changes, so a successful sync can remove exactly what it transmitted.
type ChangeQueue struct {
	storage Storage
	now     func() time.Time

	mu       sync.Mutex
	inFlight map[string]time.Time
}

// NewChangeQueue creates a queue persisted under [KeySyncQueue].
func NewChangeQueue(storage Storage) *ChangeQueue {
	return &ChangeQueue{
		storage:  storage,
		now:      time.Now,
		inFlight: make(map[string]time.Time),
	}
}

// Enqueue appends change and persists the queue. A change to a record that
// already has a pending (not in-flight) entry is collapsed into it:
//
//	created + updated -> created (latest snapshot)
//	updated + updated -> updated (latest snapshot)
//	created + deleted -> both dropped
//	updated + deleted -> deleted
//
// The collapsed entry keeps the position of the first one.
func (q *ChangeQueue) Enqueue(ctx context.Context, change models.Change) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if change.QueuedAt.IsZero() {
		change.QueuedAt = q.now().UTC()
	}

	changes, err := q.load(ctx)
	if err != nil {
		return err
	}

	return q.persist(ctx, q.collapse(changes, change))
}

// Drain returns the full queue contents in insertion order without removing
// them.
func (q *ChangeQueue) Drain(ctx context.Context) ([]models.Change, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.load(ctx)
}

// Checkout drains the queue and marks the returned entries as in flight
// until they are removed or [ChangeQueue.Release] is called.
func (q *ChangeQueue) Checkout(ctx context.Context) ([]models.Change, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	changes, err := q.load(ctx)
	if err != nil {
		return nil, err
	}

	for _, c := range changes {
		q.inFlight[c.Key()] = c.QueuedAt
	}
	return changes, nil
}

// Release clears all in-flight marks, e.g. after a failed sync, and
// collapses the entries that were enqueued behind in-flight ones into them.
// The marks are cleared even when the queue cannot be rewritten.
func (q *ChangeQueue) Release(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	clear(q.inFlight)

	changes, err := q.load(ctx)
	if err != nil {
		return err
	}

	merged := make([]models.Change, 0, len(changes))
	for _, c := range changes {
		merged = q.collapse(merged, c)
	}
	if len(merged) == len(changes) {
		return nil
	}
	return q.persist(ctx, merged)
}

// Replace swaps the whole queue for changes in a single write, collapsing
// them as Enqueue would. Without changes it empties the queue.
func (q *ChangeQueue) Replace(ctx context.Context, changes ...models.Change) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	clear(q.inFlight)

	merged := make([]models.Change, 0, len(changes))
	for _, c := range changes {
		if c.QueuedAt.IsZero() {
			c.QueuedAt = q.now().UTC()
		}
		merged = q.collapse(merged, c)
	}
	return q.persist(ctx, merged)
}

// Remove deletes exactly the given entries, leaving anything enqueued after
// they were drained.
func (q *ChangeQueue) Remove(ctx context.Context, done ...models.Change) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	changes, err := q.load(ctx)
	if err != nil {
		return err
	}

	kept := changes[:0]
	for _, c := range changes {
		if !containsChange(done, c) {
			kept = append(kept, c)
		}
	}

	for _, c := range done {
		if at, ok := q.inFlight[c.Key()]; ok && at.Equal(c.QueuedAt) {
			delete(q.inFlight, c.Key())
		}
	}

	return q.persist(ctx, kept)
}

// Remap rewrites temporary record ids of pending entries to the ids assigned
// by the server. A remapped creation becomes an update since the server
// already knows the record.
func (q *ChangeQueue) Remap(ctx context.Context, mappings []models.IDMapping) error {
	if len(mappings) == 0 {
		return nil
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	changes, err := q.load(ctx)
	if err != nil {
		return err
	}

	byKey := make(map[string]models.IDMapping, len(mappings))
	for _, m := range mappings {
		byKey[models.RecordKey(m.Collection, m.LocalID)] = m
	}

	changed := false
	for i, c := range changes {
		m, ok := byKey[c.Key()]
		if !ok {
			continue
		}

		payload, err := rewritePayloadID(c.Payload, m.ServerID)
		if err != nil {
			return err
		}

		changes[i].RecordID = m.ServerID
		changes[i].Payload = payload
		if c.Op == models.ChangeCreated {
			changes[i].Op = models.ChangeUpdated
		}
		changed = true
	}

	if !changed {
		return nil
	}
	return q.persist(ctx, changes)
}

// Len returns the number of pending entries.
func (q *ChangeQueue) Len(ctx context.Context) (int, error) {
	changes, err := q.Drain(ctx)
	if err != nil {
		return 0, err
	}
	return len(changes), nil
}

func (q *ChangeQueue) collapse(changes []models.Change, next models.Change) []models.Change {
	for i, prev := range changes {
		if prev.Key() != next.Key() {
			continue
		}
		if at, ok := q.inFlight[prev.Key()]; ok && at.Equal(prev.QueuedAt) {
			continue
		}

		switch {
		case prev.Op == models.ChangeCreated && next.Op == models.ChangeDeleted:
			return append(changes[:i], changes[i+1:]...)
		case prev.Op == models.ChangeCreated:
			next.Op = models.ChangeCreated
		}

		changes[i] = next
		return changes
	}

	return append(changes, next)
}

func (q *ChangeQueue) load(ctx context.Context) ([]models.Change, error) {
	raw, err := q.storage.Get(ctx, KeySyncQueue)
	if errors.Is(err, ErrKeyNotFound) {
		return []models.Change{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load sync queue: %w", err)
	}

	changes := make([]models.Change, 0)
	if len(raw) == 0 {
		return changes, nil
	}
	if err := json.Unmarshal(raw, &changes); err != nil {
		return nil, fmt.Errorf("%w: sync queue: %w", ErrCorruptedCollection, err)
	}
	return changes, nil
}

func (q *ChangeQueue) persist(ctx context.Context, changes []models.Change) error {
	raw, err := json.Marshal(changes)
	if err != nil {
		return fmt.Errorf("encode sync queue: %w", err)
	}

	if err := q.storage.Set(ctx, KeySyncQueue, raw); err != nil {
		return fmt.Errorf("save sync queue: %w", err)
	}
	return nil
}

func containsChange(set []models.Change, c models.Change) bool {
	for _, s := range set {
		if s.Same(c) {
			return true
		}
	}
	return false
}

func rewritePayloadID(payload json.RawMessage, id string) (json.RawMessage, error) {
	if len(payload) == 0 {
		return payload, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, fmt.Errorf("%w: change payload: %w", ErrCorruptedCollection, err)
	}

	encodedID, err := json.Marshal(id)
	if err != nil {
		return nil, err
	}
	fields["id"] = encodedID

	return json.Marshal(fields)
}
