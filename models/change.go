// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// ChangeOp tags the kind of a pending change.
type ChangeOp string

const (
	ChangeCreated ChangeOp = "created"
	ChangeUpdated ChangeOp = "updated"
	ChangeDeleted ChangeOp = "deleted"
)

// Change is one locally buffered mutation awaiting transmission to the
// server. It is a tagged variant: Created and Updated carry a full record
// snapshot in Payload, Deleted carries only the identifier.
type Change struct {
	Op         ChangeOp        `json:"op"`
	Collection Collection      `json:"collection"`
	RecordID   string          `json:"record_id"`
	Payload    json.RawMessage `json:"payload,omitempty"`

	// UpdatedAt is the modification time of the record snapshot (or of the
	// deletion). Used by the last-write-wins policy.
	UpdatedAt time.Time `json:"updated_at"`

	// QueuedAt is the moment the change entered the queue. Together with the
	// record key it identifies a queue entry.
	QueuedAt time.Time `json:"queued_at"`
}

// NewCreatedChange snapshots rec as a creation.
func NewCreatedChange(rec Record) (Change, error) {
	return snapshotChange(ChangeCreated, rec)
}

// NewUpdatedChange snapshots rec as a modification.
func NewUpdatedChange(rec Record) (Change, error) {
	return snapshotChange(ChangeUpdated, rec)
}

// NewDeletedChange records the deletion of id within c.
func NewDeletedChange(c Collection, id string, at time.Time) Change {
	return Change{
		Op:         ChangeDeleted,
		Collection: c,
		RecordID:   id,
		UpdatedAt:  at.UTC(),
	}
}

func snapshotChange(op ChangeOp, rec Record) (Change, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return Change{}, fmt.Errorf("encode %s record %s: %w", rec.Collection(), rec.RecordID(), err)
	}

	return Change{
		Op:         op,
		Collection: rec.Collection(),
		RecordID:   rec.RecordID(),
		Payload:    payload,
		UpdatedAt:  rec.LastUpdate().UTC(),
	}, nil
}

// Key identifies the record a change refers to.
func (c Change) Key() string {
	return RecordKey(c.Collection, c.RecordID)
}

// Same reports whether c and other are the same queue entry.
func (c Change) Same(other Change) bool {
	return c.Key() == other.Key() && c.QueuedAt.Equal(other.QueuedAt)
}

// RecordKey builds the collection-scoped key of a record.
func RecordKey(c Collection, id string) string {
	return string(c) + "/" + id
}
