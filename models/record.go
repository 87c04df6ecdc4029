// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"strings"
	"time"
)

// LocalIDPrefix marks identifiers generated on the client for records that
// the server has not acknowledged yet.
const LocalIDPrefix = "local-"

// IsLocalID reports whether id is a temporary client-side identifier.
func IsLocalID(id string) bool {
	return strings.HasPrefix(id, LocalIDPrefix)
}

// Record is a single domain entity (expense, income, budget or savings goal).
//
// All concrete record types embed [Entity] and are used through pointers, so
// *Expense, *Income, *Budget and *SavingsGoal satisfy this interface.
type Record interface {
	// RecordID returns the server-assigned identifier, or a temporary
	// identifier prefixed with [LocalIDPrefix] for unsynced records.
	RecordID() string

	// SetRecordID replaces the identifier, e.g. once the server assigned one.
	SetRecordID(id string)

	// LastUpdate returns the time of the latest modification. It is the
	// ordering key of the last-write-wins conflict policy.
	LastUpdate() time.Time

	// Touch marks the record as modified at the given moment. CreatedAt is
	// filled as well when it is still zero.
	Touch(at time.Time)

	// MarkSynced sets the synchronization flag.
	MarkSynced(synced bool)

	// IsSynced reports whether the server holds the current version.
	IsSynced() bool

	// Collection returns the collection the record belongs to. It must not
	// dereference the receiver so it can be called on a nil pointer.
	Collection() Collection
}

// Entity holds the identity and bookkeeping fields shared by every record.
type Entity struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Synced    bool      `json:"synced"`
}

func (e *Entity) RecordID() string {
	return e.ID
}

func (e *Entity) SetRecordID(id string) {
	e.ID = id
}

func (e *Entity) LastUpdate() time.Time {
	return e.UpdatedAt
}

func (e *Entity) Touch(at time.Time) {
	at = at.UTC()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = at
	}
	e.UpdatedAt = at
}

func (e *Entity) MarkSynced(synced bool) {
	e.Synced = synced
}

func (e *Entity) IsSynced() bool {
	return e.Synced
}
