// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package reconcile implements the last-write-wins conflict policy shared by
// the client refresh and the development server.
//
// For a record present both in a pending change and on the server, the copy
// with the later UpdatedAt wins and ties go to the server. A pending deletion
// removes the record unless the server copy is strictly newer. Pending
// creations the server does not know yet are appended.
package reconcile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MKhiriev/go-finance-keeper/models"
)

// Side names the winner of a conflict.
type Side int

const (
	Server Side = iota
	Local
)

func (s Side) String() string {
	if s == Local {
		return "local"
	}
	return "server"
}

// Winner decides between a local modification made at local and the server
// copy last modified at server.
func Winner(local, server time.Time) Side {
	if local.After(server) {
		return Local
	}
	return Server
}

// DeleteWins reports whether a deletion made at deletedAt removes a server
// copy last modified at server.
func DeleteWins(deletedAt, server time.Time) bool {
	return !server.After(deletedAt)
}

// LastWriteWins overlays the pending changes of T's collection on top of the
// server copy and returns the merged sequence. Changes of other collections
// are ignored. Records taken from pending changes are marked unsynced,
// server records are marked synced.
//
// The result keeps the server order and appends unknown local records in
// queue order. Server records are shared with the result, not copied.
func LastWriteWins[T models.Record](server []T, pending []models.Change) ([]T, error) {
	var zero T
	collection := zero.Collection()

	merged := make([]T, 0, len(server))
	index := make(map[string]int, len(server))
	for _, rec := range server {
		rec.MarkSynced(true)
		index[rec.RecordID()] = len(merged)
		merged = append(merged, rec)
	}
	removed := make(map[string]bool)

	for _, change := range pending {
		if change.Collection != collection {
			continue
		}

		pos, known := index[change.RecordID]

		switch change.Op {
		case models.ChangeDeleted:
			if known && !removed[change.RecordID] && DeleteWins(change.UpdatedAt, merged[pos].LastUpdate()) {
				removed[change.RecordID] = true
			}

		case models.ChangeCreated, models.ChangeUpdated:
			rec, err := Decode[T](change.Payload)
			if err != nil {
				return nil, fmt.Errorf("%s/%s: %w", collection, change.RecordID, err)
			}
			rec.MarkSynced(false)

			switch {
			case !known:
				index[change.RecordID] = len(merged)
				merged = append(merged, rec)
			case removed[change.RecordID]:
				delete(removed, change.RecordID)
				merged[pos] = rec
			case Winner(rec.LastUpdate(), merged[pos].LastUpdate()) == Local:
				merged[pos] = rec
			}
		}
	}

	if len(removed) == 0 {
		return merged, nil
	}

	kept := make([]T, 0, len(merged)-len(removed))
	for _, rec := range merged {
		if removed[rec.RecordID()] {
			continue
		}
		kept = append(kept, rec)
	}
	return kept, nil
}

// Decode unmarshals a change payload into a fresh record of type T.
func Decode[T models.Record](payload json.RawMessage) (T, error) {
	var rec T
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return rec, ErrEmptyPayload
	}
	if err := json.Unmarshal(trimmed, &rec); err != nil {
		return rec, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return rec, nil
}
