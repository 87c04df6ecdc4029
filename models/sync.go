// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// SyncAllRequest carries the drained pending-change queue to the
// server-side synchronization endpoint.
type SyncAllRequest struct {
	// Changes are the pending changes in insertion order.
	Changes []Change `json:"changes"`

	// Length is the number of entries in Changes.
	Length int `json:"length"`
}

// IDMapping tells the client which permanent identifier the server assigned
// to a record that was created with a temporary local identifier.
type IDMapping struct {
	Collection Collection `json:"collection"`
	LocalID    string     `json:"local_id"`
	ServerID   string     `json:"server_id"`
}

// SyncResult is the response of POST /sync/all.
type SyncResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`

	// Applied is the number of changes the server accepted.
	Applied int `json:"applied"`

	// Conflicts is the number of changes the server discarded because its
	// own copy was newer.
	Conflicts int `json:"conflicts"`

	IDMappings []IDMapping `json:"id_mappings,omitempty"`
	SyncedAt   time.Time   `json:"synced_at"`
}

// CollectionStatus holds the server-side synchronization counters of one
// collection.
type CollectionStatus struct {
	Total           int `json:"total"`
	Synced          int `json:"synced"`
	Unsynced        int `json:"unsynced"`
	DeletionPending int `json:"deletion_pending"`
}

// SyncStatusSummary is the read-only aggregate returned by GET /sync/status.
type SyncStatusSummary struct {
	Collections          map[Collection]CollectionStatus `json:"collections"`
	TotalRecords         int                             `json:"total_records"`
	SyncedRecords        int                             `json:"synced_records"`
	SyncPercentage       string                          `json:"sync_percentage"`
	TotalDeletionPending int                             `json:"total_deletion_pending"`
}

// TotalUnsynced sums the unsynced counters of every collection.
func (s SyncStatusSummary) TotalUnsynced() int {
	total := 0
	for _, st := range s.Collections {
		total += st.Unsynced
	}
	return total
}

// OnlyDeletionsPending reports whether the only outstanding work on the
// server is pending deletions.
func (s SyncStatusSummary) OnlyDeletionsPending() bool {
	return s.TotalDeletionPending > 0 && s.TotalUnsynced() == 0
}
