// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"

	"github.com/MKhiriev/go-finance-keeper/internal/service"
	"github.com/MKhiriev/go-finance-keeper/models"
)

type syncModel struct {
	spinner spinner.Model
	state   service.SyncState
	result  models.SyncResult
	lastErr error

	summary    models.SyncStatusSummary
	summaryErr error
	pending    int
	lastSyncAt time.Time
	loaded     bool
}

func newSyncModel() syncModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	return syncModel{spinner: s, state: service.SyncIdle}
}

func (m syncModel) running() bool {
	return m.state == service.SyncSyncing
}

func (m syncModel) View(online bool) string {
	var b strings.Builder

	b.WriteString("Connection: ")
	b.WriteString(onlineBadge(online))
	b.WriteString("\n")

	b.WriteString("State:      ")
	if m.running() {
		b.WriteString(m.spinner.View() + " syncing...")
	} else {
		b.WriteString(string(m.state))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Pending:    %d change(s)\n", m.pending)
	fmt.Fprintf(&b, "Last sync:  %s\n", formatTime(m.lastSyncAt))

	switch {
	case m.state == service.SyncError && m.lastErr != nil:
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Last sync failed: " + m.lastErr.Error()))
		b.WriteString("\n")
	case m.state == service.SyncSuccess:
		fmt.Fprintf(&b, "\nLast result: %s (applied %d, conflicts %d, new ids %d)\n",
			valueOrNA(m.result.Message), m.result.Applied, m.result.Conflicts, len(m.result.IDMappings))
	}

	b.WriteString("\nServer status\n")
	switch {
	case !m.loaded:
		b.WriteString("  loading...\n")
	case m.summaryErr != nil:
		b.WriteString("  unavailable: " + m.summaryErr.Error() + "\n")
	default:
		for _, c := range models.Collections {
			st := m.summary.Collections[c]
			fmt.Fprintf(&b, "  %-14s total %3d  synced %3d  unsynced %3d  deleting %3d\n",
				c.Title(), st.Total, st.Synced, st.Unsynced, st.DeletionPending)
		}
		fmt.Fprintf(&b, "  %d of %d records synced (%s%%), %d deletion(s) pending\n",
			m.summary.SyncedRecords, m.summary.TotalRecords, m.summary.SyncPercentage, m.summary.TotalDeletionPending)
	}

	return strings.TrimRight(b.String(), "\n")
}

func onlineBadge(online bool) string {
	if online {
		return onlineStyle.Render("● online")
	}
	return offlineStyle.Render("○ offline")
}
