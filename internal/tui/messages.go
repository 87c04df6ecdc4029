package tui

import (
	"time"

	"github.com/MKhiriev/go-finance-keeper/internal/service"
	"github.com/MKhiriev/go-finance-keeper/models"
)

type authDoneMsg struct {
	user models.User
	err  error
}

type recordsLoadedMsg struct {
	collection models.Collection
	rows       []recordRow
	err        error
}

type recordDeletedMsg struct {
	err error
}

type copiedMsg struct {
	id  string
	err error
}

type syncDoneMsg struct {
	result models.SyncResult
	err    error
}

type syncInfoMsg struct {
	summary    models.SyncStatusSummary
	summaryErr error
	pending    int
	lastSyncAt time.Time
	err        error
}

type dashboardLoadedMsg struct {
	summary models.DashboardSummary
	report  models.Report
	err     error
}

type exportedMsg struct {
	path    string
	records int
	err     error
}

type onlineMsg bool

type syncEventMsg service.SyncEvent

type clearStatusMsg struct{}
