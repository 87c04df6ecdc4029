// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-finance-keeper/internal/service"
	"github.com/MKhiriev/go-finance-keeper/models"
)

type view int

const (
	viewRecords view = iota
	viewSync
	viewDashboard
)

const statusTTL = 4 * time.Second

type mainLoopModel struct {
	ctx       context.Context
	services  *service.ClientServices
	user      models.User
	buildInfo models.AppBuildInfo

	view      view
	records   recordsModel
	sync      syncModel
	dashboard dashboardModel

	online bool
	status string

	showError    bool
	errorOverlay errorOverlayModel
	showConfirm  bool
	confirm      confirmModel
	showInfo     bool

	onlineCh <-chan bool
	syncCh   <-chan service.SyncEvent
	cancels  []func()

	logout bool
}

func newMainLoopModel(ctx context.Context, services *service.ClientServices, user models.User, buildInfo models.AppBuildInfo) mainLoopModel {
	onlineCh, cancelOnline := services.Connectivity.Subscribe()
	syncCh, cancelSync := services.SyncService.Subscribe()

	m := mainLoopModel{
		ctx:       ctx,
		services:  services,
		user:      user,
		buildInfo: buildInfo,
		records:   recordsModel{loading: true},
		sync:      newSyncModel(),
		online:    services.Connectivity.IsOnline(),
		onlineCh:  onlineCh,
		syncCh:    syncCh,
		cancels:   []func(){cancelOnline, cancelSync},
	}
	m.sync.state = services.SyncService.State()
	return m
}

// close releases the status subscriptions.
func (m mainLoopModel) close() {
	for _, cancel := range m.cancels {
		cancel()
	}
}

func (m mainLoopModel) Init() tea.Cmd {
	return tea.Batch(
		m.cmdLoadRecords(m.records.current()),
		m.cmdLoadSyncInfo(),
		waitOnline(m.onlineCh),
		waitSyncEvent(m.syncCh),
	)
}

func (m mainLoopModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case recordsLoadedMsg:
		if msg.collection != m.records.current() {
			return m, nil
		}
		m.records.loading = false
		if msg.err != nil {
			return m.withError(fmt.Sprintf("Could not load %s: %v", msg.collection.Title(), msg.err)), nil
		}
		m.records.rows = msg.rows
		m.records.move(0)
		return m, nil

	case recordDeletedMsg:
		if msg.err != nil {
			return m.withError("Delete failed: " + msg.err.Error()), nil
		}
		m.records.loading = true
		return m.withStatus("Record deleted"), tea.Batch(m.cmdLoadRecords(m.records.current()), m.cmdLoadSyncInfo(), clearStatus())

	case copiedMsg:
		if msg.err != nil {
			return m.withError("Clipboard is unavailable: " + msg.err.Error()), nil
		}
		return m.withStatus("Copied id " + msg.id), clearStatus()

	case syncDoneMsg:
		m.sync.state = m.services.SyncService.State()
		if msg.err != nil {
			m.sync.lastErr = msg.err
			if errors.Is(msg.err, service.ErrSyncInProgress) {
				return m.withStatus("Sync is already running"), clearStatus()
			}
			return m.withError(syncErrorMessage(msg.err)), nil
		}
		m.sync.result = msg.result
		m.sync.lastErr = nil
		return m.withStatus(valueOrNA(msg.result.Message)), clearStatus()

	case syncEventMsg:
		ev := service.SyncEvent(msg)
		m.sync.state = ev.State
		cmds := []tea.Cmd{waitSyncEvent(m.syncCh)}
		switch ev.State {
		case service.SyncSyncing:
			cmds = append(cmds, m.sync.spinner.Tick)
		case service.SyncSuccess:
			m.sync.result = ev.Result
			m.sync.lastErr = nil
			m.records.loading = true
			cmds = append(cmds, m.cmdLoadRecords(m.records.current()), m.cmdLoadSyncInfo())
			if m.view == viewDashboard {
				m.dashboard.loading = true
				cmds = append(cmds, m.cmdLoadDashboard())
			}
		case service.SyncError:
			m.sync.lastErr = ev.Err
			cmds = append(cmds, m.cmdLoadSyncInfo())
		}
		return m, tea.Batch(cmds...)

	case syncInfoMsg:
		m.sync.loaded = true
		if msg.err != nil {
			return m.withError("Could not read sync state: " + msg.err.Error()), nil
		}
		m.sync.summary = msg.summary
		m.sync.summaryErr = msg.summaryErr
		m.sync.pending = msg.pending
		m.sync.lastSyncAt = msg.lastSyncAt
		return m, nil

	case dashboardLoadedMsg:
		m.dashboard.loading = false
		m.dashboard.err = msg.err
		if msg.err == nil {
			m.dashboard.summary = msg.summary
			m.dashboard.report = msg.report
		}
		return m, nil

	case exportedMsg:
		if msg.err != nil {
			return m.withError("Export failed: " + msg.err.Error()), nil
		}
		return m.withStatus(fmt.Sprintf("Exported %d record(s) to %s", msg.records, msg.path)), clearStatus()

	case onlineMsg:
		m.online = bool(msg)
		cmds := []tea.Cmd{waitOnline(m.onlineCh)}
		if m.view == viewSync {
			cmds = append(cmds, m.cmdLoadSyncInfo())
		}
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		if !m.sync.running() {
			return m, nil
		}
		var cmd tea.Cmd
		m.sync.spinner, cmd = m.sync.spinner.Update(msg)
		return m, cmd

	case clearStatusMsg:
		m.status = ""
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m mainLoopModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch {
	case m.showError:
		if key.Matches(msg, keys.enter, keys.esc) {
			m.showError = false
		}
		return m, nil
	case m.showConfirm:
		switch {
		case key.Matches(msg, keys.yes):
			m.showConfirm = false
			row, ok := m.records.selected()
			if !ok {
				return m, nil
			}
			return m, m.cmdDelete(m.records.current(), row.ID)
		case key.Matches(msg, keys.no, keys.esc):
			m.showConfirm = false
		}
		return m, nil
	case m.showInfo:
		if key.Matches(msg, keys.info, keys.enter, keys.esc) {
			m.showInfo = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.quit):
		return m, tea.Quit
	case key.Matches(msg, keys.logout):
		m.logout = true
		return m, tea.Quit
	case key.Matches(msg, keys.info):
		m.showInfo = true
		return m, nil
	case key.Matches(msg, keys.records):
		m.view = viewRecords
		m.records.loading = true
		return m, m.cmdLoadRecords(m.records.current())
	case key.Matches(msg, keys.syncView):
		m.view = viewSync
		return m, m.cmdLoadSyncInfo()
	case key.Matches(msg, keys.dashboard):
		m.view = viewDashboard
		m.dashboard.loading = true
		return m, m.cmdLoadDashboard()
	case key.Matches(msg, keys.sync):
		if m.sync.running() {
			return m, nil
		}
		m.sync.state = service.SyncSyncing
		return m, tea.Batch(m.cmdSync(), m.sync.spinner.Tick)
	case key.Matches(msg, keys.refresh):
		return m, m.refresh()
	case key.Matches(msg, keys.export):
		return m, m.cmdExport()
	}

	if m.view != viewRecords {
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.tab):
		m.records.shiftCollection(1)
		return m, m.cmdLoadRecords(m.records.current())
	case key.Matches(msg, keys.backtab):
		m.records.shiftCollection(-1)
		return m, m.cmdLoadRecords(m.records.current())
	case key.Matches(msg, keys.up):
		m.records.move(-1)
	case key.Matches(msg, keys.down):
		m.records.move(1)
	case key.Matches(msg, keys.delete):
		row, ok := m.records.selected()
		if !ok {
			return m, nil
		}
		m.confirm = confirmModel{message: strings.TrimSpace(row.Date + " " + row.Summary)}
		m.showConfirm = true
	case key.Matches(msg, keys.copy):
		row, ok := m.records.selected()
		if !ok {
			return m, nil
		}
		return m, cmdCopy(row.ID)
	}
	return m, nil
}

func (m mainLoopModel) refresh() tea.Cmd {
	switch m.view {
	case viewSync:
		return m.cmdLoadSyncInfo()
	case viewDashboard:
		return m.cmdLoadDashboard()
	default:
		return m.cmdLoadRecords(m.records.current())
	}
}

func (m mainLoopModel) withError(msg string) mainLoopModel {
	m.errorOverlay = errorOverlayModel{message: msg}
	m.showError = true
	return m
}

func (m mainLoopModel) withStatus(msg string) mainLoopModel {
	m.status = msg
	return m
}

func (m mainLoopModel) View() string {
	if m.showInfo {
		return appStyle.Render(renderBuildInfoWindow(m.buildInfo))
	}
	if m.showError {
		return appStyle.Render(m.errorOverlay.View())
	}
	if m.showConfirm {
		return appStyle.Render(m.confirm.View())
	}

	var (
		title   string
		body    string
		hotKeys string
	)
	switch m.view {
	case viewSync:
		title = "Synchronization"
		body = m.sync.View(m.online)
		hotKeys = "s: sync now  r: refresh  1: records  3: dashboard  x: export  i: info  l: logout  q: quit"
	case viewDashboard:
		title = "Dashboard"
		body = m.dashboard.View()
		hotKeys = "r: refresh  1: records  2: sync  s: sync now  x: export  i: info  l: logout  q: quit"
	default:
		title = "Records"
		body = m.records.View()
		hotKeys = "tab: next collection  ↑/↓: move  d: delete  c: copy id  s: sync  r: refresh  2: sync  3: dashboard  l: logout  q: quit"
	}

	header := fmt.Sprintf("%s  %s  %s", title, helpStyle.Render(m.user.DisplayName()), onlineBadge(m.online))
	if m.sync.running() {
		header += "  " + m.sync.spinner.View()
	}
	if m.status != "" {
		body += "\n\n" + helpStyle.Render(m.status)
	}
	return appStyle.Render(renderPage(header, body, hotKeys))
}

func (m mainLoopModel) cmdLoadRecords(c models.Collection) tea.Cmd {
	return func() tea.Msg {
		rows, err := loadRows(m.ctx, m.services, c)
		return recordsLoadedMsg{collection: c, rows: rows, err: err}
	}
}

func (m mainLoopModel) cmdDelete(c models.Collection, id string) tea.Cmd {
	return func() tea.Msg {
		return recordDeletedMsg{err: deleteRecord(m.ctx, m.services, c, id)}
	}
}

func (m mainLoopModel) cmdSync() tea.Cmd {
	return func() tea.Msg {
		result, err := m.services.SyncService.Sync(m.ctx)
		return syncDoneMsg{result: result, err: err}
	}
}

func (m mainLoopModel) cmdLoadSyncInfo() tea.Cmd {
	return func() tea.Msg {
		var msg syncInfoMsg
		if msg.pending, msg.err = m.services.SyncService.Pending(m.ctx); msg.err != nil {
			return msg
		}
		if msg.lastSyncAt, msg.err = m.services.SyncService.LastSyncAt(m.ctx); msg.err != nil {
			return msg
		}
		msg.summary, msg.summaryErr = m.services.SyncService.Status(m.ctx)
		return msg
	}
}

func (m mainLoopModel) cmdLoadDashboard() tea.Cmd {
	return func() tea.Msg {
		summary, err := m.services.DashboardService.Summary(m.ctx)
		if err != nil {
			return dashboardLoadedMsg{err: err}
		}
		report, err := m.services.ReportService.Build(m.ctx)
		return dashboardLoadedMsg{summary: summary, report: report, err: err}
	}
}

func (m mainLoopModel) cmdExport() tea.Cmd {
	return func() tea.Msg {
		path := m.services.BackupService.FileName(time.Now())
		f, err := os.Create(path)
		if err != nil {
			return exportedMsg{err: err}
		}
		defer f.Close()

		backup, err := m.services.BackupService.Export(m.ctx, f)
		if err != nil {
			return exportedMsg{err: err}
		}
		return exportedMsg{path: path, records: backup.Len()}
	}
}

func cmdCopy(id string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{id: id, err: clipboard.WriteAll(id)}
	}
}

func waitOnline(ch <-chan bool) tea.Cmd {
	return func() tea.Msg {
		online, ok := <-ch
		if !ok {
			return nil
		}
		return onlineMsg(online)
	}
}

func waitSyncEvent(ch <-chan service.SyncEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return syncEventMsg(ev)
	}
}

func clearStatus() tea.Cmd {
	return tea.Tick(statusTTL, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

func syncErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrConnectivityUnavailable):
		return "Server is unreachable. Changes stay queued until the connection is back."
	case errors.Is(err, service.ErrAuthenticationMissing):
		return "Session expired. Sign in again to synchronize."
	case errors.Is(err, service.ErrNetworkFailure):
		return "Network error during sync. Try again later."
	default:
		return "Sync failed: " + err.Error()
	}
}
