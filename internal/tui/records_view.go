// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-finance-keeper/internal/service"
	"github.com/MKhiriev/go-finance-keeper/models"
)

// recordRow is the collection-independent line shown for one record.
type recordRow struct {
	ID      string
	Date    string
	Summary string
	Amount  string
	Synced  bool
}

func loadRows(ctx context.Context, services *service.ClientServices, c models.Collection) ([]recordRow, error) {
	switch c {
	case models.CollectionExpenses:
		return rowsOf(ctx, services.Expenses, func(e *models.Expense) recordRow {
			return recordRow{Date: e.Date, Summary: e.Category, Amount: money(e.Amount)}
		})
	case models.CollectionIncome:
		return rowsOf(ctx, services.Income, func(i *models.Income) recordRow {
			return recordRow{Date: i.Date, Summary: fmt.Sprintf("%s (%s)", i.Source, i.Type), Amount: money(i.Amount)}
		})
	case models.CollectionBudgets:
		return rowsOf(ctx, services.Budgets, func(b *models.Budget) recordRow {
			return recordRow{Date: b.Duration, Summary: b.Name + " / " + b.Category, Amount: money(b.Spent) + " of " + money(b.Amount)}
		})
	case models.CollectionSavingsGoals:
		return rowsOf(ctx, services.SavingsGoals, func(g *models.SavingsGoal) recordRow {
			return recordRow{Date: g.Deadline, Summary: fmt.Sprintf("%s [%s]", g.Name, g.Priority), Amount: money(g.CurrentContribution) + " of " + money(g.TargetAmount)}
		})
	default:
		return nil, fmt.Errorf("unknown collection %q", c)
	}
}

func rowsOf[T models.Record](ctx context.Context, svc service.RecordService[T], render func(T) recordRow) ([]recordRow, error) {
	records, err := svc.List(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]recordRow, 0, len(records))
	for _, rec := range records {
		row := render(rec)
		row.ID = rec.RecordID()
		row.Synced = rec.IsSynced()
		rows = append(rows, row)
	}
	return rows, nil
}

func deleteRecord(ctx context.Context, services *service.ClientServices, c models.Collection, id string) error {
	switch c {
	case models.CollectionExpenses:
		return services.Expenses.Delete(ctx, id)
	case models.CollectionIncome:
		return services.Income.Delete(ctx, id)
	case models.CollectionBudgets:
		return services.Budgets.Delete(ctx, id)
	case models.CollectionSavingsGoals:
		return services.SavingsGoals.Delete(ctx, id)
	default:
		return fmt.Errorf("unknown collection %q", c)
	}
}

type recordsModel struct {
	collection int
	rows       []recordRow
	idx        int
	loading    bool
}

func (m recordsModel) current() models.Collection {
	return models.Collections[m.collection]
}

func (m recordsModel) selected() (recordRow, bool) {
	if m.idx < 0 || m.idx >= len(m.rows) {
		return recordRow{}, false
	}
	return m.rows[m.idx], true
}

func (m *recordsModel) shiftCollection(delta int) {
	n := len(models.Collections)
	m.collection = (m.collection + delta + n) % n
	m.rows = nil
	m.idx = 0
	m.loading = true
}

func (m *recordsModel) move(delta int) {
	m.idx += delta
	if m.idx >= len(m.rows) {
		m.idx = len(m.rows) - 1
	}
	if m.idx < 0 {
		m.idx = 0
	}
}

func (m recordsModel) View() string {
	var b strings.Builder

	tabs := make([]string, 0, len(models.Collections))
	for i, c := range models.Collections {
		if i == m.collection {
			tabs = append(tabs, activeTabStyle.Render(c.Title()))
			continue
		}
		tabs = append(tabs, tabStyle.Render(c.Title()))
	}
	b.WriteString(strings.Join(tabs, "│"))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString("Loading...\n")
	case len(m.rows) == 0:
		b.WriteString("No records\n")
	default:
		for i, row := range m.rows {
			mark := "✓"
			if !row.Synced {
				mark = "•"
			}
			line := fmt.Sprintf("%s %-10s %-32s %22s", mark, fitText(row.Date, 10), fitText(row.Summary, 32), row.Amount)
			if i == m.idx {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString(helpStyle.Render("\n✓ synced  • pending"))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}
