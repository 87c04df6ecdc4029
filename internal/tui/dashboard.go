// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"fmt"
	"strings"

	"github.com/MKhiriev/go-finance-keeper/models"
)

type dashboardModel struct {
	summary models.DashboardSummary
	report  models.Report
	loading bool
	err     error
}

func (m dashboardModel) View() string {
	switch {
	case m.loading:
		return "Loading..."
	case m.err != nil:
		return errorStyle.Render("Dashboard unavailable: " + m.err.Error())
	}

	s := m.summary
	var b strings.Builder
	fmt.Fprintf(&b, "Income         %12s\n", money(s.TotalIncome))
	fmt.Fprintf(&b, "Expenses       %12s\n", money(s.TotalExpenses))
	fmt.Fprintf(&b, "Net income     %12s\n", money(s.NetIncome))
	fmt.Fprintf(&b, "Budgeted       %12s  (%s%% used)\n", money(s.TotalBudget), s.BudgetUsage.StringFixed(1))
	fmt.Fprintf(&b, "Saved          %12s  (%s%% of income)\n", money(s.TotalSavings), s.SavingsRate.StringFixed(1))
	fmt.Fprintf(&b, "Expense ratio  %11s%%\n", s.ExpenseRatio.StringFixed(1))
	fmt.Fprintf(&b, "Health         %s\n", titleStyle.Render(string(s.Health)))

	if len(m.report.Categories) > 0 {
		b.WriteString("\nExpenses by category\n")
		for _, c := range m.report.Categories {
			fmt.Fprintf(&b, "  %-20s %12s\n", fitText(c.Name, 20), money(c.Value))
		}
	}

	if len(m.report.Budgets) > 0 {
		b.WriteString("\nBudget adherence\n")
		for _, a := range m.report.Budgets {
			fmt.Fprintf(&b, "  %-20s %12s of %s\n", fitText(a.Name, 20), money(a.Spent), money(a.Budgeted))
		}
	}

	if len(m.report.SavingsTrend) > 0 {
		b.WriteString("\nSavings trend\n")
		for _, p := range m.report.SavingsTrend {
			fmt.Fprintf(&b, "  %-20s %12s\n", fitText(p.Name, 20), money(p.Savings))
		}
	}

	if len(m.report.GoalsProgress) > 0 {
		b.WriteString("\nSavings goals\n")
		for _, g := range m.report.GoalsProgress {
			fmt.Fprintf(&b, "  %-20s %s\n", fitText(g.Name, 20), valueOrNA(g.ProgressLabel))
		}
	}

	fmt.Fprintf(&b, "\n%s", helpStyle.Render("report source: "+string(m.report.Source)))
	return b.String()
}
