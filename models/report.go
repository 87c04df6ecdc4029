// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "github.com/shopspring/decimal"

// ReportSource tells where the series of a [Report] came from.
type ReportSource string

const (
	ReportSourceRemote ReportSource = "remote"
	ReportSourceLocal  ReportSource = "local"
	ReportSourceNone   ReportSource = "none"
)

// CategoryTotal is one slice of the expenses-by-category chart.
type CategoryTotal struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

// BudgetAdherence compares the budgeted and spent amounts of a category.
type BudgetAdherence struct {
	Name     string          `json:"name"`
	Budgeted decimal.Decimal `json:"budgeted"`
	Spent    decimal.Decimal `json:"spent"`
}

// SavingsPoint is one month of the savings trend (income minus expenses).
type SavingsPoint struct {
	Name    string          `json:"name"`
	Month   string          `json:"month,omitempty"`
	Savings decimal.Decimal `json:"savings"`
}

// GoalProgress is the completion of one savings goal.
type GoalProgress struct {
	Name          string          `json:"name"`
	Progress      int64           `json:"progress"`
	ProgressLabel string          `json:"progress_label"`
	Current       decimal.Decimal `json:"current"`
	Target        decimal.Decimal `json:"target"`
}

// Report bundles the chart-ready series shown on the reports screen.
type Report struct {
	Categories    []CategoryTotal   `json:"categories"`
	Budgets       []BudgetAdherence `json:"budgets"`
	SavingsTrend  []SavingsPoint    `json:"savings_trend"`
	GoalsProgress []GoalProgress    `json:"goals_progress"`
	Source        ReportSource      `json:"source"`
}

// Empty reports whether no series carries data.
func (r Report) Empty() bool {
	return len(r.Categories) == 0 && len(r.Budgets) == 0 &&
		len(r.SavingsTrend) == 0 && len(r.GoalsProgress) == 0
}

// FinancialHealth grades the overall financial situation.
type FinancialHealth string

const (
	HealthExcellent      FinancialHealth = "Excellent"
	HealthGood           FinancialHealth = "Good"
	HealthFair           FinancialHealth = "Fair"
	HealthNeedsAttention FinancialHealth = "Needs Attention"
)

// DashboardSummary aggregates the local collections for the dashboard.
type DashboardSummary struct {
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	TotalBudget   decimal.Decimal `json:"total_budget"`
	TotalSavings  decimal.Decimal `json:"total_savings"`
	NetIncome     decimal.Decimal `json:"net_income"`

	// Percentages, zero when the denominator is zero.
	SavingsRate  decimal.Decimal `json:"savings_rate"`
	BudgetUsage  decimal.Decimal `json:"budget_usage"`
	ExpenseRatio decimal.Decimal `json:"expense_ratio"`

	Categories []CategoryTotal `json:"categories"`
	Health     FinancialHealth `json:"health"`
}
