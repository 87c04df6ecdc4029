// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package aggregate computes the report series and the dashboard summary
// from record collections. The functions are pure: the client uses them on
// its local store and the development server on its in-memory data.
package aggregate

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MKhiriev/go-finance-keeper/models"
)

// DefaultCategory groups budgets without a category.
const DefaultCategory = "Other"

var hundred = decimal.NewFromInt(100)

// CategoryTotals sums expense amounts per category, in order of first
// appearance.
func CategoryTotals(expenses []*models.Expense) []models.CategoryTotal {
	totals := make([]models.CategoryTotal, 0)
	index := make(map[string]int)

	for _, e := range expenses {
		if e == nil {
			continue
		}
		i, ok := index[e.Category]
		if !ok {
			i = len(totals)
			index[e.Category] = i
			totals = append(totals, models.CategoryTotal{Name: e.Category, Value: decimal.Zero})
		}
		totals[i].Value = totals[i].Value.Add(e.Amount)
	}
	return totals
}

// BudgetAdherence sums budgeted and spent amounts per budget category, in
// order of first appearance.
func BudgetAdherence(budgets []*models.Budget) []models.BudgetAdherence {
	series := make([]models.BudgetAdherence, 0)
	index := make(map[string]int)

	for _, b := range budgets {
		if b == nil {
			continue
		}
		category := b.Category
		if category == "" {
			category = DefaultCategory
		}

		i, ok := index[category]
		if !ok {
			i = len(series)
			index[category] = i
			series = append(series, models.BudgetAdherence{Name: category, Budgeted: decimal.Zero, Spent: decimal.Zero})
		}
		series[i].Budgeted = series[i].Budgeted.Add(b.Amount)
		series[i].Spent = series[i].Spent.Add(b.Spent)
	}
	return series
}

// MonthlySavings computes income minus expenses per calendar month, sorted
// by month. Records with an unparsable date are skipped.
func MonthlySavings(income []*models.Income, expenses []*models.Expense) []models.SavingsPoint {
	months := make(map[string]decimal.Decimal)

	add := func(date string, amount decimal.Decimal) {
		day, err := time.Parse(models.DateLayout, date)
		if err != nil {
			return
		}
		key := day.Format("2006-01")
		months[key] = months[key].Add(amount)
	}

	for _, i := range income {
		if i != nil {
			add(i.Date, i.Amount)
		}
	}
	for _, e := range expenses {
		if e != nil {
			add(e.Date, e.Amount.Neg())
		}
	}

	keys := make([]string, 0, len(months))
	for key := range months {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	series := make([]models.SavingsPoint, 0, len(keys))
	for _, key := range keys {
		month, _ := time.Parse("2006-01", key)
		series = append(series, models.SavingsPoint{
			Name:    month.Format("Jan"),
			Month:   key,
			Savings: months[key],
		})
	}
	return series
}

// GoalsProgress computes the completion percentage of every goal with a
// positive target. Progress is rounded to a whole percent, the label keeps
// one decimal.
func GoalsProgress(goals []*models.SavingsGoal) []models.GoalProgress {
	series := make([]models.GoalProgress, 0, len(goals))

	for _, g := range goals {
		if g == nil || !g.TargetAmount.IsPositive() {
			continue
		}
		progress := g.CurrentContribution.Div(g.TargetAmount).Mul(hundred)
		series = append(series, models.GoalProgress{
			Name:          g.Name,
			Progress:      progress.Round(0).IntPart(),
			ProgressLabel: progress.StringFixed(1) + "%",
			Current:       g.CurrentContribution,
			Target:        g.TargetAmount,
		})
	}
	return series
}

// Report computes every series of the reports screen.
func Report(expenses []*models.Expense, income []*models.Income, budgets []*models.Budget, goals []*models.SavingsGoal) models.Report {
	return models.Report{
		Categories:    CategoryTotals(expenses),
		Budgets:       BudgetAdherence(budgets),
		SavingsTrend:  MonthlySavings(income, expenses),
		GoalsProgress: GoalsProgress(goals),
	}
}

// Dashboard summarizes the collections and grades the financial health.
func Dashboard(expenses []*models.Expense, income []*models.Income, budgets []*models.Budget, goals []*models.SavingsGoal) models.DashboardSummary {
	s := models.DashboardSummary{
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
		TotalBudget:   decimal.Zero,
		TotalSavings:  decimal.Zero,
		SavingsRate:   decimal.Zero,
		BudgetUsage:   decimal.Zero,
		ExpenseRatio:  decimal.Zero,
	}

	for _, i := range income {
		if i != nil {
			s.TotalIncome = s.TotalIncome.Add(i.Amount)
		}
	}
	for _, e := range expenses {
		if e != nil {
			s.TotalExpenses = s.TotalExpenses.Add(e.Amount)
		}
	}
	for _, b := range budgets {
		if b != nil {
			s.TotalBudget = s.TotalBudget.Add(b.Amount)
		}
	}
	for _, g := range goals {
		if g != nil {
			s.TotalSavings = s.TotalSavings.Add(g.CurrentContribution)
		}
	}

	s.NetIncome = s.TotalIncome.Sub(s.TotalExpenses)
	s.SavingsRate = percent(s.TotalSavings, s.TotalIncome)
	s.BudgetUsage = percent(s.TotalExpenses, s.TotalBudget)
	s.ExpenseRatio = percent(s.TotalExpenses, s.TotalIncome)
	s.Categories = CategoryTotals(expenses)
	s.Health = Health(s.SavingsRate, s.ExpenseRatio, s.NetIncome)

	s.SavingsRate = s.SavingsRate.Round(2)
	s.BudgetUsage = s.BudgetUsage.Round(2)
	s.ExpenseRatio = s.ExpenseRatio.Round(2)
	return s
}

// Health grades savings rate and expense ratio (both in percent) and the
// net income.
func Health(savingsRate, expenseRatio, netIncome decimal.Decimal) models.FinancialHealth {
	positive := netIncome.IsPositive()

	switch {
	case savingsRate.GreaterThanOrEqual(decimal.NewFromInt(20)) && expenseRatio.LessThanOrEqual(decimal.NewFromInt(70)) && positive:
		return models.HealthExcellent
	case savingsRate.GreaterThanOrEqual(decimal.NewFromInt(15)) && expenseRatio.LessThanOrEqual(decimal.NewFromInt(80)) && positive:
		return models.HealthGood
	case savingsRate.GreaterThanOrEqual(decimal.NewFromInt(10)) && expenseRatio.LessThanOrEqual(decimal.NewFromInt(90)):
		return models.HealthFair
	default:
		return models.HealthNeedsAttention
	}
}

func percent(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}
