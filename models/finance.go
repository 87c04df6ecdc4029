// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "github.com/shopspring/decimal"

// DateLayout is the calendar date format used by every record date field.
const DateLayout = "2006-01-02"

// IncomeType classifies an income record.
type IncomeType string

const (
	IncomeSalary     IncomeType = "Salary"
	IncomeFreelance  IncomeType = "Freelance"
	IncomeInvestment IncomeType = "Investment"
	IncomeBusiness   IncomeType = "Business"
	IncomeOther      IncomeType = "Other"
)

// GoalPriority ranks savings goals.
type GoalPriority string

const (
	PriorityHigh   GoalPriority = "High"
	PriorityMedium GoalPriority = "Medium"
	PriorityLow    GoalPriority = "Low"
)

// Expense is a single spending transaction.
type Expense struct {
	Entity

	Date          string          `json:"date" validate:"required,datetime=2006-01-02"`
	Category      string          `json:"category" validate:"required,max=64"`
	Amount        decimal.Decimal `json:"amount" validate:"gt=0"`
	PaymentMethod string          `json:"payment_method,omitempty" validate:"max=64"`
	Notes         string          `json:"notes,omitempty" validate:"max=512"`
}

func (*Expense) Collection() Collection {
	return CollectionExpenses
}

// Income is a single earning transaction.
type Income struct {
	Entity

	Date   string          `json:"date" validate:"required,datetime=2006-01-02"`
	Source string          `json:"source" validate:"required,max=128"`
	Amount decimal.Decimal `json:"amount" validate:"gt=0"`
	Type   IncomeType      `json:"type" validate:"required,oneof=Salary Freelance Investment Business Other"`
	Notes  string          `json:"notes,omitempty" validate:"max=512"`
}

func (*Income) Collection() Collection {
	return CollectionIncome
}

// Budget caps spending for a category over a duration.
type Budget struct {
	Entity

	Name     string          `json:"name" validate:"required,max=128"`
	Category string          `json:"category" validate:"required,max=64"`
	Amount   decimal.Decimal `json:"amount" validate:"gt=0"`
	Spent    decimal.Decimal `json:"spent" validate:"gte=0"`
	Duration string          `json:"duration,omitempty" validate:"omitempty,oneof=Weekly Monthly Yearly"`

	// Threshold is the optional percentage of Amount at which an alert is due.
	Threshold *int `json:"threshold,omitempty" validate:"omitempty,min=1,max=100"`
}

func (*Budget) Collection() Collection {
	return CollectionBudgets
}

// SavingsGoal tracks contributions towards a target amount.
type SavingsGoal struct {
	Entity

	Name                string          `json:"name" validate:"required,max=128"`
	TargetAmount        decimal.Decimal `json:"target_amount" validate:"gt=0"`
	CurrentContribution decimal.Decimal `json:"current_contribution" validate:"gte=0"`
	Deadline            string          `json:"deadline,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Priority            GoalPriority    `json:"priority" validate:"required,oneof=High Medium Low"`
}

func (*SavingsGoal) Collection() Collection {
	return CollectionSavingsGoals
}
