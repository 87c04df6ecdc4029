// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Collection names one entity collection. The value doubles as the storage
// key under which the collection blob is persisted on the client.
type Collection string

const (
	CollectionExpenses     Collection = "expenses"
	CollectionIncome       Collection = "income"
	CollectionBudgets      Collection = "budgets"
	CollectionSavingsGoals Collection = "savings_goals"
)

// Collections lists every collection in the order they are refreshed during
// synchronization and written to backups.
var Collections = []Collection{
	CollectionExpenses,
	CollectionIncome,
	CollectionBudgets,
	CollectionSavingsGoals,
}

// Resource returns the REST resource path of the collection on the backend.
func (c Collection) Resource() string {
	switch c {
	case CollectionExpenses:
		return "/expense"
	case CollectionIncome:
		return "/income"
	case CollectionBudgets:
		return "/budgets"
	case CollectionSavingsGoals:
		return "/savings-goals"
	default:
		return ""
	}
}

// Title is a human readable name used by the terminal UI.
func (c Collection) Title() string {
	switch c {
	case CollectionExpenses:
		return "Expenses"
	case CollectionIncome:
		return "Income"
	case CollectionBudgets:
		return "Budgets"
	case CollectionSavingsGoals:
		return "Savings Goals"
	default:
		return string(c)
	}
}

// Valid reports whether c is one of the known collections.
func (c Collection) Valid() bool {
	return c.Resource() != ""
}

func (c Collection) String() string {
	return string(c)
}
