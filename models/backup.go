// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Backup is the JSON document written by the backup export.
type Backup struct {
	ExportedAt   time.Time      `json:"exported_at"`
	Expenses     []*Expense     `json:"expenses"`
	Income       []*Income      `json:"income"`
	Budgets      []*Budget      `json:"budgets"`
	SavingsGoals []*SavingsGoal `json:"savings_goals"`
}

// Len returns the number of records in the backup.
func (b Backup) Len() int {
	return len(b.Expenses) + len(b.Income) + len(b.Budgets) + len(b.SavingsGoals)
}
