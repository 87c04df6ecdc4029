package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MKhiriev/go-finance-keeper/internal/store"
	"github.com/MKhiriev/go-finance-keeper/models"
)

var sampleCreatedAt = time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)

func sampleEntity(id string) models.Entity {
	return models.Entity{
		ID:        models.LocalIDPrefix + "sample-" + id,
		CreatedAt: sampleCreatedAt,
		UpdatedAt: sampleCreatedAt,
	}
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func threshold(v int) *int {
	return &v
}

// SampleExpenses returns the bundled demo expenses.
func SampleExpenses() []*models.Expense {
	return []*models.Expense{
		{Entity: sampleEntity("e1"), Date: "2025-09-28", Category: "Groceries", Amount: money("75.50"), PaymentMethod: "Credit Card", Notes: "Weekly shopping"},
		{Entity: sampleEntity("e2"), Date: "2025-09-27", Category: "Utilities", Amount: money("150.00"), PaymentMethod: "Bank Transfer", Notes: "Electricity bill"},
		{Entity: sampleEntity("e3"), Date: "2025-09-26", Category: "Transport", Amount: money("30.00"), PaymentMethod: "Debit Card", Notes: "Metro pass"},
		{Entity: sampleEntity("e4"), Date: "2025-09-25", Category: "Entertainment", Amount: money("50.00"), PaymentMethod: "Credit Card", Notes: "Movie night"},
		{Entity: sampleEntity("e5"), Date: "2025-09-24", Category: "Groceries", Amount: money("45.20"), PaymentMethod: "Debit Card", Notes: "Milk and bread"},
		{Entity: sampleEntity("e6"), Date: "2025-09-23", Category: "Dining Out", Amount: money("65.00"), PaymentMethod: "Credit Card", Notes: "Dinner with friends"},
		{Entity: sampleEntity("e7"), Date: "2025-09-22", Category: "Health", Amount: money("25.00"), PaymentMethod: "Cash", Notes: "Pharmacy"},
	}
}

// SampleIncome returns the bundled demo income.
func SampleIncome() []*models.Income {
	return []*models.Income{
		{Entity: sampleEntity("i1"), Date: "2025-09-30", Source: "Software Engineer Salary", Amount: money("5000"), Type: models.IncomeSalary, Notes: "Monthly salary payment"},
		{Entity: sampleEntity("i2"), Date: "2025-09-15", Source: "Freelance Web Development", Amount: money("800"), Type: models.IncomeFreelance, Notes: "Client project payment"},
		{Entity: sampleEntity("i3"), Date: "2025-09-10", Source: "Stock Dividends", Amount: money("150"), Type: models.IncomeInvestment, Notes: "Quarterly dividend payment"},
		{Entity: sampleEntity("i4"), Date: "2025-09-01", Source: "Software Engineer Salary", Amount: money("5000"), Type: models.IncomeSalary, Notes: "Monthly salary payment"},
		{Entity: sampleEntity("i5"), Date: "2025-08-30", Source: "Software Engineer Salary", Amount: money("5000"), Type: models.IncomeSalary, Notes: "Monthly salary payment"},
	}
}

// SampleBudgets returns the bundled demo budgets.
func SampleBudgets() []*models.Budget {
	return []*models.Budget{
		{Entity: sampleEntity("b1"), Name: "Monthly Groceries", Category: "Groceries", Amount: money("400"), Spent: money("120.70"), Duration: "Monthly", Threshold: threshold(80)},
		{Entity: sampleEntity("b2"), Name: "Entertainment Fund", Category: "Entertainment", Amount: money("150"), Spent: money("50"), Duration: "Monthly", Threshold: threshold(75)},
		{Entity: sampleEntity("b3"), Name: "Transport Budget", Category: "Transport", Amount: money("100"), Spent: money("30"), Duration: "Monthly", Threshold: threshold(90)},
		{Entity: sampleEntity("b4"), Name: "Savings Goal", Category: "Savings", Amount: money("500"), Spent: money("200"), Duration: "Monthly", Threshold: threshold(80)},
	}
}

// SampleSavingsGoals returns the bundled demo savings goals.
func SampleSavingsGoals() []*models.SavingsGoal {
	return []*models.SavingsGoal{
		{Entity: sampleEntity("g1"), Name: "New Laptop", TargetAmount: money("1500"), CurrentContribution: money("750"), Deadline: "2026-06-30", Priority: models.PriorityHigh},
		{Entity: sampleEntity("g2"), Name: "Vacation Fund", TargetAmount: money("2000"), CurrentContribution: money("1500"), Deadline: "2026-12-31", Priority: models.PriorityMedium},
	}
}

// SeedSampleData fills never-persisted collections with the demo records.
// Collections that exist, even empty, are left alone. Seeded records stay
// local: they are not queued for synchronization.
func SeedSampleData(ctx context.Context, storages *store.ClientStorages) (int, error) {
	seeded := 0
	count := func(ok bool, n int, err error) error {
		if ok {
			seeded += n
		}
		return err
	}

	ok, err := storages.Expenses.SeedIfEmpty(ctx, SampleExpenses())
	if err = count(ok, len(SampleExpenses()), err); err != nil {
		return seeded, fmt.Errorf("seed sample data: %w", err)
	}
	ok, err = storages.Income.SeedIfEmpty(ctx, SampleIncome())
	if err = count(ok, len(SampleIncome()), err); err != nil {
		return seeded, fmt.Errorf("seed sample data: %w", err)
	}
	ok, err = storages.Budgets.SeedIfEmpty(ctx, SampleBudgets())
	if err = count(ok, len(SampleBudgets()), err); err != nil {
		return seeded, fmt.Errorf("seed sample data: %w", err)
	}
	ok, err = storages.SavingsGoals.SeedIfEmpty(ctx, SampleSavingsGoals())
	if err = count(ok, len(SampleSavingsGoals()), err); err != nil {
		return seeded, fmt.Errorf("seed sample data: %w", err)
	}
	return seeded, nil
}
