package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-finance-keeper/internal/aggregate"
	"github.com/MKhiriev/go-finance-keeper/internal/store"
	"github.com/MKhiriev/go-finance-keeper/models"
)

type clientDashboardService struct {
	storages *store.ClientStorages
}

func NewClientDashboardService(storages *store.ClientStorages) DashboardService {
	return &clientDashboardService{storages: storages}
}

func (s *clientDashboardService) Summary(ctx context.Context) (models.DashboardSummary, error) {
	expenses, err := s.storages.Expenses.Load(ctx)
	if err != nil {
		return models.DashboardSummary{}, fmt.Errorf("dashboard: %w", err)
	}
	income, err := s.storages.Income.Load(ctx)
	if err != nil {
		return models.DashboardSummary{}, fmt.Errorf("dashboard: %w", err)
	}
	budgets, err := s.storages.Budgets.Load(ctx)
	if err != nil {
		return models.DashboardSummary{}, fmt.Errorf("dashboard: %w", err)
	}
	goals, err := s.storages.SavingsGoals.Load(ctx)
	if err != nil {
		return models.DashboardSummary{}, fmt.Errorf("dashboard: %w", err)
	}

	return aggregate.Dashboard(expenses, income, budgets, goals), nil
}
