package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/go-finance-keeper/internal/adapter"
	"github.com/MKhiriev/go-finance-keeper/internal/aggregate"
	"github.com/MKhiriev/go-finance-keeper/internal/logger"
	"github.com/MKhiriev/go-finance-keeper/internal/store"
	"github.com/MKhiriev/go-finance-keeper/models"
)

// clientReportService prefers the server aggregations and falls back to
// the local store when the server is unreachable or has no usable data.
// Sample data is never substituted.
type clientReportService struct {
	storages *store.ClientStorages
	adapter  adapter.ServerAdapter
	tokens   TokenSource
	online   OnlineChecker
	logger   *logger.Logger
}

func NewClientReportService(storages *store.ClientStorages, serverAdapter adapter.ServerAdapter, tokens TokenSource, online OnlineChecker, logger *logger.Logger) ReportService {
	return &clientReportService{
		storages: storages,
		adapter:  serverAdapter,
		tokens:   tokens,
		online:   online,
		logger:   logger,
	}
}

// Build returns the report and where it came from. When neither source
// works the report is empty, its source is [models.ReportSourceNone] and
// the error explains why.
func (s *clientReportService) Build(ctx context.Context) (models.Report, error) {
	if s.online.IsOnline() {
		report, err := s.remote(ctx)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Str("func", "clientReportService.Build").Msg("remote report failed, using local data")
		case !report.Empty():
			report.Source = models.ReportSourceRemote
			return report, nil
		}
	}

	report, err := s.local(ctx)
	if err != nil {
		return models.Report{Source: models.ReportSourceNone}, fmt.Errorf("build report: %w", err)
	}
	report.Source = models.ReportSourceLocal
	return report, nil
}

func (s *clientReportService) remote(ctx context.Context) (models.Report, error) {
	token, err := s.tokens.Token(ctx)
	if err != nil {
		return models.Report{}, err
	}
	s.adapter.SetToken(token)

	var report models.Report
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		series, err := s.adapter.ExpensesByCategory(gctx)
		report.Categories = validCategories(series)
		return err
	})
	g.Go(func() error {
		series, err := s.adapter.BudgetAdherence(gctx)
		report.Budgets = validBudgets(series)
		return err
	})
	g.Go(func() error {
		series, err := s.adapter.SavingsTrends(gctx)
		report.SavingsTrend = validSavings(series)
		return err
	})
	g.Go(func() error {
		series, err := s.adapter.SavingsGoalsProgress(gctx)
		report.GoalsProgress = validGoals(series)
		return err
	})

	if err = g.Wait(); err != nil {
		return models.Report{}, mapAdapterError(err)
	}
	return report, nil
}

func (s *clientReportService) local(ctx context.Context) (models.Report, error) {
	expenses, err := s.storages.Expenses.Load(ctx)
	if err != nil {
		return models.Report{}, err
	}
	income, err := s.storages.Income.Load(ctx)
	if err != nil {
		return models.Report{}, err
	}
	budgets, err := s.storages.Budgets.Load(ctx)
	if err != nil {
		return models.Report{}, err
	}
	goals, err := s.storages.SavingsGoals.Load(ctx)
	if err != nil {
		return models.Report{}, err
	}

	return aggregate.Report(expenses, income, budgets, goals), nil
}

func validCategories(series []models.CategoryTotal) []models.CategoryTotal {
	valid := make([]models.CategoryTotal, 0, len(series))
	for _, item := range series {
		if item.Name != "" && item.Value.IsPositive() {
			valid = append(valid, item)
		}
	}
	return valid
}

func validBudgets(series []models.BudgetAdherence) []models.BudgetAdherence {
	valid := make([]models.BudgetAdherence, 0, len(series))
	for _, item := range series {
		if item.Name != "" && (item.Budgeted.IsPositive() || item.Spent.IsPositive()) {
			valid = append(valid, item)
		}
	}
	return valid
}

func validSavings(series []models.SavingsPoint) []models.SavingsPoint {
	valid := make([]models.SavingsPoint, 0, len(series))
	for _, item := range series {
		if item.Name != "" {
			valid = append(valid, item)
		}
	}
	return valid
}

func validGoals(series []models.GoalProgress) []models.GoalProgress {
	valid := make([]models.GoalProgress, 0, len(series))
	for _, item := range series {
		if item.Name != "" && item.Target.IsPositive() {
			valid = append(valid, item)
		}
	}
	return valid
}
