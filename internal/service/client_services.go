package service

import (
	"github.com/MKhiriev/go-finance-keeper/internal/adapter"
	"github.com/MKhiriev/go-finance-keeper/internal/config"
	"github.com/MKhiriev/go-finance-keeper/internal/logger"
	"github.com/MKhiriev/go-finance-keeper/internal/store"
	"github.com/MKhiriev/go-finance-keeper/internal/validators"
	"github.com/MKhiriev/go-finance-keeper/models"
)

type ClientServices struct {
	AuthService      AuthService
	Connectivity     ConnectivityObserver
	SyncService      SyncService
	SyncJob          ClientSyncJob
	Expenses         RecordService[*models.Expense]
	Income           RecordService[*models.Income]
	Budgets          RecordService[*models.Budget]
	SavingsGoals     RecordService[*models.SavingsGoal]
	ReportService    ReportService
	DashboardService DashboardService
	BackupService    BackupService
}

func NewClientServices(storages *store.ClientStorages, serverAdapter adapter.ServerAdapter, workersCfg config.Workers, logger *logger.Logger) *ClientServices {
	validator := validators.NewRecordValidator()

	authSvc := NewClientAuthService(storages.Storage, serverAdapter, validator, logger)
	observer := NewConnectivityObserver(serverAdapter, workersCfg, logger)
	syncSvc := NewClientSyncService(storages, serverAdapter, authSvc, observer, workersCfg, logger)

	if workersCfg.AutoSync {
		observer.OnOnline(autoSync(syncSvc, logger))
	}

	return &ClientServices{
		AuthService:      authSvc,
		Connectivity:     observer,
		SyncService:      syncSvc,
		SyncJob:          NewClientSyncJob(syncSvc, workersCfg, logger),
		Expenses:         NewClientRecordService(storages.Expenses, storages.Queue, serverAdapter, authSvc, observer, validator, logger),
		Income:           NewClientRecordService(storages.Income, storages.Queue, serverAdapter, authSvc, observer, validator, logger),
		Budgets:          NewClientRecordService(storages.Budgets, storages.Queue, serverAdapter, authSvc, observer, validator, logger),
		SavingsGoals:     NewClientRecordService(storages.SavingsGoals, storages.Queue, serverAdapter, authSvc, observer, validator, logger),
		ReportService:    NewClientReportService(storages, serverAdapter, authSvc, observer, logger),
		DashboardService: NewClientDashboardService(storages),
		BackupService:    NewClientBackupService(storages, validator, logger),
	}
}
