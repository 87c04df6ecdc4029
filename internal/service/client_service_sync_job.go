package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-finance-keeper/internal/config"
	"github.com/MKhiriev/go-finance-keeper/internal/logger"
	"github.com/MKhiriev/go-finance-keeper/models"
)

// Syncer is the part of [SyncService] the background job needs.
type Syncer interface {
	Sync(ctx context.Context) (models.SyncResult, error)
}

// ClientSyncJob periodically calls Sync.
type ClientSyncJob interface {
	// Start launches the background goroutine. Any previously running job
	// is stopped first.
	Start(ctx context.Context, interval time.Duration)

	// Stop cancels the goroutine and waits until it has exited.
	Stop()

	// Run starts the job with the configured interval, blocks until ctx is
	// done and stops it.
	Run(ctx context.Context) error
}

type clientSyncJob struct {
	syncer   Syncer
	interval time.Duration
	logger   *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewClientSyncJob creates a job that calls syncer.Sync on a ticker. The job
// is idle until Start or Run is called.
func NewClientSyncJob(syncer Syncer, workersCfg config.Workers, logger *logger.Logger) ClientSyncJob {
	return &clientSyncJob{
		syncer:   syncer,
		interval: workersCfg.SyncInterval,
		logger:   logger,
	}
}

// Start implements ClientSyncJob. If interval is zero or negative it
// defaults to [config.DefaultSyncInterval].
func (j *clientSyncJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = config.DefaultSyncInterval
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				autoSync(j.syncer, j.logger)(jobCtx)
			}
		}
	}()
}

// Stop implements ClientSyncJob. Safe to call when the job is not running.
func (j *clientSyncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}

func (j *clientSyncJob) Run(ctx context.Context) error {
	j.Start(ctx, j.interval)
	<-ctx.Done()
	j.Stop()
	return nil
}
