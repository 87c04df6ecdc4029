package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/go-finance-keeper/internal/adapter"
	"github.com/MKhiriev/go-finance-keeper/internal/config"
	"github.com/MKhiriev/go-finance-keeper/internal/logger"
	"github.com/MKhiriev/go-finance-keeper/internal/reconcile"
	"github.com/MKhiriev/go-finance-keeper/internal/store"
	"github.com/MKhiriev/go-finance-keeper/models"
)

type clientSyncService struct {
	storages    *store.ClientStorages
	collections []collectionSync
	adapter     adapter.ServerAdapter
	tokens      TokenSource
	online      OnlineChecker
	timeout     time.Duration
	now         func() time.Time
	logger      *logger.Logger

	inFlight atomic.Bool

	mu         sync.RWMutex
	state      SyncState
	lastResult models.SyncResult
	lastErr    error

	events *broadcaster[SyncEvent]
}

// NewClientSyncService creates the sync trigger. A single POST /sync/all is
// bounded by workersCfg.SyncTimeout.
func NewClientSyncService(
	storages *store.ClientStorages,
	serverAdapter adapter.ServerAdapter,
	tokens TokenSource,
	online OnlineChecker,
	workersCfg config.Workers,
	logger *logger.Logger,
) SyncService {
	timeout := workersCfg.SyncTimeout
	if timeout <= 0 {
		timeout = config.DefaultSyncTimeout
	}

	return &clientSyncService{
		storages:    storages,
		collections: collectionSyncs(storages),
		adapter:     serverAdapter,
		tokens:      tokens,
		online:      online,
		timeout:     timeout,
		now:         time.Now,
		logger:      logger,
		state:       SyncIdle,
		events:      newBroadcaster[SyncEvent](),
	}
}

func (s *clientSyncService) Sync(ctx context.Context) (models.SyncResult, error) {
	if !s.online.IsOnline() {
		return models.SyncResult{}, ErrConnectivityUnavailable
	}

	token, err := s.tokens.Token(ctx)
	if err != nil {
		return models.SyncResult{}, err
	}

	if !s.inFlight.CompareAndSwap(false, true) {
		return models.SyncResult{}, ErrSyncInProgress
	}
	defer s.inFlight.Store(false)

	s.transition(SyncSyncing, models.SyncResult{}, nil)

	result, err := s.sync(ctx, token)
	if err != nil {
		s.logger.Error().Err(err).Str("func", "clientSyncService.Sync").Msg("sync failed")
		s.transition(SyncError, result, err)
		return result, err
	}

	s.logger.Info().
		Str("func", "clientSyncService.Sync").
		Int("applied", result.Applied).
		Int("conflicts", result.Conflicts).
		Int("id_mappings", len(result.IDMappings)).
		Msg("sync finished")
	s.transition(SyncSuccess, result, nil)
	return result, nil
}

func (s *clientSyncService) sync(ctx context.Context, token string) (models.SyncResult, error) {
	changes, err := s.storages.Queue.Checkout(ctx)
	if err != nil {
		return models.SyncResult{}, fmt.Errorf("drain queue: %w", err)
	}

	s.adapter.SetToken(token)

	syncCtx, cancel := context.WithTimeout(ctx, s.timeout)
	result, err := s.adapter.SyncAll(syncCtx, models.SyncAllRequest{Changes: changes, Length: len(changes)})
	cancel()
	if err != nil {
		s.release(ctx)
		return result, mapSyncError(err)
	}

	if err = s.storages.Queue.Remove(ctx, changes...); err != nil {
		s.release(ctx)
		return result, fmt.Errorf("remove synced changes: %w", err)
	}
	if err = s.storages.Queue.Remap(ctx, result.IDMappings); err != nil {
		return result, fmt.Errorf("remap pending changes: %w", err)
	}

	for _, c := range s.collections {
		if err = c.remap(ctx, result.IDMappings); err != nil {
			return result, err
		}
	}

	if err = s.refresh(ctx); err != nil {
		return result, err
	}

	syncedAt := result.SyncedAt
	if syncedAt.IsZero() {
		syncedAt = s.now()
	}
	if err = s.storeLastSyncAt(ctx, syncedAt); err != nil {
		return result, err
	}

	return result, nil
}

// refresh replaces every collection with the server copy, keeping the
// changes that are still pending on top of it.
func (s *clientSyncService) refresh(ctx context.Context) error {
	lists := make([]json.RawMessage, len(s.collections))

	g, gctx := errgroup.WithContext(ctx)
	for i, c := range s.collections {
		g.Go(func() error {
			raw, err := s.adapter.List(gctx, c.collection())
			if err != nil {
				return fmt.Errorf("refresh %s: %w", c.collection(), mapSyncError(err))
			}
			lists[i] = raw
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, c := range s.collections {
		if err := c.refresh(ctx, lists[i], s.storages.Queue.Drain); err != nil {
			return fmt.Errorf("refresh %s: %w", c.collection(), err)
		}
	}
	return nil
}

func (s *clientSyncService) Status(ctx context.Context) (models.SyncStatusSummary, error) {
	token, err := s.tokens.Token(ctx)
	if err != nil {
		return models.SyncStatusSummary{}, err
	}
	s.adapter.SetToken(token)

	summary, err := s.adapter.SyncStatus(ctx)
	if err != nil {
		return models.SyncStatusSummary{}, fmt.Errorf("sync status: %w", mapAdapterError(err))
	}
	return summary, nil
}

func (s *clientSyncService) State() SyncState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *clientSyncService) LastResult() (models.SyncResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastResult, s.lastErr
}

func (s *clientSyncService) LastSyncAt(ctx context.Context) (time.Time, error) {
	raw, err := s.storages.Storage.Get(ctx, store.KeyLastSyncAt)
	if errors.Is(err, store.ErrKeyNotFound) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("load last sync time: %w", err)
	}

	var at time.Time
	if err = json.Unmarshal(raw, &at); err != nil {
		return time.Time{}, fmt.Errorf("%w: last sync time: %w", store.ErrCorruptedCollection, err)
	}
	return at, nil
}

func (s *clientSyncService) Pending(ctx context.Context) (int, error) {
	return s.storages.Queue.Len(ctx)
}

func (s *clientSyncService) Subscribe() (<-chan SyncEvent, func()) {
	return s.events.subscribe()
}

// release hands the checked out entries back to the queue after a failed
// sync.
func (s *clientSyncService) release(ctx context.Context) {
	if err := s.storages.Queue.Release(ctx); err != nil {
		s.logger.Error().Err(err).Str("func", "clientSyncService.release").Msg("failed to merge released queue entries")
	}
}

func (s *clientSyncService) storeLastSyncAt(ctx context.Context, at time.Time) error {
	raw, err := json.Marshal(at.UTC())
	if err != nil {
		return fmt.Errorf("encode last sync time: %w", err)
	}
	if err = s.storages.Storage.Set(ctx, store.KeyLastSyncAt, raw); err != nil {
		return fmt.Errorf("save last sync time: %w", err)
	}
	return nil
}

func (s *clientSyncService) transition(state SyncState, result models.SyncResult, err error) {
	s.mu.Lock()
	s.state = state
	if state != SyncSyncing {
		s.lastResult = result
		s.lastErr = err
	}
	s.mu.Unlock()

	s.events.publish(SyncEvent{State: state, Result: result, Err: err, At: s.now()})
}

// autoSync runs one background sync. Guard failures are expected in the
// background and only logged at debug level.
func autoSync(syncService Syncer, logger *logger.Logger) func(ctx context.Context) {
	return func(ctx context.Context) {
		_, err := syncService.Sync(ctx)
		switch {
		case err == nil:
		case errors.Is(err, ErrSyncInProgress):
			logger.Debug().Str("func", "autoSync").Msg("sync already running, skipping")
		case errors.Is(err, ErrAuthenticationMissing), errors.Is(err, ErrConnectivityUnavailable):
			logger.Debug().Err(err).Str("func", "autoSync").Msg("sync skipped")
		default:
			logger.Warn().Err(err).Str("func", "autoSync").Msg("background sync failed")
		}
	}
}

// collectionSync applies sync results to one record store.
type collectionSync interface {
	collection() models.Collection
	remap(ctx context.Context, mappings []models.IDMapping) error
	refresh(ctx context.Context, serverList json.RawMessage, pending func(context.Context) ([]models.Change, error)) error
}

type recordSync[T models.Record] struct {
	store *store.RecordStore[T]
}

func collectionSyncs(storages *store.ClientStorages) []collectionSync {
	return []collectionSync{
		recordSync[*models.Expense]{storages.Expenses},
		recordSync[*models.Income]{storages.Income},
		recordSync[*models.Budget]{storages.Budgets},
		recordSync[*models.SavingsGoal]{storages.SavingsGoals},
	}
}

func (r recordSync[T]) collection() models.Collection {
	return r.store.Collection()
}

func (r recordSync[T]) remap(ctx context.Context, mappings []models.IDMapping) error {
	ids := make(map[string]string)
	for _, m := range mappings {
		if m.Collection == r.store.Collection() {
			ids[m.LocalID] = m.ServerID
		}
	}
	if len(ids) == 0 {
		return nil
	}

	err := r.store.Update(ctx, func(records []T) ([]T, error) {
		for _, rec := range records {
			if serverID, ok := ids[rec.RecordID()]; ok {
				rec.SetRecordID(serverID)
			}
		}
		return records, nil
	})
	if err != nil {
		return fmt.Errorf("remap %s ids: %w", r.store.Collection(), err)
	}
	return nil
}

func (r recordSync[T]) refresh(ctx context.Context, serverList json.RawMessage, pending func(context.Context) ([]models.Change, error)) error {
	server := make([]T, 0)
	if len(serverList) > 0 {
		if err := json.Unmarshal(serverList, &server); err != nil {
			return fmt.Errorf("%w: %w", adapter.ErrInvalidResponse, err)
		}
	}

	return r.store.Update(ctx, func([]T) ([]T, error) {
		changes, err := pending(ctx)
		if err != nil {
			return nil, err
		}
		return reconcile.LastWriteWins(server, changes)
	})
}
