package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-finance-keeper/internal/adapter"
	"github.com/MKhiriev/go-finance-keeper/internal/logger"
	"github.com/MKhiriev/go-finance-keeper/internal/reconcile"
	"github.com/MKhiriev/go-finance-keeper/internal/store"
	"github.com/MKhiriev/go-finance-keeper/internal/utils"
	"github.com/MKhiriev/go-finance-keeper/internal/validators"
	"github.com/MKhiriev/go-finance-keeper/models"
)

// ConnectivityStatus is the part of [ConnectivityObserver] the record
// service needs: it reads the status and reports failed requests.
type ConnectivityStatus interface {
	OnlineChecker
	SetOnline(online bool)
}

// clientRecordService writes locally first. A change is pushed through the
// CRUD endpoints right away when the client is online, signed in and the
// record has nothing pending; otherwise, or when the push fails on the
// network, it is queued for the next sync. Server rejections are rolled back
// locally and returned.
type clientRecordService[T models.Record] struct {
	store        *store.RecordStore[T]
	queue        *store.ChangeQueue
	adapter      adapter.ServerAdapter
	tokens       TokenSource
	connectivity ConnectivityStatus
	validator    validators.Validator
	ids          *utils.UUIDGenerator
	now          func() time.Time
	logger       *logger.Logger
}

func NewClientRecordService[T models.Record](
	recordStore *store.RecordStore[T],
	queue *store.ChangeQueue,
	serverAdapter adapter.ServerAdapter,
	tokens TokenSource,
	connectivity ConnectivityStatus,
	validator validators.Validator,
	logger *logger.Logger,
) RecordService[T] {
	return &clientRecordService[T]{
		store:        recordStore,
		queue:        queue,
		adapter:      serverAdapter,
		tokens:       tokens,
		connectivity: connectivity,
		validator:    validator,
		ids:          utils.NewUUIDGenerator(),
		now:          time.Now,
		logger:       logger,
	}
}

func (s *clientRecordService[T]) List(ctx context.Context) ([]T, error) {
	return s.store.Load(ctx)
}

func (s *clientRecordService[T]) Get(ctx context.Context, id string) (T, error) {
	return s.store.Get(ctx, id)
}

func (s *clientRecordService[T]) Create(ctx context.Context, rec T) (T, error) {
	var zero T
	if err := s.validator.Validate(ctx, rec); err != nil {
		return zero, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	rec.SetRecordID(s.ids.GenerateLocal())
	rec.Touch(s.now())
	rec.MarkSynced(false)

	change, err := models.NewCreatedChange(rec)
	if err != nil {
		return zero, err
	}

	if !s.canPush(ctx, change) {
		return rec, s.queueAndStore(ctx, change, func() error { return s.store.Upsert(ctx, rec) })
	}

	if err = s.store.Upsert(ctx, rec); err != nil {
		return zero, err
	}

	raw, err := s.adapter.Create(ctx, rec.Collection(), change.Payload)
	switch {
	case err == nil:
		return s.acceptServerCopy(ctx, rec.RecordID(), raw)
	case adapter.IsTransportError(err):
		s.wentOffline(err)
		return rec, s.queue.Enqueue(ctx, change)
	default:
		return zero, s.rollback(ctx, mapAdapterError(err), func() error { return s.store.Remove(ctx, rec.RecordID()) })
	}
}

func (s *clientRecordService[T]) Update(ctx context.Context, rec T) (T, error) {
	var zero T
	if err := s.validator.Validate(ctx, rec); err != nil {
		return zero, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	if err := s.validator.Validate(ctx, rec, validators.FieldID); err != nil {
		return zero, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	previous, err := s.store.Get(ctx, rec.RecordID())
	if err != nil {
		return zero, err
	}

	rec.Touch(s.now())
	rec.MarkSynced(false)

	change, err := models.NewUpdatedChange(rec)
	if err != nil {
		return zero, err
	}

	if !s.canPush(ctx, change) {
		return rec, s.queueAndStore(ctx, change, func() error { return s.store.Upsert(ctx, rec) })
	}

	if err = s.store.Upsert(ctx, rec); err != nil {
		return zero, err
	}

	raw, err := s.adapter.Update(ctx, rec.Collection(), rec.RecordID(), change.Payload)
	switch {
	case err == nil:
		return s.acceptServerCopy(ctx, rec.RecordID(), raw)
	case adapter.IsTransportError(err):
		s.wentOffline(err)
		return rec, s.queue.Enqueue(ctx, change)
	default:
		return zero, s.rollback(ctx, mapAdapterError(err), func() error { return s.store.Upsert(ctx, previous) })
	}
}

func (s *clientRecordService[T]) Delete(ctx context.Context, id string) error {
	previous, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}

	change := models.NewDeletedChange(previous.Collection(), id, s.now())

	if !s.canPush(ctx, change) {
		return s.queueAndStore(ctx, change, func() error { return s.store.Remove(ctx, id) })
	}

	if err = s.store.Remove(ctx, id); err != nil {
		return err
	}

	err = s.adapter.Delete(ctx, previous.Collection(), id)
	switch {
	case err == nil, errors.Is(err, adapter.ErrNotFound):
		return nil
	case adapter.IsTransportError(err):
		s.wentOffline(err)
		return s.queue.Enqueue(ctx, change)
	default:
		return s.rollback(ctx, mapAdapterError(err), func() error { return s.store.Upsert(ctx, previous) })
	}
}

// canPush reports whether change can bypass the queue. Records with pending
// entries, or never acknowledged by the server, always go through the queue
// so the server sees their changes in order.
func (s *clientRecordService[T]) canPush(ctx context.Context, change models.Change) bool {
	if !s.connectivity.IsOnline() {
		return false
	}
	if change.Op != models.ChangeCreated && models.IsLocalID(change.RecordID) {
		return false
	}

	token, err := s.tokens.Token(ctx)
	if err != nil {
		return false
	}

	pending, err := s.queue.Drain(ctx)
	if err != nil {
		return false
	}
	for _, p := range pending {
		if p.Key() == change.Key() {
			return false
		}
	}

	s.adapter.SetToken(token)
	return true
}

// queueAndStore enqueues change before touching the record store, so a
// concurrent sync refresh always sees the change it must keep.
func (s *clientRecordService[T]) queueAndStore(ctx context.Context, change models.Change, write func() error) error {
	if err := s.queue.Enqueue(ctx, change); err != nil {
		return err
	}
	return write()
}

func (s *clientRecordService[T]) acceptServerCopy(ctx context.Context, localID string, raw json.RawMessage) (T, error) {
	var zero T

	rec, err := reconcile.Decode[T](raw)
	if err != nil {
		return zero, fmt.Errorf("%w: %w", adapter.ErrInvalidResponse, err)
	}
	rec.MarkSynced(true)

	err = s.store.Update(ctx, func(records []T) ([]T, error) {
		for i, r := range records {
			if r.RecordID() == localID || r.RecordID() == rec.RecordID() {
				records[i] = rec
				return records, nil
			}
		}
		return append(records, rec), nil
	})
	if err != nil {
		return zero, err
	}
	return rec, nil
}

func (s *clientRecordService[T]) rollback(ctx context.Context, cause error, undo func() error) error {
	if err := undo(); err != nil {
		s.logger.Error().Err(err).Str("func", "clientRecordService.rollback").Msg("failed to roll back local change")
		return errors.Join(cause, err)
	}
	return cause
}

func (s *clientRecordService[T]) wentOffline(err error) {
	s.logger.Warn().Err(err).Str("func", "clientRecordService").Msg("push failed, change queued")
	s.connectivity.SetOnline(false)
}
