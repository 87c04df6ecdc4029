// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package devserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/MKhiriev/go-finance-keeper/internal/aggregate"
	"github.com/MKhiriev/go-finance-keeper/internal/app"
	"github.com/MKhiriev/go-finance-keeper/internal/config"
	"github.com/MKhiriev/go-finance-keeper/internal/logger"
	"github.com/MKhiriev/go-finance-keeper/internal/utils"
	"github.com/MKhiriev/go-finance-keeper/internal/validators"
	"github.com/MKhiriev/go-finance-keeper/models"
)

type account struct {
	user         models.User
	passwordHash []byte
}

// userData holds the four collections of one user.
type userData struct {
	expenses     *table[*models.Expense]
	income       *table[*models.Income]
	budgets      *table[*models.Budget]
	savingsGoals *table[*models.SavingsGoal]
}

func (d *userData) table(c models.Collection) (collectionTable, error) {
	switch c {
	case models.CollectionExpenses:
		return d.expenses, nil
	case models.CollectionIncome:
		return d.income, nil
	case models.CollectionBudgets:
		return d.budgets, nil
	case models.CollectionSavingsGoals:
		return d.savingsGoals, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, c)
	}
}

type backend struct {
	cfg       config.App
	validator validators.Validator
	ids       *utils.UUIDGenerator
	now       func() time.Time
	logger    *logger.Logger

	mu       sync.Mutex
	accounts map[string]*account // by lower-cased email
	users    map[string]*account // by id
	data     map[string]*userData
}

// NewBackend creates an empty in-memory backend. Tokens are signed with
// cfg.TokenSignKey and issued by cfg.TokenIssuer for cfg.TokenDuration.
func NewBackend(cfg config.App, logger *logger.Logger) Backend {
	return &backend{
		cfg:       cfg,
		validator: validators.NewRecordValidator(),
		ids:       utils.NewUUIDGenerator(),
		now:       time.Now,
		logger:    logger,
		accounts:  make(map[string]*account),
		users:     make(map[string]*account),
		data:      make(map[string]*userData),
	}
}

func (b *backend) Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error) {
	if err := b.validator.Validate(ctx, req); err != nil {
		return models.AuthResponse{}, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.AuthResponse{}, fmt.Errorf("hash password: %w", err)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	b.mu.Lock()
	if _, taken := b.accounts[email]; taken {
		b.mu.Unlock()
		return models.AuthResponse{}, ErrUserAlreadyExists
	}
	acc := &account{
		user: models.User{
			ID:        b.ids.Generate(),
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     email,
			Username:  strings.SplitN(email, "@", 2)[0],
		},
		passwordHash: hash,
	}
	b.accounts[email] = acc
	b.users[acc.user.ID] = acc
	b.mu.Unlock()

	b.logger.Info().Str("func", "backend.Register").Str("user_id", acc.user.ID).Msg("user registered")
	return b.issue(acc.user)
}

func (b *backend) Login(ctx context.Context, creds models.Credentials) (models.AuthResponse, error) {
	if err := b.validator.Validate(ctx, creds); err != nil {
		return models.AuthResponse{}, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}

	b.mu.Lock()
	acc, ok := b.accounts[strings.ToLower(strings.TrimSpace(creds.Email))]
	b.mu.Unlock()
	if !ok {
		return models.AuthResponse{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(creds.Password)); err != nil {
		return models.AuthResponse{}, ErrInvalidCredentials
	}

	return b.issue(acc.user)
}

func (b *backend) issue(user models.User) (models.AuthResponse, error) {
	token, err := utils.GenerateJWTToken(b.cfg.TokenIssuer, user.ID, b.cfg.TokenDuration, b.cfg.TokenSignKey)
	if err != nil {
		return models.AuthResponse{}, fmt.Errorf("issue token: %w", err)
	}
	return models.AuthResponse{Token: token.String(), User: user}, nil
}

func (b *backend) ParseToken(_ context.Context, token string) (string, error) {
	parsed, err := utils.ValidateAndParseJWTToken(token, b.cfg.TokenSignKey, b.cfg.TokenIssuer)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return parsed.UserID, nil
}

func (b *backend) User(_ context.Context, userID string) (models.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	acc, ok := b.users[userID]
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	return acc.user, nil
}

func (b *backend) List(_ context.Context, userID string, c models.Collection) (json.RawMessage, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, err := b.userData(userID).table(c)
	if err != nil {
		return nil, err
	}
	return t.list()
}

func (b *backend) Create(ctx context.Context, userID string, c models.Collection, payload json.RawMessage) (json.RawMessage, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, err := b.userData(userID).table(c)
	if err != nil {
		return nil, err
	}
	return t.create(ctx, payload, b.now())
}

func (b *backend) Update(ctx context.Context, userID string, c models.Collection, id string, payload json.RawMessage) (json.RawMessage, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, err := b.userData(userID).table(c)
	if err != nil {
		return nil, err
	}
	return t.update(ctx, id, payload, b.now())
}

func (b *backend) Delete(_ context.Context, userID string, c models.Collection, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, err := b.userData(userID).table(c)
	if err != nil {
		return err
	}
	return t.remove(id)
}

func (b *backend) SyncStatus(_ context.Context, userID string) (models.SyncStatusSummary, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	data := b.userData(userID)
	summary := models.SyncStatusSummary{Collections: make(map[models.Collection]models.CollectionStatus, len(models.Collections))}
	for _, c := range models.Collections {
		t, err := data.table(c)
		if err != nil {
			return models.SyncStatusSummary{}, err
		}

		st := t.status()
		summary.Collections[c] = st
		summary.TotalRecords += st.Total
		summary.SyncedRecords += st.Synced
		summary.TotalDeletionPending += st.DeletionPending
	}
	summary.SyncPercentage = syncPercentage(summary.SyncedRecords, summary.TotalRecords)

	return summary, nil
}

// SyncAll checks the whole batch first, so an invalid change rejects it
// without applying anything. Applied changes are committed together with
// the pending work of the CRUD endpoints.
func (b *backend) SyncAll(ctx context.Context, userID string, req models.SyncAllRequest) (models.SyncResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	data := b.userData(userID)
	for _, change := range req.Changes {
		t, err := data.table(change.Collection)
		if err != nil {
			return models.SyncResult{}, err
		}
		if err = t.check(ctx, change); err != nil {
			return models.SyncResult{}, fmt.Errorf("%s/%s: %w", change.Collection, change.RecordID, err)
		}
	}

	now := b.now()
	result := models.SyncResult{Success: true, Message: app.MsgSyncCompleted}
	if len(req.Changes) == 0 {
		result.Message = app.MsgNoChangesProvided
	}

	// server ids assigned earlier in this batch, by temporary record key
	assigned := make(map[string]string)
	for _, change := range req.Changes {
		key := models.RecordKey(change.Collection, change.RecordID)
		if serverID, ok := assigned[key]; ok {
			change.RecordID = serverID
		}

		t, _ := data.table(change.Collection)
		outcome, err := t.apply(change, now)
		if err != nil {
			return models.SyncResult{}, err
		}

		if outcome.conflict {
			result.Conflicts++
			continue
		}
		result.Applied++
		if outcome.mapping != nil {
			assigned[key] = outcome.mapping.ServerID
			result.IDMappings = append(result.IDMappings, *outcome.mapping)
		}
	}

	for _, c := range models.Collections {
		t, _ := data.table(c)
		t.commit()
	}
	result.SyncedAt = now.UTC()

	b.logger.Info().
		Str("func", "backend.SyncAll").
		Str("user_id", userID).
		Int("applied", result.Applied).
		Int("conflicts", result.Conflicts).
		Msg("changes synchronized")
	return result, nil
}

func (b *backend) Report(_ context.Context, userID string) (models.Report, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	data := b.userData(userID)
	return aggregate.Report(
		data.expenses.records(),
		data.income.records(),
		data.budgets.records(),
		data.savingsGoals.records(),
	), nil
}

// userData returns the collections of userID, creating them on first use.
// b.mu must be held.
func (b *backend) userData(userID string) *userData {
	if d, ok := b.data[userID]; ok {
		return d
	}

	d := &userData{
		expenses:     newTable[*models.Expense](b.validator, b.ids),
		income:       newTable[*models.Income](b.validator, b.ids),
		budgets:      newTable[*models.Budget](b.validator, b.ids),
		savingsGoals: newTable[*models.SavingsGoal](b.validator, b.ids),
	}
	b.data[userID] = d
	return d
}

func syncPercentage(synced, total int) string {
	if total == 0 {
		return "100.0"
	}
	return fmt.Sprintf("%.1f", float64(synced)/float64(total)*100)
}
