package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-finance-keeper/internal/adapter"
	"github.com/MKhiriev/go-finance-keeper/internal/logger"
	"github.com/MKhiriev/go-finance-keeper/internal/store"
	"github.com/MKhiriev/go-finance-keeper/internal/utils"
	"github.com/MKhiriev/go-finance-keeper/internal/validators"
	"github.com/MKhiriev/go-finance-keeper/models"
)

type clientAuthService struct {
	storage   store.Storage
	adapter   adapter.ServerAdapter
	validator validators.Validator
	now       func() time.Time
	logger    *logger.Logger
}

func NewClientAuthService(storage store.Storage, serverAdapter adapter.ServerAdapter, validator validators.Validator, logger *logger.Logger) AuthService {
	return &clientAuthService{
		storage:   storage,
		adapter:   serverAdapter,
		validator: validator,
		now:       time.Now,
		logger:    logger,
	}
}

func (a *clientAuthService) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	if err := a.validator.Validate(ctx, req); err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	resp, err := a.adapter.Register(ctx, req)
	if err != nil {
		return models.User{}, fmt.Errorf("register: %w", mapAdapterError(err))
	}

	if err = a.storeSession(ctx, resp); err != nil {
		return models.User{}, err
	}
	return resp.User, nil
}

func (a *clientAuthService) Login(ctx context.Context, creds models.Credentials) (models.User, error) {
	if err := a.validator.Validate(ctx, creds); err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	resp, err := a.adapter.Login(ctx, creds)
	if err != nil {
		return models.User{}, fmt.Errorf("login: %w", mapAdapterError(err))
	}

	if err = a.storeSession(ctx, resp); err != nil {
		return models.User{}, err
	}
	return resp.User, nil
}

func (a *clientAuthService) CurrentUser(ctx context.Context) (models.User, error) {
	token, err := a.Token(ctx)
	if err != nil {
		return models.User{}, err
	}
	a.adapter.SetToken(token)

	user, err := a.adapter.CurrentUser(ctx)
	switch {
	case err == nil:
		if err = a.storeUser(ctx, user); err != nil {
			return models.User{}, err
		}
		return user, nil

	case errors.Is(err, adapter.ErrUnauthorized):
		a.logger.Info().Str("func", "clientAuthService.CurrentUser").Msg("session rejected by server, clearing token")
		if clearErr := a.Logout(ctx); clearErr != nil {
			return models.User{}, errors.Join(mapAdapterError(err), clearErr)
		}
		return models.User{}, fmt.Errorf("%w: %w", ErrAuthenticationMissing, mapAdapterError(err))

	case adapter.IsTransportError(err):
		cached, cacheErr := a.cachedUser(ctx)
		if cacheErr != nil {
			return models.User{}, mapAdapterError(err)
		}
		return cached, mapAdapterError(err)

	default:
		return models.User{}, mapAdapterError(err)
	}
}

func (a *clientAuthService) RestoreSession(ctx context.Context) (models.User, error) {
	token, err := a.Token(ctx)
	if err != nil {
		return models.User{}, err
	}
	a.adapter.SetToken(token)

	user, err := a.cachedUser(ctx)
	if err != nil && !errors.Is(err, store.ErrKeyNotFound) {
		return models.User{}, err
	}
	return user, nil
}

func (a *clientAuthService) Logout(ctx context.Context) error {
	a.adapter.SetToken("")

	if err := a.storage.Delete(ctx, store.KeyToken); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	if err := a.storage.Delete(ctx, store.KeyUser); err != nil {
		return fmt.Errorf("clear user: %w", err)
	}
	return nil
}

func (a *clientAuthService) IsAuthenticated(ctx context.Context) bool {
	_, err := a.Token(ctx)
	return err == nil
}

// Token implements [TokenSource]. Tokens that are not JWTs are passed
// through as opaque strings; the server decides whether they are valid.
func (a *clientAuthService) Token(ctx context.Context) (string, error) {
	raw, err := a.storage.Get(ctx, store.KeyToken)
	if errors.Is(err, store.ErrKeyNotFound) || (err == nil && len(raw) == 0) {
		return "", ErrAuthenticationMissing
	}
	if err != nil {
		return "", fmt.Errorf("load token: %w", err)
	}

	token := string(raw)
	expired, err := utils.TokenExpired(token, a.now())
	if err != nil {
		a.logger.Debug().Err(err).Str("func", "clientAuthService.Token").Msg("token is not a JWT, using it as is")
		return token, nil
	}
	if expired {
		return "", fmt.Errorf("%w: %w", ErrAuthenticationMissing, ErrTokenIsExpiredOrInvalid)
	}
	return token, nil
}

func (a *clientAuthService) storeSession(ctx context.Context, resp models.AuthResponse) error {
	if err := a.storage.Set(ctx, store.KeyToken, []byte(resp.Token)); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	if err := a.storeUser(ctx, resp.User); err != nil {
		return err
	}

	a.adapter.SetToken(resp.Token)
	a.logger.Info().Str("func", "clientAuthService.storeSession").Str("user_id", resp.User.ID).Msg("session stored")
	return nil
}

func (a *clientAuthService) storeUser(ctx context.Context, user models.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err = a.storage.Set(ctx, store.KeyUser, raw); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (a *clientAuthService) cachedUser(ctx context.Context) (models.User, error) {
	raw, err := a.storage.Get(ctx, store.KeyUser)
	if err != nil {
		return models.User{}, err
	}

	var user models.User
	if err = json.Unmarshal(raw, &user); err != nil {
		return models.User{}, fmt.Errorf("%w: user: %w", store.ErrCorruptedCollection, err)
	}
	return user, nil
}
