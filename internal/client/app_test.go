// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-finance-keeper/internal/adapter"
	"github.com/MKhiriev/go-finance-keeper/internal/config"
	"github.com/MKhiriev/go-finance-keeper/internal/devserver"
	handlerHTTP "github.com/MKhiriev/go-finance-keeper/internal/handler/http"
	"github.com/MKhiriev/go-finance-keeper/internal/logger"
	"github.com/MKhiriev/go-finance-keeper/internal/service"
	"github.com/MKhiriev/go-finance-keeper/internal/store"
	"github.com/MKhiriev/go-finance-keeper/internal/tui"
	"github.com/MKhiriev/go-finance-keeper/models"
)

type fakeUI struct {
	login    func(ctx context.Context, call int) (models.User, error)
	mainLoop func(ctx context.Context, user models.User, call int) (bool, error)

	loginCalls int
	loopCalls  int
	loopUsers  []models.User
}

func (f *fakeUI) LoginFlow(ctx context.Context) (models.User, error) {
	f.loginCalls++
	return f.login(ctx, f.loginCalls)
}

func (f *fakeUI) MainLoop(ctx context.Context, user models.User) (bool, error) {
	f.loopCalls++
	f.loopUsers = append(f.loopUsers, user)
	return f.mainLoop(ctx, user, f.loopCalls)
}

func newTestApp(t *testing.T, ui UI, cfg config.App) (*App, *service.ClientServices, *store.ClientStorages) {
	t.Helper()

	backend := devserver.NewBackend(config.App{
		TokenSignKey:  "app-sign-key",
		TokenIssuer:   config.DefaultTokenIssuer,
		TokenDuration: time.Hour,
	}, logger.Nop())
	server := httptest.NewServer(handlerHTTP.NewHandler(backend, "test", logger.Nop()).Init())
	t.Cleanup(server.Close)

	serverAdapter, err := adapter.NewHTTPServerAdapter(config.Adapter{
		HTTPAddress:    server.URL + handlerHTTP.APIPrefix,
		RequestTimeout: 5 * time.Second,
	}, logger.Nop())
	require.NoError(t, err)

	storages := store.NewClientStoragesFrom(store.NewMemoryStorage())
	services := service.NewClientServices(storages, serverAdapter, config.Workers{
		SyncInterval:  time.Minute,
		SyncTimeout:   5 * time.Second,
		ProbeInterval: time.Minute,
	}, logger.Nop())

	app, err := NewApp(services, storages, ui, cfg, logger.Nop())
	require.NoError(t, err)
	return app, services, storages
}

func register(ctx context.Context, services *service.ClientServices, email string) (models.User, error) {
	return services.AuthService.Register(ctx, models.RegisterRequest{
		FirstName: "Ann",
		Email:     email,
		Password:  "secret1",
	})
}

func TestNewApp_RequiresDependencies(t *testing.T) {
	_, err := NewApp(nil, nil, nil, config.App{}, logger.Nop())
	assert.Error(t, err)
}

func TestApp_Run_QuitAtLogin(t *testing.T) {
	ui := &fakeUI{
		login: func(context.Context, int) (models.User, error) { return models.User{}, tui.ErrUserQuit },
	}
	app, _, _ := newTestApp(t, ui, config.App{})

	require.NoError(t, app.Run(context.Background()))
	assert.Equal(t, 1, ui.loginCalls)
	assert.Zero(t, ui.loopCalls)
}

func TestApp_Run_LoginErrorIsReturned(t *testing.T) {
	failure := errors.New("terminal is gone")
	ui := &fakeUI{
		login: func(context.Context, int) (models.User, error) { return models.User{}, failure },
	}
	app, _, _ := newTestApp(t, ui, config.App{})

	assert.ErrorIs(t, app.Run(context.Background()), failure)
}

func TestApp_Run_LogoutReturnsToLogin(t *testing.T) {
	var services *service.ClientServices
	ui := &fakeUI{
		login: func(ctx context.Context, call int) (models.User, error) {
			if call == 1 {
				return register(ctx, services, "ann@example.com")
			}
			return models.User{}, tui.ErrUserQuit
		},
		mainLoop: func(ctx context.Context, _ models.User, _ int) (bool, error) {
			return true, nil
		},
	}
	app, svcs, _ := newTestApp(t, ui, config.App{})
	services = svcs

	require.NoError(t, app.Run(context.Background()))
	assert.Equal(t, 2, ui.loginCalls)
	assert.Equal(t, 1, ui.loopCalls)
	assert.Equal(t, "ann@example.com", ui.loopUsers[0].Email)
	assert.False(t, services.AuthService.IsAuthenticated(context.Background()))
}

func TestApp_Run_RestoresSession(t *testing.T) {
	ui := &fakeUI{
		login: func(context.Context, int) (models.User, error) {
			return models.User{}, errors.New("login must not be shown")
		},
		mainLoop: func(context.Context, models.User, int) (bool, error) { return false, nil },
	}
	app, services, _ := newTestApp(t, ui, config.App{})

	_, err := register(context.Background(), services, "bob@example.com")
	require.NoError(t, err)

	require.NoError(t, app.Run(context.Background()))
	assert.Zero(t, ui.loginCalls)
	require.Len(t, ui.loopUsers, 1)
	assert.Equal(t, "bob@example.com", ui.loopUsers[0].Email)
	assert.True(t, services.AuthService.IsAuthenticated(context.Background()))
}

func TestApp_Run_SeedsSampleData(t *testing.T) {
	ui := &fakeUI{
		login: func(context.Context, int) (models.User, error) { return models.User{}, tui.ErrUserQuit },
	}
	app, services, _ := newTestApp(t, ui, config.App{SeedSampleData: true})

	require.NoError(t, app.Run(context.Background()))

	expenses, err := services.Expenses.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, expenses, len(service.SampleExpenses()))

	pending, err := services.SyncService.Pending(context.Background())
	require.NoError(t, err)
	assert.Zero(t, pending)
}

func TestApp_Run_MainLoopError(t *testing.T) {
	failure := errors.New("render failed")
	var services *service.ClientServices
	ui := &fakeUI{
		login: func(ctx context.Context, _ int) (models.User, error) {
			return register(ctx, services, "eve@example.com")
		},
		mainLoop: func(context.Context, models.User, int) (bool, error) { return false, failure },
	}
	app, svcs, _ := newTestApp(t, ui, config.App{})
	services = svcs

	assert.ErrorIs(t, app.Run(context.Background()), failure)
}
