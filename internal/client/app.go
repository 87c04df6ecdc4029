// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-finance-keeper/internal/config"
	"github.com/MKhiriev/go-finance-keeper/internal/logger"
	"github.com/MKhiriev/go-finance-keeper/internal/service"
	"github.com/MKhiriev/go-finance-keeper/internal/store"
	"github.com/MKhiriev/go-finance-keeper/internal/tui"
	"github.com/MKhiriev/go-finance-keeper/internal/workers"
	"github.com/MKhiriev/go-finance-keeper/models"
)

type App struct {
	services *service.ClientServices
	storages *store.ClientStorages
	ui       UI
	cfg      config.App
	logger   *logger.Logger
}

func NewApp(services *service.ClientServices, storages *store.ClientStorages, ui UI, cfg config.App, logger *logger.Logger) (*App, error) {
	if services == nil || storages == nil || ui == nil {
		return nil, errors.New("client: services, storages and ui are required")
	}
	return &App{services: services, storages: storages, ui: ui, cfg: cfg, logger: logger}, nil
}

// Run seeds the demo data when configured, starts the background workers
// and alternates between the sign-in flow and the main loop until the user
// quits. The local storage is closed on return.
func (a *App) Run(ctx context.Context) error {
	defer func() {
		if err := a.storages.Close(); err != nil {
			a.logger.Err(err).Str("func", "App.Run").Msg("error closing local storage")
		}
	}()

	if a.cfg.SeedSampleData {
		n, err := service.SeedSampleData(ctx, a.storages)
		if err != nil {
			return err
		}
		a.logger.Info().Str("func", "App.Run").Int("records", n).Msg("sample data seeded")
	}

	bgCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() {
		done <- workers.New(a.services.Connectivity, a.services.SyncJob).Run(bgCtx)
	}()
	defer func() {
		cancel()
		if err := <-done; err != nil {
			a.logger.Err(err).Str("func", "App.Run").Msg("background worker failed")
		}
	}()

	for {
		user, err := a.signIn(ctx)
		if errors.Is(err, tui.ErrUserQuit) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("sign in: %w", err)
		}
		a.logger.Info().Str("func", "App.Run").Str("user_id", user.ID).Msg("signed in")

		logout, err := a.ui.MainLoop(ctx, user)
		if err != nil {
			return fmt.Errorf("main loop: %w", err)
		}
		if !logout {
			return nil
		}

		if err = a.services.AuthService.Logout(ctx); err != nil {
			return fmt.Errorf("logout: %w", err)
		}
		a.logger.Info().Str("func", "App.Run").Str("user_id", user.ID).Msg("signed out")
	}
}

// signIn resumes a stored session and falls back to the interactive flow.
func (a *App) signIn(ctx context.Context) (models.User, error) {
	user, err := a.services.AuthService.RestoreSession(ctx)
	switch {
	case err == nil && user.Email != "":
		return user, nil
	case err == nil:
		// the token survived but the profile did not
		if user, err = a.services.AuthService.CurrentUser(ctx); err == nil || user.Email != "" {
			return user, nil
		}
		a.logger.Warn().Err(err).Str("func", "App.signIn").Msg("stored session has no profile")
	case !errors.Is(err, service.ErrAuthenticationMissing):
		a.logger.Warn().Err(err).Str("func", "App.signIn").Msg("could not restore session")
	}

	return a.ui.LoginFlow(ctx)
}
