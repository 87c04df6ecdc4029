// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-finance-keeper/internal/logger"
	"github.com/MKhiriev/go-finance-keeper/internal/service"
	"github.com/MKhiriev/go-finance-keeper/models"
)

var ErrUserQuit = errors.New("user quit")

// TUI runs the bubbletea programs of the client: the sign-in flow and the
// main loop with the records, sync and dashboard views.
type TUI struct {
	services  *service.ClientServices
	buildInfo models.AppBuildInfo
	logger    *logger.Logger
}

func New(services *service.ClientServices, buildInfo models.AppBuildInfo, logger *logger.Logger) (*TUI, error) {
	if services == nil {
		return nil, errors.New("tui: nil services")
	}
	return &TUI{services: services, buildInfo: buildInfo, logger: logger}, nil
}

// LoginFlow shows the sign-in screen until the user signs in or registers.
// It returns [ErrUserQuit] when the user leaves the screen.
func (t *TUI) LoginFlow(ctx context.Context) (models.User, error) {
	finalModel, err := tea.NewProgram(newAuthModel(ctx, t.services.AuthService), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return models.User{}, err
	}

	result, ok := finalModel.(authModel)
	if !ok {
		return models.User{}, tea.ErrProgramKilled
	}
	if result.quitByUser {
		return models.User{}, ErrUserQuit
	}
	return result.user, nil
}

// MainLoop runs the main screen for user. It reports whether the user asked
// to sign out.
func (t *TUI) MainLoop(ctx context.Context, user models.User) (logout bool, err error) {
	model := newMainLoopModel(ctx, t.services, user, t.buildInfo)
	defer model.close()

	finalModel, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return false, err
	}

	result, ok := finalModel.(mainLoopModel)
	if !ok {
		return false, tea.ErrProgramKilled
	}
	t.logger.Debug().Str("func", "TUI.MainLoop").Bool("logout", result.logout).Msg("main loop finished")
	return result.logout, nil
}
