// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-finance-keeper/internal/service"
	"github.com/MKhiriev/go-finance-keeper/models"
)

const (
	fieldEmail = iota
	fieldPassword
	fieldFirstName
	fieldLastName
)

// authModel is the sign-in screen. ctrl+r toggles between signing in and
// registering; registration shows the name fields as well. Letter keys are
// typed into the fields, so navigation uses tab and the arrow keys only.
type authModel struct {
	ctx  context.Context
	auth service.AuthService

	inputs     []textinput.Model
	focus      int
	register   bool
	submitting bool
	errMsg     string

	user       models.User
	quitByUser bool
}

func newAuthModel(ctx context.Context, auth service.AuthService) authModel {
	newInput := func(placeholder string, limit int) textinput.Model {
		in := textinput.New()
		in.Placeholder = placeholder
		in.CharLimit = limit
		in.Width = 40
		return in
	}

	email := newInput("email", 254)
	email.Focus()

	password := newInput("password", 256)
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'

	return authModel{
		ctx:  ctx,
		auth: auth,
		inputs: []textinput.Model{
			fieldEmail:     email,
			fieldPassword:  password,
			fieldFirstName: newInput("first name", 64),
			fieldLastName:  newInput("last name (optional)", 64),
		},
	}
}

func (m authModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m authModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case authDoneMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = humanizeAuthError(msg.err)
			return m, nil
		}
		m.user = msg.user
		return m, tea.Quit

	case tea.KeyMsg:
		switch {
		case msg.String() == "ctrl+c", key.Matches(msg, keys.esc):
			m.quitByUser = true
			return m, tea.Quit
		case msg.String() == "ctrl+r":
			m.register = !m.register
			m.errMsg = ""
			m.setFocus(fieldEmail)
			return m, nil
		case msg.String() == "tab", msg.String() == "down":
			m.setFocus((m.focus + 1) % m.visibleFields())
			return m, nil
		case msg.String() == "shift+tab", msg.String() == "up":
			m.setFocus((m.focus - 1 + m.visibleFields()) % m.visibleFields())
			return m, nil
		case key.Matches(msg, keys.enter):
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m authModel) submit() (tea.Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}

	email := strings.TrimSpace(m.inputs[fieldEmail].Value())
	password := m.inputs[fieldPassword].Value()
	if email == "" || password == "" {
		m.errMsg = "email and password are required"
		return m, nil
	}

	m.errMsg = ""
	m.submitting = true

	ctx, auth := m.ctx, m.auth
	if !m.register {
		return m, func() tea.Msg {
			user, err := auth.Login(ctx, models.Credentials{Email: email, Password: password})
			return authDoneMsg{user: user, err: err}
		}
	}

	req := models.RegisterRequest{
		FirstName: strings.TrimSpace(m.inputs[fieldFirstName].Value()),
		LastName:  strings.TrimSpace(m.inputs[fieldLastName].Value()),
		Email:     email,
		Password:  password,
	}
	return m, func() tea.Msg {
		user, err := auth.Register(ctx, req)
		return authDoneMsg{user: user, err: err}
	}
}

func (m authModel) View() string {
	labels := []string{"Email", "Password", "First name", "Last name"}

	var b strings.Builder
	for i := 0; i < m.visibleFields(); i++ {
		b.WriteString(fitText(labels[i], 10))
		b.WriteString(strings.Repeat(" ", 11-len(labels[i])))
		b.WriteString("│ ")
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}

	switch {
	case m.submitting:
		b.WriteString("\n[please wait...]\n")
	case m.register:
		b.WriteString("\n[Register]\n")
	default:
		b.WriteString("\n[Sign in]\n")
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: " + m.errMsg))
		b.WriteString("\n")
	}

	title, toggle := "SIGN IN", "ctrl+r: register instead"
	if m.register {
		title, toggle = "REGISTER", "ctrl+r: sign in instead"
	}
	return appStyle.Render(renderPage(title, strings.TrimRight(b.String(), "\n"), "esc: quit │ tab: next field │ enter: submit │ "+toggle))
}

func (m authModel) visibleFields() int {
	if m.register {
		return len(m.inputs)
	}
	return fieldPassword + 1
}

func (m *authModel) setFocus(i int) {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
}

func humanizeAuthError(err error) string {
	switch {
	case errors.Is(err, service.ErrWrongPassword):
		return "wrong email or password"
	case errors.Is(err, service.ErrUserAlreadyExists):
		return "an account with this email already exists"
	case errors.Is(err, service.ErrInvalidDataProvided):
		return "check the fields: a valid email and a password of at least 6 characters are required"
	case errors.Is(err, service.ErrNetworkFailure):
		return "server is unavailable, try again later"
	default:
		return err.Error()
	}
}
