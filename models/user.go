// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// User represents the profile of the authenticated account as returned by
// the backend.
type User struct {
	// ID is the opaque server-side identifier of the user.
	ID string `json:"id"`

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`

	// Email is the unique login identifier.
	Email string `json:"email"`

	// Username is the display handle shown in the UI.
	Username string `json:"username"`
}

// DisplayName returns the name the UI greets the user with.
func (u User) DisplayName() string {
	switch {
	case u.FirstName != "":
		return u.FirstName
	case u.Username != "":
		return u.Username
	default:
		return u.Email
	}
}

// Credentials is the body of POST /auth/login.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	FirstName string `json:"first_name" validate:"required,max=64"`
	LastName  string `json:"last_name" validate:"max=64"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
}

// AuthResponse is returned by both POST /auth/login and POST /auth/register.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// MessageResponse is the error body shape used by the backend.
type MessageResponse struct {
	Message string `json:"message"`
}
