// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package devserver

import "errors"

var (
	// ErrInvalidData is returned when a request body cannot be decoded or
	// fails validation.
	ErrInvalidData = errors.New("invalid data provided")

	// ErrUserAlreadyExists is returned by Register for a taken email.
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrInvalidCredentials is returned by Login for an unknown email or a
	// wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken is returned when a bearer token cannot be verified.
	ErrInvalidToken = errors.New("token is expired or invalid")

	// ErrUserNotFound is returned when a valid token names a user the
	// backend does not know, e.g. after a restart.
	ErrUserNotFound = errors.New("user not found")

	// ErrRecordNotFound is returned when the requested record does not exist
	// for the current user.
	ErrRecordNotFound = errors.New("record not found")

	// ErrUnknownCollection is returned for a change that names a collection
	// the backend does not serve.
	ErrUnknownCollection = errors.New("unknown collection")
)
