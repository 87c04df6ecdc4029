// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used by the
// development server handlers and by the client when it interprets server
// responses.
//
// All Msg* constants are human-readable message strings written into the
// {"message": ...} body of error responses. Keeping them in one place lets
// the client map a response back to a business error by its message.
package app

const (
	// MsgInvalidDataProvided is returned when the request body cannot be
	// decoded or fails validation.
	MsgInvalidDataProvided = "invalid data provided"

	// MsgInvalidCredentials is returned when the email/password pair does not
	// match any registered user.
	MsgInvalidCredentials = "invalid email or password"

	// MsgUserAlreadyExists is returned when a registration uses an email that
	// is already taken.
	MsgUserAlreadyExists = "user already exists"

	// MsgTokenIsExpiredOrInvalid is returned when a bearer token is missing,
	// expired or cannot be verified.
	MsgTokenIsExpiredOrInvalid = "token is expired or invalid"

	// MsgInternalServerError is returned for unexpected server-side failures.
	MsgInternalServerError = "internal server error"

	// MsgRecordNotFound is returned when a read, update or delete targets a
	// record that does not exist for the current user.
	MsgRecordNotFound = "record not found"

	// MsgUnknownCollection is returned when a sync change names a collection
	// the server does not serve.
	MsgUnknownCollection = "unknown collection"

	// MsgSyncCompleted is the message of a successful POST /sync/all.
	MsgSyncCompleted = "sync completed"

	// MsgNoChangesProvided is the message of a POST /sync/all with an empty
	// change list. The request still succeeds.
	MsgNoChangesProvided = "no changes provided"

	// MsgHealthy is the body message of GET /health.
	MsgHealthy = "ok"
)
