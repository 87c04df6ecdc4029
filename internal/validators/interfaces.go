// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks finance records and auth requests before they
// reach local storage or the server.
//
// [RecordValidator] covers expenses, income entries, budgets and savings
// goals, as well as login and registration requests. Rules come from the
// validate struct tags in package models: dates are YYYY-MM-DD, amounts are
// positive decimals, and enumerations such as budget duration or goal
// priority only accept their declared values.
//
// Validation can be narrowed to single fields (see [FieldID], [FieldAmount]
// and friends). Failures are reported as [FieldErrors] keyed by JSON field
// name, which unwrap to [ErrInvalidRecord].
//
// The record service validates before every create and update. Backup import
// validates the whole document before anything is written.
package validators

import "context"

// Validator validates a record or request, optionally restricted to the named
// fields.
type Validator interface {
	Validate(ctx context.Context, obj any, fields ...string) error
}
