// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package devserver implements an in-memory backend that serves the REST
// contract the client talks to: authentication, CRUD for the four record
// collections, batch synchronization, report aggregations and health.
//
// Records written through the CRUD endpoints are kept unsynced, and deletions
// stay pending, until the next POST /sync/all commits them. This mirrors
// the local API the client was built against, where a sync pushes pending
// work to a central database.
//
// The backend is used by cmd/devserver for local runs and by end-to-end tests
// of the client services.
package devserver
