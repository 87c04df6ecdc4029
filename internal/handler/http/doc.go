// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package http implements the REST transport of the development server.
//
// It exposes route wiring, request handlers, and middleware for the API the
// finance client talks to. Authentication, request tracing, access logging
// and response compression are handled in this package before requests are
// delegated to the [devserver.Backend].
//
// Every error response carries a {"message": ...} body whose text is one of
// the app.Msg* constants, so the client can map it back to a business error.
package http
