// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package server runs the transport servers of the development server.
//
// It owns the server lifecycles: startup, signal handling and graceful
// shutdown of every enabled transport.
package server
