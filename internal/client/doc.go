// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the interactive client application runtime.
//
// It wires the terminal UI, the client services and the background workers
// (connectivity probing and periodic synchronization) into a single process
// lifecycle.
package client
