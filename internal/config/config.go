// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"time"
)

// StructuredConfig is the top-level configuration container shared by the
// client and the development server. It is populated by merging values from
// environment variables, command-line flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings: logging, token parameters of the
	// development server, sample-data seeding and the application version.
	App App `envPrefix:"APP_"`

	// Storage holds the local persistence settings of the client.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds the listen address and timeouts of the development server.
	Server Server `envPrefix:"SERVER_"`

	// Adapter holds the backend address and request timeout used by the
	// client transport layer.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Workers holds the settings of the background sync job and the
	// connectivity observer.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// TokenSignKey is the secret used by the development server to sign JWT
	// tokens.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim embedded in every issued JWT token.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration specifies how long an issued token remains valid.
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// LogLevel is the minimum zerolog level ("debug", "info", ...).
	// Env: APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`

	// LogFile is the file the client writes its log to.
	// Env: APP_LOG_FILE
	LogFile string `env:"LOG_FILE"`

	// SeedSampleData seeds empty local collections with bundled sample
	// records on first start.
	// Env: APP_SEED_SAMPLE_DATA
	SeedSampleData bool `env:"SEED_SAMPLE_DATA"`

	// Version is the semantic version string of the running application.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Storage groups the configuration of the local persistence backend.
type Storage struct {
	// DB holds the local database settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings of the client key-value store.
type DB struct {
	// DSN selects the backend: ":memory:" for an in-memory store,
	// "file://<path>" for a JSON document on disk, anything else is opened
	// as a SQLite database file.
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Server holds network and timeout settings of the development server.
type Server struct {
	// HTTPAddress is the TCP address the development server listens on,
	// in "host:port" format.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single inbound
	// request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Adapter holds the client's outbound transport settings.
type Adapter struct {
	// HTTPAddress is the base URL of the backend API
	// (e.g. "http://localhost:5000/api").
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds every outbound CRUD/auth request.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// SyncInterval is the period of the background sync job. Zero disables
	// the periodic job.
	// Env: WORKERS_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`

	// SyncTimeout bounds one synchronization request.
	// Env: WORKERS_SYNC_TIMEOUT
	SyncTimeout time.Duration `env:"SYNC_TIMEOUT"`

	// ProbeInterval is the period of connectivity probes.
	// Env: WORKERS_PROBE_INTERVAL
	ProbeInterval time.Duration `env:"PROBE_INTERVAL"`

	// AutoSync triggers a sync when connectivity comes back.
	// Env: WORKERS_AUTO_SYNC
	AutoSync bool `env:"AUTO_SYNC"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources. For every field the first
// source providing a non-zero value wins, in this order:
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withArgs(os.Args[1:]).
		withEnv().
		withFlags().
		withJSON().
		build()
}
