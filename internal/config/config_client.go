// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"time"

	"dario.cat/mergo"
)

// Defaults applied by [GetClientConfig] and [GetServerConfig] to every field
// left empty by the environment, flags and the JSON file.
const (
	DefaultAdapterAddress     = "http://localhost:5000/api"
	DefaultRequestTimeout     = 15 * time.Second
	DefaultSyncTimeout        = 30 * time.Second
	DefaultSyncInterval       = 5 * time.Minute
	DefaultProbeInterval      = 10 * time.Second
	DefaultDSN                = "finance-keeper.db"
	DefaultServerAddress      = "localhost:5000"
	DefaultTokenIssuer        = "finance-keeper"
	DefaultTokenDuration      = 24 * time.Hour
	DefaultServerRequestLimit = 30 * time.Second
)

// ClientConfig is the subset of [StructuredConfig] consumed by the terminal
// client.
type ClientConfig struct {
	App     App
	Storage Storage
	Adapter Adapter
	Workers Workers
}

// ServerConfig is the subset of [StructuredConfig] consumed by the
// development server.
type ServerConfig struct {
	App    App
	Server Server
}

// GetClientConfig loads the structured configuration, fills in client
// defaults and validates the result.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, err
	}

	return NewClientConfig(cfg)
}

// NewClientConfig builds a validated [ClientConfig] from an already merged
// structured configuration.
func NewClientConfig(cfg *StructuredConfig) (*ClientConfig, error) {
	clientCfg := &ClientConfig{
		App:     cfg.App,
		Storage: cfg.Storage,
		Adapter: cfg.Adapter,
		Workers: cfg.Workers,
	}

	defaults := ClientConfig{
		Storage: Storage{DB: DB{DSN: DefaultDSN}},
		Adapter: Adapter{
			HTTPAddress:    DefaultAdapterAddress,
			RequestTimeout: DefaultRequestTimeout,
		},
		Workers: Workers{
			SyncInterval:  DefaultSyncInterval,
			SyncTimeout:   DefaultSyncTimeout,
			ProbeInterval: DefaultProbeInterval,
		},
	}
	if err := mergo.Merge(clientCfg, defaults); err != nil {
		return nil, fmt.Errorf("error applying client defaults: %w", err)
	}

	if err := clientCfg.validate(); err != nil {
		return nil, err
	}

	return clientCfg, nil
}

// GetServerConfig loads the structured configuration, fills in development
// server defaults and validates the result.
func GetServerConfig() (*ServerConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, err
	}

	return NewServerConfig(cfg)
}

// NewServerConfig builds a validated [ServerConfig] from an already merged
// structured configuration. The token sign key has no default.
func NewServerConfig(cfg *StructuredConfig) (*ServerConfig, error) {
	serverCfg := &ServerConfig{
		App:    cfg.App,
		Server: cfg.Server,
	}

	defaults := ServerConfig{
		App: App{
			TokenIssuer:   DefaultTokenIssuer,
			TokenDuration: DefaultTokenDuration,
		},
		Server: Server{
			HTTPAddress:    DefaultServerAddress,
			RequestTimeout: DefaultServerRequestLimit,
		},
	}
	if err := mergo.Merge(serverCfg, defaults); err != nil {
		return nil, fmt.Errorf("error applying server defaults: %w", err)
	}

	if err := serverCfg.validate(); err != nil {
		return nil, err
	}

	return serverCfg, nil
}
