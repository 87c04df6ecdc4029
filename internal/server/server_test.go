// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-finance-keeper/internal/config"
	"github.com/MKhiriev/go-finance-keeper/internal/handler"
	myHTTP "github.com/MKhiriev/go-finance-keeper/internal/handler/http"
	"github.com/MKhiriev/go-finance-keeper/internal/logger"
)

func TestNewServer(t *testing.T) {
	handlers := &handler.Handlers{HTTP: myHTTP.NewHandler(nil, "test", logger.Nop())}

	s, err := NewServer(handlers, config.Server{HTTPAddress: "localhost:0", RequestTimeout: time.Second}, logger.Nop())
	require.NoError(t, err)
	assert.NotNil(t, s)

	_, err = NewServer(&handler.Handlers{}, config.Server{HTTPAddress: "localhost:0"}, logger.Nop())
	assert.ErrorIs(t, err, errNoServersAreCreated)
}

func TestHTTPServer_RequestTimeout(t *testing.T) {
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	s := newHTTPServer(slow, config.Server{HTTPAddress: "localhost:0", RequestTimeout: 20 * time.Millisecond}, logger.Nop())

	rr := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestHTTPServer_ShutdownBeforeRun(t *testing.T) {
	s := newHTTPServer(http.NotFoundHandler(), config.Server{HTTPAddress: "localhost:0", RequestTimeout: time.Second}, logger.Nop())

	assert.NotPanics(t, s.Shutdown)
}
