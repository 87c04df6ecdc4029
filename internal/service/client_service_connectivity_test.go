// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-finance-keeper/internal/config"
	"github.com/MKhiriev/go-finance-keeper/internal/logger"
	"github.com/MKhiriev/go-finance-keeper/internal/mock"
)

func newTestObserver(t *testing.T, ctrl *gomock.Controller) (*connectivityObserver, *mock.MockServerAdapter) {
	t.Helper()
	mockAdapter := mock.NewMockServerAdapter(ctrl)
	observer := NewConnectivityObserver(mockAdapter, config.Workers{ProbeInterval: 10 * time.Millisecond}, logger.Nop())
	return observer.(*connectivityObserver), mockAdapter
}

func TestConnectivityObserver_StartsOffline(t *testing.T) {
	observer, _ := newTestObserver(t, gomock.NewController(t))
	assert.False(t, observer.IsOnline())
}

func TestConnectivityObserver_Probe(t *testing.T) {
	ctrl := gomock.NewController(t)
	observer, mockAdapter := newTestObserver(t, ctrl)
	ctx := context.Background()

	gomock.InOrder(
		mockAdapter.EXPECT().Health(ctx).Return(nil),
		mockAdapter.EXPECT().Health(ctx).Return(transportError()),
	)

	assert.True(t, observer.Probe(ctx))
	assert.True(t, observer.IsOnline())

	assert.False(t, observer.Probe(ctx))
	assert.False(t, observer.IsOnline())
}

func TestConnectivityObserver_OnOnlineRunsOnTransitionOnly(t *testing.T) {
	observer, _ := newTestObserver(t, gomock.NewController(t))

	calls := make(chan struct{}, 4)
	observer.OnOnline(func(context.Context) { calls <- struct{}{} })

	observer.SetOnline(true)
	observer.SetOnline(true)
	observer.callbacks.Wait()
	assert.Len(t, calls, 1)

	observer.SetOnline(false)
	observer.SetOnline(true)
	observer.callbacks.Wait()
	assert.Len(t, calls, 2)
}

func TestConnectivityObserver_Subscribe(t *testing.T) {
	observer, _ := newTestObserver(t, gomock.NewController(t))

	status, cancel := observer.Subscribe()

	observer.SetOnline(true)
	observer.SetOnline(false)

	assert.True(t, <-status)
	assert.False(t, <-status)

	cancel()
	_, open := <-status
	assert.False(t, open)
}

func TestConnectivityObserver_Run(t *testing.T) {
	ctrl := gomock.NewController(t)
	observer, mockAdapter := newTestObserver(t, ctrl)

	mockAdapter.EXPECT().Health(gomock.Any()).Return(nil).MinTimes(1)

	reconnected := make(chan struct{}, 1)
	observer.OnOnline(func(ctx context.Context) {
		reconnected <- struct{}{}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- observer.Run(ctx) }()

	select {
	case <-reconnected:
	case <-time.After(time.Second):
		t.Fatal("reconnect callback was not called")
	}
	assert.True(t, observer.IsOnline())

	cancel()
	require.NoError(t, <-done)
}

func TestConnectivityObserver_Run_ServerDown(t *testing.T) {
	ctrl := gomock.NewController(t)
	observer, mockAdapter := newTestObserver(t, ctrl)

	mockAdapter.EXPECT().Health(gomock.Any()).Return(errors.New("down")).MinTimes(2)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	require.NoError(t, observer.Run(ctx))
	assert.False(t, observer.IsOnline())
}

func TestConnectivityObserver_NoCallbacksAfterRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	observer, mockAdapter := newTestObserver(t, ctrl)

	mockAdapter.EXPECT().Health(gomock.Any()).Return(transportError()).MinTimes(1)

	calls := make(chan struct{}, 1)
	observer.OnOnline(func(context.Context) { calls <- struct{}{} })

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	require.NoError(t, observer.Run(ctx))

	events, unsubscribe := observer.Subscribe()
	defer unsubscribe()

	observer.SetOnline(true)
	assert.True(t, observer.IsOnline())
	assert.True(t, <-events)
	assert.Empty(t, calls)
}

func TestConnectivityObserver_SetOnlineDuringShutdown(t *testing.T) {
	ctrl := gomock.NewController(t)
	observer, mockAdapter := newTestObserver(t, ctrl)

	mockAdapter.EXPECT().Health(gomock.Any()).Return(transportError()).AnyTimes()

	var calls atomic.Int32
	observer.OnOnline(func(context.Context) { calls.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- observer.Run(ctx) }()

	stop := make(chan struct{})
	flipped := make(chan struct{})
	go func() {
		defer close(flipped)
		for online := true; ; online = !online {
			select {
			case <-stop:
				return
			default:
				observer.SetOnline(online)
			}
		}
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	// Run waited for every callback it started
	started := calls.Load()
	time.Sleep(10 * time.Millisecond)
	close(stop)
	<-flipped
	assert.Equal(t, started, calls.Load())
}
