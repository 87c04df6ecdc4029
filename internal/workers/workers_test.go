// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockWorker is a test implementation of the Worker interface
// that tracks how many times Run was called.
type mockWorker struct {
	runCount atomic.Int32
	block    bool
	err      error
}

func (m *mockWorker) Run(ctx context.Context) error {
	m.runCount.Add(1)
	if m.block {
		<-ctx.Done()
	}
	return m.err
}

func TestWorkers_Run_AllWorkersAreCalled(t *testing.T) {
	w1 := &mockWorker{}
	w2 := &mockWorker{}
	w3 := &mockWorker{}

	ws := New(w1, w2, w3)
	require.NoError(t, ws.Run(context.Background()))

	for i, w := range []*mockWorker{w1, w2, w3} {
		assert.Equal(t, int32(1), w.runCount.Load(), "worker[%d]", i)
	}
}

func TestWorkers_Run_Empty(t *testing.T) {
	assert.NoError(t, New().Run(context.Background()))
}

func TestWorkers_Run_Nil(t *testing.T) {
	ws := &Workers{}
	assert.NoError(t, ws.Run(context.Background()))
}

func TestWorkers_Run_BlocksUntilCancelled(t *testing.T) {
	w := &mockWorker{block: true}
	ws := New(w)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ws.Run(ctx) }()

	select {
	case <-done:
		t.Fatal("Run returned before the context was cancelled")
	case <-time.After(20 * time.Millisecond):
	}

	cancel()
	require.NoError(t, <-done)
}

func TestWorkers_Run_ErrorStopsOthers(t *testing.T) {
	errBoom := errors.New("boom")
	blocking := &mockWorker{block: true}

	ws := New(blocking)
	ws.Add(&mockWorker{err: errBoom})

	err := ws.Run(context.Background())
	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, int32(1), blocking.runCount.Load())
}

func TestWorkerFunc(t *testing.T) {
	called := false
	var w Worker = WorkerFunc(func(context.Context) error {
		called = true
		return nil
	})

	require.NoError(t, w.Run(context.Background()))
	assert.True(t, called)
}
