package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-finance-keeper/internal/config"
	"github.com/MKhiriev/go-finance-keeper/internal/logger"
)

// HealthChecker is the part of the server adapter the observer needs.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// connectivityObserver starts offline. The first successful probe is an
// offline to online transition and so triggers the reconnect callbacks.
type connectivityObserver struct {
	health   HealthChecker
	interval time.Duration
	logger   *logger.Logger

	mu        sync.Mutex
	online    bool
	onOnline  []func(ctx context.Context)
	runCtx    context.Context
	stopped   bool
	callbacks sync.WaitGroup

	events *broadcaster[bool]
}

func NewConnectivityObserver(health HealthChecker, workersCfg config.Workers, logger *logger.Logger) ConnectivityObserver {
	interval := workersCfg.ProbeInterval
	if interval <= 0 {
		interval = config.DefaultProbeInterval
	}

	return &connectivityObserver{
		health:   health,
		interval: interval,
		logger:   logger,
		runCtx:   context.Background(),
		events:   newBroadcaster[bool](),
	}
}

func (o *connectivityObserver) IsOnline() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.online
}

// SetOnline never cancels work in flight; going offline only changes the
// reported status. Reconnect callbacks are skipped once Run has returned.
func (o *connectivityObserver) SetOnline(online bool) {
	o.mu.Lock()
	if o.online == online {
		o.mu.Unlock()
		return
	}
	o.online = online

	var callbacks []func(ctx context.Context)
	if online && !o.stopped {
		callbacks = append(callbacks, o.onOnline...)
	}
	ctx := o.runCtx
	o.callbacks.Add(len(callbacks))
	o.mu.Unlock()

	o.logger.Info().Str("func", "connectivityObserver.SetOnline").Bool("online", online).Msg("connectivity changed")
	o.events.publish(online)

	for _, fn := range callbacks {
		go func() {
			defer o.callbacks.Done()
			fn(ctx)
		}()
	}
}

func (o *connectivityObserver) Probe(ctx context.Context) bool {
	err := o.health.Health(ctx)
	if err != nil {
		o.logger.Debug().Err(err).Str("func", "connectivityObserver.Probe").Msg("server unreachable")
	}

	online := err == nil
	o.SetOnline(online)
	return online
}

func (o *connectivityObserver) OnOnline(fn func(ctx context.Context)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.onOnline = append(o.onOnline, fn)
}

func (o *connectivityObserver) Subscribe() (<-chan bool, func()) {
	return o.events.subscribe()
}

// Run probes immediately and then every probe interval until ctx is done.
// It waits for running reconnect callbacks before returning.
func (o *connectivityObserver) Run(ctx context.Context) error {
	o.mu.Lock()
	o.runCtx = ctx
	o.stopped = false
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.stopped = true
		o.mu.Unlock()
		o.callbacks.Wait()
	}()

	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	o.Probe(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			o.Probe(ctx)
		}
	}
}
