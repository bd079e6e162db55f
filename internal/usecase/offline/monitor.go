package offline

import (
	"context"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const onlineKey = "remote_online"

// Monitor tracks remote store reachability and fires a callback on every offline to online transition
type Monitor struct {
	prober    Prober
	status    *cache.Cache
	interval  time.Duration
	ttl       time.Duration
	wasOnline bool
	logger    *zap.Logger
}

func NewMonitor(prober Prober, interval, ttl time.Duration, logger *zap.Logger) *Monitor {
	return &Monitor{
		prober:   prober,
		// no janitor goroutine: expiry is checked on Get
		status:   cache.New(ttl, 0),
		interval: interval,
		ttl:      ttl,
		logger:   logger,
	}
}

// Check probes the remote store and caches the outcome
func (m *Monitor) Check(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, m.ttl)
	defer cancel()

	online := m.prober.Ping(probeCtx) == nil
	m.status.Set(onlineKey, online, cache.DefaultExpiration)
	return online
}

// Online returns the cached reachability, probing when the cached value expired
func (m *Monitor) Online() bool {
	if v, ok := m.status.Get(onlineKey); ok {
		return v.(bool)
	}
	return m.Check(context.Background())
}

// Run probes every interval until ctx is done. onReconnect runs on the monitor goroutine after
// each offline to online transition, including the first successful probe.
func (m *Monitor) Run(ctx context.Context, onReconnect func(ctx context.Context)) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.tick(ctx, onReconnect)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.tick(ctx, onReconnect)
		}
	}
}

func (m *Monitor) tick(ctx context.Context, onReconnect func(ctx context.Context)) {
	online := m.Check(ctx)
	defer func() { m.wasOnline = online }()

	switch {
	case online && !m.wasOnline:
		ctxzap.Info(ctx, "remote store reachable, reconciling")
		onReconnect(ctx)
	case !online && m.wasOnline:
		ctxzap.Warn(ctx, "remote store unreachable, writes stay local")
	}
}
