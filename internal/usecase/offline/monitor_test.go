package offline

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

// scriptedProber answers from a fixed sequence of reachability states
type scriptedProber struct {
	states []bool
	calls  int
}

func (p *scriptedProber) Ping(context.Context) error {
	state := p.states[len(p.states)-1]
	if p.calls < len(p.states) {
		state = p.states[p.calls]
	}
	p.calls++
	if !state {
		return errors.New("connection refused")
	}
	return nil
}

func TestMonitor_ReconnectCallbackOnTransitions(t *testing.T) {
	prober := &scriptedProber{states: []bool{false, true, true, false, true}}
	m := NewMonitor(prober, time.Minute, time.Millisecond, zaptest.NewLogger(t))

	reconnects := 0
	onReconnect := func(context.Context) { reconnects++ }

	for range prober.states {
		m.tick(context.Background(), onReconnect)
	}

	if reconnects != 2 {
		t.Errorf("expected 2 reconnects, got %d", reconnects)
	}
}

func TestMonitor_OnlineUsesCachedProbe(t *testing.T) {
	prober := &scriptedProber{states: []bool{true, false}}
	m := NewMonitor(prober, time.Minute, time.Hour, zaptest.NewLogger(t))

	if !m.Online() {
		t.Fatal("expected online after first probe")
	}
	if !m.Online() {
		t.Error("expected cached online state")
	}
	if prober.calls != 1 {
		t.Errorf("expected a single probe, got %d", prober.calls)
	}

	if m.Check(context.Background()) {
		t.Error("expected explicit check to observe the outage")
	}
	if m.Online() {
		t.Error("expected cached offline state after the check")
	}
}

func TestMonitor_RunStopsOnCancel(t *testing.T) {
	prober := &scriptedProber{states: []bool{true}}
	m := NewMonitor(prober, time.Millisecond, time.Millisecond, zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	reconnected := make(chan struct{}, 1)

	done := make(chan error)
	go func() {
		done <- m.Run(ctx, func(context.Context) {
			select {
			case reconnected <- struct{}{}:
			default:
			}
		})
	}()

	select {
	case <-reconnected:
	case <-time.After(time.Second):
		t.Fatal("expected a reconnect on the first successful probe")
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestMonitor_OnlineReprobesAfterExpiry(t *testing.T) {
	prober := &scriptedProber{states: []bool{true, false}}
	m := NewMonitor(prober, time.Minute, 5*time.Millisecond, zaptest.NewLogger(t))

	if !m.Online() {
		t.Fatal("expected online after first probe")
	}

	time.Sleep(20 * time.Millisecond)

	if m.Online() {
		t.Error("expected the expired status to be probed again")
	}
	if prober.calls != 2 {
		t.Errorf("expected 2 probes, got %d", prober.calls)
	}
}
