package retry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// recordingTimer fires immediately and remembers every requested delay.
type recordingTimer struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (t *recordingTimer) After(d time.Duration) <-chan time.Time {
	t.mu.Lock()
	t.delays = append(t.delays, d)
	t.mu.Unlock()

	ch := make(chan time.Time, 1)
	ch <- time.Now()
	return ch
}

func TestDo_ExponentialBackoffDelays(t *testing.T) {
	tests := []struct {
		name     string
		cfg      RetryConfig
		expected []time.Duration
	}{
		{
			name:     "primary tier",
			cfg:      RetryConfig{Attempts: 3, Delay: 1000 * time.Millisecond},
			expected: []time.Duration{1000 * time.Millisecond, 2000 * time.Millisecond},
		},
		{
			name:     "secondary tier",
			cfg:      RetryConfig{Attempts: 2, Delay: 1500 * time.Millisecond},
			expected: []time.Duration{1500 * time.Millisecond},
		},
		{
			name:     "single attempt never waits",
			cfg:      RetryConfig{Attempts: 1, Delay: time.Second},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			timer := &recordingTimer{}
			calls := 0

			_, err := Do(context.Background(), tt.cfg, func(ctx context.Context) (int, error) {
				calls++
				return 0, errors.New("boom")
			}, nil, WithTimer(timer))
			if err == nil {
				t.Fatal("expected error after exhausting attempts")
			}

			if calls != int(tt.cfg.Attempts) {
				t.Errorf("expected %d calls, got %d", tt.cfg.Attempts, calls)
			}
			if len(timer.delays) != len(tt.expected) {
				t.Fatalf("expected %d delays, got %v", len(tt.expected), timer.delays)
			}
			for i, d := range tt.expected {
				if timer.delays[i] != d {
					t.Errorf("delay %d: expected %v, got %v", i, d, timer.delays[i])
				}
			}
		})
	}
}

func TestDo_StopsOnFirstSuccess(t *testing.T) {
	timer := &recordingTimer{}
	calls := 0

	got, err := Do(context.Background(), RetryConfig{Attempts: 3, Delay: time.Second}, func(ctx context.Context) (string, error) {
		calls++
		if calls < 2 {
			return "", errors.New("transient")
		}
		return "ok", nil
	}, nil, WithTimer(timer))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" {
		t.Errorf("expected ok, got %q", got)
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
	if len(timer.delays) != 1 || timer.delays[0] != time.Second {
		t.Errorf("expected a single 1s delay, got %v", timer.delays)
	}
}

func TestDo_ReturnsLastError(t *testing.T) {
	last := errors.New("third")
	errs := []error{errors.New("first"), errors.New("second"), last}
	calls := 0

	_, err := Do(context.Background(), RetryConfig{Attempts: 3, Delay: time.Millisecond}, func(ctx context.Context) (int, error) {
		e := errs[calls]
		calls++
		return 0, e
	}, nil, WithTimer(&recordingTimer{}))

	if !errors.Is(err, last) {
		t.Errorf("expected last error, got %v", err)
	}
}

func TestDo_OnRetryCalledPerFailure(t *testing.T) {
	var attempts []uint

	_, _ = Do(context.Background(), RetryConfig{Attempts: 3, Delay: time.Millisecond}, func(ctx context.Context) (int, error) {
		return 0, errors.New("boom")
	}, func(attempt uint, err error) {
		attempts = append(attempts, attempt)
	}, WithTimer(&recordingTimer{}))

	// the callback fires for each failure that is followed by a wait, and may also fire for the last one
	if len(attempts) < 2 {
		t.Fatalf("expected at least 2 retry callbacks, got %v", attempts)
	}
	for i, a := range attempts {
		if a != uint(i) {
			t.Errorf("callback %d: expected attempt %d, got %d", i, i, a)
		}
	}
}

func TestDo_ZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), RetryConfig{}, func(ctx context.Context) (int, error) {
		calls++
		return 0, errors.New("boom")
	}, nil, WithTimer(&recordingTimer{}))
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("expected exactly one call, got %d", calls)
	}
}
