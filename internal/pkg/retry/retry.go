package retry

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"
)

// RetryConfig has no env defaults: tiers sharing the struct need different ones, so the config
// loader fills the zero values.
type RetryConfig struct {
	Attempts uint          `env:"ATTEMPTS"`
	Delay    time.Duration `env:"DELAY"`
	MaxDelay time.Duration `env:"MAX_DELAY"`
}

// ToRetryOptions builds options for a pure exponential backoff: the wait after attempt i
// (0-based) is Delay * 2^i, capped by MaxDelay when set. No jitter is added.
func (rc *RetryConfig) ToRetryOptions() []retry.Option {
	opts := []retry.Option{
		retry.Attempts(rc.Attempts),
		retry.Delay(rc.Delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	}
	if rc.MaxDelay > 0 {
		opts = append(opts, retry.MaxDelay(rc.MaxDelay))
	}
	return opts
}

// Do runs op until it succeeds or the attempts in cfg are exhausted, returning the last error.
// Every error is retried. onRetry, when non-nil, is called before each wait with the failed attempt index.
func Do[T any](
	ctx context.Context,
	cfg RetryConfig,
	op func(ctx context.Context) (T, error),
	onRetry func(attempt uint, err error),
	extra ...Option,
) (T, error) {
	if cfg.Attempts == 0 {
		// retry-go treats zero as "retry forever"
		cfg.Attempts = 1
	}

	opts := append(cfg.ToRetryOptions(), retry.Context(ctx))
	if onRetry != nil {
		opts = append(opts, retry.OnRetry(onRetry))
	}
	opts = append(opts, extra...)

	return retry.DoWithData(func() (T, error) {
		return op(ctx)
	}, opts...)
}

// Option tunes a single Do call
type Option = retry.Option

// Timer lets callers observe or skip the backoff sleeps
type Timer = retry.Timer

// WithTimer replaces the timer used between attempts
func WithTimer(t Timer) Option {
	return retry.WithTimer(t)
}
