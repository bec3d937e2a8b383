package push

import (
	"context"
	"errors"
	"time"

	"delivery-realtime/internal/logx"
	"delivery-realtime/internal/service/notify"
)

// RetryConfig describes RetryingProvider behavior.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// PermanentError marks a push failure that retrying cannot fix.
type PermanentError struct {
	Err error
}

func (e PermanentError) Error() string {
	if e.Err == nil {
		return "permanent error"
	}
	return e.Err.Error()
}

func (e PermanentError) Unwrap() error { return e.Err }

// Permanent returns a permanent error.
func Permanent(err error) error {
	return PermanentError{Err: err}
}

// RetryingProvider wraps a Provider with bounded exponential backoff.
type RetryingProvider struct {
	next    notify.Provider
	logger  logx.Logger
	retries counter
	cfg     RetryConfig
}

// NewRetryingProvider validates next and wraps it.
func NewRetryingProvider(next notify.Provider, logger logx.Logger, retries counter, cfg RetryConfig) *RetryingProvider {
	if next == nil {
		return nil
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	return &RetryingProvider{next: next, logger: logger, retries: retries, cfg: cfg}
}

// Push delivers with retries; permanent errors and context cancellation stop
// the attempts early.
func (p *RetryingProvider) Push(ctx context.Context, n notify.Notification) error {
	var lastErr error
	for attempt := 1; attempt <= p.cfg.MaxAttempts; attempt++ {
		err := p.next.Push(ctx, n)
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil || attempt == p.cfg.MaxAttempts || !isRetryable(err) {
			break
		}

		delay := backoff(p.cfg.BaseDelay, p.cfg.MaxDelay, attempt)
		if p.retries != nil {
			p.retries.Inc()
		}
		p.logger.Warn("push provider retry",
			logx.String("identity_id", n.IdentityID),
			logx.Int("attempt", attempt),
			logx.Duration("delay", delay),
			logx.Err(err),
		)
		if !sleepWithContext(ctx, delay) {
			break
		}
	}
	return lastErr
}

func isRetryable(err error) bool {
	var perm PermanentError
	if errors.As(err, &perm) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}

// backoff computes the retry delay
func backoff(base, max time.Duration, attempt int) time.Duration {
	if base <= 0 {
		base = 100 * time.Millisecond
	}
	d := base << (attempt - 1)
	if max > 0 && d > max {
		return max
	}
	return d
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

var _ notify.Provider = (*RetryingProvider)(nil)
