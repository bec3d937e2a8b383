package push_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"delivery-realtime/internal/gateway/push"
	"delivery-realtime/internal/logx"
	"delivery-realtime/internal/service/notify"
)

type flakyProvider struct {
	mu       sync.Mutex
	failures int
	calls    int
	err      error
}

func (p *flakyProvider) Push(_ context.Context, _ notify.Notification) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.calls <= p.failures {
		return p.err
	}
	return nil
}

func (p *flakyProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type countingCounter struct {
	mu sync.Mutex
	n  int
}

func (c *countingCounter) Inc() {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
}

func (c *countingCounter) value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

func fastRetryConfig() push.RetryConfig {
	return push.RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
}

func TestRetryingProvider_SucceedsAfterTransientFailures(t *testing.T) {
	t.Parallel()

	next := &flakyProvider{failures: 2, err: errors.New("broker unavailable")}
	retries := &countingCounter{}
	p := push.NewRetryingProvider(next, logx.Nop(), retries, fastRetryConfig())

	err := p.Push(context.Background(), notify.Notification{IdentityID: "cust_1"})
	require.NoError(t, err)
	require.Equal(t, 3, next.callCount())
	require.Equal(t, 2, retries.value())
}

func TestRetryingProvider_GivesUpAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("broker unavailable")
	next := &flakyProvider{failures: 10, err: wantErr}
	p := push.NewRetryingProvider(next, logx.Nop(), nil, fastRetryConfig())

	err := p.Push(context.Background(), notify.Notification{IdentityID: "cust_1"})
	require.ErrorIs(t, err, wantErr)
	require.Equal(t, 3, next.callCount())
}

func TestRetryingProvider_PermanentErrorStopsRetrying(t *testing.T) {
	t.Parallel()

	wantErr := push.Permanent(errors.New("unknown device token"))
	next := &flakyProvider{failures: 10, err: wantErr}
	p := push.NewRetryingProvider(next, logx.Nop(), nil, fastRetryConfig())

	err := p.Push(context.Background(), notify.Notification{IdentityID: "cust_1"})
	require.Error(t, err)
	require.Equal(t, 1, next.callCount())

	var perm push.PermanentError
	require.ErrorAs(t, err, &perm)
}

func TestRetryingProvider_CanceledContextStopsRetrying(t *testing.T) {
	t.Parallel()

	next := &flakyProvider{failures: 10, err: errors.New("broker unavailable")}
	p := push.NewRetryingProvider(next, logx.Nop(), nil, fastRetryConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Push(ctx, notify.Notification{IdentityID: "cust_1"})
	require.Error(t, err)
	require.Equal(t, 1, next.callCount())
}

func TestRetryingProvider_NilNext(t *testing.T) {
	t.Parallel()

	require.Nil(t, push.NewRetryingProvider(nil, logx.Nop(), nil, fastRetryConfig()))
}

func TestDevProvider_RecordsPushes(t *testing.T) {
	t.Parallel()

	p := push.NewDevProvider()

	n := notify.Notification{IdentityID: "cust_1", Title: "Order received"}
	require.NoError(t, p.Push(context.Background(), n))
	require.Equal(t, []notify.Notification{n}, p.Pushes())

	wantErr := errors.New("simulated outage")
	p.FailWith(wantErr)
	require.ErrorIs(t, p.Push(context.Background(), n), wantErr)
	require.Len(t, p.Pushes(), 1)
}
