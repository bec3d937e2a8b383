package notify_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"delivery-realtime/internal/apperr"
	"delivery-realtime/internal/domain"
	"delivery-realtime/internal/logx"
	"delivery-realtime/internal/service/notify"
)

type stubProvider struct {
	mu     sync.Mutex
	pushes []notify.Notification
	err    error
}

func (p *stubProvider) Push(_ context.Context, n notify.Notification) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.pushes = append(p.pushes, n)
	return nil
}

func (p *stubProvider) sent() []notify.Notification {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]notify.Notification, len(p.pushes))
	copy(out, p.pushes)
	return out
}

func TestDispatcher_RegisterDevice_Validation(t *testing.T) {
	t.Parallel()

	d := notify.NewDispatcher(&stubProvider{}, logx.Nop(), 10)

	require.NoError(t, d.RegisterDevice("cust_1", "tok-1", domain.PlatformIOS))

	cases := []struct {
		name       string
		identityID string
		token      string
		platform   domain.Platform
	}{
		{"empty identity", "", "tok", domain.PlatformIOS},
		{"empty token", "cust_1", "", domain.PlatformIOS},
		{"blank token", "cust_1", "   ", domain.PlatformIOS},
		{"bad platform", "cust_1", "tok", "symbian"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := d.RegisterDevice(tc.identityID, tc.token, tc.platform)
			require.True(t, errors.Is(err, apperr.ErrInvalid))
		})
	}
}

func TestDispatcher_RegisterDevice_Replaces(t *testing.T) {
	t.Parallel()

	d := notify.NewDispatcher(&stubProvider{}, logx.Nop(), 10)

	require.NoError(t, d.RegisterDevice("cust_1", "tok-old", domain.PlatformAndroid))
	require.NoError(t, d.RegisterDevice("cust_1", "tok-new", domain.PlatformIOS))

	reg, ok := d.Device("cust_1")
	require.True(t, ok)
	require.Equal(t, "tok-new", reg.PushToken)
	require.Equal(t, domain.PlatformIOS, reg.Platform)
}

func TestDispatcher_UnregisterDevice(t *testing.T) {
	t.Parallel()

	d := notify.NewDispatcher(&stubProvider{}, logx.Nop(), 10)
	require.NoError(t, d.RegisterDevice("cust_1", "tok", domain.PlatformWeb))

	d.UnregisterDevice("cust_1")
	_, ok := d.Device("cust_1")
	require.False(t, ok)

	// unknown identity is a no-op
	d.UnregisterDevice("ghost")
}

func TestDispatcher_Dispatch_NoDevice(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{}
	d := notify.NewDispatcher(provider, logx.Nop(), 10)

	res, err := d.Dispatch(context.Background(), "cust_1", domain.Event{Type: domain.EventOrderCreated, OrderID: "o1"})
	require.NoError(t, err, "a missing device is an expected outcome")
	require.False(t, res.Sent)
	require.Equal(t, notify.ReasonNoDevice, res.Reason)
	require.Empty(t, provider.sent())
}

func TestDispatcher_Dispatch_RendersStatusTemplate(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{}
	d := notify.NewDispatcher(provider, logx.Nop(), 10)
	require.NoError(t, d.RegisterDevice("cust_1", "tok-1", domain.PlatformIOS))

	ev := domain.Event{
		Type:           domain.EventOrderStatus,
		OrderID:        "order_1",
		PreviousStatus: domain.StatusAccepted,
		NewStatus:      domain.StatusInProgress,
	}
	res, err := d.Dispatch(context.Background(), "cust_1", ev)
	require.NoError(t, err)
	require.True(t, res.Sent)

	pushes := provider.sent()
	require.Len(t, pushes, 1)
	require.Equal(t, "cust_1", pushes[0].IdentityID)
	require.Equal(t, "tok-1", pushes[0].PushToken)
	require.Equal(t, domain.PlatformIOS, pushes[0].Platform)
	require.Equal(t, "Order update", pushes[0].Title)
	require.Equal(t, "Your order is being prepared", pushes[0].Body)
	require.Equal(t, ev, pushes[0].Event)
}

func TestDispatcher_Dispatch_NoTemplate(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{}
	d := notify.NewDispatcher(provider, logx.Nop(), 10)
	require.NoError(t, d.RegisterDevice("courier_1", "tok", domain.PlatformAndroid))

	// location events are live-only, they never become pushes
	res, err := d.Dispatch(context.Background(), "courier_1", domain.Event{Type: domain.EventCourierLocation})
	require.NoError(t, err)
	require.False(t, res.Sent)
	require.Equal(t, notify.ReasonNoTemplate, res.Reason)
	require.Empty(t, provider.sent())
}

func TestDispatcher_Dispatch_ProviderError(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{err: errors.New("broker unavailable")}
	d := notify.NewDispatcher(provider, logx.Nop(), 10)
	require.NoError(t, d.RegisterDevice("cust_1", "tok", domain.PlatformWeb))

	res, err := d.Dispatch(context.Background(), "cust_1", domain.Event{Type: domain.EventOrderCreated})
	require.Error(t, err)
	require.False(t, res.Sent)
	require.Equal(t, notify.ReasonProviderError, res.Reason)
}

func TestDispatcher_History_OldestFirstAndBounded(t *testing.T) {
	t.Parallel()

	d := notify.NewDispatcher(&stubProvider{}, logx.Nop(), 3)
	require.NoError(t, d.RegisterDevice("cust_1", "tok", domain.PlatformIOS))

	for i := 0; i < 5; i++ {
		_, err := d.Dispatch(context.Background(), "cust_1", domain.Event{
			Type:    domain.EventOrderCreated,
			OrderID: fmt.Sprintf("order_%d", i),
		})
		require.NoError(t, err)
	}

	entries := d.History()
	require.Len(t, entries, 3, "history keeps the most recent N attempts")
	for _, e := range entries {
		require.True(t, e.Sent)
		require.Equal(t, "cust_1", e.IdentityID)
	}
	require.False(t, entries[0].At.After(entries[2].At), "entries come oldest first")
}
