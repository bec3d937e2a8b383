package notify

import (
	"context"
	"strings"
	"sync"
	"time"

	"delivery-realtime/internal/apperr"
	"delivery-realtime/internal/domain"
	"delivery-realtime/internal/logx"
)

// Send result reasons
const (
	ReasonNoDevice      = "NO_DEVICE"
	ReasonNoTemplate    = "NO_TEMPLATE"
	ReasonProviderError = "PROVIDER_ERROR"
)

// SendResult is the outcome of one dispatch. Sent=false with a reason is an
// expected state, not an error.
type SendResult struct {
	Sent   bool
	Reason string
}

// Dispatcher mirrors selected domain events to a per-subscriber out-of-band
// push channel, independent of whether a live connection exists. It owns the
// device registration table exclusively.
type Dispatcher struct {
	provider Provider
	logger   logx.Logger
	history  *history
	now      func() time.Time

	mu      sync.RWMutex
	devices map[string]domain.DeviceRegistration
}

// NewDispatcher creates a Dispatcher keeping the most recent historySize
// dispatch attempts for audit.
func NewDispatcher(provider Provider, logger logx.Logger, historySize int) *Dispatcher {
	return &Dispatcher{
		provider: provider,
		logger:   logger,
		history:  newHistory(historySize),
		now:      func() time.Time { return time.Now().UTC() },
		devices:  make(map[string]domain.DeviceRegistration),
	}
}

// RegisterDevice stores the push target for an identity. Registering again for
// the same identity replaces the prior registration.
func (d *Dispatcher) RegisterDevice(identityID, pushToken string, platform domain.Platform) error {
	identityID = strings.TrimSpace(identityID)
	pushToken = strings.TrimSpace(pushToken)
	if identityID == "" || pushToken == "" || !platform.Valid() {
		return apperr.ErrInvalid
	}
	d.mu.Lock()
	d.devices[identityID] = domain.DeviceRegistration{
		IdentityID:   identityID,
		PushToken:    pushToken,
		Platform:     platform,
		RegisteredAt: d.now(),
	}
	d.mu.Unlock()
	return nil
}

// UnregisterDevice drops the identity's registration, if any.
func (d *Dispatcher) UnregisterDevice(identityID string) {
	d.mu.Lock()
	delete(d.devices, identityID)
	d.mu.Unlock()
}

// Device returns the identity's current registration.
func (d *Dispatcher) Device(identityID string) (domain.DeviceRegistration, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	reg, ok := d.devices[identityID]
	return reg, ok
}

// Dispatch renders the event for the identity and hands it to the provider.
// A missing device registration yields SendResult{Sent:false, NO_DEVICE} with
// no error. A provider failure is reported in the result and returned so the
// caller can log it; it never aborts the caller's fan-out.
func (d *Dispatcher) Dispatch(ctx context.Context, identityID string, ev domain.Event) (SendResult, error) {
	reg, ok := d.Device(identityID)
	if !ok {
		res := SendResult{Sent: false, Reason: ReasonNoDevice}
		d.record(identityID, template{}, res)
		return res, nil
	}

	tpl, ok := render(ev)
	if !ok {
		res := SendResult{Sent: false, Reason: ReasonNoTemplate}
		d.record(identityID, tpl, res)
		return res, nil
	}

	err := d.provider.Push(ctx, Notification{
		IdentityID: identityID,
		PushToken:  reg.PushToken,
		Platform:   reg.Platform,
		Title:      tpl.Title,
		Body:       tpl.Body,
		Event:      ev,
	})
	if err != nil {
		res := SendResult{Sent: false, Reason: ReasonProviderError}
		d.record(identityID, tpl, res)
		return res, err
	}

	res := SendResult{Sent: true}
	d.record(identityID, tpl, res)
	return res, nil
}

// History returns the recorded dispatch attempts, oldest first.
func (d *Dispatcher) History() []HistoryEntry {
	return d.history.recent()
}

func (d *Dispatcher) record(identityID string, tpl template, res SendResult) {
	d.history.record(HistoryEntry{
		IdentityID: identityID,
		Title:      tpl.Title,
		Body:       tpl.Body,
		Sent:       res.Sent,
		Reason:     res.Reason,
		At:         d.now(),
	})
}
