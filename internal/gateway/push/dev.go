package push

import (
	"context"
	"sync"

	"delivery-realtime/internal/service/notify"
)

// DevProvider records pushes in memory. It stands in for the production
// provider in development and tests.
type DevProvider struct {
	mu     sync.Mutex
	pushes []notify.Notification
	err    error
}

// NewDevProvider creates a DevProvider.
func NewDevProvider() *DevProvider { return &DevProvider{} }

// Push records the notification.
func (p *DevProvider) Push(_ context.Context, n notify.Notification) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.pushes = append(p.pushes, n)
	return nil
}

// Pushes returns a copy of every recorded notification.
func (p *DevProvider) Pushes() []notify.Notification {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]notify.Notification, len(p.pushes))
	copy(out, p.pushes)
	return out
}

// FailWith makes every subsequent Push return err.
func (p *DevProvider) FailWith(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
}

var _ notify.Provider = (*DevProvider)(nil)
