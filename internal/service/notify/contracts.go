//go:generate mockgen -source=contracts.go -destination=notify_mocks_test.go -package=notify_test

package notify

import (
	"context"

	"delivery-realtime/internal/domain"
)

// Notification is one rendered push handed to a provider.
type Notification struct {
	IdentityID string          `json:"identity_id"`
	PushToken  string          `json:"push_token"`
	Platform   domain.Platform `json:"platform"`
	Title      string          `json:"title"`
	Body       string          `json:"body"`
	Event      domain.Event    `json:"event"`
}

// Provider delivers a rendered notification to the push transport. A mock/dev
// provider and the production provider are interchangeable behind this port.
type Provider interface {
	Push(ctx context.Context, n Notification) error
}
