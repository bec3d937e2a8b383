//go:generate mockgen -source=contracts.go -destination=location_mocks_test.go -package=location_test

package location

import (
	"context"

	"delivery-realtime/internal/domain"
	"delivery-realtime/internal/realtime/broadcast"
)

// Publisher fans a domain event out to the given rooms.
type Publisher interface {
	Publish(ctx context.Context, event domain.Event, rooms []domain.RoomKey) broadcast.DeliveryReport
}

// Limiter bounds how often a key may proceed.
type Limiter interface {
	Allow(key string) bool
}
