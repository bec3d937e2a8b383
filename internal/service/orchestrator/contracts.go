//go:generate mockgen -source=contracts.go -destination=orchestrator_mocks_test.go -package=orchestrator_test

package orchestrator

import (
	"context"

	"delivery-realtime/internal/domain"
	"delivery-realtime/internal/realtime/broadcast"
	"delivery-realtime/internal/service/notify"
)

// Publisher fans a domain event out to live connections.
type Publisher interface {
	Publish(ctx context.Context, event domain.Event, rooms []domain.RoomKey) broadcast.DeliveryReport
}

// Dispatcher mirrors an event to a subscriber's push channel.
type Dispatcher interface {
	Dispatch(ctx context.Context, identityID string, ev domain.Event) (notify.SendResult, error)
}

// RoomCloser releases a room once it is no longer needed.
type RoomCloser interface {
	CloseRoom(room domain.RoomKey)
}
