package handlers

import (
	"context"

	"delivery-realtime/internal/domain"
	"delivery-realtime/internal/service/notify"
)

// TokenVerifier validates a bearer token from the Authorization header.
type TokenVerifier interface {
	Verify(rawToken string) (domain.Identity, error)
}

// DeviceService is the device registration surface of the notification dispatcher.
type DeviceService interface {
	RegisterDevice(identityID, pushToken string, platform domain.Platform) error
	UnregisterDevice(identityID string)
	History() []notify.HistoryEntry
}

// OrderSource resolves the current state of an order.
type OrderSource interface {
	Get(ctx context.Context, orderID string) (*domain.Order, error)
}

// LocationSource reads courier location and presence state.
type LocationSource interface {
	LastKnown(courierID string) (domain.LocationReport, bool)
	Presence(courierID string) (domain.CourierStatus, bool)
}

// Announcer broadcasts an operational announcement to connected subscribers.
type Announcer interface {
	Announce(ctx context.Context, title, message, severity string) error
}
