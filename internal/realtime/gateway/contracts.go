//go:generate mockgen -source=contracts.go -destination=gateway_mocks_test.go -package=gateway_test

package gateway

import (
	"context"

	"delivery-realtime/internal/domain"
)

// TokenVerifier validates a signed session token and derives the subscriber identity.
type TokenVerifier interface {
	Verify(rawToken string) (domain.Identity, error)
}

// OrderSource resolves orders for room subscription authorization. It is never
// used to decide transitions; callers supply the current status explicitly.
type OrderSource interface {
	Get(ctx context.Context, orderID string) (*domain.Order, error)
}

// LocationSink accepts courier location and presence reports.
type LocationSink interface {
	Report(ctx context.Context, courierID string, rep domain.LocationReport)
	SetPresence(courierID string, status domain.CourierStatus) error
}
