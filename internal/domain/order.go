package domain

// OrderStatus represents the lifecycle status of an order.
type OrderStatus string

// List of possible order statuses
const (
	StatusReceived       OrderStatus = "received"
	StatusAccepted       OrderStatus = "accepted"
	StatusInProgress     OrderStatus = "in_progress"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
)

// nextStatuses lists the allowed forward transitions per status.
// Cancellation from any non-terminal status is handled separately.
var nextStatuses = map[OrderStatus][]OrderStatus{
	StatusReceived:       {StatusAccepted},
	StatusAccepted:       {StatusInProgress},
	StatusInProgress:     {StatusOutForDelivery},
	StatusOutForDelivery: {StatusDelivered},
	StatusDelivered:      {},
	StatusCancelled:      {},
}

// Valid checks if the OrderStatus is valid
func (s OrderStatus) Valid() bool {
	_, ok := nextStatuses[s]
	return ok
}

// Terminal reports whether no further transition is allowed from the status.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// AllowedNext returns the set of statuses reachable from s, cancellation included.
func (s OrderStatus) AllowedNext() []OrderStatus {
	next, ok := nextStatuses[s]
	if !ok {
		return nil
	}
	out := make([]OrderStatus, 0, len(next)+1)
	out = append(out, next...)
	if !s.Terminal() {
		out = append(out, StatusCancelled)
	}
	return out
}

// CanTransition reports whether moving from s to target is allowed.
func (s OrderStatus) CanTransition(target OrderStatus) bool {
	for _, v := range s.AllowedNext() {
		if v == target {
			return true
		}
	}
	return false
}

// Order is the external order entity as seen by this subsystem.
// It is referenced, never owned: persistence belongs to the order service.
type Order struct {
	ID             string
	Status         OrderStatus
	CustomerID     string
	CourierID      string
	RestaurantSlug string
}
