package kafka

import (
	"strings"
	"time"
)

// Event kinds published by the order service
const (
	KindCreated         = "created"
	KindStatusChanged   = "status_changed"
	KindCourierAssigned = "courier_assigned"
)

// OrderEvent is a single committed order change consumed from the order
// service. The order service commits durably before publishing, so broadcast
// state may lag the commit but never precede it.
type OrderEvent struct {
	Kind           string    `json:"kind"`
	OrderID        string    `json:"order_id"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	NewStatus      string    `json:"new_status,omitempty"`
	CourierID      string    `json:"courier_id,omitempty"`
	CustomerID     string    `json:"customer_id,omitempty"`
	RestaurantSlug string    `json:"restaurant_slug,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Normalize trims whitespace from the identifying fields.
func (e OrderEvent) Normalize() OrderEvent {
	e.Kind = strings.ToLower(strings.TrimSpace(e.Kind))
	e.OrderID = strings.TrimSpace(e.OrderID)
	e.PreviousStatus = strings.TrimSpace(e.PreviousStatus)
	e.NewStatus = strings.TrimSpace(e.NewStatus)
	e.CourierID = strings.TrimSpace(e.CourierID)
	e.CustomerID = strings.TrimSpace(e.CustomerID)
	return e
}
