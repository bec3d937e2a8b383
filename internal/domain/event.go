package domain

import "time"

// EventType discriminates the closed set of domain events this subsystem moves.
type EventType string

// List of domain event types
const (
	EventOrderCreated       EventType = "order:created"
	EventOrderStatus        EventType = "order:status"
	EventOrderAssigned      EventType = "order:assigned"
	EventCourierLocation    EventType = "delivery:location"
	EventSystemAnnouncement EventType = "system:announcement"
)

// Announcement is the payload of a system:announcement event.
type Announcement struct {
	Title    string `json:"title"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// Event is the immutable unit of information handed from the state machine to
// the broadcaster and dispatcher. Dropped events are not retried; the next
// status query reflects the current state instead.
type Event struct {
	Type           EventType       `json:"type"`
	OrderID        string          `json:"order_id,omitempty"`
	PreviousStatus OrderStatus     `json:"previous_status,omitempty"`
	NewStatus      OrderStatus     `json:"new_status,omitempty"`
	CourierID      string          `json:"courier_id,omitempty"`
	Location       *LocationReport `json:"location,omitempty"`
	Announcement   *Announcement   `json:"announcement,omitempty"`
	Timestamp      time.Time       `json:"timestamp"`
}
