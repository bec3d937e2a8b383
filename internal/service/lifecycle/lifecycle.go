package lifecycle

import (
	"fmt"
	"time"

	"delivery-realtime/internal/apperr"
	"delivery-realtime/internal/domain"
)

// TransitionError reports a rejected status change. No event is emitted and
// nothing is broadcast for a rejected transition.
type TransitionError struct {
	OrderID   string
	Current   domain.OrderStatus
	Requested domain.OrderStatus
	Allowed   []domain.OrderStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid transition for order %s: %s -> %s (allowed: %v)",
		e.OrderID, e.Current, e.Requested, e.Allowed)
}

// Machine validates and applies order status transitions. It persists nothing:
// the order service commits the change durably before calling Transition, so
// broadcast state may briefly lag committed state but never the reverse.
type Machine struct {
	now func() time.Time
}

// NewMachine creates a Machine.
func NewMachine() *Machine {
	return &Machine{now: func() time.Time { return time.Now().UTC() }}
}

// Transition checks the requested status change against the allowed-next table
// and builds the order:status event for an accepted change. The actor identity
// is carried for auditability only; the order service enforces who may request
// which change.
func (m *Machine) Transition(orderID string, current, requested domain.OrderStatus, actor domain.Identity) (domain.Event, error) {
	if orderID == "" || !current.Valid() || !requested.Valid() {
		return domain.Event{}, apperr.ErrInvalid
	}
	if !current.CanTransition(requested) {
		return domain.Event{}, &TransitionError{
			OrderID:   orderID,
			Current:   current,
			Requested: requested,
			Allowed:   current.AllowedNext(),
		}
	}
	return domain.Event{
		Type:           domain.EventOrderStatus,
		OrderID:        orderID,
		PreviousStatus: current,
		NewStatus:      requested,
		Timestamp:      m.now(),
	}, nil
}

// Assign builds the order:assigned event. Assignment requires a courier.
func (m *Machine) Assign(orderID, courierID string) (domain.Event, error) {
	if orderID == "" || courierID == "" {
		return domain.Event{}, apperr.ErrInvalid
	}
	return domain.Event{
		Type:      domain.EventOrderAssigned,
		OrderID:   orderID,
		CourierID: courierID,
		Timestamp: m.now(),
	}, nil
}

// Created builds the order:created event for a freshly committed order.
func (m *Machine) Created(order domain.Order) (domain.Event, error) {
	if order.ID == "" {
		return domain.Event{}, apperr.ErrInvalid
	}
	return domain.Event{
		Type:      domain.EventOrderCreated,
		OrderID:   order.ID,
		NewStatus: domain.StatusReceived,
		Timestamp: m.now(),
	}, nil
}
