package orchestrator

import (
	"context"
	"time"

	"delivery-realtime/internal/apperr"
	"delivery-realtime/internal/domain"
	"delivery-realtime/internal/logx"
	"delivery-realtime/internal/service/lifecycle"
)

// Orchestrator is the facade the rest of the application calls after it has
// committed a change. It validates through the state machine, runs the live
// fan-out and then mirrors the event to the notification channel, in that
// order. A failed push never fails the caller.
type Orchestrator struct {
	machine    *lifecycle.Machine
	publisher  Publisher
	dispatcher Dispatcher
	rooms      RoomCloser
	logger     logx.Logger

	// terminalGrace delays releasing an order room after the order reached a
	// terminal status, so members still receive the final confirmation event.
	terminalGrace time.Duration
	afterFunc     func(d time.Duration, fn func()) *time.Timer
}

// New creates an Orchestrator.
func New(
	machine *lifecycle.Machine,
	publisher Publisher,
	dispatcher Dispatcher,
	rooms RoomCloser,
	logger logx.Logger,
	terminalGrace time.Duration,
) *Orchestrator {
	if terminalGrace <= 0 {
		terminalGrace = 30 * time.Second
	}
	return &Orchestrator{
		machine:       machine,
		publisher:     publisher,
		dispatcher:    dispatcher,
		rooms:         rooms,
		logger:        logger,
		terminalGrace: terminalGrace,
		afterFunc:     time.AfterFunc,
	}
}

// OnOrderCreated handles a freshly committed order.
func (o *Orchestrator) OnOrderCreated(ctx context.Context, order domain.Order) error {
	ev, err := o.machine.Created(order)
	if err != nil {
		return err
	}
	o.deliver(ctx, ev, order)
	return nil
}

// OnStatusChanged handles a committed status change. An invalid transition is
// rejected with a *lifecycle.TransitionError: nothing is broadcast and no
// notification goes out.
func (o *Orchestrator) OnStatusChanged(ctx context.Context, orderID string, previous, next domain.OrderStatus, order domain.Order) error {
	ev, err := o.machine.Transition(orderID, previous, next, domain.Identity{})
	if err != nil {
		return err
	}
	o.deliver(ctx, ev, order)

	if next.Terminal() {
		room := domain.OrderRoom(orderID)
		o.afterFunc(o.terminalGrace, func() {
			o.rooms.CloseRoom(room)
		})
	}
	return nil
}

// OnCourierAssigned handles a committed courier assignment.
func (o *Orchestrator) OnCourierAssigned(ctx context.Context, orderID, courierID string, order domain.Order) error {
	ev, err := o.machine.Assign(orderID, courierID)
	if err != nil {
		return err
	}
	o.deliver(ctx, ev, order)
	return nil
}

// Announce broadcasts an operational announcement to every connected role.
func (o *Orchestrator) Announce(ctx context.Context, title, message, severity string) error {
	if title == "" || message == "" {
		return apperr.ErrInvalid
	}
	ev := domain.Event{
		Type:         domain.EventSystemAnnouncement,
		Announcement: &domain.Announcement{Title: title, Message: message, Severity: severity},
		Timestamp:    time.Now().UTC(),
	}
	route := routes[ev.Type]
	report := o.publisher.Publish(ctx, ev, route.rooms(ev, domain.Order{}))
	o.logger.Info("announcement published",
		logx.String("title", title),
		logx.String("severity", severity),
		logx.Int("connections_reached", report.ConnectionsReached),
	)
	return nil
}

func (o *Orchestrator) deliver(ctx context.Context, ev domain.Event, order domain.Order) {
	route, ok := routes[ev.Type]
	if !ok {
		o.logger.Warn("no route for event", logx.String("event_type", string(ev.Type)))
		return
	}

	report := o.publisher.Publish(ctx, ev, route.rooms(ev, order))
	o.logger.Info("event published",
		logx.String("event_type", string(ev.Type)),
		logx.String("order_id", ev.OrderID),
		logx.Int("rooms_targeted", report.RoomsTargeted),
		logx.Int("connections_reached", report.ConnectionsReached),
		logx.Int("connections_failed", report.ConnectionsFailed),
	)

	for _, identityID := range route.notify(ev, order) {
		if identityID == "" {
			continue
		}
		res, err := o.dispatcher.Dispatch(ctx, identityID, ev)
		if err != nil {
			o.logger.Warn("notification push failed",
				logx.String("identity_id", identityID),
				logx.String("event_type", string(ev.Type)),
				logx.Err(err),
			)
			continue
		}
		if !res.Sent {
			o.logger.Debug("notification skipped",
				logx.String("identity_id", identityID),
				logx.String("reason", res.Reason),
			)
		}
	}
}
