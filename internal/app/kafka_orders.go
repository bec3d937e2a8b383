package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"delivery-realtime/internal/apperr"
	"delivery-realtime/internal/domain"
	"delivery-realtime/internal/repository"
	"delivery-realtime/internal/service/lifecycle"
	"delivery-realtime/internal/service/orchestrator"
	"delivery-realtime/internal/transport/kafka"
)

type orderAction func(ctx context.Context, orch *orchestrator.Orchestrator, ev kafka.OrderEvent, ord domain.Order) error

var orderActions = map[string]orderAction{
	kafka.KindCreated: func(ctx context.Context, orch *orchestrator.Orchestrator, _ kafka.OrderEvent, ord domain.Order) error {
		return orch.OnOrderCreated(ctx, ord)
	},
	kafka.KindStatusChanged: func(ctx context.Context, orch *orchestrator.Orchestrator, ev kafka.OrderEvent, ord domain.Order) error {
		return orch.OnStatusChanged(ctx, ev.OrderID,
			domain.OrderStatus(ev.PreviousStatus), domain.OrderStatus(ev.NewStatus), ord)
	},
	kafka.KindCourierAssigned: func(ctx context.Context, orch *orchestrator.Orchestrator, ev kafka.OrderEvent, ord domain.Order) error {
		return orch.OnCourierAssigned(ctx, ev.OrderID, ev.CourierID, ord)
	},
}

// makeOrdersHandler maps committed order events from the ingest topic to
// orchestrator calls. The producer commits before publishing, so the handler
// treats every event as fact: a rejected transition means a malformed or
// out-of-order message and is marked permanent rather than retried.
func makeOrdersHandler(orch *orchestrator.Orchestrator, repo *repository.OrdersRepo) kafka.HandleFunc {
	return func(ctx context.Context, ev kafka.OrderEvent) error {
		ev = ev.Normalize()

		act, ok := orderActions[ev.Kind]
		if !ok {
			return kafka.Permanent(fmt.Errorf("unknown order event kind %q", ev.Kind))
		}

		ord := orderFromEvent(ev)
		if repo != nil && (ord.CustomerID == "" || ord.Status == "") {
			if err := enrichFromStore(ctx, repo, &ord); err != nil {
				return err
			}
		}

		err := act(ctx, orch, ev, ord)
		var terr *lifecycle.TransitionError
		switch {
		case err == nil:
			return nil
		case errors.As(err, &terr), errors.Is(err, apperr.ErrInvalid):
			return kafka.Permanent(err)
		default:
			return err
		}
	}
}

func orderFromEvent(ev kafka.OrderEvent) domain.Order {
	status := domain.OrderStatus(ev.NewStatus)
	if ev.Kind == kafka.KindCreated && status == "" {
		status = domain.StatusReceived
	}
	return domain.Order{
		ID:             ev.OrderID,
		Status:         status,
		CustomerID:     ev.CustomerID,
		CourierID:      ev.CourierID,
		RestaurantSlug: ev.RestaurantSlug,
	}
}

// enrichFromStore fills fields the producer omitted from the event. A lookup
// failure is retryable; a missing order is not an error, routing simply
// targets fewer rooms.
func enrichFromStore(ctx context.Context, repo *repository.OrdersRepo, ord *domain.Order) error {
	lookupCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	stored, err := repo.Get(lookupCtx, ord.ID)
	if err != nil {
		return err
	}
	if stored == nil {
		return nil
	}
	if ord.CustomerID == "" {
		ord.CustomerID = stored.CustomerID
	}
	if ord.CourierID == "" {
		ord.CourierID = stored.CourierID
	}
	if ord.RestaurantSlug == "" {
		ord.RestaurantSlug = stored.RestaurantSlug
	}
	if ord.Status == "" {
		ord.Status = stored.Status
	}
	return nil
}
