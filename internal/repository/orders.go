package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"delivery-realtime/internal/domain"
)

// OrdersRepo is a read-only adapter over the order service's store. The
// realtime core uses it solely to authorize order room subscriptions and to
// answer current-status queries; it never writes.
type OrdersRepo struct{ db *pgxpool.Pool }

// NewOrdersRepo creates a new OrdersRepo.
func NewOrdersRepo(db *pgxpool.Pool) *OrdersRepo { return &OrdersRepo{db: db} }

// Get returns an order by its ID, or nil when it does not exist.
func (r *OrdersRepo) Get(ctx context.Context, id string) (*domain.Order, error) {
	var (
		o         domain.Order
		courierID *string
	)
	err := r.db.QueryRow(ctx,
		`SELECT id, status, customer_id, courier_id, restaurant_slug FROM orders WHERE id=$1`, id,
	).Scan(&o.ID, &o.Status, &o.CustomerID, &courierID, &o.RestaurantSlug)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order %s: %w", id, err)
	}
	if courierID != nil {
		o.CourierID = *courierID
	}
	return &o, nil
}
