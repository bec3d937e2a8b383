package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// OrderHandler answers current-status queries against the order source.
type OrderHandler struct {
	orders OrderSource
}

// NewOrderHandler wires the order source into HTTP handlers.
func NewOrderHandler(orders OrderSource) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Status handles GET /orders/{id}/status. A dropped realtime event is not
// retried; this endpoint is how clients recover the current state.
func (h *OrderHandler) Status(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		writeError(w, r, http.StatusBadRequest, "invalid id")
		return
	}

	order, err := h.orders.Get(r.Context(), orderID)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	if order == nil {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, r, http.StatusOK, orderStatusResponse{OrderID: order.ID, Status: order.Status})
}
