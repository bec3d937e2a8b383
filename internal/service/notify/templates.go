package notify

import "delivery-realtime/internal/domain"

// template is the human-readable rendering of one event kind.
type template struct {
	Title string
	Body  string
}

type templateKey struct {
	Type   domain.EventType
	Status domain.OrderStatus
}

// templates is the fixed lookup table from event kind to title/body. Adding an
// event kind is a data change here, not a new branch in the dispatcher.
var templates = map[templateKey]template{
	{Type: domain.EventOrderCreated}: {
		Title: "Order received",
		Body:  "We have received your order",
	},
	{Type: domain.EventOrderStatus, Status: domain.StatusAccepted}: {
		Title: "Order accepted",
		Body:  "The restaurant accepted your order",
	},
	{Type: domain.EventOrderStatus, Status: domain.StatusInProgress}: {
		Title: "Order update",
		Body:  "Your order is being prepared",
	},
	{Type: domain.EventOrderStatus, Status: domain.StatusOutForDelivery}: {
		Title: "Order update",
		Body:  "Your order is out for delivery",
	},
	{Type: domain.EventOrderStatus, Status: domain.StatusDelivered}: {
		Title: "Order delivered",
		Body:  "Enjoy your meal!",
	},
	{Type: domain.EventOrderStatus, Status: domain.StatusCancelled}: {
		Title: "Order cancelled",
		Body:  "Your order was cancelled",
	},
	{Type: domain.EventOrderAssigned}: {
		Title: "Courier assigned",
		Body:  "A courier was assigned to your order",
	},
}

// render resolves the template for an event; order:status events are keyed by
// their new status, everything else by type alone.
func render(ev domain.Event) (template, bool) {
	key := templateKey{Type: ev.Type}
	if ev.Type == domain.EventOrderStatus {
		key.Status = ev.NewStatus
	}
	tpl, ok := templates[key]
	return tpl, ok
}
