package orchestrator

import "delivery-realtime/internal/domain"

// route decides, for one event type, which rooms receive the live broadcast
// and which identities get the out-of-band notification. The table is closed:
// a new event type is a new entry here, not a new conditional somewhere else.
type route struct {
	rooms  func(ev domain.Event, order domain.Order) []domain.RoomKey
	notify func(ev domain.Event, order domain.Order) []string
}

var routes = map[domain.EventType]route{
	domain.EventOrderCreated: {
		rooms: func(_ domain.Event, order domain.Order) []domain.RoomKey {
			return []domain.RoomKey{
				domain.IdentityRoom(order.CustomerID),
				domain.RoleRoom(domain.RoleRestaurant),
				domain.RoleRoom(domain.RoleAdmin),
			}
		},
		notify: func(_ domain.Event, order domain.Order) []string {
			return []string{order.CustomerID}
		},
	},
	domain.EventOrderStatus: {
		rooms: func(ev domain.Event, order domain.Order) []domain.RoomKey {
			return []domain.RoomKey{
				domain.OrderRoom(ev.OrderID),
				domain.IdentityRoom(order.CustomerID),
				domain.RoleRoom(domain.RoleAdmin),
			}
		},
		notify: func(_ domain.Event, order domain.Order) []string {
			return []string{order.CustomerID}
		},
	},
	domain.EventOrderAssigned: {
		rooms: func(ev domain.Event, order domain.Order) []domain.RoomKey {
			return []domain.RoomKey{
				domain.OrderRoom(ev.OrderID),
				domain.IdentityRoom(order.CustomerID),
				domain.IdentityRoom(ev.CourierID),
			}
		},
		notify: func(ev domain.Event, order domain.Order) []string {
			return []string{order.CustomerID, ev.CourierID}
		},
	},
	domain.EventSystemAnnouncement: {
		rooms: func(domain.Event, domain.Order) []domain.RoomKey {
			return []domain.RoomKey{
				domain.RoleRoom(domain.RoleCustomer),
				domain.RoleRoom(domain.RoleRestaurant),
				domain.RoleRoom(domain.RoleCourier),
				domain.RoleRoom(domain.RoleAdmin),
			}
		},
		notify: func(domain.Event, domain.Order) []string { return nil },
	},
}
