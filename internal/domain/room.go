package domain

import "strings"

// RoomKey identifies a broadcast room. Rooms are in-memory index keys derived
// from their members; they have no existence of their own.
type RoomKey string

// IdentityRoom returns the private room of a single subscriber identity.
func IdentityRoom(identityID string) RoomKey {
	return RoomKey("identity:" + identityID)
}

// RoleRoom returns the shared room of every connection holding the given role.
func RoleRoom(r Role) RoomKey {
	return RoomKey("role:" + string(r))
}

// OrderRoom returns the tracking room of a single order.
func OrderRoom(orderID string) RoomKey {
	return RoomKey("order:" + orderID)
}

// IsOrderRoom reports whether the key addresses an order tracking room.
func (k RoomKey) IsOrderRoom() bool {
	return strings.HasPrefix(string(k), "order:")
}
