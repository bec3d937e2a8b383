package domain

// Role represents the role of a connected subscriber.
type Role string

// List of possible subscriber roles
const (
	RoleCustomer   Role = "customer"
	RoleRestaurant Role = "restaurant"
	RoleCourier    Role = "courier"
	RoleAdmin      Role = "admin"
)

// List of allowed roles
var allowedRoles = [...]Role{
	RoleCustomer, RoleRestaurant, RoleCourier, RoleAdmin,
}

// Valid checks if the Role is valid
func (r Role) Valid() bool {
	for _, v := range allowedRoles {
		if r == v {
			return true
		}
	}
	return false
}

// Identity is the subscriber identity derived from a verified token.
// It is never persisted by this subsystem; every connection derives it fresh.
type Identity struct {
	ID          string
	Role        Role
	Permissions []string
}

// HasPermission reports whether the identity carries the given permission string.
func (i Identity) HasPermission(p string) bool {
	for _, v := range i.Permissions {
		if v == p {
			return true
		}
	}
	return false
}

// RestaurantPermission builds the permission string granting access to a restaurant's orders.
func RestaurantPermission(slug string) string {
	return "restaurant:" + slug
}
