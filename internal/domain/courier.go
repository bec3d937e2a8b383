package domain

// CourierStatus represents the presence status a courier reports.
type CourierStatus string

// List of possible courier presence statuses
const (
	CourierAvailable CourierStatus = "available"
	CourierBusy      CourierStatus = "busy"
	CourierPaused    CourierStatus = "paused"
)

// List of allowed courier statuses
var allowedCourierStatuses = [...]CourierStatus{
	CourierAvailable, CourierBusy, CourierPaused,
}

// Valid checks if the CourierStatus is valid
func (s CourierStatus) Valid() bool {
	for _, v := range allowedCourierStatuses {
		if s == v {
			return true
		}
	}
	return false
}
