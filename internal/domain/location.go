package domain

import "time"

// LocationReport is a single GPS fix reported by a courier connection.
type LocationReport struct {
	CourierID  string    `json:"courier_id"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Accuracy   float64   `json:"accuracy"`
	OrderID    string    `json:"order_id,omitempty"`
	ReportedAt time.Time `json:"reported_at"`
}

// Valid checks that the coordinates describe a point on the globe.
func (r LocationReport) Valid() bool {
	if r.Latitude < -90 || r.Latitude > 90 {
		return false
	}
	if r.Longitude < -180 || r.Longitude > 180 {
		return false
	}
	return true
}
