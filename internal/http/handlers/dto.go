package handlers

import (
	"time"

	"delivery-realtime/internal/domain"
)

type registerDeviceRequest struct {
	PushToken string          `json:"push_token"`
	Platform  domain.Platform `json:"platform"`
}

type announcementRequest struct {
	Title    string `json:"title"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

type orderStatusResponse struct {
	OrderID string             `json:"order_id"`
	Status  domain.OrderStatus `json:"status"`
}

type courierLocationResponse struct {
	CourierID  string    `json:"courier_id"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Accuracy   float64   `json:"accuracy"`
	ReportedAt time.Time `json:"reported_at"`
}
