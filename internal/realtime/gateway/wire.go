package gateway

import (
	"encoding/json"
	"time"

	"delivery-realtime/internal/domain"
)

// Client to server message types
const (
	msgAuth             = "auth"
	msgLocationReport   = "location:report"
	msgOrderSubscribe   = "order:subscribe"
	msgOrderUnsubscribe = "order:unsubscribe"
	msgStatusReport     = "status:report"
)

// clientMessage is the envelope of every client to server frame.
type clientMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type authPayload struct {
	Token string `json:"token"`
}

type locationPayload struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy"`
	OrderID   string  `json:"order_id,omitempty"`
}

type orderPayload struct {
	OrderID string `json:"order_id"`
}

type statusPayload struct {
	Status domain.CourierStatus `json:"status"`
}

// ServerMessage is a server to client control frame. Domain events go over the
// wire as-is; this envelope carries handshake results, acks and errors.
type ServerMessage struct {
	Type      string    `json:"type"`
	Message   string    `json:"message,omitempty"`
	OrderID   string    `json:"order_id,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}
