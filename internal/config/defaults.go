package config

import "time"

const defaultPort = 8080

const defaultJWTSecret = "dev-secret"

var defaultDB = DB{
	Host: "127.0.0.1",
	Port: "5432",
	User: "myuser",
	Pass: "mypassword",
	Name: "orders_db",
}

var defaultKafka = Kafka{
	Topic:   "order-events",
	GroupID: "delivery-realtime",
}

var defaultAMQP = AMQP{
	PushQueue: "push.notifications",
}

var defaultRealtime = Realtime{
	AuthTimeout:        5 * time.Second,
	PingInterval:       30 * time.Second,
	PongWait:           60 * time.Second,
	WriteTimeout:       5 * time.Second,
	TerminalGrace:      30 * time.Second,
	LocationRateLimit:  10,
	LocationRateWindow: time.Second,
}

var defaultNotify = Notify{
	HistorySize: 200,
}

// DefaultPort returns the default port.
func DefaultPort() int {
	return defaultPort
}

// DefaultJWTSecret returns the development token secret.
func DefaultJWTSecret() string {
	return defaultJWTSecret
}

// DefaultRealtime returns the default realtime settings.
func DefaultRealtime() Realtime {
	return defaultRealtime
}

// DefaultNotify returns the default notification settings.
func DefaultNotify() Notify {
	return defaultNotify
}
