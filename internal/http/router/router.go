package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"delivery-realtime/internal/http/handlers"
)

// Deps groups the handlers the router mounts.
type Deps struct {
	Base          *handlers.Handlers
	Devices       *handlers.DeviceHandler
	Orders        *handlers.OrderHandler
	Couriers      *handlers.CourierHandler
	Announcements *handlers.AnnouncementHandler
	WS            http.HandlerFunc
	Observability func(http.Handler) http.Handler
	Pprof         http.Handler
}

// New constructs a chi-based http.Handler with base middleware and routes.
// The websocket endpoint is mounted outside the timeout group: a live
// connection outlives any request timeout by design of the protocol.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if d.Observability != nil {
		r.Use(d.Observability)
	}

	r.Get("/ws", d.WS)

	if d.Pprof != nil {
		// no Mount here: the pprof mux matches on the full /debug/pprof/ path
		r.Handle("/debug/pprof/*", d.Pprof)
	}

	r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(5 * time.Second))

		r.Get("/ping", d.Base.Ping)
		r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(d.Base.HealthcheckHead))
		r.Handle("/metrics", promhttp.Handler())

		r.Post("/devices", d.Devices.Register)
		r.Delete("/devices", d.Devices.Unregister)
		r.Get("/notifications/history", d.Devices.History)

		r.Get("/orders/{id}/status", d.Orders.Status)
		r.Get("/couriers/{id}/location", d.Couriers.Location)
		r.Get("/couriers/{id}/presence", d.Couriers.Presence)

		r.Post("/announcements", d.Announcements.Create)
	})

	r.NotFound(http.HandlerFunc(d.Base.NotFound))

	return r
}
