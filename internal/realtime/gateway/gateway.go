package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"delivery-realtime/internal/apperr"
	"delivery-realtime/internal/domain"
	"delivery-realtime/internal/logx"
	"delivery-realtime/internal/realtime/registry"
)

type gauge interface {
	Inc()
	Dec()
}

// Config stores gateway timeouts.
type Config struct {
	AuthTimeout  time.Duration
	PingInterval time.Duration
	PongWait     time.Duration
	WriteTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.AuthTimeout <= 0 {
		c.AuthTimeout = 5 * time.Second
	}
	if c.PingInterval <= 0 {
		c.PingInterval = 30 * time.Second
	}
	if c.PongWait <= 0 {
		c.PongWait = 60 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 5 * time.Second
	}
	return c
}

// Gateway admits new connections, runs the authentication handshake, manages
// room membership on behalf of the connection and tears it down on disconnect.
type Gateway struct {
	registry *registry.Registry
	verifier TokenVerifier
	orders   OrderSource
	location LocationSink
	logger   logx.Logger
	cfg      Config
	upgrader websocket.Upgrader
	active   gauge
	newID    func() string
	now      func() time.Time
}

// New creates a Gateway.
func New(
	reg *registry.Registry,
	verifier TokenVerifier,
	orders OrderSource,
	location LocationSink,
	logger logx.Logger,
	cfg Config,
	active gauge,
) *Gateway {
	return &Gateway{
		registry: reg,
		verifier: verifier,
		orders:   orders,
		location: location,
		logger:   logger,
		cfg:      cfg.withDefaults(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		active: active,
		newID:  func() string { return uuid.NewString() },
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// HandleWS upgrades an HTTP request, runs the handshake and serves the
// connection until it disconnects. Teardown runs on every exit path.
func (g *Gateway) HandleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Error("ws upgrade failed", logx.Err(err))
		return
	}
	defer ws.Close()

	conn, err := g.admit(ws)
	if err != nil {
		// Rejected before any room membership was created: the peer gets one
		// error frame and the transport closes.
		_ = ws.WriteJSON(ServerMessage{Type: "error", Message: "authentication failed"})
		g.logger.Warn("connection rejected", logx.Err(err))
		return
	}

	if g.active != nil {
		g.active.Inc()
	}
	defer g.teardown(conn)

	g.logger.Info("connection admitted",
		logx.String("conn_id", conn.ID),
		logx.String("identity_id", conn.Identity.ID),
		logx.String("role", string(conn.Identity.Role)),
	)
	_ = conn.Send(r.Context(), ServerMessage{Type: "info", Message: "authenticated", Timestamp: g.now()})

	g.serve(r.Context(), ws, conn)
}

// admit reads the first frame, verifies the bearer token and registers the
// connection in its identity and role rooms. Nothing is registered on failure.
func (g *Gateway) admit(ws *websocket.Conn) (*registry.Connection, error) {
	if err := ws.SetReadDeadline(time.Now().Add(g.cfg.AuthTimeout)); err != nil {
		return nil, err
	}
	_, frame, err := ws.ReadMessage()
	if err != nil {
		return nil, apperr.ErrAuth
	}

	var msg clientMessage
	if err := json.Unmarshal(frame, &msg); err != nil || msg.Type != msgAuth {
		return nil, apperr.ErrAuth
	}
	var payload authPayload
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		return nil, apperr.ErrAuth
	}
	token := strings.TrimPrefix(payload.Token, "Bearer ")

	identity, err := g.verifier.Verify(token)
	if err != nil {
		return nil, err
	}

	conn := registry.NewConnection(g.newID(), identity, newWSSender(ws), g.now())
	if err := g.registry.Add(conn); err != nil {
		return nil, err
	}
	if err := g.registry.Join(conn.ID, domain.IdentityRoom(identity.ID)); err != nil {
		g.registry.RemoveConnection(conn.ID)
		return nil, err
	}
	if err := g.registry.Join(conn.ID, domain.RoleRoom(identity.Role)); err != nil {
		g.registry.RemoveConnection(conn.ID)
		return nil, err
	}
	return conn, nil
}

// serve runs the per-connection read loop and keepalive until the transport fails.
func (g *Gateway) serve(ctx context.Context, ws *websocket.Conn, conn *registry.Connection) {
	_ = ws.SetReadDeadline(time.Now().Add(g.cfg.PongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(g.cfg.PongWait))
	})

	stopPing := make(chan struct{})
	defer close(stopPing)
	go g.pingLoop(ws, conn.ID, stopPing)

	for {
		_, frame, err := ws.ReadMessage()
		if err != nil {
			g.logger.Info("connection closed",
				logx.String("conn_id", conn.ID),
				logx.String("identity_id", conn.Identity.ID),
				logx.Err(err),
			)
			return
		}
		g.handleMessage(ctx, conn, frame)
	}
}

func (g *Gateway) pingLoop(ws *websocket.Conn, connID string, stop <-chan struct{}) {
	ticker := time.NewTicker(g.cfg.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			deadline := time.Now().Add(g.cfg.WriteTimeout)
			if err := ws.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				g.logger.Warn("ping failed", logx.String("conn_id", connID), logx.Err(err))
				_ = ws.Close()
				return
			}
		}
	}
}

func (g *Gateway) handleMessage(ctx context.Context, conn *registry.Connection, frame []byte) {
	var msg clientMessage
	if err := json.Unmarshal(frame, &msg); err != nil {
		g.sendError(ctx, conn, "", "invalid message")
		return
	}

	switch msg.Type {
	case msgLocationReport:
		g.onLocationReport(ctx, conn, msg.Data)
	case msgOrderSubscribe:
		g.onOrderSubscribe(ctx, conn, msg.Data)
	case msgOrderUnsubscribe:
		g.onOrderUnsubscribe(ctx, conn, msg.Data)
	case msgStatusReport:
		g.onStatusReport(ctx, conn, msg.Data)
	default:
		g.sendError(ctx, conn, "", "unknown message type")
	}
}

func (g *Gateway) onLocationReport(ctx context.Context, conn *registry.Connection, data json.RawMessage) {
	if conn.Identity.Role != domain.RoleCourier {
		g.sendError(ctx, conn, "", "only couriers report locations")
		return
	}
	var p locationPayload
	if err := json.Unmarshal(data, &p); err != nil {
		g.sendError(ctx, conn, "", "invalid location payload")
		return
	}
	g.location.Report(ctx, conn.Identity.ID, domain.LocationReport{
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		Accuracy:  p.Accuracy,
		OrderID:   p.OrderID,
	})
}

func (g *Gateway) onOrderSubscribe(ctx context.Context, conn *registry.Connection, data json.RawMessage) {
	var p orderPayload
	if err := json.Unmarshal(data, &p); err != nil || p.OrderID == "" {
		g.sendError(ctx, conn, "", "invalid order payload")
		return
	}
	err := g.SubscribeOrder(ctx, conn.ID, p.OrderID)
	switch {
	case err == nil:
		_ = conn.Send(ctx, ServerMessage{Type: "info", Message: "subscribed", OrderID: p.OrderID, Timestamp: g.now()})
	case errors.Is(err, apperr.ErrForbidden):
		g.sendError(ctx, conn, p.OrderID, "not allowed to track this order")
	case errors.Is(err, apperr.ErrNotFound):
		g.sendError(ctx, conn, p.OrderID, "order not found")
	default:
		g.sendError(ctx, conn, p.OrderID, "subscribe failed")
	}
}

func (g *Gateway) onOrderUnsubscribe(ctx context.Context, conn *registry.Connection, data json.RawMessage) {
	var p orderPayload
	if err := json.Unmarshal(data, &p); err != nil || p.OrderID == "" {
		g.sendError(ctx, conn, "", "invalid order payload")
		return
	}
	g.UnsubscribeOrder(conn.ID, p.OrderID)
	_ = conn.Send(ctx, ServerMessage{Type: "info", Message: "unsubscribed", OrderID: p.OrderID, Timestamp: g.now()})
}

func (g *Gateway) onStatusReport(ctx context.Context, conn *registry.Connection, data json.RawMessage) {
	if conn.Identity.Role != domain.RoleCourier {
		g.sendError(ctx, conn, "", "only couriers report presence")
		return
	}
	var p statusPayload
	if err := json.Unmarshal(data, &p); err != nil {
		g.sendError(ctx, conn, "", "invalid status payload")
		return
	}
	if err := g.location.SetPresence(conn.Identity.ID, p.Status); err != nil {
		g.sendError(ctx, conn, "", "invalid status")
	}
}

// SubscribeOrder joins the connection to an order tracking room after an
// authorization check. Membership is unchanged on any error.
func (g *Gateway) SubscribeOrder(ctx context.Context, connID, orderID string) error {
	conn := g.registry.Get(connID)
	if conn == nil {
		return apperr.ErrNotFound
	}
	order, err := g.orders.Get(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return apperr.ErrNotFound
	}
	if !authorizedForOrder(conn.Identity, order) {
		return apperr.ErrForbidden
	}
	return g.registry.Join(connID, domain.OrderRoom(orderID))
}

// UnsubscribeOrder removes the connection from an order tracking room.
func (g *Gateway) UnsubscribeOrder(connID, orderID string) {
	g.registry.Leave(connID, domain.OrderRoom(orderID))
}

// Kick force-closes a connection; the broadcaster uses it to tear down members
// whose delivery failed. Safe to call for ids that are already gone.
func (g *Gateway) Kick(connID string) {
	conn := g.registry.Get(connID)
	if conn == nil {
		return
	}
	_ = conn.Close()
}

// authorizedForOrder implements the room authorization boundary: a customer
// may track only their own orders, a courier only orders assigned to them,
// restaurant staff only orders of their restaurant, an admin any order.
func authorizedForOrder(identity domain.Identity, order *domain.Order) bool {
	switch identity.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleCustomer:
		return order.CustomerID == identity.ID
	case domain.RoleCourier:
		return order.CourierID != "" && order.CourierID == identity.ID
	case domain.RoleRestaurant:
		return identity.HasPermission(domain.RestaurantPermission(order.RestaurantSlug))
	default:
		return false
	}
}

func (g *Gateway) teardown(conn *registry.Connection) {
	g.registry.RemoveConnection(conn.ID)
	if g.active != nil {
		g.active.Dec()
	}
}

func (g *Gateway) sendError(ctx context.Context, conn *registry.Connection, orderID, msg string) {
	_ = conn.Send(ctx, ServerMessage{Type: "error", Message: msg, OrderID: orderID, Timestamp: g.now()})
}
