package registry

import (
	"context"
	"time"

	"delivery-realtime/internal/domain"
)

// Sender pushes one message to the remote peer of a connection.
// Implementations must be safe for concurrent use; a send that cannot
// complete within the context deadline fails the connection.
type Sender interface {
	Send(ctx context.Context, payload any) error
	Close() error
}

// Connection is a live, authenticated subscriber connection. It is owned by
// the Registry for its lifetime and destroyed on disconnect or forced close.
type Connection struct {
	ID       string
	Identity domain.Identity
	OpenedAt time.Time
	sender   Sender
}

// NewConnection binds a verified identity to its transport sender.
func NewConnection(id string, identity domain.Identity, sender Sender, openedAt time.Time) *Connection {
	return &Connection{
		ID:       id,
		Identity: identity,
		OpenedAt: openedAt,
		sender:   sender,
	}
}

// Send pushes a payload to the peer.
func (c *Connection) Send(ctx context.Context, payload any) error {
	return c.sender.Send(ctx, payload)
}

// Close tears down the underlying transport.
func (c *Connection) Close() error {
	return c.sender.Close()
}
