package push

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"delivery-realtime/internal/service/notify"
)

// AMQPProvider publishes rendered notifications to a queue consumed by the
// push sender service. Device token staleness is that service's concern.
type AMQPProvider struct {
	ch    *amqp.Channel
	queue string
}

// NewAMQPProvider opens a channel on the given connection and declares the
// push queue.
func NewAMQPProvider(conn *amqp.Connection, queue string) (*AMQPProvider, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("push: open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("push: declare queue %s: %w", queue, err)
	}
	return &AMQPProvider{ch: ch, queue: queue}, nil
}

// Push publishes one notification as a persistent JSON message.
func (p *AMQPProvider) Push(ctx context.Context, n notify.Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("push: marshal notification: %w", err)
	}
	err = p.ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("push: publish: %w", err)
	}
	return nil
}

// Close releases the channel.
func (p *AMQPProvider) Close() error {
	return p.ch.Close()
}

var _ notify.Provider = (*AMQPProvider)(nil)
