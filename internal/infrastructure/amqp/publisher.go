package amqp

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Jfdeev/eccomerce-qualidade-software/internal/domain/outbox"
)

// Publisher forwards domain events to a RabbitMQ queue so external
// consumers (fulfilment, notifications) can react to order changes.
type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
}

func NewPublisher(url, queue string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	_, err = channel.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue %q: %w", queue, err)
	}

	return &Publisher{conn: conn, channel: channel, queue: queue}, nil
}

type envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// Handler adapts the publisher to an in-process event subscription.
func (p *Publisher) Handler() outbox.Handler {
	return func(ctx context.Context, e outbox.Event) error {
		return p.Publish(ctx, e)
	}
}

func (p *Publisher) Publish(ctx context.Context, e outbox.Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event %q: %w", e.EventName(), err)
	}
	body, err := json.Marshal(envelope{Event: e.EventName(), Payload: payload})
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}

	err = p.channel.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %q: %w", e.EventName(), err)
	}
	return nil
}

func (p *Publisher) Close() error {
	if err := p.channel.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}
