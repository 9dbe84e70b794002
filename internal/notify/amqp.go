package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
)

const (
	exchange   = "orders"
	routingKey = "order.placed"
)

type orderPlacedEvent struct {
	OrderID  string `json:"order_id"`
	ClientID string `json:"client_id"`
	Total    string `json:"total"`
	PlacedAt string `json:"placed_at"`
}

// AMQPPublisher announces placed orders on a topic exchange for downstream
// consumers (kitchen display, notification senders).
type AMQPPublisher struct {
	conn *amqp091.Connection
	ch   *amqp091.Channel
}

func NewAMQPPublisher(url string) (*AMQPPublisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &AMQPPublisher{conn: conn, ch: ch}, nil
}

func (p *AMQPPublisher) OrderPlaced(ctx context.Context, orderID, clientID string, total decimal.Decimal) error {
	body, err := json.Marshal(orderPlacedEvent{
		OrderID:  orderID,
		ClientID: clientID,
		Total:    total.String(),
		PlacedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err = p.ch.PublishWithContext(ctx, exchange, routingKey, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("publish order event: %w", err)
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	if err := p.ch.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}

// Noop stands in when messaging is disabled.
type Noop struct{}

func (Noop) OrderPlaced(ctx context.Context, orderID, clientID string, total decimal.Decimal) error {
	return nil
}
