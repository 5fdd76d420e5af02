// Package amqp publishes ledger audit entries to a RabbitMQ topic exchange.
package amqp

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/mmynk/splitledger/internal/models"
)

const publishTimeout = 5 * time.Second

// Publisher sends every audit entry it records to an exchange, routed by
// entry kind.
type Publisher struct {
	mu           sync.Mutex
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
}

// NewPublisher dials url and declares a durable topic exchange.
func NewPublisher(url, exchangeName string) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchangeName, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &Publisher{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
	}, nil
}

// Name identifies the publisher in logs and metrics.
func (p *Publisher) Name() string {
	return "amqp"
}

// Record publishes one audit entry of group.
func (p *Publisher) Record(ctx context.Context, group string, entry models.Entry) error {
	body, err := NewEntryMessage(group, entry).ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchangeName,         // exchange
		RoutingKey(entry.Kind), // routing key
		false,                  // mandatory
		false,                  // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	slog.DebugContext(ctx, "Published audit entry",
		"group", group,
		"seq", entry.Seq,
		"kind", entry.Kind,
		"exchange", p.exchangeName,
	)
	return nil
}

// Close closes the channel and the connection.
func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
