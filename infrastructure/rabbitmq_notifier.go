// infrastructure/rabbitmq_notifier.go
package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/vitovidale/ai-video-backend/domain"
	"go.uber.org/zap"
)

// RabbitMQNotifier publishes lifecycle events as persistent JSON messages to
// a topic exchange, routed by event type.
type RabbitMQNotifier struct {
	conn     *amqp.Connection
	exchange string
	logger   *zap.Logger

	mu sync.Mutex
	ch *amqp.Channel

	// publishMu serializes publishes on the shared channel.
	publishMu sync.Mutex
}

// DialRabbitMQ connects to url, retrying attempts times, and declares the
// durable topic exchange.
func DialRabbitMQ(url, exchange string, attempts int, delay time.Duration, logger *zap.Logger) (*RabbitMQNotifier, error) {
	var conn *amqp.Connection
	var err error
	for i := 0; i < attempts; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		logger.Warn("rabbitmq connection failed, retrying",
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", attempts),
			zap.Error(err),
		)
		if i < attempts-1 {
			time.Sleep(delay)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	n := &RabbitMQNotifier{conn: conn, exchange: exchange, logger: logger}
	if _, err := n.channel(); err != nil {
		conn.Close()
		return nil, err
	}
	logger.Info("rabbitmq connection established", zap.String("exchange", exchange))
	return n, nil
}

func (n *RabbitMQNotifier) Notify(ctx context.Context, event domain.VideoEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal video event: %w", err)
	}

	n.publishMu.Lock()
	defer n.publishMu.Unlock()

	ch, err := n.channel()
	if err != nil {
		return err
	}

	err = ch.PublishWithContext(ctx,
		n.exchange,
		string(event.Type),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.OccurredAt,
			MessageId:    event.VideoID + ":" + string(event.Type),
			Body:         body,
		})
	if err != nil {
		n.resetChannel()
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	return nil
}

// Connected reports whether the broker connection is open.
func (n *RabbitMQNotifier) Connected() bool {
	return n.conn != nil && !n.conn.IsClosed()
}

func (n *RabbitMQNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.ch != nil {
		n.ch.Close()
		n.ch = nil
	}
	if n.conn == nil || n.conn.IsClosed() {
		return nil
	}
	return n.conn.Close()
}

// channel returns the shared publishing channel, reopening it after a
// failure.
func (n *RabbitMQNotifier) channel() (*amqp.Channel, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.ch != nil && !n.ch.IsClosed() {
		return n.ch, nil
	}
	if !n.Connected() {
		return nil, fmt.Errorf("rabbitmq connection closed")
	}

	ch, err := n.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		n.exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", n.exchange, err)
	}
	n.ch = ch
	return ch, nil
}

func (n *RabbitMQNotifier) resetChannel() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.ch != nil {
		n.ch.Close()
		n.ch = nil
	}
}
