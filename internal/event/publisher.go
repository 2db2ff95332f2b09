package event

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Publisher announces claim lifecycle changes to downstream consumers.
// Delivery is best effort: callers log a failed publish and carry on.
type Publisher interface {
	PublishClaimEvent(ctx context.Context, event ClaimEvent) error
}

// ClaimEventPublisher publishes claim events to the claim_events queue
type ClaimEventPublisher struct {
	conn   *RabbitMQConnection
	logger zerolog.Logger

	mu                sync.Mutex
	messagesPublished atomic.Int64
	messagesFailed    atomic.Int64
}

// NewClaimEventPublisher declares the claim queue and returns a publisher bound to it
func NewClaimEventPublisher(conn *RabbitMQConnection, logger zerolog.Logger) (*ClaimEventPublisher, error) {
	_, err := conn.Channel.QueueDeclare(
		ClaimQueue, // queue name
		true,       // durable
		false,      // delete when unused
		false,      // exclusive
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return &ClaimEventPublisher{
		conn:   conn,
		logger: logger.With().Str("component", "claim_publisher").Logger(),
	}, nil
}

func (p *ClaimEventPublisher) PublishClaimEvent(ctx context.Context, event ClaimEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		p.messagesFailed.Add(1)
		return fmt.Errorf("failed to marshal claim event: %w", err)
	}

	p.mu.Lock()
	err = p.conn.Channel.PublishWithContext(
		ctx,
		"",         // exchange
		ClaimQueue, // routing key (queue name)
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			MessageId:    event.ID,
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	p.mu.Unlock()
	if err != nil {
		p.messagesFailed.Add(1)
		return fmt.Errorf("failed to publish claim event: %w", err)
	}

	p.messagesPublished.Add(1)
	p.logger.Debug().
		Str("event_type", string(event.EventType)).
		Str("claim_id", event.ClaimID).
		Msg("claim event published")
	return nil
}

// HealthCheck returns the health status of the publisher
func (p *ClaimEventPublisher) HealthCheck() PublisherHealthStatus {
	return PublisherHealthStatus{
		IsHealthy:         p.conn != nil && p.conn.Connection != nil && !p.conn.Connection.IsClosed(),
		MessagesPublished: p.messagesPublished.Load(),
		MessagesFailed:    p.messagesFailed.Load(),
		Queue:             ClaimQueue,
	}
}

// PublisherHealthStatus represents the health status of the publisher
type PublisherHealthStatus struct {
	IsHealthy         bool   `json:"is_healthy"`
	MessagesPublished int64  `json:"messages_published"`
	MessagesFailed    int64  `json:"messages_failed"`
	Queue             string `json:"queue"`
}

// NopPublisher drops every event. Used when RabbitMQ is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishClaimEvent(context.Context, ClaimEvent) error { return nil }
