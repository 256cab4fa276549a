package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/velichkin/persona/internal/domain"
	"github.com/velichkin/persona/internal/telemetry"
)

// Publisher публикует доменные события в RabbitMQ.
type Publisher struct {
	conn   *Connection
	logger *slog.Logger
}

// NewPublisher создаёт новый Publisher.
func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: logger,
	}
}

// Message — конверт события в очереди.
type Message struct {
	// ID — уникальный идентификатор сообщения.
	ID string `json:"id"`

	// Type — тип события (domain.EventPersonaComputed и т.д.).
	Type string `json:"type"`

	// Payload — полезная нагрузка.
	Payload any `json:"payload"`

	// Timestamp — время создания.
	Timestamp time.Time `json:"timestamp"`
}

// Publish публикует событие. Routing key совпадает с типом события.
func (p *Publisher) Publish(ctx context.Context, eventType string, payload any) error {
	msg := &Message{
		ID:        uuid.New().String(),
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	return p.conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.PublishWithContext(
			ctx,
			string(ExchangeEvents),
			eventType, // routing key
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent, // сообщение переживёт рестарт RabbitMQ
				MessageId:    msg.ID,
				Timestamp:    msg.Timestamp,
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish %s: %w", eventType, err)
		}

		telemetry.EventsPublishedTotal.WithLabelValues(eventType).Inc()
		p.logger.Debug("published event",
			"event", eventType,
			"message_id", msg.ID,
		)

		return nil
	})
}

// PublishPersonaComputed публикует событие пересчёта профиля.
// Потребитель: orchestrator (рематериализация workspaces).
func (p *Publisher) PublishPersonaComputed(ctx context.Context, event domain.PersonaComputedEvent) error {
	return p.Publish(ctx, domain.EventPersonaComputed, event)
}

// PublishMemoryDecayed публикует итог прохода затухания.
func (p *Publisher) PublishMemoryDecayed(ctx context.Context, event domain.MemoryDecayedEvent) error {
	return p.Publish(ctx, domain.EventMemoryDecayed, event)
}
