package mq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange — тип для имени обменника.
type Exchange string

// Queue — тип для имени очереди.
type Queue string

// RoutingKey — тип для ключа маршрутизации.
type RoutingKey string

// Exchanges — имена обменников.
const (
	// ExchangeEvents — topic exchange доменных событий.
	// Routing key совпадает с типом события.
	ExchangeEvents Exchange = "persona.events"

	// ExchangeDLQ — dead letter exchange.
	ExchangeDLQ Exchange = "persona.dlq"
)

// Queues — имена очередей.
const (
	// QueueWorkspacesMaterialize — пересчитанные профили для
	// рематериализации workspaces. Consumer: orchestrator.
	QueueWorkspacesMaterialize Queue = "workspaces.materialize"

	// QueueEventsAudit — все события для аудита.
	QueueEventsAudit Queue = "events.audit"

	// QueueDLQEvents — сама DLQ очередь.
	QueueDLQEvents Queue = "dlq.events"
)

// Routing keys.
const (
	RoutingKeyPersonaComputed RoutingKey = "persona.computed"
	RoutingKeyMemoryDecayed   RoutingKey = "memory.decayed"
	RoutingKeyAll             RoutingKey = "#"
	RoutingKeyDLQEvents       RoutingKey = "events"
)

// SetupTopology объявляет обменники, очереди и привязки.
// Операции идемпотентны, каждый сервис вызывает на старте.
func SetupTopology(ctx context.Context, conn *Connection) error {
	return conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		if err := declareExchanges(ch); err != nil {
			return err
		}
		if err := declareQueues(ch); err != nil {
			return err
		}
		return bindQueues(ch)
	})
}

// declareExchanges создаёт обменники.
func declareExchanges(ch *amqp.Channel) error {
	exchanges := []struct {
		name Exchange
		kind string
	}{
		{ExchangeEvents, "topic"},
		{ExchangeDLQ, "direct"},
	}

	for _, ex := range exchanges {
		err := ch.ExchangeDeclare(
			string(ex.name), // name
			ex.kind,         // type
			true,            // durable
			false,           // auto-deleted
			false,           // internal
			false,           // no-wait
			nil,             // arguments
		)
		if err != nil {
			return fmt.Errorf("declare exchange %s: %w", ex.name, err)
		}
	}

	return nil
}

// declareQueues создаёт очереди.
func declareQueues(ch *amqp.Channel) error {
	dlqArgs := amqp.Table{
		"x-dead-letter-exchange":    string(ExchangeDLQ),
		"x-dead-letter-routing-key": string(RoutingKeyDLQEvents),
	}

	queues := []struct {
		name Queue
		args amqp.Table
	}{
		// workspaces.materialize — с DLQ (материализация может падать,
		// после retry событие не должно теряться)
		{QueueWorkspacesMaterialize, dlqArgs},

		// events.audit — без DLQ (только наблюдение)
		{QueueEventsAudit, nil},

		// dlq.events — сама DLQ очередь
		{QueueDLQEvents, nil},
	}

	for _, q := range queues {
		_, err := ch.QueueDeclare(
			string(q.name), // name
			true,           // durable
			false,          // delete when unused
			false,          // exclusive
			false,          // no-wait
			q.args,         // arguments
		)
		if err != nil {
			return fmt.Errorf("declare queue %s: %w", q.name, err)
		}
	}

	return nil
}

// bindQueues привязывает очереди к обменникам.
func bindQueues(ch *amqp.Channel) error {
	bindings := []struct {
		queue      Queue
		routingKey RoutingKey
		exchange   Exchange
	}{
		{QueueWorkspacesMaterialize, RoutingKeyPersonaComputed, ExchangeEvents},
		{QueueEventsAudit, RoutingKeyAll, ExchangeEvents},
		{QueueDLQEvents, RoutingKeyDLQEvents, ExchangeDLQ},
	}

	for _, b := range bindings {
		err := ch.QueueBind(
			string(b.queue),      // queue name
			string(b.routingKey), // routing key
			string(b.exchange),   // exchange
			false,                // no-wait
			nil,                  // arguments
		)
		if err != nil {
			return fmt.Errorf("bind queue %s to %s: %w", b.queue, b.exchange, err)
		}
	}

	return nil
}
