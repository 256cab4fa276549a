// Package mq предоставляет инфраструктуру для работы с RabbitMQ.
//
// Структура:
//   - connection.go — управление соединением с RabbitMQ (reconnect, graceful shutdown)
//   - topology.go   — объявление exchanges, queues, bindings
//   - publisher.go  — публикация доменных событий
//   - consumer.go   — потребление сообщений из очередей
//
// Типы событий:
//   - persona.computed — профиль персоны пересчитан
//   - memory.decayed   — завершён проход затухания воспоминаний
//
// Exchanges:
//   - persona.events — topic exchange доменных событий
//   - persona.dlq    — dead letter exchange
package mq
