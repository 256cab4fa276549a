// Package orchestrator рематериализует workspaces.
//
// Orchestrator отвечает за:
//   - Потребление persona.computed из очереди RabbitMQ
//   - Загрузку свежего профиля персоны
//   - Перерисовку PERSONA.md во всех привязанных workspaces
//
// Материализация идемпотентна: повторная доставка события просто
// перезапишет файл тем же содержимым.
package orchestrator
