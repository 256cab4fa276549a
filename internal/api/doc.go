// Package api содержит HTTP API сервер.
//
// Структура:
//   - handler.go           — Handler с DI (репозитории, composer, resolver, publisher)
//   - routes.go            — регистрация маршрутов
//   - middleware.go        — middleware (logging, recovery, метрики)
//   - response.go          — унифицированные JSON-ответы и обработка ошибок
//   - dto.go               — Data Transfer Objects (request/response)
//   - person_handler.go    — обработчики для /persons (включая compute)
//   - memory_handler.go    — обработчики для /memories
//   - workspace_handler.go — обработчики для /workspaces
//   - resolve_handler.go   — разрешение context-URI
//
// API предоставляет REST endpoints для управления персонами,
// воспоминаниями и workspaces.
package api
