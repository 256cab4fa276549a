// Package cli реализует инструмент командной строки Persona.
//
// # Обзор
//
// CLI — клиентская утилита для взаимодействия с Persona API.
// Работает через HTTP, не импортирует internal/api: DTO дублируются,
// чтобы CLI оставался независимым от серверной реализации.
// Единственное исключение — команда atoms, которая валидирует
// TOML-определения локально через internal/atoms.
//
// # Ключевые компоненты
//
// ## Client
//
// HTTP-клиент для Persona API. Инкапсулирует все HTTP-запросы,
// парсинг ответов (DataResponse, ListResponse, ErrorResponse)
// и обработку ошибок.
//
//	client := cli.NewClient("http://localhost:8080")
//	persons, err := client.ListPersons()
//
// ## Output
//
// Форматирование вывода. Поддерживает два режима:
//   - Таблицы (text/tabwriter) — по умолчанию
//   - JSON (json.MarshalIndent) — с флагом --json
//
// Данные выводятся в stdout, сообщения (Success/Error) — в stderr.
// Это позволяет использовать pipe: persona person list --json | jq .
//
// ## Commands
//
// Cobra-команды организованы по ресурсам:
//   - person: list, create, show, delete, compute, profile
//   - memory: list, add, touch, delete
//   - workspace: list, add, status, bind, materialize, delete
//   - resolve: разрешение context-URI
//   - atoms: validate, list (локально, без API)
//
// Каждая группа создаётся через фабричную функцию (NewPersonCmd и т.д.),
// принимающую clientFn и outputFn — замыкания для ленивого создания
// Client и Output после парсинга PersistentFlags.
package cli
