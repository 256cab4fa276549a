// Package engine реализует движок правил композиции persona.
//
// Включает:
//   - lexer.go   — токенизация выражений правил
//   - parser.go  — рекурсивный спуск, построение AST
//   - eval.go    — вычисление AST в контексте, встроенные функции
//   - graph.go   — граф зависимостей, поиск циклов, порядок вычисления
//   - rules.go   — группировка правил по target'у и взвешенная комбинация
//   - compose.go — сочетание anchor'ов с результатом правил и нормализация
//
// Конвейер: строка правила → токены → AST → зависимости → граф по всем
// target'ам → {порядок, циклы} → вычисление по порядку → взвешенная
// комбинация → anchor blend → зажим в диапазон → значения + трассировка.
//
// Движок синхронный и не делает I/O; единственный побочный эффект —
// диагностика циклов в логгер. Состояние каждого прохода строится
// заново, поэтому вычисления для независимых persons можно запускать
// параллельно. Внутри одного прохода target'ы вычисляются строго
// последовательно: выражения поздних target'ов читают значения ранних.
package engine
