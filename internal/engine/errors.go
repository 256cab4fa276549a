package engine

import (
	"errors"
	"fmt"
)

// Базовые ошибки движка правил.
var (
	// ErrNoRules — ApplyRules вызван с пустым набором правил.
	// Это ошибка программиста, а не данных: вызывающий код обязан
	// проверять наличие правил до вызова.
	ErrNoRules = errors.New("no rules to apply")

	// ErrUnknownNamespace — target имеет нераспознанный префикс пространства имён.
	ErrUnknownNamespace = errors.New("unknown target namespace")

	// ErrBadWeight — вес правила отрицательный или не является конечным числом.
	ErrBadWeight = errors.New("rule weight must be a non-negative finite number")
)

// LexError — ошибка лексического анализа выражения.
// Фатальна только для одного выражения: правило с таким выражением
// выпадает из комбинации своего target'а, общий проход продолжается.
type LexError struct {
	// Message — описание проблемы.
	Message string

	// Position — позиция (байтовый offset) в исходной строке.
	Position int
}

// Error реализует интерфейс error.
func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at %d: %s", e.Position, e.Message)
}

// ParseError — синтаксическая ошибка в выражении правила.
// Семантика деградации та же, что у LexError.
type ParseError struct {
	// Message — описание проблемы.
	Message string

	// Position — позиция токена, вызвавшего ошибку.
	Position int
}

// Error реализует интерфейс error.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d: %s", e.Position, e.Message)
}

// EvalError — ошибка вычисления выражения: неизвестная ссылка,
// неизвестное специальное значение, незарегистрированная функция,
// wildcard вне допустимого контекста.
//
// Фатальна для одного применения правила. Если для target'а не
// сработало ни одно правило, он сохраняет своё anchor/base значение.
type EvalError struct {
	// Message — описание проблемы.
	Message string
}

// Error реализует интерфейс error.
func (e *EvalError) Error() string {
	return "eval error: " + e.Message
}

// evalErrorf создаёт EvalError с форматированием.
func evalErrorf(format string, args ...any) *EvalError {
	return &EvalError{Message: fmt.Sprintf(format, args...)}
}

// RuleEngineError — нарушение предусловия API движка.
// В отличие от Lex/Parse/Eval ошибок не «проглатывается» — поднимается
// напрямую вызывающему коду.
type RuleEngineError struct {
	// Op — операция, в которой нарушено предусловие.
	Op string

	// Err — базовая ошибка (ErrNoRules и т.п.).
	Err error
}

// Error реализует интерфейс error.
func (e *RuleEngineError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

// Unwrap возвращает базовую ошибку.
func (e *RuleEngineError) Unwrap() error {
	return e.Err
}
