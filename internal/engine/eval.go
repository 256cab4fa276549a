package engine

import (
	"math"
)

// Context — значения, видимые выражению во время вычисления.
//
// Строится заново на каждый проход композиции для одного person
// и отбрасывается после. Карты по пространствам имён пополняются
// по мере вычисления target'ов, так что более поздние target'ы
// видят уже вычисленные значения более ранних.
type Context struct {
	// Traits — черты характера: key → значение в [-100, 100].
	Traits map[string]float64

	// Skills — навыки: key → значение в [0, 100].
	Skills map[string]float64

	// Experience — опыт: key → значение в [0, 100].
	Experience map[string]float64

	// Stacks — владение технологическим стеком: key → значение в [0, 100].
	Stacks map[string]float64

	// Quirks — множество явных и автоназначенных quirk'ов.
	Quirks map[string]struct{}

	// Base — базовое значение типа текущего target'а.
	Base float64

	// Current — значение текущего target'а до применения правил
	// (anchor либо base). Скоупится на один target.
	Current float64
}

// NewContext создаёт пустой контекст с инициализированными картами.
func NewContext() *Context {
	return &Context{
		Traits:     make(map[string]float64),
		Skills:     make(map[string]float64),
		Experience: make(map[string]float64),
		Stacks:     make(map[string]float64),
		Quirks:     make(map[string]struct{}),
	}
}

// WithCurrent возвращает view контекста с подменёнными base/current.
// Карты разделяются с оригиналом, сами поля — нет: это позволяет
// скоупить current на target без мутации общего состояния.
func (c *Context) WithCurrent(base, current float64) *Context {
	view := *c
	view.Base = base
	view.Current = current
	return &view
}

// Lookup возвращает значение ссылки <namespace>.<key>.
// Пространства exp и experience — синонимы.
func (c *Context) Lookup(namespace, key string) (float64, bool) {
	switch namespace {
	case "trait":
		v, ok := c.Traits[key]
		return v, ok
	case "skill":
		v, ok := c.Skills[key]
		return v, ok
	case "exp", "experience":
		v, ok := c.Experience[key]
		return v, ok
	case "stack":
		v, ok := c.Stacks[key]
		return v, ok
	default:
		return 0, false
	}
}

// Set записывает значение target'а в карту его пространства имён.
// Нераспознанное пространство имён игнорируется.
func (c *Context) Set(namespace, key string, value float64) {
	switch namespace {
	case "trait":
		c.Traits[key] = value
	case "skill":
		c.Skills[key] = value
	case "exp", "experience":
		c.Experience[key] = value
	case "stack":
		c.Stacks[key] = value
	}
}

// HasQuirk проверяет наличие quirk'а.
func (c *Context) HasQuirk(key string) bool {
	_, ok := c.Quirks[key]
	return ok
}

// Builtin — встроенная функция выражений.
type Builtin func(args []float64) (float64, error)

// builtins — таблица встроенных функций. Пополняется через RegisterBuiltin.
var builtins = map[string]Builtin{
	"min":   builtinMin,
	"max":   builtinMax,
	"abs":   builtinAbs,
	"clamp": builtinClamp,
}

// RegisterBuiltin регистрирует встроенную функцию.
// Повторная регистрация имени заменяет предыдущую функцию.
func RegisterBuiltin(name string, fn Builtin) {
	builtins[name] = fn
}

// builtinMin — минимум из одного и более аргументов.
func builtinMin(args []float64) (float64, error) {
	if len(args) == 0 {
		return 0, evalErrorf("min expects at least 1 argument")
	}
	m := args[0]
	for _, a := range args[1:] {
		m = math.Min(m, a)
	}
	return m, nil
}

// builtinMax — максимум из одного и более аргументов.
func builtinMax(args []float64) (float64, error) {
	if len(args) == 0 {
		return 0, evalErrorf("max expects at least 1 argument")
	}
	m := args[0]
	for _, a := range args[1:] {
		m = math.Max(m, a)
	}
	return m, nil
}

// builtinAbs — модуль числа.
func builtinAbs(args []float64) (float64, error) {
	if len(args) != 1 {
		return 0, evalErrorf("abs expects 1 argument, got %d", len(args))
	}
	return math.Abs(args[0]), nil
}

// builtinClamp — clamp(x, lo, hi).
func builtinClamp(args []float64) (float64, error) {
	if len(args) != 3 {
		return 0, evalErrorf("clamp expects 3 arguments, got %d", len(args))
	}
	x, lo, hi := args[0], args[1], args[2]
	if x < lo {
		return lo, nil
	}
	if x > hi {
		return hi, nil
	}
	return x, nil
}

// Evaluate редуцирует AST к числу в данном контексте.
//
// Ссылка на отсутствующий ключ, неизвестное специальное значение,
// незарегистрированная функция и голый wildcard дают *EvalError.
// Деление следует IEEE-754: деление на ноль даёт ±Inf, не ошибку.
func Evaluate(expr Expr, ctx *Context) (float64, error) {
	switch node := expr.(type) {
	case *NumberLit:
		return node.Value, nil

	case *Ident:
		value, ok := ctx.Lookup(node.Namespace, node.Key)
		if !ok {
			return 0, evalErrorf("undefined reference: %s.%s", node.Namespace, node.Key)
		}
		return value, nil

	case *SpecialValue:
		switch node.Name {
		case "base":
			return ctx.Base, nil
		case "current":
			return ctx.Current, nil
		default:
			return 0, evalErrorf("unknown special value: %s", node.Name)
		}

	case *Wildcard:
		return 0, evalErrorf("wildcard has no value in this position")

	case *BinaryExpr:
		left, err := Evaluate(node.Left, ctx)
		if err != nil {
			return 0, err
		}
		right, err := Evaluate(node.Right, ctx)
		if err != nil {
			return 0, err
		}
		switch node.Op {
		case "+":
			return left + right, nil
		case "-":
			return left - right, nil
		case "*":
			return left * right, nil
		case "/":
			return left / right, nil
		default:
			return 0, evalErrorf("unknown operator: %s", node.Op)
		}

	case *CompareExpr:
		left, err := Evaluate(node.Left, ctx)
		if err != nil {
			return 0, err
		}
		right, err := Evaluate(node.Right, ctx)
		if err != nil {
			return 0, err
		}
		var result bool
		switch node.Op {
		case ">":
			result = left > right
		case "<":
			result = left < right
		case ">=":
			result = left >= right
		case "<=":
			result = left <= right
		case "==":
			result = left == right
		case "!=":
			result = left != right
		default:
			return 0, evalErrorf("unknown comparison: %s", node.Op)
		}
		if result {
			return 1, nil
		}
		return 0, nil

	case *CallExpr:
		fn, ok := builtins[node.Name]
		if !ok {
			return 0, evalErrorf("unknown function: %s", node.Name)
		}
		args := make([]float64, len(node.Args))
		for i, argExpr := range node.Args {
			value, err := Evaluate(argExpr, ctx)
			if err != nil {
				return 0, err
			}
			args[i] = value
		}
		return fn(args)

	default:
		return 0, evalErrorf("unsupported expression node %T", expr)
	}
}

// EvaluateCondition парсит и вычисляет булево условие.
// Истина — ненулевой результат. Любая ошибка лексера, парсера или
// вычислителя трактуется как «ложь»: условия с опечатками или
// ссылками на отсутствующие значения просто не срабатывают.
//
// Используется автоназначением quirk'ов и подбором фраз
// (списки условий any_of / all_of).
func EvaluateCondition(source string, ctx *Context) bool {
	expr, err := ParseString(source)
	if err != nil {
		return false
	}
	value, err := Evaluate(expr, ctx)
	if err != nil {
		return false
	}
	return value != 0
}
