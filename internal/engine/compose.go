package engine

import (
	"fmt"
	"log/slog"
	"strings"
)

// TargetType возвращает пространство имён target'а: "trait", "skill",
// "exp", "experience" или "stack". Нераспознанный префикс — ошибка;
// вызывающий код такой target пропускает.
func TargetType(target string) (string, error) {
	ns, _, ok := strings.Cut(target, ".")
	if !ok || !knownNamespace(ns) {
		return "", fmt.Errorf("target %q: %w", target, ErrUnknownNamespace)
	}
	return ns, nil
}

// defaultBase — единая база всех типов: середина диапазона trait
// [-100, 100] и нижняя граница skill/exp/stack [0, 100].
const defaultBase = 0.0

// BaseValue возвращает базовое значение для типа target'а.
// Типы сейчас не различаются, диапазоны расходятся только
// в NormalizeValue; сигнатура принимает тип на случай
// пер-типовых баз.
func BaseValue(targetType string) float64 {
	return defaultBase
}

// NormalizeValue зажимает значение в допустимый диапазон типа:
// trait — [-100, 100], skill/exp/experience/stack — [0, 100].
// Округления нет: дробные значения (например, 32.4) корректны.
func NormalizeValue(value float64, targetType string) float64 {
	lo := 0.0
	if targetType == "trait" {
		lo = -100
	}
	if value < lo {
		return lo
	}
	if value > 100 {
		return 100
	}
	return value
}

// AnchorPolicy — политика сочетания anchor'а и результата правил.
//
// Наблюдались оба поведения в разных путях вызова исходной системы,
// поэтому обе политики существуют явно, выбор — за вызывающим кодом.
type AnchorPolicy int

const (
	// AnchorAddRuleDelta — anchor служит стартовым значением,
	// вклад правил прибавляется: final = current + combined.
	AnchorAddRuleDelta AnchorPolicy = iota

	// AnchorReplaces — явный anchor возвращается как есть,
	// правила для такого target'а игнорируются целиком.
	AnchorReplaces
)

// String возвращает имя политики.
func (p AnchorPolicy) String() string {
	switch p {
	case AnchorAddRuleDelta:
		return "add-rule-delta"
	case AnchorReplaces:
		return "replace-with-anchor"
	default:
		return "unknown"
	}
}

// ParseAnchorPolicy разбирает имя политики.
func ParseAnchorPolicy(name string) (AnchorPolicy, error) {
	switch name {
	case "", "add-rule-delta":
		return AnchorAddRuleDelta, nil
	case "replace-with-anchor":
		return AnchorReplaces, nil
	default:
		return 0, fmt.Errorf("unknown anchor policy %q", name)
	}
}

// ValueTrace — диагностика вычисления одного target'а.
type ValueTrace struct {
	// Target — идентификатор target'а.
	Target string `json:"target"`

	// IsAnchor — true, если person задал явный anchor.
	IsAnchor bool `json:"is_anchor"`

	// RulesApplied — успешно сработавшие правила.
	RulesApplied []RuleResult `json:"rules_applied,omitempty"`

	// FinalValue — итоговое нормализованное значение.
	FinalValue float64 `json:"final_value"`
}

// ComputationTrace — диагностика полного прохода композиции.
type ComputationTrace struct {
	// Values — трассировка по каждому вычисленному target'у.
	Values map[string]ValueTrace `json:"values"`

	// CircularDependencies — найденные циклы (участники без повтора).
	CircularDependencies [][]string `json:"circular_dependencies,omitempty"`

	// ComputationOrder — реальный порядок вычисления.
	ComputationOrder []string `json:"computation_order"`
}

// Composer — проход композиции значений persona.
//
// Однопоточный и без побочных эффектов, кроме диагностики циклов
// в логгер. Всё состояние строится заново на каждый вызов Compute,
// поэтому независимые persons можно считать параллельно.
type Composer struct {
	policy AnchorPolicy
	logger *slog.Logger
}

// NewComposer создаёт Composer с заданной политикой anchor'ов.
func NewComposer(policy AnchorPolicy, logger *slog.Logger) *Composer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Composer{policy: policy, logger: logger}
}

// Policy возвращает политику anchor'ов.
func (c *Composer) Policy() AnchorPolicy {
	return c.policy
}

// Compute выполняет полный проход композиции.
//
// rules — разобранные правила всех атомов; anchors — явные значения
// person'а; ctx — контекст вычисления (Compute дописывает в него
// вычисленные значения, так что выражения поздних target'ов видят
// ранние).
//
// Порядок: строится коллекция и граф зависимостей, циклы логируются
// и исключаются, остаток вычисляется строго в топологическом порядке.
// Target'ы с anchor'ом, но без правил, проходят в результат
// нормализованными. Возвращает карту значений и трассировку.
func (c *Composer) Compute(rules []*ParsedRule, anchors map[string]float64, ctx *Context) (map[string]float64, *ComputationTrace, error) {
	collection := BuildCollection(rules)
	graph := BuildDependencyGraph(rules)
	order, cycles := graph.EvaluationOrder()

	for _, cycle := range cycles {
		LogCircularDependency(c.logger, cycle)
	}

	values := make(map[string]float64)
	trace := &ComputationTrace{
		Values:               make(map[string]ValueTrace),
		CircularDependencies: cycles,
		ComputationOrder:     order,
	}

	// Anchor'ы видимы выражениям с самого начала
	for target, anchor := range anchors {
		typ, err := TargetType(target)
		if err != nil {
			c.logger.Warn("skipping anchor with unknown namespace", "target", target)
			continue
		}
		ns, key, _ := strings.Cut(target, ".")
		ctx.Set(ns, key, NormalizeValue(anchor, typ))
	}

	for _, target := range order {
		typ, err := TargetType(target)
		if err != nil {
			c.logger.Warn("skipping target with unknown namespace", "target", target)
			continue
		}

		anchor, isAnchor := anchors[target]
		base := BaseValue(typ)
		current := base
		if isAnchor {
			current = anchor
		}

		final, applied := c.computeTarget(collection.Rules(target), typ, base, current, isAnchor, ctx)

		ns, key, _ := strings.Cut(target, ".")
		ctx.Set(ns, key, final)
		values[target] = final
		trace.Values[target] = ValueTrace{
			Target:       target,
			IsAnchor:     isAnchor,
			RulesApplied: applied,
			FinalValue:   final,
		}
	}

	// Участники циклов и anchor'ы без правил сохраняют anchor/base значение
	for _, cycle := range cycles {
		for _, target := range cycle {
			c.passThrough(target, anchors, values, trace)
		}
	}
	for target := range anchors {
		if _, computed := values[target]; !computed {
			c.passThrough(target, anchors, values, trace)
		}
	}

	return values, trace, nil
}

// computeTarget вычисляет один target по его правилам.
func (c *Composer) computeTarget(rules []*ParsedRule, typ string, base, current float64, isAnchor bool, ctx *Context) (float64, []RuleResult) {
	if isAnchor && c.policy == AnchorReplaces {
		// Явный anchor возвращается без изменений, правила не применяются
		return NormalizeValue(current, typ), nil
	}

	if len(rules) == 0 {
		return NormalizeValue(current, typ), nil
	}

	// current скоупится на target через view контекста
	view := ctx.WithCurrent(base, current)
	combined, applied, err := ApplyRules(rules, view)
	if err != nil {
		// Пустой набор правил сюда не попадает, но деградируем тихо
		return NormalizeValue(current, typ), nil
	}

	final := combined
	if isAnchor {
		final = current + combined
	}
	return NormalizeValue(final, typ), applied
}

// passThrough переносит anchor/base значение target'а в результат.
func (c *Composer) passThrough(target string, anchors map[string]float64, values map[string]float64, trace *ComputationTrace) {
	if _, exists := values[target]; exists {
		return
	}
	typ, err := TargetType(target)
	if err != nil {
		return
	}

	anchor, isAnchor := anchors[target]
	value := BaseValue(typ)
	if isAnchor {
		value = anchor
	}

	final := NormalizeValue(value, typ)
	values[target] = final
	trace.Values[target] = ValueTrace{
		Target:     target,
		IsAnchor:   isAnchor,
		FinalValue: final,
	}
}

// ComputeValue — упрощённая точка входа для одного target'а.
//
// Реализует политику AnchorReplaces: явный anchor возвращается
// без изменений, правила игнорируются. Без anchor'а значение
// выводится из правил поверх base.
func ComputeValue(target string, anchor *float64, rules []*ParsedRule, ctx *Context) (float64, error) {
	typ, err := TargetType(target)
	if err != nil {
		return 0, err
	}

	if anchor != nil {
		return NormalizeValue(*anchor, typ), nil
	}

	base := BaseValue(typ)
	if len(rules) == 0 {
		return NormalizeValue(base, typ), nil
	}

	view := ctx.WithCurrent(base, base)
	combined, _, err := ApplyRules(rules, view)
	if err != nil {
		return 0, err
	}
	return NormalizeValue(combined, typ), nil
}
