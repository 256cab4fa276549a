package engine

import (
	"fmt"
	"math"
)

// CompositionRule — авторское правило композиции из определения атома.
// Неизменяемые данные: описание, сырое выражение и неотрицательный вес.
type CompositionRule struct {
	// Description — человекочитаемое описание правила.
	Description string `json:"description" toml:"description"`

	// Expression — выражение на языке правил.
	Expression string `json:"expression" toml:"expression"`

	// Weight — вес правила при комбинации (≥ 0).
	Weight float64 `json:"weight" toml:"weight"`
}

// ParsedRule — правило, разобранное в AST и привязанное к target'у.
// Строится один раз через NewRule, дальше не меняется.
type ParsedRule struct {
	// Target — идентификатор <namespace>.<key>, который правило вычисляет.
	Target string

	// Description — описание из исходного правила.
	Description string

	// Weight — вес из исходного правила.
	Weight float64

	// Expression — сырая строка выражения (для трассировки).
	Expression string

	// AST — разобранное выражение.
	AST Expr
}

// NewRule разбирает правило и привязывает его к target'у.
//
// Проверяет: target имеет распознаваемое пространство имён,
// вес — неотрицательное конечное число, выражение разбирается.
func NewRule(target string, rule CompositionRule) (*ParsedRule, error) {
	if _, err := TargetType(target); err != nil {
		return nil, err
	}

	if rule.Weight < 0 || math.IsInf(rule.Weight, 0) || math.IsNaN(rule.Weight) {
		return nil, fmt.Errorf("rule for %s: %w (got %v)", target, ErrBadWeight, rule.Weight)
	}

	ast, err := ParseString(rule.Expression)
	if err != nil {
		return nil, fmt.Errorf("rule for %s: %w", target, err)
	}

	return &ParsedRule{
		Target:      target,
		Description: rule.Description,
		Weight:      rule.Weight,
		Expression:  rule.Expression,
		AST:         ast,
	}, nil
}

// Collection — правила, сгруппированные по target'у.
// Порядок вставки target'ов сохраняется: от него зависит
// детерминированность порядка вычисления при равных условиях.
type Collection struct {
	// Targets — target'ы в порядке первого появления.
	Targets []string

	byTarget map[string][]*ParsedRule
}

// BuildCollection группирует разобранные правила по target'у.
func BuildCollection(rules []*ParsedRule) *Collection {
	c := &Collection{byTarget: make(map[string][]*ParsedRule)}
	for _, rule := range rules {
		if _, seen := c.byTarget[rule.Target]; !seen {
			c.Targets = append(c.Targets, rule.Target)
		}
		c.byTarget[rule.Target] = append(c.byTarget[rule.Target], rule)
	}
	return c
}

// Rules возвращает правила target'а в порядке добавления.
func (c *Collection) Rules(target string) []*ParsedRule {
	return c.byTarget[target]
}

// Len возвращает количество target'ов в коллекции.
func (c *Collection) Len() int {
	return len(c.Targets)
}

// RuleResult — результат вычисления одного правила (для трассировки).
type RuleResult struct {
	// Description — описание правила.
	Description string `json:"description"`

	// Expression — сырое выражение.
	Expression string `json:"expression"`

	// Result — вычисленное значение.
	Result float64 `json:"result"`

	// Weight — вес правила.
	Weight float64 `json:"weight"`
}

// ApplyRule вычисляет одно правило в данном контексте.
func ApplyRule(rule *ParsedRule, ctx *Context) (float64, error) {
	return Evaluate(rule.AST, ctx)
}

// ApplyRules вычисляет все правила target'а и комбинирует результаты
// по весам: Σ(result·weight) / Σ(weight).
//
// Правило, чьё вычисление упало (например, ссылка на ещё не
// вычисленный target), пропускается в этом проходе — частичный отказ
// не прерывает вычисление target'а. Если не сработало ни одно правило
// или суммарный вес равен нулю, вклад равен 0.
//
// Пустой срез правил — нарушение предусловия: *RuleEngineError.
func ApplyRules(rules []*ParsedRule, ctx *Context) (float64, []RuleResult, error) {
	if len(rules) == 0 {
		return 0, nil, &RuleEngineError{Op: "ApplyRules", Err: ErrNoRules}
	}

	applied := make([]RuleResult, 0, len(rules))
	var weightedSum, totalWeight float64

	for _, rule := range rules {
		value, err := ApplyRule(rule, ctx)
		if err != nil {
			continue
		}

		applied = append(applied, RuleResult{
			Description: rule.Description,
			Expression:  rule.Expression,
			Result:      value,
			Weight:      rule.Weight,
		})
		weightedSum += value * rule.Weight
		totalWeight += rule.Weight
	}

	if totalWeight == 0 {
		return 0, applied, nil
	}
	return weightedSum / totalWeight, applied, nil
}
