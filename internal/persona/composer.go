package persona

import (
	"log/slog"
	"time"

	"github.com/velichkin/persona/internal/domain"
	"github.com/velichkin/persona/internal/engine"
)

// Composer — сервис полного вычисления профиля персоны.
//
// Поверх движка правил добавляет два шага, работающих с тем же
// контекстом вычисления: автоназначение quirk'ов и подбор фраз.
type Composer struct {
	set    *domain.AtomSet
	rules  []*engine.ParsedRule
	logger *slog.Logger
}

// NewComposer создаёт Composer над загруженным набором атомов.
// Правила разбираются один раз; неразбираемые правила логируются
// и пропускаются.
func NewComposer(set *domain.AtomSet, logger *slog.Logger) *Composer {
	if logger == nil {
		logger = slog.Default()
	}

	rules := set.ParsedRules(func(target string, err error) {
		logger.Warn("dropping unparsable rule", "target", target, "error", err)
	})

	return &Composer{set: set, rules: rules, logger: logger}
}

// Result — профиль персоны вместе с трассировкой вычисления.
type Result struct {
	// Profile — вычисленный профиль.
	Profile *domain.Profile

	// Trace — диагностика прохода движка.
	Trace *engine.ComputationTrace
}

// Compose вычисляет профиль персоны с заданной политикой anchor'ов.
//
// Порядок: проход движка по правилам → перенос значений в профиль →
// автоназначение quirk'ов → подбор фраз. Quirk'и и фразы вычисляются
// по условиям any_of/all_of через EvaluateCondition над контекстом,
// уже наполненным вычисленными значениями.
func (c *Composer) Compose(person *domain.Person, policy engine.AnchorPolicy) (*Result, error) {
	ctx := engine.NewContext()
	for _, quirk := range person.Quirks {
		ctx.Quirks[quirk] = struct{}{}
	}

	composer := engine.NewComposer(policy, c.logger.With("person_id", person.ID))
	values, trace, err := composer.Compute(c.rules, person.Anchors, ctx)
	if err != nil {
		return nil, err
	}

	profile := &domain.Profile{
		PersonID:   person.ID,
		Traits:     map[string]float64{},
		Skills:     map[string]float64{},
		Experience: map[string]float64{},
		Stacks:     map[string]float64{},
		ComputedAt: time.Now().UTC(),
	}

	for target, value := range values {
		typ, err := engine.TargetType(target)
		if err != nil {
			continue
		}
		_, key, _ := splitTarget(target)
		switch typ {
		case "trait":
			profile.Traits[key] = value
		case "skill":
			profile.Skills[key] = value
		case "exp", "experience":
			profile.Experience[key] = value
		case "stack":
			profile.Stacks[key] = value
		}
	}

	profile.Quirks = c.assignQuirks(person, ctx)
	profile.Phrases = c.matchPhrases(ctx)

	return &Result{Profile: profile, Trace: trace}, nil
}

// assignQuirks объединяет явные quirk'и персоны с автоназначенными.
//
// Quirk назначается, если истинно хотя бы одно условие any_of
// и все условия all_of. Один из списков может быть пуст и тогда
// не ограничивает; определение совсем без условий не срабатывает
// никогда (безусловные quirk'и задаются только явно у персоны,
// загрузчик такие определения отклоняет).
func (c *Composer) assignQuirks(person *domain.Person, ctx *engine.Context) []string {
	assigned := make([]string, 0, len(person.Quirks))
	seen := make(map[string]struct{})

	for _, quirk := range person.Quirks {
		if _, dup := seen[quirk]; dup {
			continue
		}
		seen[quirk] = struct{}{}
		assigned = append(assigned, quirk)
	}

	for _, def := range c.set.Quirks {
		if _, dup := seen[def.Key]; dup {
			continue
		}
		if !conditionsHold(def.AnyOf, def.AllOf, ctx) {
			continue
		}
		seen[def.Key] = struct{}{}
		ctx.Quirks[def.Key] = struct{}{}
		assigned = append(assigned, def.Key)
	}

	return assigned
}

// matchPhrases возвращает фразы, чьи условия выполняются.
func (c *Composer) matchPhrases(ctx *engine.Context) []string {
	var phrases []string
	for _, def := range c.set.Phrases {
		if conditionsHold(def.AnyOf, def.AllOf, ctx) {
			phrases = append(phrases, def.Text)
		}
	}
	return phrases
}

// conditionsHold проверяет списки условий any_of/all_of.
// Оба списка пустые — false: совпадение требует хотя бы одного условия.
func conditionsHold(anyOf, allOf []string, ctx *engine.Context) bool {
	if len(anyOf) > 0 {
		matched := false
		for _, cond := range anyOf {
			if engine.EvaluateCondition(cond, ctx) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	for _, cond := range allOf {
		if !engine.EvaluateCondition(cond, ctx) {
			return false
		}
	}

	return len(anyOf) > 0 || len(allOf) > 0
}

// splitTarget делит target на namespace и key.
func splitTarget(target string) (string, string, bool) {
	for i := 0; i < len(target); i++ {
		if target[i] == '.' {
			return target[:i], target[i+1:], true
		}
	}
	return target, "", false
}
