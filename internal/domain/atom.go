package domain

import (
	"github.com/velichkin/persona/internal/engine"
)

// AtomKind — вид атома persona.
type AtomKind string

const (
	// AtomTrait — черта характера, значение в [-100, 100].
	AtomTrait AtomKind = "trait"

	// AtomSkill — навык, значение в [0, 100].
	AtomSkill AtomKind = "skill"

	// AtomExperience — опыт в предметной области, значение в [0, 100].
	AtomExperience AtomKind = "experience"

	// AtomStack — владение технологическим стеком, значение в [0, 100].
	AtomStack AtomKind = "stack"
)

// Valid проверяет, что вид атома известен.
func (k AtomKind) Valid() bool {
	switch k {
	case AtomTrait, AtomSkill, AtomExperience, AtomStack:
		return true
	default:
		return false
	}
}

// Namespace возвращает префикс пространства имён для target'ов этого вида.
// Для experience каноничный префикс — "exp".
func (k AtomKind) Namespace() string {
	if k == AtomExperience {
		return "exp"
	}
	return string(k)
}

// Atom — определение одного атома persona: именованная величина
// и правила композиции, выводящие её значение из других величин.
//
// Атомы авторятся в TOML и неизменяемы после загрузки.
type Atom struct {
	// Kind — вид атома.
	Kind AtomKind `json:"kind" toml:"kind"`

	// Key — ключ внутри вида ("caution", "go", "postgres").
	Key string `json:"key" toml:"key"`

	// Description — человекочитаемое описание.
	Description string `json:"description,omitempty" toml:"description"`

	// Rules — правила композиции значения атома.
	Rules []engine.CompositionRule `json:"rules,omitempty" toml:"rule"`
}

// Target возвращает идентификатор target'а атома: <namespace>.<key>.
func (a *Atom) Target() string {
	return a.Kind.Namespace() + "." + a.Key
}

// AtomSet — загруженный набор определений атомов и quirk'ов.
type AtomSet struct {
	// Atoms — атомы в порядке появления в файлах определения.
	// Порядок значим: от него зависит детерминированность
	// порядка вычисления.
	Atoms []Atom

	// Quirks — определения quirk'ов с условиями автоназначения.
	Quirks []QuirkDef

	// Phrases — фразы с условиями употребления.
	Phrases []PhraseDef
}

// ParsedRules разбирает все правила набора в плоский список.
// Правила с ошибками разбора пропускаются и сообщаются через onError
// (nil — ошибки молча отбрасываются): одно кривое правило не должно
// ронять загрузку всего набора.
func (s *AtomSet) ParsedRules(onError func(target string, err error)) []*engine.ParsedRule {
	var rules []*engine.ParsedRule
	for i := range s.Atoms {
		atom := &s.Atoms[i]
		for _, raw := range atom.Rules {
			parsed, err := engine.NewRule(atom.Target(), raw)
			if err != nil {
				if onError != nil {
					onError(atom.Target(), err)
				}
				continue
			}
			rules = append(rules, parsed)
		}
	}
	return rules
}
