package domain

import (
	"time"

	"github.com/google/uuid"
)

// Person — персона разработчика: явно заданные значения (anchors),
// явные quirk'и и привязанные воспоминания.
//
// Anchors — то, что автор персоны зафиксировал руками; всё остальное
// выводится движком правил из определений атомов.
type Person struct {
	// ID — уникальный идентификатор персоны.
	ID uuid.UUID `json:"id"`

	// Name — уникальное имя персоны ("marina", "grumpy-reviewer").
	Name string `json:"name"`

	// Description — свободное описание.
	Description string `json:"description,omitempty"`

	// Anchors — явные значения: target → число.
	// Anchor имеет приоритет над выводом из правил; как именно —
	// определяет политика anchor'ов при вычислении.
	Anchors map[string]float64 `json:"anchors,omitempty"`

	// Quirks — явно назначенные quirk'и.
	Quirks []string `json:"quirks,omitempty"`

	// CreatedAt — время создания.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt — время последнего изменения.
	UpdatedAt time.Time `json:"updated_at"`
}

// Profile — результат полного вычисления персоны.
//
// Values — нормализованные значения по target'ам; Quirks — объединение
// явных и автоназначенных; Phrases — фразы, чьи условия выполнились.
type Profile struct {
	// PersonID — персона, для которой вычислен профиль.
	PersonID uuid.UUID `json:"person_id"`

	// Traits, Skills, Experience, Stacks — вычисленные значения по видам.
	Traits     map[string]float64 `json:"traits"`
	Skills     map[string]float64 `json:"skills"`
	Experience map[string]float64 `json:"experience"`
	Stacks     map[string]float64 `json:"stacks"`

	// Quirks — активные quirk'и (явные + автоназначенные).
	Quirks []string `json:"quirks,omitempty"`

	// Phrases — фразы, доступные персоне в текущем состоянии.
	Phrases []string `json:"phrases,omitempty"`

	// ComputedAt — время вычисления.
	ComputedAt time.Time `json:"computed_at"`
}

// Value возвращает значение target'а из профиля.
func (p *Profile) Value(namespace, key string) (float64, bool) {
	switch namespace {
	case "trait":
		v, ok := p.Traits[key]
		return v, ok
	case "skill":
		v, ok := p.Skills[key]
		return v, ok
	case "exp", "experience":
		v, ok := p.Experience[key]
		return v, ok
	case "stack":
		v, ok := p.Stacks[key]
		return v, ok
	default:
		return 0, false
	}
}
