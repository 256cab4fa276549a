package domain

import (
	"time"

	"github.com/google/uuid"
)

// Типы событий, публикуемых в шину.
const (
	// EventPersonaComputed — профиль персоны пересчитан.
	EventPersonaComputed = "persona.computed"

	// EventMemoryDecayed — завершён проход затухания воспоминаний.
	EventMemoryDecayed = "memory.decayed"
)

// PersonaComputedEvent — событие пересчёта профиля персоны.
// Потребляется orchestrator'ом для рематериализации привязанных
// workspaces.
type PersonaComputedEvent struct {
	// EventID — уникальный идентификатор события.
	EventID uuid.UUID `json:"event_id"`

	// PersonID — персона, чей профиль пересчитан.
	PersonID uuid.UUID `json:"person_id"`

	// Policy — использованная политика anchor'ов.
	Policy string `json:"policy"`

	// Targets — количество вычисленных target'ов.
	Targets int `json:"targets"`

	// Cycles — количество обнаруженных циклов.
	Cycles int `json:"cycles"`

	// ComputedAt — время вычисления.
	ComputedAt time.Time `json:"computed_at"`
}

// MemoryDecayedEvent — событие прохода затухания.
type MemoryDecayedEvent struct {
	// EventID — уникальный идентификатор события.
	EventID uuid.UUID `json:"event_id"`

	// Scanned — сколько воспоминаний просмотрено.
	Scanned int `json:"scanned"`

	// Updated — у скольких изменилась релевантность.
	Updated int `json:"updated"`

	// SweptAt — время прохода.
	SweptAt time.Time `json:"swept_at"`
}
