package domain

import (
	"time"

	"github.com/google/uuid"
)

// Memory — воспоминание персоны.
//
// Релевантность воспоминания затухает по полураспаду: без обращений
// она падает вдвое за HalfLifeDays дней, но никогда не опускается
// ниже пола — воспоминания не забываются полностью. Обращение
// (Touch) возвращает релевантность к 1.
type Memory struct {
	// ID — уникальный идентификатор воспоминания.
	ID uuid.UUID `json:"id"`

	// PersonID — персона-владелец.
	PersonID uuid.UUID `json:"person_id"`

	// Kind — вид воспоминания ("episode", "fact", "preference").
	Kind string `json:"kind"`

	// Content — текст воспоминания.
	Content string `json:"content"`

	// Relevance — текущая релевантность в [floor, 1].
	Relevance float64 `json:"relevance"`

	// HalfLifeDays — период полураспада релевантности в днях.
	HalfLifeDays float64 `json:"half_life_days"`

	// Pinned — закреплённые воспоминания не затухают.
	Pinned bool `json:"pinned"`

	// CreatedAt — время создания.
	CreatedAt time.Time `json:"created_at"`

	// LastAccessedAt — время последнего обращения; от него
	// отсчитывается возраст при затухании.
	LastAccessedAt time.Time `json:"last_accessed_at"`
}

// Touch отмечает обращение к воспоминанию: релевантность
// возвращается к 1, отсчёт возраста начинается заново.
func (m *Memory) Touch(now time.Time) {
	m.Relevance = 1
	m.LastAccessedAt = now
}
