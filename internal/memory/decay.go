// Package memory реализует затухание релевантности воспоминаний.
//
// Алгоритм — полураспад: без обращений релевантность падает вдвое
// за период HalfLifeDays, но не опускается ниже пола — воспоминание
// никогда не забывается полностью. Обращение возвращает релевантность
// к 1. Закреплённые (pinned) воспоминания не затухают.
//
// Затухание считается в Go, а не в SQL: проход sweeper'а читает
// строки, пересчитывает релевантность и пишет изменившиеся обратно.
package memory

import (
	"math"
	"time"

	"github.com/velichkin/persona/internal/domain"
)

const (
	// DefaultHalfLifeDays — период полураспада по умолчанию.
	DefaultHalfLifeDays = 90.0

	// RelevanceFloor — нижняя граница релевантности.
	RelevanceFloor = 0.1
)

// Relevance возвращает релевантность воспоминания на момент now.
//
// relevance = max(floor, 2^(-age/halfLife)), где age — время с
// последнего обращения в днях. Для pinned воспоминаний всегда 1.
func Relevance(m *domain.Memory, now time.Time) float64 {
	if m.Pinned {
		return 1
	}

	halfLife := m.HalfLifeDays
	if halfLife <= 0 {
		halfLife = DefaultHalfLifeDays
	}

	age := now.Sub(m.LastAccessedAt).Hours() / 24
	if age <= 0 {
		return 1
	}

	relevance := math.Pow(2, -age/halfLife)
	if relevance < RelevanceFloor {
		return RelevanceFloor
	}
	return relevance
}

// Decay пересчитывает релевантность воспоминания in-place.
// Возвращает true, если значение изменилось.
func Decay(m *domain.Memory, now time.Time) bool {
	next := Relevance(m, now)
	if next == m.Relevance {
		return false
	}
	m.Relevance = next
	return true
}

// SweepStats — итог одного прохода затухания.
type SweepStats struct {
	// Scanned — сколько воспоминаний просмотрено.
	Scanned int

	// Updated — у скольких изменилась релевантность.
	Updated int
}

// Sweep применяет затухание ко всем воспоминаниям среза.
func Sweep(memories []*domain.Memory, now time.Time) SweepStats {
	stats := SweepStats{Scanned: len(memories)}
	for _, m := range memories {
		if Decay(m, now) {
			stats.Updated++
		}
	}
	return stats
}
