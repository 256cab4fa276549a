package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/velichkin/persona/internal/domain"
	"github.com/velichkin/persona/internal/memory"
	"github.com/velichkin/persona/internal/mq"
	"github.com/velichkin/persona/internal/repo"
	"github.com/velichkin/persona/internal/telemetry"
)

// Sweeper — периодический проход затухания воспоминаний.
type Sweeper struct {
	memoryRepo *repo.MemoryRepo
	publisher  *mq.Publisher
	logger     *slog.Logger
}

// Config — конфигурация Sweeper.
type Config struct {
	MemoryRepo *repo.MemoryRepo
	Publisher  *mq.Publisher // опционально
	Logger     *slog.Logger
}

// New создаёт новый Sweeper.
func New(cfg Config) *Sweeper {
	return &Sweeper{
		memoryRepo: cfg.MemoryRepo,
		publisher:  cfg.Publisher,
		logger:     cfg.Logger,
	}
}

// Sweep выполняет один проход затухания.
//
// 1. Читает все воспоминания
// 2. Пересчитывает релевантность по полураспаду
// 3. Пишет изменившиеся значения обратно
// 4. Публикует memory.decayed
//
// Ошибка записи одного воспоминания не блокирует остальные.
func (s *Sweeper) Sweep(ctx context.Context) (memory.SweepStats, error) {
	now := time.Now().UTC()

	memories, err := s.memoryRepo.ListAll(ctx)
	if err != nil {
		return memory.SweepStats{}, fmt.Errorf("list memories: %w", err)
	}

	stats := memory.SweepStats{Scanned: len(memories)}
	for i := range memories {
		m := &memories[i]
		if !memory.Decay(m, now) {
			continue
		}

		if err := s.memoryRepo.UpdateRelevance(ctx, m.ID, m.Relevance); err != nil {
			s.logger.Error("failed to update relevance",
				"memory_id", m.ID,
				"error", err,
			)
			continue
		}
		stats.Updated++
	}

	telemetry.DecaySweepsTotal.Inc()
	telemetry.DecayedMemoriesTotal.Add(float64(stats.Updated))

	s.logger.Info("decay sweep completed",
		"scanned", stats.Scanned,
		"updated", stats.Updated,
	)

	if s.publisher != nil {
		event := domain.MemoryDecayedEvent{
			EventID: uuid.New(),
			Scanned: stats.Scanned,
			Updated: stats.Updated,
			SweptAt: now,
		}
		if err := s.publisher.PublishMemoryDecayed(ctx, event); err != nil {
			// Не фатальная ошибка — релевантность уже записана в БД
			s.logger.Warn("failed to publish memory.decayed", "error", err)
		}
	}

	return stats, nil
}
