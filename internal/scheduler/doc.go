// Package scheduler реализует периодический проход затухания.
//
// Sweeper по расписанию (DECAY_CRON) пересчитывает релевантность
// всех воспоминаний и пишет изменившиеся значения обратно в БД.
//
// Структура:
//   - sweeper.go — основная логика (Sweep)
//   - cron.go    — парсинг cron-выражений и вычисление следующего запуска
//
// Использование:
//
//	sweeper := scheduler.New(scheduler.Config{
//	    MemoryRepo: memoryRepo,
//	    Publisher:  publisher, // опционально
//	    Logger:     logger,
//	})
//
//	stats, err := sweeper.Sweep(ctx)
//
// Leader Election:
//
// Sweeper не реализует leader election самостоятельно.
// Это делается в main.go через pg_try_advisory_lock.
// Метод Sweep() вызывается только лидером.
package scheduler
