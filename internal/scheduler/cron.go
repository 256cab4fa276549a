package scheduler

import (
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
)

// cronParser — парсер cron-выражений (5 полей, без секунд).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// DefaultSweepCron — расписание прохода затухания по умолчанию:
// каждый день в 03:00.
const DefaultSweepCron = "0 3 * * *"

// SweepCronExpr возвращает cron-выражение прохода из DECAY_CRON.
func SweepCronExpr() string {
	if expr := os.Getenv("DECAY_CRON"); expr != "" {
		return expr
	}
	return DefaultSweepCron
}

// NextRun вычисляет следующее время запуска по cron-выражению.
// Timezone берётся из DECAY_TZ; невалидный или пустой — UTC.
func NextRun(cronExpr string, from time.Time) (time.Time, error) {
	loc := time.UTC
	if tz := os.Getenv("DECAY_TZ"); tz != "" {
		if parsed, err := time.LoadLocation(tz); err == nil {
			loc = parsed
		}
	}

	schedule, err := cronParser.Parse(cronExpr)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse cron expression %q: %w", cronExpr, err)
	}

	next := schedule.Next(from.In(loc))
	return next.UTC(), nil // храним и сравниваем в UTC
}

// ValidateCronExpr проверяет валидность cron-выражения.
func ValidateCronExpr(cronExpr string) error {
	_, err := cronParser.Parse(cronExpr)
	if err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", cronExpr, err)
	}
	return nil
}
