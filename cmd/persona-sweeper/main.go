// Persona Sweeper — периодически пересчитывает релевантность
// воспоминаний по модели полураспада.
//
// Sweeper:
//   - Выбирает лидера через advisory lock в PostgreSQL
//   - По cron-расписанию (DECAY_CRON) выполняет проход затухания
//   - Публикует событие memory.decayed после каждого прохода
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/velichkin/persona/internal/mq"
	"github.com/velichkin/persona/internal/repo"
	"github.com/velichkin/persona/internal/scheduler"
	"github.com/velichkin/persona/internal/telemetry"
)

const sweepLockKey int64 = 773311

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting persona-sweeper")

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// DB pool
	pool, err := repo.NewPool(ctx)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("database connected")

	memoryRepo := repo.NewMemoryRepo(pool)

	// RabbitMQ опционален: без него проходы выполняются молча
	var publisher *mq.Publisher
	mqURL := os.Getenv("RABBITMQ_URL")
	if mqURL == "" {
		mqURL = mq.DefaultURL()
	}
	mqConn, err := mq.NewConnection(mqURL, logger)
	if err != nil {
		logger.Warn("RabbitMQ not available, events will not be published", "error", err)
	} else {
		defer mqConn.Close()
		logger.Info("RabbitMQ connected")

		if err := mq.SetupTopology(ctx, mqConn); err != nil {
			logger.Warn("failed to setup topology", "error", err)
		}
		publisher = mq.NewPublisher(mqConn, logger)
	}

	sweeper := scheduler.New(scheduler.Config{
		MemoryRepo: memoryRepo,
		Publisher:  publisher,
		Logger:     logger,
	})

	cronExpr := scheduler.SweepCronExpr()
	if err := scheduler.ValidateCronExpr(cronExpr); err != nil {
		logger.Error("invalid DECAY_CRON", "expr", cronExpr, "error", err)
		os.Exit(1)
	}
	logger.Info("sweep schedule", "cron", cronExpr)

	// sweep loop
	go func() {
		tk := time.NewTicker(15 * time.Second)
		defer tk.Stop()

		var hasLock bool
		defer func() {
			if hasLock {
				_, _ = pool.Exec(context.Background(), "select pg_advisory_unlock($1)", sweepLockKey)
			}
		}()

		nextRun, err := scheduler.NextRun(cronExpr, time.Now())
		if err != nil {
			logger.Error("cron parse error", "error", err)
			cancel()
			return
		}

		for {
			select {
			case t := <-tk.C:
				// пытаемся стать лидером (или подтвердить лидерство)
				if !hasLock {
					var ok bool
					if err := pool.QueryRow(ctx, "select pg_try_advisory_lock($1)", sweepLockKey).Scan(&ok); err != nil {
						logger.Warn("advisory lock error", "error", err)
						continue
					}
					hasLock = ok
				}

				if !hasLock {
					// не лидер — пропускаем тик
					continue
				}

				if t.Before(nextRun) {
					continue
				}

				stats, err := sweeper.Sweep(ctx)
				if err != nil {
					logger.Error("sweep failed", "error", err)
				} else {
					logger.Info("sweep complete", "scanned", stats.Scanned, "updated", stats.Updated)
				}

				nextRun, err = scheduler.NextRun(cronExpr, t)
				if err != nil {
					logger.Error("cron parse error", "error", err)
					cancel()
					return
				}

			case <-ctx.Done():
				return
			}
		}
	}()

	// HTTP mux: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	port := ":8081"
	if v := os.Getenv("SWEEP_PORT"); v != "" {
		port = ":" + v
	}

	go func() {
		logger.Info("listening", "addr", port)
		if err := http.ListenAndServe(port, mux); err != nil {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("persona-sweeper stopped")
}
