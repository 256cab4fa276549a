package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/velichkin/persona/internal/api"
	"github.com/velichkin/persona/internal/atoms"
	"github.com/velichkin/persona/internal/mq"
	"github.com/velichkin/persona/internal/persona"
	"github.com/velichkin/persona/internal/repo"
	"github.com/velichkin/persona/internal/resolver"
	"github.com/velichkin/persona/internal/telemetry"
	"github.com/velichkin/persona/internal/workspace"
)

var startTime = time.Now()

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting persona-api")

	// Загружаем определения атомов
	atomsDir := os.Getenv("ATOMS_DIR")
	if atomsDir == "" {
		atomsDir = "./definitions"
	}
	set, err := atoms.LoadDir(atomsDir)
	if err != nil {
		logger.Error("failed to load atom definitions", "dir", atomsDir, "error", err)
		os.Exit(1)
	}
	logger.Info("atom definitions loaded",
		"dir", atomsDir,
		"atoms", len(set.Atoms),
		"quirks", len(set.Quirks),
		"phrases", len(set.Phrases))

	// Подключаемся к базе данных
	pool, err := repo.NewPool(context.Background())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	// Создаём репозитории
	personRepo := repo.NewPersonRepo(pool)
	memoryRepo := repo.NewMemoryRepo(pool)
	workspaceRepo := repo.NewWorkspaceRepo(pool)
	profileRepo := repo.NewProfileRepo(pool)

	// RabbitMQ опционален: без него compute просто не публикует события
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

		if err := mq.SetupTopology(context.Background(), mqConn); err != nil {
			logger.Warn("failed to setup topology", "error", err)
		}
		publisher = mq.NewPublisher(mqConn, logger)
	}

	// Composer и resolver
	composer := persona.NewComposer(set, logger)
	inspector := workspace.NewInspector()
	res := resolver.New(
		resolver.NewPersonaSource(personRepo, profileRepo),
		resolver.NewMemorySource(personRepo, memoryRepo),
		resolver.NewWorkspaceSource(workspaceRepo, inspector),
	)

	// Создаём API handler
	handler := api.NewHandler(api.Config{
		PersonRepo:    personRepo,
		MemoryRepo:    memoryRepo,
		WorkspaceRepo: workspaceRepo,
		ProfileRepo:   profileRepo,
		Composer:      composer,
		Resolver:      res,
		Inspector:     inspector,
		Publisher:     publisher,
		Logger:        logger,
	})

	mux := http.NewServeMux()

	// Health и metrics
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "ok %s", time.Since(startTime))
	})
	mux.Handle("/metrics", promhttp.Handler())

	// Регистрируем API маршруты
	handler.RegisterRoutes(mux)

	addr := ":8080"
	if v := os.Getenv("API_PORT"); v != "" {
		addr = ":" + v
	}

	// Создаём HTTP сервер с возможностью graceful shutdown
	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Запускаем сервер в горутине
	go func() {
		logger.Info("listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Ожидаем сигнал завершения
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	<-ctx.Done()
	logger.Info("shutting down")

	// Graceful shutdown с таймаутом 10 секунд
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	logger.Info("stopped")
}
