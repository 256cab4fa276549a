package orchestrator

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/velichkin/persona/internal/domain"
	"github.com/velichkin/persona/internal/mq"
	"github.com/velichkin/persona/internal/repo"
	"github.com/velichkin/persona/internal/workspace"
)

// PersonStore — доступ к персонам.
type PersonStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Person, error)
}

// ProfileStore — доступ к вычисленным профилям.
type ProfileStore interface {
	Get(ctx context.Context, personID uuid.UUID) (*domain.Profile, error)
}

// WorkspaceLister — перечисление зарегистрированных workspaces.
type WorkspaceLister interface {
	List(ctx context.Context) ([]domain.Workspace, error)
}

// Materializer записывает профиль в каталог workspace.
// По умолчанию — workspace.Materialize.
type Materializer func(ws *domain.Workspace, person *domain.Person, profile *domain.Profile) error

// Orchestrator рематериализует workspaces при пересчёте профилей.
//
// Потребляет persona.computed из очереди workspaces.materialize и
// для каждого workspace, привязанного к персоне события, перерисовывает
// PERSONA.md из свежего профиля.
type Orchestrator struct {
	persons     PersonStore
	profiles    ProfileStore
	workspaces  WorkspaceLister
	materialize Materializer

	conn     *mq.Connection
	consumer *mq.Consumer

	logger     *slog.Logger
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// Config — конфигурация Orchestrator.
type Config struct {
	Persons    PersonStore
	Profiles   ProfileStore
	Workspaces WorkspaceLister

	// Materialize — опционально; по умолчанию workspace.Materialize.
	Materialize Materializer

	Conn   *mq.Connection
	Logger *slog.Logger
}

// New создаёт новый Orchestrator.
func New(cfg Config) *Orchestrator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	materialize := cfg.Materialize
	if materialize == nil {
		materialize = workspace.Materialize
	}

	return &Orchestrator{
		persons:     cfg.Persons,
		profiles:    cfg.Profiles,
		workspaces:  cfg.Workspaces,
		materialize: materialize,
		conn:        cfg.Conn,
		logger:      logger,
	}
}

// Start запускает consumer очереди workspaces.materialize.
func (o *Orchestrator) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	o.cancelFunc = cancel

	o.consumer = mq.NewConsumer(o.conn, o.logger, mq.ConsumerConfig{
		Queue:    mq.QueueWorkspacesMaterialize,
		Handler:  o.handlePersonaComputed,
		Prefetch: 10,
	})

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		if err := o.consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			o.logger.Error("consumer error", "error", err)
		}
	}()

	o.logger.Info("orchestrator started")
	return nil
}

// Stop останавливает Orchestrator.
func (o *Orchestrator) Stop() {
	o.logger.Info("stopping orchestrator...")

	if o.cancelFunc != nil {
		o.cancelFunc()
	}
	if o.consumer != nil {
		o.consumer.Stop()
	}

	o.wg.Wait()
	o.logger.Info("orchestrator stopped")
}

// handlePersonaComputed обрабатывает событие пересчёта профиля.
func (o *Orchestrator) handlePersonaComputed(ctx context.Context, delivery *mq.Delivery) error {
	event, err := mq.ParsePayload[domain.PersonaComputedEvent](&delivery.Message)
	if err != nil {
		o.logger.Error("failed to parse persona.computed payload", "error", err)
		return err
	}

	o.logger.Debug("received persona.computed",
		"person_id", event.PersonID,
		"targets", event.Targets,
	)

	return o.Rematerialize(ctx, event.PersonID)
}

// Rematerialize перерисовывает PERSONA.md во всех workspaces персоны.
//
// Персона или профиль могли исчезнуть между публикацией события и
// обработкой — тогда событие просто подтверждается. Ошибка записи
// в один workspace не блокирует остальные.
func (o *Orchestrator) Rematerialize(ctx context.Context, personID uuid.UUID) error {
	person, err := o.persons.GetByID(ctx, personID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			o.logger.Warn("person gone, skipping", "person_id", personID)
			return nil
		}
		return err
	}

	profile, err := o.profiles.Get(ctx, personID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			o.logger.Warn("profile missing, skipping", "person_id", personID)
			return nil
		}
		return err
	}

	workspaces, err := o.workspaces.List(ctx)
	if err != nil {
		return err
	}

	var done int
	for i := range workspaces {
		ws := &workspaces[i]
		if ws.PersonID != personID {
			continue
		}

		if err := o.materialize(ws, person, profile); err != nil {
			o.logger.Error("failed to materialize workspace",
				"workspace", ws.Name,
				"person_id", personID,
				"error", err,
			)
			continue
		}
		done++

		o.logger.Info("workspace materialized",
			"workspace", ws.Name,
			"person_id", personID,
		)
	}

	o.logger.Debug("rematerialization completed",
		"person_id", personID,
		"workspaces", done,
	)
	return nil
}
