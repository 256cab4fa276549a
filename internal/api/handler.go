package api

import (
	"log/slog"

	"github.com/velichkin/persona/internal/mq"
	"github.com/velichkin/persona/internal/persona"
	"github.com/velichkin/persona/internal/repo"
	"github.com/velichkin/persona/internal/resolver"
	"github.com/velichkin/persona/internal/workspace"
)

// Handler — главный обработчик API с зависимостями.
type Handler struct {
	personRepo    *repo.PersonRepo
	memoryRepo    *repo.MemoryRepo
	workspaceRepo *repo.WorkspaceRepo
	profileRepo   *repo.ProfileRepo
	composer      *persona.Composer
	resolver      *resolver.Resolver
	inspector     *workspace.Inspector
	publisher     *mq.Publisher
	logger        *slog.Logger
}

// Config — конфигурация для создания Handler.
type Config struct {
	PersonRepo    *repo.PersonRepo
	MemoryRepo    *repo.MemoryRepo
	WorkspaceRepo *repo.WorkspaceRepo
	ProfileRepo   *repo.ProfileRepo
	Composer      *persona.Composer
	Resolver      *resolver.Resolver
	Inspector     *workspace.Inspector
	Publisher     *mq.Publisher // опционально
	Logger        *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		personRepo:    cfg.PersonRepo,
		memoryRepo:    cfg.MemoryRepo,
		workspaceRepo: cfg.WorkspaceRepo,
		profileRepo:   cfg.ProfileRepo,
		composer:      cfg.Composer,
		resolver:      cfg.Resolver,
		inspector:     cfg.Inspector,
		publisher:     cfg.Publisher,
		logger:        cfg.Logger,
	}
}
