package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/velichkin/persona/internal/domain"
	"github.com/velichkin/persona/internal/repo"
)

// PersonDirectory — поиск персон по имени.
type PersonDirectory interface {
	GetByName(ctx context.Context, name string) (*domain.Person, error)
}

// ProfileStore — доступ к вычисленным профилям.
type ProfileStore interface {
	Get(ctx context.Context, personID uuid.UUID) (*domain.Profile, error)
}

// MemoryStore — доступ к воспоминаниям.
type MemoryStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Memory, error)
	Touch(ctx context.Context, id uuid.UUID, now time.Time) error
}

// WorkspaceDirectory — поиск workspaces по имени.
type WorkspaceDirectory interface {
	GetByName(ctx context.Context, name string) (*domain.Workspace, error)
}

// StatusReader — чтение git-состояния workspace.
type StatusReader interface {
	Status(ws *domain.Workspace) (*domain.WorkspaceStatus, error)
}

// notResolved переводит "не найдено" хранилища в ErrNotResolved.
func notResolved(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotResolved
	}
	return err
}

// PersonaSource разрешает persona://<person>/<namespace>/<key>.
type PersonaSource struct {
	persons  PersonDirectory
	profiles ProfileStore
}

// NewPersonaSource создаёт источник значений профиля.
func NewPersonaSource(persons PersonDirectory, profiles ProfileStore) *PersonaSource {
	return &PersonaSource{persons: persons, profiles: profiles}
}

func (s *PersonaSource) Scheme() string { return "persona" }

func (s *PersonaSource) Resolve(ctx context.Context, uri *URI) (*Item, error) {
	if len(uri.Path) != 2 {
		return nil, fmt.Errorf("%w: want persona://<person>/<namespace>/<key>", ErrMalformedURI)
	}

	person, err := s.persons.GetByName(ctx, uri.Host)
	if err != nil {
		return nil, notResolved(err)
	}

	profile, err := s.profiles.Get(ctx, person.ID)
	if err != nil {
		return nil, notResolved(err)
	}

	namespace, key := uri.Path[0], uri.Path[1]
	value, ok := profile.Value(namespace, key)
	if !ok {
		return nil, fmt.Errorf("%w: no %s.%s in profile", ErrNotResolved, namespace, key)
	}

	return &Item{
		URI:     uri.Raw(),
		Kind:    "profile-value",
		Content: fmt.Sprintf("%s.%s = %g", namespace, key, value),
	}, nil
}

// MemorySource разрешает memory://<person>/<memory-id>.
//
// Разрешение — это обращение: релевантность воспоминания
// возвращается к 1.
type MemorySource struct {
	persons  PersonDirectory
	memories MemoryStore
}

// NewMemorySource создаёт источник воспоминаний.
func NewMemorySource(persons PersonDirectory, memories MemoryStore) *MemorySource {
	return &MemorySource{persons: persons, memories: memories}
}

func (s *MemorySource) Scheme() string { return "memory" }

func (s *MemorySource) Resolve(ctx context.Context, uri *URI) (*Item, error) {
	if len(uri.Path) != 1 {
		return nil, fmt.Errorf("%w: want memory://<person>/<memory-id>", ErrMalformedURI)
	}

	person, err := s.persons.GetByName(ctx, uri.Host)
	if err != nil {
		return nil, notResolved(err)
	}

	memoryID, err := uuid.Parse(uri.Path[0])
	if err != nil {
		return nil, fmt.Errorf("%w: bad memory id", ErrMalformedURI)
	}

	m, err := s.memories.GetByID(ctx, memoryID)
	if err != nil {
		return nil, notResolved(err)
	}
	if m.PersonID != person.ID {
		return nil, fmt.Errorf("%w: memory belongs to another person", ErrNotResolved)
	}

	if err := s.memories.Touch(ctx, m.ID, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("touch memory: %w", err)
	}

	return &Item{
		URI:     uri.Raw(),
		Kind:    "memory",
		Content: m.Content,
	}, nil
}

// WorkspaceSource разрешает workspace://<name>.
type WorkspaceSource struct {
	workspaces WorkspaceDirectory
	status     StatusReader // опционально
}

// NewWorkspaceSource создаёт источник состояния workspaces.
func NewWorkspaceSource(workspaces WorkspaceDirectory, status StatusReader) *WorkspaceSource {
	return &WorkspaceSource{workspaces: workspaces, status: status}
}

func (s *WorkspaceSource) Scheme() string { return "workspace" }

func (s *WorkspaceSource) Resolve(ctx context.Context, uri *URI) (*Item, error) {
	if len(uri.Path) != 0 {
		return nil, fmt.Errorf("%w: want workspace://<name>", ErrMalformedURI)
	}

	ws, err := s.workspaces.GetByName(ctx, uri.Host)
	if err != nil {
		return nil, notResolved(err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "workspace %s at %s", ws.Name, ws.Path)
	if s.status != nil {
		if status, err := s.status.Status(ws); err == nil {
			fmt.Fprintf(&b, " [branch=%s head=%s dirty=%t]",
				status.Branch, shortHash(status.Head), status.Dirty)
		}
	}

	return &Item{
		URI:     uri.Raw(),
		Kind:    "workspace",
		Content: b.String(),
	}, nil
}

func shortHash(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
