// Package workspace управляет devspaces: рабочими каталогами с git
// репозиториями, к которым привязаны персоны.
//
// Структура:
//   - workspace.go   — регистрация и git-инспекция
//   - materialize.go — рендеринг PERSONA.md в каталог workspace
package workspace

import (
	"errors"
	"fmt"
	"os"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/google/uuid"

	"github.com/velichkin/persona/internal/domain"
)

// Ошибки работы с workspaces.
var (
	// ErrNotADirectory — путь workspace не существует или не каталог.
	ErrNotADirectory = errors.New("not a directory")

	// ErrNotARepository — в каталоге нет git репозитория.
	ErrNotARepository = errors.New("not a git repository")

	// ErrNotBound — к workspace не привязана персона.
	ErrNotBound = errors.New("workspace has no bound person")
)

// Register проверяет каталог и создаёт запись workspace.
//
// RepoURL заполняется из origin remote, если репозиторий его имеет.
func Register(name, path string) (*domain.Workspace, error) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotADirectory, path)
	}

	ws := &domain.Workspace{
		ID:        uuid.New(),
		Name:      name,
		Path:      path,
		CreatedAt: time.Now().UTC(),
	}

	repo, err := git.PlainOpen(path)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrNotARepository, path)
		}
		return nil, fmt.Errorf("open repository: %w", err)
	}

	if remote, err := repo.Remote("origin"); err == nil {
		if urls := remote.Config().URLs; len(urls) > 0 {
			ws.RepoURL = urls[0]
		}
	}

	return ws, nil
}

// Inspector читает git-состояние workspaces.
type Inspector struct{}

// NewInspector создаёт Inspector.
func NewInspector() *Inspector {
	return &Inspector{}
}

// Status возвращает текущее git-состояние workspace.
func (i *Inspector) Status(ws *domain.Workspace) (*domain.WorkspaceStatus, error) {
	repo, err := git.PlainOpen(ws.Path)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrNotARepository, ws.Path)
		}
		return nil, fmt.Errorf("open repository: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("read head: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("open worktree: %w", err)
	}

	// Status на больших репозиториях не бесплатен; вызывающий
	// решает, когда инспектировать.
	status, err := worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("worktree status: %w", err)
	}

	return &domain.WorkspaceStatus{
		Branch: head.Name().Short(),
		Head:   head.Hash().String(),
		Dirty:  !status.IsClean(),
	}, nil
}
