package domain

import (
	"time"

	"github.com/google/uuid"
)

// Workspace — зарегистрированный devspace: рабочий каталог с git
// репозиторием, к которому привязана персона.
type Workspace struct {
	// ID — уникальный идентификатор workspace.
	ID uuid.UUID `json:"id"`

	// Name — уникальное имя ("billing-api", "infra-tools").
	Name string `json:"name"`

	// Path — абсолютный путь к каталогу workspace.
	Path string `json:"path"`

	// RepoURL — URL origin-репозитория (опционально).
	RepoURL string `json:"repo_url,omitempty"`

	// PersonID — привязанная персона (uuid.Nil — не привязана).
	PersonID uuid.UUID `json:"person_id,omitempty"`

	// CreatedAt — время регистрации.
	CreatedAt time.Time `json:"created_at"`
}

// Bound сообщает, привязана ли к workspace персона.
func (w *Workspace) Bound() bool {
	return w.PersonID != uuid.Nil
}

// WorkspaceStatus — состояние git-репозитория workspace.
type WorkspaceStatus struct {
	// Branch — текущая ветка.
	Branch string `json:"branch"`

	// Head — hash текущего HEAD.
	Head string `json:"head"`

	// Dirty — есть незакоммиченные изменения.
	Dirty bool `json:"dirty"`
}
