package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/velichkin/persona/internal/domain"
	"github.com/velichkin/persona/internal/engine"
)

// Person DTOs

// CreatePersonRequest — запрос на создание персоны.
type CreatePersonRequest struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Anchors     map[string]float64 `json:"anchors,omitempty"`
	Quirks      []string           `json:"quirks,omitempty"`
}

// UpdatePersonRequest — запрос на обновление персоны.
type UpdatePersonRequest struct {
	Name        *string             `json:"name,omitempty"`
	Description *string             `json:"description,omitempty"`
	Anchors     *map[string]float64 `json:"anchors,omitempty"`
	Quirks      *[]string           `json:"quirks,omitempty"`
}

// PersonResponse — ответ с персоной.
type PersonResponse struct {
	ID          uuid.UUID          `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Anchors     map[string]float64 `json:"anchors,omitempty"`
	Quirks      []string           `json:"quirks,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// PersonFromDomain конвертирует domain.Person в PersonResponse.
func PersonFromDomain(p domain.Person) PersonResponse {
	return PersonResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Anchors:     p.Anchors,
		Quirks:      p.Quirks,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// Compute DTOs

// ComputeResponse — ответ на пересчёт профиля.
type ComputeResponse struct {
	Profile *domain.Profile          `json:"profile"`
	Policy  string                   `json:"policy"`
	Trace   *engine.ComputationTrace `json:"trace,omitempty"`
}

// Memory DTOs

// CreateMemoryRequest — запрос на создание воспоминания.
type CreateMemoryRequest struct {
	Kind         string  `json:"kind"`
	Content      string  `json:"content"`
	HalfLifeDays float64 `json:"half_life_days,omitempty"`
	Pinned       bool    `json:"pinned,omitempty"`
}

// MemoryResponse — ответ с воспоминанием.
type MemoryResponse struct {
	ID             uuid.UUID `json:"id"`
	PersonID       uuid.UUID `json:"person_id"`
	Kind           string    `json:"kind"`
	Content        string    `json:"content"`
	Relevance      float64   `json:"relevance"`
	HalfLifeDays   float64   `json:"half_life_days"`
	Pinned         bool      `json:"pinned"`
	CreatedAt      time.Time `json:"created_at"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
}

// MemoryFromDomain конвертирует domain.Memory в MemoryResponse.
func MemoryFromDomain(m domain.Memory) MemoryResponse {
	return MemoryResponse{
		ID:             m.ID,
		PersonID:       m.PersonID,
		Kind:           m.Kind,
		Content:        m.Content,
		Relevance:      m.Relevance,
		HalfLifeDays:   m.HalfLifeDays,
		Pinned:         m.Pinned,
		CreatedAt:      m.CreatedAt,
		LastAccessedAt: m.LastAccessedAt,
	}
}

// Workspace DTOs

// CreateWorkspaceRequest — запрос на регистрацию workspace.
type CreateWorkspaceRequest struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// BindWorkspaceRequest — запрос на привязку персоны.
type BindWorkspaceRequest struct {
	PersonID uuid.UUID `json:"person_id"`
}

// WorkspaceResponse — ответ с workspace.
type WorkspaceResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Path      string     `json:"path"`
	RepoURL   string     `json:"repo_url,omitempty"`
	PersonID  *uuid.UUID `json:"person_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// WorkspaceFromDomain конвертирует domain.Workspace в WorkspaceResponse.
func WorkspaceFromDomain(w domain.Workspace) WorkspaceResponse {
	resp := WorkspaceResponse{
		ID:        w.ID,
		Name:      w.Name,
		Path:      w.Path,
		RepoURL:   w.RepoURL,
		CreatedAt: w.CreatedAt,
	}
	if w.Bound() {
		personID := w.PersonID
		resp.PersonID = &personID
	}
	return resp
}

// MaterializeResponse — результат перегенерации PERSONA.md.
type MaterializeResponse struct {
	WorkspaceID uuid.UUID `json:"workspace_id"`
	File        string    `json:"file"`
}

// Resolve DTOs

// ResolveRequest — запрос на разрешение context-URI.
type ResolveRequest struct {
	URIs []string `json:"uris"`
}

// ResolveResponse — разрешённые элементы и ошибки.
type ResolveResponse struct {
	Items  []ResolvedItem `json:"items"`
	Errors []string       `json:"errors,omitempty"`
}

// ResolvedItem — один разрешённый элемент контекста.
type ResolvedItem struct {
	URI     string `json:"uri"`
	Kind    string `json:"kind"`
	Content string `json:"content"`
}
