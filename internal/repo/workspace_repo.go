package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/velichkin/persona/internal/domain"
)

// WorkspaceRepo — репозиторий рабочих пространств.
type WorkspaceRepo struct {
	pool *pgxpool.Pool
}

// NewWorkspaceRepo создаёт новый WorkspaceRepo.
func NewWorkspaceRepo(pool *pgxpool.Pool) *WorkspaceRepo {
	return &WorkspaceRepo{pool: pool}
}

// Create регистрирует новое рабочее пространство.
func (r *WorkspaceRepo) Create(ctx context.Context, ws *domain.Workspace) error {
	query := `
		INSERT INTO workspaces (id, name, path, repo_url, person_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		ws.ID,
		ws.Name,
		ws.Path,
		ws.RepoURL,
		personIDParam(ws),
		ws.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert workspace: %w", err)
	}
	return nil
}

// GetByID возвращает workspace по ID.
func (r *WorkspaceRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Workspace, error) {
	query := `
		SELECT id, name, path, repo_url, person_id, created_at
		FROM workspaces
		WHERE id = $1
	`
	return r.scanWorkspace(r.pool.QueryRow(ctx, query, id))
}

// GetByName возвращает workspace по имени.
func (r *WorkspaceRepo) GetByName(ctx context.Context, name string) (*domain.Workspace, error) {
	query := `
		SELECT id, name, path, repo_url, person_id, created_at
		FROM workspaces
		WHERE name = $1
	`
	return r.scanWorkspace(r.pool.QueryRow(ctx, query, name))
}

// List возвращает все рабочие пространства.
func (r *WorkspaceRepo) List(ctx context.Context) ([]domain.Workspace, error) {
	query := `
		SELECT id, name, path, repo_url, person_id, created_at
		FROM workspaces
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}
	defer rows.Close()

	var workspaces []domain.Workspace
	for rows.Next() {
		ws, err := r.scanWorkspace(rows)
		if err != nil {
			return nil, err
		}
		workspaces = append(workspaces, *ws)
	}
	return workspaces, rows.Err()
}

// Bind привязывает персону к рабочему пространству.
func (r *WorkspaceRepo) Bind(ctx context.Context, id, personID uuid.UUID) error {
	query := `UPDATE workspaces SET person_id = $2 WHERE id = $1`
	result, err := r.pool.Exec(ctx, query, id, personID)
	if err != nil {
		return fmt.Errorf("bind workspace: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete снимает workspace с учёта (файлы на диске не трогает).
func (r *WorkspaceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM workspaces WHERE id = $1`
	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete workspace: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *WorkspaceRepo) scanWorkspace(row rowScanner) (*domain.Workspace, error) {
	var ws domain.Workspace
	var personID *uuid.UUID
	err := row.Scan(
		&ws.ID,
		&ws.Name,
		&ws.Path,
		&ws.RepoURL,
		&personID,
		&ws.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan workspace: %w", err)
	}
	if personID != nil {
		ws.PersonID = *personID
	}
	return &ws, nil
}

// personIDParam — NULL для непривязанного workspace.
func personIDParam(ws *domain.Workspace) any {
	if ws.PersonID == uuid.Nil {
		return nil
	}
	return ws.PersonID
}
