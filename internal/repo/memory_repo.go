package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/velichkin/persona/internal/domain"
)

// MemoryRepo — репозиторий воспоминаний.
type MemoryRepo struct {
	pool *pgxpool.Pool
}

// NewMemoryRepo создаёт новый MemoryRepo.
func NewMemoryRepo(pool *pgxpool.Pool) *MemoryRepo {
	return &MemoryRepo{pool: pool}
}

// Create создаёт новое воспоминание.
func (r *MemoryRepo) Create(ctx context.Context, m *domain.Memory) error {
	query := `
		INSERT INTO memories (id, person_id, kind, content, relevance, half_life_days, pinned, created_at, last_accessed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query,
		m.ID,
		m.PersonID,
		m.Kind,
		m.Content,
		m.Relevance,
		m.HalfLifeDays,
		m.Pinned,
		m.CreatedAt,
		m.LastAccessedAt,
	)
	if err != nil {
		return fmt.Errorf("insert memory: %w", err)
	}
	return nil
}

// GetByID возвращает воспоминание по ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Memory, error) {
	query := `
		SELECT id, person_id, kind, content, relevance, half_life_days, pinned, created_at, last_accessed_at
		FROM memories
		WHERE id = $1
	`
	var m domain.Memory
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&m.ID,
		&m.PersonID,
		&m.Kind,
		&m.Content,
		&m.Relevance,
		&m.HalfLifeDays,
		&m.Pinned,
		&m.CreatedAt,
		&m.LastAccessedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get memory by id: %w", err)
	}
	return &m, nil
}

// ListByPerson возвращает воспоминания персоны, самые релевантные первыми.
func (r *MemoryRepo) ListByPerson(ctx context.Context, personID uuid.UUID) ([]domain.Memory, error) {
	query := `
		SELECT id, person_id, kind, content, relevance, half_life_days, pinned, created_at, last_accessed_at
		FROM memories
		WHERE person_id = $1
		ORDER BY relevance DESC, created_at DESC
	`
	return r.listMemories(ctx, query, personID)
}

// ListAll возвращает все воспоминания — для прохода затухания.
func (r *MemoryRepo) ListAll(ctx context.Context) ([]domain.Memory, error) {
	query := `
		SELECT id, person_id, kind, content, relevance, half_life_days, pinned, created_at, last_accessed_at
		FROM memories
		ORDER BY created_at
	`
	return r.listMemories(ctx, query)
}

// Touch отмечает обращение: релевантность возвращается к 1.
func (r *MemoryRepo) Touch(ctx context.Context, id uuid.UUID, now time.Time) error {
	query := `
		UPDATE memories
		SET relevance = 1, last_accessed_at = $2
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query, id, now)
	if err != nil {
		return fmt.Errorf("touch memory: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateRelevance записывает пересчитанную релевантность.
func (r *MemoryRepo) UpdateRelevance(ctx context.Context, id uuid.UUID, relevance float64) error {
	query := `UPDATE memories SET relevance = $2 WHERE id = $1`
	result, err := r.pool.Exec(ctx, query, id, relevance)
	if err != nil {
		return fmt.Errorf("update relevance: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete удаляет воспоминание.
func (r *MemoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM memories WHERE id = $1`
	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete memory: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MemoryRepo) listMemories(ctx context.Context, query string, args ...any) ([]domain.Memory, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list memories: %w", err)
	}
	defer rows.Close()

	var memories []domain.Memory
	for rows.Next() {
		var m domain.Memory
		if err := rows.Scan(
			&m.ID,
			&m.PersonID,
			&m.Kind,
			&m.Content,
			&m.Relevance,
			&m.HalfLifeDays,
			&m.Pinned,
			&m.CreatedAt,
			&m.LastAccessedAt,
		); err != nil {
			return nil, fmt.Errorf("scan memory: %w", err)
		}
		memories = append(memories, m)
	}
	return memories, rows.Err()
}
