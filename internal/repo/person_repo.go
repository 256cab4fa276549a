package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/velichkin/persona/internal/domain"
)

// PersonRepo — репозиторий персон.
//
// Anchors и quirks хранятся в JSONB: их состав меняется вместе с
// набором атомов, колонки под них не заводим.
type PersonRepo struct {
	pool *pgxpool.Pool
}

// NewPersonRepo создаёт новый PersonRepo.
func NewPersonRepo(pool *pgxpool.Pool) *PersonRepo {
	return &PersonRepo{pool: pool}
}

// Create создаёт новую персону.
func (r *PersonRepo) Create(ctx context.Context, person *domain.Person) error {
	anchors, err := json.Marshal(person.Anchors)
	if err != nil {
		return fmt.Errorf("marshal anchors: %w", err)
	}
	quirks, err := json.Marshal(person.Quirks)
	if err != nil {
		return fmt.Errorf("marshal quirks: %w", err)
	}

	query := `
		INSERT INTO persons (id, name, description, anchors, quirks, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = r.pool.Exec(ctx, query,
		person.ID,
		person.Name,
		person.Description,
		anchors,
		quirks,
		person.CreatedAt,
		person.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert person: %w", err)
	}
	return nil
}

// GetByID возвращает персону по ID.
func (r *PersonRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Person, error) {
	query := `
		SELECT id, name, description, anchors, quirks, created_at, updated_at
		FROM persons
		WHERE id = $1
	`
	return r.scanPerson(r.pool.QueryRow(ctx, query, id))
}

// GetByName возвращает персону по имени.
func (r *PersonRepo) GetByName(ctx context.Context, name string) (*domain.Person, error) {
	query := `
		SELECT id, name, description, anchors, quirks, created_at, updated_at
		FROM persons
		WHERE name = $1
	`
	return r.scanPerson(r.pool.QueryRow(ctx, query, name))
}

// List возвращает список всех персон.
func (r *PersonRepo) List(ctx context.Context) ([]domain.Person, error) {
	query := `
		SELECT id, name, description, anchors, quirks, created_at, updated_at
		FROM persons
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}
	defer rows.Close()

	var persons []domain.Person
	for rows.Next() {
		person, err := r.scanPerson(rows)
		if err != nil {
			return nil, err
		}
		persons = append(persons, *person)
	}
	return persons, rows.Err()
}

// Update обновляет персону.
func (r *PersonRepo) Update(ctx context.Context, person *domain.Person) error {
	anchors, err := json.Marshal(person.Anchors)
	if err != nil {
		return fmt.Errorf("marshal anchors: %w", err)
	}
	quirks, err := json.Marshal(person.Quirks)
	if err != nil {
		return fmt.Errorf("marshal quirks: %w", err)
	}

	query := `
		UPDATE persons
		SET name = $2, description = $3, anchors = $4, quirks = $5, updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query, person.ID, person.Name, person.Description, anchors, quirks)
	if err != nil {
		return fmt.Errorf("update person: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete удаляет персону (каскадно удалит memories, profiles, workspaces).
func (r *PersonRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM persons WHERE id = $1`
	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PersonRepo) scanPerson(row rowScanner) (*domain.Person, error) {
	var person domain.Person
	var anchors, quirks []byte
	err := row.Scan(
		&person.ID,
		&person.Name,
		&person.Description,
		&anchors,
		&quirks,
		&person.CreatedAt,
		&person.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan person: %w", err)
	}

	if err := json.Unmarshal(anchors, &person.Anchors); err != nil {
		return nil, fmt.Errorf("unmarshal anchors: %w", err)
	}
	if err := json.Unmarshal(quirks, &person.Quirks); err != nil {
		return nil, fmt.Errorf("unmarshal quirks: %w", err)
	}
	return &person, nil
}
