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

// ProfileRepo — репозиторий вычисленных профилей.
//
// Хранится только последний профиль каждой персоны: профиль —
// производное от anchors и правил, историю держать незачем.
type ProfileRepo struct {
	pool *pgxpool.Pool
}

// NewProfileRepo создаёт новый ProfileRepo.
func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

// Save сохраняет профиль, замещая предыдущий.
func (r *ProfileRepo) Save(ctx context.Context, profile *domain.Profile) error {
	body, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	query := `
		INSERT INTO profiles (person_id, body, computed_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (person_id) DO UPDATE
		SET body = EXCLUDED.body, computed_at = EXCLUDED.computed_at
	`
	_, err = r.pool.Exec(ctx, query, profile.PersonID, body, profile.ComputedAt)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// Get возвращает последний вычисленный профиль персоны.
func (r *ProfileRepo) Get(ctx context.Context, personID uuid.UUID) (*domain.Profile, error) {
	query := `SELECT body FROM profiles WHERE person_id = $1`

	var body []byte
	err := r.pool.QueryRow(ctx, query, personID).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	var profile domain.Profile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}
	return &profile, nil
}
