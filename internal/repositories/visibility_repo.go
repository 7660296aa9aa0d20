package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/staffhub/backend/internal/models"
)

type VisibilityRepo struct {
	pool *pgxpool.Pool
}

func NewVisibilityRepo(pool *pgxpool.Pool) *VisibilityRepo {
	return &VisibilityRepo{pool: pool}
}

func (r *VisibilityRepo) ListByEmployee(ctx context.Context, employeID uuid.UUID) ([]models.FieldVisibility, error) {
	return readRetry(ctx, func(ctx context.Context) ([]models.FieldVisibility, error) {
		rows, err := r.pool.Query(ctx, `
			SELECT id, employe_id, field_key, is_public, updated_at
			FROM field_visibility WHERE employe_id = $1
		`, employeID)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var entries []models.FieldVisibility
		for rows.Next() {
			var v models.FieldVisibility
			if err := rows.Scan(&v.ID, &v.EmployeID, &v.FieldKey, &v.IsPublic, &v.UpdatedAt); err != nil {
				return nil, err
			}
			entries = append(entries, v)
		}
		return entries, rows.Err()
	})
}

// PublicMap returns field_key -> is_public for one employee. Keys with no
// row are simply absent, which callers must treat as not public.
func (r *VisibilityRepo) PublicMap(ctx context.Context, employeID uuid.UUID) (map[string]bool, error) {
	entries, err := r.ListByEmployee(ctx, employeID)
	if err != nil {
		return nil, err
	}
	m := make(map[string]bool, len(entries))
	for _, e := range entries {
		m[e.FieldKey] = e.IsPublic
	}
	return m, nil
}

func (r *VisibilityRepo) Upsert(ctx context.Context, v *models.FieldVisibility) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO field_visibility (employe_id, field_key, is_public)
		VALUES ($1, $2, $3)
		ON CONFLICT (employe_id, field_key) DO UPDATE SET
			is_public = EXCLUDED.is_public,
			updated_at = now()
		RETURNING id, updated_at
	`, v.EmployeID, v.FieldKey, v.IsPublic).Scan(&v.ID, &v.UpdatedAt)
}
