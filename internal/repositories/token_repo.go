package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/staffhub/backend/internal/models"
)

type TokenRepo struct {
	pool *pgxpool.Pool
}

func NewTokenRepo(pool *pgxpool.Pool) *TokenRepo {
	return &TokenRepo{pool: pool}
}

func (r *TokenRepo) Create(ctx context.Context, t *models.QRToken) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO qr_tokens (employe_id, token, status, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, t.EmployeID, t.Token, t.Status, t.ExpiresAt).Scan(&t.ID, &t.CreatedAt)
}

func (r *TokenRepo) GetByToken(ctx context.Context, token string) (*models.QRToken, error) {
	return readRetry(ctx, func(ctx context.Context) (*models.QRToken, error) {
		var t models.QRToken
		err := r.pool.QueryRow(ctx, `
			SELECT id, employe_id, token, status, expires_at, created_at, revoked_at
			FROM qr_tokens WHERE token = $1
		`, token).Scan(&t.ID, &t.EmployeID, &t.Token, &t.Status, &t.ExpiresAt, &t.CreatedAt, &t.RevokedAt)
		if err != nil {
			return nil, notFound(err)
		}
		return &t, nil
	})
}

// GetActiveByEmployee returns the employee's current sharing token. At most
// one ACTIVE token exists per employee (partial unique index).
func (r *TokenRepo) GetActiveByEmployee(ctx context.Context, employeID uuid.UUID) (*models.QRToken, error) {
	var t models.QRToken
	err := r.pool.QueryRow(ctx, `
		SELECT id, employe_id, token, status, expires_at, created_at, revoked_at
		FROM qr_tokens WHERE employe_id = $1 AND status = $2
	`, employeID, models.TokenStatusActive).Scan(&t.ID, &t.EmployeID, &t.Token, &t.Status, &t.ExpiresAt, &t.CreatedAt, &t.RevokedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (r *TokenRepo) RevokeActive(ctx context.Context, employeID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE qr_tokens SET status = $1, revoked_at = now()
		WHERE employe_id = $2 AND status = $3
	`, models.TokenStatusRevoked, employeID, models.TokenStatusActive)
	return err
}
