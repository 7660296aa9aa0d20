package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/staffhub/backend/internal/models"
	"github.com/staffhub/backend/internal/rbac"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, u *models.User) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, role, employe_id, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, u.Email, u.PasswordHash, u.Role, u.EmployeID, u.IsActive).Scan(&u.ID, &u.CreatedAt)
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	err := r.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, role, employe_id, is_active, created_at, last_login_at
		FROM users WHERE id = $1
	`, id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.EmployeID, &u.IsActive, &u.CreatedAt, &u.LastLoginAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, role, employe_id, is_active, created_at, last_login_at
		FROM users WHERE lower(email) = lower($1)
	`, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.EmployeID, &u.IsActive, &u.CreatedAt, &u.LastLoginAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// ActorProfile is a user joined with its linked employee, for audit labels.
type ActorProfile struct {
	UserID  uuid.UUID
	Role    string
	Prenom  *string
	Nom     *string
}

// GetActorProfilesByIDs resolves a batch of distinct user ids in one query.
// The audit assembler calls this once per page, never per row.
func (r *UserRepo) GetActorProfilesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]ActorProfile, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]ActorProfile{}, nil
	}
	return readRetry(ctx, func(ctx context.Context) (map[uuid.UUID]ActorProfile, error) {
		rows, err := r.pool.Query(ctx, `
			SELECT u.id, u.role, e.prenom, e.nom
			FROM users u
			LEFT JOIN employes e ON e.id = u.employe_id
			WHERE u.id = ANY($1)
		`, ids)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		out := make(map[uuid.UUID]ActorProfile, len(ids))
		for rows.Next() {
			var p ActorProfile
			if err := rows.Scan(&p.UserID, &p.Role, &p.Prenom, &p.Nom); err != nil {
				return nil, err
			}
			out[p.UserID] = p
		}
		return out, rows.Err()
	})
}

// GetAdminIDs returns the ids of all active HR admin accounts.
func (r *UserRepo) GetAdminIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM users WHERE role = $1 AND is_active`, rbac.RoleAdmin)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *UserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET last_login_at = $1 WHERE id = $2`, time.Now(), id)
	return err
}

func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n)
	return n, err
}
