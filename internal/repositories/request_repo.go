package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/staffhub/backend/internal/models"
)

type RequestRepo struct {
	pool *pgxpool.Pool
}

func NewRequestRepo(pool *pgxpool.Pool) *RequestRepo {
	return &RequestRepo{pool: pool}
}

func (r *RequestRepo) Create(ctx context.Context, m *models.ModificationRequest) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO modification_requests (employe_id, requester_user_id, target_field, old_value, new_value, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, m.EmployeID, m.RequesterUserID, m.TargetField, m.OldValue, m.NewValue, m.Reason, m.Status,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
}

func (r *RequestRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ModificationRequest, error) {
	var m models.ModificationRequest
	err := r.pool.QueryRow(ctx, `
		SELECT id, employe_id, requester_user_id, target_field, old_value, new_value, reason,
		       status, decided_by_user_id, decided_at, decision_comment, created_at, updated_at
		FROM modification_requests WHERE id = $1
	`, id).Scan(&m.ID, &m.EmployeID, &m.RequesterUserID, &m.TargetField, &m.OldValue, &m.NewValue,
		&m.Reason, &m.Status, &m.DecidedByUserID, &m.DecidedAt, &m.DecisionComment, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

// Decide moves a pending request to a terminal status. The WHERE guard is the
// backend-side single-decision invariant: it reports false when the request
// was already decided, whatever the caller believed its status was.
func (r *RequestRepo) Decide(ctx context.Context, id uuid.UUID, status string, decidedBy uuid.UUID, comment *string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE modification_requests
		SET status = $1, decided_by_user_id = $2, decided_at = now(), decision_comment = $3, updated_at = now()
		WHERE id = $4 AND status = $5
	`, status, decidedBy, comment, id, models.RequestStatusPending)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

type RequestFilter struct {
	Status    *string
	EmployeID *uuid.UUID
	Limit     int
	Offset    int
}

func (f RequestFilter) whereClause() (string, []any) {
	args := []any{}
	where := ""
	if f.Status != nil {
		args = append(args, *f.Status)
		where = fmt.Sprintf(" WHERE m.status = $%d", len(args))
	}
	if f.EmployeID != nil {
		args = append(args, *f.EmployeID)
		if where == "" {
			where = fmt.Sprintf(" WHERE m.employe_id = $%d", len(args))
		} else {
			where += fmt.Sprintf(" AND m.employe_id = $%d", len(args))
		}
	}
	return where, args
}

func (r *RequestRepo) List(ctx context.Context, f RequestFilter) ([]models.RequestWithEmployee, error) {
	where, args := f.whereClause()
	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := `
		SELECT m.id, m.employe_id, m.requester_user_id, m.target_field, m.old_value, m.new_value, m.reason,
		       m.status, m.decided_by_user_id, m.decided_at, m.decision_comment, m.created_at, m.updated_at,
		       e.nom, e.prenom, e.matricule
		FROM modification_requests m
		JOIN employes e ON e.id = m.employe_id
	` + where + fmt.Sprintf(" ORDER BY m.created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, f.Offset)

	return readRetry(ctx, func(ctx context.Context) ([]models.RequestWithEmployee, error) {
		rows, err := r.pool.Query(ctx, query, args...)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var requests []models.RequestWithEmployee
		for rows.Next() {
			var m models.RequestWithEmployee
			if err := rows.Scan(&m.ID, &m.EmployeID, &m.RequesterUserID, &m.TargetField, &m.OldValue, &m.NewValue,
				&m.Reason, &m.Status, &m.DecidedByUserID, &m.DecidedAt, &m.DecisionComment, &m.CreatedAt, &m.UpdatedAt,
				&m.EmployeNom, &m.EmployePrenom, &m.EmployeMatricule); err != nil {
				return nil, err
			}
			requests = append(requests, m)
		}
		return requests, rows.Err()
	})
}

func (r *RequestRepo) Count(ctx context.Context, f RequestFilter) (int, error) {
	where, args := f.whereClause()
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM modification_requests m`+where, args...).Scan(&n)
	return n, err
}
