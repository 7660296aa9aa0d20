package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/staffhub/backend/internal/models"
)

type AuditRepo struct {
	pool *pgxpool.Pool
}

func NewAuditRepo(pool *pgxpool.Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

// Log appends an entry. The audit_log table is insert-only; nothing in the
// codebase updates or deletes rows.
func (r *AuditRepo) Log(ctx context.Context, entry models.AuditLog) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO audit_log (actor_user_id, action, target_type, target_id, details)
		VALUES ($1, $2, $3, $4, $5)
	`, entry.ActorUserID, entry.Action, entry.TargetType, entry.TargetID, entry.Details)
	return err
}

type AuditFilter struct {
	Action    *string
	TargetIDs []uuid.UUID // scope to these target ids (employee search); nil = no scoping
	Limit     int
	Offset    int
}

func (f AuditFilter) whereClause() (string, []any) {
	args := []any{}
	where := ""
	if f.Action != nil {
		args = append(args, *f.Action)
		where = fmt.Sprintf(" WHERE action = $%d", len(args))
	}
	if f.TargetIDs != nil {
		args = append(args, f.TargetIDs)
		if where == "" {
			where = fmt.Sprintf(" WHERE target_id = ANY($%d)", len(args))
		} else {
			where += fmt.Sprintf(" AND target_id = ANY($%d)", len(args))
		}
	}
	return where, args
}

func (r *AuditRepo) List(ctx context.Context, f AuditFilter) ([]models.AuditLog, error) {
	where, args := f.whereClause()
	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := `
		SELECT id, actor_user_id, action, target_type, target_id, details, created_at
		FROM audit_log
	` + where + fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, f.Offset)

	return readRetry(ctx, func(ctx context.Context) ([]models.AuditLog, error) {
		rows, err := r.pool.Query(ctx, query, args...)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var logs []models.AuditLog
		for rows.Next() {
			var l models.AuditLog
			if err := rows.Scan(&l.ID, &l.ActorUserID, &l.Action, &l.TargetType, &l.TargetID, &l.Details, &l.CreatedAt); err != nil {
				return nil, err
			}
			logs = append(logs, l)
		}
		return logs, rows.Err()
	})
}

func (r *AuditRepo) Count(ctx context.Context, f AuditFilter) (int, error) {
	where, args := f.whereClause()
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM audit_log`+where, args...).Scan(&n)
	return n, err
}
