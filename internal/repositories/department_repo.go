package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/staffhub/backend/internal/models"
)

type DepartmentRepo struct {
	pool *pgxpool.Pool
}

func NewDepartmentRepo(pool *pgxpool.Pool) *DepartmentRepo {
	return &DepartmentRepo{pool: pool}
}

func (r *DepartmentRepo) Create(ctx context.Context, d *models.Department) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO departements (nom, code, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, d.Nom, d.Code, d.Description).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
}

func (r *DepartmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Department, error) {
	var d models.Department
	err := r.pool.QueryRow(ctx, `
		SELECT id, nom, code, description, created_at, updated_at
		FROM departements WHERE id = $1
	`, id).Scan(&d.ID, &d.Nom, &d.Code, &d.Description, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &d, nil
}

func (r *DepartmentRepo) Update(ctx context.Context, d *models.Department) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE departements SET nom = $1, code = $2, description = $3, updated_at = now()
		WHERE id = $4
	`, d.Nom, d.Code, d.Description, d.ID)
	return err
}

// Delete relies on the FK from employes.departement_id: Postgres rejects the
// delete with a 23503 while any employee still references the department.
func (r *DepartmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM departements WHERE id = $1`, id)
	return err
}

func (r *DepartmentRepo) List(ctx context.Context) ([]models.DepartmentWithCount, error) {
	return readRetry(ctx, func(ctx context.Context) ([]models.DepartmentWithCount, error) {
		rows, err := r.pool.Query(ctx, `
			SELECT d.id, d.nom, d.code, d.description, d.created_at, d.updated_at,
			       count(e.id) AS employee_count
			FROM departements d
			LEFT JOIN employes e ON e.departement_id = d.id
			GROUP BY d.id
			ORDER BY d.nom
		`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var departments []models.DepartmentWithCount
		for rows.Next() {
			var d models.DepartmentWithCount
			if err := rows.Scan(&d.ID, &d.Nom, &d.Code, &d.Description, &d.CreatedAt, &d.UpdatedAt, &d.EmployeeCount); err != nil {
				return nil, err
			}
			departments = append(departments, d)
		}
		return departments, rows.Err()
	})
}
