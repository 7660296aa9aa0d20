package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/staffhub/backend/internal/models"
)

type EmployeeRepo struct {
	pool *pgxpool.Pool
}

func NewEmployeeRepo(pool *pgxpool.Pool) *EmployeeRepo {
	return &EmployeeRepo{pool: pool}
}

func (r *EmployeeRepo) Create(ctx context.Context, e *models.Employee) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO employes (matricule, nom, prenom, departement_id, poste, email, telephone, photo_url, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, e.Matricule, e.Nom, e.Prenom, e.DepartementID, e.Poste, e.Email, e.Telephone, e.PhotoURL, e.IsActive,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

func (r *EmployeeRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	var e models.Employee
	err := r.pool.QueryRow(ctx, `
		SELECT id, matricule, nom, prenom, departement_id, poste, email, telephone, photo_url, is_active, created_at, updated_at
		FROM employes WHERE id = $1
	`, id).Scan(&e.ID, &e.Matricule, &e.Nom, &e.Prenom, &e.DepartementID, &e.Poste, &e.Email,
		&e.Telephone, &e.PhotoURL, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &e, nil
}

func (r *EmployeeRepo) GetByIDWithDepartment(ctx context.Context, id uuid.UUID) (*models.EmployeeWithDepartment, error) {
	var e models.EmployeeWithDepartment
	err := r.pool.QueryRow(ctx, `
		SELECT e.id, e.matricule, e.nom, e.prenom, e.departement_id, e.poste, e.email, e.telephone,
		       e.photo_url, e.is_active, e.created_at, e.updated_at, d.nom, d.code
		FROM employes e
		JOIN departements d ON d.id = e.departement_id
		WHERE e.id = $1
	`, id).Scan(&e.ID, &e.Matricule, &e.Nom, &e.Prenom, &e.DepartementID, &e.Poste, &e.Email,
		&e.Telephone, &e.PhotoURL, &e.IsActive, &e.CreatedAt, &e.UpdatedAt,
		&e.DepartementNom, &e.DepartementCode)
	if err != nil {
		return nil, notFound(err)
	}
	return &e, nil
}

func (r *EmployeeRepo) Update(ctx context.Context, e *models.Employee) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE employes SET matricule = $1, nom = $2, prenom = $3, departement_id = $4,
		       poste = $5, email = $6, telephone = $7, photo_url = $8, is_active = $9, updated_at = now()
		WHERE id = $10
	`, e.Matricule, e.Nom, e.Prenom, e.DepartementID, e.Poste, e.Email, e.Telephone, e.PhotoURL, e.IsActive, e.ID)
	return err
}

func (r *EmployeeRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	_, err := r.pool.Exec(ctx, `UPDATE employes SET is_active = $1, updated_at = now() WHERE id = $2`, active, id)
	return err
}

type EmployeeFilter struct {
	Search        string // matches matricule, nom, prenom
	DepartementID *uuid.UUID
	IsActive      *bool
	Limit         int
	Offset        int
}

func (f EmployeeFilter) whereClause(startIdx int) (string, []any) {
	args := []any{}
	argIdx := startIdx
	where := ""

	add := func(cond string, v any) {
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += fmt.Sprintf(cond, argIdx)
		args = append(args, v)
		argIdx++
	}

	if f.Search != "" {
		add("(e.matricule ILIKE $%[1]d OR e.nom ILIKE $%[1]d OR e.prenom ILIKE $%[1]d)", "%"+f.Search+"%")
	}
	if f.DepartementID != nil {
		add("e.departement_id = $%d", *f.DepartementID)
	}
	if f.IsActive != nil {
		add("e.is_active = $%d", *f.IsActive)
	}
	return where, args
}

func (r *EmployeeRepo) List(ctx context.Context, f EmployeeFilter) ([]models.EmployeeWithDepartment, error) {
	where, args := f.whereClause(1)
	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := `
		SELECT e.id, e.matricule, e.nom, e.prenom, e.departement_id, e.poste, e.email, e.telephone,
		       e.photo_url, e.is_active, e.created_at, e.updated_at, d.nom, d.code
		FROM employes e
		JOIN departements d ON d.id = e.departement_id
	` + where + fmt.Sprintf(" ORDER BY e.created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, f.Offset)

	return readRetry(ctx, func(ctx context.Context) ([]models.EmployeeWithDepartment, error) {
		rows, err := r.pool.Query(ctx, query, args...)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var employees []models.EmployeeWithDepartment
		for rows.Next() {
			var e models.EmployeeWithDepartment
			if err := rows.Scan(&e.ID, &e.Matricule, &e.Nom, &e.Prenom, &e.DepartementID, &e.Poste, &e.Email,
				&e.Telephone, &e.PhotoURL, &e.IsActive, &e.CreatedAt, &e.UpdatedAt,
				&e.DepartementNom, &e.DepartementCode); err != nil {
				return nil, err
			}
			employees = append(employees, e)
		}
		return employees, rows.Err()
	})
}

// Count returns the exact total for the same filter List uses, so paginated
// responses can report a stable total.
func (r *EmployeeRepo) Count(ctx context.Context, f EmployeeFilter) (int, error) {
	where, args := f.whereClause(1)
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM employes e`+where, args...).Scan(&n)
	return n, err
}

// EmployeeIdentity is the minimal projection needed for label resolution.
type EmployeeIdentity struct {
	ID        uuid.UUID
	Matricule string
	Nom       string
	Prenom    string
}

// GetIdentitiesByIDs resolves a batch of distinct employee ids in one query.
func (r *EmployeeRepo) GetIdentitiesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]EmployeeIdentity, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]EmployeeIdentity{}, nil
	}
	return readRetry(ctx, func(ctx context.Context) (map[uuid.UUID]EmployeeIdentity, error) {
		rows, err := r.pool.Query(ctx, `
			SELECT id, matricule, nom, prenom FROM employes WHERE id = ANY($1)
		`, ids)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		out := make(map[uuid.UUID]EmployeeIdentity, len(ids))
		for rows.Next() {
			var e EmployeeIdentity
			if err := rows.Scan(&e.ID, &e.Matricule, &e.Nom, &e.Prenom); err != nil {
				return nil, err
			}
			out[e.ID] = e
		}
		return out, rows.Err()
	})
}

// SearchIDs returns the ids of employees matching a free-text search.
// Used to scope the audit log to a target-employee filter.
func (r *EmployeeRepo) SearchIDs(ctx context.Context, search string) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id FROM employes
		WHERE matricule ILIKE $1 OR nom ILIKE $1 OR prenom ILIKE $1
	`, "%"+search+"%")
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
