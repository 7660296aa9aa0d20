package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/staffhub/backend/internal/models"
	"github.com/staffhub/backend/internal/repositories"
	"go.uber.org/zap"
)

var (
	ErrDuplicateMatricule = errors.New("an employee with this matricule already exists")
	ErrUnknownDepartment  = errors.New("referenced department does not exist")
	ErrInvalidFieldKey    = errors.New("unknown visibility field key")
)

type EmployeeService struct {
	employeeRepo   *repositories.EmployeeRepo
	visibilityRepo *repositories.VisibilityRepo
	auditRepo      *repositories.AuditRepo
	tokens         *TokenService
	log            *zap.Logger
}

func NewEmployeeService(
	employeeRepo *repositories.EmployeeRepo,
	visibilityRepo *repositories.VisibilityRepo,
	auditRepo *repositories.AuditRepo,
	tokens *TokenService,
	log *zap.Logger,
) *EmployeeService {
	return &EmployeeService{
		employeeRepo:   employeeRepo,
		visibilityRepo: visibilityRepo,
		auditRepo:      auditRepo,
		tokens:         tokens,
		log:            log,
	}
}

func (s *EmployeeService) Create(ctx context.Context, actorID uuid.UUID, e *models.Employee) error {
	e.IsActive = true
	if err := s.employeeRepo.Create(ctx, e); err != nil {
		return mapEmployeeWriteError(err)
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &actorID,
		Action:      models.ActionEmployeeCreated,
		TargetType:  models.TargetEmployee,
		TargetID:    &e.ID,
		Details:     map[string]any{"matricule": e.Matricule},
	})
	return nil
}

func (s *EmployeeService) Update(ctx context.Context, actorID uuid.UUID, e *models.Employee) error {
	existing, err := s.employeeRepo.GetByID(ctx, e.ID)
	if err != nil {
		return err
	}

	if err := s.employeeRepo.Update(ctx, e); err != nil {
		return mapEmployeeWriteError(err)
	}
	s.tokens.InvalidateEmployee(ctx, e.ID)

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &actorID,
		Action:      models.ActionEmployeeUpdated,
		TargetType:  models.TargetEmployee,
		TargetID:    &e.ID,
		Details:     map[string]any{"matricule": existing.Matricule},
	})
	return nil
}

// Deactivate soft-deletes: the row stays for audit history and the public
// profile stops resolving.
func (s *EmployeeService) Deactivate(ctx context.Context, actorID uuid.UUID, id uuid.UUID) error {
	e, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.employeeRepo.SetActive(ctx, id, false); err != nil {
		return err
	}
	s.tokens.InvalidateEmployee(ctx, id)

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &actorID,
		Action:      models.ActionEmployeeDeactivated,
		TargetType:  models.TargetEmployee,
		TargetID:    &id,
		Details:     map[string]any{"matricule": e.Matricule},
	})
	return nil
}

func (s *EmployeeService) Get(ctx context.Context, id uuid.UUID) (*models.EmployeeWithDepartment, error) {
	return s.employeeRepo.GetByIDWithDepartment(ctx, id)
}

func (s *EmployeeService) List(ctx context.Context, f repositories.EmployeeFilter) ([]models.EmployeeWithDepartment, int, error) {
	total, err := s.employeeRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	items, err := s.employeeRepo.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *EmployeeService) Visibility(ctx context.Context, employeID uuid.UUID) ([]models.FieldVisibility, error) {
	return s.visibilityRepo.ListByEmployee(ctx, employeID)
}

type VisibilityUpdate struct {
	FieldKey string
	IsPublic bool
}

// UpdateVisibility upserts visibility flags for one employee and drops the
// cached public profile so the change is immediately observable.
func (s *EmployeeService) UpdateVisibility(ctx context.Context, actorID uuid.UUID, employeID uuid.UUID, updates []VisibilityUpdate) ([]models.FieldVisibility, error) {
	for _, u := range updates {
		if !models.IsVisibilityFieldKey(u.FieldKey) {
			return nil, ErrInvalidFieldKey
		}
	}

	for _, u := range updates {
		v := &models.FieldVisibility{EmployeID: employeID, FieldKey: u.FieldKey, IsPublic: u.IsPublic}
		if err := s.visibilityRepo.Upsert(ctx, v); err != nil {
			return nil, err
		}
	}
	s.tokens.InvalidateEmployee(ctx, employeID)

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &actorID,
		Action:      models.ActionVisibilityUpdated,
		TargetType:  models.TargetEmployee,
		TargetID:    &employeID,
		Details:     map[string]any{"updated_keys": len(updates)},
	})

	return s.visibilityRepo.ListByEmployee(ctx, employeID)
}

func mapEmployeeWriteError(err error) error {
	if repositories.IsUniqueViolation(err, "") {
		return ErrDuplicateMatricule
	}
	if repositories.IsForeignKeyViolation(err) {
		return ErrUnknownDepartment
	}
	return err
}
