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
	ErrDuplicateDepartment = errors.New("a department with this name or code already exists")
	ErrDepartmentInUse     = errors.New("department still has employees and cannot be deleted")
)

type DepartmentService struct {
	departmentRepo *repositories.DepartmentRepo
	auditRepo      *repositories.AuditRepo
	log            *zap.Logger
}

func NewDepartmentService(departmentRepo *repositories.DepartmentRepo, auditRepo *repositories.AuditRepo, log *zap.Logger) *DepartmentService {
	return &DepartmentService{departmentRepo: departmentRepo, auditRepo: auditRepo, log: log}
}

func (s *DepartmentService) Create(ctx context.Context, actorID uuid.UUID, d *models.Department) error {
	if err := s.departmentRepo.Create(ctx, d); err != nil {
		if repositories.IsUniqueViolation(err, "") {
			return ErrDuplicateDepartment
		}
		return err
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &actorID,
		Action:      models.ActionDepartmentCreated,
		TargetType:  models.TargetDepartment,
		TargetID:    &d.ID,
		Details:     map[string]any{"nom": d.Nom},
	})
	return nil
}

func (s *DepartmentService) Update(ctx context.Context, actorID uuid.UUID, d *models.Department) error {
	if _, err := s.departmentRepo.GetByID(ctx, d.ID); err != nil {
		return err
	}

	if err := s.departmentRepo.Update(ctx, d); err != nil {
		if repositories.IsUniqueViolation(err, "") {
			return ErrDuplicateDepartment
		}
		return err
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &actorID,
		Action:      models.ActionDepartmentUpdated,
		TargetType:  models.TargetDepartment,
		TargetID:    &d.ID,
		Details:     map[string]any{"nom": d.Nom},
	})
	return nil
}

func (s *DepartmentService) Delete(ctx context.Context, actorID uuid.UUID, id uuid.UUID) error {
	d, err := s.departmentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.departmentRepo.Delete(ctx, id); err != nil {
		if repositories.IsForeignKeyViolation(err) {
			return ErrDepartmentInUse
		}
		return err
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &actorID,
		Action:      models.ActionDepartmentDeleted,
		TargetType:  models.TargetDepartment,
		TargetID:    &id,
		Details:     map[string]any{"nom": d.Nom},
	})
	return nil
}

func (s *DepartmentService) Get(ctx context.Context, id uuid.UUID) (*models.Department, error) {
	return s.departmentRepo.GetByID(ctx, id)
}

func (s *DepartmentService) List(ctx context.Context) ([]models.DepartmentWithCount, error) {
	return s.departmentRepo.List(ctx)
}
