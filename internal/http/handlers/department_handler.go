package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/staffhub/backend/internal/http/dto"
	"github.com/staffhub/backend/internal/middleware"
	"github.com/staffhub/backend/internal/models"
	"github.com/staffhub/backend/internal/repositories"
	"github.com/staffhub/backend/internal/services"
	"go.uber.org/zap"
)

type DepartmentHandler struct {
	departmentService *services.DepartmentService
	log               *zap.Logger
}

func NewDepartmentHandler(departmentService *services.DepartmentService, log *zap.Logger) *DepartmentHandler {
	return &DepartmentHandler{departmentService: departmentService, log: log}
}

func (h *DepartmentHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if fields := dto.Validate(req); fields != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation failed", Fields: fields})
	}

	d := &models.Department{Nom: req.Nom, Code: req.Code, Description: req.Description}
	actorID := middleware.GetUserID(c)
	if err := h.departmentService.Create(c.Context(), actorID, d); err != nil {
		return h.writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: d})
}

func (h *DepartmentHandler) List(c *fiber.Ctx) error {
	departments, err := h.departmentService.List(c.Context())
	if err != nil {
		h.log.Error("list departments failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: departments})
}

func (h *DepartmentHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid department id"})
	}

	d, err := h.departmentService.Get(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "department not found"})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: d})
}

func (h *DepartmentHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid department id"})
	}

	var req dto.UpdateDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if fields := dto.Validate(req); fields != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation failed", Fields: fields})
	}

	d := &models.Department{ID: id, Nom: req.Nom, Code: req.Code, Description: req.Description}
	actorID := middleware.GetUserID(c)
	if err := h.departmentService.Update(c.Context(), actorID, d); err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: d})
}

func (h *DepartmentHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid department id"})
	}

	actorID := middleware.GetUserID(c)
	if err := h.departmentService.Delete(c.Context(), actorID, id); err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *DepartmentHandler) writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "department not found"})
	case errors.Is(err, services.ErrDuplicateDepartment), errors.Is(err, services.ErrDepartmentInUse):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Error: err.Error()})
	default:
		h.log.Error("department write failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}
}
