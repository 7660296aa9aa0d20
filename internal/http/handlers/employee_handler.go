package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/staffhub/backend/internal/http/dto"
	"github.com/staffhub/backend/internal/middleware"
	"github.com/staffhub/backend/internal/models"
	"github.com/staffhub/backend/internal/repositories"
	"github.com/staffhub/backend/internal/services"
	"go.uber.org/zap"
)

type EmployeeHandler struct {
	employeeService *services.EmployeeService
	log             *zap.Logger
}

func NewEmployeeHandler(employeeService *services.EmployeeService, log *zap.Logger) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService, log: log}
}

func (h *EmployeeHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if fields := dto.Validate(req); fields != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation failed", Fields: fields})
	}

	departementID, err := uuid.Parse(req.DepartementID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid departement_id"})
	}

	e := &models.Employee{
		Matricule:     req.Matricule,
		Nom:           req.Nom,
		Prenom:        req.Prenom,
		DepartementID: departementID,
		Poste:         req.Poste,
		Email:         req.Email,
		Telephone:     req.Telephone,
		PhotoURL:      req.PhotoURL,
	}

	actorID := middleware.GetUserID(c)
	if err := h.employeeService.Create(c.Context(), actorID, e); err != nil {
		return h.writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: e})
}

func (h *EmployeeHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid employee id"})
	}

	e, err := h.employeeService.Get(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "employee not found"})
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: fiber.Map{
		"employe":      e,
		"completeness": e.ProfileCompleteness(),
	}})
}

func (h *EmployeeHandler) List(c *fiber.Ctx) error {
	page, pageSize := pageParams(c)
	filter := repositories.EmployeeFilter{
		Search: c.Query("search"),
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	}
	if v := c.Query("departement_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			filter.DepartementID = &id
		}
	}
	if v := c.Query("is_active"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			filter.IsActive = &b
		}
	}

	items, total, err := h.employeeService.List(c.Context(), filter)
	if err != nil {
		h.log.Error("list employees failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}

	return c.JSON(dto.PageResponse{OK: true, Data: items, Total: total, Page: page, PageSize: pageSize})
}

func (h *EmployeeHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid employee id"})
	}

	var req dto.UpdateEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if fields := dto.Validate(req); fields != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation failed", Fields: fields})
	}

	departementID, err := uuid.Parse(req.DepartementID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid departement_id"})
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	e := &models.Employee{
		ID:            id,
		Matricule:     req.Matricule,
		Nom:           req.Nom,
		Prenom:        req.Prenom,
		DepartementID: departementID,
		Poste:         req.Poste,
		Email:         req.Email,
		Telephone:     req.Telephone,
		PhotoURL:      req.PhotoURL,
		IsActive:      isActive,
	}

	actorID := middleware.GetUserID(c)
	if err := h.employeeService.Update(c.Context(), actorID, e); err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: e})
}

func (h *EmployeeHandler) Deactivate(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid employee id"})
	}

	actorID := middleware.GetUserID(c)
	if err := h.employeeService.Deactivate(c.Context(), actorID, id); err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *EmployeeHandler) writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "employee not found"})
	case errors.Is(err, services.ErrDuplicateMatricule):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrUnknownDepartment):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	default:
		h.log.Error("employee write failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}
}

// pageParams reads page/page_size query params, clamping page_size to the
// allowed set.
func pageParams(c *fiber.Ctx) (int, int) {
	page := 1
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		page = v
	}
	pageSize := 20
	if v, err := strconv.Atoi(c.Query("page_size")); err == nil {
		for _, allowed := range services.AllowedPageSizes {
			if v == allowed {
				pageSize = v
			}
		}
	}
	return page, pageSize
}
