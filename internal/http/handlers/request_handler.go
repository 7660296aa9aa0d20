package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/staffhub/backend/internal/http/dto"
	"github.com/staffhub/backend/internal/middleware"
	"github.com/staffhub/backend/internal/rbac"
	"github.com/staffhub/backend/internal/repositories"
	"github.com/staffhub/backend/internal/services"
	"go.uber.org/zap"
)

type RequestHandler struct {
	requestService *services.RequestService
	log            *zap.Logger
}

func NewRequestHandler(requestService *services.RequestService, log *zap.Logger) *RequestHandler {
	return &RequestHandler{requestService: requestService, log: log}
}

// Submit creates a pending modification request on the caller's own record.
func (h *RequestHandler) Submit(c *fiber.Ctx) error {
	var req dto.SubmitRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if fields := dto.Validate(req); fields != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation failed", Fields: fields})
	}

	m, err := h.requestService.Submit(c.Context(), middleware.GetUserID(c), middleware.GetEmployeID(c), services.SubmitRequestInput{
		TargetField: req.TargetField,
		OldValue:    req.OldValue,
		NewValue:    req.NewValue,
		Reason:      req.Reason,
	})
	if err != nil {
		return h.writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: m})
}

func (h *RequestHandler) List(c *fiber.Ctx) error {
	page, pageSize := pageParams(c)
	filter := repositories.RequestFilter{
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	}
	if v := c.Query("status"); v != "" {
		filter.Status = &v
	}

	if middleware.GetRole(c) == rbac.RoleAdmin {
		if v := c.Query("employe_id"); v != "" {
			if id, err := uuid.Parse(v); err == nil {
				filter.EmployeID = &id
			}
		}
	} else {
		// Employees only ever see their own requests.
		employeID := middleware.GetEmployeID(c)
		if employeID == nil {
			return c.JSON(dto.PageResponse{OK: true, Data: []any{}, Total: 0, Page: page, PageSize: pageSize})
		}
		filter.EmployeID = employeID
	}

	items, total, err := h.requestService.List(c.Context(), filter)
	if err != nil {
		h.log.Error("list requests failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}

	return c.JSON(dto.PageResponse{OK: true, Data: items, Total: total, Page: page, PageSize: pageSize})
}

func (h *RequestHandler) Approve(c *fiber.Ctx) error {
	return h.decide(c, true)
}

func (h *RequestHandler) Reject(c *fiber.Ctx) error {
	return h.decide(c, false)
}

func (h *RequestHandler) decide(c *fiber.Ctx, approve bool) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request id"})
	}

	var req dto.DecideRequestRequest
	_ = c.BodyParser(&req)

	m, err := h.requestService.Decide(c.Context(), id, middleware.GetUserID(c), approve, req.Comment)
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: m})
}

func (h *RequestHandler) writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "request not found"})
	case errors.Is(err, services.ErrAlreadyDecided):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrInvalidTargetField), errors.Is(err, services.ErrNotOwnRecord):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	default:
		h.log.Error("request write failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}
}
