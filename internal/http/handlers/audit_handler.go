package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/staffhub/backend/internal/http/dto"
	"github.com/staffhub/backend/internal/services"
	"go.uber.org/zap"
)

type AuditHandler struct {
	auditService *services.AuditService
	log          *zap.Logger
}

func NewAuditHandler(auditService *services.AuditService, log *zap.Logger) *AuditHandler {
	return &AuditHandler{auditService: auditService, log: log}
}

// List returns denormalized audit rows for the admin log view.
func (h *AuditHandler) List(c *fiber.Ctx) error {
	page, pageSize := pageParams(c)
	q := services.AuditQuery{
		Action:         c.Query("action"),
		EmployeeSearch: c.Query("employee"),
		Page:           page,
		PageSize:       pageSize,
	}

	rows, total, err := h.auditService.ListDisplay(c.Context(), q)
	if err != nil {
		h.log.Error("list audit log failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}

	return c.JSON(dto.PageResponse{OK: true, Data: rows, Total: total, Page: page, PageSize: pageSize})
}
