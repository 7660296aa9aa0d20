package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/staffhub/backend/internal/http/dto"
	"github.com/staffhub/backend/internal/models"
	"github.com/staffhub/backend/internal/services"
)

// MetaHandler serves the enumerations clients build their filter and form
// controls from.
type MetaHandler struct {
	appName string
}

func NewMetaHandler(appName string) *MetaHandler {
	return &MetaHandler{appName: appName}
}

func (h *MetaHandler) GetMeta(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: fiber.Map{
		"app_name":          h.appName,
		"visibility_fields": models.VisibilityFieldKeys,
		"request_fields":    models.RequestTargetFields,
		"audit_actions":     models.AuditActions,
		"page_sizes":        services.AllowedPageSizes,
	}})
}
