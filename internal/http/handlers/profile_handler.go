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

// ProfileHandler covers the public profile route plus the owner-facing QR
// and visibility endpoints.
type ProfileHandler struct {
	profileService  *services.ProfileService
	tokenService    *services.TokenService
	employeeService *services.EmployeeService
	log             *zap.Logger
}

func NewProfileHandler(
	profileService *services.ProfileService,
	tokenService *services.TokenService,
	employeeService *services.EmployeeService,
	log *zap.Logger,
) *ProfileHandler {
	return &ProfileHandler{
		profileService:  profileService,
		tokenService:    tokenService,
		employeeService: employeeService,
		log:             log,
	}
}

// ResolvePublic serves /p/:token. Unknown, revoked and expired tokens are
// regular results with a status field, not errors: the public page renders
// a distinct message per case.
func (h *ProfileHandler) ResolvePublic(c *fiber.Ctx) error {
	res, err := h.profileService.Resolve(c.Context(), c.Params("token"))
	if err != nil {
		h.log.Error("public profile resolution failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}

	status := fiber.StatusOK
	if res.Status != services.ProfileStatusOK {
		status = fiber.StatusNotFound
	}
	return c.Status(status).JSON(res)
}

// GetMyQR returns (issuing on first use) the caller's share token and URL.
func (h *ProfileHandler) GetMyQR(c *fiber.Ctx) error {
	employeID, err := h.ownEmployeID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "no employee record linked to this account"})
	}

	t, err := h.tokenService.GetOrCreate(c.Context(), *employeID, middleware.GetUserID(c))
	if err != nil {
		h.log.Error("get-or-create token failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: dto.QRTokenResponse{Token: t, ShareURL: h.tokenService.ShareURL(t)}})
}

// RotateMyQR revokes the current token and issues a fresh one.
func (h *ProfileHandler) RotateMyQR(c *fiber.Ctx) error {
	employeID, err := h.ownEmployeID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "no employee record linked to this account"})
	}

	var req dto.RotateTokenRequest
	_ = c.BodyParser(&req)

	t, err := h.tokenService.Rotate(c.Context(), *employeID, middleware.GetUserID(c), req.ExpiresAt)
	if err != nil {
		h.log.Error("rotate token failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: dto.QRTokenResponse{Token: t, ShareURL: h.tokenService.ShareURL(t)}})
}

// RevokeMyQR disables sharing until a new token is issued.
func (h *ProfileHandler) RevokeMyQR(c *fiber.Ctx) error {
	employeID, err := h.ownEmployeID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "no employee record linked to this account"})
	}

	if err := h.tokenService.Revoke(c.Context(), *employeID, middleware.GetUserID(c)); err != nil {
		h.log.Error("revoke token failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *ProfileHandler) GetMyVisibility(c *fiber.Ctx) error {
	employeID, err := h.ownEmployeID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "no employee record linked to this account"})
	}

	entries, err := h.employeeService.Visibility(c.Context(), *employeID)
	if err != nil {
		h.log.Error("get visibility failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: entries})
}

func (h *ProfileHandler) UpdateMyVisibility(c *fiber.Ctx) error {
	employeID, err := h.ownEmployeID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "no employee record linked to this account"})
	}

	var req dto.UpdateVisibilityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if fields := dto.Validate(req); fields != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation failed", Fields: fields})
	}

	updates := make([]services.VisibilityUpdate, 0, len(req.Entries))
	for _, e := range req.Entries {
		updates = append(updates, services.VisibilityUpdate{FieldKey: e.FieldKey, IsPublic: e.IsPublic})
	}

	entries, err := h.employeeService.UpdateVisibility(c.Context(), middleware.GetUserID(c), *employeID, updates)
	if err != nil {
		if errors.Is(err, services.ErrInvalidFieldKey) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
		}
		h.log.Error("update visibility failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: entries})
}

// ownEmployeID resolves which employee record the call operates on: the
// caller's own, or — for admins — any employee via the employe_id query.
func (h *ProfileHandler) ownEmployeID(c *fiber.Ctx) (*uuid.UUID, error) {
	if middleware.GetRole(c) == rbac.RoleAdmin {
		if v := c.Query("employe_id"); v != "" {
			id, err := uuid.Parse(v)
			if err != nil {
				return nil, err
			}
			return &id, nil
		}
	}
	if id := middleware.GetEmployeID(c); id != nil {
		return id, nil
	}
	return nil, repositories.ErrNotFound
}
