package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/staffhub/backend/internal/auth"
	"github.com/staffhub/backend/internal/config"
	"github.com/staffhub/backend/internal/http/dto"
	"github.com/staffhub/backend/internal/models"
	"github.com/staffhub/backend/internal/services"
	"go.uber.org/zap"
)

// CredentialStore is the account lookup surface the login flow needs.
type CredentialStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}

type AuthHandler struct {
	users CredentialStore
	audit services.AuditLogger
	cfg   *config.Config
	log   *zap.Logger
}

func NewAuthHandler(users CredentialStore, audit services.AuditLogger, cfg *config.Config, log *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, audit: audit, cfg: cfg, log: log}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if fields := dto.Validate(req); fields != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation failed", Fields: fields})
	}

	user, err := h.users.GetByEmail(c.Context(), req.Email)
	if err != nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		// Same answer for unknown email and wrong password.
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "invalid credentials"})
	}
	if !user.IsActive {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "account is disabled"})
	}

	token, err := auth.GenerateJWT(h.cfg.JWTSecret, user.ID, user.Role, user.EmployeID, h.cfg.JWTExpiration)
	if err != nil {
		h.log.Error("failed to generate jwt", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}

	if err := h.users.UpdateLastLogin(c.Context(), user.ID); err != nil {
		h.log.Error("failed to update last_login", zap.Error(err))
	}
	_ = h.audit.Log(c.Context(), models.AuditLog{
		ActorUserID: &user.ID,
		Action:      models.ActionUserLoggedIn,
		TargetType:  models.TargetUser,
		TargetID:    &user.ID,
	})

	return c.JSON(dto.AuthResponse{Token: token, User: user})
}
