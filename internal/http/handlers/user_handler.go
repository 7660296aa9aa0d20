package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/staffhub/backend/internal/http/dto"
	"github.com/staffhub/backend/internal/middleware"
	"github.com/staffhub/backend/internal/repositories"
	"github.com/staffhub/backend/internal/services"
	"go.uber.org/zap"
)

type UserHandler struct {
	userRepo        *repositories.UserRepo
	employeeService *services.EmployeeService
	log             *zap.Logger
}

func NewUserHandler(userRepo *repositories.UserRepo, employeeService *services.EmployeeService, log *zap.Logger) *UserHandler {
	return &UserHandler{userRepo: userRepo, employeeService: employeeService, log: log}
}

// GetMe returns the account plus its linked employee record, with the
// profile completeness score the dashboard shows.
func (h *UserHandler) GetMe(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	user, err := h.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "user not found"})
	}

	payload := fiber.Map{"user": user}
	if user.EmployeID != nil {
		if emp, err := h.employeeService.Get(c.Context(), *user.EmployeID); err == nil {
			payload["employe"] = emp
			payload["completeness"] = emp.ProfileCompleteness()
		}
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: payload})
}
