package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/staffhub/backend/internal/config"
	"github.com/staffhub/backend/internal/http/handlers"
	"github.com/staffhub/backend/internal/middleware"
	"github.com/staffhub/backend/internal/rbac"
	"go.uber.org/zap"
)

func SetupRouter(
	app *fiber.App,
	cfg *config.Config,
	log *zap.Logger,
	rdb *redis.Client,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	employeeHandler *handlers.EmployeeHandler,
	departmentHandler *handlers.DepartmentHandler,
	requestHandler *handlers.RequestHandler,
	auditHandler *handlers.AuditHandler,
	profileHandler *handlers.ProfileHandler,
	metaHandler *handlers.MetaHandler,
	wsHub *handlers.WSHub,
) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Public profile route — opaque token in the path, aggressively
	// rate-limited since it is unauthenticated.
	app.Get("/p/:token",
		middleware.RateLimitMiddleware(rdb, cfg.PublicRateLimit, cfg.RateLimitWindow),
		profileHandler.ResolvePublic,
	)

	api := app.Group("/api/v1")

	// Auth (public)
	api.Post("/auth/login", authHandler.Login)

	api.Use(middleware.RateLimitMiddleware(rdb, cfg.AdminRateLimit, cfg.RateLimitWindow))

	// Meta (public, no auth required)
	api.Get("/meta", metaHandler.GetMeta)

	// Protected endpoints
	protected := api.Group("", middleware.AuthMiddleware(cfg, log))

	// Current account
	protected.Get("/me", userHandler.GetMe)

	// Own QR token + visibility (employee self-service; admins may pass
	// ?employe_id= to act on any employee)
	protected.Get("/me/qr", profileHandler.GetMyQR)
	protected.Post("/me/qr/rotate", profileHandler.RotateMyQR)
	protected.Post("/me/qr/revoke", profileHandler.RevokeMyQR)
	protected.Get("/me/visibility", profileHandler.GetMyVisibility)
	protected.Put("/me/visibility", profileHandler.UpdateMyVisibility)

	// Modification requests
	protected.Post("/requests", middleware.RequirePermission(rbac.PermSubmitRequest), requestHandler.Submit)
	protected.Get("/requests", requestHandler.List)

	// Admin-only surface
	admin := protected.Group("", middleware.RequireAdmin())

	admin.Post("/employees", employeeHandler.Create)
	admin.Get("/employees", employeeHandler.List)
	admin.Get("/employees/:id", employeeHandler.Get)
	admin.Put("/employees/:id", employeeHandler.Update)
	admin.Post("/employees/:id/deactivate", employeeHandler.Deactivate)

	admin.Post("/departments", departmentHandler.Create)
	admin.Get("/departments", departmentHandler.List)
	admin.Get("/departments/:id", departmentHandler.Get)
	admin.Put("/departments/:id", departmentHandler.Update)
	admin.Delete("/departments/:id", departmentHandler.Delete)

	admin.Post("/requests/:id/approve", requestHandler.Approve)
	admin.Post("/requests/:id/reject", requestHandler.Reject)

	admin.Get("/audit", auditHandler.List)

	// WebSocket (admin dashboards)
	app.Use("/ws", handlers.WSUpgradeMiddleware())
	app.Get("/ws", websocket.New(wsHub.HandleWS))
}
