package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/staffhub/backend/internal/auth"
	"github.com/staffhub/backend/internal/cache"
	"github.com/staffhub/backend/internal/config"
	"github.com/staffhub/backend/internal/db"
	"github.com/staffhub/backend/internal/events"
	apphttp "github.com/staffhub/backend/internal/http"
	"github.com/staffhub/backend/internal/http/handlers"
	"github.com/staffhub/backend/internal/models"
	"github.com/staffhub/backend/internal/rbac"
	"github.com/staffhub/backend/internal/repositories"
	"github.com/staffhub/backend/internal/services"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	// Run migrations
	if err := db.RunMigrations(ctx, pool, "migrations", log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	employeeRepo := repositories.NewEmployeeRepo(pool)
	departmentRepo := repositories.NewDepartmentRepo(pool)
	visibilityRepo := repositories.NewVisibilityRepo(pool)
	tokenRepo := repositories.NewTokenRepo(pool)
	requestRepo := repositories.NewRequestRepo(pool)
	auditRepo := repositories.NewAuditRepo(pool)

	// Events + cache
	publisher := events.NewRedisPublisher(rdb, log)
	subscriber := events.NewRedisSubscriber(rdb, log)
	profileCache := cache.NewRedisProfileCache(rdb)

	// Services
	tokenService := services.NewTokenService(tokenRepo, auditRepo, profileCache, publisher, cfg.PublicBaseURL, log)
	employeeService := services.NewEmployeeService(employeeRepo, visibilityRepo, auditRepo, tokenService, log)
	departmentService := services.NewDepartmentService(departmentRepo, auditRepo, log)
	profileService := services.NewProfileService(tokenRepo, employeeRepo, visibilityRepo, profileCache, cfg.ProfileCacheTTL, log)
	requestService := services.NewRequestService(requestRepo, auditRepo, publisher, log)
	auditService := services.NewAuditService(auditRepo, userRepo, employeeRepo, log)

	if err := bootstrapAdmin(ctx, cfg, userRepo, log); err != nil {
		log.Fatal("failed to bootstrap admin account", zap.Error(err))
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(userRepo, auditRepo, cfg, log)
	userHandler := handlers.NewUserHandler(userRepo, employeeService, log)
	employeeHandler := handlers.NewEmployeeHandler(employeeService, log)
	departmentHandler := handlers.NewDepartmentHandler(departmentService, log)
	requestHandler := handlers.NewRequestHandler(requestService, log)
	auditHandler := handlers.NewAuditHandler(auditService, log)
	profileHandler := handlers.NewProfileHandler(profileService, tokenService, employeeService, log)
	metaHandler := handlers.NewMetaHandler(cfg.AppName)
	wsHub := handlers.NewWSHub(cfg, subscriber, userRepo, log)

	// Start WS hub
	wsHub.Start(ctx)

	// Fiber app
	app := fiber.New(fiber.Config{
		AppName: cfg.AppName,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	apphttp.SetupRouter(app, cfg, log, rdb,
		authHandler, userHandler, employeeHandler, departmentHandler,
		requestHandler, auditHandler, profileHandler, metaHandler, wsHub)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting API server", zap.String("addr", addr), zap.String("app", cfg.AppName))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}

// bootstrapAdmin creates the first HR admin account on an empty users table
// so a fresh deployment is reachable.
func bootstrapAdmin(ctx context.Context, cfg *config.Config, userRepo *repositories.UserRepo, log *zap.Logger) error {
	if cfg.BootstrapAdminEmail == "" || cfg.BootstrapAdminPassword == "" {
		return nil
	}

	n, err := userRepo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	hash, err := auth.HashPassword(cfg.BootstrapAdminPassword, cfg.BcryptCost)
	if err != nil {
		return err
	}

	u := &models.User{
		Email:        cfg.BootstrapAdminEmail,
		PasswordHash: hash,
		Role:         rbac.RoleAdmin,
		IsActive:     true,
	}
	if err := userRepo.Create(ctx, u); err != nil {
		return err
	}
	log.Info("bootstrap admin created", zap.String("email", u.Email))
	return nil
}
