package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taskhive/task-api/internal/api/handler"
	"github.com/taskhive/task-api/internal/api/middleware"
	"github.com/taskhive/task-api/internal/core/domain"
	"github.com/taskhive/task-api/internal/core/ports"
	"github.com/taskhive/task-api/internal/core/service"
	"github.com/taskhive/task-api/internal/core/token"
	mongodb "github.com/taskhive/task-api/internal/infrastructure/db/mongo"
	redisdb "github.com/taskhive/task-api/internal/infrastructure/db/redis"
)

// publicRoutes lists the path prefixes exempt from authentication.
var publicRoutes = []string{
	"/api/v1/auth",
	"/health",
	"/metrics",
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, verifier ports.IdentityVerifier, jwtSecret string, logins ports.LoginRecorder, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("taskhive"))

	// --- Dependencies ---
	codec := token.NewCodec(jwtSecret)
	userRepo := mongodb.NewUserRepository(db)
	taskRepo := mongodb.NewTaskRepository(db)

	authService := service.NewAuthService(userRepo, verifier, codec, log).
		WithGuestTracker(redisdb.NewGuestTracker(rdb)).
		WithLoginRecorder(logins)
	taskService := service.NewTaskService(taskRepo, log)

	authHandler := handler.NewAuthHandler(authService)
	taskHandler := handler.NewTaskHandler(taskService)

	// Every route below passes through the authentication gate; the public
	// prefixes above opt out inside the middleware itself.
	e.Use(middleware.Auth(codec, userRepo, publicRoutes))

	// --- Auth routes (public) ---
	auth := e.Group("/api/v1/auth")
	auth.POST("/google", authHandler.GoogleAuth)
	auth.GET("/login", authHandler.Login)
	auth.POST("/signup", authHandler.SignUp)
	auth.GET("/refresh-session", authHandler.RefreshSession)

	// --- Task routes (authenticated + role gated) ---
	task := e.Group("/api/v1/task", middleware.RequireRole(domain.RoleLevels, domain.RoleUser))
	task.POST("", taskHandler.CreateTask)
	task.GET("", taskHandler.ListTasks)
	task.PUT("/:id", taskHandler.UpdateTask)
	task.DELETE("/:id", taskHandler.DeleteTask)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
