// Package server contains the HTTP handlers and routing for the Shelfware API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	_ "shelfware/docs" // swagger docs
	"shelfware/internal/auth"
	"shelfware/internal/bootstrap"
	"shelfware/internal/config"
	"shelfware/internal/database"
	"shelfware/internal/middleware"
	"shelfware/internal/models"
	"shelfware/internal/observability"
	"shelfware/internal/repository"
	"shelfware/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const serviceName = "shelfware-api"

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	authService    *service.AuthService
	projectService *service.ProjectService
}

// NewServer creates a new server instance, opening the database and Redis from cfg.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	db, redisClient, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{Seed: cfg.SeedOnStart})
	if err != nil {
		return nil, err
	}
	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil; rate limiting then fails open.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if db == nil {
		return nil, errors.New("database is required")
	}

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)

	return &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics(serviceName),
		authService: service.NewAuthService(
			userRepo,
			auth.NewBcryptHasher(auth.DefaultBcryptCost),
			auth.NewTokenManager(cfg.JWTSecret),
		),
		projectService: service.NewProjectService(projectRepo),
	}, nil
}

// NewApp builds the Fiber application with middleware and routes installed.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Shelfware API",
		ErrorHandler: s.errorHandler,
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())

	// Copies request and trace IDs into the request context for logging.
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS must run before the limiter so short-circuited responses still carry CORS headers.
	origins := s.config.AllowedOrigins()
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowMethods:     "GET,POST,PUT,DELETE",
		AllowHeaders:     "Content-Type, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they are answered by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health", s.HealthCheck)
	app.Get("/ready", s.ReadinessCheck)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(observability.Registry, promhttp.HandlerOpts{})))

	api := app.Group("/api")
	api.Get("/swagger/*", swagger.HandlerDefault)

	requireAuth := middleware.RequireAuth(s.authService)
	authWindow := time.Duration(s.config.AuthRateWindowSeconds) * time.Second
	if authWindow <= 0 {
		authWindow = 5 * time.Minute
	}
	authLimit := s.config.AuthRateLimit
	if authLimit <= 0 {
		authLimit = 10
	}

	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", middleware.RateLimit(s.redis, middleware.RateLimitPolicy{
		Resource: "register", Limit: authLimit, Window: authWindow, Bypass: s.config.SkipsRateLimit(),
	}), s.Register)
	authRoutes.Post("/login", middleware.RateLimit(s.redis, middleware.RateLimitPolicy{
		Resource: "login", Limit: authLimit, Window: authWindow, Bypass: s.config.SkipsRateLimit(),
	}), s.Login)
	authRoutes.Get("/profile", requireAuth, s.Profile)

	projects := api.Group("/projects")
	projects.Get("/", middleware.OptionalAuth(s.authService), s.ListProjects)
	projects.Post("/", requireAuth, s.CreateProject)
	projects.Get("/:id", requireAuth, s.GetProject)
	projects.Put("/:id", requireAuth, s.UpdateProject)
	projects.Delete("/:id", requireAuth, s.DeleteProject)

	// Unmatched /api paths must not fall through to the SPA.
	api.Use(func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})

	s.setupFrontend(app)
}

// errorHandler is the last-resort handler for errors that escape a handler or a panic.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) && fiberErr.Code < fiber.StatusInternalServerError {
		return c.Status(fiberErr.Code).JSON(models.ErrorResponse{Error: fiberErr.Message})
	}

	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return s.respondError(c, err)
	}

	middleware.Logger.ErrorContext(c.UserContext(), "unhandled error",
		slog.String("path", c.Path()),
		slog.String("error", err.Error()),
	)
	return s.respondError(c, models.NewInternalError(err))
}

// Start builds the app and listens on the configured port.
func (s *Server) Start() error {
	app := s.NewApp()
	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if err := database.Close(s.db); err != nil {
		middleware.Logger.Error("error closing sql DB", slog.String("error", err.Error()))
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", err.Error()))
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
