// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "forumhub/docs" // swagger docs
	"forumhub/internal/auth"
	"forumhub/internal/cache"
	"forumhub/internal/config"
	"forumhub/internal/featureflags"
	"forumhub/internal/middleware"
	"forumhub/internal/models"
	"forumhub/internal/notifications"
	"forumhub/internal/observability"
	"forumhub/internal/repository"
	"forumhub/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// requestTimeout bounds the datastore work done for one request.
const requestTimeout = 5 * time.Second

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc
	userRepo       repository.UserRepository
	forumRepo      repository.ForumRepository
	commentRepo    repository.CommentRepository
	authenticator  *auth.Authenticator
	limiter        *middleware.RateLimiter
	notifier       *notifications.Notifier
	hub            *notifications.Hub
	events         *notifications.Publisher
	featureFlags   *featureflags.Manager
	authService    *service.AuthService
	forumService   *service.ForumService
	commentService *service.CommentService
	userService    *service.UserService
}

// NewServer wires repositories and services around an open datastore handle.
// rdb may be nil, in which case caching, rate limiting and cross-instance
// feed delivery are disabled. The caller owns db and rdb and closes them.
func NewServer(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*Server, error) {
	if db == nil {
		return nil, errors.New("database handle is required")
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("token service: %w", err)
	}

	store := cache.NewStore(rdb)
	userRepo := repository.NewUserRepository(db)
	forumRepo := repository.NewForumRepository(db, store)
	commentRepo := repository.NewCommentRepository(db, store)
	authenticator := auth.NewAuthenticator(userRepo, tokens)

	ctx, cancel := context.WithCancel(context.Background())

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          rdb,
		promMiddleware: middleware.InitMetrics(observability.ServiceName),
		shutdownCtx:    ctx,
		shutdownFn:     cancel,
		userRepo:       userRepo,
		forumRepo:      forumRepo,
		commentRepo:    commentRepo,
		authenticator:  authenticator,
		limiter:        middleware.NewRateLimiter(rdb, cfg.RateLimitEnabled),
		notifier:       notifications.NewNotifier(rdb),
		hub:            notifications.NewHub(),
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
		authService:    service.NewAuthService(userRepo, authenticator),
		forumService:   service.NewForumService(forumRepo),
		commentService: service.NewCommentService(commentRepo, forumRepo),
		userService:    service.NewUserService(userRepo),
	}
	server.events = notifications.NewPublisher(server.hub, server.notifier)

	return server, nil
}

// App builds the fiber application on first use.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}

	app := fiber.New(fiber.Config{
		AppName:      "ForumHub API",
		ErrorHandler: ErrorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// ErrorHandler renders errors that escape handlers. Unknown routes get a 404 body.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		switch fe.Code {
		case fiber.StatusNotFound:
			return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{Message: "Route not found", Code: models.CodeNotFound})
		case fiber.StatusMethodNotAllowed:
			return c.Status(fe.Code).JSON(models.ErrorResponse{Message: "Method not allowed"})
		}
		if fe.Code < fiber.StatusInternalServerError {
			return c.Status(fe.Code).JSON(models.ErrorResponse{Message: fe.Message})
		}
	}

	middleware.Logger.ErrorContext(c.UserContext(), "unhandled error",
		slog.String("path", c.Path()), slog.String("error", err.Error()))
	return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panics are converted to errors and rendered by ErrorHandler.
	app.Use(recover.New())

	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())

	// Propagates request and trace ids into the user context for logging.
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))

	if s.config.RateLimitEnabled {
		app.Use(limiter.New(limiter.Config{
			Max:        100,
			Expiration: time.Minute,
			Next: func(c *fiber.Ctx) bool {
				return c.Method() == fiber.MethodOptions
			},
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
					Message: "Too many requests, please try again later",
					Code:    middleware.CodeRateLimited,
				})
			},
		}))
	}
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	requireAuth := middleware.AuthRequired(s.authenticator)
	optionalAuth := middleware.OptionalAuth(s.authenticator)

	app.Get("/health", s.HealthCheck)
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "ForumHub API Metrics",
	}))
	api.Get("/docs/*", swagger.HandlerDefault)

	authGroup := api.Group("/auth")
	authGroup.Post("/register", s.limiter.Limit("register", 5, 10*time.Minute), s.Register)
	authGroup.Post("/login", s.limiter.Limit("login", 10, 5*time.Minute), s.Login)
	authGroup.Get("/me", requireAuth, s.Me)

	users := api.Group("/users")
	users.Get("/me", requireAuth, s.GetCurrentUser)

	forums := api.Group("/forums")
	forums.Get("/", optionalAuth, s.GetForums)
	forums.Post("/", requireAuth, s.limiter.Limit("create_forum", 10, time.Minute), s.CreateForum)
	// Nested comment routes before the generic /:id routes.
	forums.Get("/:forumId/comments", optionalAuth, s.GetComments)
	forums.Post("/:forumId/comments", requireAuth, s.limiter.Limit("create_comment", 30, time.Minute), s.CreateComment)
	forums.Get("/:id", optionalAuth, s.GetForum)
	forums.Put("/:id", requireAuth, s.UpdateForum)
	forums.Delete("/:id", requireAuth, s.DeleteForum)

	api.Delete("/comments/:id", requireAuth, s.DeleteComment)

	api.Get("/feature-flags", optionalAuth, s.GetFeatureFlags)
	api.Get("/feed/ws", middleware.WebSocketAuthRequired(s.authenticator), s.FeedUpgrade, s.FeedHandler())
}

// Start wires the feed to Redis and serves on the configured port until Shutdown.
func (s *Server) Start() error {
	app := s.App()

	if s.notifier.Enabled() {
		if err := s.hub.StartWiring(s.shutdownCtx, s.notifier); err != nil {
			middleware.Logger.Warn("live feed subscriber unavailable, delivering locally",
				slog.String("error", err.Error()))
			s.events = notifications.NewPublisher(s.hub, nil)
		}
	}

	middleware.Logger.Info("server starting", slog.String("port", s.config.Port))
	return app.Listen(":" + s.config.Port)
}

// Shutdown stops accepting requests and closes feed connections.
// The datastore and Redis handles belong to the caller.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	var errs []error
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
		}
	}
	if err := s.hub.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown %s: %w", s.hub.Name(), err))
	}

	middleware.Logger.Info("server shutdown complete")
	return errors.Join(errs...)
}
