package router

import (
	"log/slog"

	"github.com/anonto42/pulse/backend/internal/cache"
	"github.com/anonto42/pulse/backend/internal/handlers"
	"github.com/anonto42/pulse/backend/internal/metrics"
	"github.com/anonto42/pulse/backend/internal/middleware"
	"github.com/anonto42/pulse/backend/internal/notify"
	"github.com/anonto42/pulse/backend/internal/repositories"
	"github.com/anonto42/pulse/backend/internal/services"
	"github.com/anonto42/pulse/backend/internal/validators"
	"github.com/anonto42/pulse/backend/pkg/config"
	"github.com/labstack/echo/v4"
)

// Deps are the services the routes dispatch to.
type Deps struct {
	Profiles      handlers.ProfileService
	Posts         handlers.PostService
	Comments      handlers.CommentService
	Notifications handlers.NotificationService
	Checks        map[string]handlers.Check
}

// NewDeps builds repositories, the notification fanout and the services over
// the open stores. unread may be nil, which disables the unread-count cache.
func NewDeps(cfg *config.Config, db *config.DB, unread *cache.RedisCache, log *slog.Logger) Deps {
	profileRepo := repositories.NewPostgresProfileRepository(db.Postgres)
	postRepo := repositories.NewMongoPostRepository(db.MongoDB, cfg.PostTTL)
	commentRepo := repositories.NewPostgresCommentRepository(db.Postgres)
	notificationRepo := repositories.NewPostgresNotificationRepository(db.Postgres)

	var unreadCache services.UnreadCache
	if unread != nil {
		unreadCache = unread
	}

	clock := services.RealClock{}
	notificationService := services.NewNotificationService(notificationRepo, unreadCache, log)
	fanout := notify.NewFanout(notificationService, log, cfg.NotifyTimeout).WithClock(clock.Now)

	return Deps{
		Profiles:      services.NewProfileService(profileRepo, postRepo, log),
		Posts:         services.NewPostService(postRepo, commentRepo, notificationRepo, unreadCache, fanout, clock, log),
		Comments:      services.NewCommentService(postRepo, commentRepo, fanout, clock, log),
		Notifications: notificationService,
		Checks: map[string]handlers.Check{
			"postgres": db.PingPostgres,
			"mongo":    db.PingMongo,
		},
	}
}

// New returns an Echo instance with middleware and every route installed.
func New(cfg *config.Config, deps Deps, log *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validators.NewValidator()

	SetupMiddleware(e, log)
	SetupRoutes(e, cfg, deps)
	return e
}

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo, log *slog.Logger) {
	config.SetupMiddleware(e, log)
	e.Use(metrics.Middleware())
}

// SetupRoutes configures all application routes
func SetupRoutes(e *echo.Echo, cfg *config.Config, deps Deps) {
	e.GET("/health", handlers.NewHealthHandler(deps.Checks).HealthCheck)

	requireAuth := middleware.JWTAuthMiddleware(cfg.JWTSecret)
	optionalAuth := middleware.OptionalJWTAuth(cfg.JWTSecret)

	api := e.Group("/api")

	handlers.NewAuthHandler(deps.Profiles, cfg.JWTSecret, cfg.TokenTTL).RegisterAuthRoutes(api.Group("/auth"))
	handlers.NewProfileHandler(deps.Profiles).RegisterProfileRoutes(api, requireAuth, optionalAuth)
	handlers.NewPostHandler(deps.Posts).RegisterPostRoutes(api, requireAuth)
	handlers.NewLikeHandler(deps.Posts).RegisterLikeRoutes(api, requireAuth)
	handlers.NewCommentHandler(deps.Comments).RegisterCommentRoutes(api, requireAuth)
	handlers.NewNotificationHandler(deps.Notifications).RegisterNotificationRoutes(api, requireAuth)
}
