package routes

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/levidang306/training-be/internal/infra/config"
	"github.com/levidang306/training-be/internal/transport/http/handlers"
	"github.com/levidang306/training-be/internal/transport/http/middleware"
	"github.com/levidang306/training-be/internal/usecase"
)

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	Access      *usecase.AccessService
	TokenParser middleware.TokenParser
	RateLimiter *middleware.RateLimiter
	Metrics     *middleware.HTTPMetrics
	Database    DatabaseChecker
	Cache       CacheChecker
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for cache backends.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))

	if deps.Config.Telemetry.Enabled {
		r.Use(otelgin.Middleware(deps.Config.App.Name))
	}

	if len(deps.Config.App.AllowedOrigins) > 0 {
		r.Use(middleware.CORS(deps.Config.App.AllowedOrigins))
	}

	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	healthOptions := make([]handlers.HealthOption, 0, 2)

	if deps.Database != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("database", deps.Database.Ping))
	}

	if deps.Cache != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("redis", deps.Cache.HealthCheck))
	}

	healthHandler := handlers.NewHealthHandler(healthOptions...)

	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Readiness)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authMiddleware := middleware.RequireAuth(deps.TokenParser)

	accessHandler := handlers.NewAccessHandler(deps.Access, deps.Logger)
	roleHandler := handlers.NewRoleHandler(deps.Access, deps.Logger)
	permissionHandler := handlers.NewPermissionHandler(deps.Access, deps.Logger)

	api := r.Group("/api/v1")
	api.Use(authMiddleware)
	{
		catalogPolicy := middleware.AccessPolicy{Permissions: []string{"roles:read"}}
		api.GET("/roles", middleware.RequireAccess(deps.Access, deps.Logger, catalogPolicy), roleHandler.List)
		api.GET("/permissions", middleware.RequireAccess(deps.Access, deps.Logger, catalogPolicy), permissionHandler.List)

		users := api.Group("/users")

		// Users may inspect their own grants; everything else needs users:read.
		readPolicy := middleware.AccessPolicy{
			Permissions: []string{"users:read"},
			OwnerParam:  "id",
		}
		users.GET("/:id/permissions", middleware.RequireAccess(deps.Access, deps.Logger, readPolicy), accessHandler.UserPermissions)
		users.GET("/:id/roles", middleware.RequireAccess(deps.Access, deps.Logger, readPolicy), accessHandler.UserRoles)

		roleChangeMiddlewares := buildRoleChangeMiddlewares(deps)

		assignHandlers := append([]gin.HandlerFunc{}, roleChangeMiddlewares...)
		assignHandlers = append(assignHandlers,
			middleware.RequireAccess(deps.Access, deps.Logger, middleware.AccessPolicy{Permissions: []string{"roles:assign"}}),
			roleHandler.Assign)
		users.POST("/:id/roles", assignHandlers...)

		removeHandlers := append([]gin.HandlerFunc{}, roleChangeMiddlewares...)
		removeHandlers = append(removeHandlers,
			middleware.RequireAccess(deps.Access, deps.Logger, middleware.AccessPolicy{Permissions: []string{"roles:remove"}}),
			roleHandler.Remove)
		users.DELETE("/:id/roles/:name", removeHandlers...)

		checkHandlers := append([]gin.HandlerFunc{}, buildCheckMiddlewares(deps)...)
		checkHandlers = append(checkHandlers,
			middleware.RequireAccess(deps.Access, deps.Logger, middleware.AccessPolicy{Permissions: []string{"roles:read"}}),
			accessHandler.Check)
		api.POST("/access/check", checkHandlers...)
	}

	return r
}

func buildRoleChangeMiddlewares(deps Dependencies) []gin.HandlerFunc {
	return buildRateLimitMiddlewares(deps, "role_change_ip", deps.Config.RateLimit.RoleChangeMaxAttempts, time.Minute)
}

func buildCheckMiddlewares(deps Dependencies) []gin.HandlerFunc {
	return buildRateLimitMiddlewares(deps, "access_check_ip", deps.Config.RateLimit.CheckMaxAttempts, time.Minute)
}

func buildRateLimitMiddlewares(deps Dependencies, name string, limit int, fallbackWindow time.Duration) []gin.HandlerFunc {
	if deps.RateLimiter == nil || deps.Config == nil {
		return nil
	}

	if limit <= 0 {
		return nil
	}

	window := deps.Config.RateLimit.WindowDuration
	if window <= 0 {
		window = fallbackWindow
	}

	rule := middleware.RateLimitRule{
		Name:       name,
		Limit:      limit,
		Window:     window,
		Identifier: middleware.ClientIPIdentifier(),
	}

	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(rule)}
}
