package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mahesh553/Resumefinal-sub000/internal/core/domain"
	"github.com/mahesh553/Resumefinal-sub000/internal/infra/config"
	"github.com/mahesh553/Resumefinal-sub000/internal/infra/security"
	"github.com/mahesh553/Resumefinal-sub000/internal/transport/http/handlers"
	"github.com/mahesh553/Resumefinal-sub000/internal/transport/http/middleware"
	"github.com/mahesh553/Resumefinal-sub000/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Permissions *usecase.PermissionService
	Roles       *usecase.RoleService
	Assignments *usecase.AssignmentService
	Access      *usecase.AccessService
	Bulk        *usecase.BulkService
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config        *config.AppConfig
	Logger        *zap.Logger
	RateLimiter   *middleware.RateLimiter
	Services      ServiceSet
	TokenVerifier *security.TokenVerifier
	Metrics       *middleware.HTTPMetrics
	Database      DatabaseChecker
	Cache         CacheChecker
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for cache backends.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// Register configures the Gin engine with routes and middleware. Permission
// requirements live here, at registration time; handlers never inspect them.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))

	if len(deps.Config.App.CORSAllowedOrigins) > 0 {
		r.Use(middleware.CORS(deps.Config.App.CORSAllowedOrigins))
	}

	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	authMiddleware := middleware.RequireAuth(deps.TokenVerifier)
	guard := middleware.NewGuard(deps.Services.Access, deps.Logger)

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

	manageSystemSettings := middleware.Require(domain.RequiredPermission{
		Action:   domain.ActionManage,
		Resource: domain.ResourceSystemSettings,
	})
	readSystemSettings := middleware.Require(domain.RequiredPermission{
		Action:   domain.ActionRead,
		Resource: domain.ResourceSystemSettings,
	})
	manageUserManagement := middleware.Require(domain.RequiredPermission{
		Action:   domain.ActionManage,
		Resource: domain.ResourceUserManagement,
	})
	readUserManagement := middleware.Require(domain.RequiredPermission{
		Action:   domain.ActionRead,
		Resource: domain.ResourceUserManagement,
	})

	api := r.Group("/api/v1")
	api.Use(authMiddleware)
	{
		permissionHandler := handlers.NewPermissionHandler(deps.Services.Permissions)

		permissionGroup := api.Group("/permissions")
		permissionGroup.POST("", guard.RequirePermissions(manageSystemSettings), permissionHandler.Create)
		permissionGroup.GET("", guard.RequirePermissions(readSystemSettings), permissionHandler.List)
		permissionGroup.PATCH("/:id", guard.RequirePermissions(manageSystemSettings), permissionHandler.Update)
		permissionGroup.DELETE("/:id", guard.RequirePermissions(manageSystemSettings), permissionHandler.Delete)

		roleHandler := handlers.NewRoleHandler(deps.Services.Roles, deps.Services.Assignments)

		roleGroup := api.Group("/roles")
		roleGroup.POST("", guard.RequirePermissions(manageUserManagement), roleHandler.Create)
		roleGroup.GET("", guard.RequirePermissions(readUserManagement), roleHandler.List)
		roleGroup.GET("/:id", guard.RequirePermissions(readUserManagement), roleHandler.Get)
		roleGroup.PATCH("/:id", guard.RequirePermissions(manageUserManagement), roleHandler.Update)
		roleGroup.DELETE("/:id", guard.RequirePermissions(manageUserManagement), roleHandler.Delete)
		roleGroup.PUT("/:id/permissions", guard.RequirePermissions(manageUserManagement), roleHandler.UpdatePermissions)

		userGroup := api.Group("/users")
		userGroup.Use(guard.RequirePermissions(manageUserManagement))
		userGroup.PUT("/:id/role", roleHandler.AssignRole)
		userGroup.DELETE("/:id/role", roleHandler.RemoveRole)

		accessHandler := handlers.NewAccessHandler(deps.Services.Access, deps.Services.Bulk)

		checkHandlers := buildCheckMiddlewares(deps)
		checkHandlers = append(checkHandlers, accessHandler.Check)
		api.POST("/access/check", checkHandlers...)

		bulkHandlers := buildBulkMiddlewares(deps)
		bulkHandlers = append(bulkHandlers, guard.RequirePermissions(manageUserManagement), accessHandler.Bulk)
		api.POST("/access/bulk", bulkHandlers...)

		adminGroup := api.Group("/admin")
		if adminMiddlewares := buildAdminMiddlewares(deps); len(adminMiddlewares) > 0 {
			adminGroup.Use(adminMiddlewares...)
		}
		adminGroup.Use(guard.AdminOnly())
		adminGroup.GET("/overview", func(c *gin.Context) {
			c.JSON(http.StatusOK, handlers.MessageResponse{Message: "admin access granted"})
		})
	}

	return r
}

func buildCheckMiddlewares(deps Dependencies) []gin.HandlerFunc {
	if deps.RateLimiter == nil || deps.Config == nil {
		return nil
	}

	limit := deps.Config.RateLimit.CheckMaxAttempts
	if limit <= 0 {
		return nil
	}

	window := deps.Config.RateLimit.WindowDuration
	if window <= 0 {
		window = time.Minute
	}

	rule := middleware.RateLimitRule{
		Name:       "access_check",
		Limit:      limit,
		Window:     window,
		Identifier: middleware.AuthenticatedUserIdentifier(),
	}

	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(rule)}
}

func buildAdminMiddlewares(deps Dependencies) []gin.HandlerFunc {
	if deps.RateLimiter == nil || deps.Config == nil {
		return nil
	}

	limit := deps.Config.RateLimit.AdminMaxAttempts
	if limit <= 0 {
		return nil
	}

	window := deps.Config.RateLimit.WindowDuration
	if window <= 0 {
		window = time.Minute
	}

	rule := middleware.RateLimitRule{
		Name:       "admin",
		Limit:      limit,
		Window:     window,
		Identifier: middleware.AuthenticatedUserIdentifier(),
	}

	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(rule)}
}

func buildBulkMiddlewares(deps Dependencies) []gin.HandlerFunc {
	if deps.RateLimiter == nil || deps.Config == nil {
		return nil
	}

	limit := deps.Config.RateLimit.BulkMaxAttempts
	if limit <= 0 {
		return nil
	}

	window := deps.Config.RateLimit.WindowDuration
	if window <= 0 {
		window = time.Minute
	}

	rule := middleware.RateLimitRule{
		Name:       "access_bulk",
		Limit:      limit,
		Window:     window,
		Identifier: middleware.AuthenticatedUserIdentifier(),
	}

	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(rule)}
}
