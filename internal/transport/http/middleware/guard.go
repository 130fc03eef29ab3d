package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mahesh553/Resumefinal-sub000/internal/core/domain"
)

// PermissionChecker evaluates a single permission for a user.
type PermissionChecker interface {
	CheckPermission(ctx context.Context, userID string, required domain.RequiredPermission, checkCtx *domain.CheckContext) (domain.Decision, error)
}

// Requirement declares the permissions a protected operation needs. It is
// attached explicitly at route registration; an empty permission list allows
// unconditionally.
type Requirement struct {
	Permissions []domain.RequiredPermission
	Operator    domain.Operator
}

// Require builds an AND requirement over the given pairs.
func Require(permissions ...domain.RequiredPermission) Requirement {
	return Requirement{Permissions: permissions, Operator: domain.OperatorAnd}
}

// RequireAny builds an OR requirement over the given pairs.
func RequireAny(permissions ...domain.RequiredPermission) Requirement {
	return Requirement{Permissions: permissions, Operator: domain.OperatorOr}
}

// Expression renders the requirement as "a:r AND b:s" for error messages.
func (r Requirement) Expression() string {
	keys := make([]string, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		keys = append(keys, p.Key())
	}

	operator := r.Operator
	if operator != domain.OperatorOr {
		operator = domain.OperatorAnd
	}

	return strings.Join(keys, " "+string(operator)+" ")
}

// Guard evaluates declarative permission requirements before handlers run.
// Evaluator errors never propagate raw; every failure path ends in Forbidden.
type Guard struct {
	checker PermissionChecker
	logger  *zap.Logger
}

// NewGuard constructs a Guard over the permission checker.
func NewGuard(checker PermissionChecker, logger *zap.Logger) *Guard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guard{checker: checker, logger: logger}
}

// RequirePermissions returns middleware enforcing the requirement. AND needs
// every pair granted, OR needs at least one.
func (g *Guard) RequirePermissions(requirement Requirement) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(requirement.Permissions) == 0 {
			c.Next()
			return
		}

		principal, ok := GetPrincipal(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "authentication required"))
			return
		}

		granted, failed := g.evaluate(c, principal.ID, requirement)
		if failed {
			c.AbortWithStatusJSON(http.StatusForbidden,
				newErrorResponse(c, "Permission validation failed"))
			return
		}

		if !granted {
			c.AbortWithStatusJSON(http.StatusForbidden,
				newErrorResponse(c, "Missing required permissions: "+requirement.Expression()))
			return
		}

		c.Next()
	}
}

// AdminOnly enforces the fixed admin-panel read requirement.
func (g *Guard) AdminOnly() gin.HandlerFunc {
	return g.RequirePermissions(Require(domain.RequiredPermission{
		Action:   domain.ActionRead,
		Resource: domain.ResourceAdminPanel,
	}))
}

// evaluate runs the checker once per declared pair and combines per the
// operator. The failed flag reports an internal evaluator failure, which the
// caller converts to Forbidden rather than surfacing the cause.
func (g *Guard) evaluate(c *gin.Context, userID string, requirement Requirement) (granted bool, failed bool) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("permission evaluation panicked",
				zap.String("user_id", userID),
				zap.String("requirement", requirement.Expression()),
				zap.Any("panic", r),
			)
			granted = false
			failed = true
		}
	}()

	checkCtx := &domain.CheckContext{
		IP:   c.ClientIP(),
		Path: c.Request.URL.Path,
	}

	switch requirement.Operator {
	case domain.OperatorOr:
		for _, required := range requirement.Permissions {
			decision, err := g.checker.CheckPermission(c.Request.Context(), userID, required, checkCtx)
			if err != nil {
				g.logger.Error("permission evaluation failed",
					zap.String("user_id", userID),
					zap.String("required", required.Key()),
					zap.Error(err),
				)
				return false, true
			}
			if decision.Granted {
				return true, false
			}
		}
		return false, false
	default:
		for _, required := range requirement.Permissions {
			decision, err := g.checker.CheckPermission(c.Request.Context(), userID, required, checkCtx)
			if err != nil {
				g.logger.Error("permission evaluation failed",
					zap.String("user_id", userID),
					zap.String("required", required.Key()),
					zap.Error(err),
				)
				return false, true
			}
			if !decision.Granted {
				return false, false
			}
		}
		return true, false
	}
}

// ownershipResources maps path segments to the resource they represent.
var ownershipResources = map[string]domain.Resource{
	"resumes":          domain.ResourceResume,
	"job-applications": domain.ResourceJobApplication,
	"users":            domain.ResourceUser,
}

// RequireOwnership derives a resource type from the request path and allows
// callers holding manage on it. The true owner comparison is deliberately
// permissive: requests without manage pass through and are logged.
func (g *Guard) RequireOwnership() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "authentication required"))
			return
		}

		resource, ok := ownershipResource(c.Request.URL.Path)
		if !ok {
			c.Next()
			return
		}

		required := domain.RequiredPermission{Action: domain.ActionManage, Resource: resource}
		decision, err := g.checker.CheckPermission(c.Request.Context(), principal.ID, required, &domain.CheckContext{
			IP:   c.ClientIP(),
			Path: c.Request.URL.Path,
		})
		if err == nil && decision.Granted {
			c.Next()
			return
		}

		g.logger.Debug("ownership check passed through without manage permission",
			zap.String("user_id", principal.ID),
			zap.String("resource", string(resource)),
			zap.String("path", c.Request.URL.Path),
		)
		c.Next()
	}
}

func ownershipResource(path string) (domain.Resource, bool) {
	for _, segment := range strings.Split(path, "/") {
		if resource, ok := ownershipResources[segment]; ok {
			return resource, true
		}
	}
	return "", false
}
