package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap/zaptest"

	"github.com/mahesh553/Resumefinal-sub000/internal/core/domain"
)

type fakeChecker struct {
	granted map[string]bool
	err     error
	panics  bool
}

func (f *fakeChecker) CheckPermission(_ context.Context, _ string, required domain.RequiredPermission, _ *domain.CheckContext) (domain.Decision, error) {
	if f.panics {
		panic("checker exploded")
	}
	if f.err != nil {
		return domain.Decision{}, f.err
	}
	if f.granted[required.Key()] {
		return domain.Decision{Granted: true}, nil
	}
	return domain.Decision{Granted: false, Reason: "Missing permission: " + required.Key()}, nil
}

func guardRouter(t *testing.T, checker PermissionChecker, requirement Requirement, authenticated bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	guard := NewGuard(checker, zaptest.NewLogger(t))

	router := gin.New()
	if authenticated {
		router.Use(func(c *gin.Context) {
			c.Set(principalKey, &domain.Principal{ID: "user-1", Role: domain.LegacyRoleUser})
			c.Next()
		})
	}
	router.Use(guard.RequirePermissions(requirement))
	router.GET("/", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	return router
}

func TestGuardAndRequiresEveryPermission(t *testing.T) {
	checker := &fakeChecker{granted: map[string]bool{"read:resume": true}}

	requirement := Require(
		domain.RequiredPermission{Action: domain.ActionRead, Resource: domain.ResourceUser},
		domain.RequiredPermission{Action: domain.ActionRead, Resource: domain.ResourceResume},
	)

	router := guardRouter(t, checker, requirement, true)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}

	if !strings.Contains(rr.Body.String(), "read:user AND read:resume") {
		t.Fatalf("expected requirement expression in body, got %s", rr.Body.String())
	}
}

func TestGuardOrRequiresAnyPermission(t *testing.T) {
	checker := &fakeChecker{granted: map[string]bool{"read:resume": true}}

	requirement := RequireAny(
		domain.RequiredPermission{Action: domain.ActionRead, Resource: domain.ResourceUser},
		domain.RequiredPermission{Action: domain.ActionRead, Resource: domain.ResourceResume},
	)

	router := guardRouter(t, checker, requirement, true)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestGuardUnauthenticatedRejectedBeforeEvaluation(t *testing.T) {
	checker := &fakeChecker{granted: map[string]bool{"read:user": true}}

	requirement := Require(domain.RequiredPermission{Action: domain.ActionRead, Resource: domain.ResourceUser})

	router := guardRouter(t, checker, requirement, false)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestGuardEmptyRequirementAllows(t *testing.T) {
	router := guardRouter(t, &fakeChecker{}, Requirement{}, false)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestGuardConvertsCheckerErrorToForbidden(t *testing.T) {
	checker := &fakeChecker{err: errors.New("store unavailable")}

	requirement := Require(domain.RequiredPermission{Action: domain.ActionRead, Resource: domain.ResourceUser})

	router := guardRouter(t, checker, requirement, true)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}

	if !strings.Contains(rr.Body.String(), "Permission validation failed") {
		t.Fatalf("expected containment message, got %s", rr.Body.String())
	}
}

func TestGuardContainsCheckerPanic(t *testing.T) {
	checker := &fakeChecker{panics: true}

	requirement := Require(domain.RequiredPermission{Action: domain.ActionRead, Resource: domain.ResourceUser})

	router := guardRouter(t, checker, requirement, true)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}

	if !strings.Contains(rr.Body.String(), "Permission validation failed") {
		t.Fatalf("expected containment message, got %s", rr.Body.String())
	}
}

func TestGuardAdminOnly(t *testing.T) {
	checker := &fakeChecker{granted: map[string]bool{"read:admin_panel": true}}

	gin.SetMode(gin.TestMode)
	guard := NewGuard(checker, zaptest.NewLogger(t))

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(principalKey, &domain.Principal{ID: "admin-1", Role: domain.LegacyRoleAdmin})
		c.Next()
	})
	router.Use(guard.AdminOnly())
	router.GET("/", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestGuardOwnershipAllowsWithManage(t *testing.T) {
	checker := &fakeChecker{granted: map[string]bool{"manage:resume": true}}

	gin.SetMode(gin.TestMode)
	guard := NewGuard(checker, zaptest.NewLogger(t))

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(principalKey, &domain.Principal{ID: "user-1"})
		c.Next()
	})
	router.Use(guard.RequireOwnership())
	router.GET("/api/v1/resumes/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/resumes/42", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestGuardOwnershipPermissiveWithoutManage(t *testing.T) {
	checker := &fakeChecker{granted: map[string]bool{}}

	gin.SetMode(gin.TestMode)
	guard := NewGuard(checker, zaptest.NewLogger(t))

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(principalKey, &domain.Principal{ID: "user-1"})
		c.Next()
	})
	router.Use(guard.RequireOwnership())
	router.GET("/api/v1/resumes/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/resumes/42", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected pass-through 200, got %d", rr.Code)
	}
}
