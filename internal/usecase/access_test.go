package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/mahesh553/Resumefinal-sub000/internal/core/domain"
)

func newAccessFixture(t *testing.T) (*AccessService, *storeState) {
	t.Helper()
	state := newStoreState()
	service := NewAccessService(
		&fakeUserRepo{state: state},
		&fakeRoleRepo{state: state},
		&fakePermissionRepo{state: state},
		zaptest.NewLogger(t),
	)
	return service, state
}

func seedRoleWithPermissions(state *storeState, roleID string, pairs ...[2]string) {
	state.mu.Lock()
	defer state.mu.Unlock()
	state.roles[roleID] = domain.Role{ID: roleID, Name: roleID, IsActive: true}
	links := make(map[string]struct{}, len(pairs))
	for i, pair := range pairs {
		permID := roleID + "-perm-" + string(rune('a'+i))
		state.permissions[permID] = domain.Permission{
			ID:       permID,
			Action:   domain.Action(pair[0]),
			Resource: domain.Resource(pair[1]),
			IsActive: true,
		}
		links[permID] = struct{}{}
	}
	state.rolePermissions[roleID] = links
}

func requirePermission(action domain.Action, resource domain.Resource) domain.RequiredPermission {
	return domain.RequiredPermission{Action: action, Resource: resource}
}

func TestCheckPermissionManageSubsumesActionsOnSameResource(t *testing.T) {
	service, state := newAccessFixture(t)
	seedRoleWithPermissions(state, "manager", [2]string{"manage", "resume"})
	roleID := "manager"
	state.addUser(domain.User{ID: "user-1", LegacyRole: domain.LegacyRoleUser, RoleID: &roleID, IsActive: true})

	for _, action := range []domain.Action{domain.ActionCreate, domain.ActionRead, domain.ActionUpdate, domain.ActionDelete, domain.ActionExecute, domain.ActionManage} {
		decision, err := service.CheckPermission(context.Background(), "user-1", requirePermission(action, domain.ResourceResume), nil)
		if err != nil {
			t.Fatalf("check %s:resume: %v", action, err)
		}
		if !decision.Granted {
			t.Fatalf("expected manage:resume to grant %s:resume, reason %q", action, decision.Reason)
		}
	}

	decision, err := service.CheckPermission(context.Background(), "user-1", requirePermission(domain.ActionRead, domain.ResourceBilling), nil)
	if err != nil {
		t.Fatalf("check read:billing: %v", err)
	}
	if decision.Granted {
		t.Fatal("manage:resume must not grant anything on billing")
	}
	if !strings.Contains(decision.Reason, "read:billing") {
		t.Fatalf("expected reason to name read:billing, got %q", decision.Reason)
	}
}

func TestCheckPermissionDeniesInactiveAndMissingUsers(t *testing.T) {
	service, state := newAccessFixture(t)
	state.addUser(domain.User{ID: "dormant", LegacyRole: domain.LegacyRoleAdmin, IsActive: false})

	for _, userID := range []string{"dormant", "ghost", ""} {
		decision, err := service.CheckPermission(context.Background(), userID, requirePermission(domain.ActionRead, domain.ResourceUser), nil)
		if err != nil {
			t.Fatalf("check for %q: %v", userID, err)
		}
		if decision.Granted {
			t.Fatalf("expected denial for %q", userID)
		}
		if decision.Reason != "user not found or inactive" {
			t.Fatalf("unexpected reason %q", decision.Reason)
		}
	}
}

func TestCheckPermissionValidatesEnumerations(t *testing.T) {
	service, state := newAccessFixture(t)
	state.addUser(domain.User{ID: "user-1", IsActive: true})

	if _, err := service.CheckPermission(context.Background(), "user-1", domain.RequiredPermission{
		Action:   domain.Action("fly"),
		Resource: domain.ResourceUser,
	}, nil); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction, got %v", err)
	}

	if _, err := service.CheckPermission(context.Background(), "user-1", domain.RequiredPermission{
		Action:   domain.ActionRead,
		Resource: domain.Resource("moon"),
	}, nil); !errors.Is(err, ErrInvalidResource) {
		t.Fatalf("expected ErrInvalidResource, got %v", err)
	}
}

func TestCheckPermissionLegacyFallback(t *testing.T) {
	service, state := newAccessFixture(t)
	state.addUser(domain.User{ID: "legacy-admin", LegacyRole: domain.LegacyRoleAdmin, IsActive: true})
	state.addUser(domain.User{ID: "legacy-user", LegacyRole: domain.LegacyRoleUser, IsActive: true})

	decision, err := service.CheckPermission(context.Background(), "legacy-admin", requirePermission(domain.ActionDelete, domain.ResourceBilling), nil)
	if err != nil {
		t.Fatalf("check legacy admin: %v", err)
	}
	if !decision.Granted || decision.Reason != "legacy admin access" {
		t.Fatalf("expected legacy admin grant, got %+v", decision)
	}

	decision, err = service.CheckPermission(context.Background(), "legacy-user", requirePermission(domain.ActionRead, domain.ResourceResume), nil)
	if err != nil {
		t.Fatalf("check legacy user: %v", err)
	}
	if decision.Granted {
		t.Fatal("legacy user must not be granted anything")
	}
	if decision.Reason != "Missing permission: read:resume" {
		t.Fatalf("unexpected reason %q", decision.Reason)
	}
}

func TestCheckPermissionDanglingRoleDegradesToLegacy(t *testing.T) {
	service, state := newAccessFixture(t)
	roleID := "deleted-role"
	state.addUser(domain.User{ID: "user-1", LegacyRole: domain.LegacyRoleAdmin, RoleID: &roleID, IsActive: true})

	decision, err := service.CheckPermission(context.Background(), "user-1", requirePermission(domain.ActionRead, domain.ResourceUser), nil)
	if err != nil {
		t.Fatalf("check with dangling role: %v", err)
	}
	if !decision.Granted || decision.Reason != "legacy admin access" {
		t.Fatalf("expected legacy admin fallback, got %+v", decision)
	}
}

func TestCheckPermissionInactiveRoleDegradesToLegacy(t *testing.T) {
	service, state := newAccessFixture(t)
	state.mu.Lock()
	state.roles["paused"] = domain.Role{ID: "paused", Name: "paused", IsActive: false}
	state.mu.Unlock()
	roleID := "paused"
	state.addUser(domain.User{ID: "user-1", LegacyRole: domain.LegacyRoleUser, RoleID: &roleID, IsActive: true})

	decision, err := service.CheckPermission(context.Background(), "user-1", requirePermission(domain.ActionRead, domain.ResourceUser), nil)
	if err != nil {
		t.Fatalf("check with inactive role: %v", err)
	}
	if decision.Granted {
		t.Fatal("inactive role must not contribute permissions")
	}
}

func TestCheckPermissionIgnoresInactivePermissions(t *testing.T) {
	service, state := newAccessFixture(t)
	state.mu.Lock()
	state.roles["viewer"] = domain.Role{ID: "viewer", Name: "viewer", IsActive: true}
	state.permissions["perm-1"] = domain.Permission{
		ID:       "perm-1",
		Action:   domain.ActionRead,
		Resource: domain.ResourceReports,
		IsActive: false,
	}
	state.rolePermissions["viewer"] = map[string]struct{}{"perm-1": {}}
	state.mu.Unlock()
	roleID := "viewer"
	state.addUser(domain.User{ID: "user-1", LegacyRole: domain.LegacyRoleUser, RoleID: &roleID, IsActive: true})

	decision, err := service.CheckPermission(context.Background(), "user-1", requirePermission(domain.ActionRead, domain.ResourceReports), nil)
	if err != nil {
		t.Fatalf("check with inactive permission: %v", err)
	}
	if decision.Granted {
		t.Fatal("inactive permissions must not grant access")
	}
}

func TestCheckPermissionResolvedRoleWithLegacyAdminFallback(t *testing.T) {
	service, state := newAccessFixture(t)
	seedRoleWithPermissions(state, "narrow", [2]string{"read", "resume"})
	roleID := "narrow"
	state.addUser(domain.User{ID: "user-1", LegacyRole: domain.LegacyRoleAdmin, RoleID: &roleID, IsActive: true})

	// The resolved role misses the pair but the flat legacy role still applies.
	decision, err := service.CheckPermission(context.Background(), "user-1", requirePermission(domain.ActionDelete, domain.ResourceBilling), nil)
	if err != nil {
		t.Fatalf("check fallback: %v", err)
	}
	if !decision.Granted || decision.Reason != "legacy admin access" {
		t.Fatalf("expected legacy admin fallback behind resolved role, got %+v", decision)
	}
}
