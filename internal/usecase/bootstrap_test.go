package usecase

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/mahesh553/Resumefinal-sub000/internal/core/domain"
)

func newBootstrapFixture(t *testing.T) (*BootstrapService, *storeState) {
	t.Helper()
	state := newStoreState()
	service := NewBootstrapService(
		&fakeRoleRepo{state: state},
		&fakePermissionRepo{state: state},
		zaptest.NewLogger(t),
	)
	return service, state
}

func TestSeedPermissionsIsIdempotent(t *testing.T) {
	service, state := newBootstrapFixture(t)

	expected := len(domain.Actions) * len(domain.Resources)
	created, err := service.SeedPermissions(context.Background())
	if err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if created != expected {
		t.Fatalf("expected %d permissions created, got %d", expected, created)
	}

	created, err = service.SeedPermissions(context.Background())
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if created != 0 {
		t.Fatalf("expected second seed to create nothing, got %d", created)
	}

	state.mu.Lock()
	total := len(state.permissions)
	state.mu.Unlock()
	if total != expected {
		t.Fatalf("expected %d catalog entries, got %d", expected, total)
	}
}

func TestInitializeSystemRolesIsIdempotent(t *testing.T) {
	service, state := newBootstrapFixture(t)

	created, err := service.InitializeSystemRoles(context.Background())
	if err != nil {
		t.Fatalf("first init: %v", err)
	}
	if created != 5 {
		t.Fatalf("expected 5 system roles, got %d", created)
	}

	created, err = service.InitializeSystemRoles(context.Background())
	if err != nil {
		t.Fatalf("second init: %v", err)
	}
	if created != 0 {
		t.Fatalf("expected second init to create nothing, got %d", created)
	}

	state.mu.Lock()
	defer state.mu.Unlock()
	var defaultRole *domain.Role
	for _, role := range state.roles {
		if !role.IsSystemRole {
			t.Fatalf("bootstrap created non-system role %q", role.Name)
		}
		if role.IsDefault {
			copied := role
			defaultRole = &copied
		}
	}
	if defaultRole == nil || defaultRole.Name != "user" {
		t.Fatal("expected the user role to be the default")
	}
}

func TestBootstrapAssignCheckFlow(t *testing.T) {
	state := newStoreState()
	logger := zaptest.NewLogger(t)
	users := &fakeUserRepo{state: state}
	roles := &fakeRoleRepo{state: state}
	permissions := &fakePermissionRepo{state: state}

	bootstrap := NewBootstrapService(roles, permissions, logger)
	if _, err := bootstrap.SeedPermissions(context.Background()); err != nil {
		t.Fatalf("seed permissions: %v", err)
	}
	if _, err := bootstrap.InitializeSystemRoles(context.Background()); err != nil {
		t.Fatalf("init system roles: %v", err)
	}

	adminRole, err := roles.GetByName(context.Background(), "admin")
	if err != nil {
		t.Fatalf("lookup admin role: %v", err)
	}

	// Give the admin role manage on user_management, mirroring an operator
	// configuring the registry after bootstrap.
	managePerm, err := permissions.GetByActionResource(context.Background(), domain.ActionManage, domain.ResourceUserManagement)
	if err != nil {
		t.Fatalf("lookup manage:user_management: %v", err)
	}
	roleService := NewRoleService(roles, permissions, &recordingPublisher{}, logger)
	if _, err := roleService.UpdateRolePermissions(context.Background(), "operator", adminRole.ID, []string{managePerm.ID}, PermissionSetReplace); err != nil {
		t.Fatalf("attach permission: %v", err)
	}

	state.addUser(domain.User{ID: "user-1", LegacyRole: domain.LegacyRoleUser, IsActive: true})
	assignments := NewAssignmentService(users, roles, &recordingPublisher{}, logger)
	if err := assignments.AssignRole(context.Background(), "operator", AssignRoleInput{UserID: "user-1", RoleID: adminRole.ID}); err != nil {
		t.Fatalf("assign admin role: %v", err)
	}

	access := NewAccessService(users, roles, permissions, logger)

	decision, err := access.CheckPermission(context.Background(), "user-1", domain.RequiredPermission{
		Action:   domain.ActionRead,
		Resource: domain.ResourceUserManagement,
	}, nil)
	if err != nil {
		t.Fatalf("check read:user_management: %v", err)
	}
	if !decision.Granted {
		t.Fatalf("expected grant via manage hierarchy, reason %q", decision.Reason)
	}

	decision, err = access.CheckPermission(context.Background(), "user-1", domain.RequiredPermission{
		Action:   domain.ActionDelete,
		Resource: domain.ResourceBilling,
	}, nil)
	if err != nil {
		t.Fatalf("check delete:billing: %v", err)
	}
	if decision.Granted {
		t.Fatal("manage:user_management must not grant billing access")
	}
	if !strings.Contains(decision.Reason, "delete:billing") {
		t.Fatalf("expected reason to name delete:billing, got %q", decision.Reason)
	}
}
