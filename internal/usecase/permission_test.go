package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/mahesh553/Resumefinal-sub000/internal/core/domain"
	"github.com/mahesh553/Resumefinal-sub000/internal/core/port"
)

func TestCreatePermissionRejectsDuplicatePair(t *testing.T) {
	state := newStoreState()
	service := NewPermissionService(&fakePermissionRepo{state: state})

	first, err := service.CreatePermission(context.Background(), CreatePermissionInput{
		Action:   domain.ActionRead,
		Resource: domain.ResourceResume,
	})
	if err != nil {
		t.Fatalf("create permission: %v", err)
	}
	if first.Name != "read:resume" {
		t.Fatalf("expected default name read:resume, got %q", first.Name)
	}
	if !first.IsActive {
		t.Fatal("expected permission to default to active")
	}

	_, err = service.CreatePermission(context.Background(), CreatePermissionInput{
		Action:   domain.ActionRead,
		Resource: domain.ResourceResume,
	})
	if !errors.Is(err, ErrPermissionExists) {
		t.Fatalf("expected ErrPermissionExists, got %v", err)
	}
}

func TestCreatePermissionValidatesEnumerations(t *testing.T) {
	state := newStoreState()
	service := NewPermissionService(&fakePermissionRepo{state: state})

	if _, err := service.CreatePermission(context.Background(), CreatePermissionInput{
		Action:   domain.Action("shred"),
		Resource: domain.ResourceResume,
	}); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction, got %v", err)
	}

	if _, err := service.CreatePermission(context.Background(), CreatePermissionInput{
		Action:   domain.ActionRead,
		Resource: domain.Resource("warp_drive"),
	}); !errors.Is(err, ErrInvalidResource) {
		t.Fatalf("expected ErrInvalidResource, got %v", err)
	}
}

func TestUpdatePermissionAppliesPartialFields(t *testing.T) {
	state := newStoreState()
	service := NewPermissionService(&fakePermissionRepo{state: state})

	created, err := service.CreatePermission(context.Background(), CreatePermissionInput{
		Action:   domain.ActionUpdate,
		Resource: domain.ResourceUser,
	})
	if err != nil {
		t.Fatalf("create permission: %v", err)
	}

	name := "Edit users"
	inactive := false
	updated, err := service.UpdatePermission(context.Background(), created.ID, UpdatePermissionInput{
		Name:     &name,
		IsActive: &inactive,
	})
	if err != nil {
		t.Fatalf("update permission: %v", err)
	}
	if updated.Name != "Edit users" {
		t.Fatalf("expected updated name, got %q", updated.Name)
	}
	if updated.IsActive {
		t.Fatal("expected permission to be deactivated")
	}
	if updated.Action != domain.ActionUpdate || updated.Resource != domain.ResourceUser {
		t.Fatal("action and resource must be immutable on update")
	}
}

func TestUpdatePermissionNotFound(t *testing.T) {
	state := newStoreState()
	service := NewPermissionService(&fakePermissionRepo{state: state})

	_, err := service.UpdatePermission(context.Background(), "missing", UpdatePermissionInput{})
	if !errors.Is(err, ErrPermissionNotFound) {
		t.Fatalf("expected ErrPermissionNotFound, got %v", err)
	}
}

func TestDeletePermissionRemovesRoleLinks(t *testing.T) {
	state := newStoreState()
	permissions := &fakePermissionRepo{state: state}
	service := NewPermissionService(permissions)

	created, err := service.CreatePermission(context.Background(), CreatePermissionInput{
		Action:   domain.ActionDelete,
		Resource: domain.ResourceReports,
	})
	if err != nil {
		t.Fatalf("create permission: %v", err)
	}

	state.mu.Lock()
	state.rolePermissions["role-1"] = map[string]struct{}{created.ID: {}}
	state.mu.Unlock()

	if err := service.DeletePermission(context.Background(), created.ID); err != nil {
		t.Fatalf("delete permission: %v", err)
	}

	remaining, err := permissions.ListByRole(context.Background(), "role-1")
	if err != nil {
		t.Fatalf("list by role: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected role to lose deleted permission, still has %d", len(remaining))
	}

	if err := service.DeletePermission(context.Background(), created.ID); !errors.Is(err, ErrPermissionNotFound) {
		t.Fatalf("expected ErrPermissionNotFound on second delete, got %v", err)
	}
}

func TestListPermissionsAppliesFilter(t *testing.T) {
	state := newStoreState()
	service := NewPermissionService(&fakePermissionRepo{state: state})

	pairs := []struct {
		action   domain.Action
		resource domain.Resource
	}{
		{domain.ActionRead, domain.ResourceResume},
		{domain.ActionManage, domain.ResourceResume},
		{domain.ActionRead, domain.ResourceBilling},
	}
	for _, pair := range pairs {
		if _, err := service.CreatePermission(context.Background(), CreatePermissionInput{
			Action:   pair.action,
			Resource: pair.resource,
		}); err != nil {
			t.Fatalf("create permission %s:%s: %v", pair.action, pair.resource, err)
		}
	}

	resource := domain.ResourceResume
	filtered, err := service.ListPermissions(context.Background(), port.PermissionFilter{Resource: &resource})
	if err != nil {
		t.Fatalf("list permissions: %v", err)
	}
	if len(filtered) != 2 {
		t.Fatalf("expected 2 resume permissions, got %d", len(filtered))
	}
	for _, p := range filtered {
		if p.Resource != domain.ResourceResume {
			t.Fatalf("unexpected resource %q in filtered listing", p.Resource)
		}
	}
}
