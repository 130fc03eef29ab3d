package usecase

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/mahesh553/Resumefinal-sub000/internal/core/domain"
)

func newAssignmentFixture(t *testing.T) (*AssignmentService, *storeState, *recordingPublisher) {
	t.Helper()
	state := newStoreState()
	publisher := &recordingPublisher{}
	service := NewAssignmentService(
		&fakeUserRepo{state: state},
		&fakeRoleRepo{state: state},
		publisher,
		zaptest.NewLogger(t),
	)
	return service, state, publisher
}

func TestAssignRoleOverwritesPriorAssignment(t *testing.T) {
	service, state, publisher := newAssignmentFixture(t)
	state.addUser(domain.User{ID: "user-1", IsActive: true})
	state.mu.Lock()
	state.roles["role-a"] = domain.Role{ID: "role-a", Name: "moderator", IsActive: true}
	state.roles["role-b"] = domain.Role{ID: "role-b", Name: "support", IsActive: true}
	state.mu.Unlock()

	if err := service.AssignRole(context.Background(), "actor-1", AssignRoleInput{UserID: "user-1", RoleID: "role-a"}); err != nil {
		t.Fatalf("first assignment: %v", err)
	}
	if err := service.AssignRole(context.Background(), "actor-1", AssignRoleInput{UserID: "user-1", RoleID: "role-b"}); err != nil {
		t.Fatalf("second assignment: %v", err)
	}

	state.mu.Lock()
	user := state.users["user-1"]
	state.mu.Unlock()
	if user.RoleID == nil || *user.RoleID != "role-b" {
		t.Fatalf("expected last write to win, got %v", user.RoleID)
	}

	publisher.mu.Lock()
	defer publisher.mu.Unlock()
	if len(publisher.assigned) != 2 {
		t.Fatalf("expected 2 assigned events, got %d", len(publisher.assigned))
	}
	if publisher.assigned[1].RoleName != "support" || publisher.assigned[1].AssignedBy != "actor-1" {
		t.Fatalf("unexpected event payload: %+v", publisher.assigned[1])
	}
}

func TestAssignRoleUnknownTargets(t *testing.T) {
	service, state, _ := newAssignmentFixture(t)
	state.addUser(domain.User{ID: "user-1", IsActive: true})

	if err := service.AssignRole(context.Background(), "actor-1", AssignRoleInput{UserID: "ghost", RoleID: "role-a"}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if err := service.AssignRole(context.Background(), "actor-1", AssignRoleInput{UserID: "user-1", RoleID: "ghost"}); !errors.Is(err, ErrRoleNotFound) {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}
}

func TestRemoveRoleRevertsToLegacyEvaluation(t *testing.T) {
	service, state, publisher := newAssignmentFixture(t)
	roleID := "role-a"
	state.addUser(domain.User{ID: "user-1", LegacyRole: domain.LegacyRoleUser, RoleID: &roleID, IsActive: true})
	state.mu.Lock()
	state.roles[roleID] = domain.Role{ID: roleID, Name: "moderator", IsActive: true}
	state.mu.Unlock()

	if err := service.RemoveRole(context.Background(), "actor-1", "user-1"); err != nil {
		t.Fatalf("remove role: %v", err)
	}

	state.mu.Lock()
	user := state.users["user-1"]
	state.mu.Unlock()
	if user.RoleID != nil {
		t.Fatal("expected role reference to be cleared")
	}

	publisher.mu.Lock()
	defer publisher.mu.Unlock()
	if len(publisher.revoked) != 1 {
		t.Fatalf("expected 1 revoked event, got %d", len(publisher.revoked))
	}
	if publisher.revoked[0].RoleID != roleID || publisher.revoked[0].RoleName != "moderator" {
		t.Fatalf("unexpected event payload: %+v", publisher.revoked[0])
	}
}

func TestRemoveRoleUnknownUser(t *testing.T) {
	service, _, _ := newAssignmentFixture(t)

	if err := service.RemoveRole(context.Background(), "actor-1", "ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
