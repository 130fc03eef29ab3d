package usecase

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/mahesh553/Resumefinal-sub000/internal/core/domain"
	"github.com/mahesh553/Resumefinal-sub000/internal/core/port"
	"github.com/mahesh553/Resumefinal-sub000/internal/repository"
)

// storeState backs the fake repositories so role-permission links and user
// role references stay consistent across the three interfaces.
type storeState struct {
	mu              sync.Mutex
	users           map[string]domain.User
	roles           map[string]domain.Role
	permissions     map[string]domain.Permission
	rolePermissions map[string]map[string]struct{}
}

func newStoreState() *storeState {
	return &storeState{
		users:           make(map[string]domain.User),
		roles:           make(map[string]domain.Role),
		permissions:     make(map[string]domain.Permission),
		rolePermissions: make(map[string]map[string]struct{}),
	}
}

func (s *storeState) addUser(user domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
}

type fakeUserRepo struct {
	state *storeState
	err   error
}

var _ port.UserRepository = (*fakeUserRepo)(nil)

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	user, ok := r.state.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := user
	return &copied, nil
}

func (r *fakeUserRepo) SetRole(_ context.Context, userID, roleID string) error {
	if r.err != nil {
		return r.err
	}
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	user, ok := r.state.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	user.RoleID = &roleID
	r.state.users[userID] = user
	return nil
}

func (r *fakeUserRepo) ClearRole(_ context.Context, userID string) error {
	if r.err != nil {
		return r.err
	}
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	user, ok := r.state.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	user.RoleID = nil
	r.state.users[userID] = user
	return nil
}

type fakeRoleRepo struct {
	state *storeState
	err   error
}

var _ port.RoleRepository = (*fakeRoleRepo)(nil)

func (r *fakeRoleRepo) Create(_ context.Context, role domain.Role) error {
	if r.err != nil {
		return r.err
	}
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	links := make(map[string]struct{}, len(role.Permissions))
	for _, p := range role.Permissions {
		links[p.ID] = struct{}{}
	}
	role.Permissions = nil
	r.state.roles[role.ID] = role
	r.state.rolePermissions[role.ID] = links
	return nil
}

func (r *fakeRoleRepo) GetByID(_ context.Context, id string) (*domain.Role, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	role, ok := r.state.roles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := role
	return &copied, nil
}

func (r *fakeRoleRepo) GetByName(_ context.Context, name string) (*domain.Role, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	for _, role := range r.state.roles {
		if role.Name == name {
			copied := role
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeRoleRepo) Update(_ context.Context, role domain.Role) error {
	if r.err != nil {
		return r.err
	}
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	if _, ok := r.state.roles[role.ID]; !ok {
		return repository.ErrNotFound
	}
	role.Permissions = nil
	r.state.roles[role.ID] = role
	return nil
}

func (r *fakeRoleRepo) Delete(_ context.Context, id string) error {
	if r.err != nil {
		return r.err
	}
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	if _, ok := r.state.roles[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.state.roles, id)
	delete(r.state.rolePermissions, id)
	return nil
}

func (r *fakeRoleRepo) List(_ context.Context, filter port.RoleFilter) ([]domain.Role, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	roles := make([]domain.Role, 0, len(r.state.roles))
	for _, role := range r.state.roles {
		if filter.Type != nil && role.Type != *filter.Type {
			continue
		}
		if filter.IsActive != nil && role.IsActive != *filter.IsActive {
			continue
		}
		if filter.IsSystemRole != nil && role.IsSystemRole != *filter.IsSystemRole {
			continue
		}
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool {
		if roles[i].Priority != roles[j].Priority {
			return roles[i].Priority > roles[j].Priority
		}
		return roles[i].Name < roles[j].Name
	})
	return roles, nil
}

func (r *fakeRoleRepo) SetPermissions(_ context.Context, roleID string, permissionIDs []string) error {
	if r.err != nil {
		return r.err
	}
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	if _, ok := r.state.roles[roleID]; !ok {
		return repository.ErrNotFound
	}
	links := make(map[string]struct{}, len(permissionIDs))
	for _, id := range permissionIDs {
		links[id] = struct{}{}
	}
	r.state.rolePermissions[roleID] = links
	return nil
}

func (r *fakeRoleRepo) AddPermissions(_ context.Context, roleID string, permissionIDs []string) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	links, ok := r.state.rolePermissions[roleID]
	if !ok {
		links = make(map[string]struct{})
		r.state.rolePermissions[roleID] = links
	}
	added := 0
	for _, id := range permissionIDs {
		if _, exists := links[id]; exists {
			continue
		}
		links[id] = struct{}{}
		added++
	}
	return added, nil
}

func (r *fakeRoleRepo) RemovePermissions(_ context.Context, roleID string, permissionIDs []string) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	links := r.state.rolePermissions[roleID]
	removed := 0
	for _, id := range permissionIDs {
		if _, exists := links[id]; exists {
			delete(links, id)
			removed++
		}
	}
	return removed, nil
}

func (r *fakeRoleRepo) CountAssignedUsers(_ context.Context, roleID string) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	count := 0
	for _, user := range r.state.users {
		if user.RoleID != nil && *user.RoleID == roleID {
			count++
		}
	}
	return count, nil
}

type fakePermissionRepo struct {
	state *storeState
	err   error
}

var _ port.PermissionRepository = (*fakePermissionRepo)(nil)

func (r *fakePermissionRepo) Create(_ context.Context, permission domain.Permission) error {
	if r.err != nil {
		return r.err
	}
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	r.state.permissions[permission.ID] = permission
	return nil
}

func (r *fakePermissionRepo) GetByID(_ context.Context, id string) (*domain.Permission, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	permission, ok := r.state.permissions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := permission
	return &copied, nil
}

func (r *fakePermissionRepo) GetByActionResource(_ context.Context, action domain.Action, resource domain.Resource) (*domain.Permission, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	for _, permission := range r.state.permissions {
		if permission.Action == action && permission.Resource == resource {
			copied := permission
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakePermissionRepo) Update(_ context.Context, permission domain.Permission) error {
	if r.err != nil {
		return r.err
	}
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	if _, ok := r.state.permissions[permission.ID]; !ok {
		return repository.ErrNotFound
	}
	r.state.permissions[permission.ID] = permission
	return nil
}

func (r *fakePermissionRepo) Delete(_ context.Context, id string) error {
	if r.err != nil {
		return r.err
	}
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	if _, ok := r.state.permissions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.state.permissions, id)
	for _, links := range r.state.rolePermissions {
		delete(links, id)
	}
	return nil
}

func (r *fakePermissionRepo) List(_ context.Context, filter port.PermissionFilter) ([]domain.Permission, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	permissions := make([]domain.Permission, 0, len(r.state.permissions))
	for _, permission := range r.state.permissions {
		if filter.Action != nil && permission.Action != *filter.Action {
			continue
		}
		if filter.Resource != nil && permission.Resource != *filter.Resource {
			continue
		}
		if filter.IsActive != nil && permission.IsActive != *filter.IsActive {
			continue
		}
		permissions = append(permissions, permission)
	}
	sort.Slice(permissions, func(i, j int) bool {
		if permissions[i].Resource != permissions[j].Resource {
			return strings.Compare(string(permissions[i].Resource), string(permissions[j].Resource)) < 0
		}
		return strings.Compare(string(permissions[i].Action), string(permissions[j].Action)) < 0
	})
	return permissions, nil
}

func (r *fakePermissionRepo) ListByIDs(_ context.Context, ids []string) ([]domain.Permission, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	permissions := make([]domain.Permission, 0, len(ids))
	for _, id := range ids {
		if permission, ok := r.state.permissions[id]; ok {
			permissions = append(permissions, permission)
		}
	}
	return permissions, nil
}

func (r *fakePermissionRepo) ListByRole(_ context.Context, roleID string) ([]domain.Permission, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	links := r.state.rolePermissions[roleID]
	permissions := make([]domain.Permission, 0, len(links))
	for id := range links {
		if permission, ok := r.state.permissions[id]; ok {
			permissions = append(permissions, permission)
		}
	}
	sort.Slice(permissions, func(i, j int) bool {
		if permissions[i].Resource != permissions[j].Resource {
			return permissions[i].Resource < permissions[j].Resource
		}
		return permissions[i].Action < permissions[j].Action
	})
	return permissions, nil
}

func (r *fakePermissionRepo) Count(_ context.Context, filter port.PermissionFilter) (int, error) {
	permissions, err := r.List(context.Background(), filter)
	if err != nil {
		return 0, err
	}
	return len(permissions), nil
}

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	mu                 sync.Mutex
	assigned           []domain.RoleAssignedEvent
	revoked            []domain.RoleRevokedEvent
	permissionsChanged []domain.RolePermissionsChangedEvent
	bulkCompleted      []domain.BulkOperationCompletedEvent
}

var _ port.EventPublisher = (*recordingPublisher)(nil)

func (p *recordingPublisher) PublishRoleAssigned(_ context.Context, event domain.RoleAssignedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.assigned = append(p.assigned, event)
	return nil
}

func (p *recordingPublisher) PublishRoleRevoked(_ context.Context, event domain.RoleRevokedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.revoked = append(p.revoked, event)
	return nil
}

func (p *recordingPublisher) PublishRolePermissionsChanged(_ context.Context, event domain.RolePermissionsChangedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.permissionsChanged = append(p.permissionsChanged, event)
	return nil
}

func (p *recordingPublisher) PublishBulkOperationCompleted(_ context.Context, event domain.BulkOperationCompletedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bulkCompleted = append(p.bulkCompleted, event)
	return nil
}
