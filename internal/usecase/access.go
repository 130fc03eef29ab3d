package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mahesh553/Resumefinal-sub000/internal/core/domain"
	"github.com/mahesh553/Resumefinal-sub000/internal/core/port"
	"github.com/mahesh553/Resumefinal-sub000/internal/repository"
)

const (
	reasonUserNotFound = "user not found or inactive"
	reasonLegacyAdmin  = "legacy admin access"
)

// AccessService evaluates permission checks against current state. There is
// no caching: every check re-reads the user, role, and permission set.
type AccessService struct {
	users       port.UserRepository
	roles       port.RoleRepository
	permissions port.PermissionRepository
	logger      *zap.Logger
}

// NewAccessService constructs an AccessService.
func NewAccessService(users port.UserRepository, roles port.RoleRepository, permissions port.PermissionRepository, logger *zap.Logger) *AccessService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccessService{users: users, roles: roles, permissions: permissions, logger: logger}
}

// CheckPermission decides whether the user may perform the required action on
// the required resource. The check context is advisory only; it does not
// influence the decision.
func (s *AccessService) CheckPermission(ctx context.Context, userID string, required domain.RequiredPermission, checkCtx *domain.CheckContext) (domain.Decision, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.Decision{Granted: false, Reason: reasonUserNotFound}, nil
	}

	if !required.Action.Valid() {
		return domain.Decision{}, ErrInvalidAction
	}
	if !required.Resource.Valid() {
		return domain.Decision{}, ErrInvalidResource
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Decision{Granted: false, Reason: reasonUserNotFound}, nil
		}
		return domain.Decision{}, fmt.Errorf("lookup user: %w", err)
	}

	if !user.IsActive {
		return domain.Decision{Granted: false, Reason: reasonUserNotFound}, nil
	}

	authority, err := s.resolveAuthority(ctx, user)
	if err != nil {
		return domain.Decision{}, err
	}

	decision := evaluate(authority, required)

	fields := []zap.Field{
		zap.String("user_id", user.ID),
		zap.String("required", required.Key()),
		zap.Bool("granted", decision.Granted),
	}
	if checkCtx != nil && checkCtx.Path != "" {
		fields = append(fields, zap.String("path", checkCtx.Path))
	}
	s.logger.Debug("permission check", fields...)

	return decision, nil
}

// resolveAuthority loads the user's authority union. A dangling or inactive
// role reference degrades to legacy evaluation rather than failing the check.
func (s *AccessService) resolveAuthority(ctx context.Context, user *domain.User) (domain.UserAuthority, error) {
	if user.RoleID == nil {
		return domain.LegacyAuthority(user.LegacyRole), nil
	}

	role, err := s.roles.GetByID(ctx, *user.RoleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.LegacyAuthority(user.LegacyRole), nil
		}
		return domain.UserAuthority{}, fmt.Errorf("resolve role: %w", err)
	}

	if !role.IsActive {
		return domain.LegacyAuthority(user.LegacyRole), nil
	}

	permissions, err := s.permissions.ListByRole(ctx, role.ID)
	if err != nil {
		return domain.UserAuthority{}, fmt.Errorf("load role permissions: %w", err)
	}
	role.Permissions = permissions

	return domain.ResolvedAuthority(role, user.LegacyRole), nil
}

// evaluate is a total match over the authority union.
func evaluate(authority domain.UserAuthority, required domain.RequiredPermission) domain.Decision {
	switch authority.Kind {
	case domain.AuthorityResolved:
		if authority.Role.HasPermission(required.Action, required.Resource) {
			return domain.Decision{Granted: true}
		}
		// No match in the role's permission set: legacy fallback still applies.
		return legacyDecision(authority.Legacy, required)
	case domain.AuthorityLegacy:
		return legacyDecision(authority.Legacy, required)
	default:
		return denied(required)
	}
}

func legacyDecision(legacy domain.LegacyRole, required domain.RequiredPermission) domain.Decision {
	if legacy == domain.LegacyRoleAdmin {
		return domain.Decision{Granted: true, Reason: reasonLegacyAdmin}
	}
	return denied(required)
}

func denied(required domain.RequiredPermission) domain.Decision {
	return domain.Decision{
		Granted: false,
		Reason:  fmt.Sprintf("Missing permission: %s", required.Key()),
	}
}
