package domain

import (
	"fmt"
	"time"
)

// Action is the verb a permission authorizes on a resource.
type Action string

const (
	ActionCreate  Action = "create"
	ActionRead    Action = "read"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionExecute Action = "execute"
	// ActionManage subsumes every other action on the same resource.
	ActionManage Action = "manage"
)

// Actions lists every known action, manage last.
var Actions = []Action{
	ActionCreate,
	ActionRead,
	ActionUpdate,
	ActionDelete,
	ActionExecute,
	ActionManage,
}

// Valid reports whether the action belongs to the known enumeration.
func (a Action) Valid() bool {
	switch a {
	case ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionExecute, ActionManage:
		return true
	}
	return false
}

// Resource is a named capability domain permissions apply to.
type Resource string

const (
	ResourceUser             Resource = "user"
	ResourceResume           Resource = "resume"
	ResourceJobApplication   Resource = "job_application"
	ResourceAdminPanel       Resource = "admin_panel"
	ResourceAnalytics        Resource = "analytics"
	ResourceSystemSettings   Resource = "system_settings"
	ResourceSecurityLogs     Resource = "security_logs"
	ResourceUserManagement   Resource = "user_management"
	ResourceSystemMonitoring Resource = "system_monitoring"
	ResourceReports          Resource = "reports"
	ResourceAIServices       Resource = "ai_services"
	ResourceFileUpload       Resource = "file_upload"
	ResourceWebhooks         Resource = "webhooks"
	ResourceAPIKeys          Resource = "api_keys"
	ResourceBilling          Resource = "billing"
)

// Resources lists every known resource.
var Resources = []Resource{
	ResourceUser,
	ResourceResume,
	ResourceJobApplication,
	ResourceAdminPanel,
	ResourceAnalytics,
	ResourceSystemSettings,
	ResourceSecurityLogs,
	ResourceUserManagement,
	ResourceSystemMonitoring,
	ResourceReports,
	ResourceAIServices,
	ResourceFileUpload,
	ResourceWebhooks,
	ResourceAPIKeys,
	ResourceBilling,
}

// Valid reports whether the resource belongs to the known enumeration.
func (r Resource) Valid() bool {
	for _, known := range Resources {
		if r == known {
			return true
		}
	}
	return false
}

// Permission is an (action, resource) capability record. The pair is unique
// across the catalog.
type Permission struct {
	ID          string
	Action      Action
	Resource    Resource
	Name        string
	Description *string
	IsActive    bool
	Conditions  map[string]any
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Key returns the canonical "action:resource" form used in decision reasons
// and requirement expressions.
func (p Permission) Key() string {
	return PermissionKey(p.Action, p.Resource)
}

// PermissionKey formats an action/resource pair canonically.
func PermissionKey(action Action, resource Resource) string {
	return fmt.Sprintf("%s:%s", action, resource)
}

// RoleType classifies roles by their intended authority tier.
type RoleType string

const (
	RoleTypeSuperAdmin RoleType = "super_admin"
	RoleTypeAdmin      RoleType = "admin"
	RoleTypeModerator  RoleType = "moderator"
	RoleTypeUser       RoleType = "user"
	RoleTypeGuest      RoleType = "guest"
	RoleTypeCustom     RoleType = "custom"
)

// Valid reports whether the role type belongs to the known enumeration.
func (t RoleType) Valid() bool {
	switch t {
	case RoleTypeSuperAdmin, RoleTypeAdmin, RoleTypeModerator, RoleTypeUser, RoleTypeGuest, RoleTypeCustom:
		return true
	}
	return false
}

// RoleScope bounds where a role's authority applies.
type RoleScope string

const (
	RoleScopeGlobal       RoleScope = "global"
	RoleScopeOrganization RoleScope = "organization"
	RoleScopeDepartment   RoleScope = "department"
	RoleScopeProject      RoleScope = "project"
)

// Valid reports whether the scope belongs to the known enumeration.
func (s RoleScope) Valid() bool {
	switch s {
	case RoleScopeGlobal, RoleScopeOrganization, RoleScopeDepartment, RoleScopeProject:
		return true
	}
	return false
}

// Role is a named, prioritized permission bundle. Higher priority means more
// authority. System roles cannot be deactivated or deleted.
type Role struct {
	ID           string
	Name         string
	DisplayName  string
	Description  *string
	Type         RoleType
	Scope        RoleScope
	IsActive     bool
	IsDefault    bool
	IsSystemRole bool
	Priority     int
	Permissions  []Permission
	Metadata     map[string]any
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPermission reports whether the role's active permission set covers the
// requested action on the resource. Holding (manage, R) grants every action
// on R and nothing on any other resource.
func (r Role) HasPermission(action Action, resource Resource) bool {
	for _, p := range r.Permissions {
		if !p.IsActive {
			continue
		}
		if p.Resource != resource {
			continue
		}
		if p.Action == action || p.Action == ActionManage {
			return true
		}
	}
	return false
}

// LegacyRole is the flat role field retained for users without a resolved
// role reference.
type LegacyRole string

const (
	LegacyRoleUser  LegacyRole = "user"
	LegacyRoleAdmin LegacyRole = "admin"
)

// AuthorityKind discriminates the UserAuthority union.
type AuthorityKind int

const (
	// AuthorityNone means the user could not be resolved or is inactive.
	AuthorityNone AuthorityKind = iota
	// AuthorityResolved means the user holds a resolved role reference.
	AuthorityResolved
	// AuthorityLegacy means only the flat legacy role field applies.
	AuthorityLegacy
)

// UserAuthority is the tagged union the evaluator matches over: a resolved
// role with its permission set loaded, the legacy flat role, or nothing.
type UserAuthority struct {
	Kind   AuthorityKind
	Role   *Role
	Legacy LegacyRole
}

// ResolvedAuthority builds an authority backed by a resolved role. The legacy
// role is retained so the evaluator can still fall back to it.
func ResolvedAuthority(role *Role, legacy LegacyRole) UserAuthority {
	return UserAuthority{Kind: AuthorityResolved, Role: role, Legacy: legacy}
}

// LegacyAuthority builds an authority backed only by the flat role field.
func LegacyAuthority(legacy LegacyRole) UserAuthority {
	return UserAuthority{Kind: AuthorityLegacy, Legacy: legacy}
}

// Operator combines multiple required permissions.
type Operator string

const (
	OperatorAnd Operator = "AND"
	OperatorOr  Operator = "OR"
)

// RequiredPermission names a single action/resource pair a caller must hold.
type RequiredPermission struct {
	Action   Action
	Resource Resource
}

// Key returns the canonical "action:resource" form.
func (r RequiredPermission) Key() string {
	return PermissionKey(r.Action, r.Resource)
}

// Decision is the outcome of a single permission evaluation.
type Decision struct {
	Granted bool
	Reason  string
}

// CheckContext carries optional request metadata into an evaluation. None of
// the fields influence the decision today; they are recorded for audit.
type CheckContext struct {
	IP         string
	Path       string
	ResourceID string
}
