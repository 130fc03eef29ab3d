package domain

import "time"

// RoleAssignedEvent represents the payload for access.role.assigned messages.
type RoleAssignedEvent struct {
	EventID    string
	UserID     string
	RoleID     string
	RoleName   string
	AssignedBy string
	AssignedAt time.Time
	ExpiresAt  *time.Time
	Metadata   map[string]any
}

// RoleRevokedEvent represents the payload for access.role.revoked messages.
type RoleRevokedEvent struct {
	EventID   string
	UserID    string
	RoleID    string
	RoleName  string
	RevokedBy string
	RevokedAt time.Time
	Metadata  map[string]any
}

// RolePermissionsChangedEvent represents the payload for
// access.role.permissions_changed messages.
type RolePermissionsChangedEvent struct {
	EventID       string
	RoleID        string
	RoleName      string
	Operation     string
	PermissionIDs []string
	ChangedBy     string
	ChangedAt     time.Time
}

// BulkOperationCompletedEvent represents the payload for
// access.bulk.completed messages.
type BulkOperationCompletedEvent struct {
	EventID     string
	Operation   string
	Permissions []string
	Success     int
	Failed      int
	PerformedBy string
	CompletedAt time.Time
	Metadata    map[string]any
}
