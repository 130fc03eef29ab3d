package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mahesh553/Resumefinal-sub000/internal/core/domain"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse describes liveness output.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// ReadinessResponse describes readiness output per dependency.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// PermissionPayload is the API view of a permission record.
type PermissionPayload struct {
	ID          string         `json:"id"`
	Action      string         `json:"action"`
	Resource    string         `json:"resource"`
	Name        string         `json:"name"`
	Description *string        `json:"description,omitempty"`
	IsActive    bool           `json:"is_active"`
	Conditions  map[string]any `json:"conditions,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func toPermissionPayload(p domain.Permission) PermissionPayload {
	return PermissionPayload{
		ID:          p.ID,
		Action:      string(p.Action),
		Resource:    string(p.Resource),
		Name:        p.Name,
		Description: p.Description,
		IsActive:    p.IsActive,
		Conditions:  p.Conditions,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toPermissionPayloads(permissions []domain.Permission) []PermissionPayload {
	payloads := make([]PermissionPayload, 0, len(permissions))
	for _, p := range permissions {
		payloads = append(payloads, toPermissionPayload(p))
	}
	return payloads
}

// CreatePermissionRequest is the payload for creating a permission.
type CreatePermissionRequest struct {
	Action      string         `json:"action" binding:"required"`
	Resource    string         `json:"resource" binding:"required"`
	Name        string         `json:"name"`
	Description *string        `json:"description"`
	Conditions  map[string]any `json:"conditions"`
	IsActive    *bool          `json:"is_active"`
}

// UpdatePermissionRequest is the partial payload for updating a permission.
type UpdatePermissionRequest struct {
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	IsActive    *bool          `json:"is_active"`
	Conditions  map[string]any `json:"conditions"`
}

// PermissionListResponse wraps a permission listing.
type PermissionListResponse struct {
	Permissions []PermissionPayload `json:"permissions"`
	Total       int                 `json:"total"`
}

// RolePayload is the API view of a role record.
type RolePayload struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	DisplayName  string              `json:"display_name"`
	Description  *string             `json:"description,omitempty"`
	Type         string              `json:"type"`
	Scope        string              `json:"scope"`
	IsActive     bool                `json:"is_active"`
	IsDefault    bool                `json:"is_default"`
	IsSystemRole bool                `json:"is_system_role"`
	Priority     int                 `json:"priority"`
	Permissions  []PermissionPayload `json:"permissions,omitempty"`
	Metadata     map[string]any      `json:"metadata,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

func toRolePayload(r domain.Role) RolePayload {
	return RolePayload{
		ID:           r.ID,
		Name:         r.Name,
		DisplayName:  r.DisplayName,
		Description:  r.Description,
		Type:         string(r.Type),
		Scope:        string(r.Scope),
		IsActive:     r.IsActive,
		IsDefault:    r.IsDefault,
		IsSystemRole: r.IsSystemRole,
		Priority:     r.Priority,
		Permissions:  toPermissionPayloads(r.Permissions),
		Metadata:     r.Metadata,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// CreateRoleRequest is the payload for creating a role.
type CreateRoleRequest struct {
	Name          string         `json:"name" binding:"required"`
	DisplayName   string         `json:"display_name"`
	Description   *string        `json:"description"`
	Type          string         `json:"type" binding:"required"`
	Scope         string         `json:"scope"`
	Priority      *int           `json:"priority"`
	IsDefault     bool           `json:"is_default"`
	PermissionIDs []string       `json:"permission_ids"`
	Metadata      map[string]any `json:"metadata"`
}

// UpdateRoleRequest is the partial payload for updating a role.
type UpdateRoleRequest struct {
	DisplayName *string        `json:"display_name"`
	Description *string        `json:"description"`
	Scope       *string        `json:"scope"`
	IsActive    *bool          `json:"is_active"`
	IsDefault   *bool          `json:"is_default"`
	Priority    *int           `json:"priority"`
	Metadata    map[string]any `json:"metadata"`
}

// UpdateRolePermissionsRequest mutates a role's permission set.
type UpdateRolePermissionsRequest struct {
	PermissionIDs []string `json:"permission_ids" binding:"required"`
	Operation     string   `json:"operation"`
}

// RoleListResponse wraps a role listing.
type RoleListResponse struct {
	Roles []RolePayload `json:"roles"`
	Total int           `json:"total"`
}

// AssignRoleRequest points a user at a role.
type AssignRoleRequest struct {
	RoleID    string         `json:"role_id" binding:"required"`
	ExpiresAt *time.Time     `json:"expires_at"`
	Metadata  map[string]any `json:"metadata"`
}

// CheckPermissionRequest asks whether a user holds an action on a resource.
type CheckPermissionRequest struct {
	UserID     string `json:"user_id"`
	Action     string `json:"action" binding:"required"`
	Resource   string `json:"resource" binding:"required"`
	ResourceID string `json:"resource_id"`
}

// CheckPermissionResponse reports the evaluation outcome.
type CheckPermissionResponse struct {
	Granted bool   `json:"granted"`
	Reason  string `json:"reason,omitempty"`
}

// BulkPermissionRequest is the payload for bulk grant/revoke operations.
type BulkPermissionRequest struct {
	Operation   string         `json:"operation" binding:"required"`
	UserIDs     []string       `json:"user_ids" binding:"required"`
	Permissions []string       `json:"permissions" binding:"required"`
	Metadata    map[string]any `json:"metadata"`
}

// BulkPermissionResponse reports aggregate outcome counts.
type BulkPermissionResponse struct {
	Success int `json:"success"`
	Failed  int `json:"failed"`
}
