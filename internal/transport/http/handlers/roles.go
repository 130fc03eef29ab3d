package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mahesh553/Resumefinal-sub000/internal/core/domain"
	"github.com/mahesh553/Resumefinal-sub000/internal/core/port"
	"github.com/mahesh553/Resumefinal-sub000/internal/transport/http/middleware"
	"github.com/mahesh553/Resumefinal-sub000/internal/usecase"
)

// RoleHandler exposes the role registry and user-role assignment over HTTP.
type RoleHandler struct {
	roles       *usecase.RoleService
	assignments *usecase.AssignmentService
}

// NewRoleHandler builds a role handler instance.
func NewRoleHandler(roles *usecase.RoleService, assignments *usecase.AssignmentService) *RoleHandler {
	return &RoleHandler{roles: roles, assignments: assignments}
}

// Create godoc
// @Summary Create a role
// @Description Creates a non-system role, optionally attaching permissions.
// @Tags Roles
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Param request body CreateRoleRequest true "Role create request"
// @Success 201 {object} RolePayload
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/roles [post]
func (h *RoleHandler) Create(c *gin.Context) {
	var req CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid role payload"))
		return
	}

	role, err := h.roles.CreateRole(c.Request.Context(), usecase.CreateRoleInput{
		Name:          req.Name,
		DisplayName:   req.DisplayName,
		Description:   req.Description,
		Type:          domain.RoleType(strings.TrimSpace(req.Type)),
		Scope:         domain.RoleScope(strings.TrimSpace(req.Scope)),
		Priority:      req.Priority,
		IsDefault:     req.IsDefault,
		PermissionIDs: req.PermissionIDs,
		Metadata:      req.Metadata,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidRoleType, Status: http.StatusBadRequest, Message: "unknown role type"},
			{Err: usecase.ErrInvalidRoleScope, Status: http.StatusBadRequest, Message: "unknown role scope"},
			{Err: usecase.ErrRoleExists, Status: http.StatusConflict, Message: "role already exists"},
			{Err: usecase.ErrPermissionNotFound, Status: http.StatusNotFound, Message: "referenced permission not found"},
		}, http.StatusInternalServerError, "failed to create role")
		return
	}

	c.JSON(http.StatusCreated, toRolePayload(*role))
}

// Get godoc
// @Summary Get a role
// @Description Retrieves a role with its permission set.
// @Tags Roles
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Param id path string true "Role ID"
// @Success 200 {object} RolePayload
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/roles/{id} [get]
func (h *RoleHandler) Get(c *gin.Context) {
	role, err := h.roles.GetRole(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrRoleNotFound, Status: http.StatusNotFound, Message: "role not found"},
		}, http.StatusInternalServerError, "failed to get role")
		return
	}

	c.JSON(http.StatusOK, toRolePayload(*role))
}

// Update godoc
// @Summary Update a role
// @Description Applies a partial update. Deactivating a system role is rejected.
// @Tags Roles
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Param id path string true "Role ID"
// @Param request body UpdateRoleRequest true "Role update request"
// @Success 200 {object} RolePayload
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/roles/{id} [patch]
func (h *RoleHandler) Update(c *gin.Context) {
	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid role payload"))
		return
	}

	input := usecase.UpdateRoleInput{
		DisplayName: req.DisplayName,
		Description: req.Description,
		IsActive:    req.IsActive,
		IsDefault:   req.IsDefault,
		Priority:    req.Priority,
		Metadata:    req.Metadata,
	}

	if req.Scope != nil {
		scope := domain.RoleScope(strings.TrimSpace(*req.Scope))
		input.Scope = &scope
	}

	role, err := h.roles.UpdateRole(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrRoleNotFound, Status: http.StatusNotFound, Message: "role not found"},
			{Err: usecase.ErrSystemRoleProtected, Status: http.StatusBadRequest, Message: "system roles cannot be deactivated"},
			{Err: usecase.ErrInvalidRoleScope, Status: http.StatusBadRequest, Message: "unknown role scope"},
		}, http.StatusInternalServerError, "failed to update role")
		return
	}

	c.JSON(http.StatusOK, toRolePayload(*role))
}

// Delete godoc
// @Summary Delete a role
// @Description Removes a role. System roles and roles with assigned users are protected.
// @Tags Roles
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Param id path string true "Role ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/roles/{id} [delete]
func (h *RoleHandler) Delete(c *gin.Context) {
	if err := h.roles.DeleteRole(c.Request.Context(), c.Param("id")); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrRoleNotFound, Status: http.StatusNotFound, Message: "role not found"},
			{Err: usecase.ErrSystemRoleProtected, Status: http.StatusBadRequest, Message: "system roles cannot be deleted"},
			{Err: usecase.ErrRoleHasUsers, Status: http.StatusBadRequest, Message: "role has assigned users"},
		}, http.StatusInternalServerError, "failed to delete role")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "role deleted"})
}

// List godoc
// @Summary List roles
// @Description Lists roles ordered by priority descending then name, optionally filtered.
// @Tags Roles
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Param type query string false "Filter by role type"
// @Param is_active query bool false "Filter by active flag"
// @Param is_system_role query bool false "Filter by system role flag"
// @Success 200 {object} RoleListResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/roles [get]
func (h *RoleHandler) List(c *gin.Context) {
	var filter port.RoleFilter

	if raw := strings.TrimSpace(c.Query("type")); raw != "" {
		roleType := domain.RoleType(raw)
		if !roleType.Valid() {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "unknown role type"))
			return
		}
		filter.Type = &roleType
	}

	if raw := strings.TrimSpace(c.Query("is_active")); raw != "" {
		active := raw == "true"
		filter.IsActive = &active
	}

	if raw := strings.TrimSpace(c.Query("is_system_role")); raw != "" {
		system := raw == "true"
		filter.IsSystemRole = &system
	}

	roles, err := h.roles.ListRoles(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list roles"))
		return
	}

	payloads := make([]RolePayload, 0, len(roles))
	for _, role := range roles {
		payloads = append(payloads, toRolePayload(role))
	}

	c.JSON(http.StatusOK, RoleListResponse{Roles: payloads, Total: len(payloads)})
}

// UpdatePermissions godoc
// @Summary Mutate a role's permission set
// @Description Replaces, adds to, or removes from the role's permission set.
// @Tags Roles
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Param id path string true "Role ID"
// @Param request body UpdateRolePermissionsRequest true "Permission set mutation"
// @Success 200 {object} RolePayload
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/roles/{id}/permissions [put]
func (h *RoleHandler) UpdatePermissions(c *gin.Context) {
	actorID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok || actorID == "" {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	var req UpdateRolePermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid role permissions payload"))
		return
	}

	operation := usecase.PermissionSetOperation(strings.TrimSpace(req.Operation))
	if operation == "" {
		operation = usecase.PermissionSetReplace
	}

	role, err := h.roles.UpdateRolePermissions(c.Request.Context(), actorID, c.Param("id"), req.PermissionIDs, operation)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrRoleNotFound, Status: http.StatusNotFound, Message: "role not found"},
			{Err: usecase.ErrPermissionNotFound, Status: http.StatusNotFound, Message: "referenced permission not found"},
			{Err: usecase.ErrInvalidOperation, Status: http.StatusBadRequest, Message: "unknown permission set operation"},
		}, http.StatusInternalServerError, "failed to update role permissions")
		return
	}

	c.JSON(http.StatusOK, toRolePayload(*role))
}

// AssignRole godoc
// @Summary Assign a role to a user
// @Description Points the user at the role, overwriting any prior assignment.
// @Tags Roles
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Param id path string true "User ID"
// @Param request body AssignRoleRequest true "Role assignment"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/users/{id}/role [put]
func (h *RoleHandler) AssignRole(c *gin.Context) {
	actorID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok || actorID == "" {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	var req AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid assignment payload"))
		return
	}

	err := h.assignments.AssignRole(c.Request.Context(), actorID, usecase.AssignRoleInput{
		UserID:    c.Param("id"),
		RoleID:    req.RoleID,
		ExpiresAt: req.ExpiresAt,
		Metadata:  req.Metadata,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
			{Err: usecase.ErrRoleNotFound, Status: http.StatusNotFound, Message: "role not found"},
		}, http.StatusInternalServerError, "failed to assign role")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "role assigned"})
}

// RemoveRole godoc
// @Summary Remove a user's role
// @Description Clears the user's resolved role, reverting to legacy evaluation.
// @Tags Roles
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Param id path string true "User ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/users/{id}/role [delete]
func (h *RoleHandler) RemoveRole(c *gin.Context) {
	actorID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok || actorID == "" {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	if err := h.assignments.RemoveRole(c.Request.Context(), actorID, c.Param("id")); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
		}, http.StatusInternalServerError, "failed to remove role")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "role removed"})
}
