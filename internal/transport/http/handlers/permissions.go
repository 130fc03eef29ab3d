package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mahesh553/Resumefinal-sub000/internal/core/domain"
	"github.com/mahesh553/Resumefinal-sub000/internal/core/port"
	"github.com/mahesh553/Resumefinal-sub000/internal/usecase"
)

// PermissionHandler exposes the permission catalog over HTTP.
type PermissionHandler struct {
	permissions *usecase.PermissionService
}

// NewPermissionHandler builds a permission handler instance.
func NewPermissionHandler(permissions *usecase.PermissionService) *PermissionHandler {
	return &PermissionHandler{permissions: permissions}
}

// Create godoc
// @Summary Create a permission
// @Description Creates a new (action, resource) permission record.
// @Tags Permissions
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Param request body CreatePermissionRequest true "Permission create request"
// @Success 201 {object} PermissionPayload
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/permissions [post]
func (h *PermissionHandler) Create(c *gin.Context) {
	var req CreatePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid permission payload"))
		return
	}

	permission, err := h.permissions.CreatePermission(c.Request.Context(), usecase.CreatePermissionInput{
		Action:      domain.Action(strings.TrimSpace(req.Action)),
		Resource:    domain.Resource(strings.TrimSpace(req.Resource)),
		Name:        req.Name,
		Description: req.Description,
		Conditions:  req.Conditions,
		IsActive:    req.IsActive,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidAction, Status: http.StatusBadRequest, Message: "unknown action"},
			{Err: usecase.ErrInvalidResource, Status: http.StatusBadRequest, Message: "unknown resource"},
			{Err: usecase.ErrPermissionExists, Status: http.StatusConflict, Message: "permission already exists for this action and resource"},
		}, http.StatusInternalServerError, "failed to create permission")
		return
	}

	c.JSON(http.StatusCreated, toPermissionPayload(*permission))
}

// Update godoc
// @Summary Update a permission
// @Description Applies a partial update to an existing permission.
// @Tags Permissions
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Param id path string true "Permission ID"
// @Param request body UpdatePermissionRequest true "Permission update request"
// @Success 200 {object} PermissionPayload
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/permissions/{id} [patch]
func (h *PermissionHandler) Update(c *gin.Context) {
	var req UpdatePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid permission payload"))
		return
	}

	permission, err := h.permissions.UpdatePermission(c.Request.Context(), c.Param("id"), usecase.UpdatePermissionInput{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive,
		Conditions:  req.Conditions,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrPermissionNotFound, Status: http.StatusNotFound, Message: "permission not found"},
		}, http.StatusInternalServerError, "failed to update permission")
		return
	}

	c.JSON(http.StatusOK, toPermissionPayload(*permission))
}

// Delete godoc
// @Summary Delete a permission
// @Description Removes a permission; roles referencing it lose it.
// @Tags Permissions
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Param id path string true "Permission ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/permissions/{id} [delete]
func (h *PermissionHandler) Delete(c *gin.Context) {
	if err := h.permissions.DeletePermission(c.Request.Context(), c.Param("id")); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrPermissionNotFound, Status: http.StatusNotFound, Message: "permission not found"},
		}, http.StatusInternalServerError, "failed to delete permission")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "permission deleted"})
}

// List godoc
// @Summary List permissions
// @Description Lists permissions ordered by resource then action, optionally filtered.
// @Tags Permissions
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Param action query string false "Filter by action"
// @Param resource query string false "Filter by resource"
// @Param is_active query bool false "Filter by active flag"
// @Success 200 {object} PermissionListResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/permissions [get]
func (h *PermissionHandler) List(c *gin.Context) {
	var filter port.PermissionFilter

	if raw := strings.TrimSpace(c.Query("action")); raw != "" {
		action := domain.Action(raw)
		if !action.Valid() {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "unknown action"))
			return
		}
		filter.Action = &action
	}

	if raw := strings.TrimSpace(c.Query("resource")); raw != "" {
		resource := domain.Resource(raw)
		if !resource.Valid() {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "unknown resource"))
			return
		}
		filter.Resource = &resource
	}

	if raw := strings.TrimSpace(c.Query("is_active")); raw != "" {
		active := raw == "true"
		filter.IsActive = &active
	}

	permissions, err := h.permissions.ListPermissions(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list permissions"))
		return
	}

	c.JSON(http.StatusOK, PermissionListResponse{
		Permissions: toPermissionPayloads(permissions),
		Total:       len(permissions),
	})
}
