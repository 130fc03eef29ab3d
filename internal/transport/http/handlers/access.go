package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mahesh553/Resumefinal-sub000/internal/core/domain"
	"github.com/mahesh553/Resumefinal-sub000/internal/transport/http/middleware"
	"github.com/mahesh553/Resumefinal-sub000/internal/usecase"
)

// AccessHandler exposes permission evaluation and bulk administration.
type AccessHandler struct {
	access *usecase.AccessService
	bulk   *usecase.BulkService
}

// NewAccessHandler builds an access handler instance.
func NewAccessHandler(access *usecase.AccessService, bulk *usecase.BulkService) *AccessHandler {
	return &AccessHandler{access: access, bulk: bulk}
}

// Check godoc
// @Summary Check a permission
// @Description Evaluates whether a user may perform an action on a resource. Defaults to the caller when user_id is omitted.
// @Tags Access
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Param request body CheckPermissionRequest true "Permission check request"
// @Success 200 {object} CheckPermissionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/access/check [post]
func (h *AccessHandler) Check(c *gin.Context) {
	callerID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok || callerID == "" {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	var req CheckPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid check payload"))
		return
	}

	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		userID = callerID
	}

	required := domain.RequiredPermission{
		Action:   domain.Action(strings.TrimSpace(req.Action)),
		Resource: domain.Resource(strings.TrimSpace(req.Resource)),
	}

	decision, err := h.access.CheckPermission(c.Request.Context(), userID, required, &domain.CheckContext{
		IP:         c.ClientIP(),
		Path:       c.Request.URL.Path,
		ResourceID: req.ResourceID,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidAction, Status: http.StatusBadRequest, Message: "unknown action"},
			{Err: usecase.ErrInvalidResource, Status: http.StatusBadRequest, Message: "unknown resource"},
		}, http.StatusInternalServerError, "failed to check permission")
		return
	}

	c.JSON(http.StatusOK, CheckPermissionResponse{
		Granted: decision.Granted,
		Reason:  decision.Reason,
	})
}

// Bulk godoc
// @Summary Run a bulk permission operation
// @Description Processes a batch grant/revoke with per-user isolation and aggregate counts.
// @Tags Access
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Param request body BulkPermissionRequest true "Bulk operation request"
// @Success 200 {object} BulkPermissionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 429 {object} middleware.ProblemDetails
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/access/bulk [post]
func (h *AccessHandler) Bulk(c *gin.Context) {
	actorID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok || actorID == "" {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	var req BulkPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid bulk payload"))
		return
	}

	result, err := h.bulk.BulkPermissionOperation(c.Request.Context(), actorID, usecase.BulkPermissionInput{
		Operation:   usecase.BulkOperation(strings.TrimSpace(req.Operation)),
		UserIDs:     req.UserIDs,
		Permissions: req.Permissions,
		Metadata:    req.Metadata,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidOperation, Status: http.StatusBadRequest, Message: "unknown bulk operation"},
			{Err: usecase.ErrInvalidAction, Status: http.StatusBadRequest, Message: "unknown action"},
			{Err: usecase.ErrInvalidResource, Status: http.StatusBadRequest, Message: "unknown resource"},
			{Err: usecase.ErrPermissionNotFound, Status: http.StatusNotFound, Message: "referenced permission not found"},
		}, http.StatusInternalServerError, "failed to run bulk operation")
		return
	}

	c.JSON(http.StatusOK, BulkPermissionResponse{
		Success: result.Success,
		Failed:  result.Failed,
	})
}
