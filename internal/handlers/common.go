// internal/handlers/common.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/farmlink/agritrace-backend/internal/models"
	"github.com/farmlink/agritrace-backend/internal/services"
	"github.com/farmlink/agritrace-backend/internal/utils"
)

// currentActor pulls the authenticated user id and role stored by the
// auth middleware.
func currentActor(c *gin.Context) (uuid.UUID, models.UserRole, bool) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		return uuid.Nil, "", false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, "", false
	}
	roleStr, _ := utils.GetUserRoleFromContext(c)
	return userID, models.UserRole(roleStr), true
}

// respondServiceError translates the service error taxonomy into the
// HTTP envelope. Unknown errors become a 500 with a generic message so
// database details never leak to clients.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, services.ErrForbidden):
		utils.ForbiddenResponse(c, err.Error())
	case errors.Is(err, services.ErrValidation):
		utils.BadRequestResponse(c, err.Error(), nil)
	case errors.Is(err, services.ErrConflict):
		utils.ConflictResponse(c, err.Error())
	case errors.Is(err, services.ErrInvalidTransition):
		utils.ErrorResponse(c, http.StatusConflict, "INVALID_TRANSITION", err.Error(), nil)
	case errors.Is(err, services.ErrUnauthenticated):
		utils.UnauthorizedResponse(c, err.Error())
	default:
		utils.InternalErrorResponse(c, "")
	}
}

// parseUUIDParam parses a :param path segment as a UUID and writes the
// 400 itself on failure.
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}
