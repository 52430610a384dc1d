// internal/handlers/auth.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/farmlink/agritrace-backend/internal/i18n"
	"github.com/farmlink/agritrace-backend/internal/services"
	"github.com/farmlink/agritrace-backend/internal/utils"
)

type AuthHandler struct {
	identityService *services.IdentityService
}

func NewAuthHandler(identityService *services.IdentityService) *AuthHandler {
	return &AuthHandler{identityService: identityService}
}

// POST /auth/sync
// Sync runs before the auth middleware can help: the caller may not
// have a local user row yet, so the token is verified here and the row
// is created or refreshed from its claims.
func (h *AuthHandler) Sync(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthRequired))
		return
	}

	claims, err := utils.VerifyIdentityToken(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidToken))
		return
	}

	user, err := h.identityService.Sync(claims)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAuthSynced),
		"user":    user,
	})
}

// GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, _, ok := currentActor(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	user, err := h.identityService.GetUser(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"user": user})
}

// PUT /auth/profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, _, ok := currentActor(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	user, err := h.identityService.UpdateProfile(userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyUserProfileUpdated),
		"user":    user,
	})
}
