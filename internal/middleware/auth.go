// internal/middleware/auth.go
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/farmlink/agritrace-backend/internal/i18n"
	"github.com/farmlink/agritrace-backend/internal/models"
	"github.com/farmlink/agritrace-backend/internal/utils"
)

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}

	return parts[1], true
}

// AuthRequired verifies the identity-provider bearer token and then
// loads the local user row. The role gate always reads the role from
// the row, never from token claims.
func AuthRequired(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := utils.GetLangFromContext(c)

		token, ok := bearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": i18n.T(lang, i18n.KeyAuthRequired),
			})
			c.Abort()
			return
		}

		claims, err := utils.VerifyIdentityToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": i18n.T(lang, i18n.KeyAuthInvalidToken),
			})
			c.Abort()
			return
		}

		var user models.User
		if err := db.Where("external_id = ?", claims.Subject).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{
					"error": i18n.T(lang, i18n.KeyUserNotFound),
				})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": i18n.T(lang, i18n.KeyError),
				})
			}
			c.Abort()
			return
		}

		if !user.IsActive() {
			c.JSON(http.StatusForbidden, gin.H{
				"error": i18n.T(lang, i18n.KeyUserSuspended),
			})
			c.Abort()
			return
		}

		// Set user info in context
		c.Set("user_id", user.ID.String())
		c.Set("external_id", user.ExternalID)
		c.Set("user_role", string(user.Role))
		c.Next()
	}
}

// RoleRequired gates a route group to the given roles. Admin always
// passes.
func RoleRequired(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := utils.GetLangFromContext(c)

		roleStr, exists := utils.GetUserRoleFromContext(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": i18n.T(lang, i18n.KeyAuthRequired),
			})
			c.Abort()
			return
		}

		role := models.UserRole(roleStr)
		if role == models.UserRoleAdmin {
			c.Next()
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"error": i18n.T(lang, i18n.KeyAdminAccessDenied),
		})
		c.Abort()
	}
}

func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := utils.GetLangFromContext(c)

		role, exists := c.Get("user_role")
		if !exists || role != string(models.UserRoleAdmin) {
			c.JSON(http.StatusForbidden, gin.H{
				"error": i18n.T(lang, i18n.KeyAdminAccessDenied),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalAuth attaches user info when a valid token is present but
// never rejects the request. Used on public read endpoints.
func OptionalAuth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		claims, err := utils.VerifyIdentityToken(token)
		if err != nil {
			c.Next()
			return
		}

		var user models.User
		if err := db.Where("external_id = ?", claims.Subject).First(&user).Error; err != nil {
			c.Next()
			return
		}

		if user.IsActive() {
			c.Set("user_id", user.ID.String())
			c.Set("external_id", user.ExternalID)
			c.Set("user_role", string(user.Role))
		}
		c.Next()
	}
}
