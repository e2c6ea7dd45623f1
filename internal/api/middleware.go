package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/schedly/schedly-backend/internal/auth"
	"github.com/schedly/schedly-backend/internal/user"
)

// RequireAdmin ensures the authenticated user is an admin. The role is read
// from the database rather than the token so a revoked admin loses access
// as soon as the record changes.
// It MUST be used after auth.AuthRequired middleware.
func RequireAdmin(userService user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := auth.GetUserID(c)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		u, err := userService.GetByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}

		if u.Role != user.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden: admin access required"})
			return
		}

		c.Next()
	}
}
