package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/madrona-research/madrona/internal/db"
	"github.com/madrona-research/madrona/internal/models"
)

// RequireAuth middleware validates the bearer token and loads the user
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		// Load user from database
		var user models.User
		if err := db.GetDB().First(&user, claims.UserID).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
			return
		}

		// Set user in context for handlers
		c.Set("user", &user)
		c.Next()
	}
}

// RequireAdmin middleware requires platform administrator privileges
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		userVal, exists := c.Get("user")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		user := userVal.(*models.User)
		if !user.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "administrator access required"})
			return
		}

		c.Next()
	}
}
