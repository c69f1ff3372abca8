package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/madrona-research/madrona/internal/auth"
	"github.com/madrona-research/madrona/internal/db"
	"github.com/madrona-research/madrona/internal/users"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginHandler exchanges email+password for a JWT
func LoginHandler(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
		return
	}

	user, err := users.GetUserByEmail(db.GetDB(), req.Email)
	if err != nil || !users.ValidatePassword(user, req.Password) {
		// Same response for unknown user and bad password
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := auth.GenerateToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"guid":      user.GUID,
			"email":     user.Email,
			"full_name": user.FullName,
		},
	})
}

// MeHandler returns the authenticated user
func MeHandler(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"guid":      user.GUID,
		"email":     user.Email,
		"full_name": user.FullName,
		"is_admin":  user.IsAdmin,
	})
}
