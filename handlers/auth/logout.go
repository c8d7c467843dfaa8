package auth

import (
	"net/http"
	"time"

	"harmonycare-server/models"
	"harmonycare-server/utils"

	"github.com/gin-gonic/gin"
)

func Logout(c *gin.Context) {
	userInterface, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}
	user := userInterface.(models.User)

	// Invalidate the session by dropping the refresh token
	now := time.Now()
	user.RefreshToken = ""
	user.LastLogoutAt = &now
	if err := utils.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log out"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logout successful.",
	})
}
