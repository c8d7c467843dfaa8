package admin

import (
	"net/http"

	"harmonycare-server/models"
	"harmonycare-server/utils"

	"github.com/gin-gonic/gin"
)

// GetSignups lists all signups for the admin dashboard, newest first.
func GetSignups(c *gin.Context) {
	var signups []models.Signup
	if err := utils.DB.Order("created_at DESC").Find(&signups).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch signups"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"signups": signups})
}
