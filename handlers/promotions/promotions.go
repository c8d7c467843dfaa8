package promotions

import (
	"net/http"
	"time"

	"harmonycare-server/models"
	"harmonycare-server/utils"

	"github.com/gin-gonic/gin"
)

// GetCurrentPromotion returns this month's featured marketing promotion.
func GetCurrentPromotion(c *gin.Context) {
	now := time.Now()
	month := int(now.Month())
	year := now.Year()

	var promotion models.Promotion
	if err := utils.DB.Where("month = ? AND year = ? AND featured = ?", month, year, true).First(&promotion).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No featured promotion found for this month"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"promotion": promotion,
	})
}
