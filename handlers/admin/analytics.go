package admin

import (
	"log"
	"net/http"
	"time"

	"harmonycare-server/models"
	"harmonycare-server/referral"
	"harmonycare-server/utils"

	"github.com/gin-gonic/gin"
)

// Engine is wired in main before routes are registered.
var Engine *referral.Service

// GetAnalytics returns the admin dashboard rollups: signup totals plus the
// full referral analytics.
func GetAnalytics(c *gin.Context) {
	var totalSignups int64
	if err := utils.DB.Model(&models.Signup{}).Count(&totalSignups).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch signup totals"})
		return
	}

	var recentSignups int64
	weekAgo := time.Now().AddDate(0, 0, -7)
	if err := utils.DB.Model(&models.Signup{}).Where("created_at >= ?", weekAgo).Count(&recentSignups).Error; err != nil {
		recentSignups = 0
	}

	type tierCount struct {
		PricingTier string
		Count       int64
	}
	var tierCounts []tierCount
	if err := utils.DB.Model(&models.Signup{}).
		Select("pricing_tier, count(*) as count").
		Group("pricing_tier").
		Scan(&tierCounts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pricing tier breakdown"})
		return
	}

	byPricingTier := make(map[string]int64, len(tierCounts))
	for _, tc := range tierCounts {
		byPricingTier[tc.PricingTier] = tc.Count
	}

	referralAnalytics, err := Engine.Analytics()
	if err != nil {
		log.Printf("Failed to compute referral analytics: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute referral analytics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_signups":           totalSignups,
		"recent_signups":          recentSignups,
		"signups_by_pricing_tier": byPricingTier,
		"referral_analytics":      referralAnalytics,
	})
}
