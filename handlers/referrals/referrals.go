package referrals

import (
	"errors"
	"log"
	"net/http"

	"harmonycare-server/models"
	"harmonycare-server/referral"

	"github.com/gin-gonic/gin"
)

// Engine is wired in main before routes are registered.
var Engine *referral.Service

// ValidateCode checks a referral code on behalf of the signup form. Public,
// no auth required.
func ValidateCode(c *gin.Context) {
	var req struct {
		Code string `json:"code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	referrer, err := Engine.ValidateCode(req.Code)
	if err != nil {
		log.Printf("Failed to validate referral code: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate referral code"})
		return
	}

	if referrer == nil {
		c.JSON(http.StatusOK, gin.H{
			"valid":   false,
			"message": "This referral code is not recognized.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":   true,
		"message": "Referral code applied! You and your referrer both earn rewards.",
	})
}

// GetMyReferrals returns the referral dashboard for the authenticated
// member: their code, conversions, tier and progress.
func GetMyReferrals(c *gin.Context) {
	userInterface, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}
	user := userInterface.(models.User)

	stats, err := Engine.StatsForEmail(user.Email)
	if err != nil {
		if errors.Is(err, referral.ErrSignupNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Signup record not found"})
			return
		}
		log.Printf("Failed to fetch referral stats for %s: %v", user.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch referrals"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"referral_code":         stats.ReferralCode,
		"total_referrals":       stats.TotalReferrals,
		"current_tier":          stats.CurrentTier,
		"next_tier":             stats.NextTier,
		"progress_to_next_tier": stats.ProgressToNextTier,
		"referred_users":        stats.ReferredUsers,
	})
}

// GetRewardTiers lists the reward tier ladder for the marketing site.
func GetRewardTiers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tiers": referral.Tiers})
}
