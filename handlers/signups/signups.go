package signups

import (
	"errors"
	"log"
	"net/http"

	"harmonycare-server/referral"

	"github.com/gin-gonic/gin"
)

// Engine is wired in main before routes are registered.
var Engine *referral.Service

type signupRequest struct {
	FirstName          string   `json:"first_name" binding:"required"`
	LastName           string   `json:"last_name" binding:"required"`
	Email              string   `json:"email" binding:"required,email"`
	Phone              string   `json:"phone"`
	FacilityName       string   `json:"facility_name" binding:"required"`
	FacilityType       string   `json:"facility_type" binding:"required"`
	ResidentCount      int      `json:"resident_count" binding:"required,gt=0"`
	PricingTier        string   `json:"pricing_tier" binding:"required,oneof=starter professional enterprise"`
	InterestedFeatures []string `json:"interested_features"`
	AdditionalNeeds    string   `json:"additional_needs"`
	ReferralCode       string   `json:"referral_code"`
	UTMSource          string   `json:"utm_source"`
	UTMMedium          string   `json:"utm_medium"`
	UTMCampaign        string   `json:"utm_campaign"`
	UTMTerm            string   `json:"utm_term"`
	UTMContent         string   `json:"utm_content"`
}

// Create handles a founding member signup submission.
func Create(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := Engine.CreateSignup(referral.SignupInput{
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Email:              req.Email,
		Phone:              req.Phone,
		FacilityName:       req.FacilityName,
		FacilityType:       req.FacilityType,
		ResidentCount:      req.ResidentCount,
		PricingTier:        req.PricingTier,
		InterestedFeatures: req.InterestedFeatures,
		AdditionalNeeds:    req.AdditionalNeeds,
		ReferralCode:       req.ReferralCode,
		UTMSource:          req.UTMSource,
		UTMMedium:          req.UTMMedium,
		UTMCampaign:        req.UTMCampaign,
		UTMTerm:            req.UTMTerm,
		UTMContent:         req.UTMContent,
	})
	if err != nil {
		if errors.Is(err, referral.ErrInvalidReferralCode) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid referral code"})
			return
		}
		log.Printf("Failed to create signup: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "We encountered an issue processing your signup. Please try again later."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "Welcome aboard! Your founding member spot is reserved.",
		"referral_code": created.OwnReferralCode,
	})
}
