package models

import "time"

// Signup is one founding-member registration captured by the marketing site.
type Signup struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	FirstName          string    `gorm:"not null" json:"first_name"`
	LastName           string    `gorm:"not null" json:"last_name"`
	Email              string    `gorm:"index;not null" json:"email"`
	Phone              string    `json:"phone"`
	FacilityName       string    `gorm:"not null" json:"facility_name"`
	FacilityType       string    `gorm:"not null" json:"facility_type"`
	ResidentCount      int       `gorm:"not null" json:"resident_count"`
	PricingTier        string    `gorm:"not null" json:"pricing_tier"` // starter, professional, enterprise
	InterestedFeatures string    `json:"interested_features"`          // JSON-encoded list
	AdditionalNeeds    string    `json:"additional_needs"`
	UsedReferralCode   *string   `gorm:"column:used_referral_code" json:"used_referral_code"`
	OwnReferralCode    string    `gorm:"column:own_referral_code;uniqueIndex;size:32" json:"own_referral_code"`
	UTMSource          string    `gorm:"column:utm_source" json:"utm_source"`
	UTMMedium          string    `gorm:"column:utm_medium" json:"utm_medium"`
	UTMCampaign        string    `gorm:"column:utm_campaign" json:"utm_campaign"`
	UTMTerm            string    `gorm:"column:utm_term" json:"utm_term"`
	UTMContent         string    `gorm:"column:utm_content" json:"utm_content"`
	CreatedAt          time.Time `json:"created_at"`
}
