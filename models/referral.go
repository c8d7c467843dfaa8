package models

import "time"

// Reward statuses. The pending -> applied -> claimed lifecycle is modeled
// but nothing transitions it yet.
const (
	RewardStatusPending = "pending"
	RewardStatusApplied = "applied"
	RewardStatusClaimed = "claimed"
)

// Referral records one successful conversion attributed to a referrer.
type Referral struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	ReferrerSignupID uint      `gorm:"column:referrer_signup_id;index;not null" json:"referrer_signup_id"`
	ReferredSignupID uint      `gorm:"column:referred_signup_id;uniqueIndex;not null" json:"referred_signup_id"`
	ReferralCode     string    `gorm:"not null" json:"referral_code"`
	RewardStatus     string    `gorm:"not null" json:"reward_status"`
	RewardType       string    `gorm:"not null" json:"reward_type"` // e.g. "discount"
	RewardValue      string    `gorm:"not null" json:"reward_value"`
	CreatedAt        time.Time `json:"created_at"`
}
