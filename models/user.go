package models

import (
	"time"

	"gorm.io/gorm"
)

// Portal account roles.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

type User struct {
	gorm.Model
	Email          string     `gorm:"unique;not null" json:"email"`
	PhoneNumber    string     `json:"phone_number"`
	Password       string     `gorm:"not null" json:"-"`
	Verified       bool       `gorm:"default:false" json:"verified"`
	Role           string     `gorm:"not null;default:member" json:"role"`
	OTP            string     `gorm:"column:otp" json:"-"`
	OTPGeneratedAt *time.Time `gorm:"column:otp_generated_at" json:"-"`
	RefreshToken   string     `gorm:"column:refresh_token" json:"-"`
	LastLogoutAt   *time.Time `gorm:"column:last_logout_at" json:"-"`
}
