package models

import "gorm.io/gorm"

type DepositPayment struct {
	gorm.Model
	PaymentIntentID string `gorm:"unique;not null"`
	SignupID        uint   `gorm:"index;not null"`
	Email           string `gorm:"not null"`
	Amount          int64  `gorm:"not null"` // smallest currency unit
	Currency        string `gorm:"not null"`
	Status          string `gorm:"not null"` // e.g. "pending", "succeeded", "failed"
}
