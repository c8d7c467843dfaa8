package store

import (
	"harmonycare-server/models"

	"gorm.io/gorm"
)

// ReferralStore is the GORM-backed implementation of referral.ReferralStore.
type ReferralStore struct {
	db *gorm.DB
}

func NewReferralStore(db *gorm.DB) *ReferralStore {
	return &ReferralStore{db: db}
}

func (s *ReferralStore) Create(referral *models.Referral) error {
	return s.db.Create(referral).Error
}

func (s *ReferralStore) CountByReferrer(referrerSignupID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Referral{}).Where("referrer_signup_id = ?", referrerSignupID).Count(&count).Error
	return count, err
}

func (s *ReferralStore) ByReferrer(referrerSignupID uint) ([]models.Referral, error) {
	var referrals []models.Referral
	err := s.db.Where("referrer_signup_id = ?", referrerSignupID).Order("created_at").Find(&referrals).Error
	if err != nil {
		return nil, err
	}
	return referrals, nil
}

func (s *ReferralStore) All() ([]models.Referral, error) {
	var referrals []models.Referral
	if err := s.db.Find(&referrals).Error; err != nil {
		return nil, err
	}
	return referrals, nil
}
