package store

import (
	"errors"

	"harmonycare-server/models"
	"harmonycare-server/referral"

	"gorm.io/gorm"
)

// SignupStore is the GORM-backed implementation of referral.SignupStore.
type SignupStore struct {
	db *gorm.DB
}

func NewSignupStore(db *gorm.DB) *SignupStore {
	return &SignupStore{db: db}
}

func (s *SignupStore) Create(signup *models.Signup) error {
	if err := s.db.Create(signup).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return referral.ErrDuplicateCode
		}
		return err
	}
	return nil
}

func (s *SignupStore) ByID(id uint) (*models.Signup, error) {
	var signup models.Signup
	if err := s.db.First(&signup, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &signup, nil
}

func (s *SignupStore) ByEmail(email string) (*models.Signup, error) {
	var signup models.Signup
	if err := s.db.Where("email = ?", email).First(&signup).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &signup, nil
}

func (s *SignupStore) ByReferralCode(code string) (*models.Signup, error) {
	var signup models.Signup
	if err := s.db.Where("own_referral_code = ?", code).First(&signup).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &signup, nil
}

func (s *SignupStore) CodeExists(code string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.Signup{}).Where("own_referral_code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *SignupStore) SetOwnReferralCode(id uint, code string) error {
	err := s.db.Model(&models.Signup{}).Where("id = ?", id).Update("own_referral_code", code).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return referral.ErrDuplicateCode
	}
	return err
}

func (s *SignupStore) All() ([]models.Signup, error) {
	var signups []models.Signup
	if err := s.db.Find(&signups).Error; err != nil {
		return nil, err
	}
	return signups, nil
}
