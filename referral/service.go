package referral

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"harmonycare-server/models"
)

// Reward policy applied to every recorded referral.
const (
	rewardType  = "discount"
	rewardValue = "5%"
)

var (
	// ErrInvalidReferralCode rejects a signup whose supplied code does not
	// resolve to any referrer.
	ErrInvalidReferralCode = errors.New("Invalid referral code")

	// ErrCodeExhausted is returned when a unique code could not be minted
	// within the retry budget.
	ErrCodeExhausted = errors.New("could not generate a unique referral code")

	// ErrDuplicateCode is returned by stores when an insert hits the
	// uniqueness constraint on own_referral_code.
	ErrDuplicateCode = errors.New("referral code already in use")

	// ErrSignupNotFound is returned when no signup matches the caller's
	// email.
	ErrSignupNotFound = errors.New("Signup record not found")
)

// SignupStore is the persistence surface the engine needs for signups.
// Lookup methods return (nil, nil) when no row matches.
type SignupStore interface {
	Create(signup *models.Signup) error
	ByID(id uint) (*models.Signup, error)
	ByEmail(email string) (*models.Signup, error)
	ByReferralCode(code string) (*models.Signup, error)
	CodeExists(code string) (bool, error)
	SetOwnReferralCode(id uint, code string) error
	All() ([]models.Signup, error)
}

// ReferralStore is the persistence surface for referral relationships.
type ReferralStore interface {
	Create(referral *models.Referral) error
	CountByReferrer(referrerSignupID uint) (int64, error)
	ByReferrer(referrerSignupID uint) ([]models.Referral, error)
	All() ([]models.Referral, error)
}

// Mailer delivers notification emails. Implementations log and swallow
// delivery failures; nothing here may fail a signup.
type Mailer interface {
	SendWelcomeEmail(email, firstName string)
	SendReferralWelcomeEmail(email, firstName, referralCode string)
	SendReferralSuccessEmail(email, firstName string, totalReferrals int)
	SendMilestoneEmail(email, firstName string, tier RewardTier, totalReferrals int)
}

// Service is the referral engine: code minting, validation, referral
// recording, the signup workflow and analytics rollups.
type Service struct {
	signups   SignupStore
	referrals ReferralStore
	mailer    Mailer
	now       func() time.Time
}

func NewService(signups SignupStore, referrals ReferralStore, mailer Mailer) *Service {
	return &Service{
		signups:   signups,
		referrals: referrals,
		mailer:    mailer,
		now:       time.Now,
	}
}

// SignupInput carries the validated fields of a signup submission.
type SignupInput struct {
	FirstName          string
	LastName           string
	Email              string
	Phone              string
	FacilityName       string
	FacilityType       string
	ResidentCount      int
	PricingTier        string
	InterestedFeatures []string
	AdditionalNeeds    string
	ReferralCode       string
	UTMSource          string
	UTMMedium          string
	UTMCampaign        string
	UTMTerm            string
	UTMContent         string
}

// ValidateCode resolves a referral code to the signup that owns it. Empty or
// whitespace-only input is invalid without a storage lookup, and an unknown
// code is a normal outcome rather than an error.
func (s *Service) ValidateCode(code string) (*models.Signup, error) {
	normalized := NormalizeCode(code)
	if normalized == "" {
		return nil, nil
	}
	return s.signups.ByReferralCode(normalized)
}

// CreateSignup runs the signup workflow: referral-code validation, own-code
// minting, persistence, referral recording and notification emails. Only the
// invalid-code check and the signup insert itself can fail the operation;
// everything after the insert is best-effort.
func (s *Service) CreateSignup(input SignupInput) (*models.Signup, error) {
	var referrer *models.Signup
	usedCode := NormalizeCode(input.ReferralCode)
	if usedCode != "" {
		match, err := s.signups.ByReferralCode(usedCode)
		if err != nil {
			return nil, err
		}
		if match == nil {
			return nil, ErrInvalidReferralCode
		}
		referrer = match
	}

	features := "[]"
	if len(input.InterestedFeatures) > 0 {
		encoded, err := json.Marshal(input.InterestedFeatures)
		if err != nil {
			return nil, err
		}
		features = string(encoded)
	}

	signup := &models.Signup{
		FirstName:          input.FirstName,
		LastName:           input.LastName,
		Email:              input.Email,
		Phone:              input.Phone,
		FacilityName:       input.FacilityName,
		FacilityType:       input.FacilityType,
		ResidentCount:      input.ResidentCount,
		PricingTier:        input.PricingTier,
		InterestedFeatures: features,
		AdditionalNeeds:    input.AdditionalNeeds,
		UTMSource:          input.UTMSource,
		UTMMedium:          input.UTMMedium,
		UTMCampaign:        input.UTMCampaign,
		UTMTerm:            input.UTMTerm,
		UTMContent:         input.UTMContent,
	}
	if usedCode != "" {
		signup.UsedReferralCode = &usedCode
	}

	// The uniqueness constraint on own_referral_code is the authoritative
	// guard; the existence check just keeps retries cheap. A duplicate-key
	// insert mints a fresh code and tries again.
	created := false
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := s.generateUniqueCode()
		if err != nil {
			return nil, err
		}
		signup.OwnReferralCode = code

		err = s.signups.Create(signup)
		if err == nil {
			created = true
			break
		}
		if errors.Is(err, ErrDuplicateCode) {
			continue
		}
		return nil, err
	}
	if !created {
		return nil, ErrCodeExhausted
	}

	var priorReferrals int
	if referrer != nil {
		count, err := s.referrals.CountByReferrer(referrer.ID)
		if err != nil {
			log.Printf("Failed to count referrals for signup %d: %v", referrer.ID, err)
		} else {
			priorReferrals = int(count)
		}

		if err := s.recordReferral(referrer.ID, signup.ID, usedCode); err != nil {
			// Referral bookkeeping must not undo the signup.
			log.Printf("Failed to record referral %d -> %d: %v", referrer.ID, signup.ID, err)
		}
	}

	s.mailer.SendWelcomeEmail(signup.Email, signup.FirstName)
	s.mailer.SendReferralWelcomeEmail(signup.Email, signup.FirstName, signup.OwnReferralCode)

	if referrer != nil {
		total := priorReferrals + 1
		s.mailer.SendReferralSuccessEmail(referrer.Email, referrer.FirstName, total)

		before := CurrentTier(priorReferrals)
		after := CurrentTier(total)
		if after != nil && (before == nil || before.ID != after.ID) {
			s.mailer.SendMilestoneEmail(referrer.Email, referrer.FirstName, *after, total)
		}
	}

	return signup, nil
}

// generateUniqueCode mints codes until one is unused or the retry budget
// runs out.
func (s *Service) generateUniqueCode() (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := GenerateCode()
		exists, err := s.signups.CodeExists(code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", ErrCodeExhausted
}

func (s *Service) recordReferral(referrerSignupID, referredSignupID uint, code string) error {
	return s.referrals.Create(&models.Referral{
		ReferrerSignupID: referrerSignupID,
		ReferredSignupID: referredSignupID,
		ReferralCode:     code,
		RewardStatus:     models.RewardStatusPending,
		RewardType:       rewardType,
		RewardValue:      rewardValue,
	})
}
