package referral

import "time"

// ReferredUser is one conversion shown on a member's referral dashboard.
type ReferredUser struct {
	Name         string    `json:"name"`
	FacilityName string    `json:"facility_name"`
	JoinedAt     time.Time `json:"joined_at"`
	RewardStatus string    `json:"reward_status"`
}

// MemberStats backs the "my referrals" view for one signup.
type MemberStats struct {
	ReferralCode       string         `json:"referral_code"`
	TotalReferrals     int            `json:"total_referrals"`
	CurrentTier        *RewardTier    `json:"current_tier"`
	NextTier           *RewardTier    `json:"next_tier"`
	ProgressToNextTier float64        `json:"progress_to_next_tier"`
	ReferredUsers      []ReferredUser `json:"referred_users"`
}

// StatsForEmail resolves the signup matching the given email and assembles
// its referral stats. Signups created before code provisioning existed get
// their own code backfilled here.
func (s *Service) StatsForEmail(email string) (*MemberStats, error) {
	signup, err := s.signups.ByEmail(email)
	if err != nil {
		return nil, err
	}
	if signup == nil {
		return nil, ErrSignupNotFound
	}

	if signup.OwnReferralCode == "" {
		code, err := s.generateUniqueCode()
		if err != nil {
			return nil, err
		}
		if err := s.signups.SetOwnReferralCode(signup.ID, code); err != nil {
			return nil, err
		}
		signup.OwnReferralCode = code
	}

	referrals, err := s.referrals.ByReferrer(signup.ID)
	if err != nil {
		return nil, err
	}

	referred := make([]ReferredUser, 0, len(referrals))
	for _, r := range referrals {
		converted, err := s.signups.ByID(r.ReferredSignupID)
		if err != nil {
			return nil, err
		}
		if converted == nil {
			continue
		}
		referred = append(referred, ReferredUser{
			Name:         converted.FirstName + " " + converted.LastName,
			FacilityName: converted.FacilityName,
			JoinedAt:     r.CreatedAt,
			RewardStatus: r.RewardStatus,
		})
	}

	total := len(referrals)
	return &MemberStats{
		ReferralCode:       signup.OwnReferralCode,
		TotalReferrals:     total,
		CurrentTier:        CurrentTier(total),
		NextTier:           NextTier(total),
		ProgressToNextTier: ProgressToNextTier(total),
		ReferredUsers:      referred,
	}, nil
}
