package referral

import (
	"math"
	"sort"

	"harmonycare-server/models"
)

// ReferrerStats is one row of the admin leaderboard.
type ReferrerStats struct {
	SignupID              uint   `json:"signup_id"`
	Name                  string `json:"name"`
	Email                 string `json:"email"`
	FacilityName          string `json:"facility_name"`
	ReferralCode          string `json:"referral_code"`
	TotalReferrals        int    `json:"total_referrals"`
	SuccessfulConversions int    `json:"successful_conversions"`
	ConversionRate        int    `json:"conversion_rate"`
	CurrentTier           string `json:"current_tier"`
}

// Analytics is the full referral rollup for the admin dashboard.
type Analytics struct {
	TotalReferrals              int             `json:"total_referrals"`
	TotalReferrers              int             `json:"total_referrers"`
	AverageReferralsPerReferrer float64         `json:"average_referrals_per_referrer"`
	ConversionRate              int             `json:"conversion_rate"`
	TopReferrers                []ReferrerStats `json:"top_referrers"`
	ReferralsByDay              map[string]int  `json:"referrals_by_day"`
	ReferralsByTier             map[string]int  `json:"referrals_by_tier"`
}

const (
	analyticsWindowDays = 30
	topReferrersLimit   = 10
)

// Analytics recomputes every rollup from full scans of both tables. Fine at
// lead-funnel volumes; an incremental counter table is the escape hatch if
// these tables ever grow large.
func (s *Service) Analytics() (*Analytics, error) {
	referrals, err := s.referrals.All()
	if err != nil {
		return nil, err
	}
	signups, err := s.signups.All()
	if err != nil {
		return nil, err
	}

	signupByID := make(map[uint]*models.Signup, len(signups))
	signupsWithOwnCode := 0
	for i := range signups {
		signupByID[signups[i].ID] = &signups[i]
		if signups[i].OwnReferralCode != "" {
			signupsWithOwnCode++
		}
	}

	now := s.now()
	cutoff := now.AddDate(0, 0, -analyticsWindowDays)

	countByReferrer := make(map[uint]int)
	byDay := make(map[string]int)
	byTier := make(map[string]int)
	for _, r := range referrals {
		countByReferrer[r.ReferrerSignupID]++
		if !r.CreatedAt.Before(cutoff) {
			byDay[r.CreatedAt.Format("2006-01-02")]++
		}
		if converted, ok := signupByID[r.ReferredSignupID]; ok {
			byTier[converted.PricingTier]++
		}
	}

	totalReferrals := len(referrals)
	totalReferrers := len(countByReferrer)

	average := 0.0
	if totalReferrers > 0 {
		average = math.Round(float64(totalReferrals)/float64(totalReferrers)*10) / 10
	}

	conversionRate := 0
	if signupsWithOwnCode > 0 {
		conversionRate = int(math.Round(float64(totalReferrals) / float64(signupsWithOwnCode) * 100))
	}

	top := make([]ReferrerStats, 0, totalReferrers)
	for id, count := range countByReferrer {
		referrer, ok := signupByID[id]
		if !ok {
			continue
		}

		// Every recorded referral is a conversion today, so these two
		// counts coincide; kept separate for when reward claiming lands.
		conversions := count
		rate := 0
		if count > 0 {
			rate = int(math.Round(float64(conversions) / float64(count) * 100))
		}

		tierName := ""
		if tier := CurrentTier(count); tier != nil {
			tierName = tier.Name
		}

		top = append(top, ReferrerStats{
			SignupID:              id,
			Name:                  referrer.FirstName + " " + referrer.LastName,
			Email:                 referrer.Email,
			FacilityName:          referrer.FacilityName,
			ReferralCode:          referrer.OwnReferralCode,
			TotalReferrals:        count,
			SuccessfulConversions: conversions,
			ConversionRate:        rate,
			CurrentTier:           tierName,
		})
	}

	// Ties break on ascending signup id so the leaderboard is stable
	// across calls.
	sort.Slice(top, func(i, j int) bool {
		if top[i].TotalReferrals != top[j].TotalReferrals {
			return top[i].TotalReferrals > top[j].TotalReferrals
		}
		return top[i].SignupID < top[j].SignupID
	})
	if len(top) > topReferrersLimit {
		top = top[:topReferrersLimit]
	}

	return &Analytics{
		TotalReferrals:              totalReferrals,
		TotalReferrers:              totalReferrers,
		AverageReferralsPerReferrer: average,
		ConversionRate:              conversionRate,
		TopReferrers:                top,
		ReferralsByDay:              byDay,
		ReferralsByTier:             byTier,
	}, nil
}
