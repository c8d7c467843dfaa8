package referral

// RewardTier is a milestone level unlocked by cumulative successful
// referrals. Distinct from the product pricing tiers.
type RewardTier struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Badge             string   `json:"badge"`
	Color             string   `json:"color"`
	ReferralsRequired int      `json:"referrals_required"`
	Benefits          []string `json:"benefits"`
}

// Tiers is ordered by ReferralsRequired, strictly increasing.
var Tiers = []RewardTier{
	{
		ID:                "bronze",
		Name:              "Bronze Advocate",
		Badge:             "🥉",
		Color:             "#CD7F32",
		ReferralsRequired: 1,
		Benefits:          []string{"5% additional discount", "Bronze advocate badge"},
	},
	{
		ID:                "silver",
		Name:              "Silver Champion",
		Badge:             "🥈",
		Color:             "#C0C0C0",
		ReferralsRequired: 3,
		Benefits:          []string{"10% additional discount", "Priority support", "Silver champion badge"},
	},
	{
		ID:                "gold",
		Name:              "Gold Ambassador",
		Badge:             "🥇",
		Color:             "#FFD700",
		ReferralsRequired: 5,
		Benefits:          []string{"15% additional discount", "Free onboarding session", "Gold ambassador badge"},
	},
	{
		ID:                "platinum",
		Name:              "Platinum Partner",
		Badge:             "💎",
		Color:             "#E5E4E2",
		ReferralsRequired: 10,
		Benefits:          []string{"20% additional discount", "Dedicated account manager", "Platinum partner badge"},
	},
	{
		ID:                "diamond",
		Name:              "Diamond Elite",
		Badge:             "👑",
		Color:             "#B9F2FF",
		ReferralsRequired: 20,
		Benefits:          []string{"25% additional discount", "Lifetime founding rate", "Diamond elite badge"},
	},
}

// CurrentTier returns the highest tier earned at the given referral count,
// or nil when the count is below the lowest threshold.
func CurrentTier(referralCount int) *RewardTier {
	var current *RewardTier
	for i := range Tiers {
		if Tiers[i].ReferralsRequired <= referralCount {
			current = &Tiers[i]
		}
	}
	return current
}

// NextTier returns the lowest tier still above the given referral count, or
// nil once the highest tier is reached.
func NextTier(referralCount int) *RewardTier {
	for i := range Tiers {
		if Tiers[i].ReferralsRequired > referralCount {
			return &Tiers[i]
		}
	}
	return nil
}

// ProgressToNextTier reports progress from the current tier threshold toward
// the next one as a percentage in [0, 100]. Returns 100 at the top tier.
func ProgressToNextTier(referralCount int) float64 {
	next := NextTier(referralCount)
	if next == nil {
		return 100
	}

	previous := 0
	if current := CurrentTier(referralCount); current != nil {
		previous = current.ReferralsRequired
	}

	progress := float64(referralCount-previous) / float64(next.ReferralsRequired-previous) * 100
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}
