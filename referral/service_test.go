package referral

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"harmonycare-server/models"
)

type memSignupStore struct {
	nextID  uint
	byID    map[uint]*models.Signup
	lookups int

	failCreate       error
	dupCreates       int // number of Creates to reject with ErrDuplicateCode
	codeAlwaysExists bool
}

func newMemSignupStore() *memSignupStore {
	return &memSignupStore{byID: map[uint]*models.Signup{}}
}

func (m *memSignupStore) Create(s *models.Signup) error {
	if m.failCreate != nil {
		return m.failCreate
	}
	if m.dupCreates > 0 {
		m.dupCreates--
		return ErrDuplicateCode
	}
	for _, existing := range m.byID {
		if existing.OwnReferralCode != "" && existing.OwnReferralCode == s.OwnReferralCode {
			return ErrDuplicateCode
		}
	}
	m.nextID++
	s.ID = m.nextID
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	copied := *s
	m.byID[s.ID] = &copied
	return nil
}

func (m *memSignupStore) ByID(id uint) (*models.Signup, error) {
	if s, ok := m.byID[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, nil
}

func (m *memSignupStore) ByEmail(email string) (*models.Signup, error) {
	var match *models.Signup
	for _, s := range m.byID {
		if s.Email == email && (match == nil || s.ID < match.ID) {
			match = s
		}
	}
	if match == nil {
		return nil, nil
	}
	copied := *match
	return &copied, nil
}

func (m *memSignupStore) ByReferralCode(code string) (*models.Signup, error) {
	m.lookups++
	for _, s := range m.byID {
		if s.OwnReferralCode == code {
			copied := *s
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memSignupStore) CodeExists(code string) (bool, error) {
	if m.codeAlwaysExists {
		return true, nil
	}
	for _, s := range m.byID {
		if s.OwnReferralCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (m *memSignupStore) SetOwnReferralCode(id uint, code string) error {
	s, ok := m.byID[id]
	if !ok {
		return errors.New("not found")
	}
	s.OwnReferralCode = code
	return nil
}

func (m *memSignupStore) All() ([]models.Signup, error) {
	out := make([]models.Signup, 0, len(m.byID))
	for i := uint(1); i <= m.nextID; i++ {
		if s, ok := m.byID[i]; ok {
			out = append(out, *s)
		}
	}
	return out, nil
}

type memReferralStore struct {
	nextID     uint
	rows       []models.Referral
	failCreate error
}

func (m *memReferralStore) Create(r *models.Referral) error {
	if m.failCreate != nil {
		return m.failCreate
	}
	m.nextID++
	r.ID = m.nextID
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	m.rows = append(m.rows, *r)
	return nil
}

func (m *memReferralStore) CountByReferrer(referrerSignupID uint) (int64, error) {
	var count int64
	for _, r := range m.rows {
		if r.ReferrerSignupID == referrerSignupID {
			count++
		}
	}
	return count, nil
}

func (m *memReferralStore) ByReferrer(referrerSignupID uint) ([]models.Referral, error) {
	var out []models.Referral
	for _, r := range m.rows {
		if r.ReferrerSignupID == referrerSignupID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memReferralStore) All() ([]models.Referral, error) {
	out := make([]models.Referral, len(m.rows))
	copy(out, m.rows)
	return out, nil
}

type sentEmail struct {
	to    string
	extra string
}

type memMailer struct {
	welcome         []sentEmail
	referralWelcome []sentEmail
	success         []sentEmail
	milestones      []RewardTier
}

func (m *memMailer) SendWelcomeEmail(email, firstName string) {
	m.welcome = append(m.welcome, sentEmail{to: email})
}

func (m *memMailer) SendReferralWelcomeEmail(email, firstName, referralCode string) {
	m.referralWelcome = append(m.referralWelcome, sentEmail{to: email, extra: referralCode})
}

func (m *memMailer) SendReferralSuccessEmail(email, firstName string, totalReferrals int) {
	m.success = append(m.success, sentEmail{to: email})
}

func (m *memMailer) SendMilestoneEmail(email, firstName string, tier RewardTier, totalReferrals int) {
	m.milestones = append(m.milestones, tier)
}

func newTestService() (*Service, *memSignupStore, *memReferralStore, *memMailer) {
	signups := newMemSignupStore()
	referrals := &memReferralStore{}
	mailer := &memMailer{}
	return NewService(signups, referrals, mailer), signups, referrals, mailer
}

func seedSignup(t *testing.T, store *memSignupStore, email, code, pricingTier string) *models.Signup {
	t.Helper()
	s := &models.Signup{
		FirstName:       "Jane",
		LastName:        "Doe",
		Email:           email,
		FacilityName:    "Sunrise Care",
		FacilityType:    "assisted_living",
		ResidentCount:   40,
		PricingTier:     pricingTier,
		OwnReferralCode: code,
	}
	if err := store.Create(s); err != nil {
		t.Fatalf("seed signup failed: %v", err)
	}
	return s
}

var codePattern = regexp.MustCompile(`^HARMONY-[ABCDEFGHJKLMNPQRSTUVWXYZ23456789]{4}$`)

func basicInput(email string) SignupInput {
	return SignupInput{
		FirstName:     "Sam",
		LastName:      "Lee",
		Email:         email,
		FacilityName:  "Maple Grove",
		FacilityType:  "memory_care",
		ResidentCount: 25,
		PricingTier:   "professional",
	}
}

func TestValidateCodeEmptyInput(t *testing.T) {
	svc, signups, _, _ := newTestService()

	for _, code := range []string{"", "   ", "\t"} {
		match, err := svc.ValidateCode(code)
		if err != nil {
			t.Fatalf("ValidateCode(%q) returned error: %v", code, err)
		}
		if match != nil {
			t.Fatalf("ValidateCode(%q) expected nil match", code)
		}
	}
	if signups.lookups != 0 {
		t.Fatalf("expected no storage lookups for blank input, got %d", signups.lookups)
	}
}

func TestValidateCodeCaseInsensitive(t *testing.T) {
	svc, signups, _, _ := newTestService()
	referrer := seedSignup(t, signups, "referrer@example.com", "HARMONY-AB22", "starter")

	match, err := svc.ValidateCode("  harmony-ab22 ")
	if err != nil {
		t.Fatalf("ValidateCode failed: %v", err)
	}
	if match == nil || match.ID != referrer.ID {
		t.Fatalf("expected referrer %d, got %+v", referrer.ID, match)
	}
}

func TestValidateCodeUnknown(t *testing.T) {
	svc, _, _, _ := newTestService()

	match, err := svc.ValidateCode("HARMONY-ZZZZ")
	if err != nil {
		t.Fatalf("unknown code should not error: %v", err)
	}
	if match != nil {
		t.Fatalf("expected nil match for unknown code")
	}
}

func TestCreateSignupWithoutCode(t *testing.T) {
	svc, signups, referrals, mailer := newTestService()

	created, err := svc.CreateSignup(basicInput("new@example.com"))
	if err != nil {
		t.Fatalf("signup without code failed: %v", err)
	}
	if !codePattern.MatchString(created.OwnReferralCode) {
		t.Fatalf("own code %q does not match expected format", created.OwnReferralCode)
	}
	if created.UsedReferralCode != nil {
		t.Fatalf("expected no used code, got %v", *created.UsedReferralCode)
	}
	if len(referrals.rows) != 0 {
		t.Fatalf("expected no referral rows, got %d", len(referrals.rows))
	}
	if len(mailer.welcome) != 1 || mailer.welcome[0].to != "new@example.com" {
		t.Fatalf("expected one welcome email to the new signup")
	}
	if len(mailer.referralWelcome) != 1 || mailer.referralWelcome[0].extra != created.OwnReferralCode {
		t.Fatalf("expected referral welcome email carrying the new code")
	}
	if stored, _ := signups.ByID(created.ID); stored == nil {
		t.Fatalf("signup was not persisted")
	}
}

func TestCreateSignupInvalidCode(t *testing.T) {
	svc, signups, referrals, mailer := newTestService()

	_, err := svc.CreateSignup(SignupInput{
		FirstName:     "Sam",
		LastName:      "Lee",
		Email:         "new@example.com",
		FacilityName:  "Maple Grove",
		FacilityType:  "memory_care",
		ResidentCount: 25,
		PricingTier:   "starter",
		ReferralCode:  "BOGUS",
	})
	if !errors.Is(err, ErrInvalidReferralCode) {
		t.Fatalf("expected ErrInvalidReferralCode, got %v", err)
	}
	if len(signups.byID) != 0 {
		t.Fatalf("no signup should be created on invalid code")
	}
	if len(referrals.rows) != 0 {
		t.Fatalf("no referral should be created on invalid code")
	}
	if len(mailer.welcome) != 0 {
		t.Fatalf("no emails should be sent on invalid code")
	}
}

func TestCreateSignupWithReferral(t *testing.T) {
	svc, signups, referrals, mailer := newTestService()
	referrer := seedSignup(t, signups, "referrer@example.com", "HARMONY-AB22", "starter")

	input := basicInput("friend@example.com")
	input.ReferralCode = "harmony-ab22" // lowercase on purpose
	created, err := svc.CreateSignup(input)
	if err != nil {
		t.Fatalf("signup with valid code failed: %v", err)
	}

	if created.UsedReferralCode == nil || *created.UsedReferralCode != "HARMONY-AB22" {
		t.Fatalf("expected normalized used code, got %v", created.UsedReferralCode)
	}
	if len(referrals.rows) != 1 {
		t.Fatalf("expected exactly one referral row, got %d", len(referrals.rows))
	}
	row := referrals.rows[0]
	if row.ReferrerSignupID != referrer.ID || row.ReferredSignupID != created.ID {
		t.Fatalf("referral row links wrong signups: %+v", row)
	}
	if row.RewardStatus != models.RewardStatusPending || row.RewardType != "discount" || row.RewardValue != "5%" {
		t.Fatalf("unexpected reward fields: %+v", row)
	}

	if len(mailer.success) != 1 || mailer.success[0].to != "referrer@example.com" {
		t.Fatalf("expected a success email to the referrer")
	}
	// 0 -> 1 crosses into bronze
	if len(mailer.milestones) != 1 || mailer.milestones[0].ID != "bronze" {
		t.Fatalf("expected a bronze milestone email, got %+v", mailer.milestones)
	}
}

func TestMilestoneOnlyOnTierChange(t *testing.T) {
	svc, signups, referrals, mailer := newTestService()
	referrer := seedSignup(t, signups, "referrer@example.com", "HARMONY-AB22", "starter")
	first := seedSignup(t, signups, "first@example.com", "HARMONY-CD33", "starter")
	referrals.Create(&models.Referral{
		ReferrerSignupID: referrer.ID,
		ReferredSignupID: first.ID,
		ReferralCode:     "HARMONY-AB22",
		RewardStatus:     models.RewardStatusPending,
	})

	// 1 -> 2 stays within bronze, no milestone
	input := basicInput("second@example.com")
	input.ReferralCode = "HARMONY-AB22"
	if _, err := svc.CreateSignup(input); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if len(mailer.milestones) != 0 {
		t.Fatalf("expected no milestone at 2 referrals, got %+v", mailer.milestones)
	}

	// 2 -> 3 crosses into silver
	input = basicInput("third@example.com")
	input.ReferralCode = "HARMONY-AB22"
	if _, err := svc.CreateSignup(input); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if len(mailer.milestones) != 1 || mailer.milestones[0].ID != "silver" {
		t.Fatalf("expected a silver milestone at 3 referrals, got %+v", mailer.milestones)
	}
}

func TestReferralRecordFailureDoesNotFailSignup(t *testing.T) {
	svc, signups, referrals, mailer := newTestService()
	seedSignup(t, signups, "referrer@example.com", "HARMONY-AB22", "starter")
	referrals.failCreate = errors.New("db gone")

	input := basicInput("friend@example.com")
	input.ReferralCode = "HARMONY-AB22"
	created, err := svc.CreateSignup(input)
	if err != nil {
		t.Fatalf("signup must survive referral bookkeeping failure, got %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("signup was not persisted")
	}
	if len(mailer.welcome) != 1 {
		t.Fatalf("welcome email should still be sent")
	}
}

func TestCreateSignupCodeSpaceExhausted(t *testing.T) {
	svc, signups, _, mailer := newTestService()
	signups.codeAlwaysExists = true

	_, err := svc.CreateSignup(basicInput("new@example.com"))
	if !errors.Is(err, ErrCodeExhausted) {
		t.Fatalf("expected ErrCodeExhausted, got %v", err)
	}
	if len(mailer.welcome) != 0 {
		t.Fatalf("no emails on failed signup")
	}
}

func TestCreateSignupRetriesOnDuplicateInsert(t *testing.T) {
	svc, signups, _, _ := newTestService()
	signups.dupCreates = 2

	created, err := svc.CreateSignup(basicInput("new@example.com"))
	if err != nil {
		t.Fatalf("signup should recover from duplicate-key inserts: %v", err)
	}
	if !codePattern.MatchString(created.OwnReferralCode) {
		t.Fatalf("own code %q does not match expected format", created.OwnReferralCode)
	}
}

func TestStatsForEmail(t *testing.T) {
	svc, signups, referrals, _ := newTestService()
	referrer := seedSignup(t, signups, "referrer@example.com", "HARMONY-AB22", "starter")
	first := seedSignup(t, signups, "first@example.com", "HARMONY-CD33", "starter")
	second := seedSignup(t, signups, "second@example.com", "HARMONY-EF44", "professional")
	for _, referred := range []*models.Signup{first, second} {
		referrals.Create(&models.Referral{
			ReferrerSignupID: referrer.ID,
			ReferredSignupID: referred.ID,
			ReferralCode:     "HARMONY-AB22",
			RewardStatus:     models.RewardStatusPending,
		})
	}

	stats, err := svc.StatsForEmail("referrer@example.com")
	if err != nil {
		t.Fatalf("StatsForEmail failed: %v", err)
	}
	if stats.TotalReferrals != 2 {
		t.Fatalf("expected 2 referrals, got %d", stats.TotalReferrals)
	}
	if stats.CurrentTier == nil || stats.CurrentTier.ID != "bronze" {
		t.Fatalf("expected bronze tier, got %+v", stats.CurrentTier)
	}
	if stats.NextTier == nil || stats.NextTier.ID != "silver" {
		t.Fatalf("expected silver as next tier, got %+v", stats.NextTier)
	}
	if len(stats.ReferredUsers) != 2 {
		t.Fatalf("expected 2 referred users, got %d", len(stats.ReferredUsers))
	}
	if stats.ReferredUsers[0].Name != "Jane Doe" {
		t.Fatalf("unexpected referred user name %q", stats.ReferredUsers[0].Name)
	}
}

func TestStatsForEmailNotFound(t *testing.T) {
	svc, _, _, _ := newTestService()

	if _, err := svc.StatsForEmail("ghost@example.com"); !errors.Is(err, ErrSignupNotFound) {
		t.Fatalf("expected ErrSignupNotFound, got %v", err)
	}
}

func TestStatsForEmailBackfillsMissingCode(t *testing.T) {
	svc, signups, _, _ := newTestService()
	legacy := seedSignup(t, signups, "legacy@example.com", "", "starter")

	stats, err := svc.StatsForEmail("legacy@example.com")
	if err != nil {
		t.Fatalf("StatsForEmail failed: %v", err)
	}
	if !codePattern.MatchString(stats.ReferralCode) {
		t.Fatalf("backfilled code %q does not match expected format", stats.ReferralCode)
	}

	stored, _ := signups.ByID(legacy.ID)
	if stored.OwnReferralCode != stats.ReferralCode {
		t.Fatalf("backfilled code was not persisted")
	}
}
