package referral

import (
	"math/rand"
	"strings"
)

const (
	codePrefix = "HARMONY"
	codeLength = 4

	// Excludes 0, O, I and 1, which are easy to confuse when a code is
	// read aloud or handwritten.
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	maxCodeAttempts = 10
)

// GenerateCode produces a random referral code of the form HARMONY-XXXX.
// Codes are not guaranteed unique; callers check against storage.
func GenerateCode() string {
	suffix := make([]byte, codeLength)
	for i := range suffix {
		suffix[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
	}
	return codePrefix + "-" + string(suffix)
}

// NormalizeCode trims surrounding whitespace and upper-cases a code so that
// lookups are case-insensitive.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
