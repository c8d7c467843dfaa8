package auth

import (
	"math/rand"
	"time"

	"harmonycare-server/utils"
)

const otpValidityDuration = 10 * time.Minute

// generateOTP generates a 6-digit OTP
func generateOTP() string {
	const digits = "0123456789"
	otp := make([]byte, 6)
	for i := range otp {
		otp[i] = digits[rand.Intn(len(digits))]
	}
	return string(otp)
}

// sendOTP sends the OTP via email
func sendOTP(email, otp string) {
	utils.SendOTPEmail(email, otp)
}
