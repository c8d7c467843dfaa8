package utils

import (
	"fmt"
	"log"
	"os"

	"harmonycare-server/referral"

	"gopkg.in/gomail.v2"
)

// sendEmail delivers one HTML email over SMTP. Delivery failures are logged
// and swallowed; email is always best-effort here.
func sendEmail(to, subject, htmlBody string) {
	m := gomail.NewMessage()
	m.SetHeader("From", os.Getenv("SMTP_SENDER"))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(
		os.Getenv("SMTP_HOST"),
		465,
		os.Getenv("SMTP_USER"),
		os.Getenv("SMTP_PASS"),
	)

	if err := d.DialAndSend(m); err != nil {
		log.Printf("Failed to send %q email to %s: %v", subject, to, err)
		return
	}

	log.Printf("Email %q sent to %s", subject, to)
}

// SendOTPEmail sends a verification OTP to the user's email address.
func SendOTPEmail(email string, otp string) {
	sendEmail(email, "Your HarmonyCare Verification Code",
		fmt.Sprintf("<p>Your verification code is: <strong>%s</strong></p><p>It expires in 10 minutes.</p>", otp))
}

// EmailSender implements referral.Mailer on top of SMTP.
type EmailSender struct{}

func NewEmailSender() *EmailSender {
	return &EmailSender{}
}

func (EmailSender) SendWelcomeEmail(email, firstName string) {
	sendEmail(email, "Welcome to HarmonyCare",
		fmt.Sprintf("<p>Hi %s,</p><p>Thank you for joining HarmonyCare as a founding member. Your discounted founding rate is locked in for life.</p><p>Our team will reach out shortly to get your facility set up.</p>", firstName))
}

func (EmailSender) SendReferralWelcomeEmail(email, firstName, referralCode string) {
	sendEmail(email, "Your HarmonyCare Referral Code",
		fmt.Sprintf("<p>Hi %s,</p><p>Share your personal referral code with other care facilities and earn rewards for every signup:</p><h2>%s</h2><p>Each successful referral unlocks additional discounts and founding-member perks.</p>", firstName, referralCode))
}

func (EmailSender) SendReferralSuccessEmail(email, firstName string, totalReferrals int) {
	sendEmail(email, "Your Referral Just Signed Up!",
		fmt.Sprintf("<p>Hi %s,</p><p>Great news — a facility you referred just joined HarmonyCare. You now have %d successful referral(s).</p>", firstName, totalReferrals))
}

func (EmailSender) SendMilestoneEmail(email, firstName string, tier referral.RewardTier, totalReferrals int) {
	sendEmail(email, fmt.Sprintf("You Reached %s %s!", tier.Badge, tier.Name),
		fmt.Sprintf("<p>Hi %s,</p><p>With %d successful referrals you have reached the <strong>%s</strong> tier.</p><p>Your new benefits:</p><p>%s</p>", firstName, totalReferrals, tier.Name, benefitsList(tier.Benefits)))
}

func benefitsList(benefits []string) string {
	html := "<ul>"
	for _, b := range benefits {
		html += "<li>" + b + "</li>"
	}
	return html + "</ul>"
}
