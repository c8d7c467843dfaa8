package auth

import (
	"errors"
	"log"
	"net/http"
	"time"

	"harmonycare-server/models"
	"harmonycare-server/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RequestRegistrationOTP checks that a founding-member signup exists for the
// email and sends an OTP to start portal registration.
func RequestRegistrationOTP(c *gin.Context) {
	var input struct {
		Email string `json:"email"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data. Please provide a valid email address."})
		return
	}

	if input.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email address is required."})
		return
	}

	// Registration is only open to emails that completed the signup form.
	var signup models.Signup
	if err := utils.DB.Where("email = ?", input.Email).First(&signup).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No signup found for this email. Please complete the founding member signup first."})
		return
	}

	var user models.User
	err := utils.DB.Where("email = ?", input.Email).First(&user).Error
	if err == nil && user.Verified {
		c.JSON(http.StatusConflict, gin.H{"error": "An account already exists for this email. Please log in or use the forgot password option."})
		return
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Failed to look up user for registration: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "We encountered an issue processing your request. Please try again later."})
		return
	}

	otp := generateOTP()
	now := time.Now()

	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			Email:       input.Email,
			PhoneNumber: signup.Phone,
			Password:    "-", // placeholder until registration completes
			Role:        models.RoleMember,
		}
	}
	user.OTP = otp
	user.OTPGeneratedAt = &now

	if err := utils.DB.Save(&user).Error; err != nil {
		log.Printf("Failed to save registration OTP: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "We encountered an issue saving the OTP. Please try again later."})
		return
	}

	sendOTP(user.Email, otp)

	c.JSON(http.StatusOK, gin.H{"message": "OTP sent successfully to your email."})
}

// VerifyRegistrationOTP validates the OTP during registration
func VerifyRegistrationOTP(c *gin.Context) {
	var input struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data. Please ensure all required fields are filled correctly."})
		return
	}

	if input.Email == "" || input.OTP == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and OTP are required."})
		return
	}

	if _, ok := lookupUserForOTP(c, input.Email, input.OTP); !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "OTP verified successfully."})
}

// CompleteRegistration finalizes the registration process after OTP verification
func CompleteRegistration(c *gin.Context) {
	var input struct {
		Email       string `json:"email"`
		OTP         string `json:"otp"`
		NewPassword string `json:"new_password"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data. Please ensure all required fields are filled correctly."})
		return
	}

	if input.Email == "" || input.OTP == "" || input.NewPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email, OTP, and new password are required."})
		return
	}

	user, ok := lookupUserForOTP(c, input.Email, input.OTP)
	if !ok {
		return
	}

	if user.Verified {
		c.JSON(http.StatusConflict, gin.H{"error": "User already exists. Please log in or use the forgot password option."})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while processing your password. Please try again."})
		return
	}

	user.Password = string(hashedPassword)
	user.Verified = true
	user.OTP = ""
	user.OTPGeneratedAt = nil

	if err := utils.DB.Save(user).Error; err != nil {
		log.Printf("Failed to complete registration: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "We encountered an issue creating your account. Please contact support."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User registered successfully. You can now log in."})
}

// lookupUserForOTP fetches the user and checks the OTP, writing the error
// response itself when the check fails.
func lookupUserForOTP(c *gin.Context, email, otp string) (*models.User, bool) {
	var user models.User
	if err := utils.DB.Where("email = ?", email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found. Please check your email address."})
		return nil, false
	}

	if user.OTP == "" || user.OTPGeneratedAt == nil || user.OTPGeneratedAt.IsZero() {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "The OTP is missing or not properly set. Please request a new OTP."})
		return nil, false
	}

	if otp != user.OTP {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "The OTP is incorrect. Please try again or request a new one."})
		return nil, false
	}

	if time.Since(*user.OTPGeneratedAt) > otpValidityDuration {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "The OTP has expired. Please request a new OTP."})
		return nil, false
	}

	return &user, true
}
