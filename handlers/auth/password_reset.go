package auth

import (
	"log"
	"net/http"
	"time"

	"harmonycare-server/models"
	"harmonycare-server/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// RequestPasswordResetOTP handles password reset requests by generating and
// sending a new OTP via email
func RequestPasswordResetOTP(c *gin.Context) {
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

	var user models.User
	if err := utils.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found. Please check your email address."})
		return
	}

	otp := generateOTP()
	user.OTP = otp
	now := time.Now()
	user.OTPGeneratedAt = &now

	if err := utils.DB.Save(&user).Error; err != nil {
		log.Printf("Failed to update user with new OTP: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "We encountered an issue saving the OTP. Please try again later."})
		return
	}

	sendOTP(user.Email, otp)

	c.JSON(http.StatusOK, gin.H{"message": "OTP sent to your registered email address."})
}

// VerifyPasswordResetOTP validates the OTP during password reset
func VerifyPasswordResetOTP(c *gin.Context) {
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

// ResetPassword handles the password reset after verifying the OTP
func ResetPassword(c *gin.Context) {
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

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while processing your password. Please try again."})
		return
	}

	user.Password = string(hashedPassword)
	user.OTP = ""
	user.OTPGeneratedAt = nil

	if err := utils.DB.Save(user).Error; err != nil {
		log.Printf("Failed to update user password in the database: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "We encountered an issue updating your password. Please try again later."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Your password has been reset successfully. You can now log in with your new password."})
}
