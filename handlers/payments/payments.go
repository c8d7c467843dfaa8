package payments

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"

	"harmonycare-server/models"
	"harmonycare-server/utils"

	"github.com/gin-gonic/gin"
	stripe "github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/paymentintent"
	"github.com/stripe/stripe-go/v80/webhook"
)

type CreateDepositIntentRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// CreateDepositIntent starts a Stripe payment for the founding member
// deposit of the authenticated member's signup.
func CreateDepositIntent(c *gin.Context) {
	var req CreateDepositIntentRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.Amount <= 0 || req.Currency == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount and currency are required"})
		return
	}

	userInterface, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}
	user := userInterface.(models.User)

	var signup models.Signup
	if err := utils.DB.Where("email = ?", user.Email).First(&signup).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Signup record not found"})
		return
	}

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.Amount),
		Currency: stripe.String(req.Currency),
		PaymentMethodTypes: stripe.StringSlice([]string{
			"card",
		}),
		ReceiptEmail: stripe.String(user.Email),
	}
	params.Metadata = map[string]string{
		"signup_id":    strconv.FormatUint(uint64(signup.ID), 10),
		"signup_email": signup.Email,
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"clientSecret": pi.ClientSecret,
	})
}

func HandleStripeWebhook(c *gin.Context) {
	const MaxBodyBytes = int64(65536)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Writer.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	endpointSecret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	event, err := webhook.ConstructEvent(payload, c.Request.Header.Get("Stripe-Signature"), endpointSecret)
	if err != nil {
		log.Printf("Webhook signature verification failed: %v", err)
		c.Writer.WriteHeader(http.StatusBadRequest)
		return
	}

	if event.Type == "payment_intent.succeeded" {
		var paymentIntent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &paymentIntent); err != nil {
			log.Printf("Error parsing webhook JSON: %v", err)
			c.Writer.WriteHeader(http.StatusBadRequest)
			return
		}

		handleDepositSuccess(paymentIntent)
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func handleDepositSuccess(paymentIntent stripe.PaymentIntent) {
	signupID := paymentIntent.Metadata["signup_id"]
	email := paymentIntent.Metadata["signup_email"]

	if signupID == "" || email == "" {
		log.Printf("PaymentIntent %s is missing signup metadata", paymentIntent.ID)
		return
	}

	var signup models.Signup
	if err := utils.DB.Where("id = ?", signupID).First(&signup).Error; err != nil {
		log.Printf("Failed to find signup %s for deposit: %v", signupID, err)
		return
	}

	// Deposits live in their own table; signup rows stay untouched.
	deposit := models.DepositPayment{
		PaymentIntentID: paymentIntent.ID,
		SignupID:        signup.ID,
		Email:           email,
		Amount:          paymentIntent.Amount,
		Currency:        string(paymentIntent.Currency),
		Status:          "succeeded",
	}
	if err := utils.DB.Create(&deposit).Error; err != nil {
		log.Printf("Failed to record deposit for signup %d: %v", signup.ID, err)
		return
	}

	log.Printf("Recorded founding member deposit for signup %d", signup.ID)
}
