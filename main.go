package main

import (
	"log"
	"os"
	"time"

	"harmonycare-server/handlers/admin"
	"harmonycare-server/handlers/auth"
	"harmonycare-server/handlers/payments"
	"harmonycare-server/handlers/promotions"
	"harmonycare-server/handlers/referrals"
	"harmonycare-server/handlers/signups"
	"harmonycare-server/migrations"
	"harmonycare-server/models"
	"harmonycare-server/referral"
	"harmonycare-server/seed"
	"harmonycare-server/store"
	"harmonycare-server/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env file:", err)
	}
}

func main() {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://www.harmonycare.health"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	utils.ConnectDatabase()

	migrations.MigrateReferrals()
	migrations.MigratePromotions()

	// Seed Initial Data
	if err := seed.SeedAdminUser(); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}
	if err := seed.SeedPromotion(); err != nil {
		log.Fatalf("Failed to seed promotion: %v", err)
	}

	// Wire the referral engine into the handler packages
	engine := referral.NewService(
		store.NewSignupStore(utils.DB),
		store.NewReferralStore(utils.DB),
		utils.NewEmailSender(),
	)
	signups.Engine = engine
	referrals.Engine = engine
	admin.Engine = engine

	// Public routes
	r.POST("/signup", signups.Create)
	r.POST("/referral/validate", referrals.ValidateCode)
	r.GET("/reward-tiers", referrals.GetRewardTiers)
	r.GET("/promotions/current", promotions.GetCurrentPromotion)
	r.POST("/login", auth.Login)
	r.POST("/refresh-token", auth.RefreshToken)
	r.POST("/register/request-otp", auth.RequestRegistrationOTP)
	r.POST("/register/verify-otp", auth.VerifyRegistrationOTP)
	r.POST("/register/complete", auth.CompleteRegistration)
	r.POST("/request-otp-reset", auth.RequestPasswordResetOTP)
	r.POST("/verify-otp-reset", auth.VerifyPasswordResetOTP)
	r.POST("/reset-password", auth.ResetPassword)
	r.POST("/stripe/webhook", payments.HandleStripeWebhook)

	protected := r.Group("/")
	protected.Use(auth.AuthMiddleware())
	{
		protected.POST("/logout", auth.Logout)
		protected.GET("/referrals/mine", referrals.GetMyReferrals)
		protected.POST("/deposit-intent", payments.CreateDepositIntent)
	}

	adminRoutes := r.Group("/admin")
	adminRoutes.Use(auth.AuthMiddleware(), auth.AdminMiddleware())
	{
		adminRoutes.GET("/analytics", admin.GetAnalytics)
		adminRoutes.GET("/signups", admin.GetSignups)
	}

	// Migrate models
	utils.DB.AutoMigrate(&models.User{})
	utils.DB.AutoMigrate(&models.DepositPayment{})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
