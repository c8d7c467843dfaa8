package seed

import (
	"errors"
	"log"
	"os"
	"time"

	"harmonycare-server/models"
	"harmonycare-server/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdminUser creates the dashboard admin account from ADMIN_EMAIL and
// ADMIN_PASSWORD if it does not exist yet.
func SeedAdminUser() error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("ADMIN_EMAIL or ADMIN_PASSWORD not set. Skipping admin seeding.")
		return nil
	}

	var existing models.User
	err := utils.DB.Where("email = ?", email).First(&existing).Error
	if err == nil {
		log.Println("Admin user already exists. Skipping seeding.")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Email:    email,
		Password: string(hashedPassword),
		Verified: true,
		Role:     models.RoleAdmin,
	}

	if err := utils.DB.Create(&admin).Error; err != nil {
		return err
	}

	log.Println("Admin user seeded successfully.")
	return nil
}

// SeedPromotion ensures this month has a featured promotion for the
// marketing site banner.
func SeedPromotion() error {
	now := time.Now()
	month := int(now.Month())
	year := now.Year()

	var existing models.Promotion
	err := utils.DB.Where("month = ? AND year = ? AND featured = ?", month, year, true).First(&existing).Error
	if err == nil {
		log.Println("Featured monthly promotion already exists. Skipping seeding.")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	promotion := models.Promotion{
		Title:          "Founding Member Pricing",
		Description:    "Lock in your discounted founding member rate for life. Limited spots available.",
		BannerImageURL: "https://images.unsplash.com/photo-1576765608535-5f04d1e3f289?q=80&w=2070&auto=format&fit=crop",
		Month:          month,
		Year:           year,
		Featured:       true,
		Link:           "/signup",
	}

	if err := utils.DB.Create(&promotion).Error; err != nil {
		return err
	}

	log.Println("Featured monthly promotion seeded successfully.")
	return nil
}
