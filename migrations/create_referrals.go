package migrations

import (
	"harmonycare-server/models"
	"harmonycare-server/utils"
)

func MigrateReferrals() {
	utils.DB.AutoMigrate(&models.Signup{}, &models.Referral{})
}
