package migrations

import (
	"harmonycare-server/models"
	"harmonycare-server/utils"
)

func MigratePromotions() {
	utils.DB.AutoMigrate(&models.Promotion{})
}
