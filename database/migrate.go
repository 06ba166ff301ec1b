package database

import (
	"github.com/yeremiapane/storefront-api/models"
	"github.com/yeremiapane/storefront-api/utils"
	"gorm.io/gorm"
)

// Models berisi semua tabel yang dikelola AutoMigrate, urut dari parent ke child
func Models() []interface{} {
	return []interface{}{
		&models.Admin{},
		&models.Customer{},
		&models.Category{},
		&models.Product{},
		&models.ProductVariant{},
		&models.Order{},
		&models.OrderItem{},
		&models.ProductReview{},
		&models.AdminNotification{},
		&models.CustomerNotification{},
		&models.Setting{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}
