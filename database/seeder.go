package database

import (
	"errors"

	"github.com/yeremiapane/storefront-api/models"
	"github.com/yeremiapane/storefront-api/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultSettings diisi sekali saat database masih kosong
var DefaultSettings = map[string]string{
	"store_name":      "Storefront",
	"store_whatsapp":  "",
	"store_address":   "",
	"delivery_days":   "selasa,kamis,sabtu",
	"bank_account":    "",
	"pickup_location": "",
}

type SeedOptions struct {
	AdminName     string
	AdminEmail    string
	AdminPassword string
	StoreName     string
}

// Seed membuat admin awal dan setting default. Aman dipanggil berulang kali.
func Seed(db *gorm.DB, opts SeedOptions) error {
	if opts.AdminEmail != "" && opts.AdminPassword != "" {
		var existing models.Admin
		err := db.Where("email = ?", opts.AdminEmail).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			hashed, err := bcrypt.GenerateFromPassword([]byte(opts.AdminPassword), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			name := opts.AdminName
			if name == "" {
				name = "Administrator"
			}
			admin := models.Admin{Name: name, Email: opts.AdminEmail, Password: string(hashed)}
			if err := db.Create(&admin).Error; err != nil {
				return err
			}
			utils.InfoLogger.Printf("Seeded admin: %s", admin.Email)
		case err != nil:
			return err
		}
	}

	for key, value := range DefaultSettings {
		if key == "store_name" && opts.StoreName != "" {
			value = opts.StoreName
		}
		setting := models.Setting{Key: key, Value: value}
		if err := db.Where(models.Setting{Key: key}).FirstOrCreate(&setting).Error; err != nil {
			return err
		}
	}

	return nil
}
