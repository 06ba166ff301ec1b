package models

import (
	"time"
)

type Customer struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"type:varchar(255);not null" json:"name"`
	Email string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	// Password nil untuk akun yang hanya login lewat Google
	Password  *string   `gorm:"type:varchar(255)" json:"-"`
	GoogleID  *string   `gorm:"type:varchar(255);uniqueIndex" json:"googleId,omitempty"`
	Whatsapp  string    `gorm:"type:varchar(30)" json:"whatsapp"`
	Address   string    `gorm:"type:text" json:"address"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
