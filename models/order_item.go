package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderItem struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"not null;index" json:"orderId"`
	ProductID        uint `gorm:"not null;index" json:"productId"`
	ProductVariantID uint `gorm:"not null;index" json:"productVariantId"`

	// Snapshot katalog saat order dibuat, tidak ikut berubah kalau produk diedit
	ProductName          string          `gorm:"type:varchar(255);not null" json:"productName"`
	ProductVariantWeight string          `gorm:"type:varchar(50);not null" json:"productVariantWeight"`
	UnitPrice            decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unitPrice"`
	Quantity             int             `gorm:"not null" json:"quantity"`
	TotalPrice           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"totalPrice"`
	Notes                string          `gorm:"type:text" json:"notes"`

	// Diisi saat GET detail order, tidak disimpan
	ProductImage string `gorm:"-" json:"productImage,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
