package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	CategoryID  *uint            `gorm:"index" json:"categoryId"`
	Category    *Category        `gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"category,omitempty"`
	Name        string           `gorm:"type:varchar(255);not null" json:"name"`
	Slug        string           `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	Description string           `gorm:"type:text" json:"description"`
	ImageURL    string           `gorm:"type:varchar(500)" json:"imageUrl"`
	Rating      float64          `gorm:"not null;default:0" json:"rating"`
	ReviewCount int              `gorm:"not null;default:0" json:"reviewCount"`
	IsActive    bool             `gorm:"not null" json:"isActive"`
	Variants    []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"variants,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

type ProductVariant struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProductID uint   `gorm:"not null;index" json:"productId"`
	Weight    string `gorm:"type:varchar(50);not null" json:"weight"`
	SKU       string `gorm:"column:sku;type:varchar(100);uniqueIndex;not null" json:"sku"`
	// Price adalah harga satuan yang dipakai saat order dibuat
	Price decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	// OriginalPrice hanya untuk tampilan diskon, 0 berarti tidak ada diskon
	OriginalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"originalPrice"`
	Stock         int             `gorm:"not null;default:0" json:"stock"`
	InStock       bool            `gorm:"not null" json:"inStock"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// DiscountPercent menghitung persentase diskon dari OriginalPrice, dibulatkan ke bilangan bulat.
func (v ProductVariant) DiscountPercent() int {
	if !v.OriginalPrice.IsPositive() || v.Price.GreaterThanOrEqual(v.OriginalPrice) {
		return 0
	}
	pct := v.OriginalPrice.Sub(v.Price).Div(v.OriginalPrice).Mul(decimal.NewFromInt(100))
	return int(pct.Round(0).IntPart())
}
