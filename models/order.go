package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status order
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Metode pengiriman & pembayaran
const (
	ShippingExpress = "express"
	ShippingPickup  = "pickup"

	PaymentTransfer = "transfer"
	PaymentCOD      = "cod"
)

// Hari pengiriman untuk express
const (
	DeliverySelasa = "selasa"
	DeliveryKamis  = "kamis"
	DeliverySabtu  = "sabtu"
)

var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusProcessing,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

func IsValidOrderStatus(status string) bool {
	for _, s := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Order struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OrderNumber string `gorm:"type:varchar(32);uniqueIndex;not null" json:"orderNumber"`
	// CustomerID nil untuk guest checkout
	CustomerID *uint     `gorm:"index" json:"customerId"`
	Customer   *Customer `gorm:"foreignKey:CustomerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`

	// Snapshot data penerima saat order dibuat
	CustomerName        string  `gorm:"type:varchar(255);not null" json:"customerName"`
	CustomerWhatsapp    string  `gorm:"type:varchar(30);not null" json:"customerWhatsapp"`
	CustomerAddress     string  `gorm:"type:text;not null" json:"customerAddress"`
	CustomerCoordinates *string `gorm:"type:varchar(100)" json:"customerCoordinates"`

	ShippingMethod string  `gorm:"type:varchar(20);not null" json:"shippingMethod"`
	DeliveryDay    *string `gorm:"type:varchar(20)" json:"deliveryDay"`
	PaymentMethod  string  `gorm:"type:varchar(20);not null" json:"paymentMethod"`

	Subtotal     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"subtotal"`
	ShippingCost decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"shippingCost"`
	TotalAmount  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"totalAmount"`

	Status     string      `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Notes      string      `gorm:"type:text" json:"notes"`
	OrderItems []OrderItem `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"orderItems"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}
