package models

import (
	"time"
)

// Tipe notifikasi admin
const (
	AdminNotifNewOrder       = "new_order"
	AdminNotifOrderCancelled = "order_cancelled"
	AdminNotifNewCustomer    = "new_customer"
	AdminNotifNewReview      = "new_review"
)

// Tipe notifikasi customer
const (
	CustomerNotifOrderPlaced = "order_placed"
	CustomerNotifOrderStatus = "order_status"
)

var (
	AdminNotificationTypes = []string{
		AdminNotifNewOrder,
		AdminNotifOrderCancelled,
		AdminNotifNewCustomer,
		AdminNotifNewReview,
	}
	CustomerNotificationTypes = []string{
		CustomerNotifOrderPlaced,
		CustomerNotifOrderStatus,
	}
)

type AdminNotification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Type      string    `gorm:"type:varchar(30);not null;index" json:"type"`
	Title     string    `gorm:"type:varchar(150);not null" json:"title"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	IsRead    bool      `gorm:"not null;default:false;index" json:"isRead"`
	RelatedID *uint     `json:"relatedId"`
	CreatedAt time.Time `json:"createdAt"`
}

type CustomerNotification struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CustomerID uint      `gorm:"not null;index" json:"customerId"`
	Customer   *Customer `gorm:"foreignKey:CustomerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Type       string    `gorm:"type:varchar(30);not null" json:"type"`
	Title      string    `gorm:"type:varchar(150);not null" json:"title"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	IsRead     bool      `gorm:"not null;default:false;index" json:"isRead"`
	RelatedID  *uint     `json:"relatedId"`
	CreatedAt  time.Time `json:"createdAt"`
}
