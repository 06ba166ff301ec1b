package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yeremiapane/storefront-api/models"
)

// Notifier membuat notifikasi in-app untuk admin dan customer
type Notifier interface {
	NotifyAdmins(ctx context.Context, notifType, title, message string, relatedID *uint) error
	NotifyCustomer(ctx context.Context, customerID uint, notifType, title, message string, relatedID *uint) error
}

// Mailer mengirim email transaksional ke customer
type Mailer interface {
	SendOrderConfirmation(ctx context.Context, to string, order *models.Order) error
}

// EventPublisher menyiarkan event order ke sistem lain (Kafka)
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event OrderEvent) error
	Close() error
}

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventOrderCancelled     = "order.cancelled"
)

type OrderEvent struct {
	EventID     string          `json:"eventId"`
	Type        string          `json:"type"`
	OrderID     uint            `json:"orderId"`
	OrderNumber string          `json:"orderNumber"`
	CustomerID  *uint           `json:"customerId,omitempty"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Timestamp   time.Time       `json:"timestamp"`
}
