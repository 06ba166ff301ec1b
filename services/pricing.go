package services

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yeremiapane/storefront-api/models"
)

// DefaultExpressShippingFee dipakai kalau config tidak mengisi ongkir
var DefaultExpressShippingFee = decimal.NewFromInt(15000)

// ShippingPolicy: ongkir flat untuk express, gratis untuk pickup
type ShippingPolicy struct {
	ExpressFee decimal.Decimal
}

func (p ShippingPolicy) Cost(method string) decimal.Decimal {
	if method == models.ShippingExpress {
		return p.ExpressFee
	}
	return decimal.Zero
}

// LineTotal = unit price x quantity
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// Subtotal menjumlahkan TotalPrice semua item
func Subtotal(items []models.OrderItem) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.TotalPrice)
	}
	return subtotal
}

// OrderNumberFunc menghasilkan nomor order yang dibaca manusia
type OrderNumberFunc func(now time.Time) string

// DefaultOrderNumber: "ORD" + YYYYMMDD + 3 digit acak, contoh ORD20261015042.
// Keunikan dijamin oleh unique index, bentrok di-retry oleh OrderService.
func DefaultOrderNumber(now time.Time) string {
	return fmt.Sprintf("ORD%s%03d", now.Format("20060102"), rand.IntN(1000))
}
