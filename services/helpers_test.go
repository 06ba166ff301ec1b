package services

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/storefront-api/database"
	"github.com/yeremiapane/storefront-api/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

type catalogFixture struct {
	Jambal        models.Product
	Jambal250     models.ProductVariant
	Teri          models.Product
	Teri100       models.ProductVariant
	Customer      models.Customer
	OtherCustomer models.Customer
}

func seedCatalog(t *testing.T, db *gorm.DB) catalogFixture {
	var f catalogFixture

	f.Jambal = models.Product{
		Name:     "Ikan Asin Jambal Roti",
		Slug:     "ikan-asin-jambal-roti",
		ImageURL: "/uploads/jambal.jpg",
		IsActive: true,
		Variants: []models.ProductVariant{
			{Weight: "250g", SKU: "JMB-250", Price: decimal.NewFromInt(15300), OriginalPrice: decimal.NewFromInt(17000), Stock: 20, InStock: true},
		},
	}
	require.NoError(t, db.Create(&f.Jambal).Error)
	f.Jambal250 = f.Jambal.Variants[0]

	f.Teri = models.Product{
		Name:     "Teri Medan",
		Slug:     "teri-medan",
		ImageURL: "/uploads/teri.jpg",
		IsActive: true,
		Variants: []models.ProductVariant{
			{Weight: "100g", SKU: "TRM-100", Price: decimal.NewFromInt(8500), Stock: 50, InStock: true},
		},
	}
	require.NoError(t, db.Create(&f.Teri).Error)
	f.Teri100 = f.Teri.Variants[0]

	f.Customer = models.Customer{Name: "Budi Santoso", Email: "budi@example.com", Whatsapp: "081234567890"}
	require.NoError(t, db.Create(&f.Customer).Error)
	f.OtherCustomer = models.Customer{Name: "Siti Aminah", Email: "siti@example.com"}
	require.NoError(t, db.Create(&f.OtherCustomer).Error)

	return f
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) NotifyAdmins(ctx context.Context, notifType, title, message string, relatedID *uint) error {
	args := m.Called(ctx, notifType, title, message, relatedID)
	return args.Error(0)
}

func (m *mockNotifier) NotifyCustomer(ctx context.Context, customerID uint, notifType, title, message string, relatedID *uint) error {
	args := m.Called(ctx, customerID, notifType, title, message, relatedID)
	return args.Error(0)
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) SendOrderConfirmation(ctx context.Context, to string, order *models.Order) error {
	args := m.Called(ctx, to, order)
	return args.Error(0)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishOrderEvent(ctx context.Context, event OrderEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *mockPublisher) Close() error {
	return m.Called().Error(0)
}

func eventOfType(eventType string) interface{} {
	return mock.MatchedBy(func(e OrderEvent) bool { return e.Type == eventType })
}

func uintPtr(v uint) *uint { return &v }

func strPtr(v string) *string { return &v }
