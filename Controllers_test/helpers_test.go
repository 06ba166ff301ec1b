package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/storefront-api/database"
	"github.com/yeremiapane/storefront-api/models"
	"github.com/yeremiapane/storefront-api/router"
	"github.com/yeremiapane/storefront-api/utils"
)

const (
	adminEmail    = "admin@tokoikan.id"
	adminPassword = "rahasia-admin"
)

type testEnv struct {
	DB            *gorm.DB
	Router        *gin.Engine
	AdminToken    string
	Customer      models.Customer
	CustomerToken string
	Product       models.Product
	Variant       models.ProductVariant
}

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// setupEnv: sqlite in-memory per test, admin dari seeder, satu customer dan satu produk
func setupEnv(t *testing.T) *testEnv {
	gin.SetMode(gin.TestMode)
	utils.InitLogger()

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
	require.NoError(t, database.Seed(db, database.SeedOptions{
		AdminEmail:    adminEmail,
		AdminPassword: adminPassword,
		StoreName:     "Toko Ikan Asin",
	}))

	env := &testEnv{DB: db}

	var admin models.Admin
	require.NoError(t, db.Where("email = ?", adminEmail).First(&admin).Error)
	env.AdminToken, err = utils.GenerateToken(admin.ID, utils.RoleAdmin)
	require.NoError(t, err)

	env.Customer = models.Customer{Name: "Budi", Email: "budi@example.com", Whatsapp: "08123456789"}
	require.NoError(t, db.Create(&env.Customer).Error)
	env.CustomerToken, err = utils.GenerateToken(env.Customer.ID, utils.RoleCustomer)
	require.NoError(t, err)

	env.Product = models.Product{
		Name:     "Ikan Asin Jambal Roti",
		Slug:     "ikan-asin-jambal-roti",
		IsActive: true,
		Variants: []models.ProductVariant{
			{Weight: "250g", SKU: "JMB-250", Price: decimal.NewFromInt(15300), OriginalPrice: decimal.NewFromInt(17000), Stock: 10, InStock: true},
		},
	}
	require.NoError(t, db.Create(&env.Product).Error)
	env.Variant = env.Product.Variants[0]

	env.Router = router.SetupRouter(db, router.Options{})
	return env
}

func (env *testEnv) do(t *testing.T, method, url, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	env.Router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) apiResponse {
	t.Helper()
	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	if data != nil && len(resp.Data) > 0 {
		require.NoError(t, json.Unmarshal(resp.Data, data), string(resp.Data))
	}
	return resp
}

func (env *testEnv) orderPayload(qty int) map[string]interface{} {
	return map[string]interface{}{
		"customerName":     "Budi",
		"customerWhatsapp": "08123456789",
		"customerAddress":  "Jl. Merdeka 1, Bandung",
		"shippingMethod":   "express",
		"deliveryDay":      "kamis",
		"paymentMethod":    "transfer",
		"items": []map[string]interface{}{
			{"productId": env.Product.ID, "productVariantId": env.Variant.ID, "quantity": qty},
		},
	}
}

// placeOrder membuat order lewat API dan mengembalikan hasilnya
func (env *testEnv) placeOrder(t *testing.T, token string) models.Order {
	t.Helper()
	w := env.do(t, http.MethodPost, "/orders", token, env.orderPayload(2))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var order models.Order
	decode(t, w, &order)
	return order
}

func tokenFor(t *testing.T, customerID uint) string {
	t.Helper()
	token, err := utils.GenerateToken(customerID, utils.RoleCustomer)
	require.NoError(t, err)
	return token
}
