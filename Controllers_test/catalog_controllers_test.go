package Controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/storefront-api/models"
)

type variantResp struct {
	ID              uint            `json:"id"`
	Weight          string          `json:"weight"`
	Price           decimal.Decimal `json:"price"`
	InStock         bool            `json:"inStock"`
	DiscountPercent int             `json:"discountPercent"`
}

type productResp struct {
	ID         uint          `json:"id"`
	Name       string        `json:"name"`
	Slug       string        `json:"slug"`
	CategoryID *uint         `json:"categoryId"`
	IsActive   bool          `json:"isActive"`
	Variants   []variantResp `json:"variants"`
}

func TestCategoryCRUD(t *testing.T) {
	env := setupEnv(t)

	w := env.do(t, http.MethodPost, "/admin/categories", env.AdminToken, map[string]string{"name": "Ikan Asin Premium"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var category models.Category
	decode(t, w, &category)
	assert.Equal(t, "ikan-asin-premium", category.Slug)

	w = env.do(t, http.MethodPost, "/admin/categories", env.AdminToken, map[string]string{"name": "Ikan Asin Premium"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "record already exists")

	w = env.do(t, http.MethodPost, "/admin/categories", env.CustomerToken, map[string]string{"name": "Lain"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	require.NoError(t, env.DB.Model(&env.Product).Update("category_id", category.ID).Error)

	w = env.do(t, http.MethodPut, fmt.Sprintf("/admin/categories/%d", category.ID), env.AdminToken, map[string]string{"name": "Ikan Kering"})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &category)
	assert.Equal(t, "ikan-kering", category.Slug)

	w = env.do(t, http.MethodGet, "/categories", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var categories []models.Category
	decode(t, w, &categories)
	assert.Len(t, categories, 1)

	w = env.do(t, http.MethodDelete, fmt.Sprintf("/admin/categories/%d", category.ID), env.AdminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Produk tetap ada, kategorinya kosong
	var product models.Product
	require.NoError(t, env.DB.First(&product, env.Product.ID).Error)
	assert.Nil(t, product.CategoryID)

	w = env.do(t, http.MethodDelete, fmt.Sprintf("/admin/categories/%d", category.ID), env.AdminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductCatalog(t *testing.T) {
	env := setupEnv(t)

	w := env.do(t, http.MethodPost, "/admin/products", env.AdminToken, map[string]interface{}{
		"name": "Cumi Asin",
		"variants": []map[string]interface{}{
			{"weight": "100g", "sku": "CUM-100", "price": 12000, "stock": 0},
			{"weight": "250g", "sku": "CUM-250", "price": 27000, "originalPrice": 30000, "stock": 5},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created productResp
	decode(t, w, &created)
	assert.Equal(t, "cumi-asin", created.Slug)
	require.Len(t, created.Variants, 2)
	assert.False(t, created.Variants[0].InStock)
	assert.Equal(t, 10, created.Variants[1].DiscountPercent)

	w = env.do(t, http.MethodGet, "/products?search=cumi", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Products   []productResp `json:"products"`
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	decode(t, w, &list)
	require.Len(t, list.Products, 1)
	assert.Equal(t, int64(1), list.Pagination.Total)

	w = env.do(t, http.MethodGet, fmt.Sprintf("/products/%d", env.Product.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail productResp
	decode(t, w, &detail)
	require.Len(t, detail.Variants, 1)
	assert.Equal(t, 10, detail.Variants[0].DiscountPercent)

	// Produk nonaktif hilang dari katalog publik
	w = env.do(t, http.MethodPut, fmt.Sprintf("/admin/products/%d", created.ID), env.AdminToken, map[string]interface{}{"isActive": false})
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodGet, fmt.Sprintf("/products/%d", created.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// SKU ganda
	w = env.do(t, http.MethodPost, "/admin/products", env.AdminToken, map[string]interface{}{
		"name":     "Cumi Asin Super",
		"variants": []map[string]interface{}{{"weight": "100g", "sku": "CUM-100", "price": 13000}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/admin/products", env.AdminToken, map[string]interface{}{
		"name":     "Gratis",
		"variants": []map[string]interface{}{{"weight": "1kg", "sku": "FREE-1", "price": 0}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVariantPriceChangeKeepsOrderSnapshot(t *testing.T) {
	env := setupEnv(t)
	order := env.placeOrder(t, "")

	url := fmt.Sprintf("/admin/products/%d/variants/%d", env.Product.ID, env.Variant.ID)
	w := env.do(t, http.MethodPut, url, env.AdminToken, map[string]interface{}{"price": 20000, "stock": 0})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var variant variantResp
	decode(t, w, &variant)
	assert.Equal(t, "20000", variant.Price.String())
	assert.False(t, variant.InStock)

	var item models.OrderItem
	require.NoError(t, env.DB.Where("order_id = ?", order.ID).First(&item).Error)
	assert.Equal(t, "15300", item.UnitPrice.String())

	w = env.do(t, http.MethodPut, fmt.Sprintf("/admin/products/%d/variants/9999", env.Product.ID), env.AdminToken, map[string]interface{}{"stock": 3})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteProduct(t *testing.T) {
	env := setupEnv(t)
	order := env.placeOrder(t, "")

	w := env.do(t, http.MethodDelete, fmt.Sprintf("/admin/products/%d", env.Product.ID), env.AdminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var variants int64
	env.DB.Model(&models.ProductVariant{}).Where("product_id = ?", env.Product.ID).Count(&variants)
	assert.Zero(t, variants)

	// Item order lama masih menyimpan nama produk
	var item models.OrderItem
	require.NoError(t, env.DB.Where("order_id = ?", order.ID).First(&item).Error)
	assert.Equal(t, "Ikan Asin Jambal Roti", item.ProductName)
}
