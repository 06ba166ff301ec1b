package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yeremiapane/storefront-api/models"
	"github.com/yeremiapane/storefront-api/utils"
)

type ProductController struct {
	DB *gorm.DB
}

func NewProductController(db *gorm.DB) *ProductController {
	return &ProductController{DB: db}
}

type variantRequest struct {
	Weight        string          `json:"weight" binding:"required,max=50"`
	SKU           string          `json:"sku" binding:"required,max=100"`
	Price         decimal.Decimal `json:"price"`
	OriginalPrice decimal.Decimal `json:"originalPrice"`
	Stock         int             `json:"stock" binding:"min=0"`
}

type createProductRequest struct {
	CategoryID  *uint            `json:"categoryId"`
	Name        string           `json:"name" binding:"required,max=255"`
	Description string           `json:"description"`
	ImageURL    string           `json:"imageUrl" binding:"max=500"`
	Variants    []variantRequest `json:"variants" binding:"required,min=1,dive"`
}

type updateProductRequest struct {
	CategoryID  *uint   `json:"categoryId"`
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	ImageURL    *string `json:"imageUrl" binding:"omitempty,max=500"`
	IsActive    *bool   `json:"isActive"`
}

type updateVariantRequest struct {
	Price         *decimal.Decimal `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice"`
	Stock         *int             `json:"stock" binding:"omitempty,min=0"`
}

type productListItem struct {
	models.Product
	Variants []variantView `json:"variants"`
}

type variantView struct {
	models.ProductVariant
	DiscountPercent int `json:"discountPercent"`
}

func toProductView(p models.Product) productListItem {
	views := make([]variantView, 0, len(p.Variants))
	for _, v := range p.Variants {
		views = append(views, variantView{ProductVariant: v, DiscountPercent: v.DiscountPercent()})
	}
	return productListItem{Product: p, Variants: views}
}

// GetAllProducts -> publik, ?category_id=&search=&page=&limit=
func (pc *ProductController) GetAllProducts(c *gin.Context) {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 12)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 12
	}

	query := pc.DB.WithContext(c.Request.Context()).Model(&models.Product{}).Where("is_active = ?", true)
	if categoryID := queryInt(c, "category_id", 0); categoryID > 0 {
		query = query.Where("category_id = ?", categoryID)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondInternalError(c, err)
		return
	}

	var products []models.Product
	if err := query.Preload("Category").Preload("Variants").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&products).Error; err != nil {
		utils.RespondInternalError(c, err)
		return
	}

	items := make([]productListItem, 0, len(products))
	for _, p := range products {
		items = append(items, toProductView(p))
	}
	utils.RespondJSON(c, http.StatusOK, "List of products", gin.H{
		"products":   items,
		"pagination": utils.NewPagination(page, limit, total),
	})
}

// GetProductByID -> detail produk aktif beserta varian dan rating terkini
func (pc *ProductController) GetProductByID(c *gin.Context) {
	id, ok := parseIDParam(c, "product_id")
	if !ok {
		return
	}

	var product models.Product
	if err := pc.DB.WithContext(c.Request.Context()).
		Preload("Category").
		Preload("Variants").
		Where("is_active = ?", true).
		First(&product, id).Error; err != nil {
		respondDBError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product detail", toProductView(product))
}

// CreateProduct -> admin, produk baru beserta semua variannya
func (pc *ProductController) CreateProduct(c *gin.Context) {
	var body createProductRequest
	if !bindJSON(c, &body) {
		return
	}

	product := models.Product{
		CategoryID:  body.CategoryID,
		Name:        strings.TrimSpace(body.Name),
		Slug:        slugify(body.Name),
		Description: body.Description,
		ImageURL:    body.ImageURL,
		IsActive:    true,
	}
	for _, v := range body.Variants {
		if !v.Price.IsPositive() {
			utils.RespondError(c, http.StatusBadRequest, errors.New("variant price must be greater than 0"))
			return
		}
		product.Variants = append(product.Variants, models.ProductVariant{
			Weight:        v.Weight,
			SKU:           strings.TrimSpace(v.SKU),
			Price:         v.Price,
			OriginalPrice: v.OriginalPrice,
			Stock:         v.Stock,
			InStock:       v.Stock > 0,
		})
	}

	if err := pc.DB.WithContext(c.Request.Context()).Create(&product).Error; err != nil {
		respondDBError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Product created", toProductView(product))
}

// UpdateProduct -> admin, hanya field yang dikirim yang diubah
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "product_id")
	if !ok {
		return
	}
	var body updateProductRequest
	if !bindJSON(c, &body) {
		return
	}

	updates := map[string]interface{}{}
	if body.CategoryID != nil {
		updates["category_id"] = *body.CategoryID
	}
	if body.Name != nil {
		updates["name"] = strings.TrimSpace(*body.Name)
		updates["slug"] = slugify(*body.Name)
	}
	if body.Description != nil {
		updates["description"] = *body.Description
	}
	if body.ImageURL != nil {
		updates["image_url"] = *body.ImageURL
	}
	if body.IsActive != nil {
		updates["is_active"] = *body.IsActive
	}

	db := pc.DB.WithContext(c.Request.Context())
	var product models.Product
	if err := db.First(&product, id).Error; err != nil {
		respondDBError(c, err)
		return
	}
	if len(updates) > 0 {
		if err := db.Model(&product).Updates(updates).Error; err != nil {
			respondDBError(c, err)
			return
		}
	}
	if err := db.Preload("Category").Preload("Variants").First(&product, id).Error; err != nil {
		respondDBError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product updated", toProductView(product))
}

// UpdateVariant -> admin, ubah harga/stok. Order lama tidak terpengaruh karena item order menyimpan snapshot harga.
func (pc *ProductController) UpdateVariant(c *gin.Context) {
	productID, ok := parseIDParam(c, "product_id")
	if !ok {
		return
	}
	variantID, ok := parseIDParam(c, "variant_id")
	if !ok {
		return
	}
	var body updateVariantRequest
	if !bindJSON(c, &body) {
		return
	}

	updates := map[string]interface{}{}
	if body.Price != nil {
		if !body.Price.IsPositive() {
			utils.RespondError(c, http.StatusBadRequest, errors.New("variant price must be greater than 0"))
			return
		}
		updates["price"] = *body.Price
	}
	if body.OriginalPrice != nil {
		updates["original_price"] = *body.OriginalPrice
	}
	if body.Stock != nil {
		updates["stock"] = *body.Stock
		updates["in_stock"] = *body.Stock > 0
	}

	db := pc.DB.WithContext(c.Request.Context())
	var variant models.ProductVariant
	if err := db.Where("id = ? AND product_id = ?", variantID, productID).First(&variant).Error; err != nil {
		respondDBError(c, err)
		return
	}
	if len(updates) > 0 {
		if err := db.Model(&variant).Updates(updates).Error; err != nil {
			respondDBError(c, err)
			return
		}
	}
	if err := db.First(&variant, variant.ID).Error; err != nil {
		respondDBError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Variant updated", variantView{ProductVariant: variant, DiscountPercent: variant.DiscountPercent()})
}

// DeleteProduct -> admin. Varian dan review ikut terhapus, item order lama tetap menyimpan nama produk.
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "product_id")
	if !ok {
		return
	}

	err := pc.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductVariant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductReview{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Product{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		respondDBError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product deleted", gin.H{"product_id": id})
}
