package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/storefront-api/models"
	"github.com/yeremiapane/storefront-api/utils"
)

type CategoryController struct {
	DB *gorm.DB
}

func NewCategoryController(db *gorm.DB) *CategoryController {
	return &CategoryController{DB: db}
}

type categoryRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
}

// GetAllCategories
func (cc *CategoryController) GetAllCategories(c *gin.Context) {
	categories := make([]models.Category, 0)
	if err := cc.DB.WithContext(c.Request.Context()).Order("name ASC").Find(&categories).Error; err != nil {
		utils.RespondInternalError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All categories", categories)
}

// CreateCategory
func (cc *CategoryController) CreateCategory(c *gin.Context) {
	var body categoryRequest
	if !bindJSON(c, &body) {
		return
	}

	category := models.Category{
		Name:        strings.TrimSpace(body.Name),
		Slug:        slugify(body.Name),
		Description: body.Description,
	}
	if err := cc.DB.WithContext(c.Request.Context()).Create(&category).Error; err != nil {
		respondDBError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Category created", category)
}

// UpdateCategory
func (cc *CategoryController) UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "category_id")
	if !ok {
		return
	}
	var body categoryRequest
	if !bindJSON(c, &body) {
		return
	}

	db := cc.DB.WithContext(c.Request.Context())
	var category models.Category
	if err := db.First(&category, id).Error; err != nil {
		respondDBError(c, err)
		return
	}

	category.Name = strings.TrimSpace(body.Name)
	category.Slug = slugify(body.Name)
	category.Description = body.Description
	if err := db.Save(&category).Error; err != nil {
		respondDBError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category updated", category)
}

// DeleteCategory -> produk di kategori ini tetap ada tanpa kategori
func (cc *CategoryController) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "category_id")
	if !ok {
		return
	}

	err := cc.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Product{}).Where("category_id = ?", id).Update("category_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Category{}, id)
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
	utils.RespondJSON(c, http.StatusOK, "Category deleted", gin.H{"category_id": id})
}

// respondDBError untuk controller yang langsung memakai gorm
func respondDBError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.RespondError(c, http.StatusNotFound, errors.New("record not found"))
	case errors.Is(err, gorm.ErrDuplicatedKey):
		// Nama/slug/SKU ganda ditolak sebagai input tidak valid
		utils.RespondError(c, http.StatusBadRequest, errors.New("record already exists"))
	default:
		utils.RespondInternalError(c, err)
	}
}

// slugify: "Ikan Asin Jambal" -> "ikan-asin-jambal"
func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
