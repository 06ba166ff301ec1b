package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/storefront-api/models"
	"github.com/yeremiapane/storefront-api/utils"
)

type CustomerController struct {
	DB *gorm.DB
}

func NewCustomerController(db *gorm.DB) *CustomerController {
	return &CustomerController{DB: db}
}

// GetAllCustomers -> admin, ?search= pada nama/email
func (cc *CustomerController) GetAllCustomers(c *gin.Context) {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := cc.DB.WithContext(c.Request.Context()).Model(&models.Customer{})
	if search := strings.ToLower(strings.TrimSpace(c.Query("search"))); search != "" {
		like := "%" + search + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondInternalError(c, err)
		return
	}

	customers := make([]models.Customer, 0)
	if err := query.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&customers).Error; err != nil {
		utils.RespondInternalError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of customers", gin.H{
		"customers":  customers,
		"pagination": utils.NewPagination(page, limit, total),
	})
}

// GetCustomerByID -> admin, beserta jumlah order
func (cc *CustomerController) GetCustomerByID(c *gin.Context) {
	id, ok := parseIDParam(c, "customer_id")
	if !ok {
		return
	}

	db := cc.DB.WithContext(c.Request.Context())
	var customer models.Customer
	if err := db.First(&customer, id).Error; err != nil {
		respondDBError(c, err)
		return
	}

	var orderCount int64
	if err := db.Model(&models.Order{}).Where("customer_id = ?", id).Count(&orderCount).Error; err != nil {
		utils.RespondInternalError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Customer detail", gin.H{
		"customer":   customer,
		"orderCount": orderCount,
	})
}

// DeleteCustomer -> order dan review tetap ada dengan customer_id NULL, notifikasi customer ikut terhapus
func (cc *CustomerController) DeleteCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "customer_id")
	if !ok {
		return
	}

	err := cc.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Order{}).Where("customer_id = ?", id).Update("customer_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.ProductReview{}).Where("customer_id = ?", id).Update("customer_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("customer_id = ?", id).Delete(&models.CustomerNotification{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Customer{}, id)
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

	utils.RespondJSON(c, http.StatusOK, "Customer deleted", gin.H{"customer_id": id})
}
