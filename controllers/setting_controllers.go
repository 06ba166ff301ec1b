package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeremiapane/storefront-api/models"
	"github.com/yeremiapane/storefront-api/utils"
)

type SettingController struct {
	DB *gorm.DB
}

func NewSettingController(db *gorm.DB) *SettingController {
	return &SettingController{DB: db}
}

// GetSettings -> publik, bentuk map key -> value
func (sc *SettingController) GetSettings(c *gin.Context) {
	settings, err := sc.loadSettings(c)
	if err != nil {
		utils.RespondInternalError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Settings", settings)
}

// UpdateSettings -> admin, upsert semua key yang dikirim
func (sc *SettingController) UpdateSettings(c *gin.Context) {
	var body map[string]string
	if !bindJSON(c, &body) {
		return
	}
	if len(body) == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("no settings provided"))
		return
	}

	rows := make([]models.Setting, 0, len(body))
	for key, value := range body {
		key = strings.TrimSpace(key)
		if key == "" || len(key) > 100 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid setting key"))
			return
		}
		rows = append(rows, models.Setting{Key: key, Value: value})
	}

	if err := sc.DB.WithContext(c.Request.Context()).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rows).Error; err != nil {
		utils.RespondInternalError(c, err)
		return
	}

	settings, err := sc.loadSettings(c)
	if err != nil {
		utils.RespondInternalError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Settings updated", settings)
}

func (sc *SettingController) loadSettings(c *gin.Context) (map[string]string, error) {
	var rows []models.Setting
	if err := sc.DB.WithContext(c.Request.Context()).Find(&rows).Error; err != nil {
		return nil, err
	}
	settings := make(map[string]string, len(rows))
	for _, row := range rows {
		settings[row.Key] = row.Value
	}
	return settings, nil
}
