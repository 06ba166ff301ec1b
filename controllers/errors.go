package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/yeremiapane/storefront-api/services"
	"github.com/yeremiapane/storefront-api/utils"
)

var (
	ErrInvalidID       = errors.New("invalid id")
	ErrInvalidBody     = errors.New("invalid request body")
	ErrNoPermission    = errors.New("You do not have permission")
	ErrMissingIdentity = errors.New("user id not found in context")
)

// respondServiceError memetakan error service ke status HTTP. Error yang tidak dikenal jadi 500 generik.
func respondServiceError(c *gin.Context, err error) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, utils.JSONResponse{
			Success: false,
			Message: ve.Error(),
			Data:    gin.H{"errors": ve.Fields},
		})
	case services.IsValidation(err), services.IsRejected(err):
		utils.RespondError(c, http.StatusBadRequest, err)
	case services.IsNotFound(err):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, utils.ErrInvalidToken),
		errors.Is(err, utils.ErrTokenBlacklisted):
		utils.RespondError(c, http.StatusUnauthorized, err)
	default:
		utils.RespondInternalError(c, err)
	}
}

// bindJSON membaca body ke obj. Mengembalikan false kalau response error sudah ditulis.
func bindJSON(c *gin.Context, obj interface{}) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &verrs):
		respondServiceError(c, services.NewValidationError(err))
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		utils.RespondError(c, http.StatusBadRequest, ErrInvalidBody)
	default:
		utils.RespondError(c, http.StatusBadRequest, err)
	}
	return false
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusBadRequest, ErrInvalidID)
		return 0, false
	}
	return uint(id), true
}

func queryInt(c *gin.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return fallback
	}
	return v
}
