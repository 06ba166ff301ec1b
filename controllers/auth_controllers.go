package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/storefront-api/middlewares"
	"github.com/yeremiapane/storefront-api/services"
	"github.com/yeremiapane/storefront-api/utils"
)

type AuthController struct {
	Auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{Auth: auth}
}

func (ac *AuthController) AdminLogin(c *gin.Context) {
	var in services.LoginInput
	if !bindJSON(c, &in) {
		return
	}
	res, err := ac.Auth.AdminLogin(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Login successful", res)
}

func (ac *AuthController) CustomerRegister(c *gin.Context) {
	var in services.RegisterInput
	if !bindJSON(c, &in) {
		return
	}
	res, err := ac.Auth.RegisterCustomer(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Registration successful", res)
}

func (ac *AuthController) CustomerLogin(c *gin.Context) {
	var in services.LoginInput
	if !bindJSON(c, &in) {
		return
	}
	res, err := ac.Auth.CustomerLogin(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Login successful", res)
}

// Logout -> token yang dipakai request ini masuk blacklist
func (ac *AuthController) Logout(c *gin.Context) {
	if err := ac.Auth.Logout(c.GetString(middlewares.ContextToken)); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Logout successful", nil)
}

// Me -> profil admin/customer dari token
func (ac *AuthController) Me(c *gin.Context) {
	userID, role, ok := middlewares.CurrentUser(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, ErrMissingIdentity)
		return
	}
	profile, err := ac.Auth.Profile(c.Request.Context(), userID, role)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Profile", gin.H{"role": role, "user": profile})
}
