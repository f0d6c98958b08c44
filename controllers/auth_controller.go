// File: /controllers/auth_controller.go
package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"fuellog-api/services"
	"fuellog-api/utils"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type WeChatLoginRequest struct {
	Code      string  `json:"code" binding:"required"`
	Nickname  string  `json:"nickname" binding:"max=100"`
	AvatarURL *string `json:"avatar_url"`
}

func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}
	if !utils.IsValidPassword(req.Password) {
		utils.SendValidationError(c, "password must mix at least two of upper case, lower case, digits and symbols")
		return
	}

	result, err := ac.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			utils.SendError(c, http.StatusConflict, "Email already registered")
			return
		}
		log.WithError(err).Error("Failed to register user")
		utils.SendError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	result, err := ac.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.SendError(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		log.WithError(err).Error("Failed to log in")
		utils.SendError(c, http.StatusInternalServerError, "Login failed")
		return
	}

	c.JSON(http.StatusOK, result)
}

// WeChatLogin signs a mini-program user in with the code from wx.login.
func (ac *AuthController) WeChatLogin(c *gin.Context) {
	var req WeChatLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	var avatar *string
	if req.AvatarURL != nil && strings.TrimSpace(*req.AvatarURL) != "" {
		trimmed := strings.TrimSpace(*req.AvatarURL)
		avatar = &trimmed
	}

	result, err := ac.auth.WeChatLogin(c.Request.Context(), strings.TrimSpace(req.Code), req.Nickname, avatar)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, result)
	case errors.Is(err, services.ErrWeChatDisabled):
		utils.SendError(c, http.StatusServiceUnavailable, "WeChat login is not available")
	case errors.Is(err, services.ErrWeChatCode):
		log.WithError(err).Warn("WeChat rejected login code")
		utils.SendError(c, http.StatusUnauthorized, "Invalid login code")
	default:
		log.WithError(err).Error("WeChat login failed")
		utils.SendError(c, http.StatusBadGateway, "WeChat login failed")
	}
}
