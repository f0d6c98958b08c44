// File: /controllers/user_controller.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"fuellog-api/repositories"
	"fuellog-api/services"
	"fuellog-api/utils"
)

type UserController struct {
	auth *services.AuthService
}

func NewUserController(auth *services.AuthService) *UserController {
	return &UserController{auth: auth}
}

func (uc *UserController) GetProfile(c *gin.Context) {
	user, err := uc.auth.CurrentUser(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			utils.SendError(c, http.StatusNotFound, "User not found")
			return
		}
		log.WithError(err).Error("Failed to load profile")
		utils.SendError(c, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	c.JSON(http.StatusOK, user)
}

func (uc *UserController) UpdateProfile(c *gin.Context) {
	var req struct {
		Name   *string `json:"name" binding:"omitempty,max=100"`
		Avatar *string `json:"avatar" binding:"omitempty,max=500"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	user, err := uc.auth.UpdateProfile(c.Request.Context(), c.GetString("user_id"), req.Name, req.Avatar)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			utils.SendError(c, http.StatusNotFound, "User not found")
			return
		}
		log.WithError(err).Error("Failed to update profile")
		utils.SendError(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, user)
}
