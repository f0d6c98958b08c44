// File: /controllers/refuel_controller.go
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

type RefuelController struct {
	refuels *services.RefuelService
}

func NewRefuelController(refuels *services.RefuelService) *RefuelController {
	return &RefuelController{refuels: refuels}
}

// GetRefuels lists the caller's records newest first. Without a year query
// every year is returned.
func (rc *RefuelController) GetRefuels(c *gin.Context) {
	userID := c.GetString("user_id")

	var year *int
	if raw, ok := c.GetQuery("year"); ok {
		resolved, err := rc.refuels.ResolveYear(raw)
		if err != nil {
			utils.SendErrorMessage(c, http.StatusBadRequest, "Invalid year", err.Error())
			return
		}
		year = &resolved
	}

	records, err := rc.refuels.List(c.Request.Context(), userID, year)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Failed to list refuel records")
		utils.SendError(c, http.StatusInternalServerError, "Failed to fetch records")
		return
	}

	c.JSON(http.StatusOK, gin.H{"records": records})
}

// GetStats runs the yearly analytics for the caller.
func (rc *RefuelController) GetStats(c *gin.Context) {
	userID := c.GetString("user_id")

	year, err := rc.refuels.ResolveYear(c.Query("year"))
	if err != nil {
		utils.SendErrorMessage(c, http.StatusBadRequest, "Invalid year", err.Error())
		return
	}

	report, err := rc.refuels.YearReport(c.Request.Context(), userID, year)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{"user_id": userID, "year": year}).Error("Failed to build year report")
		utils.SendError(c, http.StatusInternalServerError, "Failed to build report")
		return
	}

	c.JSON(http.StatusOK, report)
}

func (rc *RefuelController) GetYears(c *gin.Context) {
	years, err := rc.refuels.Years(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		log.WithError(err).Error("Failed to list record years")
		utils.SendError(c, http.StatusInternalServerError, "Failed to fetch years")
		return
	}

	c.JSON(http.StatusOK, gin.H{"years": years})
}

func (rc *RefuelController) GetRefuel(c *gin.Context) {
	record, err := rc.refuels.Get(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		rc.sendLookupError(c, err, "Failed to fetch record")
		return
	}

	c.JSON(http.StatusOK, record)
}

func (rc *RefuelController) CreateRefuel(c *gin.Context) {
	var req services.RefuelInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	record, err := rc.refuels.Create(c.Request.Context(), c.GetString("user_id"), req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRecord) {
			utils.SendValidationError(c, err.Error())
			return
		}
		log.WithError(err).Error("Failed to create refuel record")
		utils.SendError(c, http.StatusInternalServerError, "Failed to create record")
		return
	}

	c.JSON(http.StatusCreated, record)
}

func (rc *RefuelController) UpdateRefuel(c *gin.Context) {
	var req services.RefuelInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	record, err := rc.refuels.Update(c.Request.Context(), c.GetString("user_id"), c.Param("id"), req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRecord) {
			utils.SendValidationError(c, err.Error())
			return
		}
		rc.sendLookupError(c, err, "Failed to update record")
		return
	}

	c.JSON(http.StatusOK, record)
}

func (rc *RefuelController) DeleteRefuel(c *gin.Context) {
	if err := rc.refuels.Delete(c.Request.Context(), c.GetString("user_id"), c.Param("id")); err != nil {
		rc.sendLookupError(c, err, "Failed to delete record")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Record deleted successfully"})
}

func (rc *RefuelController) sendLookupError(c *gin.Context, err error, message string) {
	if errors.Is(err, repositories.ErrRecordNotFound) {
		utils.SendError(c, http.StatusNotFound, "Record not found")
		return
	}
	log.WithError(err).WithField("record_id", c.Param("id")).Error(message)
	utils.SendError(c, http.StatusInternalServerError, message)
}
