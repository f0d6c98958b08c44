// File: /controllers/feedback_controller.go
package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"fuellog-api/models"
	"fuellog-api/services"
	"fuellog-api/utils"
)

type FeedbackController struct {
	feedback *services.FeedbackService
}

func NewFeedbackController(feedback *services.FeedbackService) *FeedbackController {
	return &FeedbackController{feedback: feedback}
}

type CreateFeedbackRequest struct {
	Feeling  string            `json:"feeling" binding:"max=50"`
	Content  string            `json:"content" binding:"max=2000"`
	Contact  string            `json:"contact" binding:"max=255"`
	Images   []string          `json:"images" binding:"max=9,dive,url"`
	Nickname string            `json:"nickname" binding:"max=100"`
	Meta     models.DeviceMeta `json:"meta"`
}

func (fc *FeedbackController) CreateFeedback(c *gin.Context) {
	var req CreateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" && strings.TrimSpace(req.Feeling) == "" && len(req.Images) == 0 {
		utils.SendValidationError(c, "feedback needs a feeling, some content or an image")
		return
	}

	feedback := &models.Feedback{
		UserID:   c.GetString("user_id"),
		Nickname: strings.TrimSpace(req.Nickname),
		Feeling:  strings.TrimSpace(req.Feeling),
		Content:  content,
		Contact:  strings.TrimSpace(req.Contact),
		Images:   models.StringList(req.Images),
		Meta:     req.Meta,
	}

	if err := fc.feedback.Submit(c.Request.Context(), feedback); err != nil {
		log.WithError(err).Error("Failed to store feedback")
		utils.SendError(c, http.StatusInternalServerError, "Failed to submit feedback")
		return
	}

	utils.SendCreated(c, "Thanks for your feedback", feedback)
}

func (fc *FeedbackController) GetFeedback(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	items, err := fc.feedback.Recent(c.Request.Context(), c.GetString("user_id"), limit)
	if err != nil {
		log.WithError(err).Error("Failed to list feedback")
		utils.SendError(c, http.StatusInternalServerError, "Failed to fetch feedback")
		return
	}

	c.JSON(http.StatusOK, gin.H{"feedback": items})
}
