package services

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"fuellog-api/metrics"
	"fuellog-api/models"
)

type FeedbackStore interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	ListByUser(ctx context.Context, userID string, limit int) ([]models.Feedback, error)
}

type FeedbackService struct {
	repo   FeedbackStore
	wecom  *WeComService
	mailer *EmailService
}

func NewFeedbackService(repo FeedbackStore, wecom *WeComService, mailer *EmailService) *FeedbackService {
	return &FeedbackService{repo: repo, wecom: wecom, mailer: mailer}
}

// Submit stores the feedback and forwards it to the maintainers. Delivery
// failures are logged and never fail the submission.
func (s *FeedbackService) Submit(ctx context.Context, fb *models.Feedback) error {
	if err := s.repo.Create(ctx, fb); err != nil {
		return err
	}

	entry := log.WithFields(log.Fields{"feedback_id": fb.ID, "user_id": fb.UserID})

	if s.wecom.Enabled() {
		notifyCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err := s.wecom.SendText(notifyCtx, FormatFeedback(*fb))
		cancel()
		metrics.ObserveNotification("wecom", err)
		if err != nil {
			entry.WithError(err).Error("Failed to send feedback to WeCom")
		}
	}

	if s.mailer.Enabled() {
		err := s.mailer.SendFeedback(*fb)
		metrics.ObserveNotification("email", err)
		if err != nil {
			entry.WithError(err).Error("Failed to email feedback")
		}
	}
	return nil
}

// Recent returns the user's own submissions, newest first.
func (s *FeedbackService) Recent(ctx context.Context, userID string, limit int) ([]models.Feedback, error) {
	if limit > 100 {
		limit = 100
	}
	return s.repo.ListByUser(ctx, userID, limit)
}
