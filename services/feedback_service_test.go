package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"fuellog-api/config"
	"fuellog-api/models"
	"fuellog-api/repositories"
)

type recordingDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *recordingDialer) DialAndSend(m ...*gomail.Message) error {
	d.sent = append(d.sent, m...)
	return d.err
}

func TestFeedbackService_SubmitStoresAndNotifies(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"errcode":0}`))
	}))
	defer srv.Close()

	dialer := &recordingDialer{}
	mailer := &EmailService{
		config: &config.Config{FromName: "Fuel Log", FromEmail: "noreply@example.com", FeedbackEmail: "team@example.com"},
		dialer: dialer,
	}

	db := newTestDB(t)
	svc := NewFeedbackService(repositories.NewFeedbackRepository(db), NewWeComService(srv.URL, srv.Client()), mailer)

	fb := &models.Feedback{UserID: "u1", Feeling: "good", Content: "nice app", Images: models.StringList{"https://x/1.png"}}
	require.NoError(t, svc.Submit(context.Background(), fb))
	assert.NotEmpty(t, fb.ID)
	assert.Equal(t, 1, calls)
	require.Len(t, dialer.sent, 1)
	assert.Equal(t, []string{"team@example.com"}, dialer.sent[0].GetHeader("To"))

	stored, err := repositories.NewFeedbackRepository(db).ListByUser(context.Background(), "u1", 10)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, models.StringList{"https://x/1.png"}, stored[0].Images)
}

func TestFeedbackService_DeliveryFailureDoesNotFailSubmit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	mailer := &EmailService{
		config: &config.Config{FeedbackEmail: "team@example.com"},
		dialer: &recordingDialer{err: errors.New("smtp down")},
	}
	svc := NewFeedbackService(repositories.NewFeedbackRepository(newTestDB(t)), NewWeComService(srv.URL, srv.Client()), mailer)

	assert.NoError(t, svc.Submit(context.Background(), &models.Feedback{UserID: "u1", Content: "x"}))
}
