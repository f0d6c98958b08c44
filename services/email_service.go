// File: /services/email_service.go
package services

import (
	"fmt"
	"html"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"fuellog-api/config"
	"fuellog-api/models"
)

// mailDialer is the part of *gomail.Dialer the service needs.
type mailDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailService struct {
	config *config.Config
	dialer mailDialer
}

func NewEmailService(cfg *config.Config) *EmailService {
	service := &EmailService{config: cfg}
	if cfg.SMTPHost != "" {
		service.dialer = gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	}
	return service
}

func (es *EmailService) Enabled() bool {
	return es != nil && es.dialer != nil
}

func (es *EmailService) newMessage(to, subject string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", fmt.Sprintf("%s <%s>", es.config.FromName, es.config.FromEmail))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	return m
}

// SendFeedback mails a copy of a feedback entry to the configured inbox.
// It is a no-op when either SMTP or the inbox is not configured.
func (es *EmailService) SendFeedback(fb models.Feedback) error {
	if !es.Enabled() || es.config.FeedbackEmail == "" {
		return nil
	}

	text := FormatFeedback(fb)
	m := es.newMessage(es.config.FeedbackEmail, fmt.Sprintf("%s - feedback (%s)", es.config.FromName, fb.Feeling))
	if fb.Contact != "" && strings.Contains(fb.Contact, "@") {
		m.SetHeader("Reply-To", fb.Contact)
	}
	m.SetBody("text/plain", text)
	m.AddAlternative("text/html", "<pre style=\"font-family: Arial, sans-serif; white-space: pre-wrap;\">"+html.EscapeString(text)+"</pre>")

	if err := es.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send feedback email: %w", err)
	}
	log.WithField("feedback_id", fb.ID).Info("Feedback email sent")
	return nil
}

// SendWelcomeEmail greets a newly registered email account.
func (es *EmailService) SendWelcomeEmail(email, name string) error {
	if !es.Enabled() {
		return nil
	}

	m := es.newMessage(email, fmt.Sprintf("Welcome to %s", es.config.FromName))

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { text-align: center; background: #1f8a4c; color: white; padding: 20px; border-radius: 10px 10px 0 0; }
        .content { background: #f8f9fa; padding: 30px; border-radius: 0 0 10px 10px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header"><h1>%s</h1></div>
        <div class="content">
            <h2>Hello %s!</h2>
            <p>Your account is ready. Log every refuel with its odometer reading and we will work out
            your distance, consumption and cost per kilometre for each tank.</p>
        </div>
    </div>
</body>
</html>`, html.EscapeString(es.config.FromName), html.EscapeString(name))

	textBody := fmt.Sprintf(`Hello %s!

Your account is ready. Log every refuel with its odometer reading and we will work out
your distance, consumption and cost per kilometre for each tank.
`, name)

	m.SetBody("text/plain", textBody)
	m.AddAlternative("text/html", htmlBody)

	if err := es.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	log.WithField("email", email).Info("Welcome email sent")
	return nil
}
