package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"fuellog-api/models"
)

// WeComService posts text messages to a WeCom group robot webhook.
type WeComService struct {
	webhook string
	client  *http.Client
}

func NewWeComService(webhook string, client *http.Client) *WeComService {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &WeComService{webhook: webhook, client: client}
}

func (s *WeComService) Enabled() bool {
	return s != nil && s.webhook != ""
}

func (s *WeComService) SendText(ctx context.Context, content string) error {
	if !s.Enabled() {
		return nil
	}

	payload, err := sjson.SetBytes([]byte(`{"msgtype":"text"}`), "text.content", content)
	if err != nil {
		return fmt.Errorf("encode wecom message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhook, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build wecom request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post wecom message: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("wecom webhook returned status %d", resp.StatusCode)
	}
	if errcode := gjson.GetBytes(body, "errcode").Int(); errcode != 0 {
		return fmt.Errorf("wecom webhook errcode %d: %s", errcode, gjson.GetBytes(body, "errmsg").String())
	}
	return nil
}

// FormatFeedback renders a feedback entry as the plain-text message sent to
// the maintainers.
func FormatFeedback(fb models.Feedback) string {
	content := strings.TrimSpace(fb.Content)
	if content == "" {
		content = "(no content)"
	}

	var lines []string
	lines = append(lines,
		"**New user feedback**",
		"",
		fmt.Sprintf("- **Feeling**: **%s**", fb.Feeling),
		"- **Content**:",
		"> "+strings.ReplaceAll(content, "\n", "\n> "),
		"",
	)
	if fb.Nickname != "" || fb.UserID != "" {
		lines = append(lines, fmt.Sprintf("- **User**: %s (%s)", fb.Nickname, fb.UserID))
	}
	if fb.Contact != "" {
		lines = append(lines, fmt.Sprintf("- **Contact**: '%s'", fb.Contact))
	}
	if len(fb.Images) > 0 {
		lines = append(lines, "- **Screenshots**:")
		for _, img := range fb.Images {
			lines = append(lines, fmt.Sprintf("  - ![screenshot](%s)", img))
		}
	}

	m := fb.Meta
	lines = append(lines,
		"",
		"- **Device**:",
		"  - Page: "+m.Page,
		"  - System: "+m.System,
		"  - Platform: "+m.Platform,
		"  - Model: "+m.Model,
		"  - Brand: "+m.Brand,
		"  - Language: "+m.Language,
		"  - Screen: "+m.ScreenSize,
		"  - City: "+m.City,
		"  - App version: "+m.AppVersion,
		"  - Client user ID: "+m.ClientUserID,
	)
	return strings.Join(lines, "\n")
}
