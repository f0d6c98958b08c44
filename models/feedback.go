// File: /models/feedback.go
package models

import (
	"time"
)

// DeviceMeta describes the client that submitted a feedback entry.
type DeviceMeta struct {
	Page         string `json:"page"`
	System       string `json:"system"`
	Platform     string `json:"platform"`
	Model        string `json:"model"`
	Brand        string `json:"brand"`
	Language     string `json:"language"`
	ScreenSize   string `json:"screen_size"`
	City         string `json:"city"`
	AppVersion   string `json:"app_version"`
	ClientUserID string `json:"client_user_id"`
}

type Feedback struct {
	ID        string     `json:"id" gorm:"primaryKey;size:191"`
	UserID    string     `json:"user_id" gorm:"not null;size:191;index"`
	Nickname  string     `json:"nickname" gorm:"size:255"`
	Feeling   string     `json:"feeling" gorm:"size:50"`
	Content   string     `json:"content" gorm:"type:text"`
	Contact   string     `json:"contact" gorm:"size:255"`
	Images    StringList `json:"images"`
	Meta      DeviceMeta `json:"meta" gorm:"embedded;embeddedPrefix:meta_"`
	CreatedAt time.Time  `json:"created_at"`
}
