// File: /models/user.go
package models

import (
	"time"
)

type User struct {
	ID        string    `json:"id" gorm:"primaryKey;size:191"`
	Name      string    `json:"name" gorm:"size:255"`
	Email     *string   `json:"email" gorm:"uniqueIndex;size:255"`
	Password  string    `json:"-" gorm:"size:255"`
	OpenID    *string   `json:"-" gorm:"uniqueIndex;size:191"` // WeChat mini-program openid
	Avatar    *string   `json:"avatar" gorm:"size:500"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	RefuelRecords []RefuelRecord `json:"-" gorm:"foreignKey:UserID"`
}

// DisplayName falls back to a generic label for accounts created through
// WeChat without a nickname.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return "Driver"
}
