// File: /models/refuel_record.go
package models

import (
	"time"
)

// Date and time-of-day layouts accepted for a refuel event.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var (
	dateLayouts = []string{DateLayout, "2006/01/02", "2006.01.02"}
	timeLayouts = []string{TimeLayout, "15:04:05"}
)

type RefuelRecord struct {
	ID                string    `json:"id" gorm:"primaryKey;size:191"`
	UserID            string    `json:"user_id" gorm:"not null;size:191;index:idx_refuel_records_user_date,priority:1"`
	Date              string    `json:"date" gorm:"not null;size:10;index:idx_refuel_records_user_date,priority:2"`
	Time              string    `json:"time" gorm:"size:8"`
	Odometer          *float64  `json:"odometer"`
	Volume            float64   `json:"volume" gorm:"not null"`
	Amount            float64   `json:"amount" gorm:"default:0"`
	PricePerUnit      float64   `json:"price_per_unit" gorm:"default:0"`
	FuelGrade         string    `json:"fuel_grade" gorm:"size:50"`
	Remark            string    `json:"remark" gorm:"size:500"`
	IsFullTank        bool      `json:"is_full_tank" gorm:"default:false"`
	WarningLight      bool      `json:"warning_light" gorm:"default:false"`
	HasPreviousRecord bool      `json:"has_previous_record" gorm:"default:false"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Timestamp combines Date and Time into one instant in loc. An empty Time
// means midnight. The second return value is false when either part does not
// parse.
func (r RefuelRecord) Timestamp(loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}

	day, ok := ParseDate(r.Date, loc)
	if !ok {
		return time.Time{}, false
	}
	if r.Time == "" {
		return day, true
	}

	for _, layout := range timeLayouts {
		if clock, err := time.Parse(layout, r.Time); err == nil {
			return time.Date(day.Year(), day.Month(), day.Day(),
				clock.Hour(), clock.Minute(), clock.Second(), 0, loc), true
		}
	}
	return time.Time{}, false
}

// ParseDate parses a calendar date in any of the accepted layouts.
func ParseDate(value string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ValidTime reports whether value is an accepted time-of-day.
func ValidTime(value string) bool {
	if value == "" {
		return true
	}
	for _, layout := range timeLayouts {
		if _, err := time.Parse(layout, value); err == nil {
			return true
		}
	}
	return false
}
