package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"fuellog-api/analytics"
	"fuellog-api/metrics"
	"fuellog-api/models"
)

const (
	MinYear = 1900
	MaxYear = 9999
)

var (
	ErrInvalidYear   = errors.New("invalid year")
	ErrInvalidRecord = errors.New("invalid refuel record")
)

// RefuelStore is the persistence the refuel service depends on.
type RefuelStore interface {
	Create(ctx context.Context, record *models.RefuelRecord) error
	Update(ctx context.Context, record *models.RefuelRecord) error
	FindByID(ctx context.Context, userID, id string) (*models.RefuelRecord, error)
	Delete(ctx context.Context, userID, id string) error
	ListByUser(ctx context.Context, userID string) ([]models.RefuelRecord, error)
	ListByUserAndYear(ctx context.Context, userID string, year int) ([]models.RefuelRecord, error)
	AvailableYears(ctx context.Context, userID string) ([]int, error)
}

// RefuelInput is the client-editable part of a refuel record.
type RefuelInput struct {
	Date              string   `json:"date" binding:"required"`
	Time              string   `json:"time"`
	Odometer          *float64 `json:"odometer"`
	Volume            *float64 `json:"volume" binding:"required"`
	Amount            *float64 `json:"amount"`
	PricePerUnit      *float64 `json:"price_per_unit"`
	FuelGrade         string   `json:"fuel_grade"`
	Remark            string   `json:"remark"`
	IsFullTank        bool     `json:"is_full_tank"`
	WarningLight      bool     `json:"warning_light"`
	HasPreviousRecord bool     `json:"has_previous_record"`
}

type RefuelService struct {
	repo RefuelStore
	calc *analytics.Calculator
	now  func() time.Time
}

func NewRefuelService(repo RefuelStore, calc *analytics.Calculator) *RefuelService {
	return &RefuelService{repo: repo, calc: calc, now: time.Now}
}

// ResolveYear turns the raw year query parameter into a year. An absent
// value means the current year in the calculator's zone; anything present
// must be a plain integer in [MinYear, MaxYear].
func (s *RefuelService) ResolveYear(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return s.now().In(s.calc.Location()).Year(), nil
	}

	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidYear, raw)
	}
	if year < MinYear || year > MaxYear {
		return 0, fmt.Errorf("%w: %d is out of range", ErrInvalidYear, year)
	}
	return year, nil
}

// YearReport loads the user's records for year and runs them through the
// analytics pipeline.
func (s *RefuelService) YearReport(ctx context.Context, userID string, year int) (analytics.YearReport, error) {
	start := time.Now()

	records, err := s.repo.ListByUserAndYear(ctx, userID, year)
	if err != nil {
		return analytics.YearReport{}, err
	}

	report := s.calc.YearReport(records, year)
	if dropped := len(records) - report.Summary.RecordCount; dropped > 0 {
		log.WithFields(log.Fields{
			"user_id": userID,
			"year":    year,
			"dropped": dropped,
		}).Warn("Skipped refuel records with unreadable date or time")
	}

	metrics.ObserveReport(report.Summary.RecordCount, time.Since(start))
	return report, nil
}

// List returns the user's records newest first, optionally limited to a year.
func (s *RefuelService) List(ctx context.Context, userID string, year *int) ([]models.RefuelRecord, error) {
	if year != nil {
		return s.repo.ListByUserAndYear(ctx, userID, *year)
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *RefuelService) Years(ctx context.Context, userID string) ([]int, error) {
	return s.repo.AvailableYears(ctx, userID)
}

func (s *RefuelService) Get(ctx context.Context, userID, id string) (*models.RefuelRecord, error) {
	return s.repo.FindByID(ctx, userID, id)
}

func (s *RefuelService) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}

func (s *RefuelService) Create(ctx context.Context, userID string, input RefuelInput) (*models.RefuelRecord, error) {
	record := &models.RefuelRecord{ID: uuid.New().String(), UserID: userID}
	if err := s.apply(record, input); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *RefuelService) Update(ctx context.Context, userID, id string, input RefuelInput) (*models.RefuelRecord, error) {
	record, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(record, input); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// apply validates input and copies it onto record. Dates are normalized to
// YYYY-MM-DD, which the year queries rely on. A missing amount or unit price
// is derived from the other one when possible.
func (s *RefuelService) apply(record *models.RefuelRecord, input RefuelInput) error {
	day, ok := models.ParseDate(strings.TrimSpace(input.Date), s.calc.Location())
	if !ok {
		return fmt.Errorf("%w: date must look like 2006-01-02", ErrInvalidRecord)
	}
	clock := strings.TrimSpace(input.Time)
	if !models.ValidTime(clock) {
		return fmt.Errorf("%w: time must look like 15:04", ErrInvalidRecord)
	}
	if input.Volume == nil {
		return fmt.Errorf("%w: volume is required", ErrInvalidRecord)
	}

	for name, value := range map[string]*float64{
		"odometer":       input.Odometer,
		"volume":         input.Volume,
		"amount":         input.Amount,
		"price_per_unit": input.PricePerUnit,
	} {
		if value != nil && (math.IsNaN(*value) || math.IsInf(*value, 0) || *value < 0) {
			return fmt.Errorf("%w: %s must be a non-negative number", ErrInvalidRecord, name)
		}
	}

	volume := *input.Volume
	var amount, price float64
	if input.Amount != nil {
		amount = *input.Amount
	}
	if input.PricePerUnit != nil {
		price = *input.PricePerUnit
	}
	switch {
	case input.Amount == nil && input.PricePerUnit != nil:
		amount = round2(price * volume)
	case input.PricePerUnit == nil && input.Amount != nil && volume > 0:
		price = round2(amount / volume)
	}

	record.Date = day.Format(models.DateLayout)
	record.Time = clock
	record.Odometer = input.Odometer
	record.Volume = volume
	record.Amount = amount
	record.PricePerUnit = price
	record.FuelGrade = strings.TrimSpace(input.FuelGrade)
	record.Remark = strings.TrimSpace(input.Remark)
	record.IsFullTank = input.IsFullTank
	record.WarningLight = input.WarningLight
	record.HasPreviousRecord = input.HasPreviousRecord
	return nil
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
