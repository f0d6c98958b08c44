package repositories

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"gorm.io/gorm"

	"fuellog-api/models"
)

var ErrRecordNotFound = errors.New("record not found")

type RefuelRepository struct {
	db *gorm.DB
}

func NewRefuelRepository(db *gorm.DB) *RefuelRepository {
	return &RefuelRepository{db: db}
}

func (r *RefuelRepository) Create(ctx context.Context, record *models.RefuelRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("create refuel record: %w", err)
	}
	return nil
}

// Update saves every column of an existing record owned by record.UserID.
func (r *RefuelRepository) Update(ctx context.Context, record *models.RefuelRecord) error {
	res := r.db.WithContext(ctx).
		Model(&models.RefuelRecord{}).
		Where("id = ? AND user_id = ?", record.ID, record.UserID).
		Select("date", "time", "odometer", "volume", "amount", "price_per_unit",
			"fuel_grade", "remark", "is_full_tank", "warning_light", "has_previous_record", "updated_at").
		Updates(record)
	if res.Error != nil {
		return fmt.Errorf("update refuel record: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (r *RefuelRepository) FindByID(ctx context.Context, userID, id string) (*models.RefuelRecord, error) {
	var record models.RefuelRecord
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("find refuel record: %w", err)
	}
	return &record, nil
}

func (r *RefuelRepository) Delete(ctx context.Context, userID, id string) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.RefuelRecord{})
	if res.Error != nil {
		return fmt.Errorf("delete refuel record: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// ListByUser returns all of a user's records, newest first.
func (r *RefuelRepository) ListByUser(ctx context.Context, userID string) ([]models.RefuelRecord, error) {
	var records []models.RefuelRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC, time DESC, id DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list refuel records: %w", err)
	}
	return records, nil
}

// ListByUserAndYear returns a user's records dated inside the given year,
// newest first. Dates are stored as YYYY-MM-DD so the year window is a
// lexical range.
func (r *RefuelRepository) ListByUserAndYear(ctx context.Context, userID string, year int) ([]models.RefuelRecord, error) {
	from := fmt.Sprintf("%04d-01-01", year)
	to := fmt.Sprintf("%04d-01-01", year+1)

	var records []models.RefuelRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date < ?", userID, from, to).
		Order("date DESC, time DESC, id DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list refuel records for %d: %w", year, err)
	}
	return records, nil
}

// AvailableYears lists the distinct years a user has records in, latest first.
func (r *RefuelRepository) AvailableYears(ctx context.Context, userID string) ([]int, error) {
	var dates []string
	err := r.db.WithContext(ctx).
		Model(&models.RefuelRecord{}).
		Where("user_id = ?", userID).
		Distinct("date").
		Pluck("date", &dates).Error
	if err != nil {
		return nil, fmt.Errorf("list refuel years: %w", err)
	}

	seen := make(map[int]bool)
	years := make([]int, 0)
	for _, d := range dates {
		if len(d) < 4 {
			continue
		}
		year, err := strconv.Atoi(d[:4])
		if err != nil || seen[year] {
			continue
		}
		seen[year] = true
		years = append(years, year)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years, nil
}
