package analytics

import (
	"fmt"
	"time"

	"fuellog-api/models"
)

type YearSummary struct {
	Year                   int     `json:"year"`
	RecordCount            int     `json:"record_count"`
	TotalAmount            float64 `json:"total_amount"`
	TotalVolume            float64 `json:"total_volume"`
	AveragePrice           float64 `json:"average_price"` // total amount / total volume
	TotalIntervalDistance  float64 `json:"total_interval_distance"`
	AverageConsumptionRate float64 `json:"average_consumption_rate"`
	CoverageDistance       float64 `json:"coverage_distance"`
}

// AugmentedRecord is a stored record plus what the timeline says about it.
type AugmentedRecord struct {
	models.RefuelRecord
	RefueledAt  time.Time `json:"timestamp"`
	DisplayDate string    `json:"display_date"`
	IntervalMetrics
}

type YearReport struct {
	Summary YearSummary       `json:"summary"`
	Records []AugmentedRecord `json:"records"`
}

type Calculator struct {
	loc *time.Location
}

// NewCalculator returns a Calculator that reads record dates as wall-clock
// time in loc. A nil loc means UTC.
func NewCalculator(loc *time.Location) *Calculator {
	if loc == nil {
		loc = time.UTC
	}
	return &Calculator{loc: loc}
}

func (c *Calculator) Location() *time.Location {
	return c.loc
}

// YearReport builds the report for one user's records and one calendar year.
// Records are listed newest first.
func (c *Calculator) YearReport(records []models.RefuelRecord, year int) YearReport {
	entries := Sequence(records, year, c.loc)
	metrics, running := intervals(entries)

	return YearReport{
		Summary: summarize(year, entries, running),
		Records: present(entries, metrics),
	}
}

func summarize(year int, entries []Entry, running totals) YearSummary {
	var amount, volume float64
	for _, entry := range entries {
		amount += entry.Record.Amount
		volume += entry.Record.Volume
	}

	summary := YearSummary{
		Year:                  year,
		RecordCount:           len(entries),
		TotalAmount:           round2(amount),
		TotalVolume:           round2(volume),
		TotalIntervalDistance: round2(running.intervalDistance),
		CoverageDistance:      round2(running.coverage()),
	}
	if volume > 0 {
		summary.AveragePrice = round2(amount / volume)
	}
	if running.intervalDistance > 0 {
		summary.AverageConsumptionRate = round2(running.volumeForDistance / running.intervalDistance * 100)
	}
	return summary
}

// present reverses the computation order so the latest refuel comes first.
func present(entries []Entry, metrics []IntervalMetrics) []AugmentedRecord {
	records := make([]AugmentedRecord, len(entries))
	for i, entry := range entries {
		records[len(entries)-1-i] = AugmentedRecord{
			RefuelRecord:    entry.Record,
			RefueledAt:      entry.At,
			DisplayDate:     fmt.Sprintf("%d/%d", int(entry.At.Month()), entry.At.Day()),
			IntervalMetrics: metrics[i],
		}
	}
	return records
}
