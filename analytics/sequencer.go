// Package analytics turns one user's refuel records for a year into a
// chronological fuel report: per-interval distance, consumption and cost
// efficiency, plus year totals.
//
// Everything here is a pure function of its inputs. Records are never
// modified and nothing is cached between calls, so a Calculator may be
// shared freely across goroutines.
package analytics

import (
	"sort"
	"time"

	"fuellog-api/models"
)

// Entry is a record placed on the timeline.
type Entry struct {
	Record models.RefuelRecord
	At     time.Time
}

// YearWindow returns the half-open range [Jan 1 of year, Jan 1 of year+1) in loc.
func YearWindow(year int, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(1, 0, 0)
}

// Sequence keeps the records whose timestamp falls inside the year window
// and orders them oldest first. Equal timestamps are ordered by record ID.
// Records without a parsable date or time cannot be placed on the timeline
// and are dropped.
func Sequence(records []models.RefuelRecord, year int, loc *time.Location) []Entry {
	start, end := YearWindow(year, loc)

	entries := make([]Entry, 0, len(records))
	for _, record := range records {
		at, ok := record.Timestamp(loc)
		if !ok {
			continue
		}
		if at.Before(start) || !at.Before(end) {
			continue
		}
		entries = append(entries, Entry{Record: record, At: at})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].At.Equal(entries[j].At) {
			return entries[i].At.Before(entries[j].At)
		}
		return entries[i].Record.ID < entries[j].Record.ID
	})
	return entries
}
