package analytics

import (
	"math"

	"fuellog-api/models"
)

// IntervalMetrics compares a record with its immediate chronological
// predecessor. A nil field means the value could not be derived, which is
// different from zero.
type IntervalMetrics struct {
	Distance        *float64 `json:"distance"`
	ConsumptionRate *float64 `json:"consumption_rate"` // liters per 100 distance units
	CostPerDistance *float64 `json:"cost_per_distance"`
}

// totals accumulates what the summary needs from the interval pass.
type totals struct {
	intervalDistance  float64
	volumeForDistance float64

	firstOdometer *float64
	lastOdometer  *float64
	// regressed is set once a valid reading is lower than the valid reading
	// before it, i.e. the odometer trail contains a glitch or reset.
	regressed bool
}

// coverage is the end-to-end distance when the odometer trail is clean,
// otherwise the sum of the valid interval distances.
func (t totals) coverage() float64 {
	if t.firstOdometer != nil && t.lastOdometer != nil &&
		*t.lastOdometer > *t.firstOdometer && !t.regressed {
		return *t.lastOdometer - *t.firstOdometer
	}
	return t.intervalDistance
}

// intervalState is the accumulator of the interval fold.
type intervalState struct {
	previous *Entry
	totals   totals
}

// step folds one entry into the state and returns the metrics of the
// interval ending at that entry. The entry always becomes the next
// predecessor, even when its own reading was unusable.
func (s intervalState) step(current Entry) (intervalState, IntervalMetrics) {
	next := s

	if odometer, ok := validOdometer(current.Record.Odometer); ok {
		if next.totals.firstOdometer == nil {
			next.totals.firstOdometer = &odometer
		}
		if last := next.totals.lastOdometer; last != nil && odometer < *last {
			next.totals.regressed = true
		}
		next.totals.lastOdometer = &odometer
	}

	var metrics IntervalMetrics
	if s.previous != nil {
		var distance float64
		metrics, distance = measure(s.previous.Record, current.Record)
		if metrics.Distance != nil {
			next.totals.intervalDistance += distance
		}
		if metrics.ConsumptionRate != nil {
			next.totals.volumeForDistance += current.Record.Volume
		}
	}

	entry := current
	next.previous = &entry
	return next, metrics
}

// intervals walks the ordered entries once and returns the metrics for each
// position together with the running totals.
func intervals(entries []Entry) ([]IntervalMetrics, totals) {
	metrics := make([]IntervalMetrics, len(entries))

	var state intervalState
	for i, entry := range entries {
		state, metrics[i] = state.step(entry)
	}
	return metrics, state.totals
}

// measure derives the metrics between two adjacent records. The unrounded
// distance is returned alongside so totals do not accumulate rounding error.
func measure(previous, current models.RefuelRecord) (IntervalMetrics, float64) {
	from, ok := validOdometer(previous.Odometer)
	if !ok {
		return IntervalMetrics{}, 0
	}
	to, ok := validOdometer(current.Odometer)
	if !ok {
		return IntervalMetrics{}, 0
	}

	distance := to - from
	if !(distance > 0) {
		return IntervalMetrics{}, 0
	}

	metrics := IntervalMetrics{Distance: float64Ptr(round2(distance))}
	if current.Volume > 0 {
		metrics.ConsumptionRate = float64Ptr(round2(current.Volume / distance * 100))
	}
	if current.Amount > 0 {
		metrics.CostPerDistance = float64Ptr(round2(current.Amount / distance))
	}
	return metrics, distance
}

func validOdometer(value *float64) (float64, bool) {
	if value == nil {
		return 0, false
	}
	v := *value
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

func float64Ptr(value float64) *float64 {
	return &value
}
