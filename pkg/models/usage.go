package models

import (
	"fmt"
	"math"
	"time"
)

// InvalidUsageError reports a kWh reading that is negative or not a finite number
type InvalidUsageError struct {
	Timestamp time.Time
	KWh       float64
}

func (e *InvalidUsageError) Error() string {
	return fmt.Sprintf("invalid usage %v kWh at %s", e.KWh, e.Timestamp.Format("2006-01-02 15:04"))
}

// UsageSample represents a single hour of electricity usage
type UsageSample struct {
	Timestamp time.Time `json:"timestamp"` // Start of the hour, wall-clock local time
	KWh       float64   `json:"kwh"`
}

// NewUsageSample truncates the timestamp to the start of its hour and validates kWh.
// The wall-clock minutes are subtracted, so zones with sub-hour offsets keep their
// wall-clock hour and the repeated hour of a DST fold keeps its own offset.
func NewUsageSample(ts time.Time, kwh float64) (UsageSample, error) {
	hour := ts.Add(-(time.Duration(ts.Minute())*time.Minute +
		time.Duration(ts.Second())*time.Second +
		time.Duration(ts.Nanosecond())))
	if kwh < 0 || math.IsNaN(kwh) || math.IsInf(kwh, 0) {
		return UsageSample{}, &InvalidUsageError{Timestamp: hour, KWh: kwh}
	}
	return UsageSample{Timestamp: hour, KWh: kwh}, nil
}

// ClassifiedSample is a UsageSample with the calendar attributes used for pricing
type ClassifiedSample struct {
	UsageSample `json:",inline"`

	Month     time.Month   `json:"month"`
	DayOfWeek time.Weekday `json:"day_of_week"`
	Hour      int          `json:"hour"`
	IsHoliday bool         `json:"is_holiday"`
	IsWeekend bool         `json:"is_weekend"`
	IsWinter  bool         `json:"is_winter"`
}

// PricedSample is a ClassifiedSample priced under the TOU and ULO plans
type PricedSample struct {
	ClassifiedSample `json:",inline"`

	TOUCost     float64     `json:"tou_cost"`
	TOURate     float64     `json:"tou_rate"`
	TOUCategory TOUCategory `json:"tou_category"`
	ULOCost     float64     `json:"ulo_cost"`
	ULORate     float64     `json:"ulo_rate"`
	ULOCategory ULOCategory `json:"ulo_category"`
}

// IsWinterMonth reports whether the month falls in the November through April season
func IsWinterMonth(m time.Month) bool {
	return m >= time.November || m <= time.April
}
