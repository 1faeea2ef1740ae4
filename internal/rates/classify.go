package rates

import (
	"time"

	"github.com/jgoulah/ratecompare/pkg/models"
)

// HolidayChecker reports whether a date is a statutory holiday
type HolidayChecker interface {
	IsHoliday(t time.Time) bool
}

// Classifier derives the calendar attributes of a sample. The timestamp is used
// as the wall-clock time it was recorded in; no zone conversion happens.
type Classifier struct {
	Holidays HolidayChecker
}

// Classify returns the sample together with its month, weekday, hour, and
// holiday, weekend and winter flags.
func (c Classifier) Classify(s models.UsageSample) models.ClassifiedSample {
	ts := s.Timestamp
	dow := ts.Weekday()
	holiday := false
	if c.Holidays != nil {
		holiday = c.Holidays.IsHoliday(ts)
	}
	return models.ClassifiedSample{
		UsageSample: s,
		Month:       ts.Month(),
		DayOfWeek:   dow,
		Hour:        ts.Hour(),
		IsHoliday:   holiday,
		IsWeekend:   dow == time.Saturday || dow == time.Sunday,
		IsWinter:    models.IsWinterMonth(ts.Month()),
	}
}
