package ingest

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Layouts seen in utility exports, tried before falling back to dateparse
var monthFirstFormats = []string{
	"2006-01-02 15:04:05-07:00", // ISO 8601 with offset
	"2006-01-02T15:04:05-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 3:04 PM",
	"2006-01-02",
	"1/2/2006 15:04",
	"1/2/2006 3:04 PM",
	"1/2/2006 3:04:05 PM",
	"1/2/2006",
	"01/02/2006",
	"1/2/06",
	"Jan 2, 2006",
	"January 2, 2006",
}

var dayFirstFormats = []string{
	"2/1/2006 15:04",
	"2/1/2006 3:04 PM",
	"2/1/2006",
	"02/01/2006",
	"2/1/06",
	"2 Jan 2006",
	"2 January 2006",
}

// parseTimestamp parses a date or date and time in loc. Times that carry their
// own offset keep it; nothing is converted.
func parseTimestamp(s string, loc *time.Location, dayFirst bool) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if loc == nil {
		loc = time.Local
	}

	formats := monthFirstFormats
	if dayFirst {
		formats = append(append([]string{}, dayFirstFormats...), monthFirstFormats...)
	}
	for _, format := range formats {
		if t, err := time.ParseInLocation(format, s, loc); err == nil {
			return t, nil
		}
	}

	if t, err := dateparse.ParseIn(s, loc, dateparse.PreferMonthFirst(!dayFirst)); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", s)
}
