// Package holiday reports the statutory holidays that the TOU and ULO plans bill
// at off-peak rates.
//
// The built-in table covers 2021 through 2023 only. Any other year has no holidays
// unless they are added explicitly, so a holiday in an unknown year prices like a
// regular weekday.
package holiday

import (
	"fmt"
	"time"
)

// builtin lists Ontario statutory holidays, including the weekday a holiday is
// observed on when it falls on a weekend.
var builtin = map[int][]string{
	2021: {
		"2021-01-01", "2021-02-15", "2021-04-02", "2021-05-24", "2021-07-01",
		"2021-08-02", "2021-09-06", "2021-10-11", "2021-12-25", "2021-12-26",
		"2021-12-27", "2021-12-28",
	},
	2022: {
		"2022-01-01", "2022-01-03", "2022-02-21", "2022-04-15", "2022-05-23",
		"2022-07-01", "2022-08-01", "2022-09-05", "2022-10-10", "2022-12-25",
		"2022-12-26", "2022-12-27",
	},
	2023: {
		"2023-01-01", "2023-01-02", "2023-02-20", "2023-04-07", "2023-05-22",
		"2023-07-01", "2023-07-03", "2023-08-07", "2023-09-04", "2023-10-09",
		"2023-12-25", "2023-12-26",
	},
}

// Calendar maps a year to the set of day-of-year ordinals that are holidays
type Calendar struct {
	days map[int]map[int]struct{}
}

// Default returns a calendar holding only the built-in table
func Default() *Calendar {
	c := &Calendar{days: make(map[int]map[int]struct{})}
	for year, dates := range builtin {
		if err := c.AddDates(year, dates...); err != nil {
			panic(fmt.Errorf("built-in holiday table: %w", err))
		}
	}
	return c
}

// AddDates adds ISO (YYYY-MM-DD) dates to the given year of the calendar
func (c *Calendar) AddDates(year int, dates ...string) error {
	for _, d := range dates {
		t, err := time.Parse("2006-01-02", d)
		if err != nil {
			return fmt.Errorf("parsing holiday %q: %w", d, err)
		}
		if t.Year() != year {
			return fmt.Errorf("holiday %s is not in year %d", d, year)
		}
		c.add(year, t.YearDay())
	}
	return nil
}

func (c *Calendar) add(year, yday int) {
	set, ok := c.days[year]
	if !ok {
		set = make(map[int]struct{})
		c.days[year] = set
	}
	set[yday] = struct{}{}
}

// IsHoliday reports whether the calendar date of t is a holiday.
// Years missing from the calendar are treated as having no holidays.
func (c *Calendar) IsHoliday(t time.Time) bool {
	set, ok := c.days[t.Year()]
	if !ok {
		return false
	}
	_, ok = set[t.YearDay()]
	return ok
}

// Years returns how many years the calendar has entries for
func (c *Calendar) Years() int {
	return len(c.days)
}
