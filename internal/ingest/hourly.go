package ingest

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jgoulah/ratecompare/pkg/models"
)

// ReadHourly reads the one-row-per-hour layout. The header must name a date (or
// timestamp) column and a usage (or kWh) column. The hour comes from a start time
// or hour column when one is present, otherwise from the date column itself.
// An "hour ending" column counts 1 through 24.
func ReadHourly(ctx context.Context, r io.Reader, opts Options) ([]models.UsageSample, error) {
	reader := newCSVReader(r)

	header, err := readHeader(reader)
	if err != nil {
		return nil, err
	}

	// Find column indices
	dateCol := -1
	timeCol := -1
	hourCol := -1
	hourEnding := false
	usageCol := -1
	for i, col := range header {
		switch {
		case strings.Contains(col, "end") && !strings.Contains(col, "hour"):
			// End of the interval; the start is the sample's hour
			continue
		case strings.Contains(col, "date") && !strings.Contains(col, "time") && dateCol == -1:
			dateCol = i
		case strings.Contains(col, "start time") || strings.Contains(col, "timestamp") ||
			(strings.Contains(col, "date") && strings.Contains(col, "time")) || col == "time" || col == "start":
			if timeCol == -1 {
				timeCol = i
			}
		case strings.Contains(col, "hour") && hourCol == -1:
			hourCol = i
			hourEnding = strings.Contains(col, "ending")
		case (strings.Contains(col, "usage") || strings.Contains(col, "kwh")) && usageCol == -1:
			usageCol = i
		}
	}
	// Some exports only carry a combined timestamp column
	if dateCol == -1 && timeCol != -1 {
		dateCol, timeCol = timeCol, -1
	}
	if dateCol == -1 || usageCol == -1 {
		return nil, fmt.Errorf("could not find required columns (date and usage) in CSV. Header: %v", header)
	}

	c := &collector{ctx: ctx, opts: opts}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row: %w", err)
		}
		line, _ := reader.FieldPos(0)

		if len(record) <= dateCol || len(record) <= usageCol {
			if err := c.malformed(line, "row", strings.Join(record, ","), fmt.Errorf("expected at least %d columns", max(dateCol, usageCol)+1)); err != nil {
				return nil, err
			}
			continue
		}

		dateStr := strings.TrimSpace(record[dateCol])
		if dateStr == "" {
			continue
		}

		ts, err := hourlyTimestamp(record, dateCol, timeCol, hourCol, hourEnding, opts)
		if err != nil {
			if err := c.malformed(line, "timestamp", dateStr, err); err != nil {
				return nil, err
			}
			continue
		}

		usageStr := strings.TrimSpace(record[usageCol])
		usage, err := parseKWh(usageStr)
		if err != nil {
			if err := c.malformed(line, "usage", usageStr, err); err != nil {
				return nil, err
			}
			continue
		}

		if err := c.add(line, ts, usage); err != nil {
			return nil, err
		}
	}

	return c.done(), nil
}

// hourlyTimestamp combines the date cell with the start time or hour cell
func hourlyTimestamp(record []string, dateCol, timeCol, hourCol int, hourEnding bool, opts Options) (time.Time, error) {
	dateStr := strings.TrimSpace(record[dateCol])

	if timeCol != -1 && len(record) > timeCol {
		timeStr := strings.TrimSpace(record[timeCol])
		if timeStr != "" {
			// A start time with its own date wins over the date column
			if strings.ContainsAny(timeStr, "-/") {
				return parseTimestamp(timeStr, opts.Location, opts.DayFirst)
			}
			return parseTimestamp(dateStr+" "+timeStr, opts.Location, opts.DayFirst)
		}
	}

	if hourCol != -1 && len(record) > hourCol {
		hourStr := strings.TrimSpace(record[hourCol])
		if hourStr != "" {
			hour, err := strconv.Atoi(hourStr)
			if err == nil && hourEnding {
				// Hour ending 1 is the hour starting at midnight
				hour--
			}
			if err != nil || hour < 0 || hour > 23 {
				return time.Time{}, fmt.Errorf("hour %q is out of range", hourStr)
			}
			day, err := parseTimestamp(dateStr, opts.Location, opts.DayFirst)
			if err != nil {
				return time.Time{}, err
			}
			return time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location()), nil
		}
	}

	return parseTimestamp(dateStr, opts.Location, opts.DayFirst)
}
