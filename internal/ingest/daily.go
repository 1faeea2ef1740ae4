package ingest

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/jgoulah/ratecompare/pkg/models"
)

const hoursPerDay = 24

// ReadDaily reads the one-row-per-day layout: a date column followed by 24
// hour-ending columns (1 through 24). Columns after the hours, such as daily
// off-peak/mid-peak/on-peak totals, are ignored. Empty hour cells are skipped.
func ReadDaily(ctx context.Context, r io.Reader, opts Options) ([]models.UsageSample, error) {
	reader := newCSVReader(r)

	header, err := readHeader(reader)
	if err != nil {
		return nil, err
	}

	dateCol := -1
	for i, col := range header {
		if strings.Contains(col, "date") || strings.Contains(col, "day") {
			dateCol = i
			break
		}
	}
	if dateCol == -1 {
		dateCol = 0
	}
	hourCols, err := dailyHourColumns(header, dateCol)
	if err != nil {
		return nil, err
	}

	lastCol := slices.Max(hourCols)

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

		if len(record) <= lastCol {
			if err := c.malformed(line, "row", strings.Join(record, ","), fmt.Errorf("expected %d hourly columns", hoursPerDay)); err != nil {
				return nil, err
			}
			continue
		}

		dateStr := strings.TrimSpace(record[dateCol])
		if dateStr == "" {
			continue
		}
		day, err := parseTimestamp(dateStr, opts.Location, opts.DayFirst)
		if err != nil {
			if err := c.malformed(line, "date", dateStr, err); err != nil {
				return nil, err
			}
			continue
		}

		for hour, col := range hourCols {
			usageStr := strings.TrimSpace(record[col])
			if usageStr == "" {
				continue
			}
			usage, err := parseKWh(usageStr)
			if err != nil {
				if err := c.malformed(line, header[col], usageStr, err); err != nil {
					return nil, err
				}
				continue
			}
			ts := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location())
			if err := c.add(line, ts, usage); err != nil {
				return nil, err
			}
		}
	}

	return c.done(), nil
}

// dailyHourColumns returns the column index of each hour, 0 through 23. Headers
// numbered 1 through 24 are used when all are present, otherwise the 24 columns
// following the date column.
func dailyHourColumns(header []string, dateCol int) ([]int, error) {
	cols := make([]int, hoursPerDay)
	found := 0
	for i, col := range header {
		col = strings.TrimPrefix(col, "he")
		col = strings.TrimPrefix(col, "hour")
		n, err := strconv.Atoi(strings.TrimSpace(col))
		if err != nil || n < 1 || n > hoursPerDay || i == dateCol {
			continue
		}
		cols[n-1] = i
		found++
	}
	if found == hoursPerDay {
		return cols, nil
	}

	if len(header) < dateCol+1+hoursPerDay {
		return nil, fmt.Errorf("expected %d hourly columns after the date column, header has %d columns", hoursPerDay, len(header))
	}
	for h := range cols {
		cols[h] = dateCol + 1 + h
	}
	return cols, nil
}
