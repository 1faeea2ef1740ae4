package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/jgoulah/ratecompare/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var utc = Options{Location: time.UTC}

func TestReadHourlyDateAndStartTime(t *testing.T) {
	data := `Date,Start Time,End Time,Usage (kWh)
2022-07-15,14:00,15:00,1.50
2022-07-15,15:00,16:00,"1,002.25"
2022-07-15,16:15,17:00,0
`
	samples, err := ReadHourly(context.Background(), strings.NewReader(data), utc)
	require.NoError(t, err)
	require.Len(t, samples, 3)

	assert.Equal(t, time.Date(2022, 7, 15, 14, 0, 0, 0, time.UTC), samples[0].Timestamp)
	assert.Equal(t, 1.5, samples[0].KWh)
	assert.Equal(t, 1002.25, samples[1].KWh)
	// Minutes are truncated and zero usage is kept
	assert.Equal(t, time.Date(2022, 7, 15, 16, 0, 0, 0, time.UTC), samples[2].Timestamp)
	assert.Zero(t, samples[2].KWh)
}

func TestReadHourlyFullStartTime(t *testing.T) {
	data := "\ufeffDate,Start Time,Usage\n" +
		"7/15/2022,2022-07-15 23:00:00-04:00,0.8 kWh\n"
	samples, err := ReadHourly(context.Background(), strings.NewReader(data), utc)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	// The recorded offset is kept, so the wall-clock hour does not move
	assert.Equal(t, 23, samples[0].Timestamp.Hour())
	assert.Equal(t, 15, samples[0].Timestamp.Day())
	assert.Equal(t, 0.8, samples[0].KWh)
}

func TestReadHourlyHourEnding(t *testing.T) {
	data := `Date,Hour Ending,kWh
2023-01-02,1,0.5
2023-01-02,24,0.7
`
	samples, err := ReadHourly(context.Background(), strings.NewReader(data), utc)
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, 0, samples[0].Timestamp.Hour())
	assert.Equal(t, 23, samples[1].Timestamp.Hour())
}

func TestReadHourlyTimestampColumn(t *testing.T) {
	data := `Timestamp,Usage
2022-03-04 05:00,0.25
`
	samples, err := ReadHourly(context.Background(), strings.NewReader(data), utc)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, time.Date(2022, 3, 4, 5, 0, 0, 0, time.UTC), samples[0].Timestamp)
}

func TestReadHourlyStartAndEndDate(t *testing.T) {
	data := `Start Date,End Date,kWh
2022-07-15 14:00,2022-07-15 15:00,1
2022-07-15 15:00,2022-07-15 16:00,2
`
	samples, err := ReadHourly(context.Background(), strings.NewReader(data), utc)
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, time.Date(2022, 7, 15, 14, 0, 0, 0, time.UTC), samples[0].Timestamp)
	assert.Equal(t, time.Date(2022, 7, 15, 15, 0, 0, 0, time.UTC), samples[1].Timestamp)
}

func TestReadHourlyEndTimeIgnored(t *testing.T) {
	data := `Date,End Time,Start Time,Usage
2022-07-15,15:00,14:00,1
`
	samples, err := ReadHourly(context.Background(), strings.NewReader(data), utc)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, 14, samples[0].Timestamp.Hour())
}

func TestReadHourlySkipsMalformed(t *testing.T) {
	data := `Date,Start Time,Usage
not a date,14:00,1
2022-07-15,14:00,abc
2022-07-15,15:00,-2
2022-07-15,16:00,nan
2022-07-15,17:00,3
`
	samples, err := ReadHourly(context.Background(), strings.NewReader(data), utc)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, 3.0, samples[0].KWh)
}

func TestReadHourlyStrict(t *testing.T) {
	opts := utc
	opts.Strict = true

	_, err := ReadHourly(context.Background(), strings.NewReader("Date,Start Time,Usage\nbad,14:00,1\n"), opts)
	require.Error(t, err)
	var malformed *MalformedSampleError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, 2, malformed.Line)
	assert.Equal(t, "timestamp", malformed.Column)

	_, err = ReadHourly(context.Background(), strings.NewReader("Date,Start Time,Usage\n2022-07-15,14:00,-1\n"), opts)
	require.Error(t, err)
	var invalid *models.InvalidUsageError
	assert.True(t, errors.As(err, &invalid))
}

func TestReadHourlyMissingColumns(t *testing.T) {
	_, err := ReadHourly(context.Background(), strings.NewReader("Start,End\n1,2\n"), utc)
	assert.Error(t, err)
}

func TestReadHourlyDayFirst(t *testing.T) {
	opts := utc
	opts.DayFirst = true
	samples, err := ReadHourly(context.Background(), strings.NewReader("Date,Start Time,Usage\n02/03/2022,10:00,1\n"), opts)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, time.March, samples[0].Timestamp.Month())
	assert.Equal(t, 2, samples[0].Timestamp.Day())

	samples, err = ReadHourly(context.Background(), strings.NewReader("Date,Start Time,Usage\n02/03/2022,10:00,1\n"), utc)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, time.February, samples[0].Timestamp.Month())
}

func dailyRow(date string, kwh string, totals string) string {
	cells := []string{date}
	for i := 0; i < 24; i++ {
		cells = append(cells, kwh)
	}
	if totals != "" {
		cells = append(cells, totals)
	}
	return strings.Join(cells, ",")
}

func dailyHeader(totals bool) string {
	cells := []string{"Date"}
	for i := 1; i <= 24; i++ {
		cells = append(cells, "HE"+strconv.Itoa(i))
	}
	if totals {
		cells = append(cells, "Off-Peak", "Mid-Peak", "On-Peak")
	}
	return strings.Join(cells, ",")
}

func TestReadDaily(t *testing.T) {
	data := strings.Join([]string{
		dailyHeader(true),
		dailyRow("2022-07-15", "0.5", "6,3,3"),
		dailyRow("2022-07-16", "0.25", "6,0,0"),
	}, "\n") + "\n"

	samples, err := ReadDaily(context.Background(), strings.NewReader(data), utc)
	require.NoError(t, err)
	require.Len(t, samples, 48)
	assert.Equal(t, time.Date(2022, 7, 15, 0, 0, 0, 0, time.UTC), samples[0].Timestamp)
	assert.Equal(t, time.Date(2022, 7, 15, 23, 0, 0, 0, time.UTC), samples[23].Timestamp)
	assert.Equal(t, 0.5, samples[23].KWh)
	assert.Equal(t, time.Date(2022, 7, 16, 0, 0, 0, 0, time.UTC), samples[24].Timestamp)
	assert.Equal(t, 0.25, samples[47].KWh)
}

func TestReadDailyPositionalColumns(t *testing.T) {
	cells := []string{"Day"}
	for i := 0; i < 24; i++ {
		cells = append(cells, "kWh")
	}
	data := strings.Join(cells, ",") + "\n" + dailyRow("2022-01-03", "1", "") + "\n"

	samples, err := ReadDaily(context.Background(), strings.NewReader(data), utc)
	require.NoError(t, err)
	assert.Len(t, samples, 24)
}

func TestReadDailyShortRow(t *testing.T) {
	data := dailyHeader(false) + "\n2022-07-15,1,2,3\n" + dailyRow("2022-07-16", "1", "") + "\n"

	samples, err := ReadDaily(context.Background(), strings.NewReader(data), utc)
	require.NoError(t, err)
	assert.Len(t, samples, 24)

	opts := utc
	opts.Strict = true
	_, err = ReadDaily(context.Background(), strings.NewReader(data), opts)
	var malformed *MalformedSampleError
	assert.True(t, errors.As(err, &malformed))
}

func TestReadDailyTooFewColumns(t *testing.T) {
	_, err := ReadDaily(context.Background(), strings.NewReader("Date,1,2,3\n"), utc)
	assert.Error(t, err)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usage.csv")
	require.NoError(t, os.WriteFile(path, []byte("Date,Start Time,Usage\n2022-07-15,14:00,1\n"), 0o600))

	samples, err := ReadFile(context.Background(), "hourly", path, utc)
	require.NoError(t, err)
	assert.Len(t, samples, 1)

	_, err = ReadFile(context.Background(), "weekly", path, utc)
	assert.Error(t, err)

	_, err = ReadFile(context.Background(), "hourly", filepath.Join(t.TempDir(), "missing.csv"), utc)
	assert.Error(t, err)
}

func TestParseTimestamp(t *testing.T) {
	tests := map[string]time.Time{
		"2022-07-15 14:00":     time.Date(2022, 7, 15, 14, 0, 0, 0, time.UTC),
		"2022-07-15 2:00 PM":   time.Date(2022, 7, 15, 14, 0, 0, 0, time.UTC),
		"7/15/2022 2:00:00 PM": time.Date(2022, 7, 15, 14, 0, 0, 0, time.UTC),
		"July 15, 2022":        time.Date(2022, 7, 15, 0, 0, 0, 0, time.UTC),
		"2022-07-15T14:00:00Z": time.Date(2022, 7, 15, 14, 0, 0, 0, time.UTC),
	}
	for in, want := range tests {
		got, err := parseTimestamp(in, time.UTC, false)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), "%s: got %s", in, got)
	}

	_, err := parseTimestamp("", time.UTC, false)
	assert.Error(t, err)
	_, err = parseTimestamp("yesterday-ish", time.UTC, false)
	assert.Error(t, err)
}

func TestParseTimestampDayFirst(t *testing.T) {
	tests := map[string]time.Time{
		"2/3/2022 10:00":       time.Date(2022, 3, 2, 10, 0, 0, 0, time.UTC),
		"2022-07-15 14:00":     time.Date(2022, 7, 15, 14, 0, 0, 0, time.UTC),
		"2022-07-15T14:00:00Z": time.Date(2022, 7, 15, 14, 0, 0, 0, time.UTC),
	}
	for in, want := range tests {
		got, err := parseTimestamp(in, time.UTC, true)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), "%s: got %s", in, got)
	}
}

func TestReadHourlyDayFirstISO(t *testing.T) {
	opts := utc
	opts.DayFirst = true
	samples, err := ReadHourly(context.Background(), strings.NewReader("Timestamp,Usage\n2022-07-15T14:00:00Z,1\n"), opts)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, time.Date(2022, 7, 15, 14, 0, 0, 0, time.UTC), samples[0].Timestamp)
}
