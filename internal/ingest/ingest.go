// Package ingest turns vendor CSV exports into normalized hourly usage samples.
package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jgoulah/ratecompare/internal/log"
	"github.com/jgoulah/ratecompare/pkg/models"
)

// MalformedSampleError represents a row whose timestamp or usage could not be read
type MalformedSampleError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *MalformedSampleError) Error() string {
	return fmt.Sprintf("line %d: malformed %s %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *MalformedSampleError) Unwrap() error {
	return e.Err
}

// Options controls how rows that cannot be used are handled
type Options struct {
	// Strict returns the first malformed or invalid row as an error instead of
	// skipping it
	Strict bool
	// DayFirst reads ambiguous numeric dates as day/month/year
	DayFirst bool
	// Location is applied to timestamps without an offset. Defaults to time.Local.
	Location *time.Location
}

// Adapter reads one vendor layout
type Adapter func(ctx context.Context, r io.Reader, opts Options) ([]models.UsageSample, error)

var adapters = map[models.Source]Adapter{
	models.SourceHourly: ReadHourly,
	models.SourceDaily:  ReadDaily,
}

// Lookup returns the adapter for a layout name
func Lookup(layout string) (Adapter, error) {
	a, ok := adapters[models.Source(layout)]
	if !ok {
		return nil, fmt.Errorf("unknown layout: %s (available: hourly, daily)", layout)
	}
	return a, nil
}

// ReadFile opens path and reads it with the adapter for layout
func ReadFile(ctx context.Context, layout, path string, opts Options) ([]models.UsageSample, error) {
	adapter, err := Lookup(layout)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	samples, err := adapter(log.With(ctx, log.Ctx(ctx).With("file", path)), f, opts)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return samples, nil
}

func newCSVReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return reader
}

// readHeader reads the header row, lowercased and trimmed
func readHeader(reader *csv.Reader) ([]string, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	out := make([]string, len(header))
	for i, col := range header {
		col = strings.TrimPrefix(col, "\ufeff")
		out[i] = strings.ToLower(strings.TrimSpace(col))
	}
	return out, nil
}

// parseKWh attempts to parse a kWh value from a string
func parseKWh(s string) (float64, error) {
	// Remove common formatting characters
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ToLower(s)
	s = strings.TrimSuffix(s, "kwh")
	s = strings.TrimSpace(s)

	if s == "" {
		return 0, fmt.Errorf("empty string")
	}

	return strconv.ParseFloat(s, 64)
}

// collector applies the skip-or-fail policy while rows are read
type collector struct {
	ctx     context.Context
	opts    Options
	samples []models.UsageSample
	skipped int
}

// malformed records an unreadable field. It returns an error only in strict mode.
func (c *collector) malformed(line int, column, value string, err error) error {
	mErr := &MalformedSampleError{Line: line, Column: column, Value: value, Err: err}
	if c.opts.Strict {
		return mErr
	}
	c.skipped++
	log.Ctx(c.ctx).DebugContext(c.ctx, "skipping row", "error", mErr)
	return nil
}

// add validates and stores a sample. It returns an error only in strict mode.
func (c *collector) add(line int, ts time.Time, kwh float64) error {
	s, err := models.NewUsageSample(ts, kwh)
	if err != nil {
		var invalid *models.InvalidUsageError
		if c.opts.Strict || !errors.As(err, &invalid) {
			return fmt.Errorf("line %d: %w", line, err)
		}
		c.skipped++
		log.Ctx(c.ctx).WarnContext(c.ctx, "skipping invalid usage", "line", line, "error", err)
		return nil
	}
	c.samples = append(c.samples, s)
	return nil
}

func (c *collector) done() []models.UsageSample {
	if c.skipped > 0 {
		log.Ctx(c.ctx).InfoContext(c.ctx, "skipped unusable rows", "skipped", c.skipped, "samples", len(c.samples))
	}
	return c.samples
}
