// Package report renders monthly summaries and priced samples as a table, CSV
// or JSON.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/mattn/go-isatty"

	"github.com/jgoulah/ratecompare/pkg/models"
)

// Format is an output encoding
type Format string

const (
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
)

// ParseFormat validates a format name. An empty name picks the default for f.
func ParseFormat(name string, f *os.File) (Format, error) {
	switch Format(strings.ToLower(name)) {
	case "":
		return DefaultFormat(f), nil
	case FormatTable:
		return FormatTable, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown output format: %s (available: table, csv, json)", name)
}

// DefaultFormat is a table on a terminal and CSV when output is redirected
func DefaultFormat(f *os.File) Format {
	if f != nil && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return FormatTable
	}
	return FormatCSV
}

var summaryHeader = []string{
	"Month", "IsWinter", "kWh",
	"Tiered", "Tier1kWh", "Tier2kWh",
	"TOU", "TOUkWhOffPeak", "TOUkWhMidPeak", "TOUkWhPeak",
	"ULO", "ULOkWh", "ULOkWhOffPeak", "ULOkWhMidPeak", "ULOkWhPeak",
	"Best",
}

// summaryRow formats kWh with kwh and money with cost
func summaryRow(s models.MonthlySummary, kwh, cost func(float64) string) []string {
	return []string{
		strconv.Itoa(int(s.Month)),
		strconv.FormatBool(s.IsWinter),
		kwh(s.KWh),
		cost(s.Tiered), kwh(s.Tier1KWh), kwh(s.Tier2KWh),
		cost(s.TOU), kwh(s.TOUKWhOffPeak), kwh(s.TOUKWhMidPeak), kwh(s.TOUKWhPeak),
		cost(s.ULO), kwh(s.ULOKWh), kwh(s.ULOKWhOffPeak), kwh(s.ULOKWhMidPeak), kwh(s.ULOKWhPeak),
		string(s.Best),
	}
}

var sampleHeader = []string{
	"Timestamp", "kWh", "Month", "DayOfWeek", "Hour",
	"IsHoliday", "IsWeekend", "IsWinter",
	"TOUCategory", "TOURate", "TOUCost",
	"ULOCategory", "ULORate", "ULOCost",
}

func sampleRow(p models.PricedSample, num func(float64) string) []string {
	return []string{
		p.Timestamp.Format("2006-01-02 15:04"),
		num(p.KWh),
		strconv.Itoa(int(p.Month)),
		p.DayOfWeek.String(),
		strconv.Itoa(p.Hour),
		strconv.FormatBool(p.IsHoliday),
		strconv.FormatBool(p.IsWeekend),
		strconv.FormatBool(p.IsWinter),
		string(p.TOUCategory), num(p.TOURate), num(p.TOUCost),
		string(p.ULOCategory), num(p.ULORate), num(p.ULOCost),
	}
}

// WriteSummaries renders one row per month
func WriteSummaries(w io.Writer, format Format, summaries []models.MonthlySummary) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, summaries)
	case FormatCSV:
		rows := make([][]string, len(summaries))
		for i, s := range summaries {
			rows[i] = summaryRow(s, fmtFloat, fmtFloat)
		}
		return writeCSV(w, summaryHeader, rows)
	default:
		rows := make([][]string, len(summaries))
		for i, s := range summaries {
			rows[i] = summaryRow(s, fmtKWh, fmtCost)
		}
		return writeTable(w, summaryHeader, rows)
	}
}

// WriteSamples renders one row per priced sample
func WriteSamples(w io.Writer, format Format, samples []models.PricedSample) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, samples)
	case FormatCSV:
		rows := make([][]string, len(samples))
		for i, p := range samples {
			rows[i] = sampleRow(p, fmtFloat)
		}
		return writeCSV(w, sampleHeader, rows)
	default:
		rows := make([][]string, len(samples))
		for i, p := range samples {
			rows[i] = sampleRow(p, fmtRaw)
		}
		return writeTable(w, sampleHeader, rows)
	}
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

func writeTable(w io.Writer, header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	if _, err := fmt.Fprintln(tw, strings.Join(header, "\t")+"\t"); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintln(tw, strings.Join(row, "\t")+"\t"); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	if err := json.MarshalWrite(w, v, jsontext.WithIndent("  ")); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

func fmtRaw(x float64) string {
	return strconv.FormatFloat(x, 'f', 4, 64)
}

func fmtKWh(x float64) string {
	return humanize.FormatFloat("#,###.##", x)
}

func fmtCost(x float64) string {
	return "$" + humanize.FormatFloat("#,###.##", x)
}
