package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jgoulah/ratecompare/pkg/models"
)

var listSource string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored usage by day",
	Long:  `Displays the daily kWh totals of the samples stored in the database.`,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listSource, "source", "", "Filter by source (default: all)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Open database
	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	totals, err := db.DailyTotals(models.Source(listSource))
	if err != nil {
		return fmt.Errorf("listing daily totals: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(totals) == 0 {
		fmt.Fprintln(out, "No usage stored")
		return nil
	}

	fmt.Fprintln(out, "----------------------------------------")
	fmt.Fprintf(out, "%-12s  %-8s  %10s  %5s\n", "Date", "Source", "kWh", "Hours")
	fmt.Fprintln(out, "----------------------------------------")

	var total float64
	var hours int64
	for _, t := range totals {
		fmt.Fprintf(out, "%-12s  %-8s  %10s  %5d\n", t.Date.Format("2006-01-02"), t.Source, humanize.FormatFloat("#,###.##", t.KWh), t.Samples)
		total += t.KWh
		hours += int64(t.Samples)
	}

	fmt.Fprintln(out, "----------------------------------------")
	fmt.Fprintf(out, "Total: %s kWh over %s hours (%d days)\n",
		humanize.FormatFloat("#,###.##", total), humanize.Comma(hours), len(totals))
	return nil
}
