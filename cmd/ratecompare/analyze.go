package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jgoulah/ratecompare/internal/billing"
	"github.com/jgoulah/ratecompare/internal/ingest"
	"github.com/jgoulah/ratecompare/internal/log"
	"github.com/jgoulah/ratecompare/internal/report"
	"github.com/jgoulah/ratecompare/pkg/models"
)

var (
	analyzeLayout   string
	analyzeRaw      bool
	analyzeStrict   bool
	analyzeDayFirst bool
	analyzeOutput   string
	analyzeStored   bool
	analyzeSource   string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [FILE...]",
	Short: "Price usage under each plan and report the cheapest per month",
	Long: `Reads hourly usage from CSV exports (or from the database with --stored), prices
every hour under the TOU and ULO plans, applies the tiered plan to each month's total
and prints one row per month. Use --raw to print the priced hours instead.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeLayout, "layout", string(models.SourceHourly), "CSV layout (hourly or daily)")
	analyzeCmd.Flags().BoolVar(&analyzeRaw, "raw", false, "Print each priced hour instead of monthly summaries")
	analyzeCmd.Flags().BoolVar(&analyzeStrict, "strict", false, "Fail on the first malformed or invalid row")
	analyzeCmd.Flags().BoolVar(&analyzeDayFirst, "day-first", false, "Read ambiguous numeric dates as day/month/year")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "Output format: table, csv or json (default: table on a terminal, csv otherwise)")
	analyzeCmd.Flags().BoolVar(&analyzeStored, "stored", false, "Analyze samples stored in the database")
	analyzeCmd.Flags().StringVar(&analyzeSource, "source", "", "With --stored, only use samples from this source (default: all)")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	format, err := report.ParseFormat(analyzeOutput, os.Stdout)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	engine, err := newEngine(ctx, cfg)
	if err != nil {
		return err
	}

	var samples []models.UsageSample
	if analyzeStored {
		db, err := openDB(cfg)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()

		samples, err = db.ListSamples(models.Source(analyzeSource))
		if err != nil {
			return fmt.Errorf("listing samples: %w", err)
		}
	} else {
		if len(args) == 0 {
			return fmt.Errorf("at least one FILE is required unless --stored is set")
		}
		samples, err = readFiles(ctx, analyzeLayout, args, ingest.Options{
			Strict:   analyzeStrict,
			DayFirst: analyzeDayFirst,
		})
		if err != nil {
			return err
		}
	}
	log.Ctx(ctx).InfoContext(ctx, "analyzing usage", "samples", len(samples))

	out := cmd.OutOrStdout()
	if analyzeRaw {
		return report.WriteSamples(out, format, engine.PriceAll(samples))
	}
	return report.WriteSummaries(out, format, billing.Summarize(ctx, engine, samples))
}

// readFiles reads every file with the same layout and concatenates the samples
func readFiles(ctx context.Context, layout string, paths []string, opts ingest.Options) ([]models.UsageSample, error) {
	var all []models.UsageSample
	for _, path := range paths {
		samples, err := ingest.ReadFile(ctx, layout, path, opts)
		if err != nil {
			return nil, err
		}
		log.Ctx(ctx).DebugContext(ctx, "read usage file", "file", path, "samples", len(samples))
		all = append(all, samples...)
	}
	return all, nil
}
