package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jgoulah/ratecompare/internal/ingest"
	"github.com/jgoulah/ratecompare/internal/log"
	"github.com/jgoulah/ratecompare/pkg/models"
)

var (
	importLayout   string
	importSource   string
	importStrict   bool
	importDayFirst bool
)

var importCmd = &cobra.Command{
	Use:   "import FILE...",
	Short: "Store usage from CSV exports in the database",
	Long: `Parses CSV exports and stores the hourly samples in the local SQLite database.
Hours already stored for the same source are left unchanged.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importLayout, "layout", string(models.SourceHourly), "CSV layout (hourly or daily)")
	importCmd.Flags().StringVar(&importSource, "source", "", "Source name to store samples under (default: the layout)")
	importCmd.Flags().BoolVar(&importStrict, "strict", false, "Fail on the first malformed or invalid row")
	importCmd.Flags().BoolVar(&importDayFirst, "day-first", false, "Read ambiguous numeric dates as day/month/year")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	samples, err := readFiles(ctx, importLayout, args, ingest.Options{
		Strict:   importStrict,
		DayFirst: importDayFirst,
	})
	if err != nil {
		return err
	}

	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	source := models.Source(importSource)
	if source == "" {
		source = models.Source(importLayout)
	}
	importID, inserted, err := db.InsertSamples(source, samples)
	if err != nil {
		return fmt.Errorf("storing samples: %w", err)
	}
	log.Ctx(ctx).InfoContext(ctx, "import finished", "import_id", importID, "source", source, "read", len(samples), "inserted", inserted)

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d new samples (%d read, %d already stored) as %s\n",
		inserted, len(samples), len(samples)-inserted, source)
	return nil
}
