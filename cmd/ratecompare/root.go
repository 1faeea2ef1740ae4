package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jgoulah/ratecompare/internal/config"
	"github.com/jgoulah/ratecompare/internal/database"
	"github.com/jgoulah/ratecompare/internal/log"
	"github.com/jgoulah/ratecompare/internal/rates"
)

var (
	cfgFile string
	dbPath  string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "ratecompare",
	Short: "Compare electricity rate plans against your usage history",
	Long: `RateCompare prices hourly electricity usage under the tiered, time-of-use and
ultra-low-overnight plans and reports which plan would have been cheapest each month.
Usage comes from utility CSV exports or from samples imported into a local SQLite database.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetDefaultLogLevel(slog.LevelDebug)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file (default from config, else ./data.db)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// getConfigPath returns the config file path
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultConfigPath()
}

// getDBPath returns the database file path, preferring the --db flag
func getDBPath(cfg *config.Config) string {
	if dbPath != "" {
		return dbPath
	}
	return cfg.GetDatabase()
}

// loadConfig loads the configuration file
func loadConfig() (*config.Config, error) {
	return config.Load(getConfigPath())
}

// openDB opens the database connection
func openDB(cfg *config.Config) (*database.DB, error) {
	path := getDBPath(cfg)

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	return database.New(path)
}

// newEngine builds the pricing engine from the configured tariff and holidays
func newEngine(ctx context.Context, cfg *config.Config) (*rates.Engine, error) {
	cal, err := cfg.HolidayCalendar()
	if err != nil {
		return nil, err
	}
	log.Ctx(ctx).DebugContext(ctx, "loaded holiday calendar", "years", cal.Years())
	return rates.NewEngine(cfg.Tariff(), cal), nil
}
