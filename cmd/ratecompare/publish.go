package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jgoulah/ratecompare/internal/billing"
	"github.com/jgoulah/ratecompare/internal/log"
	"github.com/jgoulah/ratecompare/internal/publisher"
	"github.com/jgoulah/ratecompare/pkg/models"
)

var publishSource string

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish monthly plan comparisons over MQTT",
	Long: `Summarizes the samples stored in the database and publishes one retained
message per month to <topic_prefix>/<MM> on the configured MQTT broker.`,
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().StringVar(&publishSource, "source", "", "Only summarize samples from this source (default: all)")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// Load config
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if !cfg.MQTT.Enabled {
		return fmt.Errorf("MQTT is not enabled in config")
	}
	engine, err := newEngine(ctx, cfg)
	if err != nil {
		return err
	}

	// Open database
	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	samples, err := db.ListSamples(models.Source(publishSource))
	if err != nil {
		return fmt.Errorf("listing samples: %w", err)
	}
	if len(samples) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No usage stored, nothing to publish")
		return nil
	}
	summaries := billing.Summarize(ctx, engine, samples)

	pub, err := publisher.New(cfg.MQTT, cfg.GetTopicPrefix())
	if err != nil {
		return fmt.Errorf("creating publisher: %w", err)
	}
	defer pub.Close()

	if err := pub.Publish(ctx, summaries); err != nil {
		return err
	}
	log.Ctx(ctx).InfoContext(ctx, "publish finished", "months", len(summaries))
	fmt.Fprintf(cmd.OutOrStdout(), "Published %d monthly summaries\n", len(summaries))
	return nil
}
