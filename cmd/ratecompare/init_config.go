package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jgoulah/ratecompare/internal/config"
)

var initConfigForce bool

var initConfigCmd = &cobra.Command{
	Use:   "init-config",
	Short: "Write a config file with every default filled in",
	Long: `Writes the effective configuration (built-in rates, tier thresholds and any
values already set) to the config file so it can be edited.`,
	RunE: runInitConfig,
}

func init() {
	initConfigCmd.Flags().BoolVar(&initConfigForce, "force", false, "Overwrite an existing config file")
	rootCmd.AddCommand(initConfigCmd)
}

func runInitConfig(cmd *cobra.Command, args []string) error {
	path := getConfigPath()
	if _, err := os.Stat(path); err == nil && !initConfigForce {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := config.Save(path, cfg.Resolved()); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
