// Package main implements the leadscore CLI for scoring and exporting lead batches offline.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ajharbinger/seo-lead-qualifier/internal/errors"
)

var (
	scoringConfigPath string
	workers           int
	phoneRegion       string
	verbose           bool
)

var rootCmd = &cobra.Command{
	Use:           "leadscore",
	Short:         "Score and rank local-business leads for SEO outreach",
	Long:          "leadscore reads discovered business leads from a JSON or CSV file, scores them against the configured weights and thresholds, and writes ranked or export-ready output.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&scoringConfigPath, "config", "c", os.Getenv("SCORING_CONFIG_PATH"), "Path to a YAML or JSON scoring config file")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", 8, "Number of leads scored concurrently")
	rootCmd.PersistentFlags().StringVar(&phoneRegion, "region", "US", "Default region for phone number normalization")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if appErr, ok := errors.As(err); ok && appErr.Details != "" {
			fmt.Fprintf(os.Stderr, "  %s\n", appErr.Details)
		}
		os.Exit(1)
	}
}
