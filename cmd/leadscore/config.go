package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ajharbinger/seo-lead-qualifier/internal/scoring"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective scoring weights and thresholds",
	Long:  "Loads the scoring config file, if any, fills unset values from the built-in defaults and prints the result as YAML.",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	svcs, err := buildServices(newCLILogger())
	if err != nil {
		return err
	}

	data, err := marshalScoringConfig(svcs.Scoring.Config())
	if err != nil {
		return err
	}

	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func marshalScoringConfig(cfg scoring.Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal scoring config: %w", err)
	}
	return data, nil
}
