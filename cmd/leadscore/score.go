package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score leads and write them ranked best first",
	Long:  "Scores every lead in the input file and writes the batch ranked by total score, then priority. Each lead carries its score result and the time it was scored.",
	RunE:  runScore,
}

var (
	scoreInput   string
	scoreOutput  string
	scoreTimeout time.Duration
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreInput, "in", "i", "", "Path to leads JSON or CSV file (required)")
	scoreCmd.Flags().StringVarP(&scoreOutput, "out", "o", "", "Output file for ranked leads (default stdout)")
	scoreCmd.Flags().DurationVar(&scoreTimeout, "timeout", 2*time.Minute, "Maximum time to spend scoring")

	if err := scoreCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	log := newCLILogger()

	leads, err := loadLeads(scoreInput)
	if err != nil {
		return err
	}

	svcs, err := buildServices(log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), scoreTimeout)
	defer cancel()

	ranked, err := svcs.Scoring.ScoreLeads(ctx, leads)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(leadsFile{Leads: ranked}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal ranked leads: %w", err)
	}
	if err := writeOutput(scoreOutput, append(data, '\n')); err != nil {
		return err
	}

	log.Info("Scored leads", "count", len(ranked), "out", scoreOutput)
	return nil
}
