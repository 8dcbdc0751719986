package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ajharbinger/seo-lead-qualifier/internal/scoring"
	"github.com/ajharbinger/seo-lead-qualifier/internal/services"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export qualified leads as CSV or JSON",
	Long: `Scores the input leads, skips any already known by website or profile URL,
applies the tier and score filters, and writes the survivors in sheet-ready CSV or JSON.`,
	RunE: runExport,
}

var (
	exportInput     string
	exportOutput    string
	exportFormat    string
	exportTiers     []string
	exportMinScore  int
	exportMaxScore  int
	exportLimit     int
	exportExisting  string
	exportBreakdown bool
	exportTimeout   time.Duration
)

func init() {
	exportCmd.Flags().StringVarP(&exportInput, "in", "i", "", "Path to leads JSON or CSV file (required)")
	exportCmd.Flags().StringVarP(&exportOutput, "out", "o", "", "Output file (default stdout)")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "Export format: csv or json")
	exportCmd.Flags().StringSliceVar(&exportTiers, "tier", nil, "Tiers to include, e.g. --tier hot,warm")
	exportCmd.Flags().IntVar(&exportMinScore, "min-score", -1, "Minimum total score")
	exportCmd.Flags().IntVar(&exportMaxScore, "max-score", -1, "Maximum total score")
	exportCmd.Flags().IntVar(&exportLimit, "limit", 0, "Maximum number of leads to export")
	exportCmd.Flags().StringVar(&exportExisting, "existing", "", "File of known websites or profile URLs, one per line")
	exportCmd.Flags().BoolVar(&exportBreakdown, "breakdown", false, "Include component scores in JSON output")
	exportCmd.Flags().DurationVar(&exportTimeout, "timeout", 2*time.Minute, "Maximum time to spend scoring")

	if err := exportCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	log := newCLILogger()

	format, err := services.ParseExportFormat(exportFormat)
	if err != nil {
		return err
	}

	leads, err := loadLeads(exportInput)
	if err != nil {
		return err
	}

	existing, err := loadIdentifiers(exportExisting)
	if err != nil {
		return err
	}

	svcs, err := buildServices(log)
	if err != nil {
		return err
	}

	fresh := services.FilterDuplicates(leads, existing)
	if skipped := len(leads) - len(fresh); skipped > 0 {
		log.Info("Skipped known leads", "duplicates", skipped)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), exportTimeout)
	defer cancel()

	data, err := svcs.Export.ExportLeads(ctx, fresh, exportFilter(), services.LeadExportOptions{
		Format:                format,
		IncludeScoreBreakdown: exportBreakdown,
		IncludeMetadata:       true,
	})
	if err != nil {
		return err
	}

	return writeOutput(exportOutput, data)
}

// exportFilter builds the lead filter from the export flags. Negative scores and a zero limit mean unset.
func exportFilter() services.LeadFilter {
	var filter services.LeadFilter
	for _, tier := range exportTiers {
		if tier = strings.TrimSpace(tier); tier != "" {
			filter.Tiers = append(filter.Tiers, scoring.Tier(strings.ToLower(tier)))
		}
	}
	if exportMinScore >= 0 {
		minScore := exportMinScore
		filter.MinScore = &minScore
	}
	if exportMaxScore >= 0 {
		maxScore := exportMaxScore
		filter.MaxScore = &maxScore
	}
	if exportLimit > 0 {
		limit := exportLimit
		filter.Limit = &limit
	}
	return filter
}
