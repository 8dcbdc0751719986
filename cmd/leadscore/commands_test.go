package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajharbinger/seo-lead-qualifier/internal/errors"
	"github.com/ajharbinger/seo-lead-qualifier/internal/scoring"
	"github.com/ajharbinger/seo-lead-qualifier/pkg/config"
)

const sampleLeads = `[
  {
    "name": "Petal Works",
    "website": "https://petal.example",
    "profile": {"has_hours": true, "has_photos": true, "has_description": true, "has_services": true, "verified": true},
    "review_count": 120,
    "average_rating": 4.8,
    "seo_audit": {
      "overall_score": 92,
      "page_speed": {"mobile_score": 88},
      "meta_tags": {"description": {"present": true}},
      "mobile_friendly": {"is_mobile_friendly": true}
    }
  },
  {
    "name": "Crumb & Co",
    "phone": "(312) 744-5001",
    "email": "orders@crumb.example",
    "gmb_url": "https://maps.example/crumb",
    "profile": {"has_services": true},
    "review_count": 3,
    "average_rating": 4.6
  }
]`

// resetFlags restores the package flag variables to their defaults
func resetFlags(t *testing.T) {
	t.Helper()
	scoringConfigPath = ""
	workers = 2
	phoneRegion = "US"
	verbose = false

	scoreInput, scoreOutput, scoreTimeout = "", "", time.Minute

	exportInput, exportOutput, exportFormat = "", "", "csv"
	exportTiers = nil
	exportMinScore, exportMaxScore, exportLimit = -1, -1, 0
	exportExisting = ""
	exportBreakdown = false
	exportTimeout = time.Minute
}

func testCommand() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	return cmd
}

func TestRunScore(t *testing.T) {
	resetFlags(t)
	scoreInput = writeTempFile(t, "leads.json", sampleLeads)
	scoreOutput = filepath.Join(t.TempDir(), "ranked.json")

	require.NoError(t, runScore(testCommand(), nil))

	ranked, err := loadLeads(scoreOutput)
	require.NoError(t, err)
	require.Len(t, ranked, 2)

	assert.Equal(t, "Crumb & Co", ranked[0].Name)
	require.NotNil(t, ranked[0].Scoring)
	assert.Equal(t, 88, ranked[0].Scoring.TotalScore)
	assert.Equal(t, scoring.TierHot, ranked[0].Scoring.Tier)
	assert.NotNil(t, ranked[0].ScoredAt)

	assert.Equal(t, "Petal Works", ranked[1].Name)
	assert.Equal(t, 10, ranked[1].Scoring.TotalScore)
}

func TestRunScore_InvalidLead(t *testing.T) {
	resetFlags(t)
	scoreInput = writeTempFile(t, "leads.json", `[{"name": "ok"}, {"review_count": 2}]`)
	scoreOutput = filepath.Join(t.TempDir(), "ranked.json")

	err := runScore(testCommand(), nil)
	require.Error(t, err)
	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeInvalidLead, appErr.Code)
	assert.Contains(t, appErr.Details, "lead 1:")

	_, statErr := os.Stat(scoreOutput)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunScore_BadScoringConfig(t *testing.T) {
	resetFlags(t)
	scoreInput = writeTempFile(t, "leads.json", sampleLeads)
	scoringConfigPath = writeTempFile(t, "scoring.yaml", "score_thresholds:\n  hot: 140\n")

	err := runScore(testCommand(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CONFIG_ERROR")
}

func TestRunExport_CSVSkipsKnownLeads(t *testing.T) {
	resetFlags(t)
	exportInput = writeTempFile(t, "leads.json", sampleLeads)
	exportExisting = writeTempFile(t, "known.txt", "https://MAPS.example/crumb\n")
	exportOutput = filepath.Join(t.TempDir(), "export.csv")

	require.NoError(t, runExport(testCommand(), nil))

	f, err := os.Open(exportOutput)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Business Name", records[0][0])
	assert.Equal(t, "Petal Works", records[1][0])
}

func TestRunExport_JSONWithFilters(t *testing.T) {
	resetFlags(t)
	exportInput = writeTempFile(t, "leads.json", sampleLeads)
	exportOutput = filepath.Join(t.TempDir(), "export.json")
	exportFormat = "JSON"
	exportTiers = []string{"HOT", " warm "}
	exportBreakdown = true

	require.NoError(t, runExport(testCommand(), nil))

	data, err := os.ReadFile(exportOutput)
	require.NoError(t, err)

	var exported struct {
		Leads []struct {
			Name            string                   `json:"name"`
			ComponentScores *scoring.ComponentScores `json:"component_scores"`
		} `json:"leads"`
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(data, &exported))
	require.Equal(t, 1, exported.Count)
	assert.Equal(t, "Crumb & Co", exported.Leads[0].Name)
	require.NotNil(t, exported.Leads[0].ComponentScores)
	assert.Equal(t, 60, exported.Leads[0].ComponentScores.ReviewPerformance)
}

func TestRunExport_UnsupportedFormat(t *testing.T) {
	resetFlags(t)
	exportInput = writeTempFile(t, "leads.json", sampleLeads)
	exportFormat = "xlsx"

	err := runExport(testCommand(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xlsx")
}

func TestExportFilter(t *testing.T) {
	resetFlags(t)
	exportTiers = []string{"Hot", ""}
	exportMinScore = 0
	exportLimit = 5

	filter := exportFilter()
	assert.Equal(t, []scoring.Tier{scoring.TierHot}, filter.Tiers)
	require.NotNil(t, filter.MinScore)
	assert.Equal(t, 0, *filter.MinScore)
	assert.Nil(t, filter.MaxScore)
	require.NotNil(t, filter.Limit)
	assert.Equal(t, 5, *filter.Limit)
}

func TestRunConfig_RoundTrips(t *testing.T) {
	resetFlags(t)
	scoringConfigPath = writeTempFile(t, "scoring.yaml", "scoring_weights:\n  website_quality: 40\nscore_thresholds:\n  hot: 85\n")

	var out bytes.Buffer
	cmd := testCommand()
	cmd.SetOut(&out)
	require.NoError(t, runConfig(cmd, nil))

	parsed, err := config.ParseScoringConfig(out.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 40.0, parsed.Weights.WebsiteQuality)
	assert.Equal(t, scoring.DefaultGMBProfileWeight, parsed.Weights.GMBProfile)
	assert.Equal(t, 85.0, parsed.Thresholds.Hot)
	assert.Equal(t, scoring.DefaultWarmThreshold, parsed.Thresholds.Warm)
}

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"score", "export", "config"} {
		assert.True(t, names[want], "missing %s command", want)
	}
}

