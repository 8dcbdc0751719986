package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ajharbinger/seo-lead-qualifier/internal/errors"
	"github.com/ajharbinger/seo-lead-qualifier/internal/scoring"
)

func TestNew_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "RATE_LIMIT_RPM", "SCORE_WORKERS", "PHONE_REGION", "ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg := New()

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 120, cfg.RateLimitRPM)
	assert.Equal(t, 8, cfg.ScoreWorkers)
	assert.Equal(t, "US", cfg.PhoneRegion)
	assert.Empty(t, cfg.GetAllowedOrigins())
}

func TestNew_FromEnvironment(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("SCORE_WORKERS", "3")
	t.Setenv("RATE_LIMIT_RPM", "not-a-number")
	t.Setenv("PHONE_REGION", "gb")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")

	cfg := New()

	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.IsSecurityEnabled())
	assert.Equal(t, 3, cfg.ScoreWorkers)
	assert.Equal(t, 120, cfg.RateLimitRPM)
	assert.Equal(t, "GB", cfg.PhoneRegion)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.GetAllowedOrigins())
}

func TestLoadScoringFile_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := LoadScoringFile("")
	require.NoError(t, err)
	assert.Equal(t, scoring.DefaultConfig(), cfg)
}

func TestLoadScoringFile_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
  "scoring_weights": {"gmb_profile": 40, "website_quality": 20},
  "score_thresholds": {"hot": 75}
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadScoringFile(path)
	require.NoError(t, err)

	assert.Equal(t, scoring.ScoringWeights{
		GMBProfile:          40,
		ReviewPerformance:   scoring.DefaultReviewPerformanceWeight,
		WebsiteQuality:      20,
		ContactAvailability: scoring.DefaultContactAvailabilityWeight,
	}, cfg.Weights)
	assert.Equal(t, scoring.TierThresholds{Hot: 75, Warm: 60, Cold: 40}, cfg.Thresholds)
}

func TestParseScoringConfig_YAML(t *testing.T) {
	content := `
scoring_weights:
  contact_availability: 0
score_thresholds:
  warm: 55.5
  cold: 30
`
	cfg, err := ParseScoringConfig([]byte(content))
	require.NoError(t, err)

	assert.Equal(t, 0.0, cfg.Weights.ContactAvailability)
	assert.Equal(t, scoring.DefaultGMBProfileWeight, cfg.Weights.GMBProfile)
	assert.Equal(t, scoring.TierThresholds{Hot: 80, Warm: 55.5, Cold: 30}, cfg.Thresholds)
}

func TestParseScoringConfig_EmptyDocument(t *testing.T) {
	cfg, err := ParseScoringConfig([]byte("  \n"))
	require.NoError(t, err)
	assert.Equal(t, scoring.DefaultConfig(), cfg)
}

func TestParseScoringConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed", "scoring_weights: [1, 2"},
		{"negative weight", "scoring_weights:\n  gmb_profile: -5\n"},
		{"threshold above 100", "score_thresholds:\n  hot: 120\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScoringConfig([]byte(tt.content))
			require.Error(t, err)

			appErr, ok := apperrors.As(err)
			require.True(t, ok)
			assert.Equal(t, apperrors.ErrCodeConfigError, appErr.Code)
		})
	}
}

func TestLoadScoringFile_MissingFile(t *testing.T) {
	_, err := LoadScoringFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot read scoring config")
}
