package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ajharbinger/seo-lead-qualifier/internal/errors"
	"github.com/ajharbinger/seo-lead-qualifier/internal/scoring"
)

// ScoringFile is the on-disk scoring configuration. JSON is valid YAML, so the
// same file may be written in either syntax.
type ScoringFile struct {
	Weights    *scoring.WeightOverrides    `yaml:"scoring_weights"`
	Thresholds *scoring.ThresholdOverrides `yaml:"score_thresholds"`
}

var validate = validator.New()

// LoadScoringFile reads the scoring configuration at path. An empty path yields the defaults.
func LoadScoringFile(path string) (scoring.Config, error) {
	if path == "" {
		return scoring.DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return scoring.Config{}, errors.ConfigError("cannot read scoring config", err).WithDetails(path)
	}
	return ParseScoringConfig(data)
}

// ParseScoringConfig decodes, validates and resolves a scoring configuration
func ParseScoringConfig(data []byte) (scoring.Config, error) {
	var file ScoringFile
	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, &file); err != nil {
			return scoring.Config{}, errors.ConfigError("cannot parse scoring config", err)
		}
	}

	if err := validate.Struct(file); err != nil {
		return scoring.Config{}, errors.ConfigError("invalid scoring config", err).WithDetails(describeValidation(err))
	}

	return file.Resolve(), nil
}

// Resolve fills anything the file leaves out with the built-in defaults
func (f ScoringFile) Resolve() scoring.Config {
	return scoring.Config{
		Weights:    f.Weights.Resolve(),
		Thresholds: f.Thresholds.Resolve(),
	}
}

func describeValidation(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	return fmt.Sprintf("%s failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param())
}
