package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ajharbinger/seo-lead-qualifier/internal/logger"
	"github.com/ajharbinger/seo-lead-qualifier/internal/models"
	"github.com/ajharbinger/seo-lead-qualifier/internal/services"
	"github.com/ajharbinger/seo-lead-qualifier/pkg/config"
)

// leadsFile is the wrapped input form, as written by the rank endpoint
type leadsFile struct {
	Leads []*models.Lead `json:"leads"`
}

// loadLeads reads a JSON array of leads, an object with a "leads" array, or a CSV file with a header row
func loadLeads(path string) ([]*models.Lead, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read leads file: %w", err)
		}
		defer f.Close()
		return services.ParseLeadsCSV(f)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read leads file: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("leads file %s is empty", path)
	}

	if trimmed[0] == '[' {
		var leads []*models.Lead
		if err := json.Unmarshal(trimmed, &leads); err != nil {
			return nil, fmt.Errorf("failed to parse leads JSON: %w", err)
		}
		return leads, nil
	}

	var wrapped leadsFile
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to parse leads JSON: %w", err)
	}
	return wrapped.Leads, nil
}

// loadIdentifiers reads one known website or profile URL per line. Blank lines and # comments are skipped.
func loadIdentifiers(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open identifiers file: %w", err)
	}
	defer f.Close()

	var identifiers []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		identifiers = append(identifiers, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read identifiers file: %w", err)
	}
	return identifiers, nil
}

// writeOutput writes data to path, creating parent directories. An empty path or "-" writes to stdout.
func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// newCLILogger logs to stderr so stdout stays clean for piped output
func newCLILogger() logger.Logger {
	level := logger.LevelWarn
	if verbose {
		level = logger.LevelDebug
	}
	return logger.NewLogger(os.Stderr, os.Stderr, level)
}

// buildServices wires the scoring and export services from the persistent flags
func buildServices(log logger.Logger) (*services.Services, error) {
	scoringCfg, err := config.LoadScoringFile(scoringConfigPath)
	if err != nil {
		return nil, err
	}

	cfg := &config.Config{
		PhoneRegion:  strings.ToUpper(phoneRegion),
		ScoreWorkers: workers,
	}
	return services.NewServices(cfg, scoringCfg, log), nil
}
