package services

import (
	"github.com/ajharbinger/seo-lead-qualifier/internal/logger"
	"github.com/ajharbinger/seo-lead-qualifier/internal/monitor"
	"github.com/ajharbinger/seo-lead-qualifier/internal/scoring"
	"github.com/ajharbinger/seo-lead-qualifier/pkg/config"
)

// Services contains all application services
type Services struct {
	Scoring LeadScoringService
	Export  *LeadExportService
	Audits  *monitor.AuditMonitor
}

// NewServices creates a new Services instance with all dependencies
func NewServices(cfg *config.Config, scoringCfg scoring.Config, log logger.Logger) *Services {
	audits := monitor.NewAuditMonitor()
	scoringService := NewLeadScoringService(scoring.NewEngine(scoringCfg), cfg.ScoreWorkers, audits, log)

	return &Services{
		Scoring: scoringService,
		Export:  NewLeadExportService(scoringService, cfg.PhoneRegion, log),
		Audits:  audits,
	}
}
