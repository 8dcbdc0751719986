package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/ajharbinger/seo-lead-qualifier/internal/errors"
	"github.com/ajharbinger/seo-lead-qualifier/internal/logger"
	"github.com/ajharbinger/seo-lead-qualifier/internal/models"
	"github.com/ajharbinger/seo-lead-qualifier/internal/monitor"
	"github.com/ajharbinger/seo-lead-qualifier/internal/scoring"
)

// DefaultScoreWorkers bounds batch scoring when no worker count is configured
const DefaultScoreWorkers = 8

// LeadScoringService defines the interface for lead scoring business logic
type LeadScoringService interface {
	// ScoreLead validates and scores one lead, storing the result on it
	ScoreLead(ctx context.Context, lead *models.Lead) (*scoring.ScoreResult, error)
	// ScoreLeads scores every lead and returns them ranked, best first
	ScoreLeads(ctx context.Context, leads []*models.Lead) ([]*models.Lead, error)
	// Config returns the effective weights and thresholds
	Config() scoring.Config
}

// leadScoringServiceImpl implements LeadScoringService
type leadScoringServiceImpl struct {
	engine   *scoring.Engine
	validate *validator.Validate
	workers  int
	audits   *monitor.AuditMonitor
	logger   logger.Logger
	now      func() time.Time
}

// NewLeadScoringService creates a scoring service around engine. audits may be nil.
func NewLeadScoringService(engine *scoring.Engine, workers int, audits *monitor.AuditMonitor, log logger.Logger) LeadScoringService {
	if workers <= 0 {
		workers = DefaultScoreWorkers
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &leadScoringServiceImpl{
		engine:   engine,
		validate: validator.New(),
		workers:  workers,
		audits:   audits,
		logger:   log,
		now:      time.Now,
	}
}

// Config returns the engine configuration
func (s *leadScoringServiceImpl) Config() scoring.Config {
	return s.engine.Config()
}

// ScoreLead scores a single lead
func (s *leadScoringServiceImpl) ScoreLead(ctx context.Context, lead *models.Lead) (*scoring.ScoreResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Canceled(err).WithOperation("ScoreLead")
	}
	if err := s.validateLead(lead); err != nil {
		return nil, err.WithOperation("ScoreLead")
	}

	result := s.score(lead)
	s.logger.Info("Lead scored",
		"lead_id", lead.ID,
		"total_score", result.TotalScore,
		"tier", result.Tier,
		"opportunities", len(result.Opportunities))
	return result, nil
}

// ScoreLeads validates the whole batch before scoring any of it
func (s *leadScoringServiceImpl) ScoreLeads(ctx context.Context, leads []*models.Lead) ([]*models.Lead, error) {
	for i, lead := range leads {
		if err := s.validateLead(lead); err != nil {
			return nil, err.WithOperation("ScoreLeads").WithDetails(fmt.Sprintf("lead %d: %s", i, err.Details))
		}
	}

	started := s.now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, lead := range uniqueLeads(leads) {
		lead := lead
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s.score(lead)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Warn("Batch scoring interrupted", "leads", len(leads), "error", err)
		return nil, errors.Canceled(err).WithOperation("ScoreLeads")
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Canceled(err).WithOperation("ScoreLeads")
	}

	ranked := scoring.Rank(leads)
	s.logger.Info("Batch scored",
		"leads", len(ranked),
		"workers", s.workers,
		"duration", s.now().Sub(started))
	return ranked, nil
}

// uniqueLeads drops repeated pointers so no lead is stamped by two goroutines
func uniqueLeads(leads []*models.Lead) []*models.Lead {
	seen := make(map[*models.Lead]struct{}, len(leads))
	unique := make([]*models.Lead, 0, len(leads))
	for _, lead := range leads {
		if _, ok := seen[lead]; ok {
			continue
		}
		seen[lead] = struct{}{}
		unique = append(unique, lead)
	}
	return unique
}

// score runs the engine and stamps the lead
func (s *leadScoringServiceImpl) score(lead *models.Lead) *scoring.ScoreResult {
	lead.EnsureIdentity()
	result := s.engine.ScoreLead(lead.Signals())
	scoredAt := s.now().UTC()
	lead.Scoring = result
	lead.ScoredAt = &scoredAt
	s.audits.Observe(lead.Name, lead.Website, lead.Audit)
	return result
}

func (s *leadScoringServiceImpl) validateLead(lead *models.Lead) *errors.AppError {
	if lead == nil {
		return errors.InvalidLead("lead is required", nil).WithDetails("lead is null")
	}
	if err := s.validate.Struct(lead); err != nil {
		return errors.InvalidLead("lead failed validation", err).WithDetails(describeValidation(err))
	}
	return nil
}

// describeValidation summarises the first failing field
func describeValidation(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	if fe.Param() == "" {
		return fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag())
	}
	return fmt.Sprintf("%s failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param())
}
