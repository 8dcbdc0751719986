package api

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ajharbinger/seo-lead-qualifier/internal/errors"
	"github.com/ajharbinger/seo-lead-qualifier/internal/logger"
	"github.com/ajharbinger/seo-lead-qualifier/internal/models"
	"github.com/ajharbinger/seo-lead-qualifier/internal/scoring"
	"github.com/ajharbinger/seo-lead-qualifier/internal/services"
)

const (
	scoreTimeout  = 10 * time.Second
	exportTimeout = 60 * time.Second
)

// LeadsHandler handles lead scoring, ranking and export operations
type LeadsHandler struct {
	scoringService    services.LeadScoringService
	leadExportService *services.LeadExportService
	logger            logger.Logger
	now               func() time.Time
}

// NewLeadsHandler creates a new leads handler
func NewLeadsHandler(svcs *services.Services, log logger.Logger) *LeadsHandler {
	return &LeadsHandler{
		scoringService:    svcs.Scoring,
		leadExportService: svcs.Export,
		logger:            log,
		now:               time.Now,
	}
}

// LeadBatchRequest is the body of the batch endpoints
type LeadBatchRequest struct {
	Leads               []*models.Lead      `json:"leads"`
	Filter              services.LeadFilter `json:"filter"`
	ExistingIdentifiers []string            `json:"existing_identifiers,omitempty"`
}

// ScoreLead scores a single lead and returns its score result
func (h *LeadsHandler) ScoreLead(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), scoreTimeout)
	defer cancel()

	var lead models.Lead
	if err := c.ShouldBindJSON(&lead); err != nil {
		respondError(c, errors.InvalidInput("Invalid lead payload", err).WithDetails(err.Error()))
		return
	}

	result, err := h.scoringService.ScoreLead(ctx, &lead)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"lead_id":   lead.ID,
		"scoring":   result,
		"scored_at": lead.ScoredAt,
	})
}

// RankLeads scores a batch of leads and returns them best first
func (h *LeadsHandler) RankLeads(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), exportTimeout)
	defer cancel()

	req, ok := h.bindBatch(c)
	if !ok {
		return
	}

	ranked, err := h.scoringService.ScoreLeads(ctx, req.Leads)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"leads":     ranked,
		"count":     len(ranked),
		"timestamp": h.now().UTC(),
	})
}

// ExportLeads exports qualified leads in the requested format
func (h *LeadsHandler) ExportLeads(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), exportTimeout)
	defer cancel()

	req, ok := h.bindBatch(c)
	if !ok {
		return
	}

	options := services.LeadExportOptions{
		Format:                services.FormatJSON,
		IncludeScoreBreakdown: c.Query("include_breakdown") == "true",
		IncludeMetadata:       c.Query("include_metadata") != "false",
	}
	if format := c.Query("format"); format != "" {
		parsed, err := services.ParseExportFormat(format)
		if err != nil {
			respondError(c, err)
			return
		}
		options.Format = parsed
	}

	leads := services.FilterDuplicates(req.Leads, req.ExistingIdentifiers)
	if skipped := len(req.Leads) - len(leads); skipped > 0 {
		h.logger.Info("Skipped known leads", "duplicates", skipped)
	}

	data, err := h.leadExportService.ExportLeads(ctx, leads, req.Filter, options)
	if err != nil {
		respondError(c, err)
		return
	}

	filename := "qualified_leads_" + h.now().Format("2006-01-02_15-04-05")
	contentType := "application/json"
	if options.Format == services.FormatCSV {
		contentType = "text/csv"
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, filename, options.Format))
	c.Data(http.StatusOK, contentType, data)
}

// GetLeadStats returns statistics about the qualified leads in a batch
func (h *LeadsHandler) GetLeadStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), exportTimeout)
	defer cancel()

	req, ok := h.bindBatch(c)
	if !ok {
		return
	}

	leads, err := h.leadExportService.QualifiedLeads(ctx, req.Leads, req.Filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats":     calculateLeadStats(leads),
		"filter":    req.Filter,
		"timestamp": h.now().UTC(),
	})
}

// GetScoringConfig returns the effective weights and thresholds
func (h *LeadsHandler) GetScoringConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.scoringService.Config())
}

// bindBatch reads the batch body and applies any filter given as query parameters
func (h *LeadsHandler) bindBatch(c *gin.Context) (LeadBatchRequest, bool) {
	var req LeadBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidInput("Invalid request body", err).WithDetails(err.Error()))
		return req, false
	}

	if err := parseFilterFromQuery(c, &req.Filter); err != nil {
		respondError(c, err)
		return req, false
	}
	return req, true
}

// parseFilterFromQuery overrides filter fields with query parameters when present
func parseFilterFromQuery(c *gin.Context, filter *services.LeadFilter) error {
	if tiers := c.Query("tiers"); tiers != "" {
		filter.Tiers = nil
		for _, t := range splitCSV(tiers) {
			filter.Tiers = append(filter.Tiers, scoring.Tier(strings.ToLower(t)))
		}
	}

	if statuses := c.Query("statuses"); statuses != "" {
		filter.Statuses = nil
		for _, s := range splitCSV(statuses) {
			filter.Statuses = append(filter.Statuses, models.LeadStatus(s))
		}
	}

	for _, p := range []struct {
		name string
		dst  **int
	}{
		{"min_score", &filter.MinScore},
		{"max_score", &filter.MaxScore},
		{"limit", &filter.Limit},
	} {
		raw := c.Query(p.name)
		if raw == "" {
			continue
		}
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return errors.InvalidInput("Invalid filter parameters", err).WithDetails(p.name + " must be an integer")
		}
		*p.dst = &parsed
	}
	return nil
}

// calculateLeadStats calculates statistics from a slice of scored leads
func calculateLeadStats(leads []*models.Lead) map[string]interface{} {
	stats := map[string]interface{}{
		"total_leads": len(leads),
	}

	if len(leads) == 0 {
		return stats
	}

	tierCounts := make(map[scoring.Tier]int)
	opportunityCounts := make(map[string]int)
	scoreSum := 0
	minScore := leads[0].Scoring.TotalScore
	maxScore := minScore

	for _, lead := range leads {
		score := lead.Scoring.TotalScore
		tierCounts[lead.Scoring.Tier]++
		scoreSum += score
		minScore = min(minScore, score)
		maxScore = max(maxScore, score)

		for _, opportunity := range lead.Scoring.Opportunities {
			opportunityCounts[opportunityCategory(opportunity)]++
		}
	}

	stats["tier_distribution"] = tierCounts
	stats["average_score"] = float64(scoreSum) / float64(len(leads))
	stats["min_score"] = minScore
	stats["max_score"] = maxScore
	stats["common_opportunities"] = topOpportunities(opportunityCounts)
	return stats
}

// opportunityCategory strips the lead-specific detail, e.g. "Low review count (3 reviews)" -> "Low review count"
func opportunityCategory(opportunity string) string {
	if i := strings.IndexAny(opportunity, ":("); i > 0 {
		return strings.TrimSpace(opportunity[:i])
	}
	return opportunity
}

type opportunityCount struct {
	Opportunity string `json:"opportunity"`
	Count       int    `json:"count"`
}

func topOpportunities(counts map[string]int) []opportunityCount {
	out := make([]opportunityCount, 0, len(counts))
	for o, n := range counts {
		out = append(out, opportunityCount{Opportunity: o, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Opportunity < out[j].Opportunity
	})
	return out
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// respondError writes err with the status its code maps to
func respondError(c *gin.Context, err error) {
	status := errors.HTTPStatus(err)
	body := gin.H{"error": err.Error()}
	if appErr, ok := errors.As(err); ok {
		body = gin.H{"error": appErr.Message, "code": appErr.Code}
		if appErr.Details != "" {
			body["details"] = appErr.Details
		}
	}
	if status >= http.StatusInternalServerError {
		c.Error(err)
	}
	c.AbortWithStatusJSON(status, body)
}
