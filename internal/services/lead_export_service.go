package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"

	"github.com/ajharbinger/seo-lead-qualifier/internal/errors"
	"github.com/ajharbinger/seo-lead-qualifier/internal/logger"
	"github.com/ajharbinger/seo-lead-qualifier/internal/models"
	"github.com/ajharbinger/seo-lead-qualifier/internal/scoring"
)

// LeadExportService handles filtering and exporting scored leads
type LeadExportService struct {
	scoringService LeadScoringService
	phoneRegion    string
	logger         logger.Logger
	now            func() time.Time
}

// NewLeadExportService creates a new lead export service
func NewLeadExportService(scoringService LeadScoringService, phoneRegion string, log logger.Logger) *LeadExportService {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &LeadExportService{
		scoringService: scoringService,
		phoneRegion:    strings.ToUpper(phoneRegion),
		logger:         log,
		now:            time.Now,
	}
}

// LeadFilter contains filtering criteria for scored leads
type LeadFilter struct {
	Tiers    []scoring.Tier      `json:"tiers,omitempty"`     // Tiers to include
	MinScore *int                `json:"min_score,omitempty"` // Minimum total score
	MaxScore *int                `json:"max_score,omitempty"` // Maximum total score
	Statuses []models.LeadStatus `json:"statuses,omitempty"`  // Pipeline statuses to include
	Limit    *int                `json:"limit,omitempty"`     // Limit number of results
}

// Matches reports whether a scored lead passes the filter
func (f LeadFilter) Matches(lead *models.Lead) bool {
	if lead == nil || lead.Scoring == nil {
		return false
	}
	result := lead.Scoring
	if len(f.Tiers) > 0 && !slices.Contains(f.Tiers, result.Tier) {
		return false
	}
	if f.MinScore != nil && result.TotalScore < *f.MinScore {
		return false
	}
	if f.MaxScore != nil && result.TotalScore > *f.MaxScore {
		return false
	}
	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, lead.Status) {
		return false
	}
	return true
}

// ExportFormat specifies the format for exporting leads
type ExportFormat string

const (
	FormatJSON ExportFormat = "json"
	FormatCSV  ExportFormat = "csv"
)

// ParseExportFormat accepts json or csv in any case
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", errors.UnsupportedFormat(s)
	}
}

// LeadExportOptions contains options for exporting leads
type LeadExportOptions struct {
	Format                ExportFormat `json:"format"`
	IncludeScoreBreakdown bool         `json:"include_score_breakdown"`
	IncludeMetadata       bool         `json:"include_metadata"`
}

// ExportedLead is the JSON export view of a scored lead
type ExportedLead struct {
	ID                string                   `json:"id"`
	Name              string                   `json:"name"`
	Category          string                   `json:"category,omitempty"`
	Address           string                   `json:"address,omitempty"`
	Phone             string                   `json:"phone,omitempty"`
	Email             string                   `json:"email,omitempty"`
	Website           string                   `json:"website,omitempty"`
	ProfileURL        string                   `json:"gmb_url,omitempty"`
	Status            models.LeadStatus        `json:"status"`
	TotalScore        int                      `json:"total_score"`
	Tier              scoring.Tier             `json:"tier"`
	PriorityLevel     int                      `json:"priority_level"`
	Opportunities     []string                 `json:"opportunities"`
	RecommendedAction string                   `json:"recommended_action"`
	ComponentScores   *scoring.ComponentScores `json:"component_scores,omitempty"`
	ScoredAt          *time.Time               `json:"scored_at,omitempty"`
}

// SheetHeaders are the columns of the lead tracking sheet, in order
var SheetHeaders = []string{
	"Business Name",
	"Category",
	"Address",
	"Phone",
	"Email",
	"Website",
	"GMB Profile URL",
	"Review Count",
	"Average Rating",
	"GMB Completeness %",
	"Missing GMB Fields",
	"Page Speed Mobile",
	"Page Speed Desktop",
	"Mobile Friendly",
	"Missing Meta Tags",
	"SEO Overall Score",
	"Lead Score",
	"Lead Tier",
	"Priority",
	"Opportunities",
	"Status",
	"Notes",
	"Date Added",
	"Last Contact",
	"Recommended Action",
}

const notAvailable = "N/A"

// QualifiedLeads scores leads, ranks them and applies the filter. The limit is
// applied after ranking so it keeps the best leads.
func (s *LeadExportService) QualifiedLeads(ctx context.Context, leads []*models.Lead, filter LeadFilter) ([]*models.Lead, error) {
	ranked, err := s.scoringService.ScoreLeads(ctx, leads)
	if err != nil {
		return nil, err
	}

	qualified := make([]*models.Lead, 0, len(ranked))
	for _, lead := range ranked {
		if filter.Matches(lead) {
			qualified = append(qualified, lead)
		}
	}

	if filter.Limit != nil && *filter.Limit >= 0 && len(qualified) > *filter.Limit {
		qualified = qualified[:*filter.Limit]
	}
	return qualified, nil
}

// ExportLeads exports qualified leads in the specified format
func (s *LeadExportService) ExportLeads(ctx context.Context, leads []*models.Lead, filter LeadFilter, options LeadExportOptions) ([]byte, error) {
	format, err := ParseExportFormat(string(options.Format))
	if err != nil {
		return nil, err
	}

	qualified, err := s.QualifiedLeads(ctx, leads, filter)
	if err != nil {
		return nil, err
	}

	var out []byte
	switch format {
	case FormatCSV:
		out, err = s.exportToCSV(qualified)
	default:
		out, err = s.exportToJSON(qualified, options)
	}
	if err != nil {
		return nil, errors.InternalError("failed to encode export", err).WithOperation("ExportLeads")
	}

	s.logger.Info("Leads exported",
		"format", format,
		"filter", filter,
		"received", len(leads),
		"exported", len(qualified))
	return out, nil
}

// FilterDuplicates drops leads whose website or profile URL is already known.
// Comparison ignores case and surrounding whitespace.
func FilterDuplicates(newLeads []*models.Lead, existingIdentifiers []string) []*models.Lead {
	known := make(map[string]struct{}, len(existingIdentifiers))
	for _, id := range existingIdentifiers {
		if id = strings.ToLower(strings.TrimSpace(id)); id != "" {
			known[id] = struct{}{}
		}
	}

	filtered := make([]*models.Lead, 0, len(newLeads))
	for _, lead := range newLeads {
		if lead == nil || isKnown(lead, known) {
			continue
		}
		filtered = append(filtered, lead)
	}
	return filtered
}

// IdentifiersOf collects the identifiers of already collected leads
func IdentifiersOf(leads []*models.Lead) []string {
	var ids []string
	for _, lead := range leads {
		if lead != nil {
			ids = append(ids, lead.Identifiers()...)
		}
	}
	return ids
}

func isKnown(lead *models.Lead, known map[string]struct{}) bool {
	for _, id := range lead.Identifiers() {
		if _, ok := known[id]; ok {
			return true
		}
	}
	return false
}

// exportToJSON exports leads to JSON format
func (s *LeadExportService) exportToJSON(leads []*models.Lead, options LeadExportOptions) ([]byte, error) {
	exported := make([]ExportedLead, 0, len(leads))
	for _, lead := range leads {
		exported = append(exported, s.toExportedLead(lead, options.IncludeScoreBreakdown))
	}

	exportData := map[string]interface{}{
		"leads":       exported,
		"count":       len(exported),
		"exported_at": s.now().UTC(),
	}

	if options.IncludeMetadata {
		exportData["metadata"] = map[string]interface{}{
			"export_format":           "json",
			"include_score_breakdown": options.IncludeScoreBreakdown,
			"scoring_config":          s.scoringService.Config(),
		}
	}

	return json.MarshalIndent(exportData, "", "  ")
}

func (s *LeadExportService) toExportedLead(lead *models.Lead, withBreakdown bool) ExportedLead {
	result := lead.Scoring
	e := ExportedLead{
		ID:                lead.ID.String(),
		Name:              lead.Name,
		Category:          lead.Category,
		Address:           lead.Address,
		Phone:             s.normalizePhone(lead.Phone),
		Email:             lead.Email,
		Website:           lead.Website,
		ProfileURL:        lead.ProfileURL,
		Status:            statusOf(lead),
		TotalScore:        result.TotalScore,
		Tier:              result.Tier,
		PriorityLevel:     result.PriorityLevel,
		Opportunities:     result.Opportunities,
		RecommendedAction: result.RecommendedAction,
		ScoredAt:          lead.ScoredAt,
	}
	if withBreakdown {
		components := result.ComponentScores
		e.ComponentScores = &components
	}
	return e
}

// exportToCSV writes one sheet row per lead
func (s *LeadExportService) exportToCSV(leads []*models.Lead) ([]byte, error) {
	var output bytes.Buffer
	writer := csv.NewWriter(&output)

	if err := writer.Write(SheetHeaders); err != nil {
		return nil, err
	}

	for _, lead := range leads {
		if err := writer.Write(s.sheetRow(lead)); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return output.Bytes(), nil
}

func (s *LeadExportService) sheetRow(lead *models.Lead) []string {
	result := lead.Scoring
	reviews := lead.ReviewSnapshot()
	audit := lead.SeoAudit()

	added := s.now()
	if lead.DiscoveredAt != nil {
		added = *lead.DiscoveredAt
	}

	return []string{
		lead.Name,
		lead.Category,
		lead.Address,
		s.normalizePhone(lead.Phone),
		lead.Email,
		lead.Website,
		lead.ProfileURL,
		strconv.Itoa(reviews.Count()),
		formatRating(lead.AverageRating),
		formatCompleteness(lead.Profile),
		strings.Join(lead.Profile.MissingFields(), ", "),
		formatAuditInt(audit, func(a *scoring.SeoAuditRecord) *int { return a.PageSpeed.MobileScore }),
		formatAuditInt(audit, func(a *scoring.SeoAuditRecord) *int { return a.PageSpeed.DesktopScore }),
		formatMobileFriendly(audit),
		strings.Join(missingMetaTags(audit), ", "),
		formatOverall(audit),
		strconv.Itoa(result.TotalScore),
		strings.ToUpper(string(result.Tier)),
		strconv.Itoa(result.PriorityLevel),
		strings.Join(result.Opportunities, "\n"),
		string(statusOf(lead)),
		lead.Notes,
		added.Format("2006-01-02"),
		"",
		result.RecommendedAction,
	}
}

// normalizePhone formats a phone number to E.164. Numbers that cannot be parsed
// for the configured region are returned trimmed.
func (s *LeadExportService) normalizePhone(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}

	number, err := phonenumbers.Parse(trimmed, s.phoneRegion)
	if err != nil || !phonenumbers.IsValidNumber(number) {
		return trimmed
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}

// Helper functions for sheet formatting
func statusOf(lead *models.Lead) models.LeadStatus {
	if lead.Status == "" {
		return models.LeadStatusNew
	}
	return lead.Status
}

func formatRating(rating *float64) string {
	if rating == nil {
		return notAvailable
	}
	return strconv.FormatFloat(*rating, 'f', -1, 64)
}

func formatCompleteness(p *scoring.ProfileSnapshot) string {
	if p == nil {
		return notAvailable
	}
	return strconv.Itoa(p.Completeness())
}

func formatAuditInt(a *scoring.SeoAuditRecord, field func(*scoring.SeoAuditRecord) *int) string {
	if a == nil || a.Failed() || a.PageSpeed == nil {
		return notAvailable
	}
	if v := field(a); v != nil {
		return strconv.Itoa(*v)
	}
	return notAvailable
}

func formatOverall(a *scoring.SeoAuditRecord) string {
	if a == nil || a.Failed() || a.OverallScore == nil {
		return notAvailable
	}
	return strconv.Itoa(*a.OverallScore)
}

func formatMobileFriendly(a *scoring.SeoAuditRecord) string {
	if a == nil || a.Failed() || a.MobileFriendly == nil || a.MobileFriendly.IsMobileFriendly == nil {
		return notAvailable
	}
	if *a.MobileFriendly.IsMobileFriendly {
		return "Yes"
	}
	return "No"
}

// missingMetaTags always names an absent meta description so the sheet re-imports
// with the same website score
func missingMetaTags(a *scoring.SeoAuditRecord) []string {
	if a == nil || a.Failed() {
		return nil
	}
	return a.MissingSEOElements()
}

// String implements fmt.Stringer
func (f LeadFilter) String() string {
	var parts []string
	if len(f.Tiers) > 0 {
		parts = append(parts, fmt.Sprintf("tiers=%v", f.Tiers))
	}
	if f.MinScore != nil {
		parts = append(parts, fmt.Sprintf("min_score=%d", *f.MinScore))
	}
	if f.MaxScore != nil {
		parts = append(parts, fmt.Sprintf("max_score=%d", *f.MaxScore))
	}
	if len(f.Statuses) > 0 {
		parts = append(parts, fmt.Sprintf("statuses=%v", f.Statuses))
	}
	if f.Limit != nil {
		parts = append(parts, fmt.Sprintf("limit=%d", *f.Limit))
	}
	if len(parts) == 0 {
		return "all"
	}
	return strings.Join(parts, " ")
}
