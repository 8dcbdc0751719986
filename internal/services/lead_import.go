package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ajharbinger/seo-lead-qualifier/internal/errors"
	"github.com/ajharbinger/seo-lead-qualifier/internal/models"
	"github.com/ajharbinger/seo-lead-qualifier/internal/scoring"
)

// MaxImportRows caps the number of leads accepted from one CSV
const MaxImportRows = 10000

// importedAuditFailure is the message of a failed audit rebuilt from a sheet
const importedAuditFailure = "Website unreachable at last audit"

// Canonical import columns
const (
	colName            = "name"
	colCategory        = "category"
	colAddress         = "address"
	colPhone           = "phone"
	colEmail           = "email"
	colWebsite         = "website"
	colProfileURL      = "gmb_url"
	colReviewCount     = "review_count"
	colAverageRating   = "average_rating"
	colHasHours        = "has_hours"
	colHasPhotos       = "has_photos"
	colHasDescription  = "has_description"
	colHasServices     = "has_services"
	colVerified        = "verified"
	colCompleteness    = "completeness"
	colMissingFields   = "missing_fields"
	colAuditError      = "audit_error"
	colOverallScore    = "overall_score"
	colMobileScore     = "mobile_score"
	colDesktopScore    = "desktop_score"
	colMobileFriendly  = "mobile_friendly"
	colMetaDescription = "meta_description"
	colMissingTags     = "missing_tags"
	colStatus          = "status"
	colNotes           = "notes"
	colOpportunities   = "opportunities"
)

// headerAliases maps normalised header names to canonical columns. The sheet
// export headers are accepted so an exported sheet can be re-imported.
var headerAliases = map[string]string{
	"name":               colName,
	"business_name":      colName,
	"category":           colCategory,
	"address":            colAddress,
	"phone":              colPhone,
	"email":              colEmail,
	"website":            colWebsite,
	"gmb_url":            colProfileURL,
	"profile_url":        colProfileURL,
	"gmb_profile_url":    colProfileURL,
	"review_count":       colReviewCount,
	"reviews":            colReviewCount,
	"average_rating":     colAverageRating,
	"rating":             colAverageRating,
	"has_hours":          colHasHours,
	"has_photos":         colHasPhotos,
	"has_description":    colHasDescription,
	"has_services":       colHasServices,
	"verified":           colVerified,
	"completeness":       colCompleteness,
	"gmb_completeness_%": colCompleteness,
	"gmb_completeness":   colCompleteness,
	"missing_fields":     colMissingFields,
	"missing_gmb_fields": colMissingFields,
	"audit_error":        colAuditError,
	"overall_score":      colOverallScore,
	"seo_overall_score":  colOverallScore,
	"mobile_score":       colMobileScore,
	"page_speed_mobile":  colMobileScore,
	"desktop_score":      colDesktopScore,
	"page_speed_desktop": colDesktopScore,
	"mobile_friendly":    colMobileFriendly,
	"meta_description":   colMetaDescription,
	"missing_tags":       colMissingTags,
	"missing_meta_tags":  colMissingTags,
	"status":             colStatus,
	"notes":              colNotes,
	"opportunities":      colOpportunities,
}

var profileColumns = []string{colHasHours, colHasPhotos, colHasDescription, colHasServices, colVerified}

// ParseLeadsCSV reads leads from a CSV with a header row. Unknown columns are
// ignored, and empty or "N/A" cells count as unreported.
//
// Without flag columns the profile is rebuilt from the missing field labels. A
// missing tag list that does not name the meta description means it is present.
// A lead with a website, no audit data and the unreachable website opportunity
// gets a failed audit.
func ParseLeadsCSV(r io.Reader) ([]*models.Lead, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.InvalidInput("Failed to read CSV", err).WithDetails(err.Error())
	}
	if len(records) == 0 {
		return nil, errors.InvalidInput("CSV file is empty", nil)
	}

	columns, err := mapHeader(records[0])
	if err != nil {
		return nil, err
	}

	rows := records[1:]
	if len(rows) > MaxImportRows {
		return nil, errors.InvalidInput("Too many leads", nil).
			WithDetails(fmt.Sprintf("maximum %d leads allowed per import", MaxImportRows))
	}

	hasProfile := false
	for _, col := range profileColumns {
		if _, ok := columns[col]; ok {
			hasProfile = true
			break
		}
	}

	leads := make([]*models.Lead, 0, len(rows))
	for i, record := range rows {
		row := csvRow{columns: columns, record: record, line: i + 2}
		if row.blank() {
			continue
		}

		lead, err := row.lead(hasProfile)
		if err != nil {
			return nil, errors.InvalidInput("Invalid CSV row", err).WithDetails(err.Error())
		}
		leads = append(leads, lead)
	}
	return leads, nil
}

func mapHeader(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
		if col, ok := headerAliases[key]; ok {
			if _, dup := columns[col]; !dup {
				columns[col] = i
			}
		}
	}
	if _, ok := columns[colName]; !ok {
		return nil, errors.InvalidInput("CSV header must include a name column", nil).
			WithDetails("accepted: name, business name")
	}
	return columns, nil
}

type csvRow struct {
	columns map[string]int
	record  []string
	line    int
}

func (r csvRow) get(col string) string {
	i, ok := r.columns[col]
	if !ok || i >= len(r.record) {
		return ""
	}
	v := strings.TrimSpace(r.record[i])
	if strings.EqualFold(v, "N/A") {
		return ""
	}
	return v
}

func (r csvRow) blank() bool {
	for _, v := range r.record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func (r csvRow) intField(col string) (*int, error) {
	v := r.get(col)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(strings.ReplaceAll(v, ",", ""))
	if err != nil {
		return nil, fmt.Errorf("line %d: %s %q is not an integer", r.line, col, v)
	}
	return &n, nil
}

func (r csvRow) floatField(col string) (*float64, error) {
	v := r.get(col)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("line %d: %s %q is not a number", r.line, col, v)
	}
	return &f, nil
}

func (r csvRow) boolField(col string) (*bool, error) {
	v := r.get(col)
	if v == "" {
		return nil, nil
	}
	var b bool
	switch strings.ToLower(v) {
	case "true", "yes", "y", "1", "x":
		b = true
	case "false", "no", "n", "0":
		b = false
	default:
		return nil, fmt.Errorf("line %d: %s %q is not a yes/no value", r.line, col, v)
	}
	return &b, nil
}

func (r csvRow) lead(hasProfile bool) (*models.Lead, error) {
	lead := &models.Lead{
		Name:       r.get(colName),
		Category:   r.get(colCategory),
		Address:    r.get(colAddress),
		Phone:      r.get(colPhone),
		Email:      r.get(colEmail),
		Website:    r.get(colWebsite),
		ProfileURL: r.get(colProfileURL),
		Status:     models.LeadStatus(r.get(colStatus)),
		Notes:      r.get(colNotes),
	}
	if lead.Name == "" {
		return nil, fmt.Errorf("line %d: name is required", r.line)
	}

	var err error
	if lead.ReviewCount, err = r.intField(colReviewCount); err != nil {
		return nil, err
	}
	if lead.AverageRating, err = r.floatField(colAverageRating); err != nil {
		return nil, err
	}

	if hasProfile {
		if lead.Profile, err = r.profile(); err != nil {
			return nil, err
		}
	} else if _, ok := r.columns[colMissingFields]; ok {
		if lead.Profile, err = r.profileFromMissing(); err != nil {
			return nil, err
		}
	}

	if lead.Audit, err = r.audit(lead.Website); err != nil {
		return nil, err
	}
	return lead, nil
}

func (r csvRow) profile() (*scoring.ProfileSnapshot, error) {
	flags := make([]bool, len(profileColumns))
	for i, col := range profileColumns {
		b, err := r.boolField(col)
		if err != nil {
			return nil, err
		}
		flags[i] = b != nil && *b
	}
	return &scoring.ProfileSnapshot{
		HasHours:       flags[0],
		HasPhotos:      flags[1],
		HasDescription: flags[2],
		HasServices:    flags[3],
		Verified:       flags[4],
	}, nil
}

// profileFromMissing returns nil when the completeness cell, or without that column
// the missing fields cell, is unreported
func (r csvRow) profileFromMissing() (*scoring.ProfileSnapshot, error) {
	missing := r.get(colMissingFields)
	if _, ok := r.columns[colCompleteness]; ok {
		if r.get(colCompleteness) == "" {
			return nil, nil
		}
	} else if missing == "" {
		return nil, nil
	}

	profile, err := scoring.ProfileFromMissing(splitTags(missing))
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", r.line, err)
	}
	return profile, nil
}

// unreachable reports whether the opportunities cell carries the failed audit notice
func (r csvRow) unreachable() bool {
	for _, line := range strings.Split(r.get(colOpportunities), "\n") {
		if strings.TrimSpace(line) == scoring.UnreachableWebsite {
			return true
		}
	}
	return false
}

// audit returns nil when the row carries no audit data at all
func (r csvRow) audit(website string) (*scoring.SeoAuditRecord, error) {
	if msg := r.get(colAuditError); msg != "" {
		record := scoring.NewAuditError(msg)
		record.URL = website
		return record, nil
	}

	overall, err := r.intField(colOverallScore)
	if err != nil {
		return nil, err
	}
	mobile, err := r.intField(colMobileScore)
	if err != nil {
		return nil, err
	}
	desktop, err := r.intField(colDesktopScore)
	if err != nil {
		return nil, err
	}
	friendly, err := r.boolField(colMobileFriendly)
	if err != nil {
		return nil, err
	}
	description, err := r.boolField(colMetaDescription)
	if err != nil {
		return nil, err
	}
	missing := splitTags(r.get(colMissingTags))

	if overall == nil && mobile == nil && desktop == nil && friendly == nil && description == nil && len(missing) == 0 {
		if website != "" && r.unreachable() {
			record := scoring.NewAuditError(importedAuditFailure)
			record.URL = website
			return record, nil
		}
		return nil, nil
	}

	if _, ok := r.columns[colMissingTags]; ok && description == nil {
		present := !scoring.ListsMissingDescription(missing)
		description = &present
	}

	record := &scoring.SeoAuditRecord{URL: website, OverallScore: overall}
	if mobile != nil || desktop != nil {
		record.PageSpeed = &scoring.PageSpeed{MobileScore: mobile, DesktopScore: desktop}
	}
	if friendly != nil {
		record.MobileFriendly = &scoring.MobileFriendly{IsMobileFriendly: friendly}
	}
	if description != nil || len(missing) > 0 {
		record.MetaTags = &scoring.MetaTags{MissingTags: missing}
		if description != nil {
			record.MetaTags.Description = &scoring.MetaTag{Present: *description}
		}
	}
	return record, nil
}

// splitTags splits a tag list on commas, semicolons or newlines
func splitTags(s string) []string {
	var tags []string
	for _, tag := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' || r == '\n' }) {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
