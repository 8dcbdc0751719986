package scoring

import (
	"fmt"
	"strings"
)

// Labels reported for missing directory profile attributes, in reporting order
const (
	FieldBusinessHours       = "Business hours"
	FieldPhotos              = "Photos"
	FieldBusinessDescription = "Business description"
	FieldServicesList        = "Services list"
	FieldVerification        = "Verification"
)

// Review benchmarks used for the opportunity notices
const (
	LowReviewThreshold  = 10
	GoodRatingThreshold = 4.0
)

// DefaultAverageRating is assumed when a lead has no rating, so no penalty applies
const DefaultAverageRating = 5.0

// Defaults for SEO audit fields the audit provider did not report
const (
	DefaultOverallSEOScore = 100
	DefaultMobileSpeed     = 100
)

// MetaDescriptionTag is the tag name reported when the meta description is absent
const MetaDescriptionTag = "meta description"

const profileFieldCount = 5

// ProfileSnapshot captures which directory profile attributes are filled in
type ProfileSnapshot struct {
	HasHours       bool `json:"has_hours" yaml:"has_hours"`
	HasPhotos      bool `json:"has_photos" yaml:"has_photos"`
	HasDescription bool `json:"has_description" yaml:"has_description"`
	HasServices    bool `json:"has_services" yaml:"has_services"`
	Verified       bool `json:"verified" yaml:"verified"`
}

// Completeness returns the share of completed profile attributes as a percentage.
// A nil snapshot counts as fully complete so leads without directory data are not penalised.
func (p *ProfileSnapshot) Completeness() int {
	if p == nil {
		return 100
	}
	completed := 0
	for _, ok := range []bool{p.HasHours, p.HasPhotos, p.HasDescription, p.HasServices, p.Verified} {
		if ok {
			completed++
		}
	}
	return completed * 100 / profileFieldCount
}

// ProfileFromMissing rebuilds a snapshot from a list of missing attribute labels,
// as produced by MissingFields. Unlisted attributes are complete.
func ProfileFromMissing(labels []string) (*ProfileSnapshot, error) {
	p := &ProfileSnapshot{HasHours: true, HasPhotos: true, HasDescription: true, HasServices: true, Verified: true}
	for _, label := range labels {
		switch {
		case strings.EqualFold(label, FieldBusinessHours):
			p.HasHours = false
		case strings.EqualFold(label, FieldPhotos):
			p.HasPhotos = false
		case strings.EqualFold(label, FieldBusinessDescription):
			p.HasDescription = false
		case strings.EqualFold(label, FieldServicesList):
			p.HasServices = false
		case strings.EqualFold(label, FieldVerification):
			p.Verified = false
		default:
			return nil, fmt.Errorf("unknown profile field %q", label)
		}
	}
	return p, nil
}

// MissingFields lists the labels of the attributes that are not filled in
func (p *ProfileSnapshot) MissingFields() []string {
	missing := []string{}
	if p == nil {
		return missing
	}
	if !p.HasHours {
		missing = append(missing, FieldBusinessHours)
	}
	if !p.HasPhotos {
		missing = append(missing, FieldPhotos)
	}
	if !p.HasDescription {
		missing = append(missing, FieldBusinessDescription)
	}
	if !p.HasServices {
		missing = append(missing, FieldServicesList)
	}
	if !p.Verified {
		missing = append(missing, FieldVerification)
	}
	return missing
}

// ReviewSnapshot holds the review metrics reported by the directory.
// Both fields are optional; see Count and Rating for the substituted defaults.
type ReviewSnapshot struct {
	ReviewCount   *int     `json:"review_count,omitempty"`
	AverageRating *float64 `json:"average_rating,omitempty"`
}

// Count returns the review count, or 0 when unknown
func (r *ReviewSnapshot) Count() int {
	if r == nil || r.ReviewCount == nil {
		return 0
	}
	return *r.ReviewCount
}

// Rating returns the average rating, or DefaultAverageRating when unknown
func (r *ReviewSnapshot) Rating() float64 {
	if r == nil || r.AverageRating == nil {
		return DefaultAverageRating
	}
	return *r.AverageRating
}

// HasLowReviews reports whether the lead has fewer reviews than the benchmark
func (r *ReviewSnapshot) HasLowReviews() bool {
	return r.Count() < LowReviewThreshold
}

// HasPoorRating reports whether the rating is below the benchmark
func (r *ReviewSnapshot) HasPoorRating() bool {
	return r.Rating() < GoodRatingThreshold
}

// ContactSnapshot records which outreach channels are available
type ContactSnapshot struct {
	HasPhone   bool `json:"has_phone"`
	HasEmail   bool `json:"has_email"`
	HasWebsite bool `json:"has_website"`
}

// ContactScore counts the available channels (0-3)
func (c *ContactSnapshot) ContactScore() int {
	if c == nil {
		return 0
	}
	score := 0
	for _, ok := range []bool{c.HasPhone, c.HasEmail, c.HasWebsite} {
		if ok {
			score++
		}
	}
	return score
}

// SeoAuditRecord is the result of an external website audit. When Error is set
// the site could not be audited and only Message is meaningful.
type SeoAuditRecord struct {
	Error          bool            `json:"error,omitempty"`
	Message        string          `json:"message,omitempty"`
	URL            string          `json:"url,omitempty"`
	OverallScore   *int            `json:"overall_score,omitempty" validate:"omitempty,gte=0,lte=100"`
	PageSpeed      *PageSpeed      `json:"page_speed,omitempty"`
	MetaTags       *MetaTags       `json:"meta_tags,omitempty"`
	MobileFriendly *MobileFriendly `json:"mobile_friendly,omitempty"`
}

// PageSpeed holds page speed scores (0-100)
type PageSpeed struct {
	MobileScore  *int `json:"mobile_score,omitempty" validate:"omitempty,gte=0,lte=100"`
	DesktopScore *int `json:"desktop_score,omitempty" validate:"omitempty,gte=0,lte=100"`
}

// MetaTags summarises the meta tag audit
type MetaTags struct {
	Description *MetaTag `json:"description,omitempty"`
	MissingTags []string `json:"missing_tags,omitempty"`
}

// MetaTag reports whether a single tag is present
type MetaTag struct {
	Present bool `json:"present"`
}

// MobileFriendly reports the mobile usability verdict
type MobileFriendly struct {
	IsMobileFriendly *bool `json:"is_mobile_friendly,omitempty"`
}

// NewAuditError builds the error variant of an audit record
func NewAuditError(message string) *SeoAuditRecord {
	return &SeoAuditRecord{Error: true, Message: message}
}

// Failed reports whether the audit is the error variant
func (a *SeoAuditRecord) Failed() bool {
	return a != nil && a.Error
}

// Overall returns the overall SEO score, or DefaultOverallSEOScore when unreported
func (a *SeoAuditRecord) Overall() int {
	if a == nil || a.OverallScore == nil {
		return DefaultOverallSEOScore
	}
	return *a.OverallScore
}

// MobileSpeed returns the mobile page speed score, or DefaultMobileSpeed when unreported
func (a *SeoAuditRecord) MobileSpeed() int {
	if a == nil || a.PageSpeed == nil || a.PageSpeed.MobileScore == nil {
		return DefaultMobileSpeed
	}
	return *a.PageSpeed.MobileScore
}

// DescriptionPresent reports whether a meta description was found. Unreported counts as absent.
func (a *SeoAuditRecord) DescriptionPresent() bool {
	if a == nil || a.MetaTags == nil || a.MetaTags.Description == nil {
		return false
	}
	return a.MetaTags.Description.Present
}

// IsMobileFriendly returns the mobile verdict. Unreported counts as friendly.
func (a *SeoAuditRecord) IsMobileFriendly() bool {
	if a == nil || a.MobileFriendly == nil || a.MobileFriendly.IsMobileFriendly == nil {
		return true
	}
	return *a.MobileFriendly.IsMobileFriendly
}

// MissingSEOElements returns the reported missing tags. An absent meta description
// always appears in the list, first, even if the audit did not name it.
func (a *SeoAuditRecord) MissingSEOElements() []string {
	var reported []string
	if a != nil && a.MetaTags != nil {
		reported = a.MetaTags.MissingTags
	}

	missing := make([]string, 0, len(reported)+1)
	if !a.DescriptionPresent() && !containsFold(reported, MetaDescriptionTag) {
		missing = append(missing, MetaDescriptionTag)
	}
	return append(missing, reported...)
}

// ListsMissingDescription reports whether a missing tag list names the meta description
func ListsMissingDescription(tags []string) bool {
	return containsFold(tags, MetaDescriptionTag)
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(strings.TrimSpace(v), target) {
			return true
		}
	}
	return false
}

// LeadSignals bundles the four signal sources for one lead. Any of them may be nil.
type LeadSignals struct {
	Profile *ProfileSnapshot `json:"profile,omitempty"`
	Reviews *ReviewSnapshot  `json:"reviews,omitempty"`
	Contact *ContactSnapshot `json:"contact,omitempty"`
	Audit   *SeoAuditRecord  `json:"audit,omitempty"`
}
