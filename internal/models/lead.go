package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ajharbinger/seo-lead-qualifier/internal/scoring"
)

// LeadStatus tracks where a lead is in the outreach pipeline
type LeadStatus string

const (
	LeadStatusNew           LeadStatus = "New"
	LeadStatusContacted     LeadStatus = "Contacted"
	LeadStatusQualified     LeadStatus = "Qualified"
	LeadStatusConverted     LeadStatus = "Converted"
	LeadStatusNotInterested LeadStatus = "Not Interested"
)

// InvalidURLMessage is the audit message recorded for a lead without a website
const InvalidURLMessage = "Invalid URL"

// Lead represents a local business discovered in a directory search
type Lead struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name" validate:"required"`
	Category     string     `json:"category,omitempty"`
	Address      string     `json:"address,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	Email        string     `json:"email,omitempty"`
	Website      string     `json:"website,omitempty"`
	ProfileURL   string     `json:"gmb_url,omitempty"`
	DiscoveredAt *time.Time `json:"discovered_at,omitempty"`

	Profile       *scoring.ProfileSnapshot `json:"profile,omitempty"`
	ReviewCount   *int                     `json:"review_count,omitempty" validate:"omitempty,gte=0"`
	AverageRating *float64                 `json:"average_rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	Audit         *scoring.SeoAuditRecord  `json:"seo_audit,omitempty"`

	Status   LeadStatus           `json:"status,omitempty" validate:"omitempty,oneof=New Contacted Qualified Converted 'Not Interested'"`
	Notes    string               `json:"notes,omitempty"`
	Scoring  *scoring.ScoreResult `json:"scoring,omitempty"`
	ScoredAt *time.Time           `json:"scored_at,omitempty"`
}

// NewLead creates a lead with a fresh ID and the New status
func NewLead(name string) *Lead {
	return &Lead{
		ID:     uuid.New(),
		Name:   name,
		Status: LeadStatusNew,
	}
}

// EnsureIdentity assigns an ID and the New status when they are missing
func (l *Lead) EnsureIdentity() {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.Status == "" {
		l.Status = LeadStatusNew
	}
}

// ProfileSnapshot returns the directory profile flags, nil when the lead has none
func (l *Lead) ProfileSnapshot() *scoring.ProfileSnapshot {
	return l.Profile
}

// ReviewSnapshot returns the review metrics
func (l *Lead) ReviewSnapshot() *scoring.ReviewSnapshot {
	return &scoring.ReviewSnapshot{
		ReviewCount:   l.ReviewCount,
		AverageRating: l.AverageRating,
	}
}

// ContactSnapshot reports a channel as available when its value is non-blank
func (l *Lead) ContactSnapshot() *scoring.ContactSnapshot {
	return &scoring.ContactSnapshot{
		HasPhone:   strings.TrimSpace(l.Phone) != "",
		HasEmail:   strings.TrimSpace(l.Email) != "",
		HasWebsite: strings.TrimSpace(l.Website) != "",
	}
}

// SeoAudit returns the audit result. A lead with no website and no audit is
// recorded as an unreachable site.
func (l *Lead) SeoAudit() *scoring.SeoAuditRecord {
	if l.Audit == nil && strings.TrimSpace(l.Website) == "" {
		return scoring.NewAuditError(InvalidURLMessage)
	}
	return l.Audit
}

// Signals collects everything the scoring engine needs for this lead
func (l *Lead) Signals() scoring.LeadSignals {
	return scoring.LeadSignals{
		Profile: l.ProfileSnapshot(),
		Reviews: l.ReviewSnapshot(),
		Contact: l.ContactSnapshot(),
		Audit:   l.SeoAudit(),
	}
}

// RankKey implements scoring.Rankable. Unscored leads sort last.
func (l *Lead) RankKey() (int, int) {
	if l == nil {
		return (*scoring.ScoreResult)(nil).RankKey()
	}
	return l.Scoring.RankKey()
}

// Identifiers returns the normalised website and profile URL, skipping blanks.
// Two leads sharing any identifier are the same business.
func (l *Lead) Identifiers() []string {
	ids := make([]string, 0, 2)
	for _, v := range []string{l.Website, l.ProfileURL} {
		if key := normalizeKey(v); key != "" {
			ids = append(ids, key)
		}
	}
	return ids
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
