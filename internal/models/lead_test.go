package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajharbinger/seo-lead-qualifier/internal/scoring"
)

func TestNewLead(t *testing.T) {
	lead := NewLead("Luigi's Trattoria")

	assert.NotEqual(t, uuid.Nil, lead.ID)
	assert.Equal(t, LeadStatusNew, lead.Status)
}

func TestLead_EnsureIdentity(t *testing.T) {
	id := uuid.New()
	kept := &Lead{ID: id, Status: LeadStatusContacted}
	kept.EnsureIdentity()
	assert.Equal(t, id, kept.ID)
	assert.Equal(t, LeadStatusContacted, kept.Status)

	blank := &Lead{}
	blank.EnsureIdentity()
	assert.NotEqual(t, uuid.Nil, blank.ID)
	assert.Equal(t, LeadStatusNew, blank.Status)
}

func TestLead_ContactSnapshot(t *testing.T) {
	lead := &Lead{Phone: "(555) 010-2000", Email: "   ", Website: "https://luigis.example"}

	c := lead.ContactSnapshot()

	assert.Equal(t, &scoring.ContactSnapshot{HasPhone: true, HasEmail: false, HasWebsite: true}, c)
	assert.Equal(t, 2, c.ContactScore())
}

func TestLead_SeoAudit(t *testing.T) {
	t.Run("no website and no audit", func(t *testing.T) {
		audit := (&Lead{}).SeoAudit()
		require.NotNil(t, audit)
		assert.True(t, audit.Failed())
		assert.Equal(t, InvalidURLMessage, audit.Message)
	})

	t.Run("website without audit", func(t *testing.T) {
		assert.Nil(t, (&Lead{Website: "https://a.example"}).SeoAudit())
	})

	t.Run("audit provided", func(t *testing.T) {
		audit := &scoring.SeoAuditRecord{URL: "https://a.example"}
		assert.Same(t, audit, (&Lead{Audit: audit}).SeoAudit())
	})
}

func TestLead_Signals(t *testing.T) {
	count, rating := 8, 3.7
	lead := &Lead{
		Name:          "Luigi's Trattoria",
		Phone:         "555-0100",
		Profile:       &scoring.ProfileSnapshot{HasDescription: true},
		ReviewCount:   &count,
		AverageRating: &rating,
	}

	s := lead.Signals()

	assert.Same(t, lead.Profile, s.Profile)
	assert.Equal(t, 8, s.Reviews.Count())
	assert.Equal(t, 3.7, s.Reviews.Rating())
	assert.True(t, s.Contact.HasPhone)
	assert.True(t, s.Audit.Failed())

	result := scoring.NewDefaultEngine().ScoreLead(s)
	assert.Equal(t, 100, result.ComponentScores.WebsiteQuality)
	assert.Contains(t, result.Opportunities, "No functional website or website unreachable")
}

func TestLead_RankKey(t *testing.T) {
	var missing *Lead
	score, priority := missing.RankKey()
	assert.Equal(t, 0, score)
	assert.Equal(t, 4, priority)

	unscored := &Lead{Name: "a"}
	score, priority = unscored.RankKey()
	assert.Equal(t, 0, score)
	assert.Equal(t, 4, priority)

	scored := &Lead{Scoring: &scoring.ScoreResult{TotalScore: 72, PriorityLevel: 2}}
	score, priority = scored.RankKey()
	assert.Equal(t, 72, score)
	assert.Equal(t, 2, priority)
}

func TestLead_Identifiers(t *testing.T) {
	lead := &Lead{Website: "  HTTPS://Luigis.example ", ProfileURL: "https://maps.example/1"}
	assert.Equal(t, []string{"https://luigis.example", "https://maps.example/1"}, lead.Identifiers())
	assert.Equal(t, []string{"https://maps.example/1"}, (&Lead{ProfileURL: "https://maps.example/1"}).Identifiers())
	assert.Empty(t, (&Lead{}).Identifiers())
}
