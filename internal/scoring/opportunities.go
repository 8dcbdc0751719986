package scoring

import (
	"fmt"
	"strings"
)

// A category only contributes opportunities when its component score is above its gate
const (
	profileOpportunityGate = 40
	reviewOpportunityGate  = 30
	websiteOpportunityGate = 40

	maxListedProfileFields = 3
	maxListedSEOElements   = 2
	poorMobileSpeedCeiling = 60
)

// UnreachableWebsite is the opportunity reported for a failed audit
const UnreachableWebsite = "No functional website or website unreachable"

// IdentifyOpportunities turns the raw signals into ordered, human-readable findings.
// Categories are emitted profile first, then reviews, then website.
func IdentifyOpportunities(s LeadSignals, c ComponentScores) []string {
	opportunities := []string{}

	if c.GMBProfile > profileOpportunityGate {
		if missing := s.Profile.MissingFields(); len(missing) > 0 {
			opportunities = append(opportunities,
				"Incomplete GMB profile: missing "+strings.Join(firstN(missing, maxListedProfileFields), ", "))
		}
	}

	if c.ReviewPerformance > reviewOpportunityGate {
		if s.Reviews.HasLowReviews() {
			opportunities = append(opportunities, fmt.Sprintf("Low review count (%d reviews)", s.Reviews.Count()))
		}
		if s.Reviews.HasPoorRating() {
			opportunities = append(opportunities, fmt.Sprintf("Below-average rating (%.1f/5.0)", s.Reviews.Rating()))
		}
	}

	if c.WebsiteQuality > websiteOpportunityGate {
		opportunities = append(opportunities, websiteOpportunities(s.Audit)...)
	}

	return opportunities
}

// websiteOpportunities lists the website findings. The page speed notice is written
// as "(45/100)", without the space before the slash found in older report output.
func websiteOpportunities(a *SeoAuditRecord) []string {
	if a.Failed() {
		return []string{UnreachableWebsite}
	}

	var found []string
	if speed := a.MobileSpeed(); speed < poorMobileSpeedCeiling {
		found = append(found, fmt.Sprintf("Poor mobile page speed (%d/100)", speed))
	}
	if missing := a.MissingSEOElements(); len(missing) > 0 {
		found = append(found, "Missing SEO elements: "+strings.Join(firstN(missing, maxListedSEOElements), ", "))
	}
	if !a.IsMobileFriendly() {
		found = append(found, "Website not mobile-friendly")
	}
	return found
}

// RecommendedAction returns the next step for a tier
func RecommendedAction(tier Tier, opportunities []string) string {
	switch tier {
	case TierHot:
		return fmt.Sprintf("Priority outreach - %d major opportunities identified", len(opportunities))
	case TierWarm:
		return "Schedule outreach - moderate SEO needs present"
	case TierCold:
		return "Low priority - minor improvements only"
	default:
		return "Skip - insufficient opportunity"
	}
}

func firstN(values []string, n int) []string {
	if len(values) > n {
		return values[:n]
	}
	return values
}
