package scoring

// MaxOpportunity is the ceiling for every component score
const MaxOpportunity = 100

// Boosts applied on top of the base opportunity for specific findings
const (
	missingDescriptionBoost = 10
	missingHoursBoost       = 10
	missingPhotosBoost      = 5

	slowMobileBoost         = 10
	missingMetaDescBoost    = 10
	notMobileFriendlyBoost  = 15
	slowMobileScoreCeiling  = 50
	emailAvailableBoost     = 10
	unknownContactBaseScore = 10
)

// contactScoreMap converts the number of available channels to a 0-100 score
var contactScoreMap = map[int]int{
	3: 100,
	2: 70,
	1: 40,
	0: 10,
}

// ScoreProfile scores directory profile completeness. Higher means more opportunity.
func ScoreProfile(p *ProfileSnapshot) int {
	score := MaxOpportunity - p.Completeness()
	if p == nil {
		return score
	}

	// Some gaps signal neglect more than others; these overlap with the base deduction.
	if !p.HasDescription {
		score = boost(score, missingDescriptionBoost)
	}
	if !p.HasHours {
		score = boost(score, missingHoursBoost)
	}
	if !p.HasPhotos {
		score = boost(score, missingPhotosBoost)
	}
	return score
}

// ScoreReviews scores review performance from a count band and a rating band
func ScoreReviews(r *ReviewSnapshot) int {
	count := r.Count()
	rating := r.Rating()

	score := 0
	switch {
	case count < 5:
		score += 60
	case count < 10:
		score += 40
	case count < 20:
		score += 20
	}

	switch {
	case rating < 3.0:
		score += 40
	case rating < 3.5:
		score += 30
	case rating < 4.0:
		score += 20
	}

	return min(MaxOpportunity, score)
}

// ScoreContact scores how reachable the lead is. Unlike the other components,
// higher means easier to contact.
func ScoreContact(c *ContactSnapshot) int {
	score, ok := contactScoreMap[c.ContactScore()]
	if !ok {
		score = unknownContactBaseScore
	}

	// Email is the preferred outreach channel
	if c != nil && c.HasEmail {
		score = boost(score, emailAvailableBoost)
	}
	return score
}

// ScoreWebsite scores website SEO health. An unreachable site is the largest opportunity.
func ScoreWebsite(a *SeoAuditRecord) int {
	if a.Failed() {
		return MaxOpportunity
	}

	score := max(0, MaxOpportunity-a.Overall())

	if a.MobileSpeed() < slowMobileScoreCeiling {
		score = boost(score, slowMobileBoost)
	}
	if !a.DescriptionPresent() {
		score = boost(score, missingMetaDescBoost)
	}
	if !a.IsMobileFriendly() {
		score = boost(score, notMobileFriendlyBoost)
	}
	return score
}

// boost adds points and clamps at MaxOpportunity
func boost(score, points int) int {
	return min(MaxOpportunity, score+points)
}
