package scoring

// Tier is the qualification bucket derived from the total score
type Tier string

const (
	TierHot     Tier = "hot"
	TierWarm    Tier = "warm"
	TierCold    Tier = "cold"
	TierPoorFit Tier = "poor_fit"
)

// PriorityLevel maps a tier to 1 (highest) through 4 (lowest)
func (t Tier) PriorityLevel() int {
	switch t {
	case TierHot:
		return 1
	case TierWarm:
		return 2
	case TierCold:
		return 3
	default:
		return 4
	}
}

// ScoringWeights are per-component percentages. They are literal multipliers on
// each 0-100 component and are not required to sum to 100.
type ScoringWeights struct {
	GMBProfile          float64 `json:"gmb_profile" yaml:"gmb_profile"`
	ReviewPerformance   float64 `json:"review_performance" yaml:"review_performance"`
	WebsiteQuality      float64 `json:"website_quality" yaml:"website_quality"`
	ContactAvailability float64 `json:"contact_availability" yaml:"contact_availability"`
}

// Combine applies the weights to the component scores
func (w ScoringWeights) Combine(c ComponentScores) float64 {
	return float64(c.GMBProfile)*(w.GMBProfile/100) +
		float64(c.ReviewPerformance)*(w.ReviewPerformance/100) +
		float64(c.WebsiteQuality)*(w.WebsiteQuality/100) +
		float64(c.ContactAvailability)*(w.ContactAvailability/100)
}

// TierThresholds are the inclusive lower bounds of each tier. Hot >= Warm >= Cold
// is expected but not enforced.
type TierThresholds struct {
	Hot  float64 `json:"hot" yaml:"hot"`
	Warm float64 `json:"warm" yaml:"warm"`
	Cold float64 `json:"cold" yaml:"cold"`
}

// Classify walks the threshold ladder from hot down to poor_fit
func (t TierThresholds) Classify(score float64) Tier {
	switch {
	case score >= t.Hot:
		return TierHot
	case score >= t.Warm:
		return TierWarm
	case score >= t.Cold:
		return TierCold
	default:
		return TierPoorFit
	}
}

// ComponentScores holds the four per-dimension scores feeding the combiner
type ComponentScores struct {
	GMBProfile          int `json:"gmb_profile"`
	ReviewPerformance   int `json:"review_performance"`
	WebsiteQuality      int `json:"website_quality"`
	ContactAvailability int `json:"contact_availability"`
}

// ScoreResult is the outcome of scoring one lead. It is built once and not modified afterwards.
type ScoreResult struct {
	TotalScore        int             `json:"total_score"`
	Tier              Tier            `json:"tier"`
	ComponentScores   ComponentScores `json:"component_scores"`
	Opportunities     []string        `json:"opportunities"`
	PriorityLevel     int             `json:"priority_level"`
	RecommendedAction string          `json:"recommended_action"`
}

// RankKey implements Rankable
func (r *ScoreResult) RankKey() (int, int) {
	if r == nil {
		return 0, TierPoorFit.PriorityLevel()
	}
	return r.TotalScore, r.PriorityLevel
}

// Config holds the engine's weights and thresholds
type Config struct {
	Weights    ScoringWeights `json:"scoring_weights" yaml:"scoring_weights"`
	Thresholds TierThresholds `json:"score_thresholds" yaml:"score_thresholds"`
}

// Engine scores leads against a fixed configuration. It holds no per-lead state
// and is safe for concurrent use.
type Engine struct {
	weights    ScoringWeights
	thresholds TierThresholds
}

// NewEngine creates a scoring engine with the given configuration
func NewEngine(cfg Config) *Engine {
	return &Engine{
		weights:    cfg.Weights,
		thresholds: cfg.Thresholds,
	}
}

// NewDefaultEngine creates a scoring engine with the built-in weights and thresholds
func NewDefaultEngine() *Engine {
	return NewEngine(DefaultConfig())
}

// Config returns the configuration the engine was built with
func (e *Engine) Config() Config {
	return Config{Weights: e.weights, Thresholds: e.thresholds}
}

// ScoreLead evaluates one lead's signals and returns its score, tier and opportunities
func (e *Engine) ScoreLead(s LeadSignals) *ScoreResult {
	components := ComponentScores{
		GMBProfile:          ScoreProfile(s.Profile),
		ReviewPerformance:   ScoreReviews(s.Reviews),
		WebsiteQuality:      ScoreWebsite(s.Audit),
		ContactAvailability: ScoreContact(s.Contact),
	}

	total := e.weights.Combine(components)

	// The tier is taken from the untruncated total
	tier := e.thresholds.Classify(total)
	opportunities := IdentifyOpportunities(s, components)

	return &ScoreResult{
		TotalScore:        clampTotal(total),
		Tier:              tier,
		ComponentScores:   components,
		Opportunities:     opportunities,
		PriorityLevel:     tier.PriorityLevel(),
		RecommendedAction: RecommendedAction(tier, opportunities),
	}
}

// clampTotal truncates toward zero and keeps the result within 0-100
func clampTotal(total float64) int {
	return max(0, min(MaxOpportunity, int(total)))
}
