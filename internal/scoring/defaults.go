package scoring

// Built-in weights, used for any weight the configuration leaves out
const (
	DefaultGMBProfileWeight          = 30.0
	DefaultReviewPerformanceWeight   = 20.0
	DefaultWebsiteQualityWeight      = 30.0
	DefaultContactAvailabilityWeight = 20.0
)

// Built-in tier thresholds
const (
	DefaultHotThreshold  = 80.0
	DefaultWarmThreshold = 60.0
	DefaultColdThreshold = 40.0
)

// DefaultWeights returns the built-in scoring weights
func DefaultWeights() ScoringWeights {
	return ScoringWeights{
		GMBProfile:          DefaultGMBProfileWeight,
		ReviewPerformance:   DefaultReviewPerformanceWeight,
		WebsiteQuality:      DefaultWebsiteQualityWeight,
		ContactAvailability: DefaultContactAvailabilityWeight,
	}
}

// DefaultThresholds returns the built-in tier thresholds
func DefaultThresholds() TierThresholds {
	return TierThresholds{
		Hot:  DefaultHotThreshold,
		Warm: DefaultWarmThreshold,
		Cold: DefaultColdThreshold,
	}
}

// DefaultConfig returns the built-in engine configuration
func DefaultConfig() Config {
	return Config{
		Weights:    DefaultWeights(),
		Thresholds: DefaultThresholds(),
	}
}

// WeightOverrides is the partial form of ScoringWeights read from configuration.
// Nil fields fall back to the defaults.
type WeightOverrides struct {
	GMBProfile          *float64 `json:"gmb_profile,omitempty" yaml:"gmb_profile" validate:"omitempty,gte=0"`
	ReviewPerformance   *float64 `json:"review_performance,omitempty" yaml:"review_performance" validate:"omitempty,gte=0"`
	WebsiteQuality      *float64 `json:"website_quality,omitempty" yaml:"website_quality" validate:"omitempty,gte=0"`
	ContactAvailability *float64 `json:"contact_availability,omitempty" yaml:"contact_availability" validate:"omitempty,gte=0"`
}

// Resolve fills unset weights from DefaultWeights
func (o *WeightOverrides) Resolve() ScoringWeights {
	w := DefaultWeights()
	if o == nil {
		return w
	}
	w.GMBProfile = valueOr(o.GMBProfile, w.GMBProfile)
	w.ReviewPerformance = valueOr(o.ReviewPerformance, w.ReviewPerformance)
	w.WebsiteQuality = valueOr(o.WebsiteQuality, w.WebsiteQuality)
	w.ContactAvailability = valueOr(o.ContactAvailability, w.ContactAvailability)
	return w
}

// ThresholdOverrides is the partial form of TierThresholds read from configuration
type ThresholdOverrides struct {
	Hot  *float64 `json:"hot,omitempty" yaml:"hot" validate:"omitempty,gte=0,lte=100"`
	Warm *float64 `json:"warm,omitempty" yaml:"warm" validate:"omitempty,gte=0,lte=100"`
	Cold *float64 `json:"cold,omitempty" yaml:"cold" validate:"omitempty,gte=0,lte=100"`
}

// Resolve fills unset thresholds from DefaultThresholds
func (o *ThresholdOverrides) Resolve() TierThresholds {
	t := DefaultThresholds()
	if o == nil {
		return t
	}
	t.Hot = valueOr(o.Hot, t.Hot)
	t.Warm = valueOr(o.Warm, t.Warm)
	t.Cold = valueOr(o.Cold, t.Cold)
	return t
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
