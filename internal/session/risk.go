package session

// RiskLevel is the backend's four-tier severity scale.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// Recommendation is the aggregate proceed/no-proceed verdict.
type Recommendation string

const (
	RecommendApprove            Recommendation = "APPROVE"
	RecommendConditional        Recommendation = "CONDITIONAL"
	RecommendInvestigateFurther Recommendation = "INVESTIGATE_FURTHER"
	RecommendReject             Recommendation = "REJECT"
)

// Score break points shared by risk level, tier coloring, and the
// historical recommendation derivation. They must stay in lockstep: a
// replayed investigation may never disagree with its live rendering.
const (
	scoreBreakLow    = 2.5
	scoreBreakMedium = 5.0
	scoreBreakHigh   = 7.5
)

// Tier classifies a score in [0,10] into 0..3, lowest to highest.
func Tier(score float64) int {
	switch {
	case score < scoreBreakLow:
		return 0
	case score < scoreBreakMedium:
		return 1
	case score < scoreBreakHigh:
		return 2
	default:
		return 3
	}
}

// RiskLevelForScore maps a score onto the four-tier scale.
func RiskLevelForScore(score float64) RiskLevel {
	return [...]RiskLevel{RiskLow, RiskMedium, RiskHigh, RiskCritical}[Tier(score)]
}

// RecommendationForScore derives the aggregate recommendation from an
// overall score. Used when replaying stored investigations, which do not
// persist the live recommendation.
func RecommendationForScore(score float64) Recommendation {
	return [...]Recommendation{
		RecommendApprove,
		RecommendConditional,
		RecommendInvestigateFurther,
		RecommendReject,
	}[Tier(score)]
}

// ParseRecommendation matches a wire value against the four known
// recommendations. Anything unrecognized falls back to
// INVESTIGATE_FURTHER rather than failing.
func ParseRecommendation(s string) Recommendation {
	switch Recommendation(s) {
	case RecommendApprove, RecommendConditional, RecommendInvestigateFurther, RecommendReject:
		return Recommendation(s)
	default:
		return RecommendInvestigateFurther
	}
}

// ParseRiskLevel matches a wire value against the four known levels,
// deriving from the score when the value is unrecognized.
func ParseRiskLevel(s string, score float64) RiskLevel {
	switch RiskLevel(s) {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return RiskLevel(s)
	default:
		return RiskLevelForScore(score)
	}
}
