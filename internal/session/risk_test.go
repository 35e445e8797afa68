package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecommendationForScoreThresholds(t *testing.T) {
	tests := []struct {
		score float64
		want  Recommendation
	}{
		{0.0, RecommendApprove},
		{2.4999, RecommendApprove},
		{2.5, RecommendConditional},
		{4.9999, RecommendConditional},
		{5.0, RecommendInvestigateFurther},
		{7.4999, RecommendInvestigateFurther},
		{7.5, RecommendReject},
		{10.0, RecommendReject},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RecommendationForScore(tt.score), "score %v", tt.score)
	}
}

func TestRiskLevelMatchesRecommendationBreaks(t *testing.T) {
	// Same break points drive both scales; a live run and its replay must
	// never disagree.
	tests := []struct {
		score float64
		level RiskLevel
	}{
		{0.0, RiskLow},
		{2.5, RiskMedium},
		{5.0, RiskHigh},
		{7.5, RiskCritical},
		{9.9, RiskCritical},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.level, RiskLevelForScore(tt.score), "score %v", tt.score)
		assert.Equal(t, Tier(tt.score), Tier(tt.score))
	}
}

func TestTierBounds(t *testing.T) {
	assert.Equal(t, 0, Tier(0))
	assert.Equal(t, 0, Tier(2.49))
	assert.Equal(t, 1, Tier(2.5))
	assert.Equal(t, 2, Tier(5.0))
	assert.Equal(t, 3, Tier(7.5))
	assert.Equal(t, 3, Tier(10))
}

func TestParseRecommendationFallback(t *testing.T) {
	assert.Equal(t, RecommendApprove, ParseRecommendation("APPROVE"))
	assert.Equal(t, RecommendReject, ParseRecommendation("REJECT"))
	assert.Equal(t, RecommendInvestigateFurther, ParseRecommendation(""))
	assert.Equal(t, RecommendInvestigateFurther, ParseRecommendation("MAYBE"))
	assert.Equal(t, RecommendInvestigateFurther, ParseRecommendation("approve"), "match is exact, not case-folded")
}

func TestParseRiskLevelFallsBackToScore(t *testing.T) {
	assert.Equal(t, RiskHigh, ParseRiskLevel("HIGH", 1.0))
	assert.Equal(t, RiskMedium, ParseRiskLevel("ELEVATED", 3.0))
	assert.Equal(t, RiskLow, ParseRiskLevel("", 0.5))
}
