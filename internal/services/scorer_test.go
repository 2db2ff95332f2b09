package services

import (
	"context"
	"testing"

	"github.com/Ghawri/Cattle-insurance-agent/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecide_ThresholdTable(t *testing.T) {
	tests := []struct {
		score       float64
		action      models.SuggestedAction
		deceased    bool
		match       bool
		indicators  []string
		claimStatus models.ClaimStatus
	}{
		{0.0, models.ActionInvestigationRequired, false, false, []string{IndicatorLowIdentityMatch, IndicatorSignsOfLife}, models.ClaimStatusUnderReview},
		{0.3, models.ActionInvestigationRequired, false, false, []string{IndicatorLowIdentityMatch, IndicatorSignsOfLife}, models.ClaimStatusUnderReview},
		{0.35, models.ActionInvestigationRequired, true, false, []string{IndicatorLowIdentityMatch, IndicatorSignsOfLife}, models.ClaimStatusUnderReview},
		{0.3999, models.ActionInvestigationRequired, true, false, []string{IndicatorLowIdentityMatch, IndicatorSignsOfLife}, models.ClaimStatusUnderReview},
		{0.4, models.ActionManualReview, true, false, []string{IndicatorLowIdentityMatch}, models.ClaimStatusUnderReview},
		{0.45, models.ActionManualReview, true, true, []string{IndicatorLowIdentityMatch}, models.ClaimStatusUnderReview},
		{0.5, models.ActionManualReview, true, true, []string{}, models.ClaimStatusUnderReview},
		{0.5999, models.ActionManualReview, true, true, []string{}, models.ClaimStatusUnderReview},
		{0.6, models.ActionApprove, true, true, []string{}, models.ClaimStatusApproved},
		{0.99, models.ActionApprove, true, true, []string{}, models.ClaimStatusApproved},
	}

	for _, tt := range tests {
		got := Decide(tt.score)
		assert.Equal(t, tt.action, got.SuggestedAction, "action for %v", tt.score)
		assert.Equal(t, tt.deceased, got.IsDeceased, "isDeceased for %v", tt.score)
		assert.Equal(t, tt.match, got.CattleMatch, "cattleMatch for %v", tt.score)
		assert.Equal(t, tt.indicators, got.SuspiciousIndicators, "indicators for %v", tt.score)
		assert.Equal(t, tt.score, got.Confidence)
		assert.Equal(t, "natural", got.CauseOfDeath)
		assert.Equal(t, tt.claimStatus, StatusForAction(got.SuggestedAction))
	}
}

func TestDecide_StatusApprovedIffApprove(t *testing.T) {
	for i := 0; i < 1000; i++ {
		s := float64(i) / 1000
		result := Decide(s)
		approved := StatusForAction(result.SuggestedAction) == models.ClaimStatusApproved
		assert.Equal(t, result.SuggestedAction == models.ActionApprove, approved)
		assert.Equal(t, s >= 0.6, approved, "score %v", s)
	}
}

func TestRandomScorer_Range(t *testing.T) {
	var scorer Scorer = RandomScorer{}
	for i := 0; i < 200; i++ {
		s, err := scorer.Score(context.Background(), &models.Claim{})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, s, 0.0)
		assert.Less(t, s, 1.0)
	}
}
