package services

import (
	"context"
	"math/rand"

	"github.com/Ghawri/Cattle-insurance-agent/internal/models"
)

const (
	IndicatorLowIdentityMatch = "Low confidence in cattle identity match"
	IndicatorSignsOfLife      = "Possible signs of life detected"

	defaultCauseOfDeath = "natural"
)

// Scorer produces a confidence in [0,1) that the claimed animal is dead and is
// the insured one. Decide turns the score into a verification result.
type Scorer interface {
	Score(ctx context.Context, claim *models.Claim) (float64, error)
}

// RandomScorer stands in for an inference model by drawing a uniform score.
type RandomScorer struct{}

func (RandomScorer) Score(context.Context, *models.Claim) (float64, error) {
	return rand.Float64(), nil
}

// FixedScorer always returns the same score.
type FixedScorer float64

func (f FixedScorer) Score(context.Context, *models.Claim) (float64, error) {
	return float64(f), nil
}

// Decide maps a confidence score onto the verification result.
//
//	s < 0.4        investigation_required
//	0.4 <= s < 0.6 manual_review
//	s >= 0.6       approve
func Decide(s float64) models.VerificationResult {
	result := models.VerificationResult{
		IsDeceased:           s > 0.3,
		Confidence:           s,
		CattleMatch:          s > 0.4,
		SuspiciousIndicators: []string{},
		SuggestedAction:      models.ActionApprove,
		CauseOfDeath:         defaultCauseOfDeath,
	}

	if s < 0.5 {
		result.SuspiciousIndicators = append(result.SuspiciousIndicators, IndicatorLowIdentityMatch)
	}
	switch {
	case s < 0.4:
		result.SuspiciousIndicators = append(result.SuspiciousIndicators, IndicatorSignsOfLife)
		result.SuggestedAction = models.ActionInvestigationRequired
	case s < 0.6:
		result.SuggestedAction = models.ActionManualReview
	}
	return result
}

// StatusForAction is the claim status a verification leaves behind.
func StatusForAction(action models.SuggestedAction) models.ClaimStatus {
	if action == models.ActionApprove {
		return models.ClaimStatusApproved
	}
	return models.ClaimStatusUnderReview
}
